// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import (
	"strings"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/typetable"
)

// Problem pairs a domain with a concrete initial state, goal and object
// typing, as parsed from a PDDL problem's :objects/:init/:goal blocks.
type Problem struct {
	Name    string
	Domain  *Domain
	Objects *typetable.Table
	Init    *state.State
	Goal    formula.Formula
}

// NewProblem builds a Problem, rejecting it with DomainMismatch if
// domainName does not name d (spec §7: "problem references a different
// domain name").
func NewProblem(name, domainName string, d *Domain, objects *typetable.Table, init *state.State, goal formula.Formula) (*Problem, error) {
	if !strings.EqualFold(domainName, d.Name) {
		return nil, planerr.New(planerr.DomainMismatch, "problem %s references domain %s, loaded domain is %s", name, domainName, d.Name)
	}
	return &Problem{
		Name:    name,
		Domain:  d,
		Objects: objects,
		Init:    init,
		Goal:    goal,
	}, nil
}

// Step is one application of an operator in a Plan: the operator's index in
// the owning Domain, and the ground substitution that was applied.
type Step struct {
	OperIndex int
	Subst     *formula.Subst
}

// Plan is a sequence of operator applications plus the state reached after
// each one, as produced by a search driver or replayed by the verifier.
type Plan struct {
	Steps  []Step
	States []*state.State // len(States) == len(Steps)+1; States[0] is the initial state
}

// Len returns the number of steps in the plan.
func (p *Plan) Len() int { return len(p.Steps) }
