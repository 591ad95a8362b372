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

// Package search implements the two plan-finding drivers: bounded-depth
// iterative deepening and breadth-first search with loop elimination. Both
// drivers expand a search node by calling instantiate.Operator once per
// domain operator and state.State.NextState once per returned substitution;
// neither driver knows anything about instantiation or state representation
// beyond that.
package search

import (
	"strings"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
)

// applyStep grounds op's preconditions and effects under sigma and computes
// the resulting state. It returns an OperNotApplicable error (never a panic
// or a nil, ok-less state) when sigma does not in fact satisfy op's
// preconditions in cur -- callers that only want applicable instantiations
// should have already filtered to substitutions instantiate.Operator
// returned, so this should never fire in practice, but NextState re-checks
// regardless.
func applyStep(op *domain.Operator, cur *state.State, sigma *formula.Subst) (*state.State, error) {
	pre, err := formula.ApplySubstitution(op.Preconditions, sigma)
	if err != nil {
		return nil, err
	}
	eff, err := formula.ApplySubstitution(op.Effects, sigma)
	if err != nil {
		return nil, err
	}
	return cur.NextState(pre, eff)
}

// FormatStep renders one plan step as "( name arg1 arg2 ... )", the format
// both drivers' "plan found" output and the breadth-first expansion log use.
// A constant argument is printed by name alone, without its type. Parameters are resolved with ApplyToTerm, not Get, so a parameter bound to
// another variable by an equality precondition (sigma chains through it
// rather than landing on a constant directly) still prints the constant at
// the end of the chain instead of the intermediate variable name.
func FormatStep(op *domain.Operator, sigma *formula.Subst) string {
	parts := make([]string, 0, len(op.Parameters)+1)
	parts = append(parts, op.Name)
	for _, p := range op.Parameters {
		t, err := sigma.ApplyToTerm(p)
		if err != nil {
			t = p
		}
		if c, ok := t.(term.Constant); ok {
			parts = append(parts, c.Name)
			continue
		}
		parts = append(parts, t.String())
	}
	return "( " + strings.Join(parts, " ") + " )"
}

// FormatPlan renders every step of plan on its own tab-indented line, in the
// CLI output format spec'd for both search drivers' success case.
func FormatPlan(d *domain.Domain, plan *domain.Plan) string {
	var b strings.Builder
	for _, step := range plan.Steps {
		op := &d.Operators[step.OperIndex]
		b.WriteString("\t")
		b.WriteString(FormatStep(op, step.Subst))
		b.WriteString("\n")
	}
	return b.String()
}

// statesRepeat reports whether the last state in states already occurred
// earlier in the same sequence -- the repetition check both drivers use to
// avoid looping back through a state already visited on the current path.
func statesRepeat(states []*state.State) bool {
	last := states[len(states)-1]
	for _, s := range states[:len(states)-1] {
		if state.Equal(s, last) {
			return true
		}
	}
	return false
}
