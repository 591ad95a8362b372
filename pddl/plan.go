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

package pddl

import (
	"strings"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
)

// ParsePlan reads a plan in the verifier's input format:
//
//	(defplan DOMAIN-NAME PLAN-NAME (OP arg...)...)
//
// Each action's operator name is resolved to its 0-based index in p's
// domain, and its arguments are bound positionally to that operator's
// parameter list, exactly as strips_solution.cpp's string constructor
// does. The returned Plan's Steps are ready for verify.Replay; States is
// left empty since nothing has been applied yet.
func ParsePlan(src string, p *domain.Problem) (*domain.Plan, error) {
	r := newReader(src)
	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	if err := r.expect("defplan"); err != nil {
		return nil, err
	}
	domainName, err := r.readName()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(domainName, p.Domain.Name) {
		return nil, planerr.New(planerr.DomainMismatch, "plan names domain %s, loaded domain is %s", domainName, p.Domain.Name)
	}
	if _, err := r.readName(); err != nil { // plan name, not otherwise used
		return nil, err
	}

	var steps []domain.Step
	for r.peekIs("(") {
		r.next()
		opName, err := r.readName()
		if err != nil {
			return nil, err
		}
		idx := p.Domain.OperIndexByName(opName)
		if idx < 0 {
			return nil, planerr.New(planerr.ParseExpected, "plan names unknown operator %s", opName)
		}
		op := &p.Domain.Operators[idx]

		sigma := formula.New()
		for _, param := range op.Parameters {
			t, err := readTerm(r, p.Objects)
			if err != nil {
				return nil, err
			}
			if err := sigma.Add(param, t); err != nil {
				return nil, err
			}
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		steps = append(steps, domain.Step{OperIndex: idx, Subst: sigma})
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	return &domain.Plan{Steps: steps}, nil
}
