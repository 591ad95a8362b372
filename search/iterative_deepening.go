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

package search

import (
	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/instantiate"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
)

// MaxIterativeDepth is the deepest bound the iterative-deepening driver will
// try before giving up.
const MaxIterativeDepth = 100

// AtDepth runs one bounded-depth iteration of iterative deepening: every
// plan of length 1..maxDepth reachable from p's initial state is explored,
// depth-first, and the first one reaching the goal is returned. It does not
// special-case an already-satisfied goal (depth 0) -- callers that need the
// "Plan found at depth 0" case check that themselves before the first call,
// the same way the depth-0 branch in the original driver's main precedes
// its retry loop.
func AtDepth(p *domain.Problem, maxDepth int) (*domain.Plan, error) {
	return searchToDepth(p, p.Init, nil, nil, maxDepth)
}

// IterativeDeepening tries every depth bound from 1 up to MaxIterativeDepth
// in turn and returns the first plan found at the shallowest one, or nil if
// none exists within that bound. The depth-0 case (goal already satisfied)
// is checked first.
func IterativeDeepening(p *domain.Problem) (*domain.Plan, error) {
	ok, err := p.Init.IsConsistent(p.Goal)
	if err != nil {
		return nil, err
	}
	if ok {
		return &domain.Plan{States: []*state.State{p.Init}}, nil
	}
	for depth := 1; depth <= MaxIterativeDepth; depth++ {
		plan, err := AtDepth(p, depth)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}
	return nil, nil
}

// searchToDepth expands cur by every operator instantiation, checking each
// successor against the goal before deciding whether to recurse further.
// steps/states hold the path from the initial state down to cur; depthLeft
// is how many more operator applications are allowed past cur.
func searchToDepth(p *domain.Problem, cur *state.State, steps []domain.Step, states []*state.State, depthLeft int) (*domain.Plan, error) {
	for idx := range p.Domain.Operators {
		op := &p.Domain.Operators[idx]
		substs, err := instantiate.Operator(op, cur, p.Domain.Types)
		if err != nil {
			return nil, err
		}
		for _, sigma := range substs {
			next, err := applyStep(op, cur, sigma)
			if err != nil {
				if planerr.Is(err, planerr.OperNotApplicable) {
					continue
				}
				return nil, err
			}

			childSteps := append(append([]domain.Step{}, steps...), domain.Step{OperIndex: idx, Subst: sigma})
			childStates := append(append([]*state.State{}, states...), next)

			ok, err := next.IsConsistent(p.Goal)
			if err != nil {
				return nil, err
			}
			if ok {
				return &domain.Plan{
					Steps:  childSteps,
					States: append([]*state.State{p.Init}, childStates...),
				}, nil
			}
			if depthLeft > 1 {
				plan, err := searchToDepth(p, next, childSteps, childStates, depthLeft-1)
				if err != nil {
					return nil, err
				}
				if plan != nil {
					return plan, nil
				}
			}
		}
	}
	return nil, nil
}
