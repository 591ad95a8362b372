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

// Package verify replays a plan against a problem step by step, checking
// that every step's preconditions hold before its effects are applied and
// that the final state satisfies the goal.
package verify

import (
	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
)

// Outcome is the result of replaying a plan against a problem.
type Outcome struct {
	// InvalidStep is the 0-based index of the first step whose
	// preconditions do not hold in the state reached so far, or -1 if every
	// step applied cleanly.
	InvalidStep int
	// GoalAchieved reports whether the state reached after every step
	// satisfies the problem's goal. Only meaningful when InvalidStep == -1.
	GoalAchieved bool
	// Final is the state reached after the last step that applied cleanly
	// (the initial state, if the plan is empty or its first step fails).
	Final *state.State
}

// Replay applies plan's steps in order from p's initial state, checking
// each step's preconditions before applying its effects. The first step
// whose preconditions fail stops the replay immediately, with InvalidStep
// set to that step's index and the remaining steps not attempted. A plan
// that applies cleanly end to end but whose final state does not satisfy
// the goal reports GoalAchieved = false rather than an error -- only a
// structurally malformed plan or problem produces a non-nil error here.
func Replay(p *domain.Problem, plan *domain.Plan) (*Outcome, error) {
	cur := p.Init
	for i, step := range plan.Steps {
		if step.OperIndex < 0 || step.OperIndex >= len(p.Domain.Operators) {
			return nil, planerr.New(planerr.IndexOutOfBounds, "step %d names operator index %d, domain has %d operators", i, step.OperIndex, len(p.Domain.Operators))
		}
		op := &p.Domain.Operators[step.OperIndex]

		pre, err := formula.ApplySubstitution(op.Preconditions, step.Subst)
		if err != nil {
			return nil, err
		}
		ok, err := cur.IsConsistent(pre)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Outcome{InvalidStep: i, Final: cur}, nil
		}

		eff, err := formula.ApplySubstitution(op.Effects, step.Subst)
		if err != nil {
			return nil, err
		}
		next, err := cur.NextState(pre, eff)
		if err != nil {
			if planerr.Is(err, planerr.OperNotApplicable) {
				return &Outcome{InvalidStep: i, Final: cur}, nil
			}
			return nil, err
		}
		cur = next
	}

	ok, err := cur.IsConsistent(p.Goal)
	if err != nil {
		return nil, err
	}
	return &Outcome{InvalidStep: -1, GoalAchieved: ok, Final: cur}, nil
}
