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

package state

import (
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
)

// NextState applies a ground effect conjunction to s and returns the
// successor state, leaving s untouched. head and preconditions must already
// be ground and consistent in s -- callers check this themselves (the
// instantiator only ever hands back substitutions satisfying that
// invariant), but NextState re-checks as a last line of defense and fails
// with OperNotApplicable rather than silently producing a bad successor.
//
// Effects are applied delete-then-add (spec §4.5): every negated conjunct
// is removed first, then every positive conjunct is added, so an effect
// that both removes and re-adds the same atom leaves it present in the
// successor.
func (s *State) NextState(groundPreconditions, groundEffects formula.Formula) (*State, error) {
	if !formula.IsGround(groundPreconditions) || !formula.IsGround(groundEffects) {
		return nil, planerr.New(planerr.OperNotApplicable, "the selected operator instance is not ground")
	}
	ok, err := s.IsConsistent(groundPreconditions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, planerr.New(planerr.OperNotApplicable, "the selected operator is not applicable to the selected state")
	}

	next := s.Clone()
	for _, c := range formula.Conjuncts(groundEffects) {
		if neg, ok := c.(formula.Neg); ok {
			p, ok := neg.Inner.(formula.Pred)
			if !ok {
				return nil, planerr.New(planerr.NegNotPred, "effects may only negate predicates, got %s", neg.Inner.String())
			}
			if _, err := next.Remove(p); err != nil {
				return nil, err
			}
		}
	}
	for _, c := range formula.Conjuncts(groundEffects) {
		if p, ok := c.(formula.Pred); ok {
			if _, err := next.Add(p); err != nil {
				return nil, err
			}
		}
	}
	return next, nil
}
