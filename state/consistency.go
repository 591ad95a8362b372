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
	"github.com/go-strips/planner/term"
)

// IsConsistent evaluates a ground formula against s. A Pred holds iff it is
// stored (structural equality); an Equ holds iff both sides are the same
// constant; a Neg holds iff its inner formula does not; a Conj holds iff
// every conjunct does. A non-ground formula is never consistent -- the
// contract is "holds as-is", not "holds under some extension". Negating
// anything but a Pred or Equ is rejected with NegNotPred, though the
// canonical-form constructors in the formula package make that case
// unreachable for any formula built through this module.
func (s *State) IsConsistent(f formula.Formula) (bool, error) {
	if !formula.IsGround(f) {
		return false, nil
	}
	return s.isConsistentGround(f)
}

func (s *State) isConsistentGround(f formula.Formula) (bool, error) {
	switch v := f.(type) {
	case formula.Pred:
		return s.Contains(v), nil
	case formula.Equ:
		lc, lok := v.Left.(term.Constant)
		rc, rok := v.Right.(term.Constant)
		return lok && rok && lc.Equals(rc), nil
	case formula.Neg:
		switch v.Inner.(type) {
		case formula.Pred, formula.Equ:
			ok, err := s.isConsistentGround(v.Inner)
			if err != nil {
				return false, err
			}
			return !ok, nil
		default:
			return false, planerr.New(planerr.NegNotPred, "cannot evaluate negation of %T", v.Inner)
		}
	case formula.Conj:
		for _, c := range v.Conjuncts {
			ok, err := s.isConsistentGround(c)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, planerr.New(planerr.FormulaTypeUnknown, "unknown formula kind %T", f)
	}
}

// CouldBeConsistent is a necessary, not sufficient, filter used during
// search to discard branches early without fully instantiating them (spec
// §4.3): every ground conjunct must actually hold; every non-ground atom
// must have at least one stored atom agreeing on each of its already-bound
// (constant) argument positions; non-ground equalities and negated
// equalities are always treated as possibly satisfiable. This must never
// reject a formula that is in fact satisfiable -- callers use it only to
// prune, never to decide.
func (s *State) CouldBeConsistent(f formula.Formula) bool {
	for _, c := range formula.Conjuncts(f) {
		if !s.couldConjunctHold(c) {
			return false
		}
	}
	return true
}

func (s *State) couldConjunctHold(f formula.Formula) bool {
	switch v := f.(type) {
	case formula.Pred:
		if formula.IsGround(v) {
			ok, err := s.isConsistentGround(v)
			return err == nil && ok
		}
		fixed := make(map[int]term.Constant)
		for i, a := range v.Args {
			if c, ok := a.(term.Constant); ok {
				fixed[i] = c
			}
		}
		return s.CountMatching(v.Predicate, fixed) > 0
	case formula.Equ:
		if !formula.IsGround(v) {
			return true
		}
		ok, err := s.isConsistentGround(v)
		return err == nil && ok
	case formula.Neg:
		switch inner := v.Inner.(type) {
		case formula.Pred:
			if !formula.IsGround(inner) {
				return true
			}
		case formula.Equ:
			if !formula.IsGround(inner) {
				return true
			}
		}
		if formula.IsGround(v) {
			ok, err := s.isConsistentGround(v)
			return err == nil && ok
		}
		return true
	default:
		return true
	}
}
