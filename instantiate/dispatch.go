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

package instantiate

import (
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// dispatch handles the head residual conjunct per spec §4.4: positive atom,
// equality, or negated equality. tail is recursed into with each extended
// sigma. wantFirst stops the whole call after the first non-empty result,
// implementing the R-escape resolution from spec §9.
func dispatch(head formula.Formula, tail []formula.Formula, sigma *formula.Subst, relevant varSet, st *state.State, types *typetable.Table, h Heuristic, wantFirst bool) ([]*formula.Subst, error) {
	switch v := head.(type) {
	case formula.Pred:
		return dispatchPred(v, tail, sigma, relevant, st, types, h, wantFirst)
	case formula.Equ:
		return dispatchEqu(v, tail, sigma, relevant, st, types, h, wantFirst)
	case formula.Neg:
		eq, ok := v.Inner.(formula.Equ)
		if !ok {
			return nil, planerr.New(planerr.NotImplemented, "only negated equalities are supported as preconditions, got %s", head.String())
		}
		return dispatchNegEqu(eq, tail, sigma, relevant, st, types, h, wantFirst)
	default:
		return nil, planerr.New(planerr.FormulaTypeUnknown, "cannot instantiate conjunct of type %T", head)
	}
}

func dispatchPred(p formula.Pred, tail []formula.Formula, sigma *formula.Subst, relevant varSet, st *state.State, types *typetable.Table, h Heuristic, wantFirst bool) ([]*formula.Subst, error) {
	var results []*formula.Subst
	for _, atom := range st.AtomsOf(p.Predicate) {
		ext, newlyBound, ok, err := unifyArgs(p.Args, atom.Args, sigma)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		nextRelevant := relevant
		for _, v := range newlyBound {
			nextRelevant = nextRelevant.without(v)
		}
		sub, err := GetInstantiations(tail, ext, nextRelevant, st, types, h)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
		if wantFirst && len(results) > 0 {
			break
		}
	}
	return results, nil
}

// unifyArgs unifies params (from the operator's precondition atom, may
// contain variables) against args (a stored atom's ground arguments),
// extending sigma. It reports the variables newly bound by this call.
func unifyArgs(params, args []term.Term, sigma *formula.Subst) (ext *formula.Subst, newlyBound []term.Variable, ok bool, err error) {
	if len(params) != len(args) {
		return nil, nil, false, nil
	}
	ext = sigma.Copy()
	for i, p := range params {
		a := args[i]
		resolved, rerr := ext.ApplyToTerm(p)
		if rerr != nil {
			return nil, nil, false, rerr
		}
		switch rv := resolved.(type) {
		case term.Constant:
			ac, isConst := a.(term.Constant)
			if !isConst || !rv.Equals(ac) {
				return nil, nil, false, nil
			}
		case term.Variable:
			if rv.HasType() != a.HasType() {
				return nil, nil, false, planerr.New(planerr.NotImplemented, "mixed typed/untyped term binding %s / %s", rv, a)
			}
			if rv.HasType() && !typetable.SameType(rv.Type(), a.Type()) {
				return nil, nil, false, nil
			}
			if err := ext.Add(rv, a); err != nil {
				return nil, nil, false, err
			}
			newlyBound = append(newlyBound, rv)
		default:
			return nil, nil, false, planerr.New(planerr.FormulaTypeUnknown, "unknown term kind %T", resolved)
		}
	}
	return ext, newlyBound, true, nil
}

func dispatchEqu(e formula.Equ, tail []formula.Formula, sigma *formula.Subst, relevant varSet, st *state.State, types *typetable.Table, h Heuristic, wantFirst bool) ([]*formula.Subst, error) {
	l, err := sigma.ApplyToTerm(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := sigma.ApplyToTerm(e.Right)
	if err != nil {
		return nil, err
	}

	lc, lIsConst := l.(term.Constant)
	rc, rIsConst := r.(term.Constant)

	switch {
	case lIsConst && rIsConst:
		if !lc.Equals(rc) {
			return nil, nil
		}
		return GetInstantiations(tail, sigma, relevant, st, types, h)

	case lIsConst || rIsConst:
		var v term.Variable
		var c term.Constant
		if lIsConst {
			v, c = r.(term.Variable), lc
		} else {
			v, c = l.(term.Variable), rc
		}
		if v.HasType() != c.HasType() {
			return nil, planerr.New(planerr.NotImplemented, "mixed typed/untyped equality %s = %s", v, c)
		}
		if v.HasType() && !typetable.SameType(v.Type(), c.Type()) {
			return nil, nil
		}
		ext := sigma.Copy()
		if err := ext.Add(v, c); err != nil {
			return nil, err
		}
		return GetInstantiations(tail, ext, relevant.without(v), st, types, h)

	default:
		lv, rv := l.(term.Variable), r.(term.Variable)
		if lv.Equals(rv) {
			return GetInstantiations(tail, sigma, relevant, st, types, h)
		}
		if lv.HasType() != rv.HasType() {
			return nil, planerr.New(planerr.NotImplemented, "mixed typed/untyped equality %s = %s", lv, rv)
		}
		if lv.HasType() && !typetable.SameType(lv.Type(), rv.Type()) {
			return nil, nil
		}
		ext := sigma.Copy()
		if err := ext.Add(lv, rv); err != nil {
			return nil, err
		}
		return GetInstantiations(tail, ext, relevant.without(lv), st, types, h)
	}
}

func dispatchNegEqu(e formula.Equ, tail []formula.Formula, sigma *formula.Subst, relevant varSet, st *state.State, types *typetable.Table, h Heuristic, wantFirst bool) ([]*formula.Subst, error) {
	l, err := sigma.ApplyToTerm(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := sigma.ApplyToTerm(e.Right)
	if err != nil {
		return nil, err
	}

	lc, lIsConst := l.(term.Constant)
	rc, rIsConst := r.(term.Constant)

	switch {
	case lIsConst && rIsConst:
		// Both-ground is handled by the pre-processor; reaching here with
		// both sides resolved to constants means they were already found
		// ground-and-consistent (a != b) and dropped, so this path is
		// unreachable in a correctly functioning instantiator. Treat
		// defensively as already-satisfied rather than erroring.
		if lc.Equals(rc) {
			return nil, nil
		}
		return GetInstantiations(tail, sigma, relevant, st, types, h)

	case lIsConst || rIsConst:
		var v term.Variable
		var c term.Constant
		if lIsConst {
			v, c = r.(term.Variable), lc
		} else {
			v, c = l.(term.Variable), rc
		}
		var results []*formula.Subst
		for _, cand := range st.Constants() {
			if cand.Equals(c) {
				continue
			}
			if !typetable.Compatible(v, cand) {
				continue
			}
			ext := sigma.Copy()
			if err := ext.Add(v, cand); err != nil {
				return nil, err
			}
			sub, err := GetInstantiations(tail, ext, relevant.without(v), st, types, h)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
			if wantFirst && len(results) > 0 {
				break
			}
		}
		return results, nil

	default:
		lv, rv := l.(term.Variable), r.(term.Variable)
		if lv.Equals(rv) {
			// not (x = x) is never satisfiable.
			return nil, nil
		}
		var results []*formula.Subst
	outer:
		for _, c1 := range st.Constants() {
			if !typetable.Compatible(lv, c1) {
				continue
			}
			for _, c2 := range st.Constants() {
				if c1.Equals(c2) {
					continue
				}
				if !typetable.Compatible(rv, c2) {
					continue
				}
				ext := sigma.Copy()
				if err := ext.Add(lv, c1); err != nil {
					return nil, err
				}
				if err := ext.Add(rv, c2); err != nil {
					return nil, err
				}
				sub, err := GetInstantiations(tail, ext, relevant.without(lv).without(rv), st, types, h)
				if err != nil {
					return nil, err
				}
				results = append(results, sub...)
				if wantFirst && len(results) > 0 {
					break outer
				}
			}
		}
		return results, nil
	}
}
