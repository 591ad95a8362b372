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

// Package instantiate implements GetInstantiations: enumeration of every
// substitution that grounds an operator's head and preconditions and is
// satisfied in a given state. This is the core of the planner's search
// loop, since every expansion of a search node is one call to Operator.
package instantiate

import (
	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// varSet is a small copy-on-write set of variables still awaiting a
// binding. An empty varSet means the caller's relevant variables are all
// bound, which per spec §9's resolution of the "relevant-variables escape"
// question means "return the first satisfying extension found, do not
// enumerate the rest".
type varSet map[term.Variable]bool

func (vs varSet) without(v term.Variable) varSet {
	if !vs[v] {
		return vs
	}
	out := make(varSet, len(vs))
	for k := range vs {
		if k != v {
			out[k] = true
		}
	}
	return out
}

// Operator enumerates every substitution grounding op's head and
// preconditions that is satisfied in st, using types for type compatibility
// checks. Head parameters absent from the preconditions are pre-expanded
// over every well-typed constant in the state before the main instantiator
// runs (spec §4.4 "Head grounding"). The relevant set seeded here is every
// head parameter, per the design note resolving the R-escape question.
func Operator(op *domain.Operator, st *state.State, types *typetable.Table) ([]*formula.Subst, error) {
	return OperatorWithHeuristic(op, st, types, mostConstrainedFirst{})
}

// OperatorWithHeuristic is Operator with an explicit Heuristic, for
// experimentation with alternative orderings (spec §9).
func OperatorWithHeuristic(op *domain.Operator, st *state.State, types *typetable.Table, h Heuristic) ([]*formula.Subst, error) {
	inPreconditions := make(map[string]bool)
	for _, v := range formula.Variables(op.Preconditions) {
		inPreconditions[paramKey(v)] = true
	}

	var toGround []term.Variable
	for _, p := range op.Parameters {
		if !inPreconditions[paramKey(p)] {
			toGround = append(toGround, p)
		}
	}

	relevant := make(varSet, len(op.Parameters))
	for _, p := range op.Parameters {
		relevant[p] = true
	}
	// Head-grounded variables are bound before GetInstantiations ever runs,
	// so they are already satisfied relevant members; drop them now rather
	// than relying on dispatch to notice a variable it never bound itself.
	for _, v := range toGround {
		relevant = relevant.without(v)
	}

	starters, err := headCandidates(toGround, st, types, formula.New())
	if err != nil {
		return nil, err
	}

	var results []*formula.Subst
	for _, sigma0 := range starters {
		sub, err := GetInstantiations(op.Preconditions.Conjuncts, sigma0, relevant, st, types, h)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}
	return results, nil
}

func paramKey(v term.Variable) string { return v.String() }

// headCandidates returns the worklist of partial substitutions binding
// every variable in toGround to a well-typed constant from st, as the cross
// product over toGround in order. base is extended, never mutated.
func headCandidates(toGround []term.Variable, st *state.State, types *typetable.Table, base *formula.Subst) ([]*formula.Subst, error) {
	if len(toGround) == 0 {
		return []*formula.Subst{base}, nil
	}
	v, rest := toGround[0], toGround[1:]
	var out []*formula.Subst
	for _, cand := range st.Constants() {
		if !typetable.Compatible(v, cand) {
			continue
		}
		ext := base.Copy()
		if err := ext.Add(v, cand); err != nil {
			return nil, err
		}
		tails, err := headCandidates(rest, st, types, ext)
		if err != nil {
			return nil, err
		}
		out = append(out, tails...)
	}
	return out, nil
}

// GetInstantiations is the core instantiator described in spec §4.4: given
// a list of precondition formulas, a partial substitution sigma and the set
// of variables the caller still needs bound, it returns every extension of
// sigma that grounds and satisfies the conjuncts (and binds every relevant
// variable). If relevant is empty to start, only the first satisfying
// extension is returned.
func GetInstantiations(conjuncts []formula.Formula, sigma *formula.Subst, relevant varSet, st *state.State, types *typetable.Table, h Heuristic) ([]*formula.Subst, error) {
	residual, alive, err := dropSatisfiedGround(conjuncts, sigma, st)
	if err != nil {
		return nil, err
	}
	if !alive {
		// A ground conjunct was inconsistent: dead branch.
		return nil, nil
	}
	if len(residual) == 0 {
		return []*formula.Subst{sigma}, nil
	}

	ordered := orderResidual(h, residual, sigma, st)
	head, tail := ordered[0], ordered[1:]
	wantFirst := len(relevant) == 0

	return dispatch(head, tail, sigma, relevant, st, types, h, wantFirst)
}

// dropSatisfiedGround applies sigma to each conjunct; grounded-and-consistent
// conjuncts are dropped, grounded-and-inconsistent conjuncts kill the whole
// branch (alive is returned false, which the caller must check), and everything else (still has a free variable) is kept as-is
// so later recursion can re-resolve it against further bindings.
func dropSatisfiedGround(conjuncts []formula.Formula, sigma *formula.Subst, st *state.State) (residual []formula.Formula, alive bool, err error) {
	for _, c := range conjuncts {
		resolved, err := formula.ApplySubstitution(c, sigma)
		if err != nil {
			return nil, false, err
		}
		if formula.IsGround(resolved) {
			ok, err := st.IsConsistent(resolved)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			continue
		}
		residual = append(residual, c)
	}
	return residual, true, nil
}
