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
	"sort"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
)

// bucket orders the three conjunct shapes by estimated branching factor,
// smallest first (spec §4.4): equalities first, then atoms, then negations
// last -- matching state.cpp's FormulaPMostSpecified, which sorts
// EQU < PRED < NEG so every positive atom binds its variables before any
// negation is considered, leaving only genuinely-unresolvable negations to
// reach the head conjunct while still non-ground.
const (
	bucketEquality = iota
	bucketAtom
	bucketNeg
)

// rank is the sort key the ordering heuristic computes for one residual
// conjunct. Smaller sorts first.
type rank struct {
	bucket       int
	matchCount   int // atoms only: stored candidates agreeing on bound positions
	numConstants int
	numVariables int
}

func less(a, b rank) bool {
	if a.bucket != b.bucket {
		return a.bucket < b.bucket
	}
	if a.bucket == bucketAtom && a.matchCount != b.matchCount {
		return a.matchCount < b.matchCount
	}
	if a.numConstants != b.numConstants {
		return a.numConstants > b.numConstants // more constants first
	}
	return a.numVariables < b.numVariables // fewer variables first
}

// Heuristic scores a residual conjunct for ordering purposes. It exists as
// an interface, per spec §9, so the most-constrained-first policy can be
// swapped out for experimentation; correctness of GetInstantiations never
// depends on which Heuristic is installed, only on the partition into
// ground/non-ground conjuncts done before ordering.
type Heuristic interface {
	Rank(c formula.Formula, sigma *formula.Subst, st *state.State) rank
}

// mostConstrainedFirst is the default Heuristic, implementing spec §4.4's
// ordering rules exactly.
type mostConstrainedFirst struct{}

func (mostConstrainedFirst) Rank(c formula.Formula, sigma *formula.Subst, st *state.State) rank {
	switch v := c.(type) {
	case formula.Equ:
		return rank{bucket: bucketEquality, numConstants: countConstants(v.Left, v.Right), numVariables: countVariables(v.Left, v.Right)}
	case formula.Pred:
		fixed := make(map[int]term.Constant)
		nconst, nvar := 0, 0
		for i, a := range v.Args {
			resolved, err := sigma.ApplyToTerm(a)
			if err != nil {
				resolved = a
			}
			if c, ok := resolved.(term.Constant); ok {
				fixed[i] = c
				nconst++
			} else {
				nvar++
			}
		}
		return rank{bucket: bucketAtom, matchCount: st.CountMatching(v.Predicate, fixed), numConstants: nconst, numVariables: nvar}
	case formula.Neg:
		if eq, ok := v.Inner.(formula.Equ); ok {
			return rank{bucket: bucketNeg, numConstants: countConstants(eq.Left, eq.Right), numVariables: countVariables(eq.Left, eq.Right)}
		}
		// A non-ground negated predicate (e.g. (not (visited ?x)) before ?x
		// is bound) is legal input under :negative-preconditions; it is
		// ranked after every positive atom so those bind ?x first, leaving
		// only a negation nothing else can ground to reach the head
		// conjunct (and thence E_NOT_IMPLEMENTED).
		if p, ok := v.Inner.(formula.Pred); ok {
			return rank{bucket: bucketNeg, numConstants: countConstants(p.Args...), numVariables: countVariables(p.Args...)}
		}
		return rank{bucket: bucketNeg}
	default:
		return rank{bucket: bucketNeg}
	}
}

func countConstants(ts ...term.Term) int {
	n := 0
	for _, t := range ts {
		if _, ok := t.(term.Constant); ok {
			n++
		}
	}
	return n
}

func countVariables(ts ...term.Term) int {
	n := 0
	for _, t := range ts {
		if _, ok := t.(term.Variable); ok {
			n++
		}
	}
	return n
}

type ranked struct {
	conjunct formula.Formula
	rank     rank
}

// orderResidual re-sorts conjuncts by h's rank, stably (spec §5: the
// heuristic is a stable sort, part of the planner's overall determinism).
func orderResidual(h Heuristic, conjuncts []formula.Formula, sigma *formula.Subst, st *state.State) []formula.Formula {
	pairs := make([]ranked, len(conjuncts))
	for i, c := range conjuncts {
		pairs[i] = ranked{conjunct: c, rank: h.Rank(c, sigma, st)}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return less(pairs[i].rank, pairs[j].rank)
	})
	out := make([]formula.Formula, len(pairs))
	for i, p := range pairs {
		out[i] = p.conjunct
	}
	return out
}
