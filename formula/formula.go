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

// Package formula holds the canonical formula shapes this planner
// understands -- predicate atoms, equalities, their negations, and flat
// conjunctions of the former -- plus substitution and the structural
// operations (ground test, variable/constant collection, equality,
// implication) defined over them.
//
// The canonical form is enforced by construction: there is no way to build a
// Conj of Conjs, a Neg of a Conj, or a Neg of a Neg through this package's
// constructors.
package formula

import (
	"strings"

	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
)

// Formula is the closed tagged variant: Pred, Equ, Neg or Conj.
type Formula interface {
	isFormula()
	String() string
}

// Pred is an atom: a predicate symbol applied to arguments.
type Pred struct {
	Predicate term.PredicateSym
	Args      []term.Term
}

func (Pred) isFormula() {}

func (p Pred) String() string {
	var sb strings.Builder
	sb.WriteString(p.Predicate.Name)
	sb.WriteByte('(')
	for i, a := range p.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equ is an equality between two terms.
type Equ struct {
	Left, Right term.Term
}

func (Equ) isFormula() {}

func (e Equ) String() string {
	return "(= " + e.Left.String() + " " + e.Right.String() + ")"
}

// Neg is a negated atom or equality. The canonical form forbids negating
// anything else; NewNeg enforces this.
type Neg struct {
	Inner Formula // Pred or Equ
}

// NewNeg constructs a negation, rejecting anything but Pred or Equ per the
// canonical-form invariant (spec §3: "Neg(Pred) or Neg(Equ) only").
func NewNeg(inner Formula) (Neg, error) {
	switch inner.(type) {
	case Pred, Equ:
		return Neg{Inner: inner}, nil
	default:
		return Neg{}, planerr.New(planerr.NegNotPred, "cannot negate %T", inner)
	}
}

func (Neg) isFormula() {}

func (n Neg) String() string {
	return "(not " + n.Inner.String() + ")"
}

// Conj is a flat conjunction of Pred, Equ or Neg. Nested Conjs are rejected
// by NewConj so the canonical form is a static, constructor-enforced
// invariant rather than something callers must remember to check.
type Conj struct {
	Conjuncts []Formula
}

// NewConj builds a flat conjunction, rejecting nested conjunctions.
func NewConj(conjuncts ...Formula) (Conj, error) {
	for _, c := range conjuncts {
		if _, ok := c.(Conj); ok {
			return Conj{}, planerr.New(planerr.NotImplemented, "nested conjunctions are not supported")
		}
	}
	flat := make([]Formula, len(conjuncts))
	copy(flat, conjuncts)
	return Conj{Conjuncts: flat}, nil
}

func (Conj) isFormula() {}

func (c Conj) String() string {
	var sb strings.Builder
	sb.WriteString("(and")
	for _, cj := range c.Conjuncts {
		sb.WriteByte(' ')
		sb.WriteString(cj.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Conjuncts returns f's conjuncts, treating a bare literal as a one-element
// conjunction -- the convention spec §4.1 uses for Implies.
func Conjuncts(f Formula) []Formula {
	if c, ok := f.(Conj); ok {
		return c.Conjuncts
	}
	return []Formula{f}
}

// IsCanonical reports whether f is one of the four allowed shapes, with Neg
// restricted to Pred/Equ and Conj flat (non-nested). Since the only way to
// construct a Neg or Conj through this package is via NewNeg/NewConj, a
// Formula built entirely through this package is always canonical; this
// check exists for values that might have been assembled by hand (e.g. in
// tests) or reconstructed from serialized data.
func IsCanonical(f Formula) bool {
	switch v := f.(type) {
	case Pred, Equ:
		return true
	case Neg:
		switch v.Inner.(type) {
		case Pred, Equ:
			return true
		default:
			return false
		}
	case Conj:
		for _, c := range v.Conjuncts {
			switch cv := c.(type) {
			case Pred, Equ:
			case Neg:
				switch cv.Inner.(type) {
				case Pred, Equ:
				default:
					return false
				}
			default:
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsGround reports whether f contains no variables.
func IsGround(f Formula) bool {
	switch v := f.(type) {
	case Pred:
		for _, a := range v.Args {
			if _, ok := a.(term.Variable); ok {
				return false
			}
		}
		return true
	case Equ:
		_, lv := v.Left.(term.Variable)
		_, rv := v.Right.(term.Variable)
		return !lv && !rv
	case Neg:
		return IsGround(v.Inner)
	case Conj:
		for _, c := range v.Conjuncts {
			if !IsGround(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Variables returns every distinct variable appearing in f, in first-
// encountered order.
func Variables(f Formula) []term.Variable {
	var out []term.Variable
	seen := make(map[term.Variable]bool)
	add := func(t term.Term) {
		if v, ok := t.(term.Variable); ok {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	var walk func(Formula)
	walk = func(f Formula) {
		switch v := f.(type) {
		case Pred:
			for _, a := range v.Args {
				add(a)
			}
		case Equ:
			add(v.Left)
			add(v.Right)
		case Neg:
			walk(v.Inner)
		case Conj:
			for _, c := range v.Conjuncts {
				walk(c)
			}
		}
	}
	walk(f)
	return out
}

// Constants returns every distinct constant appearing in f, in first-
// encountered order.
func Constants(f Formula) []term.Constant {
	var out []term.Constant
	seen := make(map[term.Constant]bool)
	add := func(t term.Term) {
		if c, ok := t.(term.Constant); ok {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	var walk func(Formula)
	walk = func(f Formula) {
		switch v := f.(type) {
		case Pred:
			for _, a := range v.Args {
				add(a)
			}
		case Equ:
			add(v.Left)
			add(v.Right)
		case Neg:
			walk(v.Inner)
		case Conj:
			for _, c := range v.Conjuncts {
				walk(c)
			}
		}
	}
	walk(f)
	return out
}

func termsEqual(a, b term.Term) bool {
	return a.Equals(b)
}

// Equal is structural equality between formulas.
func Equal(a, b Formula) bool {
	switch av := a.(type) {
	case Pred:
		bv, ok := b.(Pred)
		if !ok || !av.Predicate.Equals(bv.Predicate) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !termsEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case Equ:
		bv, ok := b.(Equ)
		return ok && termsEqual(av.Left, bv.Left) && termsEqual(av.Right, bv.Right)
	case Neg:
		bv, ok := b.(Neg)
		return ok && Equal(av.Inner, bv.Inner)
	case Conj:
		bv, ok := b.(Conj)
		if !ok || len(av.Conjuncts) != len(bv.Conjuncts) {
			return false
		}
		for i := range av.Conjuncts {
			if !Equal(av.Conjuncts[i], bv.Conjuncts[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsConjunct(haystack []Formula, needle Formula) bool {
	for _, h := range haystack {
		if Equal(h, needle) {
			return true
		}
	}
	return false
}

// Implies reports whether a implies b: every conjunct of b (a singleton
// literal counts as a one-element conjunction) must appear among a's
// conjuncts. Both arguments must be in canonical form.
func Implies(a, b Formula) (bool, error) {
	if !IsCanonical(a) || !IsCanonical(b) {
		return false, planerr.New(planerr.NotImplemented, "implies is only defined for canonical formulas")
	}
	aConj := Conjuncts(a)
	for _, bc := range Conjuncts(b) {
		if !containsConjunct(aConj, bc) {
			return false, nil
		}
	}
	return true, nil
}
