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

package formula

import (
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
)

// maxChainDepth bounds substitution chain resolution. The source this
// planner is modeled on resolves chains lazily instead of doing an occurs
// check; we preserve that behavior rather than introducing one (spec §9).
const maxChainDepth = 32

// Subst is a partial mapping from variables to terms. It is a value object:
// Copy produces an independent clone, and callers extend a substitution by
// taking a Copy and calling Add on it rather than mutating a shared one,
// except where the instantiator explicitly threads one substitution through
// a single branch of its search.
type Subst struct {
	bindings map[term.Variable]term.Term
}

// New returns an empty substitution.
func New() *Subst {
	return &Subst{bindings: make(map[term.Variable]term.Term)}
}

// Get returns the term v is bound to, and whether it is bound at all. It
// does not follow chains; use ApplyToTerm for that.
func (s *Subst) Get(v term.Variable) (term.Term, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Domain returns every bound variable, in no particular order.
func (s *Subst) Domain() []term.Variable {
	out := make([]term.Variable, 0, len(s.bindings))
	for v := range s.bindings {
		out = append(out, v)
	}
	return out
}

// Len reports how many variables are bound.
func (s *Subst) Len() int { return len(s.bindings) }

// Add extends the substitution with v ↦ t. It fails if v is already bound.
func (s *Subst) Add(v term.Variable, t term.Term) error {
	if _, ok := s.bindings[v]; ok {
		return planerr.New(planerr.SubstDuplicate, "variable %s is already bound", v)
	}
	s.bindings[v] = t
	return nil
}

// Replace rewrites every codomain entry equal to a into b (spec §4.2). The
// instantiator does not call it: it unifies two unbound variables by binding
// one to the other with Add, and ApplyToTerm follows the resulting chain.
func (s *Subst) Replace(a, b term.Term) {
	for k, v := range s.bindings {
		if v.Equals(a) {
			s.bindings[k] = b
		}
	}
}

// Copy returns an independent structural clone.
func (s *Subst) Copy() *Subst {
	cp := make(map[term.Variable]term.Term, len(s.bindings))
	for k, v := range s.bindings {
		cp[k] = v
	}
	return &Subst{bindings: cp}
}

// ApplyToTerm resolves t through the substitution: a constant passes
// through unchanged; a bound variable follows the chain until it reaches an
// unbound variable or a constant, up to maxChainDepth hops, after which it
// fails with SubstTooDeep.
func (s *Subst) ApplyToTerm(t term.Term) (term.Term, error) {
	return s.applyToTermDepth(t, 0)
}

func (s *Subst) applyToTermDepth(t term.Term, depth int) (term.Term, error) {
	switch v := t.(type) {
	case term.Constant:
		return v, nil
	case term.Variable:
		bound, ok := s.bindings[v]
		if !ok {
			return v, nil
		}
		if depth+1 > maxChainDepth {
			return nil, planerr.New(planerr.SubstTooDeep, "substitution chain for %s exceeded depth %d", v, maxChainDepth)
		}
		return s.applyToTermDepth(bound, depth+1)
	default:
		return nil, planerr.New(planerr.FormulaTypeUnknown, "unknown term kind %T", t)
	}
}

// ApplySubstitution returns a new formula with every variable replaced by
// its binding (resolved through ApplyToTerm), recursively. The result
// preserves the canonical shape of f: it is ground wherever f's variables
// were all bound, and preserves whatever Pred/Equ/Neg/Conj structure f had.
func ApplySubstitution(f Formula, s *Subst) (Formula, error) {
	switch v := f.(type) {
	case Pred:
		args := make([]term.Term, len(v.Args))
		for i, a := range v.Args {
			t, err := s.ApplyToTerm(a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return Pred{Predicate: v.Predicate, Args: args}, nil
	case Equ:
		l, err := s.ApplyToTerm(v.Left)
		if err != nil {
			return nil, err
		}
		r, err := s.ApplyToTerm(v.Right)
		if err != nil {
			return nil, err
		}
		return Equ{Left: l, Right: r}, nil
	case Neg:
		inner, err := ApplySubstitution(v.Inner, s)
		if err != nil {
			return nil, err
		}
		return Neg{Inner: inner}, nil
	case Conj:
		out := make([]Formula, len(v.Conjuncts))
		for i, c := range v.Conjuncts {
			r, err := ApplySubstitution(c, s)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return Conj{Conjuncts: out}, nil
	default:
		return nil, planerr.New(planerr.FormulaTypeUnknown, "unknown formula kind %T", f)
	}
}
