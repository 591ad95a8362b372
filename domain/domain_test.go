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

package domain

import (
	"testing"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

func mkPred(name string, args ...term.Term) formula.Pred {
	return formula.Pred{Predicate: term.PredicateSym{Name: name, Arity: len(args)}, Args: args}
}

func TestNewValidOperator(t *testing.T) {
	x := term.NewVariable("?x")
	pre, err := formula.NewConj(mkPred("at", x))
	if err != nil {
		t.Fatal(err)
	}
	negAtX, err := formula.NewNeg(mkPred("at", x))
	if err != nil {
		t.Fatal(err)
	}
	eff, err := formula.NewConj(negAtX, mkPred("at", term.NewConstant("B")))
	if err != nil {
		t.Fatal(err)
	}
	op := Operator{Name: "move", Parameters: []term.Variable{x}, Preconditions: pre, Effects: eff}

	d, err := New("movers", ReqStrips, typetable.New(), nil, []Operator{op})
	if err != nil {
		t.Fatalf("New domain: %v", err)
	}
	if idx := d.OperIndexByName("Move"); idx != 0 {
		t.Errorf("OperIndexByName(Move) = %d, want 0", idx)
	}
	if idx := d.OperIndexByName("nope"); idx != -1 {
		t.Errorf("OperIndexByName(nope) = %d, want -1", idx)
	}
}

func TestValidateRejectsUnboundEffectVariable(t *testing.T) {
	x := term.NewVariable("?x")
	y := term.NewVariable("?y") // occurs only in effects
	pre, _ := formula.NewConj(mkPred("at", x))
	eff, _ := formula.NewConj(mkPred("seen", y))
	op := Operator{Name: "bad", Parameters: []term.Variable{x}, Preconditions: pre, Effects: eff}

	_, err := New("d", ReqStrips, typetable.New(), nil, []Operator{op})
	if !planerr.Is(err, planerr.NotImplemented) {
		t.Errorf("New() error = %v, want E_NOT_IMPLEMENTED", err)
	}
}

func TestValidateRejectsNegatedEquality(t *testing.T) {
	x := term.NewVariable("?x")
	pre, _ := formula.NewConj(mkPred("at", x))
	negEqu, err := formula.NewNeg(formula.Equ{Left: x, Right: term.NewConstant("home")})
	if err != nil {
		t.Fatal(err)
	}
	eff, _ := formula.NewConj(negEqu)
	op := Operator{Name: "bad", Parameters: []term.Variable{x}, Preconditions: pre, Effects: eff}

	_, err = New("d", ReqStrips, typetable.New(), nil, []Operator{op})
	if !planerr.Is(err, planerr.NotImplemented) {
		t.Errorf("New() error = %v, want E_NOT_IMPLEMENTED", err)
	}
}

func TestValidateAccumulatesMultipleErrors(t *testing.T) {
	y := term.NewVariable("?y")
	eff, _ := formula.NewConj(mkPred("seen", y))
	op1 := Operator{Name: "bad1", Effects: eff}
	op2 := Operator{Name: "bad2", Effects: eff}

	_, err := New("d", ReqStrips, typetable.New(), nil, []Operator{op1, op2})
	if err == nil {
		t.Fatal("New() = nil error, want accumulated errors for both operators")
	}
	if got := len(splitMultierr(err)); got < 2 {
		t.Errorf("got %d accumulated errors, want at least 2", got)
	}
}

func splitMultierr(err error) []error {
	type unwrapper interface{ Unwrap() []error }
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return []error{err}
}

func TestNewRejectsMixedTypedAndUntypedParameters(t *testing.T) {
	typedX := term.NewTypedVariable("?x", "block")
	untypedY := term.NewVariable("?y")
	pre, _ := formula.NewConj(mkPred("at", typedX), mkPred("near", untypedY))
	op := Operator{Name: "bad", Parameters: []term.Variable{typedX, untypedY}, Preconditions: pre, Effects: formula.Conj{}}

	_, err := New("d", ReqStrips, typetable.New(), nil, []Operator{op})
	if !planerr.Is(err, planerr.NotImplemented) {
		t.Errorf("New() error = %v, want E_NOT_IMPLEMENTED for mixed typed/untyped parameters", err)
	}
}

func TestNewRejectsMixedTypedConstantsAndUntypedParameters(t *testing.T) {
	x := term.NewVariable("?x")
	pre, _ := formula.NewConj(mkPred("at", x))
	op := Operator{Name: "move", Parameters: []term.Variable{x}, Preconditions: pre, Effects: formula.Conj{}}

	types := typetable.New()
	types.Declare("home", "room")

	_, err := New("d", ReqStrips, types, nil, []Operator{op})
	if !planerr.Is(err, planerr.NotImplemented) {
		t.Errorf("New() error = %v, want E_NOT_IMPLEMENTED for a typed constant alongside an untyped parameter", err)
	}
}

func TestNewAcceptsUniformlyTypedDomain(t *testing.T) {
	x := term.NewTypedVariable("?x", "block")
	pre, _ := formula.NewConj(mkPred("at", x))
	op := Operator{Name: "move", Parameters: []term.Variable{x}, Preconditions: pre, Effects: formula.Conj{}}

	types := typetable.New()
	types.Declare("a", "block")

	if _, err := New("d", ReqStrips|ReqTyping, types, nil, []Operator{op}); err != nil {
		t.Errorf("New() = %v, want a uniformly-typed domain to load cleanly", err)
	}
}

func TestNewProblemDomainMismatch(t *testing.T) {
	d, err := New("blocks", ReqStrips, typetable.New(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewProblem("prob1", "other-domain", d, typetable.New(), state.New(), mkPred("goal"))
	if !planerr.Is(err, planerr.DomainMismatch) {
		t.Errorf("NewProblem() error = %v, want E_DOMAIN_MISMATCH", err)
	}
}

func TestNewProblemOK(t *testing.T) {
	d, err := New("blocks", ReqStrips, typetable.New(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProblem("prob1", "Blocks", d, typetable.New(), state.New(), mkPred("goal"))
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	if p.Domain != d {
		t.Errorf("NewProblem: Domain not wired through")
	}
}
