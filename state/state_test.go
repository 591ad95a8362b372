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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
)

func c(name string) term.Constant { return term.NewConstant(name) }

func pred(name string, args ...term.Term) formula.Pred {
	return formula.Pred{Predicate: term.PredicateSym{Name: name, Arity: len(args)}, Args: args}
}

func testState(t *testing.T) *State {
	t.Helper()
	s := New()
	atoms := []formula.Pred{
		pred("on", c("a"), c("b")),
		pred("on", c("b"), c("table")),
		pred("clear", c("a")),
		pred("handempty"),
	}
	for _, a := range atoms {
		added, err := s.Add(a)
		if err != nil {
			t.Fatalf("Add(%v): %v", a, err)
		}
		if !added {
			t.Fatalf("Add(%v) = false, want true", a)
		}
	}
	return s
}

func TestAddDuplicate(t *testing.T) {
	s := testState(t)
	added, err := s.Add(pred("clear", c("a")))
	if err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}
	if added {
		t.Errorf("Add(duplicate) = true, want false")
	}
}

func TestAddNonGround(t *testing.T) {
	s := New()
	_, err := s.Add(pred("on", term.NewVariable("?x"), c("b")))
	if !planerr.Is(err, planerr.StateNotAtom) {
		t.Errorf("Add(non-ground) error = %v, want E_STATE_NOT_ATOM", err)
	}
}

func TestContains(t *testing.T) {
	s := testState(t)
	if !s.Contains(pred("on", c("a"), c("b"))) {
		t.Errorf("Contains(on(a,b)) = false, want true")
	}
	if s.Contains(pred("on", c("b"), c("a"))) {
		t.Errorf("Contains(on(b,a)) = true, want false")
	}
}

func TestRemove(t *testing.T) {
	s := testState(t)
	removed, err := s.Remove(pred("clear", c("a")))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Errorf("Remove(clear(a)) = false, want true")
	}
	if s.Contains(pred("clear", c("a"))) {
		t.Errorf("clear(a) still present after Remove")
	}
	removed, err = s.Remove(pred("clear", c("a")))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Errorf("second Remove(clear(a)) = true, want false")
	}
}

func TestConstantsDiscoveryOrder(t *testing.T) {
	s := New()
	s.Add(pred("on", c("a"), c("b")))
	s.Add(pred("on", c("b"), c("table")))
	s.Add(pred("clear", c("a")))

	got := s.Constants()
	want := []term.Constant{c("a"), c("b"), c("table")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Constants() diff (-want +got):\n%s", diff)
	}
}

func TestConstantsInvalidatedByRemove(t *testing.T) {
	s := New()
	s.Add(pred("on", c("a"), c("b")))
	s.Add(pred("clear", c("a")))
	s.Remove(pred("on", c("a"), c("b")))

	got := s.Constants()
	want := []term.Constant{c("a")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Constants() after Remove diff (-want +got):\n%s", diff)
	}
}

func TestIsConsistentPred(t *testing.T) {
	s := testState(t)
	ok, err := s.IsConsistent(pred("on", c("a"), c("b")))
	if err != nil || !ok {
		t.Errorf("IsConsistent(on(a,b)) = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.IsConsistent(pred("on", c("b"), c("a")))
	if err != nil || ok {
		t.Errorf("IsConsistent(on(b,a)) = %v, %v, want false, nil", ok, err)
	}
}

func TestIsConsistentNonGround(t *testing.T) {
	s := testState(t)
	ok, err := s.IsConsistent(pred("on", term.NewVariable("?x"), c("b")))
	if err != nil || ok {
		t.Errorf("IsConsistent(non-ground) = %v, %v, want false, nil", ok, err)
	}
}

func TestIsConsistentEqu(t *testing.T) {
	s := testState(t)
	ok, err := s.IsConsistent(formula.Equ{Left: c("a"), Right: c("a")})
	if err != nil || !ok {
		t.Errorf("IsConsistent(a=a) = %v, %v, want true, nil", ok, err)
	}
	ok, err = s.IsConsistent(formula.Equ{Left: c("a"), Right: c("b")})
	if err != nil || ok {
		t.Errorf("IsConsistent(a=b) = %v, %v, want false, nil", ok, err)
	}
}

func TestIsConsistentNeg(t *testing.T) {
	s := testState(t)
	neg, err := formula.NewNeg(pred("on", c("b"), c("a")))
	if err != nil {
		t.Fatalf("NewNeg: %v", err)
	}
	ok, err := s.IsConsistent(neg)
	if err != nil || !ok {
		t.Errorf("IsConsistent(not on(b,a)) = %v, %v, want true, nil", ok, err)
	}
}

func TestIsConsistentConj(t *testing.T) {
	s := testState(t)
	conj, err := formula.NewConj(pred("on", c("a"), c("b")), pred("clear", c("a")))
	if err != nil {
		t.Fatalf("NewConj: %v", err)
	}
	ok, err := s.IsConsistent(conj)
	if err != nil || !ok {
		t.Errorf("IsConsistent(conj) = %v, %v, want true, nil", ok, err)
	}
}

func TestCouldBeConsistentPrunesImpossibleAtom(t *testing.T) {
	s := testState(t)
	// No "on" atom has table in its first position, so no extension of
	// on(table, ?y) can ever be satisfied.
	could := s.CouldBeConsistent(pred("on", c("table"), term.NewVariable("?y")))
	if could {
		t.Errorf("CouldBeConsistent(on(table,?y)) = true, want false")
	}
}

func TestCouldBeConsistentNeverRejectsSatisfiable(t *testing.T) {
	s := testState(t)
	could := s.CouldBeConsistent(pred("on", c("a"), term.NewVariable("?y")))
	if !could {
		t.Errorf("CouldBeConsistent(on(a,?y)) = false, want true (on(a,b) satisfies it)")
	}
}

func TestEqual(t *testing.T) {
	a := testState(t)
	b := New()
	b.Add(pred("handempty"))
	b.Add(pred("clear", c("a")))
	b.Add(pred("on", c("b"), c("table")))
	b.Add(pred("on", c("a"), c("b")))

	if !Equal(a, b) {
		t.Errorf("Equal(a, b) = false, want true for same atoms added in different order")
	}

	b.Add(pred("clear", c("b")))
	if Equal(a, b) {
		t.Errorf("Equal(a, b) = true after adding an extra atom to b, want false")
	}
}

func TestNextStateDeleteThenAdd(t *testing.T) {
	s := testState(t)
	negClearA, err := formula.NewNeg(pred("clear", c("a")))
	if err != nil {
		t.Fatal(err)
	}
	// Effect both removes and re-adds clear(a); STRIPS delete-then-add
	// convention means it survives into the successor.
	eff, err := formula.NewConj(negClearA, pred("clear", c("a")))
	if err != nil {
		t.Fatal(err)
	}
	next, err := s.NextState(pred("handempty"), eff)
	if err != nil {
		t.Fatalf("NextState: %v", err)
	}
	if !next.Contains(pred("clear", c("a"))) {
		t.Errorf("NextState: clear(a) missing from successor, want present (delete-then-add)")
	}
}

func TestNextStateIdempotentEffect(t *testing.T) {
	s := testState(t)
	eff, err := formula.NewConj(pred("clear", c("a")), pred("handempty"))
	if err != nil {
		t.Fatal(err)
	}
	next, err := s.NextState(pred("handempty"), eff)
	if err != nil {
		t.Fatalf("NextState: %v", err)
	}
	if !Equal(s, next) {
		t.Errorf("NextState with an already-true effect changed the state")
	}
}

func TestNextStateRejectsUnsatisfiedPrecondition(t *testing.T) {
	s := testState(t)
	_, err := s.NextState(pred("clear", c("b")), formula.Conj{})
	if !planerr.Is(err, planerr.OperNotApplicable) {
		t.Errorf("NextState() error = %v, want E_OPER_NOT_APPLICABLE", err)
	}
}

func TestNextStateDoesNotMutateOriginal(t *testing.T) {
	s := testState(t)
	negClearA, err := formula.NewNeg(pred("clear", c("a")))
	if err != nil {
		t.Fatal(err)
	}
	eff, err := formula.NewConj(negClearA)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.NextState(pred("handempty"), eff); err != nil {
		t.Fatalf("NextState: %v", err)
	}
	if !s.Contains(pred("clear", c("a"))) {
		t.Errorf("NextState mutated the receiver: clear(a) missing from original")
	}
}

func TestClone(t *testing.T) {
	s := testState(t)
	cl := s.Clone()
	cl.Remove(pred("clear", c("a")))

	if !s.Contains(pred("clear", c("a"))) {
		t.Errorf("Clone mutated the original: clear(a) missing from s")
	}
	if cl.Contains(pred("clear", c("a"))) {
		t.Errorf("clear(a) still present in clone after Remove")
	}
}
