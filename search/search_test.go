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

package search

import (
	"testing"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

func c(name string) term.Constant { return term.NewConstant(name) }

func pred(name string, args ...term.Term) formula.Pred {
	return formula.Pred{Predicate: term.PredicateSym{Name: name, Arity: len(args)}, Args: args}
}

// a-b-c path, connected both ways, so a naive search can loop a->b->a->b->...
// forever; the goal is only reachable from a by moving forward twice.
func pathProblem(t *testing.T) *domain.Problem {
	t.Helper()

	from := term.NewVariable("?from")
	to := term.NewVariable("?to")
	negAtFrom, err := formula.NewNeg(pred("at", from))
	if err != nil {
		t.Fatal(err)
	}
	pre, err := formula.NewConj(pred("at", from), pred("connected", from, to))
	if err != nil {
		t.Fatal(err)
	}
	eff, err := formula.NewConj(negAtFrom, pred("at", to))
	if err != nil {
		t.Fatal(err)
	}
	move := domain.Operator{
		Name:          "move",
		Parameters:    []term.Variable{from, to},
		Preconditions: pre,
		Effects:       eff,
	}

	preds := []term.PredicateSym{
		{Name: "at", Arity: 1},
		{Name: "connected", Arity: 2},
	}
	d, err := domain.New("path", domain.ReqStrips, typetable.New(), preds, []domain.Operator{move})
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}

	init := state.New()
	for _, atom := range []formula.Pred{
		pred("at", c("a")),
		pred("connected", c("a"), c("b")),
		pred("connected", c("b"), c("a")),
		pred("connected", c("b"), c("c")),
		pred("connected", c("c"), c("b")),
	} {
		if _, err := init.Add(atom); err != nil {
			t.Fatal(err)
		}
	}

	goal, err := formula.NewConj(pred("at", c("c")))
	if err != nil {
		t.Fatal(err)
	}

	p, err := domain.NewProblem("path-prob", "path", d, typetable.New(), init, goal)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func TestIterativeDeepeningFindsShortestPlan(t *testing.T) {
	p := pathProblem(t)
	plan, err := IterativeDeepening(p)
	if err != nil {
		t.Fatalf("IterativeDeepening: %v", err)
	}
	if plan == nil {
		t.Fatal("IterativeDeepening() = nil, want a 2-step plan")
	}
	if plan.Len() != 2 {
		t.Fatalf("IterativeDeepening() plan length = %d, want 2", plan.Len())
	}
	final := plan.States[len(plan.States)-1]
	if !final.Contains(pred("at", c("c"))) {
		t.Errorf("final state does not contain at(c): %s", final)
	}
}

func TestAtDepthTooShallowFindsNothing(t *testing.T) {
	p := pathProblem(t)
	plan, err := AtDepth(p, 1)
	if err != nil {
		t.Fatalf("AtDepth: %v", err)
	}
	if plan != nil {
		t.Errorf("AtDepth(1) = %v, want nil (goal needs 2 steps)", plan)
	}
}

func TestBreadthFirstFindsShortestPlan(t *testing.T) {
	p := pathProblem(t)
	plan, err := BreadthFirst(p)
	if err != nil {
		t.Fatalf("BreadthFirst: %v", err)
	}
	if plan == nil {
		t.Fatal("BreadthFirst() = nil, want a 2-step plan")
	}
	if plan.Len() != 2 {
		t.Fatalf("BreadthFirst() plan length = %d, want 2", plan.Len())
	}
}

func TestBreadthFirstNoPlanExhausts(t *testing.T) {
	p := pathProblem(t)
	goal, err := formula.NewConj(pred("at", c("nowhere")))
	if err != nil {
		t.Fatal(err)
	}
	p.Goal = goal

	plan, err := BreadthFirst(p)
	if err != nil {
		t.Fatalf("BreadthFirst: %v", err)
	}
	if plan != nil {
		t.Errorf("BreadthFirst() = %v, want nil (unreachable goal, repetition elimination must still terminate)", plan)
	}
}

func TestFormatStepFollowsVariableChain(t *testing.T) {
	x := term.NewVariable("?x")
	y := term.NewVariable("?y")
	op := domain.Operator{Name: "op", Parameters: []term.Variable{x}}

	sigma := formula.New()
	if err := sigma.Add(x, y); err != nil {
		t.Fatal(err)
	}
	if err := sigma.Add(y, c("a")); err != nil {
		t.Fatal(err)
	}

	got := FormatStep(&op, sigma)
	want := "( op a )"
	if got != want {
		t.Errorf("FormatStep() = %q, want %q (?x chains through ?y to the constant)", got, want)
	}
}

func TestFormatPlan(t *testing.T) {
	p := pathProblem(t)
	plan, err := IterativeDeepening(p)
	if err != nil {
		t.Fatalf("IterativeDeepening: %v", err)
	}
	got := FormatPlan(p.Domain, plan)
	want := "\t( move a b )\n\t( move b c )\n"
	if got != want {
		t.Errorf("FormatPlan() = %q, want %q", got, want)
	}
}
