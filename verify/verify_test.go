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

package verify

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

// pathProblem builds a three-location path a-b-c (connected one way only,
// a->b->c) with a single "move" operator, so a plan of move(a,b), move(b,c)
// reaches the goal and any other action ordering does not.
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
		pred("connected", c("b"), c("c")),
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

func moveStep(from, to string) domain.Step {
	sigma := formula.New()
	sigma.Add(term.NewVariable("?from"), c(from))
	sigma.Add(term.NewVariable("?to"), c(to))
	return domain.Step{OperIndex: 0, Subst: sigma}
}

func TestReplaySuccess(t *testing.T) {
	p := pathProblem(t)
	plan := &domain.Plan{Steps: []domain.Step{moveStep("a", "b"), moveStep("b", "c")}}

	out, err := Replay(p, plan)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if out.InvalidStep != -1 {
		t.Fatalf("InvalidStep = %d, want -1", out.InvalidStep)
	}
	if !out.GoalAchieved {
		t.Errorf("GoalAchieved = false, want true")
	}
}

func TestReplayInvalidAction(t *testing.T) {
	p := pathProblem(t)
	// Second action's precondition (connected(c,?) / at(c)) does not hold:
	// after move(a,b) the planner is at b, not c.
	plan := &domain.Plan{Steps: []domain.Step{moveStep("a", "b"), moveStep("c", "a")}}

	out, err := Replay(p, plan)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if out.InvalidStep != 1 {
		t.Fatalf("InvalidStep = %d, want 1", out.InvalidStep)
	}
}

func TestReplayGoalNotAchieved(t *testing.T) {
	p := pathProblem(t)
	plan := &domain.Plan{Steps: []domain.Step{moveStep("a", "b")}}

	out, err := Replay(p, plan)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if out.InvalidStep != -1 {
		t.Fatalf("InvalidStep = %d, want -1 (the single step is valid)", out.InvalidStep)
	}
	if out.GoalAchieved {
		t.Errorf("GoalAchieved = true, want false (only reached b, goal wants c)")
	}
}
