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

package pddl

import (
	"strings"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// readFormula reads one formula: "(and f...)", "(not f)", "(= t t)", or
// "(pred t...)". preds, if non-empty, is checked against every atom's
// name/arity so an undeclared predicate is caught here rather than
// producing an atom nothing in the domain ever asserts or tests.
func readFormula(r *reader, types *typetable.Table, preds []term.PredicateSym) (formula.Formula, error) {
	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	head, err := r.readName()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(head) {
	case "and":
		var conjuncts []formula.Formula
		for !r.peekIs(")") {
			f, err := readFormula(r, types, preds)
			if err != nil {
				return nil, err
			}
			conjuncts = append(conjuncts, f)
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return formula.NewConj(conjuncts...)

	case "not":
		inner, err := readFormula(r, types, preds)
		if err != nil {
			return nil, err
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return formula.NewNeg(inner)

	case "=":
		left, err := readTerm(r, types)
		if err != nil {
			return nil, err
		}
		right, err := readTerm(r, types)
		if err != nil {
			return nil, err
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return formula.Equ{Left: left, Right: right}, nil

	default:
		var args []term.Term
		for !r.peekIs(")") {
			t, err := readTerm(r, types)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		pred := term.PredicateSym{Name: head, Arity: len(args)}
		if len(preds) > 0 && !declaredPredicate(preds, pred) {
			return nil, planerr.New(planerr.NotImplemented, "undeclared predicate %s/%d", head, len(args))
		}
		return formula.Pred{Predicate: pred, Args: args}, nil
	}
}

func declaredPredicate(preds []term.PredicateSym, p term.PredicateSym) bool {
	for _, d := range preds {
		if d.Equals(p) {
			return true
		}
	}
	return false
}

// asConj wraps a bare literal in a one-element conjunction; a formula that
// is already a Conj passes through unchanged. :precondition and :effect
// need not be written as an explicit (and ...) when there is only one
// conjunct, but the rest of the planner always works with formula.Conj.
func asConj(f formula.Formula) (formula.Conj, error) {
	if c, ok := f.(formula.Conj); ok {
		return c, nil
	}
	return formula.NewConj(f)
}
