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

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
	"github.com/go-strips/planner/typetable"
)

type problemStage int

const (
	problemStageNone problemStage = iota
	problemStageRequirements
	problemStageObjects
	problemStageInit
	problemStageGoal
)

// ParseProblem reads a PDDL problem definition:
//
//	(define (problem NAME) (:domain NAME)
//	  (:requirements ...) (:objects ...) (:init ...) (:goal ...))
//
// against an already-parsed domain d, matching strips_problem.cpp's block
// order and the domain-name mismatch check it does immediately after
// reading the (:domain NAME) block.
func ParseProblem(src string, d *domain.Domain) (*domain.Problem, error) {
	r := newReader(src)
	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	if err := r.expect("define"); err != nil {
		return nil, err
	}
	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	if err := r.expect("problem"); err != nil {
		return nil, err
	}
	name, err := r.readName()
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	if err := r.expect(":domain"); err != nil {
		return nil, err
	}
	domainName, err := r.readName()
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}
	if !strings.EqualFold(domainName, d.Name) {
		return nil, planerr.New(planerr.DomainMismatch, "problem %s references domain %s, loaded domain is %s", name, domainName, d.Name)
	}

	stage := problemStageNone
	objects := typetable.New()
	var init *state.State
	var goal formula.Formula

	for r.peekIs("(") {
		r.next()
		block, err := r.readName()
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(block) {
		case ":requirements":
			if stage >= problemStageRequirements {
				return nil, planerr.New(planerr.NotImplemented, "the requirements block must be the first block and may not repeat")
			}
			stage = problemStageRequirements
			for !r.peekIs(")") {
				if _, err := r.readName(); err != nil {
					return nil, err
				}
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":objects":
			if stage >= problemStageObjects {
				return nil, planerr.New(planerr.NotImplemented, "the objects block must come before init/goal and may not repeat")
			}
			stage = problemStageObjects
			typed, err := readTypedNames(r)
			if err != nil {
				return nil, err
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}
			for _, tn := range typed {
				if domTyp, ok := d.Types.TypeOf(tn.Name); ok && !typetable.SameType(domTyp, tn.Type) {
					return nil, planerr.New(planerr.NotImplemented, "object %s is not the same type as the domain constant of the same name", tn.Name)
				}
				objects.Declare(tn.Name, tn.Type)
			}

		case ":init":
			if stage >= problemStageInit {
				return nil, planerr.New(planerr.NotImplemented, "the init block must come before the goal block and may not repeat")
			}
			stage = problemStageInit
			types := effectiveTypes(d, objects)
			init = state.New()
			for r.peekIs("(") {
				f, err := readFormula(r, types, d.Predicates)
				if err != nil {
					return nil, err
				}
				p, ok := f.(formula.Pred)
				if !ok {
					return nil, planerr.New(planerr.StateNotAtom, "the init block may only contain ground atoms")
				}
				if _, err := init.Add(p); err != nil {
					return nil, err
				}
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":goal":
			if stage >= problemStageGoal {
				return nil, planerr.New(planerr.NotImplemented, "a problem may not have multiple goal blocks")
			}
			stage = problemStageGoal
			types := effectiveTypes(d, objects)
			f, err := readFormula(r, types, d.Predicates)
			if err != nil {
				return nil, err
			}
			goal = f
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":constraints", ":metric":
			return nil, planerr.New(planerr.NotImplemented, "%s is not part of the supported PDDL subset", block)

		default:
			return nil, planerr.New(planerr.NotImplemented, "unrecognized problem feature %s", block)
		}
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	if init == nil {
		init = state.New()
	}
	if goal == nil {
		goal = formula.Conj{}
	}

	return domain.NewProblem(name, domainName, d, objects, init, goal)
}

// effectiveTypes mirrors strips_problem.cpp's ternary: a problem that
// declares its own :objects uses only those types while reading :init and
// :goal; one that declares none falls back to the domain's :constants
// table, so a domain with typed constants but a problem with no :objects
// block still resolves those constants' types correctly.
func effectiveTypes(d *domain.Domain, objects *typetable.Table) *typetable.Table {
	if len(objects.Names()) > 0 {
		return objects
	}
	return d.Types
}
