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
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// domainStage tracks which block of a domain definition has been seen, so
// that out-of-order or duplicate blocks are rejected by one monotonic
// counter instead of one pairwise check per pair of block kinds (the source
// this is grounded on, strips_domain.cpp, does the latter).
type domainStage int

const (
	domainStageNone domainStage = iota
	domainStageRequirements
	domainStageTypes
	domainStageConstants
	domainStagePredicates
	domainStageActions
)

// ParseDomain reads a PDDL domain definition:
//
//	(define (domain NAME)
//	  (:requirements ...) (:types ...) (:constants ...)
//	  (:predicates ...) (:action NAME :parameters (...)
//	                      :precondition ... :effect ...)...)
//
// Every block is optional except the domain name, but present blocks must
// appear in the order above; duplicates and out-of-order blocks are
// rejected, matching strips_domain.cpp's block-ordering checks.
func ParseDomain(src string) (*domain.Domain, error) {
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
	if err := r.expect("domain"); err != nil {
		return nil, err
	}
	name, err := r.readName()
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	stage := domainStageNone
	var reqs domain.Requirement
	types := typetable.New()
	var preds []term.PredicateSym
	var ops []domain.Operator

	for r.peekIs("(") {
		r.next()
		block, err := r.readName()
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(block) {
		case ":requirements":
			if stage >= domainStageRequirements {
				return nil, planerr.New(planerr.NotImplemented, "the requirements block must be the first block and may not repeat")
			}
			stage = domainStageRequirements
			for !r.peekIs(")") {
				flag, err := r.readName()
				if err != nil {
					return nil, err
				}
				reqs |= requirementFlag(flag)
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":types":
			if stage >= domainStageTypes {
				return nil, planerr.New(planerr.NotImplemented, "the types block must come before constants/predicates/actions and may not repeat")
			}
			stage = domainStageTypes
			for !r.peekIs(")") {
				if _, err := r.readName(); err != nil {
					return nil, err
				}
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":constants":
			if stage >= domainStageConstants {
				return nil, planerr.New(planerr.NotImplemented, "the constants block must come before predicates/actions and may not repeat")
			}
			stage = domainStageConstants
			typed, err := readTypedNames(r)
			if err != nil {
				return nil, err
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}
			for _, tn := range typed {
				if _, dup := types.TypeOf(tn.Name); dup {
					return nil, planerr.New(planerr.NotImplemented, "constant %s declared twice", tn.Name)
				}
				types.Declare(tn.Name, tn.Type)
			}

		case ":predicates":
			if stage >= domainStagePredicates {
				return nil, planerr.New(planerr.NotImplemented, "the predicates block must come before actions and may not repeat")
			}
			stage = domainStagePredicates
			for !r.peekIs(")") {
				if err := r.expectOpen(); err != nil {
					return nil, err
				}
				pname, err := r.readName()
				if err != nil {
					return nil, err
				}
				params, err := readTypedNames(r)
				if err != nil {
					return nil, err
				}
				if err := r.expectClose(); err != nil {
					return nil, err
				}
				sym := term.PredicateSym{Name: pname, Arity: len(params)}
				if declaredPredicate(preds, sym) {
					return nil, planerr.New(planerr.NotImplemented, "predicate %s declared twice", pname)
				}
				preds = append(preds, sym)
			}
			if err := r.expectClose(); err != nil {
				return nil, err
			}

		case ":action":
			stage = domainStageActions
			op, err := readAction(r, types, preds)
			if err != nil {
				return nil, err
			}
			ops = append(ops, *op)

		case ":functions", ":constraints", ":method":
			return nil, planerr.New(planerr.NotImplemented, "%s is not part of the supported PDDL subset", block)

		default:
			return nil, planerr.New(planerr.NotImplemented, "unrecognized domain feature %s", block)
		}
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	if reqs == 0 {
		reqs = domain.ReqStrips
	}
	return domain.New(name, reqs, types, preds, ops)
}

func requirementFlag(name string) domain.Requirement {
	switch strings.ToLower(name) {
	case ":strips":
		return domain.ReqStrips
	case ":typing":
		return domain.ReqTyping
	case ":equality":
		return domain.ReqEquality
	case ":negative-preconditions":
		return domain.ReqNegativePreconditions
	default:
		return 0
	}
}

// readAction reads one (:action NAME :parameters (...) :precondition ...
// :effect ...) block. constTypes is the domain's declared constant types,
// visible inside the action body alongside its own parameters.
func readAction(r *reader, constTypes *typetable.Table, preds []term.PredicateSym) (*domain.Operator, error) {
	name, err := r.readName()
	if err != nil {
		return nil, err
	}
	if err := r.expect(":parameters"); err != nil {
		return nil, err
	}
	if err := r.expectOpen(); err != nil {
		return nil, err
	}
	paramNames, err := readTypedNames(r)
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	local := copyTypes(constTypes)
	params := make([]term.Variable, len(paramNames))
	for i, pn := range paramNames {
		local.Declare(pn.Name, pn.Type)
		if pn.Type != "" {
			params[i] = term.NewTypedVariable(pn.Name, pn.Type)
		} else {
			params[i] = term.NewVariable(pn.Name)
		}
	}

	if err := r.expect(":precondition"); err != nil {
		return nil, err
	}
	pre, err := readFormula(r, local, preds)
	if err != nil {
		return nil, err
	}
	if err := r.expect(":effect"); err != nil {
		return nil, err
	}
	eff, err := readFormula(r, local, preds)
	if err != nil {
		return nil, err
	}
	if err := r.expectClose(); err != nil {
		return nil, err
	}

	preConj, err := asConj(pre)
	if err != nil {
		return nil, err
	}
	effConj, err := asConj(eff)
	if err != nil {
		return nil, err
	}

	return &domain.Operator{
		Name:          name,
		Parameters:    params,
		Preconditions: preConj,
		Effects:       effConj,
	}, nil
}
