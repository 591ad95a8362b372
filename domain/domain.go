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

// Package domain holds the loaded, validated representation of a planning
// domain and problem: operator schemas, the type table, the initial state
// and goal. Everything here is built once by a loader (the pddl package)
// and is immutable afterward -- the lifecycle spec §3 requires.
package domain

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// Requirement is one of the PDDL feature flags this planner recognizes.
type Requirement int

const (
	ReqStrips Requirement = 1 << iota
	ReqTyping
	ReqEquality
	ReqNegativePreconditions
)

// Operator is an action schema: a name, its formal parameters, a precondition
// conjunction and an effect conjunction. Every variable mentioned in Effects
// must also appear in Parameters or Preconditions (checked by validate).
type Operator struct {
	Name          string
	Parameters    []term.Variable
	Preconditions formula.Conj
	Effects       formula.Conj
}

// ParamIndex returns the 0-based position of a parameter by name, or -1.
func (o *Operator) ParamIndex(name string) int {
	for i, p := range o.Parameters {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func (o *Operator) validate() error {
	var errs error
	declared := make(map[string]bool, len(o.Parameters))
	for _, p := range o.Parameters {
		declared[strings.ToLower(p.Name)] = true
	}
	for _, v := range formula.Variables(o.Preconditions) {
		declared[strings.ToLower(v.Name)] = true
	}
	for _, v := range formula.Variables(o.Effects) {
		if !declared[strings.ToLower(v.Name)] {
			errs = multierr.Append(errs, planerr.New(planerr.NotImplemented,
				"operator %s: effect variable %s does not occur in head or preconditions", o.Name, v.Name))
		}
	}
	for _, c := range o.Effects.Conjuncts {
		switch v := c.(type) {
		case formula.Pred:
		case formula.Neg:
			if _, ok := v.Inner.(formula.Pred); !ok {
				errs = multierr.Append(errs, planerr.New(planerr.NotImplemented,
					"operator %s: effects may only negate predicates, not equalities", o.Name))
			}
		default:
			errs = multierr.Append(errs, planerr.New(planerr.NotImplemented,
				"operator %s: effect conjunct %s is not a positive or negated predicate", o.Name, c.String()))
		}
	}
	return errs
}

// Domain is a fully-loaded, validated planning domain.
type Domain struct {
	Name         string
	Requirements Requirement
	Types        *typetable.Table // constant -> declared type, from :constants
	Predicates   []term.PredicateSym
	Operators    []Operator

	byName map[string]int
}

// New builds a Domain from its parsed parts, validating every operator and
// indexing operators by (case-insensitive) name. Validation errors from
// every operator are accumulated and returned together rather than failing
// on the first one, so a domain author sees every problem in one pass.
func New(name string, reqs Requirement, types *typetable.Table, preds []term.PredicateSym, ops []Operator) (*Domain, error) {
	d := &Domain{
		Name:         name,
		Requirements: reqs,
		Types:        types,
		Predicates:   preds,
		Operators:    ops,
		byName:       make(map[string]int, len(ops)),
	}
	var errs error
	if err := checkUniformTyping(types, ops); err != nil {
		errs = multierr.Append(errs, err)
	}
	for i, op := range ops {
		if err := op.validate(); err != nil {
			errs = multierr.Append(errs, err)
		}
		key := strings.ToLower(op.Name)
		if _, dup := d.byName[key]; dup {
			errs = multierr.Append(errs, planerr.New(planerr.NotImplemented, "duplicate operator name %s", op.Name))
			continue
		}
		d.byName[key] = i
	}
	if errs != nil {
		return nil, errs
	}
	return d, nil
}

// checkUniformTyping enforces the all-or-nothing typing invariant term.Term
// documents: either every term declared anywhere in the domain carries a
// type, or none does. The source only catches a mismatch lazily, the first
// time two mismatched terms are unified against each other; this eager pass
// walks every constant and every operator's parameters/precondition/effect
// variables once at load time, so a domain author sees the conflict
// immediately rather than only on whichever search path happens to unify
// the offending terms first.
func checkUniformTyping(types *typetable.Table, ops []Operator) error {
	var typed *bool
	observe := func(hasType bool, desc string) error {
		if typed == nil {
			typed = &hasType
			return nil
		}
		if *typed != hasType {
			return planerr.New(planerr.NotImplemented, "domain mixes typed and untyped terms (%s)", desc)
		}
		return nil
	}

	for _, name := range types.Names() {
		typ, _ := types.TypeOf(name)
		if err := observe(typ != "", "constant "+name); err != nil {
			return err
		}
	}
	for _, op := range ops {
		for _, p := range op.Parameters {
			if err := observe(p.HasType(), "parameter "+p.String()+" of "+op.Name); err != nil {
				return err
			}
		}
		for _, v := range formula.Variables(op.Preconditions) {
			if err := observe(v.HasType(), "precondition variable "+v.String()+" of "+op.Name); err != nil {
				return err
			}
		}
		for _, v := range formula.Variables(op.Effects) {
			if err := observe(v.HasType(), "effect variable "+v.String()+" of "+op.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// OperIndexByName returns the 0-based index of the operator with the given
// name (case-insensitive), or -1 if no such operator exists.
func (d *Domain) OperIndexByName(name string) int {
	idx, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return -1
	}
	return idx
}

// Has reports whether the domain's requirement flags include req.
func (r Requirement) Has(req Requirement) bool { return r&req != 0 }
