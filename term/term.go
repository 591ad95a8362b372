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

// Package term holds the lowest layer of the planner's data model: the
// building blocks of first-order literals, namely variables, constants and
// predicate symbols.
package term

import (
	"strings"
)

// Term represents either a Variable or a Constant, optionally typed.
//
// Names compare case-insensitively. Typing is all-or-nothing across a
// domain: mixing typed and untyped terms is a hard error detected by the
// domain loader, not by this package.
type Term interface {
	// Marker method so only Variable and Constant satisfy Term.
	isTerm()

	// String returns a debug representation, e.g. "?x:block" or "a:block".
	String() string

	// Equals is structural equality: two variables are equal iff name and
	// depth agree; two constants iff name agrees (case-insensitively).
	Equals(Term) bool

	// HasType reports whether this term carries a declared type.
	HasType() bool

	// Type returns the declared type name, or "" if untyped.
	Type() string
}

func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Variable is a term bound by a substitution. Depth distinguishes renamed
// copies of a variable: two variables with the same name but different depth
// are distinct terms. Depth 0 is the ordinary case used throughout parsing;
// only Renamed produces a non-zero depth, and nothing in this module calls
// it (the formula package resolves substitution chains without renaming).
type Variable struct {
	Name  string
	Depth int
	Typ   string // "" means untyped
}

// NewVariable constructs an untyped, depth-0 variable.
func NewVariable(name string) Variable {
	return Variable{Name: name}
}

// NewTypedVariable constructs a depth-0 variable with a declared type.
func NewTypedVariable(name, typ string) Variable {
	return Variable{Name: name, Typ: typ}
}

func (Variable) isTerm() {}

func (v Variable) String() string {
	if v.Typ != "" {
		return v.Name + ":" + v.Typ
	}
	return v.Name
}

// Equals reports whether u is a Variable with the same name and depth.
func (v Variable) Equals(u Term) bool {
	o, ok := u.(Variable)
	return ok && sameName(v.Name, o.Name) && v.Depth == o.Depth
}

// HasType reports whether v carries a declared type.
func (v Variable) HasType() bool { return v.Typ != "" }

// Type returns v's declared type, or "" if untyped.
func (v Variable) Type() string { return v.Typ }

// Renamed returns a copy of v at the given depth, distinct from v under
// Equals whenever the depths differ.
func (v Variable) Renamed(depth int) Variable {
	return Variable{Name: v.Name, Depth: depth, Typ: v.Typ}
}

// Constant is a ground term: an object name.
type Constant struct {
	Name string
	Typ  string // "" means untyped
}

// NewConstant constructs an untyped constant.
func NewConstant(name string) Constant {
	return Constant{Name: name}
}

// NewTypedConstant constructs a constant with a declared type.
func NewTypedConstant(name, typ string) Constant {
	return Constant{Name: name, Typ: typ}
}

func (Constant) isTerm() {}

func (c Constant) String() string {
	if c.Typ != "" {
		return c.Name + ":" + c.Typ
	}
	return c.Name
}

// Equals reports whether u is a Constant with the same name.
func (c Constant) Equals(u Term) bool {
	o, ok := u.(Constant)
	return ok && sameName(c.Name, o.Name)
}

// HasType reports whether c carries a declared type.
func (c Constant) HasType() bool { return c.Typ != "" }

// Type returns c's declared type, or "" if untyped.
func (c Constant) Type() string { return c.Typ }

// PredicateSym is a predicate symbol: a relation name and its arity.
// Equality of relations is by case-insensitive name; arity is part of the
// identity because the same name at different arities denotes unrelated
// relations (this planner does not support overloading, so in practice a
// domain never declares the same name at two arities, but the type keeps the
// comparison explicit).
type PredicateSym struct {
	Name  string
	Arity int
}

// Equals reports whether two predicate symbols denote the same relation.
func (p PredicateSym) Equals(o PredicateSym) bool {
	return sameName(p.Name, o.Name) && p.Arity == o.Arity
}

func (p PredicateSym) String() string {
	return p.Name
}
