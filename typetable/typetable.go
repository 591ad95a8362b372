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

// Package typetable records the object->type mapping declared by a domain's
// :constants and a problem's :objects blocks, and answers the case-
// insensitive type-match queries the instantiator needs.
package typetable

import (
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/go-strips/planner/term"
)

// Table maps object names to their declared type, case-insensitively. An
// empty Table means the domain is untyped; TypeOf never fabricates a type
// for an object that was not declared.
type Table struct {
	types map[string]string // lower(name) -> type, as declared (original case)
	// order preserves first-declaration order, so Names and NameSet list
	// the declared objects in the same order on every run.
	order []string
}

// New returns an empty, untyped table.
func New() *Table {
	return &Table{types: make(map[string]string)}
}

// Declare records that the object named name has the given type. Declaring
// the same name twice with different types is a caller error (the domain
// loader is expected to reject duplicates before calling Declare).
func (t *Table) Declare(name, typ string) {
	key := strings.ToLower(name)
	if _, ok := t.types[key]; !ok {
		t.order = append(t.order, name)
	}
	t.types[key] = typ
}

// Typed reports whether this table has any declared types at all: an
// object declared without a type does not count. A domain is either fully
// typed or fully untyped (spec §3); the domain loader enforces that itself,
// entry by entry, in domain.checkUniformTyping.
func (t *Table) Typed() bool {
	for _, typ := range t.types {
		if typ != "" {
			return true
		}
	}
	return false
}

// TypeOf returns the declared type of name and whether it was found.
func (t *Table) TypeOf(name string) (string, bool) {
	typ, ok := t.types[strings.ToLower(name)]
	return typ, ok
}

// Names returns every declared object name, in first-declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// NameSet returns the set of declared object names.
func (t *Table) NameSet() stringset.Set {
	return stringset.New(t.order...)
}

// SameType reports whether two type names match, case-insensitively. Two
// empty strings (both untyped) match.
func SameType(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Compatible reports whether a candidate binding value for a parameter
// satisfies the parameter's declared typing, per spec §4.4: "Types (if
// present) must match case-insensitively; mismatched typedness is
// E_NOT_IMPLEMENTED." Compatible does not itself raise that error: it
// reports a typedness mismatch (one typed, one not) as false, and its
// callers (head grounding and negated-equality enumeration) skip such a
// candidate without an error.
func Compatible(param, value term.Term) bool {
	if param.HasType() != value.HasType() {
		return false // mismatched typedness
	}
	if !param.HasType() {
		return true
	}
	return SameType(param.Type(), value.Type())
}
