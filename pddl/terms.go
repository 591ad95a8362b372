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

	"github.com/go-strips/planner/term"
	"github.com/go-strips/planner/typetable"
)

// typedName is one entry of a PDDL typed list before it is turned into a
// term.Variable/term.Constant, e.g. the "?x" or "block" in "?x ?y - block".
type typedName struct {
	Name string
	Type string
}

// readTypedNames reads a sequence of names up to (but not consuming) the
// next ")", applying "- typename" suffixes to every preceding untyped name
// back to the last typing: "?x ?y - block ?z - table" types ?x and ?y as
// block, ?z as table; a name never followed by a dash is untyped.
func readTypedNames(r *reader) ([]typedName, error) {
	var out []typedName
	pending := 0
	for !r.peekIs(")") {
		if r.peekIs("-") {
			r.next()
			typ, err := r.readName()
			if err != nil {
				return nil, err
			}
			for k := len(out) - pending; k < len(out); k++ {
				out[k].Type = typ
			}
			pending = 0
			continue
		}
		name, err := r.readName()
		if err != nil {
			return nil, err
		}
		out = append(out, typedName{Name: name})
		pending++
	}
	return out, nil
}

// readTerm reads one term -- a variable if the token starts with "?", a
// constant otherwise -- looking up its declared type (if any) in types.
func readTerm(r *reader, types *typetable.Table) (term.Term, error) {
	name, err := r.readName()
	if err != nil {
		return nil, err
	}
	typ, _ := types.TypeOf(name)
	if strings.HasPrefix(name, "?") {
		if typ != "" {
			return term.NewTypedVariable(name, typ), nil
		}
		return term.NewVariable(name), nil
	}
	if typ != "" {
		return term.NewTypedConstant(name, typ), nil
	}
	return term.NewConstant(name), nil
}

// copyTypes returns an independent table with every name->type pair in t.
func copyTypes(t *typetable.Table) *typetable.Table {
	out := typetable.New()
	for _, name := range t.Names() {
		typ, _ := t.TypeOf(name)
		out.Declare(name, typ)
	}
	return out
}
