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

	"github.com/go-strips/planner/planerr"
)

// reader walks a flat token stream, one token at a time. Every failure to
// find an expected token raises planerr.ParseExpected with the byte offset
// of the offending token in its Offset field (an unexpected end of input
// carries none), which the CLI annotates with the source file name before
// printing, per spec §7's parse-error propagation policy.
type reader struct {
	toks []token
	i    int
}

func newReader(src string) *reader {
	return &reader{toks: tokenize(src)}
}

func (r *reader) atEnd() bool { return r.i >= len(r.toks) }

func (r *reader) peek() (token, bool) {
	if r.atEnd() {
		return token{}, false
	}
	return r.toks[r.i], true
}

// peekIs reports whether the next token equals text (case-insensitively),
// without consuming it. At end of input it reports false.
func (r *reader) peekIs(text string) bool {
	t, ok := r.peek()
	return ok && strings.EqualFold(t.text, text)
}

func (r *reader) next() (token, error) {
	if r.atEnd() {
		return token{}, planerr.New(planerr.ParseExpected, "unexpected end of input")
	}
	t := r.toks[r.i]
	r.i++
	return t, nil
}

// expect consumes the next token, requiring it to equal text
// case-insensitively.
func (r *reader) expect(text string) error {
	t, err := r.next()
	if err != nil {
		return err
	}
	if !strings.EqualFold(t.text, text) {
		e := planerr.New(planerr.ParseExpected, "expected %q, got %q at offset %d", text, t.text, t.pos)
		e.Offset = t.pos
		return e
	}
	return nil
}

func (r *reader) expectOpen() error  { return r.expect("(") }
func (r *reader) expectClose() error { return r.expect(")") }

// readName consumes and returns the next token verbatim, rejecting a bare
// paren (every name in this grammar is a single symbol token).
func (r *reader) readName() (string, error) {
	t, err := r.next()
	if err != nil {
		return "", err
	}
	if t.text == "(" || t.text == ")" {
		e := planerr.New(planerr.ParseExpected, "expected a name, got %q at offset %d", t.text, t.pos)
		e.Offset = t.pos
		return "", e
	}
	return t.text, nil
}
