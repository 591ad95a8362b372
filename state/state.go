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

// Package state implements the ground atom store: a State is a set of
// ground predicate atoms representing one world, indexed by predicate
// symbol for fast lookup during instantiation.
package state

import (
	"sort"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/go-strips/planner/formula"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/term"
)

// State is a ground atom store, analogous to a fact store indexed by
// relation: a mapping from predicate symbol to the set of ground atoms
// holding that relation. Every stored atom is ground and there are no
// duplicate atoms (spec §3). States are value-like: NextState clones rather
// than mutating a shared instance, so a *State reachable from one plan step
// is never changed out from under an earlier one.
type State struct {
	// atoms maps a predicate symbol to its bucket of ground atoms, keyed
	// within the bucket by a canonical string over the constant arguments so
	// duplicate detection and removal are O(1).
	atoms map[term.PredicateSym]map[string]formula.Pred

	// constants caches the constants appearing in atoms, in discovery
	// (first-insertion) order, per spec §5's determinism requirement, until
	// the first removal; a rebuild after that uses canonical order.
	// constsValid is false exactly when the cache needs to be rebuilt --
	// set on any removal, where discovery order of the remaining atoms is
	// no longer trivially derivable from an incremental update.
	constants   []term.Constant
	constsValid bool
}

// New returns an empty state.
func New() *State {
	return &State{
		atoms:       make(map[term.PredicateSym]map[string]formula.Pred),
		constsValid: true,
	}
}

func argsKey(args []term.Term) (string, error) {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(0)
		}
		c, ok := a.(term.Constant)
		if !ok {
			return "", planerr.New(planerr.StateNotAtom, "non-ground argument %v in state atom", a)
		}
		sb.WriteString(strings.ToLower(c.Name))
	}
	return sb.String(), nil
}

// Add inserts a ground atom, returning whether it was newly added (false if
// already present). It fails with StateNotAtom if the atom is not ground.
func (s *State) Add(p formula.Pred) (bool, error) {
	key, err := argsKey(p.Args)
	if err != nil {
		return false, err
	}
	bucket, ok := s.atoms[p.Predicate]
	if !ok {
		bucket = make(map[string]formula.Pred)
		s.atoms[p.Predicate] = bucket
	}
	if _, exists := bucket[key]; exists {
		return false, nil
	}
	bucket[key] = p
	if s.constsValid {
		for _, a := range p.Args {
			c := a.(term.Constant)
			if !s.hasConstant(c) {
				s.constants = append(s.constants, c)
			}
		}
	}
	return true, nil
}

func (s *State) hasConstant(c term.Constant) bool {
	for _, existing := range s.constants {
		if existing.Equals(c) {
			return true
		}
	}
	return false
}

// Remove deletes a ground atom, returning whether it was present. This
// invalidates the constants cache (spec §4.5 step 5): a removed atom may
// have held the only occurrence of one of its constants.
func (s *State) Remove(p formula.Pred) (bool, error) {
	key, err := argsKey(p.Args)
	if err != nil {
		return false, err
	}
	bucket, ok := s.atoms[p.Predicate]
	if !ok {
		return false, nil
	}
	if _, exists := bucket[key]; !exists {
		return false, nil
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(s.atoms, p.Predicate)
	}
	s.constsValid = false
	s.constants = nil
	return true, nil
}

// Contains reports whether the exact ground atom p is present.
func (s *State) Contains(p formula.Pred) bool {
	key, err := argsKey(p.Args)
	if err != nil {
		return false
	}
	bucket, ok := s.atoms[p.Predicate]
	if !ok {
		return false
	}
	_, exists := bucket[key]
	return exists
}

// AtomsOf returns every stored atom for the given predicate symbol, sorted
// by argument names (case-insensitively), so callers that iterate it -- the
// instantiator among them -- see the atoms in the same order on every run.
func (s *State) AtomsOf(pred term.PredicateSym) []formula.Pred {
	bucket := s.atoms[pred]
	out := make([]formula.Pred, 0, len(bucket))
	for _, p := range bucket {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return argsLess(out[i].Args, out[j].Args)
	})
	return out
}

// CountMatching counts stored atoms of pred's relation whose constant
// positions (those in fixed, a partial map from argument index to a
// required constant) all agree with the requirement. This implements the
// "filtered by already-ground parameter positions" count the instantiation
// heuristic uses (spec §4.4 rule 2).
func (s *State) CountMatching(pred term.PredicateSym, fixed map[int]term.Constant) int {
	count := 0
	for _, p := range s.atoms[pred] {
		ok := true
		for idx, want := range fixed {
			if idx >= len(p.Args) {
				ok = false
				break
			}
			c, isConst := p.Args[idx].(term.Constant)
			if !isConst || !c.Equals(want) {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}
	return count
}

// Predicates returns the set of predicate symbols with at least one stored
// atom, ordered by (case-insensitive name, arity) -- a total, relation-
// index-stable ordering independent of insertion order, resolving the open
// question in spec §9 about atom-store ordering.
func (s *State) Predicates() []term.PredicateSym {
	out := make([]term.PredicateSym, 0, len(s.atoms))
	for p := range s.atoms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].Arity < out[j].Arity
	})
	return out
}

// Constants returns the constants appearing in this state's atoms, in
// discovery order (spec §5: "insertion order of the initial state, not hash
// order"), rebuilding the cache first if it was invalidated by a Remove. A
// rebuilt cache lists constants in canonical order (by predicate, then by
// atom arguments, as String prints them), not in discovery order.
func (s *State) Constants() []term.Constant {
	if !s.constsValid {
		s.rebuildConstants()
	}
	out := make([]term.Constant, len(s.constants))
	copy(out, s.constants)
	return out
}

func (s *State) rebuildConstants() {
	s.constants = nil
	for _, pred := range s.Predicates() {
		for _, p := range s.sortedAtomsOf(pred) {
			for _, a := range p.Args {
				c := a.(term.Constant)
				if !s.hasConstant(c) {
					s.constants = append(s.constants, c)
				}
			}
		}
	}
	s.constsValid = true
}

// ConstantNames returns the set of constant names currently in the state.
func (s *State) ConstantNames() stringset.Set {
	names := make([]string, 0, len(s.constants))
	for _, c := range s.Constants() {
		names = append(names, strings.ToLower(c.Name))
	}
	return stringset.New(names...)
}

func (s *State) sortedAtomsOf(pred term.PredicateSym) []formula.Pred {
	atoms := s.AtomsOf(pred)
	sort.Slice(atoms, func(i, j int) bool {
		return argsLess(atoms[i].Args, atoms[j].Args)
	})
	return atoms
}

func argsLess(a, b []term.Term) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, _ := a[i].(term.Constant)
		cb, _ := b[i].(term.Constant)
		ni, nj := strings.ToLower(ca.Name), strings.ToLower(cb.Name)
		if ni != nj {
			return ni < nj
		}
	}
	return len(a) < len(b)
}

// Clone returns a deep-enough copy of s suitable for NextState's
// copy-on-write: the atom buckets are copied, but the immutable ground Pred
// values inside them are shared by reference (spec §9 "Shared atoms").
func (s *State) Clone() *State {
	cp := &State{
		atoms:       make(map[term.PredicateSym]map[string]formula.Pred, len(s.atoms)),
		constsValid: s.constsValid,
	}
	for pred, bucket := range s.atoms {
		nb := make(map[string]formula.Pred, len(bucket))
		for k, v := range bucket {
			nb[k] = v
		}
		cp.atoms[pred] = nb
	}
	if s.constsValid {
		cp.constants = make([]term.Constant, len(s.constants))
		copy(cp.constants, s.constants)
	}
	return cp
}

// Equal reports whether two states contain exactly the same set of atoms.
// It relies on the total relation-index-stable ordering from Predicates so
// the comparison is well-defined regardless of insertion history.
func Equal(a, b *State) bool {
	pa, pb := a.Predicates(), b.Predicates()
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
		ba, bb := a.atoms[pa[i]], b.atoms[pb[i]]
		if len(ba) != len(bb) {
			return false
		}
		for k := range ba {
			if _, ok := bb[k]; !ok {
				return false
			}
		}
	}
	return true
}

// String returns a PDDL-ish textual dump of the state's atoms, in canonical
// order, for debugging and for the breadth-first driver's verbose log mode.
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString("( ")
	for _, pred := range s.Predicates() {
		for _, p := range s.sortedAtomsOf(pred) {
			sb.WriteString(p.String())
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
