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

// Package load reads domain, problem and plan files from disk and parses
// them, the one piece of file-handling logic shared by all three command
// line drivers.
package load

import (
	"os"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/pddl"
	"github.com/go-strips/planner/planerr"
)

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", planerr.New(planerr.FileRead, "%v", err)
	}
	return string(b), nil
}

// DomainAndProblem reads and parses a domain file and a problem file that
// references it.
func DomainAndProblem(domainPath, problemPath string) (*domain.Problem, error) {
	domainSrc, err := readFile(domainPath)
	if err != nil {
		return nil, err
	}
	d, err := pddl.ParseDomain(domainSrc)
	if err != nil {
		return nil, annotate(err, domainPath)
	}
	problemSrc, err := readFile(problemPath)
	if err != nil {
		return nil, err
	}
	p, err := pddl.ParseProblem(problemSrc, d)
	if err != nil {
		return nil, annotate(err, problemPath)
	}
	return p, nil
}

// Plan reads and parses a plan file against an already-loaded problem.
func Plan(planPath string, p *domain.Problem) (*domain.Plan, error) {
	src, err := readFile(planPath)
	if err != nil {
		return nil, err
	}
	plan, err := pddl.ParsePlan(src, p)
	if err != nil {
		return nil, annotate(err, planPath)
	}
	return plan, nil
}

// annotate attaches the source file to a parse error, mirroring the catch-
// site annotation spec'd for every parser entry point.
func annotate(err error, path string) error {
	pe, ok := err.(*planerr.Error)
	if !ok {
		return err
	}
	return pe.WithFile(path, pe.Offset)
}
