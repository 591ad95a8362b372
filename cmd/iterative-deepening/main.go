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

// Binary iterative-deepening finds a shortest plan from a domain and
// problem file by trying increasing depth bounds in turn.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/load"
	"github.com/go-strips/planner/search"
	"github.com/go-strips/planner/state"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: iterative-deepening DOMAIN PROBLEM\n")
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	p, err := load.DomainAndProblem(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fail(err)
	}

	ok, err := p.Init.IsConsistent(p.Goal)
	if err != nil {
		fail(err)
	}
	if ok {
		printPlan(p, &domain.Plan{States: []*state.State{p.Init}}, 0)
		os.Exit(0)
	}

	for depth := 1; depth <= search.MaxIterativeDepth; depth++ {
		plan, err := search.AtDepth(p, depth)
		if err != nil {
			fail(err)
		}
		if plan != nil {
			printPlan(p, plan, depth)
			os.Exit(0)
		}
		fmt.Printf("Failed at depth %d.\n", depth)
	}

	fmt.Printf("Gave up after trying depth %d.\n", search.MaxIterativeDepth)
	os.Exit(1)
}

func printPlan(p *domain.Problem, plan *domain.Plan, depth int) {
	fmt.Printf("Plan found at depth %d.\n", depth)
	fmt.Print(search.FormatPlan(p.Domain, plan))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	os.Exit(1)
}
