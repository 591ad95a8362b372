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

// Binary breadth-first finds a shortest plan from a domain and problem file
// by expanding partial plans in FIFO order, with per-path loop elimination.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/load"
	"github.com/go-strips/planner/search"
	"github.com/go-strips/planner/state"
)

func main() {
	glog.InitFlags(nil)
	if f := flag.Lookup("logtostderr"); f != nil {
		f.Value.Set("true")
	}
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: breadth-first DOMAIN PROBLEM LOG-LEVEL\n")
		fmt.Fprintf(os.Stderr, "LOG-LEVEL is 0 (silent), 1 (per-depth progress) or 2 (every expansion).\n")
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	level := flag.Arg(2)
	if level != "0" && level != "1" && level != "2" {
		flag.Usage()
		os.Exit(1)
	}
	if f := flag.Lookup("v"); f != nil {
		f.Value.Set(level)
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
		printPlan(p, &domain.Plan{States: []*state.State{p.Init}})
		os.Exit(0)
	}

	plan, err := search.BreadthFirst(p)
	if err != nil {
		fail(err)
	}
	if plan == nil {
		fmt.Println("No plans found.")
		os.Exit(0)
	}
	printPlan(p, plan)
	os.Exit(0)
}

func printPlan(p *domain.Problem, plan *domain.Plan) {
	fmt.Printf("Plan found at depth %d.\n", plan.Len())
	fmt.Print(search.FormatPlan(p.Domain, plan))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	glog.Flush()
	os.Exit(1)
}
