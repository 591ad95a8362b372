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

// Binary verify replays a plan against a domain and problem file and
// reports whether it succeeds.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-strips/planner/load"
	"github.com/go-strips/planner/verify"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: verify DOMAIN PROBLEM PLAN\n")
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	p, err := load.DomainAndProblem(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fail(err)
	}
	plan, err := load.Plan(flag.Arg(2), p)
	if err != nil {
		fail(err)
	}

	out, err := verify.Replay(p, plan)
	if err != nil {
		fail(err)
	}

	switch {
	case out.InvalidStep >= 0:
		fmt.Printf("FAILURE: Invalid action #%d.\n", out.InvalidStep)
		os.Exit(2)
	case !out.GoalAchieved:
		fmt.Println("FAILURE: Does not achieve goals.")
		os.Exit(3)
	default:
		fmt.Println("SUCCESS")
		os.Exit(0)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	os.Exit(1)
}
