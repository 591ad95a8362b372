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

package search

import (
	"github.com/golang/glog"

	"github.com/go-strips/planner/domain"
	"github.com/go-strips/planner/instantiate"
	"github.com/go-strips/planner/planerr"
	"github.com/go-strips/planner/state"
)

// BreadthFirst searches for a plan by expanding partial plans in FIFO order,
// discarding any branch whose newest state already occurred earlier on the
// same path. It never revisits the depth-0 case (goal already satisfied in
// the initial state); callers check that first, exactly as vanilla_ice.cpp's
// main does before entering its queue loop.
//
// glog.V(1) logs one line every time the search moves on to a deeper plan
// length; glog.V(2) additionally logs every expansion it considers,
// including branches discarded for looping. This is what the breadth-first
// CLI's LOG-LEVEL argument selects.
func BreadthFirst(p *domain.Problem) (*domain.Plan, error) {
	queue := []*domain.Plan{{States: []*state.State{p.Init}}}
	deepestSeen := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.Len() > deepestSeen {
			deepestSeen = cur.Len()
			if glog.V(1) {
				glog.Infof("processed all extensions of %d-step plans without success, moving to %d-step plans", deepestSeen-1, deepestSeen)
			}
		}

		last := cur.States[len(cur.States)-1]
		for idx := range p.Domain.Operators {
			op := &p.Domain.Operators[idx]
			substs, err := instantiate.Operator(op, last, p.Domain.Types)
			if err != nil {
				return nil, err
			}
			for _, sigma := range substs {
				next, err := applyStep(op, last, sigma)
				if err != nil {
					if planerr.Is(err, planerr.OperNotApplicable) {
						continue
					}
					return nil, err
				}

				extended := &domain.Plan{
					Steps:  append(append([]domain.Step{}, cur.Steps...), domain.Step{OperIndex: idx, Subst: sigma}),
					States: append(append([]*state.State{}, cur.States...), next),
				}

				if glog.V(2) {
					glog.Infof("state %s, action %s", next, FormatStep(op, sigma))
				}

				ok, err := next.IsConsistent(p.Goal)
				if err != nil {
					return nil, err
				}
				if ok {
					return extended, nil
				}

				if statesRepeat(extended.States) {
					if glog.V(2) {
						glog.Info("this branch loops and thus will be terminated")
					}
					continue
				}
				queue = append(queue, extended)
			}
		}
	}
	return nil, nil
}
