// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package seq

import (
	"time"
)

// Record is one step taken, as seen by the step executor.
type Record struct {
	Interval int           // Sampling interval the step belongs to
	At       time.Duration // Time the step was taken, relative to the start
	Dir      Direction
	Delay    time.Duration // Delay until the following step
	Current  int32         // Position after the step
	Target   int32         // Target sampled for this interval
}

// Simulate drives the generator for the number of intervals given
// without waiting for the step delays, advancing pos as each step is made.
// It stops early if the generator returns End.
func Simulate(g *Generator, pos *Position, intervals int) []Record {
	var recs []Record
	var at time.Duration
	for iv := 0; iv < intervals; {
		si := g.Next(pos)
		if si.Done() {
			break
		}
		pos.Step(si.Dir)
		recs = append(recs, Record{Interval: iv, At: at, Dir: si.Dir, Delay: si.Delay, Current: pos.Current, Target: pos.Target})
		at += si.Delay
		if g.remaining == 0 {
			iv++
		}
	}
	return recs
}

// Intervals groups records by sampling interval.
func Intervals(recs []Record) [][]Record {
	var out [][]Record
	start := 0
	for i := 1; i <= len(recs); i++ {
		if i == len(recs) || recs[i].Interval != recs[start].Interval {
			out = append(out, recs[start:i])
			start = i
		}
	}
	return out
}

// Summary describes the steps within one interval.
type Summary struct {
	Steps    int
	Dir      Direction
	Total    time.Duration // Sum of the delays
	MinDelay time.Duration
	MaxDelay time.Duration
	Changes  int // Number of times the delay changes between consecutive steps
}

// Summarise calculates a Summary of the records of a single interval.
func Summarise(recs []Record) Summary {
	var s Summary
	for i, r := range recs {
		s.Steps++
		s.Dir = r.Dir
		s.Total += r.Delay
		if i == 0 || r.Delay < s.MinDelay {
			s.MinDelay = r.Delay
		}
		if r.Delay > s.MaxDelay {
			s.MaxDelay = r.Delay
		}
		if i > 0 && r.Delay != recs[i-1].Delay {
			s.Changes++
		}
	}
	return s
}
