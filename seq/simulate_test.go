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
	"testing"
	"time"
)

func TestIntervals(t *testing.T) {
	recs := []Record{
		{Interval: 0, Delay: 5},
		{Interval: 0, Delay: 5},
		{Interval: 1, Delay: 10},
		{Interval: 2, Delay: 3},
		{Interval: 2, Delay: 4},
		{Interval: 2, Delay: 3},
	}
	ivs := Intervals(recs)
	want := []int{2, 1, 3}
	if len(ivs) != len(want) {
		t.Fatalf("Expected %d intervals, got %d", len(want), len(ivs))
	}
	for i, w := range want {
		if len(ivs[i]) != w {
			t.Errorf("Interval %d: expected %d records, got %d", i, w, len(ivs[i]))
		}
	}
	if len(Intervals(nil)) != 0 {
		t.Errorf("Expected no intervals from no records")
	}
	s := Summarise(ivs[2])
	if s.Steps != 3 || s.Total != 10 || s.MinDelay != 3 || s.MaxDelay != 4 || s.Changes != 2 {
		t.Errorf("Summary: unexpected %+v", s)
	}
}

func TestSimulateTiming(t *testing.T) {
	g := newGen(t, Values(4, 4, -2), testInterval)
	pos := Position{}
	recs := Simulate(g, &pos, 3)
	if len(recs) != 4+1+6 {
		t.Fatalf("Expected 11 steps, got %d", len(recs))
	}
	for i, iv := range Intervals(recs) {
		if start := iv[0].At; start != time.Duration(i)*testInterval {
			t.Errorf("Interval %d starts at %s", i, start)
		}
	}
	if recs[0].Current != 1 || recs[3].Current != 4 || recs[4].Dir != None || recs[10].Current != -2 {
		t.Errorf("Unexpected positions in %+v", recs)
	}
}
