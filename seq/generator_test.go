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
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

const testInterval = 10 * time.Millisecond

func TestNewGeneratorInvalid(t *testing.T) {
	testCases := []struct {
		interval time.Duration
		source   Source
		err      error
	}{
		{0, Values(1), ErrInvalidInterval},
		{-time.Millisecond, Values(1), ErrInvalidInterval},
		{500 * time.Nanosecond, Values(1), ErrInvalidInterval},
		{1500 * time.Nanosecond, Values(1), ErrInvalidInterval},
		{time.Duration(math.MaxUint32+1) * time.Microsecond, Values(1), ErrInvalidInterval},
		{testInterval, nil, ErrNoSource},
	}
	for _, tc := range testCases {
		g, err := NewGenerator(tc.source, tc.interval)
		if !errors.Is(err, tc.err) {
			t.Errorf("NewGenerator(%s): expected error %v, got %v", tc.interval, tc.err, err)
		}
		if g != nil {
			t.Errorf("NewGenerator(%s): expected no generator", tc.interval)
		}
	}
}

func TestSetMinDelayInvalid(t *testing.T) {
	g := newGen(t, Values(1), time.Millisecond)
	for _, d := range []time.Duration{0, 100 * time.Nanosecond, 2 * time.Millisecond} {
		if err := g.SetMinDelay(d); !errors.Is(err, ErrInvalidMinDelay) {
			t.Errorf("SetMinDelay(%s): expected ErrInvalidMinDelay, got %v", d, err)
		}
	}
	if err := g.SetMinDelay(time.Millisecond); err != nil {
		t.Errorf("SetMinDelay(interval): %v", err)
	}
	if m := g.MaxSteps(); m != 1 {
		t.Errorf("MaxSteps: expected 1, got %d", m)
	}
}

func newGen(t *testing.T, src Source, interval time.Duration) *Generator {
	t.Helper()
	g, err := NewGenerator(src, interval)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestThreeSteps(t *testing.T) {
	g := newGen(t, Values(3), testInterval)
	pos := Position{}
	var total time.Duration
	var delays []time.Duration
	for i := 0; i < 3; i++ {
		si := g.Next(&pos)
		if si.Dir != Forward {
			t.Errorf("Step %d: expected forward, got %s", i, si.Dir)
		}
		if si.Delay != 3333*time.Microsecond && si.Delay != 3334*time.Microsecond {
			t.Errorf("Step %d: unexpected delay %s", i, si.Delay)
		}
		total += si.Delay
		delays = append(delays, si.Delay)
		pos.Step(si.Dir)
	}
	if total != testInterval {
		t.Errorf("Total delay: expected %s, got %s", testInterval, total)
	}
	changes := 0
	for i := 1; i < len(delays); i++ {
		if delays[i] != delays[i-1] {
			changes++
		}
	}
	if changes > 1 {
		t.Errorf("Delays %v change %d times", delays, changes)
	}
	if pos.Target != 3 || pos.Current != 3 {
		t.Errorf("Position: expected 3/3, got %d/%d", pos.Current, pos.Target)
	}
	// Same target again, so no movement.
	si := g.Next(&pos)
	if si.Dir != None || si.Delay != testInterval {
		t.Errorf("Repeated target: expected none/%s, got %s/%s", testInterval, si.Dir, si.Delay)
	}
}

func TestZeroMotion(t *testing.T) {
	g := newGen(t, Values(0), testInterval)
	pos := Position{}
	for i := 0; i < 3; i++ {
		si := g.Next(&pos)
		if si.Dir != None || si.Delay != testInterval {
			t.Errorf("Call %d: expected none/%s, got %s/%s", i, testInterval, si.Dir, si.Delay)
		}
	}
}

// checkIntervals verifies the schedule of each interval against the targets sampled.
func checkIntervals(t *testing.T, recs []Record, start int32, interval time.Duration, maxSteps int64) {
	t.Helper()
	prev := start
	for i, iv := range Intervals(recs) {
		s := Summarise(iv)
		target := iv[0].Target
		delta := int64(Delta(prev, target))
		want := delta
		if want < 0 {
			want = -want
		}
		if want > maxSteps {
			want = maxSteps
		}
		switch {
		case delta == 0:
			if s.Steps != 1 || s.Dir != None {
				t.Errorf("Interval %d: expected 1 none step, got %d %s", i, s.Steps, s.Dir)
			}
		case delta > 0:
			if s.Dir != Forward || int64(s.Steps) != want {
				t.Errorf("Interval %d: expected %d forward steps, got %d %s", i, want, s.Steps, s.Dir)
			}
		default:
			if s.Dir != Backward || int64(s.Steps) != want {
				t.Errorf("Interval %d: expected %d backward steps, got %d %s", i, want, s.Steps, s.Dir)
			}
		}
		for _, r := range iv {
			if r.Dir != s.Dir {
				t.Errorf("Interval %d: direction changed to %s", i, r.Dir)
			}
		}
		if s.Total != interval {
			t.Errorf("Interval %d (%d steps): total delay %s, expected %s", i, s.Steps, s.Total, interval)
		}
		if s.MaxDelay-s.MinDelay > time.Microsecond {
			t.Errorf("Interval %d: delays range from %s to %s", i, s.MinDelay, s.MaxDelay)
		}
		if s.Changes > 1 {
			t.Errorf("Interval %d: delay changes %d times", i, s.Changes)
		}
		prev = iv[len(iv)-1].Current
	}
}

func TestSchedule(t *testing.T) {
	targets := []int32{0, 3, 10, 10, -7, 9993, 9993, 9994, 0, -10000, -10000 + 7, 1, 1, -2, 4999, 5000}
	g := newGen(t, Values(targets...), testInterval)
	pos := Position{}
	recs := Simulate(g, &pos, len(targets))
	if n := len(Intervals(recs)); n != len(targets) {
		t.Fatalf("Expected %d intervals, got %d", len(targets), n)
	}
	checkIntervals(t, recs, 0, testInterval, math.MaxInt64)
	if pos.Current != 5000 {
		t.Errorf("Final position: expected 5000, got %d", pos.Current)
	}
}

func TestRandomSchedule(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	var targets []int32
	v := int32(0)
	for i := 0; i < 300; i++ {
		if rnd.Intn(5) != 0 {
			v += int32(rnd.Intn(4001) - 2000)
		}
		targets = append(targets, v)
	}
	for _, interval := range []time.Duration{testInterval, 7919 * time.Microsecond, 20 * time.Millisecond} {
		g := newGen(t, Values(targets...), interval)
		pos := Position{}
		recs := Simulate(g, &pos, len(targets))
		checkIntervals(t, recs, 0, interval, math.MaxInt64)
		if pos.Current != v {
			t.Errorf("Interval %s: final position %d, expected %d", interval, pos.Current, v)
		}
	}
}

func TestSineSchedule(t *testing.T) {
	sw := NewSineWave(1000, 0.2, testInterval)
	g := newGen(t, sw.Next, testInterval)
	pos := Position{}
	recs := Simulate(g, &pos, 1000)
	checkIntervals(t, recs, 0, testInterval, math.MaxInt64)
}

func TestWrapAround(t *testing.T) {
	start := int32(math.MaxInt32 - 1)
	g := newGen(t, Values(math.MinInt32+2, math.MaxInt32-5), testInterval)
	pos := Position{Current: start, Target: start}
	recs := Simulate(g, &pos, 2)
	ivs := Intervals(recs)
	if len(ivs) != 2 {
		t.Fatalf("Expected 2 intervals, got %d", len(ivs))
	}
	if s := Summarise(ivs[0]); s.Steps != 4 || s.Dir != Forward {
		t.Errorf("Across boundary: expected 4 forward steps, got %d %s", s.Steps, s.Dir)
	}
	if s := Summarise(ivs[1]); s.Steps != 8 || s.Dir != Backward {
		t.Errorf("Back across boundary: expected 8 backward steps, got %d %s", s.Steps, s.Dir)
	}
	checkIntervals(t, recs, start, testInterval, math.MaxInt64)
	if pos.Current != math.MaxInt32-5 {
		t.Errorf("Final position: expected %d, got %d", math.MaxInt32-5, pos.Current)
	}
}

func TestDirectionReversal(t *testing.T) {
	g := newGen(t, Values(5, -5, 5), testInterval)
	pos := Position{}
	recs := Simulate(g, &pos, 3)
	wantDir := []Direction{Forward, Backward, Forward}
	wantSteps := []int{5, 10, 10}
	for i, iv := range Intervals(recs) {
		s := Summarise(iv)
		if s.Dir != wantDir[i] || s.Steps != wantSteps[i] {
			t.Errorf("Interval %d: expected %d %s, got %d %s", i, wantSteps[i], wantDir[i], s.Steps, s.Dir)
		}
	}
	checkIntervals(t, recs, 0, testInterval, math.MaxInt64)
}

func TestMinDelay(t *testing.T) {
	interval := time.Millisecond
	g := newGen(t, Values(25), interval)
	if err := g.SetMinDelay(100 * time.Microsecond); err != nil {
		t.Fatalf("SetMinDelay: %v", err)
	}
	pos := Position{}
	recs := Simulate(g, &pos, 4)
	want := []int{10, 10, 5, 1}
	ivs := Intervals(recs)
	if len(ivs) != len(want) {
		t.Fatalf("Expected %d intervals, got %d", len(want), len(ivs))
	}
	for i, iv := range ivs {
		s := Summarise(iv)
		if s.Steps != want[i] {
			t.Errorf("Interval %d: expected %d steps, got %d", i, want[i], s.Steps)
		}
		if s.Total != interval {
			t.Errorf("Interval %d: total %s", i, s.Total)
		}
		if s.MinDelay < 100*time.Microsecond {
			t.Errorf("Interval %d: delay %s below minimum", i, s.MinDelay)
		}
	}
	checkIntervals(t, recs, 0, interval, 10)
}

func TestFastestSteps(t *testing.T) {
	interval := 100 * time.Microsecond
	g := newGen(t, Values(-250), interval)
	pos := Position{}
	recs := Simulate(g, &pos, 3)
	for _, r := range recs {
		if r.Delay < time.Microsecond {
			t.Fatalf("Zero delay step returned")
		}
	}
	checkIntervals(t, recs, 0, interval, 100)
	if pos.Current != -250 {
		t.Errorf("Final position: expected -250, got %d", pos.Current)
	}
}

func TestDelayOrder(t *testing.T) {
	g := newGen(t, Values(7, 10), testInterval)
	pos := Position{}
	ivs := Intervals(Simulate(g, &pos, 2))
	delays := func(iv []Record) []time.Duration {
		var d []time.Duration
		for _, r := range iv {
			d = append(d, r.Delay/time.Microsecond)
		}
		return d
	}
	// Step rate rising, longer delays first.
	rising := []time.Duration{1429, 1429, 1429, 1429, 1428, 1428, 1428}
	// Step rate falling, shorter delays first.
	falling := []time.Duration{3333, 3333, 3334}
	for i, want := range [][]time.Duration{rising, falling} {
		got := delays(ivs[i])
		if len(got) != len(want) {
			t.Fatalf("Interval %d: expected %v, got %v", i, want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("Interval %d: expected %v, got %v", i, want, got)
				break
			}
		}
	}
}

func TestStop(t *testing.T) {
	g := newGen(t, Values(100), testInterval)
	pos := Position{}
	if si := g.Next(&pos); si.Done() {
		t.Fatalf("Unexpected end of movement")
	}
	g.Stop()
	if !g.Stopped() {
		t.Errorf("Stopped: expected true")
	}
	for i := 0; i < 2; i++ {
		if si := g.Next(&pos); si != End || !si.Done() {
			t.Errorf("After stop: expected End, got %s/%s", si.Dir, si.Delay)
		}
	}
	if recs := Simulate(g, &pos, 5); len(recs) != 0 {
		t.Errorf("Simulate after stop: expected no steps, got %d", len(recs))
	}
}

func TestConcurrentNext(t *testing.T) {
	g := newGen(t, Values(1), testInterval)
	g.busy.Store(true)
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic on concurrent call")
		}
	}()
	g.Next(&Position{})
}
