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
	"math"
	"testing"
)

func TestDelta(t *testing.T) {
	testCases := []struct {
		a, b, want int32
	}{
		{0, 5, 5},
		{5, 0, -5},
		{-3, 3, 6},
		{math.MaxInt32 - 1, math.MinInt32 + 2, 4},
		{math.MinInt32 + 2, math.MaxInt32 - 1, -4},
		{math.MaxInt32, math.MinInt32, 1},
		{math.MinInt32, math.MaxInt32, -1},
	}
	for _, tc := range testCases {
		if got := Delta(tc.a, tc.b); got != tc.want {
			t.Errorf("Delta(%d, %d): expected %d, got %d", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestPositionStep(t *testing.T) {
	p := Position{Current: math.MaxInt32, Target: math.MinInt32 + 1}
	if g := p.ToGo(); g != 2 {
		t.Fatalf("ToGo: expected 2, got %d", g)
	}
	p.Step(Forward)
	if p.Current != math.MinInt32 {
		t.Errorf("Forward from MaxInt32: expected %d, got %d", int32(math.MinInt32), p.Current)
	}
	p.Step(None)
	if p.Current != math.MinInt32 {
		t.Errorf("None: position changed to %d", p.Current)
	}
	p.Step(Backward)
	if p.Current != math.MaxInt32 {
		t.Errorf("Backward from MinInt32: expected %d, got %d", int32(math.MaxInt32), p.Current)
	}
	if a := Add(10, -15); a != -5 {
		t.Errorf("Add(10, -15): expected -5, got %d", a)
	}
}
