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

// Package seq generates step timing for a stepper motor that follows
// a stream of target positions sampled at a fixed interval.

package seq

// Position holds the current and target location of the motor in steps.
// Both values live on a circular number line: differences are calculated
// modulo 2^32 (serial number arithmetic) so that the counters may wrap
// during long running operation.
// Current is advanced by whoever executes the steps, Target is written
// by the Generator with the most recently sampled value.
type Position struct {
	Current int32
	Target  int32
}

// Delta returns the signed wrapped distance from a to b, i.e b - a
// computed modulo 2^32 and reinterpreted as a signed value, so the
// result is always the short path around the circle.
func Delta(a, b int32) int32 {
	return int32(uint32(b) - uint32(a))
}

// Add returns p moved n steps, wrapping at the integer boundary.
func Add(p int32, n int32) int32 {
	return int32(uint32(p) + uint32(n))
}

// ToGo returns the wrapped number of steps from the current to the target position.
func (p Position) ToGo() int32 {
	return Delta(p.Current, p.Target)
}

// Step advances the current position one step in the direction given.
func (p *Position) Step(d Direction) {
	p.Current = Add(p.Current, int32(d))
}
