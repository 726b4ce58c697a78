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

// Direction of a single step.
type Direction int8

const (
	Backward Direction = -1
	None     Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case None:
		return "none"
	}
	return "unknown"
}

// StepInstruction is the movement for the current step, and the
// delay before the next step is requested.
// A zero Delay marks the end of the schedule (no further steps).
type StepInstruction struct {
	Dir   Direction
	Delay time.Duration
}

// End is the instruction returned once movement has finished.
var End = StepInstruction{Dir: None, Delay: 0}

// Done returns true if this instruction marks the end of movement.
func (s StepInstruction) Done() bool {
	return s.Delay == 0
}
