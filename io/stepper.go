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

// Package io drives the motor and status outputs through GPIO pins.

package io

import (
	"sync/atomic"
)

// Setter is an interface for setting an output value on a GPIO
type Setter interface {
	Set(int) error
}

// Stepper represents a 4 phase stepper motor driven in half-steps.
// Timing of the steps is left to the caller; each call to Move
// outputs the next phase of the sequence immediately.
// The current step number is maintained as an absolute number, referenced from
// 0 when the stepper is first initialised.
type Stepper struct {
	current atomic.Int64 // Current step number as an absolute number
	pins    [4]Setter
	index   int  // Index to step sequence
	on      bool // true if motor drivers on
}

// Half step sequence of outputs.
var sequence = [][]int{
	{1, 0, 0, 0},
	{1, 1, 0, 0},
	{0, 1, 0, 0},
	{0, 1, 1, 0},
	{0, 0, 1, 0},
	{0, 0, 1, 1},
	{0, 0, 0, 1},
	{1, 0, 0, 1},
}

// NewStepper creates a Stepper controlled by 4 GPIO pins.
func NewStepper(pin1, pin2, pin3, pin4 Setter) *Stepper {
	s := new(Stepper)
	s.pins = [4]Setter{pin1, pin2, pin3, pin4}
	return s
}

// State returns the current sequence index, so that the current state
// of the motor can be saved and then restored in a new instance.
func (s *Stepper) State() int {
	return s.index
}

// Restore initialises the sequence index to this value.
func (s *Stepper) Restore(i int) {
	s.index = i & 7
}

// GetStep returns the current step number, which is an accumulative
// signed value representing the steps moved, with 0 as the starting location.
func (s *Stepper) GetStep() int64 {
	return s.current.Load()
}

// Move moves the motor one half-step, forwards if inc is positive,
// backwards if negative. Zero leaves the motor where it is.
func (s *Stepper) Move(inc int) error {
	switch {
	case inc > 0:
		inc = 1
	case inc < 0:
		inc = -1
	default:
		return nil
	}
	s.index = (s.index + inc) & 7
	s.on = true
	s.current.Add(int64(inc))
	return s.output()
}

// Off turns off the GPIOs to remove the power from the motor.
func (s *Stepper) Off() error {
	if !s.on {
		return nil
	}
	s.on = false
	for _, p := range s.pins {
		if err := p.Set(0); err != nil {
			return err
		}
	}
	return nil
}

// Set the GPIO outputs according to the current sequence index.
func (s *Stepper) output() error {
	for i, v := range sequence[s.index] {
		if err := s.pins[i].Set(v); err != nil {
			return err
		}
	}
	return nil
}
