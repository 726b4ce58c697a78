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

// Sample sources for the generator.

package seq

import (
	"math"
	"time"
)

// Source returns the next target position each time it is called.
// The generator calls it at most once per sampling interval and treats
// the result as authoritative.
type Source func() int32

const doublePi = 2 * math.Pi

// SineWave is an oscillator producing a sampled sine wave of target positions.
type SineWave struct {
	Amplitude float64
	phi       float64
	dPhi      float64
}

// NewSineWave creates a SineWave of the amplitude (in steps) and frequency
// (in Hz), sampled every dt.
func NewSineWave(amplitude, freq float64, dt time.Duration) *SineWave {
	s := new(SineWave)
	s.Amplitude = amplitude
	s.dPhi = freq * doublePi * dt.Seconds()
	return s
}

// Next advances the phase by one sample and returns the rounded value.
func (s *SineWave) Next() int32 {
	s.phi = math.Mod(s.phi+s.dPhi, doublePi)
	return int32(math.Round(s.Amplitude * math.Sin(s.phi)))
}

// Phase returns the current phase in radians.
func (s *SineWave) Phase() float64 {
	return s.phi
}

// Values returns a Source that replays the values given, and then
// keeps returning the last value. With no values the source returns 0.
func Values(v ...int32) Source {
	vals := append([]int32(nil), v...)
	i := 0
	return func() int32 {
		if len(vals) == 0 {
			return 0
		}
		r := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return r
	}
}

// Square returns a Source that alternates between a and b,
// holding each value for n samples.
func Square(a, b int32, n int) Source {
	if n < 1 {
		n = 1
	}
	count := 0
	return func() int32 {
		v := a
		if (count/n)%2 != 0 {
			v = b
		}
		count++
		return v
	}
}
