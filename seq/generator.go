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

// Step timing generator.

package seq

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

var (
	ErrNoSource        = errors.New("no sample source")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidMinDelay = errors.New("invalid minimum step delay")
)

// Generator converts a stream of sampled target positions into
// individual step instructions.
// Once per interval a new target is pulled from the source, and the
// steps required to reach it are spread evenly across the interval.
// The delays of all the steps in an interval add up to exactly the
// interval; an integer division remainder is distributed as a run of
// delays that are 1 microsecond longer, so that no two delays within an
// interval differ by more than 1 microsecond.
// Whether the longer delays come first or last depends on whether the
// step rate is rising or falling compared to the previous interval.
// A Generator must only be used by one goroutine at a time, apart from Stop.
type Generator struct {
	source    Source
	interval  uint32 // Sampling interval in microseconds
	minDelay  uint32 // Minimum step delay in microseconds
	dir       Direction
	delay     uint32 // Delay for next step in microseconds
	remaining uint32 // Steps left in this interval
	adjust    int64  // Steps left until the delay is adjusted by 1us
	lastCount uint32 // Step count of the previous interval
	stopped   atomic.Bool
	busy      atomic.Bool
}

// NewGenerator creates a Generator sampling the source every interval.
// The interval must be a positive whole number of microseconds.
func NewGenerator(source Source, interval time.Duration) (*Generator, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	us, err := micros(interval)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	g := new(Generator)
	g.source = source
	g.interval = us
	g.minDelay = 1
	return g, nil
}

// micros converts a duration to whole microseconds.
func micros(d time.Duration) (uint32, error) {
	if d < time.Microsecond {
		return 0, fmt.Errorf("%s is less than 1us", d)
	}
	if d%time.Microsecond != 0 {
		return 0, fmt.Errorf("%s is not a whole number of microseconds", d)
	}
	us := d / time.Microsecond
	if us > math.MaxUint32 {
		return 0, fmt.Errorf("%s is too large", d)
	}
	return uint32(us), nil
}

// SetMinDelay sets the shortest delay allowed between steps, which
// limits the number of steps in an interval. If more steps are needed
// to reach a target, the remainder is carried into the following intervals.
// Must be called before the first call to Next.
func (g *Generator) SetMinDelay(d time.Duration) error {
	us, err := micros(d)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMinDelay, err)
	}
	if us > g.interval {
		return fmt.Errorf("%w: %s is longer than the interval", ErrInvalidMinDelay, d)
	}
	g.minDelay = us
	return nil
}

// Interval returns the sampling interval.
func (g *Generator) Interval() time.Duration {
	return time.Duration(g.interval) * time.Microsecond
}

// MaxSteps returns the maximum number of steps in one interval.
func (g *Generator) MaxSteps() uint32 {
	return g.interval / g.minDelay
}

// Stop aborts movement. Every following call to Next returns End.
// Stop may be called from any goroutine.
func (g *Generator) Stop() {
	g.stopped.Store(true)
}

// Stopped returns true once Stop has been called.
func (g *Generator) Stopped() bool {
	return g.stopped.Load()
}

// Next returns the instruction for the next step.
// When all the steps of the current interval have been returned, a new
// target is sampled and pos.Target is updated. The number of steps is
// measured from pos.Current, which the caller advances as the steps are made.
// Next panics if called concurrently.
func (g *Generator) Next(pos *Position) StepInstruction {
	if !g.busy.CompareAndSwap(false, true) {
		panic("seq: concurrent call to Generator.Next")
	}
	defer g.busy.Store(false)
	if g.stopped.Load() {
		return End
	}
	if g.remaining == 0 {
		g.sample(pos)
	}
	g.remaining--
	si := StepInstruction{Dir: g.dir, Delay: time.Duration(g.delay) * time.Microsecond}
	// Move the adjustment counter towards zero, and switch
	// to the other delay size when it gets there.
	if g.adjust > 0 {
		g.adjust--
		if g.adjust == 0 {
			g.delay--
		}
	} else if g.adjust < 0 {
		g.adjust++
		if g.adjust == 0 {
			g.delay++
		}
	}
	return si
}

// sample reads a new target and calculates the schedule for the interval.
func (g *Generator) sample(pos *Position) {
	pos.Target = g.source()
	toGo := pos.ToGo()
	if toGo == 0 {
		g.dir = None
		g.delay = g.interval
		g.remaining = 1
		g.adjust = 0
		g.lastCount = 0
		return
	}
	var count uint32
	if toGo > 0 {
		g.dir = Forward
		count = uint32(toGo)
	} else {
		g.dir = Backward
		count = uint32(-int64(toGo))
	}
	if limit := g.MaxSteps(); count > limit {
		count = limit
	}
	base := g.interval / count
	rem := g.interval % count
	switch {
	case rem == 0:
		g.delay = base
		g.adjust = 0
	case g.lastCount > count:
		// Step rate is falling, so start with the shorter delays.
		g.delay = base
		g.adjust = -int64(count - rem)
	default:
		g.delay = base + 1
		g.adjust = int64(rem)
	}
	g.remaining = count
	g.lastCount = count
}
