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

// Timer driven step execution.

package seq

import (
	"log"
	"sync"
	"time"
)

// Mover moves the motor a single step.
type Mover interface {
	Move(Direction)
}

// Runner executes the step instructions from a Generator in real time.
// Each step is passed to a Mover, the position is updated, and the
// runner waits for the step delay before requesting the next step.
// Step times are calculated from absolute deadlines so that
// latency in moving the motor does not accumulate as drift.
// A bounded history of the most recent steps is kept for display.
type Runner struct {
	Name    string
	gen     *Generator
	mover   Mover
	mu      sync.Mutex // Guards pos, history, next and started
	started bool
	pos     Position
	history []Record
	next    int // Next history slot
	full    bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewRunner creates a Runner that moves the motor from the start position.
// hist is the number of steps to keep in the history.
func NewRunner(name string, g *Generator, m Mover, start int32, hist int) *Runner {
	r := new(Runner)
	r.Name = name
	r.gen = g
	r.mover = m
	r.pos = Position{Current: start, Target: start}
	if hist > 0 {
		r.history = make([]Record, hist)
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	return r
}

// Start runs the motor in a separate goroutine.
func (r *Runner) Start() {
	if r.begin() {
		go r.run()
	}
}

// Run requests and executes steps until stopped, or until the
// generator ends the movement.
// Only the first call to Run or Start runs the motor.
func (r *Runner) Run() {
	if r.begin() {
		r.run()
	}
}

// begin marks the runner as started, returning false if it already was.
func (r *Runner) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return false
	}
	r.started = true
	return true
}

func (r *Runner) run() {
	defer close(r.done)
	select {
	case <-r.stop:
		r.gen.Stop()
		return
	default:
	}
	pos := r.Position()
	log.Printf("%s: Starting, interval %s, position %d", r.Name, r.gen.Interval(), pos.Current)
	start := time.Now()
	var at time.Duration
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	iv := 0
	for {
		si := r.gen.Next(&pos)
		if si.Done() {
			log.Printf("%s: Movement ended at %d", r.Name, pos.Current)
			return
		}
		if si.Dir != None {
			r.mover.Move(si.Dir)
			pos.Step(si.Dir)
		}
		r.record(pos, Record{Interval: iv, At: at, Dir: si.Dir, Delay: si.Delay, Current: pos.Current, Target: pos.Target})
		if r.gen.remaining == 0 {
			iv++
		}
		at += si.Delay
		timer.Reset(time.Until(start.Add(at)))
		select {
		case <-r.stop:
			r.gen.Stop()
			log.Printf("%s: Stopped at %d (target %d)", r.Name, pos.Current, pos.Target)
			return
		case <-timer.C:
		}
	}
}

// record saves the position and adds the step to the history.
func (r *Runner) record(pos Position, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = pos
	if len(r.history) == 0 {
		return
	}
	r.history[r.next] = rec
	r.next++
	if r.next == len(r.history) {
		r.next = 0
		r.full = true
	}
}

// Position returns the current position of the motor.
func (r *Runner) Position() Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// History returns a copy of the most recent steps, oldest first.
func (r *Runner) History() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Record(nil), r.history[:r.next]...)
	}
	h := make([]Record, 0, len(r.history))
	h = append(h, r.history[r.next:]...)
	return append(h, r.history[:r.next]...)
}

// Stop aborts the movement and waits for the runner to finish.
// If the runner has not been started, Stop returns immediately and
// a later Start or Run exits without moving the motor.
func (r *Runner) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if started {
		r.Wait()
	}
}

// Wait waits until the runner has finished.
// It blocks until Start or Run has been called.
func (r *Runner) Wait() {
	<-r.done
}
