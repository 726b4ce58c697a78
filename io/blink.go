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

package io

import (
	"time"
)

// Blinker flashes a status LED in a repeating pattern: a number
// of toggles a fixed time apart, followed by a pause.
type Blinker struct {
	pin   Setter
	count int
	on    time.Duration
	pause time.Duration
	stop  chan bool
}

// NewBlinker starts flashing the pin with 4 toggles 100ms apart,
// followed by a 600ms pause.
func NewBlinker(pin Setter) *Blinker {
	return NewBlinkerPattern(pin, 4, 100*time.Millisecond, 600*time.Millisecond)
}

// NewBlinkerPattern starts flashing the pin with count toggles, each
// held for on, followed by a pause.
func NewBlinkerPattern(pin Setter, count int, on, pause time.Duration) *Blinker {
	b := new(Blinker)
	b.pin = pin
	b.count = count
	b.on = on
	b.pause = pause
	b.stop = make(chan bool)
	go b.handler()
	return b
}

// Close stops the blinker and turns the LED off.
func (b *Blinker) Close() {
	b.stop <- true
	<-b.stop
}

// goroutine handler
// Toggles the LED until told to stop.
func (b *Blinker) handler() {
	v := 1
	b.pin.Set(v)
	for {
		for i := 0; i < b.count; i++ {
			if !b.sleep(b.on) {
				return
			}
			v ^= 1
			b.pin.Set(v)
		}
		if !b.sleep(b.pause) {
			return
		}
	}
}

// sleep waits for the duration, returning false if stopped.
func (b *Blinker) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-b.stop:
		b.pin.Set(0)
		close(b.stop)
		return false
	case <-t.C:
		return true
	}
}
