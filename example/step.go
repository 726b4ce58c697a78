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

// Program to demonstrate how to drive a stepper motor from the step generator.
// The motor swings back and forth between two positions.

package main

import (
	"flag"
	"log"
	"time"

	gpio "github.com/aamcrae/gpio"

	"github.com/aamcrae/stepgen/io"
	"github.com/aamcrae/stepgen/seq"
)

const halfStepsRev = 2048 * 2

var gpios = []*int{
	flag.Int("a1", 4, "GPIO pin for motor input 1"),
	flag.Int("a2", 17, "GPIO pin for motor input 2"),
	flag.Int("a3", 27, "GPIO pin for motor input 3"),
	flag.Int("a4", 22, "GPIO pin for motor input 4"),
}
var steps = flag.Int("steps", halfStepsRev/12, "Steps in each swing")
var interval = flag.Duration("interval", 20*time.Millisecond, "Sampling interval")
var hold = flag.Int("hold", 100, "Intervals to hold each position")
var minDelay = flag.Duration("min_delay", 1200*time.Microsecond, "Minimum delay between steps")
var runFor = flag.Duration("time", 10*time.Second, "Time to run")

type mover struct {
	stepper *io.Stepper
}

func (m *mover) Move(d seq.Direction) {
	if err := m.stepper.Move(int(d)); err != nil {
		log.Fatalf("Step: %v", err)
	}
}

func main() {
	flag.Parse()
	var pins [4]*gpio.Gpio
	for i, gp := range gpios {
		var err error
		pins[i], err = gpio.OutputPin(*gp)
		if err != nil {
			log.Fatalf("Pin %d: %v", *gp, err)
		}
		defer pins[i].Close()
	}
	stepper := io.NewStepper(pins[0], pins[1], pins[2], pins[3])
	defer stepper.Off()
	g, err := seq.NewGenerator(seq.Square(0, int32(*steps), *hold), *interval)
	if err != nil {
		log.Fatalf("Generator: %v", err)
	}
	if err := g.SetMinDelay(*minDelay); err != nil {
		log.Fatalf("Generator: %v", err)
	}
	r := seq.NewRunner("example", g, &mover{stepper}, 0, 0)
	now := time.Now()
	r.Start()
	time.Sleep(*runFor)
	log.Printf("Stopping")
	r.Stop()
	log.Printf("Elapsed = %s, position %d, motor step %d, index %d", time.Since(now), r.Position().Current, stepper.GetStep(), stepper.State())
}
