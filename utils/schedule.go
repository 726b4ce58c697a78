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

// Schedule explorer utility.
// Reads target positions from stdin and prints the step schedule
// generated for each interval.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aamcrae/stepgen/seq"
)

var interval = flag.Duration("interval", 10*time.Millisecond, "Sampling interval")
var minDelay = flag.Duration("min_delay", time.Microsecond, "Minimum delay between steps")
var start = flag.Int("start", 0, "Starting position")

func main() {
	flag.Parse()
	var target int32
	g, err := seq.NewGenerator(func() int32 { return target }, *interval)
	if err != nil {
		log.Fatalf("Generator: %v", err)
	}
	if err := g.SetMinDelay(*minDelay); err != nil {
		log.Fatalf("Generator: %v", err)
	}
	pos := seq.Position{Current: int32(*start), Target: int32(*start)}
	target = pos.Target
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Position %d - enter target or command ('help' for help) ", pos.Current)
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		switch text {
		case "help":
			fmt.Println("  help - print help")
			fmt.Println("  [-]NNN - target position for the next interval")
			fmt.Println("  +NNN - move relative to the current position")
			fmt.Println("  (empty) - repeat the last target")
			fmt.Println("  q - quit")
			continue
		case "q":
			return
		case "":
		default:
			var v int32
			n, err := fmt.Sscanf(text, "%d", &v)
			if err != nil || n != 1 {
				fmt.Printf("Unrecognised input\n")
				continue
			}
			if text[0] == '+' {
				v = seq.Add(pos.Current, v)
			}
			target = v
		}
		show(seq.Simulate(g, &pos, 1))
	}
}

// show prints the schedule of one interval, grouping runs of the same delay.
func show(recs []seq.Record) {
	if len(recs) == 0 {
		return
	}
	s := seq.Summarise(recs)
	fmt.Printf("Target %d: %d steps %s, total %s\n", recs[0].Target, s.Steps, s.Dir, s.Total)
	run := 0
	for i, r := range recs {
		run++
		if i == len(recs)-1 || recs[i+1].Delay != r.Delay {
			fmt.Printf("  %5d x %s\n", run, r.Delay)
			run = 0
		}
	}
}
