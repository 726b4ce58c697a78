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

// Simulator program.
// Runs the step generator in virtual time against a sine wave, prints
// per-interval statistics and optionally writes a chart of the schedule.

package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/aamcrae/stepgen/seq"
)

var interval = flag.Duration("interval", 10*time.Millisecond, "Sampling interval")
var amplitude = flag.Float64("amplitude", 1000, "Sine wave amplitude in steps")
var freq = flag.Float64("freq", 0.2, "Sine wave frequency in Hz")
var minDelay = flag.Duration("min_delay", time.Microsecond, "Minimum delay between steps")
var start = flag.Int("start", 0, "Starting position")
var count = flag.Int("intervals", 500, "Number of intervals to simulate")
var verbose = flag.Bool("v", false, "Print every interval")
var chart = flag.String("chart", "", "Chart file name (.png, .svg, .pdf), written as position-NAME and delay-NAME")

func main() {
	flag.Parse()
	sw := seq.NewSineWave(*amplitude, *freq, *interval)
	g, err := seq.NewGenerator(sw.Next, *interval)
	if err != nil {
		log.Fatalf("Generator: %v", err)
	}
	if err := g.SetMinDelay(*minDelay); err != nil {
		log.Fatalf("Generator: %v", err)
	}
	pos := seq.Position{Current: int32(*start), Target: int32(*start)}
	recs := seq.Simulate(g, &pos, *count)
	var steps, worst int
	var spread time.Duration
	for i, iv := range seq.Intervals(recs) {
		s := seq.Summarise(iv)
		if s.Dir != seq.None {
			steps += s.Steps
		}
		if d := s.MaxDelay - s.MinDelay; d > spread {
			spread = d
		}
		if s.Total != *interval {
			worst++
			log.Printf("Interval %d: total delay %s, expected %s", i, s.Total, *interval)
		}
		if *verbose {
			fmt.Printf("%4d: target %6d, %-8s %5d steps, delay %s-%s, %d changes\n",
				i, iv[0].Target, s.Dir, s.Steps, s.MinDelay, s.MaxDelay, s.Changes)
		}
	}
	fmt.Printf("%d intervals, %d steps, final position %d (target %d), max delay spread %s, %d bad intervals\n",
		*count, steps, pos.Current, pos.Target, spread, worst)
	if *chart != "" {
		if err := writeChart(*chart, recs); err != nil {
			log.Fatalf("%s: %v", *chart, err)
		}
	}
}

// writeChart plots the positions and the step delays against time.
func writeChart(file string, recs []seq.Record) error {
	var target, current, delay plotter.XYs
	for _, r := range recs {
		t := r.At.Seconds()
		target = append(target, plotter.XY{X: t, Y: float64(r.Target)})
		current = append(current, plotter.XY{X: t, Y: float64(r.Current)})
		delay = append(delay, plotter.XY{X: t, Y: float64(r.Delay.Microseconds())})
	}
	pp := plot.New()
	pp.Title.Text = "Position"
	pp.X.Label.Text = "Time (s)"
	pp.Y.Label.Text = "Steps"
	if err := addLine(pp, "target", target, 0); err != nil {
		return err
	}
	if err := addLine(pp, "current", current, 1); err != nil {
		return err
	}
	if err := pp.Save(8*vg.Inch, 4*vg.Inch, prefix("position-", file)); err != nil {
		return err
	}
	dp := plot.New()
	dp.Title.Text = "Step delay"
	dp.X.Label.Text = "Time (s)"
	dp.Y.Label.Text = "Delay (us)"
	dp.Y.Scale = plot.LogScale{}
	dp.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	if err := addLine(dp, "delay", delay, 2); err != nil {
		return err
	}
	return dp.Save(8*vg.Inch, 4*vg.Inch, prefix("delay-", file))
}

func addLine(p *plot.Plot, name string, xy plotter.XYs, colour int) error {
	l, err := plotter.NewLine(xy)
	if err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}
	l.Color = plotutil.Color(colour)
	p.Add(l)
	p.Legend.Add(name, l)
	return nil
}

// prefix adds a prefix to the file name part of the path.
func prefix(p, file string) string {
	dir, base := filepath.Split(file)
	return filepath.Join(dir, p+base)
}
