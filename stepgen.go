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

// Step sequence program.
// Drives a stepper motor following a sine wave of target positions.

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	gpio "github.com/aamcrae/gpio"
	"github.com/tarm/serial"

	mio "github.com/aamcrae/stepgen/io"
	"github.com/aamcrae/stepgen/seq"
)

var configFile = flag.String("config", "stepgen.conf", "Configuration file")
var section = flag.String("motor", "motor", "Config section for the motor")
var port = flag.Int("port", 8080, "Web server port number, 0 to disable")
var history = flag.Int("history", 2000, "Number of steps shown in the schedule image")

// motor is a shim between the runner and the stepper.
type motor struct {
	name    string
	stepper *mio.Stepper
}

func (m *motor) Move(d seq.Direction) {
	if err := m.stepper.Move(int(d)); err != nil {
		log.Printf("%s: step: %v", m.name, err)
	}
}

func main() {
	flag.Parse()
	mc, err := seq.ReadConfig(*configFile, *section)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	var pins [4]*gpio.Gpio
	for i, gp := range mc.Gpio {
		pins[i], err = gpio.OutputPin(gp)
		if err != nil {
			log.Fatalf("Pin %d: %v", gp, err)
		}
		defer pins[i].Close()
	}
	stepper := mio.NewStepper(pins[0], pins[1], pins[2], pins[3])
	defer stepper.Off()
	if mc.Led >= 0 {
		led, err := gpio.OutputPin(mc.Led)
		if err != nil {
			log.Fatalf("LED %d: %v", mc.Led, err)
		}
		defer led.Close()
		b := mio.NewBlinker(led)
		defer b.Close()
	}
	var out io.Writer = os.Stdout
	if mc.Serial != "" {
		sp, err := serial.OpenPort(&serial.Config{Name: mc.Serial, Baud: mc.Baud})
		if err != nil {
			log.Fatalf("%s: %v", mc.Serial, err)
		}
		defer sp.Close()
		out = sp
	}
	g, _, err := mc.NewGenerator()
	if err != nil {
		log.Fatalf("%v", err)
	}
	r := seq.NewRunner(mc.Name, g, &motor{mc.Name, stepper}, 0, *history)
	r.Start()
	stop := make(chan struct{})
	go func() {
		if err := seq.Report(out, mc.Name, r, mc.Report, stop); err != nil {
			log.Printf("%v", err)
		}
	}()
	if *port != 0 {
		go func() {
			log.Fatal(seq.ScheduleServer(*port, r))
		}()
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Printf("Stopping")
	close(stop)
	r.Stop()
}
