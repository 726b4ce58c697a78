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
	"fmt"
	"log"
	"time"

	"github.com/aamcrae/config"
)

const (
	defaultBaud   = 115200
	defaultReport = time.Second
)

// MotorConfig is the configuration for one motor, read from a configuration file.
type MotorConfig struct {
	Name      string
	Gpio      []int         // GPIOs for the 4 stepper phases
	Interval  time.Duration // Sampling interval
	Amplitude float64       // Sine wave amplitude in steps
	Frequency float64       // Sine wave frequency in Hz
	MinDelay  time.Duration // Minimum delay between steps
	Led       int           // Status LED GPIO, -1 if none
	Serial    string        // Serial port for position reports, empty for stdout
	Baud      int
	Report    time.Duration // Period of position reports
}

// Config reads and validates a MotorConfig from a config file section.
// Sample config:
//
//	[motor]                  # name of motor
//	stepper=4,17,27,22       # GPIOs for stepper motor
//	interval=10ms            # Sampling interval
//	amplitude=1000           # Sine wave amplitude in steps
//	frequency=0.2            # Sine wave frequency in Hz
//	min_delay=20us           # Optional minimum delay between steps
//	led=25                   # Optional GPIO for status LED
//	serial=/dev/ttyUSB0,9600 # Optional serial port and baud rate for position reports
//	report=500ms             # Optional position report period
func Config(conf *config.Config, name string) (*MotorConfig, error) {
	s := conf.GetSection(name)
	if s == nil {
		return nil, fmt.Errorf("no config for %s", name)
	}
	m := &MotorConfig{Name: name, Led: -1, Baud: defaultBaud, Report: defaultReport, MinDelay: time.Microsecond}
	m.Gpio = make([]int, 4)
	n, err := s.Parse("stepper", "%d,%d,%d,%d", &m.Gpio[0], &m.Gpio[1], &m.Gpio[2], &m.Gpio[3])
	if err != nil {
		return nil, fmt.Errorf("stepper: %v", err)
	}
	if n != 4 {
		return nil, fmt.Errorf("invalid stepper arguments")
	}
	if m.Interval, err = duration(s, "interval"); err != nil {
		return nil, err
	}
	if m.Interval <= 0 {
		return nil, fmt.Errorf("interval: %w", ErrInvalidInterval)
	}
	if err := number(s, "amplitude", &m.Amplitude); err != nil {
		return nil, err
	}
	if err := number(s, "frequency", &m.Frequency); err != nil {
		return nil, err
	}
	if s.Has("min_delay") {
		if m.MinDelay, err = duration(s, "min_delay"); err != nil {
			return nil, err
		}
	}
	if s.Has("led") {
		if n, err = s.Parse("led", "%d", &m.Led); err != nil {
			return nil, fmt.Errorf("led: %v", err)
		}
		if n != 1 {
			return nil, fmt.Errorf("led: argument count")
		}
	}
	if s.Has("serial") {
		if err := serial(s, m); err != nil {
			return nil, err
		}
	}
	if s.Has("report") {
		if m.Report, err = duration(s, "report"); err != nil {
			return nil, err
		}
		if m.Report <= 0 {
			return nil, fmt.Errorf("report: must be positive")
		}
	}
	log.Printf("%s: interval %s, amplitude %g, frequency %gHz, min delay %s", m.Name, m.Interval, m.Amplitude, m.Frequency, m.MinDelay)
	return m, nil
}

// ReadConfig parses the config file and returns the motor config from the named section.
func ReadConfig(file, name string) (*MotorConfig, error) {
	conf, err := config.ParseFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return Config(conf, name)
}

// NewGenerator creates the sine wave source and generator described by the config.
func (m *MotorConfig) NewGenerator() (*Generator, *SineWave, error) {
	sw := NewSineWave(m.Amplitude, m.Frequency, m.Interval)
	g, err := NewGenerator(sw.Next, m.Interval)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	if err := g.SetMinDelay(m.MinDelay); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", m.Name, err)
	}
	return g, sw, nil
}

func duration(s *config.Section, key string) (time.Duration, error) {
	a, err := s.GetArg(key)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	d, err := time.ParseDuration(a)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	return d, nil
}

func number(s *config.Section, key string, v *float64) error {
	n, err := s.Parse(key, "%f", v)
	if err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: argument count", key)
	}
	return nil
}

// serial parses the serial port name and optional baud rate.
// The config library splits the value on commas, so the port
// is the first token and the baud rate the second.
func serial(s *config.Section, m *MotorConfig) error {
	e := s.Get("serial")
	if len(e) != 1 {
		return fmt.Errorf("serial: expected one entry, found %d", len(e))
	}
	tok := e[0].Tokens
	if len(tok) == 0 || len(tok) > 2 || tok[0] == "" {
		return fmt.Errorf("serial: expected port[,baud]")
	}
	m.Serial = tok[0]
	if len(tok) == 2 {
		if _, err := fmt.Sscanf(tok[1], "%d", &m.Baud); err != nil {
			return fmt.Errorf("serial: baud rate: %v", err)
		}
		if m.Baud <= 0 {
			return fmt.Errorf("serial: invalid baud rate %d", m.Baud)
		}
	}
	return nil
}
