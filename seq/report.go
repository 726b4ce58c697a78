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
	"io"
	"time"
)

// Positioner returns the current position of a motor.
type Positioner interface {
	Position() Position
}

// Report writes the position to w every period until stop is closed.
// A line is only written when the position has changed since the last report.
func Report(w io.Writer, name string, p Positioner, period time.Duration, stop <-chan struct{}) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	var last Position
	first := true
	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
		}
		pos := p.Position()
		if !first && pos == last {
			continue
		}
		first = false
		last = pos
		if _, err := fmt.Fprintf(w, "%s: current %d, target %d\r\n", name, pos.Current, pos.Target); err != nil {
			return fmt.Errorf("%s: report: %w", name, err)
		}
	}
}
