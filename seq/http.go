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

// HTTP server for schedule images

package seq

import (
	"fmt"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/fogleman/gg"
)

// History returns the most recent steps, oldest first.
type History interface {
	History() []Record
}

const (
	imageWidth  = 1000
	imageHeight = 600
	margin      = 20
)

// ScheduleServer serves an image of the recent steps of the runners on the port.
// Each runner's image is at /<name>.png.
func ScheduleServer(port int, runners ...*Runner) error {
	mux := http.NewServeMux()
	for _, r := range runners {
		mux.Handle(fmt.Sprintf("/%s.png", r.Name), ImageHandler(r.Name, r, imageWidth, imageHeight))
	}
	url := fmt.Sprintf(":%d", port)
	log.Printf("Starting server on %s", url)
	server := &http.Server{Addr: url, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return server.ListenAndServe()
}

// ImageHandler returns a handler that draws the history as a PNG image.
// The upper part of the image traces the target and current positions,
// the lower part shows the delay of each step as a bar.
func ImageHandler(name string, h History, width, height int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := Draw(h.History(), width, height)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, c.Image()); err != nil {
			log.Printf("%s: Error writing image: %v", name, err)
		}
	}
}

// Draw renders the records onto a new drawing context.
func Draw(recs []Record, width, height int) *gg.Context {
	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.Clear()
	if len(recs) == 0 {
		return c
	}
	w := float64(width - 2*margin)
	split := float64(height) * 2 / 3
	traceH := split - 2*margin
	barH := float64(height) - split - margin
	base, lo, hi := bounds(recs)
	var maxDelay time.Duration
	for _, r := range recs {
		if r.Delay > maxDelay {
			maxDelay = r.Delay
		}
	}
	span := float64(hi) - float64(lo)
	if span == 0 {
		span = 1
	}
	x := func(i int) float64 {
		return margin + w*float64(i)/float64(len(recs))
	}
	y := func(v int32) float64 {
		return margin + traceH - traceH*float64(int64(Delta(base, v))-lo)/span
	}
	c.SetLineWidth(2)
	c.SetRGB(0.8, 0.2, 0.2)
	trace(c, recs, x, y, func(r Record) int32 { return r.Target })
	c.SetRGB(0, 0, 1)
	trace(c, recs, x, y, func(r Record) int32 { return r.Current })
	c.SetLineWidth(1)
	c.SetRGB(0.2, 0.6, 0.2)
	for i, r := range recs {
		bh := barH * float64(r.Delay) / float64(maxDelay)
		c.DrawLine(x(i), float64(height)-margin, x(i), float64(height)-margin-bh)
	}
	c.Stroke()
	c.SetRGB(0, 0, 0)
	c.DrawString(fmt.Sprintf("position %d..%d", Add(base, int32(lo)), Add(base, int32(hi))), margin, margin)
	c.DrawString(fmt.Sprintf("max delay %s", maxDelay), margin, split+margin/2)
	return c
}

// bounds returns the range of positions in the records as wrapped
// offsets from the first current position, so a history crossing
// the integer boundary stays contiguous.
func bounds(recs []Record) (base int32, lo, hi int64) {
	base = recs[0].Current
	for _, r := range recs {
		for _, v := range []int32{r.Current, r.Target} {
			d := int64(Delta(base, v))
			if d < lo {
				lo = d
			}
			if d > hi {
				hi = d
			}
		}
	}
	return base, lo, hi
}

func trace(c *gg.Context, recs []Record, x func(int) float64, y func(int32) float64, v func(Record) int32) {
	c.MoveTo(x(0), y(v(recs[0])))
	for i := 1; i < len(recs); i++ {
		c.LineTo(x(i), y(v(recs[i])))
	}
	c.Stroke()
}
