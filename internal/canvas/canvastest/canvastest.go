// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvastest is meant to be used to test code that draws on a
// canvas.Surface.
package canvastest

import (
	"image/color"
	"sync"

	"github.com/toothrot/pistats/internal/canvas"
	"golang.org/x/image/font"
)

// Call is one recorded drawing operation.
type Call struct {
	Op string
	// Args holds the numeric arguments in declaration order.
	Args []float64
	// Colors holds the color arguments in declaration order; nil entries are
	// kept.
	Colors []color.Color
	Points []canvas.Point
	Text   string
	Anchor canvas.Anchor
}

// Recorder is a canvas.Surface that records every call and draws nothing.
type Recorder struct {
	sync.Mutex
	Calls []Call
}

var _ canvas.Surface = &Recorder{}

func (r *Recorder) record(c Call) {
	r.Lock()
	defer r.Unlock()
	r.Calls = append(r.Calls, c)
}

// Ops returns the operation names in call order.
func (r *Recorder) Ops() []string {
	r.Lock()
	defer r.Unlock()
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Op
	}
	return out
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to Text, in order.
func (r *Recorder) Texts() []string {
	r.Lock()
	defer r.Unlock()
	var out []string
	for _, c := range r.Calls {
		if c.Op == "Text" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Calls = nil
}

func (r *Recorder) Clear(c color.Color) {
	r.record(Call{Op: "Clear", Colors: []color.Color{c}})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, c color.Color, width float64) {
	r.record(Call{Op: "Line", Args: []float64{x1, y1, x2, y2, width}, Colors: []color.Color{c}})
}

func (r *Recorder) Rect(x1, y1, x2, y2 float64, outline, fill color.Color) {
	r.record(Call{Op: "Rect", Args: []float64{x1, y1, x2, y2}, Colors: []color.Color{outline, fill}})
}

func (r *Recorder) RoundedRect(x1, y1, x2, y2, radius float64, outline, fill color.Color) {
	r.record(Call{Op: "RoundedRect", Args: []float64{x1, y1, x2, y2, radius}, Colors: []color.Color{outline, fill}})
}

func (r *Recorder) Circle(cx, cy, rad float64, outline, fill color.Color) {
	r.record(Call{Op: "Circle", Args: []float64{cx, cy, rad}, Colors: []color.Color{outline, fill}})
}

func (r *Recorder) Arc(cx, cy, rad, a1, a2 float64, c color.Color, width float64) {
	r.record(Call{Op: "Arc", Args: []float64{cx, cy, rad, a1, a2, width}, Colors: []color.Color{c}})
}

func (r *Recorder) Polygon(pts []canvas.Point, fill color.Color) {
	r.record(Call{Op: "Polygon", Points: append([]canvas.Point(nil), pts...), Colors: []color.Color{fill}})
}

func (r *Recorder) Text(x, y float64, s string, _ font.Face, c color.Color, a canvas.Anchor) {
	r.record(Call{Op: "Text", Args: []float64{x, y}, Text: s, Colors: []color.Color{c}, Anchor: a})
}
