// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph rasterizes metric histories as line, area, bar and gauge
// graphs onto a canvas.Surface.
package graph

import (
	"fmt"
	"image/color"
	"math"

	"github.com/toothrot/pistats/internal/canvas"
)

// Style selects how samples are drawn.
type Style int

const (
	Line Style = iota
	Area
	Bars
	Gauge
)

var styleNames = [...]string{"line", "area", "bars", "gauge"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Region is the rectangle a graph is drawn in.
type Region struct {
	X, Y, Width, Height float64
}

func (r Region) Right() float64  { return r.X + r.Width }
func (r Region) Bottom() float64 { return r.Y + r.Height }

// Gauge geometry: a 270 degree sweep starting at the bottom-left.
const (
	GaugeStart    = 135.0
	GaugeSweep    = 270.0
	GaugeSegments = 30
)

// Colors used for graph decoration.
var (
	dimGrey   = canvas.Grey(40)
	gridGrey  = canvas.Grey(30)
	areaScale = 0.35
)

// clamp limits v to [0, ceiling]. NaN is treated as 0.
func clamp(v, ceiling float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > ceiling:
		return ceiling
	}
	return v
}

// Points maps samples into r. Index 0 lands on the left edge and the last
// index on the right edge; a value of 0 lands on the bottom edge and ceiling
// on the top edge. Values outside [0, ceiling] are clamped. Coordinates are
// rounded to whole pixels.
func Points(samples []float64, ceiling float64, r Region) []canvas.Point {
	if len(samples) == 0 || ceiling <= 0 {
		return nil
	}
	pts := make([]canvas.Point, len(samples))
	for i, v := range samples {
		x := r.X
		if len(samples) > 1 {
			x = r.X + float64(i)*r.Width/float64(len(samples)-1)
		}
		y := r.Bottom() - clamp(v, ceiling)/ceiling*r.Height
		pts[i] = canvas.Point{X: math.Round(x), Y: math.Round(y)}
	}
	return pts
}

// Draw renders samples in the given style. Line, area and bar graphs need at
// least two samples and a gauge needs one; otherwise, or when ceiling is not
// positive, nothing is drawn.
func Draw(s canvas.Surface, style Style, samples []float64, ceiling float64, r Region, accent color.Color) {
	if ceiling <= 0 {
		return
	}
	switch style {
	case Line:
		if len(samples) >= 2 {
			drawLine(s, Points(samples, ceiling, r), accent)
		}
	case Area:
		if len(samples) >= 2 {
			drawArea(s, Points(samples, ceiling, r), r, accent)
		}
	case Bars:
		if len(samples) >= 2 {
			drawBars(s, samples, ceiling, r, accent)
		}
	case Gauge:
		if len(samples) >= 1 {
			drawGauge(s, samples[len(samples)-1], ceiling, r, accent)
		}
	}
}

func drawLine(s canvas.Surface, pts []canvas.Point, accent color.Color) {
	for i := 1; i < len(pts); i++ {
		s.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, accent, 2)
	}
	for i := 0; i < len(pts)-1; i += 4 {
		p := pts[i]
		s.Rect(p.X-2, p.Y-2, p.X+2, p.Y+2, nil, accent)
	}
	last := pts[len(pts)-1]
	s.Circle(last.X, last.Y, 6, canvas.Scale(accent, 0.5), nil)
	s.Circle(last.X, last.Y, 4, nil, accent)
}

func drawArea(s canvas.Surface, pts []canvas.Point, r Region, accent color.Color) {
	poly := make([]canvas.Point, 0, len(pts)+2)
	poly = append(poly, canvas.Point{X: pts[0].X, Y: r.Bottom()})
	poly = append(poly, pts...)
	poly = append(poly, canvas.Point{X: pts[len(pts)-1].X, Y: r.Bottom()})
	s.Polygon(poly, canvas.Scale(accent, areaScale))
	drawLine(s, pts, accent)
}

func drawBars(s canvas.Surface, samples []float64, ceiling float64, r Region, accent color.Color) {
	w := r.Width / float64(len(samples))
	for i, v := range samples {
		x1 := math.Round(r.X + float64(i)*w)
		x2 := math.Round(r.X+float64(i+1)*w) - 1
		if w >= 4 {
			// Leave a one pixel gap on each side.
			x1++
			x2--
		}
		top := math.Round(r.Bottom() - clamp(v, ceiling)/ceiling*r.Height)
		s.Rect(x1, top, x2, r.Bottom(), nil, accent)
		s.Line(x1, top, x2, top, canvas.White, 1)
	}
}

func drawGauge(s canvas.Surface, v, ceiling float64, r Region, accent color.Color) {
	cx := math.Round(r.X + r.Width/2)
	cy := math.Round(r.Y + r.Height/2)
	radius := math.Min(r.Width, r.Height)/2 - 6
	if radius <= 0 {
		return
	}
	frac := clamp(v, ceiling) / ceiling

	s.Circle(cx, cy, radius+4, dimGrey, canvas.Black)
	step := GaugeSweep / GaugeSegments
	for i := 0; i < GaugeSegments; i++ {
		a1 := GaugeStart + float64(i)*step
		col, width := color.Color(dimGrey), 3.0
		if float64(i) < frac*GaugeSegments {
			col, width = accent, 5
		}
		// Segments end 1.5° short of the next one.
		s.Arc(cx, cy, radius, a1, a1+step-1.5, col, width)
	}

	needle := (GaugeStart + frac*GaugeSweep) * math.Pi / 180
	nr := radius - 10
	s.Line(cx, cy, cx+nr*math.Cos(needle), cy+nr*math.Sin(needle), accent, 3)
	s.Circle(cx, cy, 5, canvas.White, accent)
}

// DrawFrame draws the background, horizontal grid and axes of a graph
// region.
func DrawFrame(s canvas.Surface, r Region, accent color.Color) {
	s.Rect(r.X, r.Y, r.Right(), r.Bottom(), nil, canvas.Black)
	for y := r.Y + 10; y < r.Bottom(); y += 10 {
		s.Line(r.X, y, r.Right(), y, gridGrey, 1)
	}
	s.Line(r.X, r.Bottom(), r.Right(), r.Bottom(), accent, 3)
	s.Line(r.X, r.Y, r.X, r.Bottom(), accent, 3)
}
