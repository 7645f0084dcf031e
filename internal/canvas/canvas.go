// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas is a fixed-size RGB raster with the drawing primitives the
// dashboard pages are built from.
package canvas

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	// Width of the raster in pixels.
	Width = 240
	// Height of the raster in pixels.
	Height = 280
)

// Bounds is the raster rectangle.
var Bounds = image.Rect(0, 0, Width, Height)

// Point is a vertex in pixel coordinates.
type Point struct {
	X, Y float64
}

// Surface is the set of drawing operations used to compose a frame.
//
// Coordinates are in pixels with the origin at the top-left corner. A nil
// outline or fill color is not drawn. Drawing outside the raster is clipped
// and never fails.
type Surface interface {
	Clear(c color.Color)
	Line(x1, y1, x2, y2 float64, c color.Color, width float64)
	Rect(x1, y1, x2, y2 float64, outline, fill color.Color)
	RoundedRect(x1, y1, x2, y2, radius float64, outline, fill color.Color)
	Circle(cx, cy, r float64, outline, fill color.Color)
	// Arc strokes the circle arc from a1 to a2 degrees. Angles grow
	// clockwise on screen from the positive x axis.
	Arc(cx, cy, r, a1, a2 float64, c color.Color, width float64)
	Polygon(pts []Point, fill color.Color)
	// Text draws s with face f so that the anchor point of the text block
	// lands on (x, y). Lines are separated by '\n'.
	Text(x, y float64, s string, f font.Face, c color.Color, a Anchor)
}

// Canvas is a Surface over an *image.RGBA, drawn with gg.
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context
}

// New returns a black Width x Height canvas.
func New() *Canvas {
	img := image.NewRGBA(Bounds)
	c := &Canvas{img: img, dc: gg.NewContextForRGBA(img)}
	c.Clear(color.Black)
	return c
}

// Image returns the backing raster. It is drawn into in place, so callers
// must finish with it before the next frame is composed.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) Line(x1, y1, x2, y2 float64, col color.Color, width float64) {
	if col == nil || width <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.SetLineCap(gg.LineCapSquare)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) Rect(x1, y1, x2, y2 float64, outline, fill color.Color) {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	if fill != nil {
		// Fill covers both corner pixels, matching the outline.
		c.dc.DrawRectangle(x1, y1, x2-x1+1, y2-y1+1)
		c.dc.SetColor(fill)
		c.dc.Fill()
	}
	if outline != nil {
		c.dc.DrawRectangle(x1+0.5, y1+0.5, x2-x1, y2-y1)
		c.stroke(outline, 1)
	}
}

func (c *Canvas) RoundedRect(x1, y1, x2, y2, radius float64, outline, fill color.Color) {
	x1, y1, x2, y2 = order(x1, y1, x2, y2)
	if fill != nil {
		c.dc.DrawRoundedRectangle(x1, y1, x2-x1+1, y2-y1+1, radius)
		c.dc.SetColor(fill)
		c.dc.Fill()
	}
	if outline != nil {
		c.dc.DrawRoundedRectangle(x1+0.5, y1+0.5, x2-x1, y2-y1, radius)
		c.stroke(outline, 1)
	}
}

func (c *Canvas) Circle(cx, cy, r float64, outline, fill color.Color) {
	if r <= 0 {
		return
	}
	if fill != nil {
		c.dc.DrawCircle(cx, cy, r)
		c.dc.SetColor(fill)
		c.dc.Fill()
	}
	if outline != nil {
		c.dc.DrawCircle(cx, cy, r)
		c.stroke(outline, 1)
	}
}

func (c *Canvas) Arc(cx, cy, r, a1, a2 float64, col color.Color, width float64) {
	if col == nil || r <= 0 || width <= 0 {
		return
	}
	c.dc.NewSubPath()
	c.dc.DrawArc(cx, cy, r, gg.Radians(a1), gg.Radians(a2))
	// Arcs end exactly at a1 and a2; Line leaves a square cap set.
	c.dc.SetLineCap(gg.LineCapButt)
	c.stroke(col, width)
}

func (c *Canvas) Polygon(pts []Point, fill color.Color) {
	if fill == nil || len(pts) < 3 {
		return
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *Canvas) Text(x, y float64, s string, f font.Face, col color.Color, a Anchor) {
	if col == nil || f == nil || s == "" {
		return
	}
	c.dc.SetFontFace(f)
	c.dc.SetColor(col)
	for _, l := range layout(x, y, s, f, a) {
		c.dc.DrawString(l.s, l.x, l.y)
	}
}

func (c *Canvas) stroke(col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.Stroke()
}

func order(x1, y1, x2, y2 float64) (float64, float64, float64, float64) {
	return math.Min(x1, x2), math.Min(y1, y2), math.Max(x1, x2), math.Max(y1, y2)
}

// placed is one line of text with its baseline origin.
type placed struct {
	s    string
	x, y float64
}

// layout positions each line of s so the block's anchor point is (x, y).
func layout(x, y float64, s string, f font.Face, a Anchor) []placed {
	h, v := a.split()
	m := f.Metrics()
	ascent := fixedToFloat(m.Ascent)
	descent := fixedToFloat(m.Descent)
	lineHeight := fixedToFloat(m.Height)
	lines := strings.Split(s, "\n")
	extra := float64(len(lines)-1) * lineHeight

	var base float64
	switch v {
	case 'a', 't':
		base = y + ascent
	case 'm':
		base = y - (ascent+descent+extra)/2 + ascent
	case 's':
		base = y
	case 'b', 'd':
		base = y - descent - extra
	}

	out := make([]placed, 0, len(lines))
	for i, l := range lines {
		w, _ := TextSize(l, f)
		lx := x
		switch h {
		case 'm':
			lx = x - w/2
		case 'r':
			lx = x - w
		}
		out = append(out, placed{s: l, x: lx, y: base + float64(i)*lineHeight})
	}
	return out
}

// TextSize returns the advance width of the widest line of s and the height
// of the block from the first line's ascent to the last line's descent.
func TextSize(s string, f font.Face) (w, h float64) {
	m := f.Metrics()
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		if lw := fixedToFloat(font.MeasureString(f, l)); lw > w {
			w = lw
		}
	}
	h = fixedToFloat(m.Ascent) + fixedToFloat(m.Descent) + float64(len(lines)-1)*fixedToFloat(m.Height)
	return w, h
}
