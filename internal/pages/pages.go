// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pages describes the dashboard pages and the order they are shown
// in.
package pages

import (
	"fmt"
	"image/color"

	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/graph"
	"github.com/toothrot/pistats/internal/metrics"
)

// Style is how a page presents its metric.
type Style int

const (
	Line Style = iota
	Area
	Bars
	Gauge
	// Info pages show host identity and counters instead of a graph.
	Info
)

var styleNames = [...]string{"line", "area", "bars", "gauge", "info"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Graph returns the graph style for s, or false for Info pages.
func (s Style) Graph() (graph.Style, bool) {
	switch s {
	case Line:
		return graph.Line, true
	case Area:
		return graph.Area, true
	case Bars:
		return graph.Bars, true
	case Gauge:
		return graph.Gauge, true
	}
	return 0, false
}

// Descriptor is one page of the dashboard.
type Descriptor struct {
	Title  string
	Key    metrics.Key
	Accent color.RGBA
	// Ceiling is the value drawn at the top of the graph.
	Ceiling float64
	Style   Style
	// Unit is printed after the readout.
	Unit string
}

// Default returns the standard page table.
func Default() []Descriptor {
	return []Descriptor{
		{Title: "CPU", Key: metrics.CPU, Accent: canvas.Red, Ceiling: 100, Style: Area, Unit: "%"},
		{Title: "RAM", Key: metrics.Memory, Accent: canvas.Cyan, Ceiling: 100, Style: Area, Unit: "%"},
		{Title: "CPU TEMP", Key: metrics.CPUTemp, Accent: canvas.Yellow, Ceiling: 100, Style: Gauge, Unit: "°C"},
		{Title: "GPU TEMP", Key: metrics.GPUTemp, Accent: canvas.Magenta, Ceiling: 100, Style: Gauge, Unit: "°C"},
		{Title: "DISK", Key: metrics.Disk, Accent: canvas.Green, Ceiling: 100, Style: Area, Unit: "%"},
		{Title: "LOAD AVG", Key: metrics.Load, Accent: canvas.White, Ceiling: 10, Style: Bars},
		{Title: "NETWORK", Key: metrics.Network, Accent: canvas.Blue, Ceiling: 1000, Style: Line, Unit: "KB/s"},
		{Title: "SYSTEM", Key: metrics.System, Accent: canvas.Magenta, Style: Info},
	}
}
