// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dashboard runs the render loop: each tick collects a snapshot,
// records it in history, advances the page sequence, draws the current page
// and sends it to the panel.
package dashboard

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/history"
	"github.com/toothrot/pistats/internal/logger"
	"github.com/toothrot/pistats/internal/metrics"
	"github.com/toothrot/pistats/internal/pages"
)

// Panel displays frames. *st7789.Display implements it.
type Panel interface {
	Update(img image.Image) error
}

// Collector samples host metrics. *metrics.Collector implements it.
type Collector interface {
	Collect() metrics.Snapshot
}

// Opts configures a Dashboard.
type Opts struct {
	// Pages defaults to pages.Default().
	Pages []pages.Descriptor
	// Update is the time between ticks in Run.
	Update time.Duration
	// PageDuration is how long each page is shown.
	PageDuration time.Duration
	// HistorySize is the number of samples graphed per metric.
	HistorySize int
	// SlideFrames is the number of intermediate frames sent when the page
	// changes; 0 disables the transition.
	SlideFrames int

	Logger logger.Logger
	// Now is the clock used for the first page; it defaults to time.Now.
	Now func() time.Time
}

// Dashboard owns the history, page sequence and frame buffer. It is driven
// from a single goroutine.
type Dashboard struct {
	panel     Panel
	collector Collector
	o         Opts
	log       logger.Logger

	hist     *history.History
	seq      *pages.Sequencer
	canvas   *canvas.Canvas
	renderer *Renderer
	frame    int
	// prev is the last frame sent, kept for page transitions.
	prev image.Image
}

// New returns a Dashboard drawing to p with metrics from c.
func New(p Panel, c Collector, o Opts) (*Dashboard, error) {
	if len(o.Pages) == 0 {
		o.Pages = pages.Default()
	}
	if o.Update <= 0 {
		o.Update = time.Second
	}
	if o.PageDuration <= 0 {
		o.PageDuration = 5 * time.Second
	}
	if o.HistorySize <= 0 {
		o.HistorySize = history.DefaultSize
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	fonts, err := canvas.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("canvas.LoadFonts() = %w", err)
	}

	var keys []string
	for _, pg := range o.Pages {
		if _, ok := pg.Style.Graph(); ok {
			keys = append(keys, string(pg.Key))
		}
	}
	return &Dashboard{
		panel:     p,
		collector: c,
		o:         o,
		log:       o.Logger,
		hist:      history.New(o.HistorySize, keys...),
		seq:       pages.NewSequencer(o.Pages, o.PageDuration, o.Now()),
		canvas:    canvas.New(),
		renderer:  NewRenderer(fonts),
	}, nil
}

// History returns the recorded samples.
func (d *Dashboard) History() *history.History {
	return d.hist
}

// Page returns the page on screen.
func (d *Dashboard) Page() pages.Descriptor {
	return d.seq.Current()
}

// Tick runs one collect, record, sequence, render and transmit cycle. A
// panel error is returned after the frame counter advances, so the next
// tick starts a fresh frame.
func (d *Dashboard) Tick(now time.Time) error {
	defer func(start time.Time) {
		d.log.Debug("Tick: %s", time.Since(start).String())
	}(time.Now())
	defer func() { d.frame++ }()

	snap := d.collector.Collect()
	for _, k := range d.hist.Keys() {
		d.hist.Push(k, snap.Value(metrics.Key(k)))
	}

	changed := d.seq.AdvanceIfDue(now)
	pg := d.seq.Current()
	d.renderer.Render(d.canvas, pg, snap, d.hist.Read(string(pg.Key)), d.frame)
	img := d.canvas.Image()

	if changed && d.o.SlideFrames > 0 && d.prev != nil {
		d.log.Debug("Sliding to page %d (%s)", d.seq.Index(), pg.Title)
		for _, f := range Slide(d.prev, img, d.o.SlideFrames) {
			if err := d.panel.Update(f); err != nil {
				return fmt.Errorf("transition to %s: %w", pg.Title, err)
			}
		}
	}
	if err := d.panel.Update(img); err != nil {
		return fmt.Errorf("page %s: %w", pg.Title, err)
	}
	if d.o.SlideFrames > 0 {
		d.prev = imaging.Clone(img)
	}
	return nil
}

// Run ticks immediately and then every Update until ctx is done. Tick errors
// are logged and the loop continues. Run returns nil when ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	d.log.Info("Pages: %d | Duration: %v | Update: %v", d.seq.Len(), d.o.PageDuration, d.o.Update)
	if err := d.Tick(d.o.Now()); err != nil {
		d.log.Error("tick: %v", err)
	}
	ticker := time.NewTicker(d.o.Update)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Stopping: %v", ctx.Err())
			return nil
		case t := <-ticker.C:
			if err := d.Tick(t); err != nil {
				d.log.Error("tick: %v", err)
			}
		}
	}
}
