// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package st7789 is for 240x280 ST7789V3 color LCD panels wired to SPI, such
// as the Waveshare 1.69 inch LCD module.
package st7789

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/toothrot/pistats/internal/logger"
	"golang.org/x/image/draw"
	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

const (
	// Device width in pixels.
	DisplayWidth = 240
	// Device height in pixels.
	DisplayHeight = 280
	// Full frame size in bytes at 16 bits per pixel.
	FrameSize = DisplayWidth * DisplayHeight * 2
)

var (
	DisplayBounds = image.Rect(0, 0, DisplayWidth, DisplayHeight)

	// ErrNotReady is returned by Update before Init has completed.
	ErrNotReady = errors.New("st7789: display not initialized")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("st7789: display closed")
)

// ResetHold is how long the reset line is held at each level. The controller
// needs at least 100ms after a reset before it accepts commands.
const ResetHold = 100 * time.Millisecond

// State is the controller's position in its power-up and frame cycle.
type State int

const (
	Unreset State = iota
	Resetting
	Initializing
	Ready
	Addressing
	Writing
	Closed
)

var stateNames = [...]string{"Unreset", "Resetting", "Initializing", "Ready", "Addressing", "Writing", "Closed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Display is a client for the LCD panel.
//
// Standard pin locations are as follows:
//  CLK  - SPI0 SCLK - Pin 23 (GPIO 11)
//  CS   - SPI0 CE0  - Pin 24 (GPIO 8), driven by the SPI controller
//  DIN  - SPI0 MOSI - Pin 19 (GPIO 10)
//  DC   - Data/Cmd  - Pin 22 (GPIO 25)
//  RST  - Reset     - Pin 13 (GPIO 27)
//  BL   - Backlight - Pin 11 (GPIO 17)
type Display struct {
	bus   *Bus
	rst   gpio.PinOut
	bl    gpio.PinOut
	port  io.Closer
	state State
	log   logger.Logger

	// sleep is replaced in tests.
	sleep func(time.Duration)
}

type Pins struct {
	// RST pin name, typically "GPIO27"
	RST string
	// DC pin name, typically "GPIO25"
	DC string
	// BL pin name, typically "GPIO17"
	BL string
}

var DefaultPins = Pins{
	RST: "GPIO27",
	DC:  "GPIO25",
	BL:  "GPIO17",
}

// DefaultSpeed is the SPI clock used by New when Opts.Speed is zero.
const DefaultSpeed = 24 * physic.MegaHertz

// Opts configures New.
type Opts struct {
	Pins Pins
	// Port is the spireg name of the SPI port; empty selects the first one.
	Port string
	// Speed is the SPI clock.
	Speed physic.Frequency
	// Logger receives timing and error details; nil uses logger.Default().
	Logger logger.Logger
}

// New opens the SPI port and control pins named in o. The returned Display
// is in the Unreset state; call Init before Update.
//
//	d, err := st7789.New(st7789.Opts{Pins: st7789.DefaultPins})
//	if err != nil {
//		// Handle error.
//	}
//	defer d.Close()
func New(o Opts) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host.Init() = %w", err)
	}
	return open(o, gpioreg.ByName)
}

// open configures the control pins found by byName and connects to the SPI
// port. Pins configured before a failure are released again.
func open(o Opts, byName func(string) gpio.PinIO) (d *Display, err error) {
	if o.Pins == (Pins{}) {
		o.Pins = DefaultPins
	}
	if o.Speed == 0 {
		o.Speed = DefaultSpeed
	}

	var claimed []gpio.PinIO
	defer func() {
		if err != nil {
			release(claimed)
		}
	}()
	claim := func(name, role string, l gpio.Level) (gpio.PinIO, error) {
		p := byName(name)
		if p == nil {
			return nil, fmt.Errorf("invalid %s pin %q", role, name)
		}
		if err := p.Out(l); err != nil {
			return nil, fmt.Errorf("%s.Out(%v) = %w", role, l, err)
		}
		claimed = append(claimed, p)
		return p, nil
	}

	dc, err := claim(o.Pins.DC, "dc", gpio.Low)
	if err != nil {
		return nil, err
	}
	rst, err := claim(o.Pins.RST, "rst", gpio.High)
	if err != nil {
		return nil, err
	}
	bl, err := claim(o.Pins.BL, "bl", gpio.Low)
	if err != nil {
		return nil, err
	}

	port, err := spireg.Open(o.Port)
	if err != nil {
		return nil, fmt.Errorf("spireg.Open(%q) = _, %w", o.Port, err)
	}
	c, err := port.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		connerr := fmt.Errorf("port.Connect(%v, %v, %v) = %w", o.Speed, spi.Mode0, 8, err)
		if err := port.Close(); err != nil {
			return nil, fmt.Errorf("port.Close() = %w while handling %q", err, connerr)
		}
		return nil, connerr
	}

	d = NewDisplay(c, dc, rst, bl, o.Logger)
	d.port = port
	return d, nil
}

// release returns pins to floating inputs. Errors are ignored; the caller is
// already reporting the failure that triggered the release.
func release(pins []gpio.PinIO) {
	for _, p := range pins {
		p.Out(gpio.Low)
		p.In(gpio.Float, gpio.NoEdge)
	}
}

// NewDisplay returns a Display on an already connected bus. rst and bl may be
// nil when the panel's reset or backlight lines are not wired.
func NewDisplay(c conn.Conn, dc, rst, bl gpio.PinOut, l logger.Logger) *Display {
	if l == nil {
		l = logger.Default()
	}
	return &Display{
		bus:   NewBus(c, dc),
		rst:   rst,
		bl:    bl,
		state: Unreset,
		log:   l,
		sleep: time.Sleep,
	}
}

// Bus returns the transport used by d.
func (d *Display) Bus() *Bus {
	return d.bus
}

// State returns the controller state.
func (d *Display) State() State {
	return d.state
}

// Reset pulses the reset line: high, low, then high again, holding each
// level for ResetHold.
func (d *Display) Reset() error {
	if d.state == Closed {
		return ErrClosed
	}
	d.state = Resetting
	if d.rst == nil {
		return nil
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.rst.Out(l); err != nil {
			d.state = Unreset
			return fmt.Errorf("%v.Out(%v) = %w", d.rst.String(), l.String(), err)
		}
		d.sleep(ResetHold)
	}
	return nil
}

// Init resets the controller, replays the power-on command table and turns
// the backlight on. Init may be called again to recover a confused panel.
func (d *Display) Init() error {
	now := time.Now()
	defer func(start time.Time) {
		d.log.Debug("Init: %s", time.Since(start).String())
	}(now)
	if err := d.Reset(); err != nil {
		return err
	}
	d.state = Initializing
	for _, s := range initSequence {
		if err := d.bus.WriteCommandData(byte(s.cmd), s.data); err != nil {
			d.state = Unreset
			return fmt.Errorf("init %s: %w", s.cmd, err)
		}
		if s.delay > 0 {
			d.sleep(time.Duration(s.delay) * time.Millisecond)
		}
	}
	if d.bl != nil {
		if err := d.bl.Out(gpio.High); err != nil {
			d.state = Unreset
			return fmt.Errorf("%v.Out(%v) = %w", d.bl.String(), gpio.High.String(), err)
		}
	}
	d.state = Ready
	return nil
}

// setWindow selects the full panel as the target of the next memory write.
func (d *Display) setWindow() error {
	x1, y1 := DisplayWidth-1, DisplayHeight-1
	if err := d.bus.WriteCommandData(byte(columnAddressSet), []byte{0, 0, byte(x1 >> 8), byte(x1)}); err != nil {
		return err
	}
	return d.bus.WriteCommandData(byte(rowAddressSet), []byte{0, 0, byte(y1 >> 8), byte(y1)})
}

// Update sends img to the panel. Images that are not exactly DisplayBounds
// are drawn onto a black frame first.
//
// A failed transfer leaves the panel Ready; the frame is lost and the next
// Update starts a fresh addressing cycle.
func (d *Display) Update(img image.Image) error {
	now := time.Now()
	defer func(start time.Time) {
		d.log.Debug("Update: %s", time.Since(start).String())
	}(now)
	switch d.state {
	case Ready:
	case Closed:
		return ErrClosed
	default:
		return ErrNotReady
	}
	return d.Write(Convert(fit(img)))
}

// Write sends a full frame of packed RGB565 pixels, as produced by Convert.
func (d *Display) Write(frame []byte) error {
	if d.state != Ready {
		if d.state == Closed {
			return ErrClosed
		}
		return ErrNotReady
	}
	if len(frame) != FrameSize {
		return fmt.Errorf("st7789: frame is %d bytes, want %d", len(frame), FrameSize)
	}
	defer func() { d.state = Ready }()

	d.state = Addressing
	if err := d.setWindow(); err != nil {
		return fmt.Errorf("set window: %w", err)
	}
	if err := d.bus.WriteCommand(byte(memoryWrite)); err != nil {
		return err
	}
	d.state = Writing
	if err := d.bus.WriteData(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func fit(img image.Image) image.Image {
	if img.Bounds() == DisplayBounds {
		return img
	}
	dst := image.NewRGBA(DisplayBounds)
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Close turns the backlight off, releases the data/command line and closes
// the SPI port. It is safe to call more than once.
func (d *Display) Close() error {
	if d.state == Closed {
		return nil
	}
	d.state = Closed
	var errs []error
	if d.bl != nil {
		if err := d.bl.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("%v.Out(%v) = %w", d.bl.String(), gpio.Low.String(), err))
		}
	}
	if err := d.bus.dc.Out(gpio.Low); err != nil {
		errs = append(errs, fmt.Errorf("%v.Out(%v) = %w", d.bus.dc.String(), gpio.Low.String(), err))
	}
	if d.port != nil {
		if err := d.port.Close(); err != nil {
			errs = append(errs, fmt.Errorf("port.Close() = %w", err))
		}
	}
	return errors.Join(errs...)
}
