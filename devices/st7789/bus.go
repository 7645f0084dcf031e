// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package st7789

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/periph/conn"
	"periph.io/x/periph/conn/gpio"
)

// DefaultTxLimit is the largest single SPI transfer issued by a Bus. The
// Linux spidev driver rejects transfers above its buffer size (4096 by default).
const DefaultTxLimit = 4096

// Bus frames commands and data for the controller over a 4-wire SPI link.
//
// The data/command line is driven low for command bytes and high for data
// bytes, and the level is set before the bytes are handed to the SPI
// connection.
type Bus struct {
	// TxLimit bounds the size of a single SPI transfer.
	TxLimit int

	mut sync.Mutex
	// c is a periph conn.Conn.
	c conn.Conn
	// dc is the data/command pin.
	dc gpio.PinOut
}

// NewBus returns a Bus writing to c, using dc as the data/command line.
func NewBus(c conn.Conn, dc gpio.PinOut) *Bus {
	return &Bus{TxLimit: DefaultTxLimit, c: c, dc: dc}
}

// WriteCommand sends a single command byte.
func (b *Bus) WriteCommand(cmd byte) error {
	return (&commandWriter{b}).writeCommand(cmd)
}

// WriteData sends p as data, split into transfers of at most TxLimit bytes.
func (b *Bus) WriteData(p []byte) error {
	_, err := b.DataWriter().Write(p)
	return err
}

// WriteCommandData sends cmd followed by its parameter bytes, if any.
func (b *Bus) WriteCommandData(cmd byte, data []byte) error {
	_, err := b.CommandWriter().Write(append([]byte{cmd}, data...))
	return err
}

// DataWriter returns a writer that sends everything as data.
func (b *Bus) DataWriter() io.Writer {
	return &batchedWriter{dst: &dataWriter{b}, batchSize: b.TxLimit}
}

// CommandWriter returns a writer that sends the first byte of each Write as a
// command and the rest as its data.
func (b *Bus) CommandWriter() io.Writer {
	return &commandWriter{b}
}

type dataWriter struct {
	*Bus
}

func (w *dataWriter) Write(p []byte) (int, error) {
	w.mut.Lock()
	defer w.mut.Unlock()
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.dc.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("%v.Out(%v) = %w", w.dc.String(), gpio.High.String(), err)
	}
	if w.TxLimit <= 0 {
		return 0, io.ErrShortWrite
	}
	if len(p) > w.TxLimit {
		if err := w.c.Tx(p[:w.TxLimit], nil); err != nil {
			return 0, err
		}
		return w.TxLimit, io.ErrShortWrite
	}
	if err := w.c.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

type commandWriter struct {
	*Bus
}

func (w *commandWriter) writeCommand(p byte) error {
	w.mut.Lock()
	defer w.mut.Unlock()
	if err := w.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("%v.Out(%v) = %w", w.dc.String(), gpio.Low.String(), err)
	}
	if err := w.c.Tx([]byte{p}, nil); err != nil {
		return fmt.Errorf("sending command %s: %w", command(p), err)
	}
	return nil
}

func (w *commandWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	cmd, data := p[0], p[1:]
	if err := w.writeCommand(cmd); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 1, nil
	}
	n, err := w.DataWriter().Write(data)
	if err != nil {
		return 1 + n, fmt.Errorf("sending %s data: %w", command(cmd), err)
	}
	return 1 + n, nil
}

// batchedWriter splits writes into batchSize chunks, in order.
type batchedWriter struct {
	dst       io.Writer
	batchSize int
}

func (b *batchedWriter) Write(p []byte) (int, error) {
	if b.batchSize <= 0 {
		return 0, io.ErrShortWrite
	}
	var sent int
	for i := 0; i < len(p); i += b.batchSize {
		j := i + b.batchSize
		if j > len(p) {
			j = len(p)
		}
		n, err := b.dst.Write(p[i:j])
		sent += n
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}
