// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary lcdbanner displays a line of text on an ST7789 LCD.
package main

import (
	"image"
	"image/color"
	"log"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	flag "github.com/spf13/pflag"
	"github.com/toothrot/pistats/devices/st7789"
	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/logger"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

var (
	text   = flag.StringP("text", "t", "Display\nWorking!", "Text to display.")
	rotate = flag.Float64P("rotate", "r", 0.0, "Image rotation in degrees.")
	size   = flag.Float64("size", 40, "Font size in points.")
	hold   = flag.Duration("hold", 5*time.Second, "How long to keep the banner on screen.")
	debug  = flag.Bool("debug", false, "Log panel timings.")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	d, err := st7789.New(st7789.Opts{
		Pins:   st7789.DefaultPins,
		Logger: logger.New("[lcdbanner]", *debug),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("d.Close() = %v", err)
		}
	}()

	log.Println("Initializing")
	if err := d.Init(); err != nil {
		return err
	}

	log.Println("Displaying banner")
	if err := d.Update(banner(*text)); err != nil {
		return err
	}
	log.Printf("Waiting %vs", hold.Seconds())
	time.Sleep(*hold)
	return nil
}

// banner renders s centered in white on a black frame, with a green border
// so a shifted or clipped window is easy to spot.
func banner(s string) image.Image {
	img := imaging.New(st7789.DisplayWidth, st7789.DisplayHeight, color.Black)
	ctx := gg.NewContextForImage(img)

	ctx.SetColor(canvas.Green)
	ctx.SetLineWidth(4)
	ctx.DrawRectangle(2, 2, st7789.DisplayWidth-4, st7789.DisplayHeight-4)
	ctx.Stroke()

	ctx.SetFontFace(fontFace())
	ctx.SetColor(canvas.White)
	ctx.DrawStringWrapped(s, st7789.DisplayWidth/2, st7789.DisplayHeight/2, 0.5, 0.5, st7789.DisplayWidth-40, 1.2, gg.AlignCenter)
	rot := imaging.Rotate(ctx.Image(), *rotate, color.Black)
	fit := imaging.Fit(rot, st7789.DisplayWidth, st7789.DisplayHeight, imaging.Lanczos)
	return imaging.PasteCenter(imaging.New(st7789.DisplayWidth, st7789.DisplayHeight, color.Black), fit)
}

func fontFace() font.Face {
	f, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		log.Fatal(err)
	}
	ff, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    *size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		log.Fatal(err)
	}
	return ff
}
