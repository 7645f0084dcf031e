// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary lcdimage displays an image, or a color test pattern, on an ST7789
// LCD.
package main

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"time"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither"
	flag "github.com/spf13/pflag"
	"github.com/toothrot/pistats/devices/st7789"
	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/logger"
)

var (
	rotate = flag.Float64P("rotate", "r", 0.0, "Image rotation in degrees.")
	fill   = flag.Bool("fill", false, "Crop the image to fill the panel instead of letterboxing it.")
	dith   = flag.Bool("dither", false, "Floyd-Steinberg dither to a 64 color palette before upload.")
	hold   = flag.Duration("hold", 5*time.Second, "How long to keep each image on screen.")
	debug  = flag.Bool("debug", false, "Log panel timings.")
)

func main() {
	flag.Usage = func() {
		log.Printf("usage: lcdimage [flags] [image ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	imgs := []image.Image{testPattern()}
	if flag.NArg() > 0 {
		imgs = imgs[:0]
		for _, path := range flag.Args() {
			img, err := imaging.Open(path, imaging.AutoOrientation(true))
			if err != nil {
				log.Fatal(err)
			}
			imgs = append(imgs, img)
		}
	}

	if err := run(imgs); err != nil {
		log.Fatal(err)
	}
}

func run(imgs []image.Image) error {
	d, err := st7789.New(st7789.Opts{
		Pins:   st7789.DefaultPins,
		Logger: logger.New("[lcdimage]", *debug),
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

	for _, img := range imgs {
		log.Println("Displaying image")
		if err := d.Update(prepare(img)); err != nil {
			return err
		}
		log.Printf("Waiting %vs", hold.Seconds())
		time.Sleep(*hold)
	}
	return nil
}

// prepare rotates and scales img to the panel, optionally dithering it.
func prepare(img image.Image) image.Image {
	w, h := st7789.DisplayWidth, st7789.DisplayHeight
	rot := imaging.Rotate(img, *rotate, color.Black)
	var out image.Image
	if *fill {
		out = imaging.Fill(rot, w, h, imaging.Center, imaging.Lanczos)
	} else {
		fit := imaging.Fit(rot, w, h, imaging.Lanczos)
		out = imaging.PasteCenter(imaging.New(w, h, color.Black), fit)
	}
	if !*dith {
		return out
	}
	dd := dither.NewDitherer(palette(4))
	dd.Matrix = dither.FloydSteinberg
	dd.Serpentine = true
	if tmp := dd.DitherPaletted(out); tmp != nil {
		return tmp
	}
	return out
}

// palette returns every color with levels evenly spaced steps per channel.
func palette(levels int) []color.Color {
	var p []color.Color
	step := 255 / (levels - 1)
	for r := 0; r < levels; r++ {
		for g := 0; g < levels; g++ {
			for b := 0; b < levels; b++ {
				p = append(p, color.RGBA{uint8(r * step), uint8(g * step), uint8(b * step), 255})
			}
		}
	}
	return p
}

// testPattern draws vertical color bars over a horizontal grey ramp. Swapped
// red and blue, or a shifted window, show up immediately.
func testPattern() image.Image {
	w, h := st7789.DisplayWidth, st7789.DisplayHeight
	bars := []color.RGBA{canvas.White, canvas.Yellow, canvas.Cyan, canvas.Green, canvas.Magenta, canvas.Red, canvas.Blue, canvas.Black}
	img := imaging.New(w, h, color.Black)
	barH := h * 2 / 3
	for x := 0; x < w; x++ {
		c := bars[x*len(bars)/w]
		for y := 0; y < barH; y++ {
			img.Set(x, y, c)
		}
		g := uint8(x * 255 / (w - 1))
		for y := barH; y < h; y++ {
			img.Set(x, y, color.Gray{Y: g})
		}
	}
	return img
}
