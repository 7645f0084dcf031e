package canvas

import "image/color"

// Palette of the 8-color dashboard theme.
var (
	Black   = color.RGBA{0, 0, 0, 255}
	White   = color.RGBA{255, 255, 255, 255}
	Red     = color.RGBA{255, 0, 0, 255}
	Green   = color.RGBA{0, 255, 0, 255}
	Blue    = color.RGBA{0, 0, 255, 255}
	Yellow  = color.RGBA{255, 255, 0, 255}
	Cyan    = color.RGBA{0, 255, 255, 255}
	Magenta = color.RGBA{255, 0, 255, 255}
)

// Grey returns an opaque grey of the given level.
func Grey(level uint8) color.RGBA {
	return color.RGBA{level, level, level, 255}
}

// Scale multiplies each channel of c by f, clamped to [0, 1]. It is used to
// dim an accent color for fills and glows.
func Scale(c color.Color, f float64) color.RGBA {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{
		R: uint8(float64(r>>8) * f),
		G: uint8(float64(g>>8) * f),
		B: uint8(float64(b>>8) * f),
		A: 255,
	}
}
