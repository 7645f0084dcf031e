package st7789

import (
	"image"
	"image/color"
)

var (
	// Model converts any color to RGB565 by truncating each channel.
	Model = color.ModelFunc(model)
)

// RGB565 is a 16-bit color as stored in the controller's frame memory:
// 5 bits red, 6 bits green, 5 bits blue, most significant first.
type RGB565 uint16

// Pack truncates 8-bit channels to RGB565. No rounding or dithering is
// applied; the low 3, 2 and 3 bits of r, g and b are dropped.
func Pack(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	// Replicate the high bits into the low bits so 0x1f maps to 0xff.
	r8 := r5<<3 | r5>>2
	g8 := g6<<2 | g6>>4
	b8 := b5<<3 | b5>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xffff
}

func model(c color.Color) color.Color {
	if cc, ok := c.(RGB565); ok {
		return cc
	}
	r, g, b, _ := c.RGBA()
	return Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Convert packs img into the big-endian RGB565 byte stream expected by the
// memory write command, row by row from the top-left pixel. The result holds
// two bytes per pixel of img.Bounds().
func Convert(img image.Image) []byte {
	b := img.Bounds()
	buf := make([]byte, 2*b.Dx()*b.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		convertRGBA(buf, rgba)
		return buf
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			px := Pack(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			buf[i] = byte(px >> 8)
			buf[i+1] = byte(px)
			i += 2
		}
	}
	return buf
}

func convertRGBA(dst []byte, img *image.RGBA) {
	b := img.Bounds()
	w := b.Dx()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3 : x*4+3]
			px := Pack(p[0], p[1], p[2])
			dst[i] = byte(px >> 8)
			dst[i+1] = byte(px)
			i += 2
		}
	}
}
