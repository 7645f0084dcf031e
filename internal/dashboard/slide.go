package dashboard

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Slide returns n intermediate frames of next pushing cur out to the left.
// Frames are the size of cur; next is expected to be the same size.
func Slide(cur, next image.Image, n int) []image.Image {
	if n <= 0 {
		return nil
	}
	b := cur.Bounds()
	w, h := b.Dx(), b.Dy()
	frames := make([]image.Image, 0, n)
	for i := 1; i <= n; i++ {
		offset := w * i / (n + 1)
		f := imaging.New(w, h, color.Black)
		if offset < w {
			f = imaging.Paste(f, imaging.Crop(cur, image.Rect(b.Min.X+offset, b.Min.Y, b.Max.X, b.Max.Y)), image.Pt(0, 0))
		}
		if offset > 0 {
			nb := next.Bounds()
			f = imaging.Paste(f, imaging.Crop(next, image.Rect(nb.Min.X, nb.Min.Y, nb.Min.X+offset, nb.Max.Y)), image.Pt(w-offset, 0))
		}
		frames = append(frames, f)
	}
	return frames
}
