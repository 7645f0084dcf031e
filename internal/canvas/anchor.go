package canvas

import "golang.org/x/image/math/fixed"

// Anchor is a two-letter text anchor. The first letter is horizontal: l
// (left), m (middle) or r (right). The second is vertical: a (ascender), t
// (top), m (middle), s (baseline), b (bottom) or d (descender).
type Anchor string

const (
	LeftTop      Anchor = "lt"
	MiddleMiddle Anchor = "mm"
	RightTop     Anchor = "rt"
	LeftBaseline Anchor = "ls"
)

// split returns the horizontal and vertical components, falling back to "lt"
// for anything unrecognized.
func (a Anchor) split() (h, v byte) {
	h, v = 'l', 't'
	if len(a) != 2 {
		return h, v
	}
	switch a[0] {
	case 'l', 'm', 'r':
		h = a[0]
	}
	switch a[1] {
	case 'a', 't', 'm', 's', 'b', 'd':
		v = a[1]
	}
	return h, v
}

func fixedToFloat(i fixed.Int26_6) float64 {
	return float64(i) / 64
}
