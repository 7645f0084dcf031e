package canvas

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts are the faces used by the dashboard pages.
type Fonts struct {
	XLarge font.Face // 28pt bold, page titles
	Large  font.Face // 18pt bold, readouts
	Medium font.Face // 12pt
	Small  font.Face // 10pt
}

// LoadFonts parses the embedded Go fonts at the dashboard sizes.
func LoadFonts() (*Fonts, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("opentype.Parse(gobold) = %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("opentype.Parse(goregular) = %w", err)
	}
	var fs Fonts
	for _, f := range []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&fs.XLarge, bold, 28},
		{&fs.Large, bold, 18},
		{&fs.Medium, regular, 12},
		{&fs.Small, regular, 10},
	} {
		face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("opentype.NewFace(%v) = %w", f.size, err)
		}
		*f.dst = face
	}
	return &fs, nil
}
