package dashboard

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/graph"
	"github.com/toothrot/pistats/internal/metrics"
	"github.com/toothrot/pistats/internal/pages"
)

// Layout of a page, in pixels.
const (
	titleHeight = 75
	valueBoxY   = 88
	valueBoxH   = 45
	infoRowY    = 86
	infoRowStep = 27
	infoRowH    = 24
)

// GraphRegion is where a page's graph is drawn.
var GraphRegion = graph.Region{X: 10, Y: 150, Width: canvas.Width - 20, Height: 120}

var (
	shadow     = canvas.Grey(30)
	boxFill    = color.RGBA{20, 20, 30, 255}
	boxOutline = color.RGBA{60, 60, 100, 255}
)

// Trend arrows.
const (
	TrendUp   = "↑"
	TrendDown = "↓"
	TrendFlat = "→"
)

// Renderer draws pages.
type Renderer struct {
	fonts *canvas.Fonts
}

func NewRenderer(fonts *canvas.Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// Render draws page p onto s. samples is the page metric's history, oldest
// first, and frame drives the pulse animation.
func (r *Renderer) Render(s canvas.Surface, p pages.Descriptor, snap metrics.Snapshot, samples []float64, frame int) {
	s.Clear(canvas.Black)
	r.title(s, p)
	if p.Style == pages.Info {
		r.info(s, snap)
		return
	}
	r.readout(s, p, snap.Value(p.Key), samples, frame)

	style, _ := p.Style.Graph()
	if style != graph.Gauge {
		graph.DrawFrame(s, GraphRegion, p.Accent)
	}
	graph.Draw(s, style, samples, p.Ceiling, GraphRegion, p.Accent)
}

func (r *Renderer) title(s canvas.Surface, p pages.Descriptor) {
	w := float64(canvas.Width)
	s.Rect(0, 0, w-1, titleHeight, canvas.White, p.Accent)
	s.Rect(1, 1, w-2, titleHeight-1, canvas.Grey(100), nil)
	s.Rect(2, 2, w-3, titleHeight-2, canvas.White, nil)
	s.Text(w/2+1, 38, p.Title, r.fonts.XLarge, shadow, canvas.MiddleMiddle)
	s.Text(w/2, 37, p.Title, r.fonts.XLarge, canvas.Black, canvas.MiddleMiddle)
}

// FormatValue renders a readout with one decimal, or two for small-ceiling
// metrics such as load.
func FormatValue(p pages.Descriptor, v float64) string {
	if p.Ceiling > 0 && p.Ceiling <= 10 {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// Trend compares the two newest samples.
func Trend(samples []float64) (string, color.RGBA, bool) {
	if len(samples) < 2 {
		return "", color.RGBA{}, false
	}
	last, prev := samples[len(samples)-1], samples[len(samples)-2]
	switch {
	case last > prev:
		return TrendUp, canvas.Red, true
	case last < prev:
		return TrendDown, canvas.Green, true
	}
	return TrendFlat, canvas.White, true
}

func (r *Renderer) readout(s canvas.Surface, p pages.Descriptor, v float64, samples []float64, frame int) {
	w := float64(canvas.Width)
	pulse := float64(2 + frame%6)
	top, bottom := float64(valueBoxY), float64(valueBoxY+valueBoxH)

	s.Rect(10, top-2, w-10, bottom+2, nil, boxFill)
	s.Rect(8-pulse, top-pulse, w-8+pulse, bottom+pulse, p.Accent, nil)
	s.Rect(9, top-1, w-9, bottom+1, boxOutline, nil)
	s.Rect(10, top-2, w-10, bottom+2, canvas.White, nil)

	text := FormatValue(p, v)
	s.Text(w/2+1, top+17, text, r.fonts.Large, shadow, canvas.MiddleMiddle)
	s.Text(w/2, top+16, text, r.fonts.Large, p.Accent, canvas.MiddleMiddle)
	if p.Unit != "" {
		s.Text(w/2, top+35, p.Unit, r.fonts.Small, canvas.White, canvas.MiddleMiddle)
	}

	arrow, c, ok := Trend(samples)
	if !ok {
		return
	}
	size := float64(2 + frame%3)
	s.Rect(w-30-size, top+7-size, w-16+size, top+25+size, c, nil)
	s.Text(w-23, top+16, arrow, r.fonts.Large, c, canvas.MiddleMiddle)
}

// InfoRow is one label and value on the info page.
type InfoRow struct {
	Label, Value string
	Accent       color.RGBA
}

// InfoRows returns the rows of the info page.
func InfoRows(snap metrics.Snapshot) []InfoRow {
	return []InfoRow{
		{"Host", snap.Hostname, canvas.Cyan},
		{"IP", snap.IP, canvas.Cyan},
		{"Uptime", snap.Uptime, canvas.Green},
		{"Disk", fmt.Sprintf("%s / %s", humanize.Bytes(snap.Disk.UsedBytes), humanize.Bytes(snap.Disk.TotalBytes)), canvas.Yellow},
		{"Network", fmt.Sprintf("%s/s", humanize.Bytes(uint64(snap.NetworkRate))), canvas.Blue},
		{"Processes", humanize.Comma(int64(snap.Processes)), canvas.Magenta},
		{"TCP est/lsn", fmt.Sprintf("%d / %d of %d", snap.Connections.Established, snap.Connections.Listening, snap.Connections.Total), canvas.Red},
	}
}

func (r *Renderer) info(s canvas.Surface, snap metrics.Snapshot) {
	w := float64(canvas.Width)
	for i, row := range InfoRows(snap) {
		y := float64(infoRowY + i*infoRowStep)
		s.RoundedRect(6, y, w-6, y+infoRowH, 4, canvas.Scale(row.Accent, 0.6), boxFill)
		s.Text(12, y+infoRowH/2, row.Label, r.fonts.Small, canvas.Cyan, "lm")
		s.Text(w-12, y+infoRowH/2, row.Value, r.fonts.Medium, canvas.White, "rm")
	}
}
