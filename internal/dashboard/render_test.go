package dashboard

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothrot/pistats/internal/canvas"
	"github.com/toothrot/pistats/internal/canvas/canvastest"
	"github.com/toothrot/pistats/internal/metrics"
	"github.com/toothrot/pistats/internal/pages"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	fonts, err := canvas.LoadFonts()
	require.NoError(t, err)
	return NewRenderer(fonts)
}

func page(t *testing.T, title string) pages.Descriptor {
	t.Helper()
	for _, p := range pages.Default() {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("no page %q", title)
	return pages.Descriptor{}
}

func TestRenderStatPage(t *testing.T) {
	r := testRenderer(t)
	rec := &canvastest.Recorder{}
	snap := metrics.Snapshot{CPUPercent: 90}
	r.Render(rec, page(t, "CPU"), snap, []float64{10, 50, 90}, 0)

	require.NotEmpty(t, rec.Calls)
	assert.Equal(t, "Clear", rec.Calls[0].Op)
	texts := rec.Texts()
	assert.Contains(t, texts, "CPU")
	assert.Contains(t, texts, "90.0")
	assert.Contains(t, texts, "%")
	assert.Contains(t, texts, TrendUp)
	assert.Equal(t, 1, rec.Count("Polygon"), "area fill")
}

func TestRenderWithoutHistory(t *testing.T) {
	r := testRenderer(t)
	rec := &canvastest.Recorder{}
	r.Render(rec, page(t, "NETWORK"), metrics.Snapshot{}, nil, 0)

	assert.Contains(t, rec.Texts(), "0.0")
	assert.NotContains(t, rec.Texts(), TrendFlat)
	assert.Equal(t, 0, rec.Count("Circle"), "no graph without samples")
}

func TestRenderGaugePage(t *testing.T) {
	r := testRenderer(t)
	rec := &canvastest.Recorder{}
	r.Render(rec, page(t, "CPU TEMP"), metrics.Snapshot{CPUTempC: 55}, []float64{55}, 0)

	assert.Equal(t, 30, rec.Count("Arc"))
	assert.Contains(t, rec.Texts(), "55.0")
	assert.Contains(t, rec.Texts(), "°C")
}

func TestRenderInfoPage(t *testing.T) {
	r := testRenderer(t)
	rec := &canvastest.Recorder{}
	snap := metrics.Snapshot{
		Hostname:    "raspberrypi",
		IP:          "10.0.0.7",
		Uptime:      "3d 4h",
		Disk:        metrics.DiskUsage{UsedBytes: 12e9, TotalBytes: 32e9},
		NetworkRate: 1234,
		Processes:   1234,
		Connections: metrics.Connections{Established: 5, Listening: 7, Total: 20},
	}
	r.Render(rec, page(t, "SYSTEM"), snap, nil, 0)

	texts := rec.Texts()
	for _, want := range []string{"SYSTEM", "raspberrypi", "10.0.0.7", "3d 4h", "12 GB / 32 GB", "1.2 kB/s", "1,234", "5 / 7 of 20"} {
		assert.Contains(t, texts, want)
	}
	assert.Equal(t, 0, rec.Count("Arc"))
	assert.Equal(t, len(InfoRows(snap)), rec.Count("RoundedRect"))
}

func TestRenderPulse(t *testing.T) {
	r := testRenderer(t)
	outline := func(frame int) []float64 {
		rec := &canvastest.Recorder{}
		p := page(t, "RAM")
		r.Render(rec, p, metrics.Snapshot{}, nil, frame)
		for _, c := range rec.Calls {
			if c.Op == "Rect" && c.Colors[0] == color.Color(p.Accent) {
				return c.Args
			}
		}
		t.Fatal("no pulse outline")
		return nil
	}
	assert.NotEqual(t, outline(0), outline(1))
	assert.Equal(t, outline(0), outline(6), "pulse repeats every six frames")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42.0", FormatValue(page(t, "CPU"), 42))
	assert.Equal(t, "0.50", FormatValue(page(t, "LOAD AVG"), 0.5))
}

func TestTrend(t *testing.T) {
	tests := []struct {
		samples []float64
		arrow   string
		ok      bool
	}{
		{nil, "", false},
		{[]float64{1}, "", false},
		{[]float64{1, 2}, TrendUp, true},
		{[]float64{2, 1}, TrendDown, true},
		{[]float64{3, 3}, TrendFlat, true},
	}
	for _, tt := range tests {
		arrow, _, ok := Trend(tt.samples)
		assert.Equal(t, tt.arrow, arrow)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestSlide(t *testing.T) {
	cur := imaging.New(canvas.Width, canvas.Height, canvas.Red)
	next := imaging.New(canvas.Width, canvas.Height, canvas.Blue)

	assert.Nil(t, Slide(cur, next, 0))

	frames := Slide(cur, next, 3)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, image.Rect(0, 0, canvas.Width, canvas.Height), f.Bounds())
		offset := canvas.Width * (i + 1) / 4
		assertRGB(t, canvas.Red, f, canvas.Width-offset-1, 10)
		assertRGB(t, canvas.Blue, f, canvas.Width-offset, 10)
	}
}

func assertRGB(t *testing.T, want color.RGBA, img image.Image, x, y int) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	assert.Equal(t, [3]uint8{want.R, want.G, want.B}, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, "pixel (%d, %d)", x, y)
}
