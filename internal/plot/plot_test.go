package plot

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

func diamond() *geometry.Airfoil {
	return geometry.NewAirfoil("diamond", []geometry.Point{
		geometry.Pt(1.0, 0.0),
		geometry.Pt(0.75, 0.04),
		geometry.Pt(0.5, 0.06),
		geometry.Pt(0.25, 0.05),
		geometry.Pt(0.0, 0.0),
		geometry.Pt(0.25, -0.03),
		geometry.Pt(0.5, -0.04),
		geometry.Pt(0.75, -0.02),
		geometry.Pt(1.0, 0.0),
	})
}

// canvasViewport rebuilds the viewport Render uses for opts.
func canvasViewport(a *geometry.Airfoil, opts Options) viewport {
	canvas := image.Rect(0, 0, opts.Width-2*opts.Margin, opts.Height-2*opts.Margin)
	return viewportFor(a, canvas, opts)
}

// nearColor reports whether any pixel within radius of (x, y) satisfies match.
func nearColor(img *image.RGBA, x, y, radius int, match func(r, g, b uint8) bool) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c := img.RGBAAt(x+dx, y+dy)
			if match(c.R, c.G, c.B) {
				return true
			}
		}
	}
	return false
}

func isRed(r, g, b uint8) bool {
	return r > 200 && g < 140 && b < 140
}

func TestRender_Default(t *testing.T) {
	a := diamond()
	opts := DefaultOptions()

	img, err := Render(a, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 800), img.Bounds())

	// Image corners are background.
	assert.Equal(t, uint8(0xff), img.RGBAAt(1, 1).G)
	assert.Equal(t, uint8(0xff), img.RGBAAt(798, 798).G)

	// A point halfway along the first upper-surface segment is on the line.
	vp := canvasViewport(a, opts)
	px, py := vp.toPixel(0.875, 0.02)
	x, y := int(px)+opts.Margin, int(py)+opts.Margin
	assert.True(t, nearColor(img, x, y, 1, isRed), "expected outline near (%d, %d)", x, y)

	// Nothing is drawn well away from the outline and the reference lines.
	px, py = vp.toPixel(-0.5, -0.5)
	assert.False(t, nearColor(img, int(px)+opts.Margin, int(py)+opts.Margin, 2, isRed))
}

func TestRender_ReferenceLines(t *testing.T) {
	a := diamond()
	a.Move(-0.5, 0.25, 0)
	opts := DefaultOptions()

	img, err := Render(a, opts)
	require.NoError(t, err)

	vp := canvasViewport(a, opts)
	mx, my := vp.toPixel(a.MidPoint.X, a.MidPoint.Y)
	_, bottom := vp.toPixel(0, -0.9)
	right, _ := vp.toPixel(0.9, 0)

	tinted := func(r, g, b uint8) bool { return r > g+20 }
	assert.True(t, nearColor(img, int(mx)+opts.Margin, int(bottom)+opts.Margin, 1, tinted), "vertical line through midpoint")
	assert.True(t, nearColor(img, int(right)+opts.Margin, int(my)+opts.Margin, 1, tinted), "horizontal line through midpoint")

	opts.ShowAxes = false
	img, err = Render(a, opts)
	require.NoError(t, err)
	assert.False(t, nearColor(img, int(mx)+opts.Margin, int(bottom)+opts.Margin, 1, tinted))
}

func TestRender_Legend(t *testing.T) {
	opts := DefaultOptions()
	img, err := Render(diamond(), opts)
	require.NoError(t, err)

	// The label is drawn in black near the top-left corner of the frame.
	dark := func(r, g, b uint8) bool { return r < 80 && g < 80 && b < 80 }
	found := false
	for y := opts.Margin + 10; y < opts.Margin+40 && !found; y++ {
		for x := opts.Margin + 40; x < opts.Margin+200; x++ {
			c := img.RGBAAt(x, y)
			if dark(c.R, c.G, c.B) {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "legend text should be drawn")
}

func TestRender_AutoBoundsFitsOutline(t *testing.T) {
	a := diamond()
	require.NoError(t, a.Scale(4))

	opts := DefaultOptions()
	opts.Bounds = model.BoundsAuto
	opts.Overlay = diamond()

	_, err := Render(a, opts)
	require.NoError(t, err)

	vp := canvasViewport(a, opts)
	for _, p := range a.Points {
		x, y := vp.toPixel(p.X, p.Y)
		assert.True(t, x >= 0 && x <= float32(vp.area.Dx()), "x %v outside canvas", x)
		assert.True(t, y >= 0 && y <= float32(vp.area.Dy()), "y %v outside canvas", y)
	}

	// In fixed mode the scaled outline runs off the canvas.
	fixed := DefaultOptions()
	vp = canvasViewport(a, fixed)
	x, _ := vp.toPixel(a.Points[4].X, a.Points[4].Y)
	assert.Less(t, x, float32(0))
}

func TestRender_Errors(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		a := geometry.NewAirfoil("dot", []geometry.Point{geometry.Pt(0, 0)})
		_, err := Render(a, DefaultOptions())
		assert.ErrorIs(t, err, ErrNothingToPlot)
	})

	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"zero size", func(o *Options) { o.Width = 0 }},
		{"margin too large", func(o *Options) { o.Margin = 400 }},
		{"bad bounds mode", func(o *Options) { o.Bounds = "tight" }},
		{"non-positive limit", func(o *Options) { o.Limit = 0 }},
		{"non-positive line width", func(o *Options) { o.LineWidth = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			_, err := Render(diamond(), opts)
			assert.Error(t, err)
		})
	}
}

func TestViewport_ToPixel(t *testing.T) {
	vp := newViewport(image.Rect(0, 0, 200, 100), -1, 1, -1, 1)

	// The tighter axis (height) sets the scale.
	assert.Equal(t, 50.0, vp.scale)

	x, y := vp.toPixel(0, 0)
	assert.Equal(t, float32(100), x)
	assert.Equal(t, float32(50), y)

	x, y = vp.toPixel(1, 1)
	assert.Equal(t, float32(150), x)
	assert.Equal(t, float32(0), y)

	x0, x1, y0, y1 := vp.dataRange()
	assert.Equal(t, []float64{-2, 2, -1, 1}, []float64{x0, x1, y0, y1})
}

func TestTicks(t *testing.T) {
	values, decimals := ticks(-1, 1)
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, values)
	assert.Equal(t, 1, decimals)

	values, decimals = ticks(0, 40)
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, values)
	assert.Equal(t, 0, decimals)

	values, _ = ticks(0, 0.3)
	assert.Len(t, values, 4)
	assert.InDelta(t, 0.3, values[3], 1e-12)
}

func TestTicks_FarFromOrigin(t *testing.T) {
	// The step of 0.5 is below the float spacing at 1e16.
	lo, hi := 1e16, 1e16+2
	values, _ := ticks(lo, hi)

	require.NotEmpty(t, values)
	assert.LessOrEqual(t, len(values), maxTicks)
	for _, v := range values {
		assert.True(t, v >= lo && v <= hi, "tick %v outside [%v, %v]", v, lo, hi)
	}
}

func TestRender_AutoBoundsFarOutline(t *testing.T) {
	a := diamond()
	a.Move(1e16, 0, 0)

	opts := DefaultOptions()
	opts.Bounds = model.BoundsAuto

	img, err := Render(a, opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, opts.Width, opts.Height), img.Bounds())
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{1, 1},
		{0.3, 0.5},
		{0.12, 0.2},
		{7, 10},
		{0, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, niceStep(tt.raw), 1e-12, "niceStep(%v)", tt.raw)
	}
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "0.0", formatTick(-1e-17, 1))
	assert.Equal(t, "-0.5", formatTick(-0.5, 1))
	assert.Equal(t, "20", formatTick(20, 0))
}

func TestClipSegment(t *testing.T) {
	r := [4]float64{0, 0, 10, 10}

	x0, y0, x1, y1, ok := clipSegment(-5, 5, 15, 5, r)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5, 10, 5}, []float64{x0, y0, x1, y1})

	x0, y0, x1, y1, ok = clipSegment(2, 2, 3, 3, r)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 2, 3, 3}, []float64{x0, y0, x1, y1})

	_, _, _, _, ok = clipSegment(-5, -5, -1, 20, r)
	assert.False(t, ok)

	_, _, _, _, ok = clipSegment(1, 1, 2, 2, [4]float64{5, 5, 4, 4})
	assert.False(t, ok)
}
