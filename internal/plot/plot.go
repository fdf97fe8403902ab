// Package plot renders an airfoil outline to a raster image.
//
// The outline is drawn as an anti-aliased polyline (golang.org/x/image/vector)
// inside a framed plot area, with reference lines through the airfoil's
// midpoint, tick labels on the frame and a legend carrying the airfoil name
// and twist. Text is set with github.com/golang/freetype using the Go fonts.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"golang.org/x/image/vector"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

// ErrNothingToPlot is returned when the outline has fewer than two points.
var ErrNothingToPlot = errors.New("outline needs at least two points to plot")

var (
	// ColorOutline is the default outline colour.
	ColorOutline = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}

	// ColorOverlay is used for the untransformed outline drawn underneath.
	ColorOverlay = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}

	// ColorAxis is used for the reference lines through the midpoint.
	ColorAxis = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x80}

	colorFrame = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	colorText  = color.Black
)

// Options controls the rendered image.
type Options struct {
	// Width and Height are the image size in pixels.
	Width, Height int

	// Margin is the gap in pixels between the image edge and the plot frame.
	// Tick labels are drawn inside it.
	Margin int

	// Bounds selects a fixed [-Limit, Limit] window or a window fitted to
	// the outline.
	Bounds model.BoundsMode

	// Limit is the half-width of the fixed window.
	Limit float64

	// Padding is the fraction of the outline's larger side added around it
	// in auto mode.
	Padding float64

	// LineWidth is the outline stroke width in pixels.
	LineWidth float64

	// LineColor is the outline colour.
	LineColor color.Color

	// ShowAxes draws the reference lines through the midpoint.
	ShowAxes bool

	// Overlay, when set, is drawn underneath in ColorOverlay. The CLI uses
	// it for the outline as loaded, before any transform.
	Overlay *geometry.Airfoil

	// FontSize is the legend and tick label size in points at 72 DPI.
	FontSize float64
}

// DefaultOptions returns an 800x800 plot of the fixed [-1, 1] window.
func DefaultOptions() Options {
	return Options{
		Width:     800,
		Height:    800,
		Margin:    48,
		Bounds:    model.BoundsFixed,
		Limit:     1,
		Padding:   0.05,
		LineWidth: 1.5,
		LineColor: ColorOutline,
		ShowAxes:  true,
		FontSize:  13,
	}
}

// Validate checks that opts describes a drawable image.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", o.Width, o.Height)
	}
	if 2*o.Margin >= o.Width || 2*o.Margin >= o.Height {
		return fmt.Errorf("margin %d leaves no plot area in %dx%d", o.Margin, o.Width, o.Height)
	}
	if !o.Bounds.IsValid() {
		return fmt.Errorf("invalid bounds mode %q", o.Bounds)
	}
	if o.Bounds == model.BoundsFixed && !(o.Limit > 0) {
		return fmt.Errorf("axis limit must be positive, got %v", o.Limit)
	}
	if !(o.LineWidth > 0) {
		return fmt.Errorf("line width must be positive, got %v", o.LineWidth)
	}
	return nil
}

// Render draws a into a new image.
func Render(a *geometry.Airfoil, opts Options) (*image.RGBA, error) {
	if a.Len() < 2 {
		return nil, ErrNothingToPlot
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.LineColor == nil {
		opts.LineColor = ColorOutline
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// The outline and reference lines are drawn onto their own canvas so
	// they are clipped to the frame.
	area := image.Rect(opts.Margin, opts.Margin, opts.Width-opts.Margin, opts.Height-opts.Margin)
	canvas := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	vp := viewportFor(a, canvas.Bounds(), opts)
	pen := newPen(canvas)

	if opts.ShowAxes {
		mx, my := vp.toPixel(a.MidPoint.X, a.MidPoint.Y)
		pen.line(mx, 0, mx, float32(area.Dy()), 1, ColorAxis)
		pen.line(0, my, float32(area.Dx()), my, 1, ColorAxis)
	}
	if opts.Overlay != nil && opts.Overlay.Len() >= 2 {
		pen.polyline(pixelPath(opts.Overlay, vp), float32(opts.LineWidth), ColorOverlay)
	}
	pen.polyline(pixelPath(a, vp), float32(opts.LineWidth), opts.LineColor)

	draw.Draw(img, area, canvas, image.Point{}, draw.Src)
	newPen(img).rect(area, 1, colorFrame)

	face, err := newTypeface(opts.FontSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if err := drawTicks(img, face, vp, area.Min); err != nil {
		return nil, err
	}
	if err := drawLegend(img, face, area, a.Label(), opts); err != nil {
		return nil, err
	}

	return img, nil
}

func pixelPath(a *geometry.Airfoil, vp viewport) [][2]float32 {
	path := make([][2]float32, len(a.Points))
	for i, p := range a.Points {
		x, y := vp.toPixel(p.X, p.Y)
		path[i] = [2]float32{x, y}
	}
	return path
}

// pen strokes lines onto an RGBA image through a reusable rasterizer.
type pen struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func newPen(dst *image.RGBA) *pen {
	b := dst.Bounds()
	return &pen{dst: dst, z: vector.NewRasterizer(b.Dx(), b.Dy())}
}

func (p *pen) reset() {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
}

func (p *pen) flush(c color.Color) {
	b := p.dst.Bounds()
	p.z.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

// segment adds one stroke segment from (x0,y0) to (x1,y1) as a quad,
// extended by half the width at both ends so consecutive segments overlap
// at the joins. The segment is first clipped so the quad stays on the
// rasterizer.
func (p *pen) segment(x0, y0, x1, y1, width float32) {
	h := float64(width) / 2
	b := p.dst.Bounds()
	inset := 1.5 * h
	clip := [4]float64{inset, inset, float64(b.Dx()) - inset, float64(b.Dy()) - inset}

	ax, ay, bx, by, ok := clipSegment(float64(x0), float64(y0), float64(x1), float64(y1), clip)
	if !ok {
		return
	}

	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l*h, dy/l*h // along the segment
	nx, ny := -uy, ux        // left normal
	ax, ay = ax-ux, ay-uy
	bx, by = bx+ux, by+uy

	p.z.MoveTo(float32(ax+nx), float32(ay+ny))
	p.z.LineTo(float32(bx+nx), float32(by+ny))
	p.z.LineTo(float32(bx-nx), float32(by-ny))
	p.z.LineTo(float32(ax-nx), float32(ay-ny))
	p.z.ClosePath()
}

// clipSegment clips the segment to the rectangle {minX, minY, maxX, maxY}
// (Liang-Barsky). ok is false when nothing of the segment is inside.
func clipSegment(x0, y0, x1, y1 float64, r [4]float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	if r[2] < r[0] || r[3] < r[1] {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0 - r[0]},
		{dx, r[2] - x0},
		{-dy, y0 - r[1]},
		{dy, r[3] - y0},
	}
	for _, e := range edges {
		pp, q := e[0], e[1]
		if pp == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / pp
		if pp < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func (p *pen) line(x0, y0, x1, y1, width float32, c color.Color) {
	p.reset()
	p.segment(x0, y0, x1, y1, width)
	p.flush(c)
}

func (p *pen) polyline(path [][2]float32, width float32, c color.Color) {
	p.reset()
	for i := 1; i < len(path); i++ {
		p.segment(path[i-1][0], path[i-1][1], path[i][0], path[i][1], width)
	}
	p.flush(c)
}

func (p *pen) rect(r image.Rectangle, width float32, c color.Color) {
	x0, y0 := float32(r.Min.X)+0.5, float32(r.Min.Y)+0.5
	x1, y1 := float32(r.Max.X)-0.5, float32(r.Max.Y)-0.5
	p.polyline([][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}, width, c)
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if !(raw > 0) {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / pow; {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

// maxTicks bounds the labels per axis.
const maxTicks = 64

// ticks returns the multiples of a nice step inside [lo, hi], aiming for
// about four intervals. Far from the origin the step can be smaller than
// the float spacing, so ticks are counted first and never stepped.
func ticks(lo, hi float64) (values []float64, decimals int) {
	step := niceStep((hi - lo) / 4)
	decimals = max(0, int(-math.Floor(math.Log10(step))))

	first := math.Ceil(lo/step - 1e-9)
	n := int(math.Floor(hi/step+1e-9)-first) + 1
	n = min(max(n, 0), maxTicks)

	values = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, (first+float64(i))*step)
	}
	return values, decimals
}

func formatTick(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
		// Avoid "-0.0" from accumulated float error.
		return strconv.FormatFloat(0, 'f', decimals, 64)
	}
	return s
}

// drawTicks labels the frame. vp works in canvas coordinates; origin is
// where the canvas sits in img.
func drawTicks(img *image.RGBA, face *typeface, vp viewport, origin image.Point) error {
	x0, x1, y0, y1 := vp.dataRange()
	area := vp.area.Add(origin)
	ox, oy := float32(origin.X), float32(origin.Y)
	tick := newPen(img)

	xs, xd := ticks(x0, x1)
	for _, v := range xs {
		px, _ := vp.toPixel(v, 0)
		px += ox
		tick.line(px, float32(area.Max.Y), px, float32(area.Max.Y)+5, 1, colorFrame)

		label := formatTick(v, xd)
		w := face.width(label)
		if err := face.draw(img, int(px)-w/2, area.Max.Y+8+face.ascent(), label, colorText); err != nil {
			return err
		}
	}

	ys, yd := ticks(y0, y1)
	for _, v := range ys {
		_, py := vp.toPixel(0, v)
		py += oy
		tick.line(float32(area.Min.X)-5, py, float32(area.Min.X), py, 1, colorFrame)

		label := formatTick(v, yd)
		w := face.width(label)
		if err := face.draw(img, area.Min.X-8-w, int(py)+face.ascent()/2, label, colorText); err != nil {
			return err
		}
	}
	return nil
}

// drawLegend draws a framed legend entry in the upper-left corner of area:
// a short line sample in the outline colour followed by the label.
func drawLegend(img *image.RGBA, face *typeface, area image.Rectangle, label string, opts Options) error {
	const (
		inset  = 10
		pad    = 6
		sample = 28
		gap    = 8
	)

	textW := face.width(label)
	lineH := face.height()
	box := image.Rect(0, 0, pad+sample+gap+textW+pad, pad+lineH+pad).
		Add(area.Min.Add(image.Pt(inset, inset)))

	draw.Draw(img, box, image.White, image.Point{}, draw.Src)
	p := newPen(img)
	p.rect(box, 1, ColorOverlay)

	midY := float32(box.Min.Y + pad + lineH/2)
	lx := float32(box.Min.X + pad)
	p.line(lx, midY, lx+sample, midY, float32(opts.LineWidth), opts.LineColor)

	return face.draw(img, box.Min.X+pad+sample+gap, box.Min.Y+pad+face.ascent(), label, colorText)
}
