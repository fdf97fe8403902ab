package plot

import (
	"image"
	"math"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

// viewport maps data coordinates onto the pixel rectangle of the plot area.
// X and Y share one scale so the outline keeps its aspect ratio.
type viewport struct {
	area image.Rectangle

	// cx, cy is the data point shown at the centre of area.
	cx, cy float64

	// scale is pixels per data unit.
	scale float64
}

// newViewport centres the data window [x0,x1]x[y0,y1] in area at the
// largest scale that still shows all of it.
func newViewport(area image.Rectangle, x0, x1, y0, y1 float64) viewport {
	w, h := x1-x0, y1-y0
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	scale := math.Min(float64(area.Dx())/w, float64(area.Dy())/h)

	return viewport{
		area:  area,
		cx:    (x0 + x1) / 2,
		cy:    (y0 + y1) / 2,
		scale: scale,
	}
}

// viewportFor picks the data window for a according to opts.
func viewportFor(a *geometry.Airfoil, area image.Rectangle, opts Options) viewport {
	if opts.Bounds != model.BoundsAuto {
		l := opts.Limit
		return newViewport(area, -l, l, -l, l)
	}

	lo, hi := a.Bounds()
	if o := opts.Overlay; o != nil && o.Len() > 0 {
		olo, ohi := o.Bounds()
		lo = geometry.Pt(math.Min(lo.X, olo.X), math.Min(lo.Y, olo.Y))
		hi = geometry.Pt(math.Max(hi.X, ohi.X), math.Max(hi.Y, ohi.Y))
	}

	// Pad by a fraction of the larger side so flat outlines are not pressed
	// against the frame.
	pad := math.Max(hi.X-lo.X, hi.Y-lo.Y) * opts.Padding
	if pad == 0 {
		pad = 0.5
	}
	return newViewport(area, lo.X-pad, hi.X+pad, lo.Y-pad, hi.Y+pad)
}

// toPixel converts a data point to pixel coordinates. Pixel Y grows down.
func (v viewport) toPixel(x, y float64) (float32, float32) {
	mx := float64(v.area.Min.X+v.area.Max.X) / 2
	my := float64(v.area.Min.Y+v.area.Max.Y) / 2
	return float32(mx + (x-v.cx)*v.scale), float32(my - (y-v.cy)*v.scale)
}

// dataRange returns the data window actually covered by area.
func (v viewport) dataRange() (x0, x1, y0, y1 float64) {
	hw := float64(v.area.Dx()) / 2 / v.scale
	hh := float64(v.area.Dy()) / 2 / v.scale
	return v.cx - hw, v.cx + hw, v.cy - hh, v.cy + hh
}
