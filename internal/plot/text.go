package plot

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const dpi = 72

var (
	regularOnce sync.Once
	regularFont *truetype.Font
	regularErr  error
)

// loadRegular parses the embedded Go Regular font once per process.
func loadRegular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = truetype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// typeface measures and draws text at one size.
type typeface struct {
	font *truetype.Font
	size float64
	face font.Face
}

func newTypeface(size float64) (*typeface, error) {
	f, err := loadRegular()
	if err != nil {
		return nil, err
	}
	return &typeface{
		font: f,
		size: size,
		face: truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull}),
	}, nil
}

func (t *typeface) width(s string) int {
	return font.MeasureString(t.face, s).Ceil()
}

func (t *typeface) ascent() int {
	return t.face.Metrics().Ascent.Ceil()
}

func (t *typeface) height() int {
	return t.face.Metrics().Height.Ceil()
}

// draw writes s with its baseline at y, starting at x.
func (t *typeface) draw(dst *image.RGBA, x, y int, s string, c color.Color) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(t.font)
	ctx.SetFontSize(t.size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))
	ctx.SetHinting(font.HintingFull)

	_, err := ctx.DrawString(s, freetype.Pt(x, y))
	return err
}
