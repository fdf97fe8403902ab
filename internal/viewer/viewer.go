// Package viewer shows a rendered plot in a desktop window.
//
// The window is an ebiten game loop that draws one static image. It blocks
// the calling goroutine until the user closes the window or presses Escape
// or Q.
package viewer

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Show opens a window titled title displaying img at its native size and
// blocks until the window is closed.
func Show(img image.Image, title string) error {
	b := img.Bounds()
	if b.Empty() {
		return errors.New("viewer: empty image")
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// The picture is static.
	ebiten.SetTPS(10)
	ebiten.SetScreenClearedEveryFrame(false)

	return ebiten.RunGame(&plotWindow{src: img})
}

// plotWindow implements ebiten.Game for a single static picture.
type plotWindow struct {
	src image.Image
	img *ebiten.Image
}

func (w *plotWindow) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (w *plotWindow) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImageFromImage(w.src)
	}
	screen.DrawImage(w.img, nil)
}

// Layout keeps the logical screen at the plot's size; ebiten scales it to
// whatever size the window is resized to.
func (w *plotWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := w.src.Bounds()
	return b.Dx(), b.Dy()
}
