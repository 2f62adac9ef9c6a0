package ebitenvideo

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/palvideo"
)

// Overlay is a small debug panel showing FPS, TPS and the touch state.
// The text is redrawn every ~0.5 seconds.
type Overlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

// NewOverlay allocates the panel image.
func NewOverlay() *Overlay {
	// 160x48 fits three lines of debug font.
	return &Overlay{img: ebiten.NewImage(160, 48)}
}

// Update refreshes the panel text once enough time has passed.
func (o *Overlay) Update(dt float64, state palvideo.FingerTrackingState) {
	o.elapsed += dt
	if o.elapsed < 0.5 && o.text != "" {
		return
	}
	o.elapsed = 0
	o.text = overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), state)

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

// Text is the last rendered panel text.
func (o *Overlay) Text() string { return o.text }

// DrawTo draws the panel at the top-left of dst.
func (o *Overlay) DrawTo(dst *ebiten.Image) {
	dst.DrawImage(o.img, nil)
}

func overlayText(fps, tps float64, s palvideo.FingerTrackingState) string {
	touch := "idle"
	switch {
	case s.Rotating:
		touch = "rotating"
	case s.HeldSecondary:
		touch = "held"
	case s.Pressed:
		touch = "pressed"
	case s.Pending():
		touch = "pending"
	}
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nTouch: %s", fps, tps, touch)
}
