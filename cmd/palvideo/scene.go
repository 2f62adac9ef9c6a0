package main

import (
	"image"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/palvideo"
)

// demoScene is a small engine stand-in: it scrolls a gradient through the
// backbuffer and blits one sprite that follows the classified pointer.
//
// Secondary click toggles grayscale, 's' toggles sepia, 'h' half
// transparency, 'f' fades to black and back, and the wheel mirrors.
type demoScene struct {
	env    *palvideo.StaticEnvironment
	sprite *palvideo.Sprite

	width, height int
	x, y          int
	flags         palvideo.BlitFlags
	frame         int
	pressed       bool
	paused        bool
	faded         bool

	compositor *palvideo.FrameCompositor
}

func newDemoScene(cfg palvideo.Config, img image.Image, colors int) *demoScene {
	var sprite *palvideo.Sprite
	if img != nil {
		sprite = palvideo.QuantizeImage(img, colors)
	} else {
		sprite = discSprite(48)
	}
	sprite.OriginX, sprite.OriginY = sprite.Width/2, sprite.Height/2
	return &demoScene{
		env:    &palvideo.StaticEnvironment{Focused: palvideo.ControlGameView},
		sprite: sprite,
		width:  cfg.Width,
		height: cfg.Height,
		x:      cfg.Width / 2,
		y:      cfg.Height / 2,
	}
}

// discSprite is a striped disc on a color-keyed background.
func discSprite(size int) *palvideo.Sprite {
	pal := palvideo.NewGrayscalePalette()
	pal[1] = palvideo.Color{R: 220, G: 60, B: 40, A: 255}
	pal[2] = palvideo.Color{R: 240, G: 200, B: 60, A: 255}

	pix := make([]byte, size*size)
	r := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy >= r*r {
				continue
			}
			pix[y*size+x] = 1 + byte((x+y)/6%2)
		}
	}
	s, _ := palvideo.NewPalettedSprite(size, size, pix, pal)
	s.ColorKey = true
	return s
}

// EmitEvent implements palvideo.EventSink.
func (s *demoScene) EmitEvent(e palvideo.InputEvent) {
	switch e.Type {
	case palvideo.EventMouseMove, palvideo.EventPointerOver:
		s.x, s.y = e.X, e.Y
	case palvideo.EventMouseDown:
		s.x, s.y = e.X, e.Y
		s.pressed = true
		if e.Button == palvideo.MouseButtonSecondary {
			s.flags ^= palvideo.BlitGrayscale
			s.flags &^= palvideo.BlitSepia
		}
	case palvideo.EventMouseUp:
		s.pressed = false
	case palvideo.EventWheel:
		if e.Y != 0 {
			s.flags ^= palvideo.BlitMirrorY
		}
		if e.X != 0 {
			s.flags ^= palvideo.BlitMirrorX
		}
	case palvideo.EventKeyPress:
		s.key(e.Rune)
	case palvideo.EventSuspend:
		s.paused = true
	case palvideo.EventResume:
		s.paused = false
	}
}

func (s *demoScene) key(r rune) {
	switch r {
	case 's':
		s.flags ^= palvideo.BlitSepia
		s.flags &^= palvideo.BlitGrayscale
	case 'h':
		s.flags ^= palvideo.BlitHalfTrans
	case 'f':
		if s.compositor == nil {
			return
		}
		s.faded = !s.faded
		target := palvideo.Color{}
		if s.faded {
			target = palvideo.Color{A: 255}
		}
		s.compositor.FadeTo(target, 0.5, ease.InOutQuad)
	}
}

// Update advances the scroll unless the app is suspended.
func (s *demoScene) Update() {
	if !s.paused {
		s.frame++
	}
}

// Paint fills the backbuffer with a scrolling gradient.
func (s *demoScene) Paint(back *palvideo.Surface) {
	for y := 0; y < back.Height; y++ {
		v := uint8((y + s.frame) % 256)
		c := palvideo.Color{R: v / 4, G: v / 3, B: v, A: 255}.ARGB()
		for x := 0; x < back.Width; x++ {
			back.SetARGB(x, y, c)
		}
	}
}

// Draw blits the sprite, boxed while pressed.
func (s *demoScene) Draw(r *palvideo.ShaderSpriteRenderer) {
	if err := r.BlitSprite(s.sprite, s.x, s.y, nil, s.flags, nil, nil); err != nil {
		palvideo.Logger().Warn("blit demo sprite", "err", err)
	}
	if s.pressed {
		box := palvideo.Rect{
			X:      s.x - s.sprite.OriginX - 2,
			Y:      s.y - s.sprite.OriginY - 2,
			Width:  s.sprite.Width + 4,
			Height: s.sprite.Height + 4,
		}
		r.DrawRect(box, palvideo.Color{R: 255, G: 255, A: 255}, false)
	}
}
