package palvideo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// Palette is a 256-entry color table for paletted sprites.
type Palette [PaletteSize]Color

// NewGrayscalePalette returns a ramp from black to white.
func NewGrayscalePalette() *Palette {
	var p Palette
	for i := range p {
		v := uint8(i)
		p[i] = Color{v, v, v, 255}
	}
	return &p
}

// PaletteFromColors copies a standard library palette. Missing entries are
// transparent black.
func PaletteFromColors(cp color.Palette) *Palette {
	var p Palette
	for i := 0; i < len(cp) && i < PaletteSize; i++ {
		c := color.NRGBAModel.Convert(cp[i]).(color.NRGBA)
		p[i] = Color{c.R, c.G, c.B, c.A}
	}
	return &p
}

// Sprite is an engine-supplied image. Paletted sprites carry one index byte
// per pixel; truecolor sprites carry non-premultiplied RGBA.
type Sprite struct {
	Width, Height int
	Kind          SpriteKind
	Pixels        []byte

	// OriginX and OriginY are the hotspot subtracted from blit positions.
	OriginX, OriginY int

	// ColorKey makes KeyIndex transparent on paletted sprites.
	ColorKey bool
	KeyIndex uint8

	palette *Palette
	version uint32
}

// NewPalettedSprite wraps w*h index bytes. The palette is shared, not copied;
// call Invalidate after changing it in place.
func NewPalettedSprite(w, h int, pixels []byte, pal *Palette) (*Sprite, error) {
	if len(pixels) < w*h {
		return nil, fmt.Errorf("%w: %d index bytes for %dx%d sprite", ErrGeometry, len(pixels), w, h)
	}
	if pal == nil {
		pal = NewGrayscalePalette()
	}
	return &Sprite{Width: w, Height: h, Kind: SpritePaletted, Pixels: pixels, palette: pal}, nil
}

// NewTruecolorSprite wraps w*h RGBA pixels.
func NewTruecolorSprite(w, h int, pixels []byte) (*Sprite, error) {
	if len(pixels) < w*h*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d RGBA sprite", ErrGeometry, len(pixels), w, h)
	}
	return &Sprite{Width: w, Height: h, Kind: SpriteTruecolor, Pixels: pixels}, nil
}

// SpriteFromImage copies any image into a truecolor sprite.
func SpriteFromImage(img image.Image) *Sprite {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Sprite{Width: b.Dx(), Height: b.Dy(), Kind: SpriteTruecolor, Pixels: dst.Pix}
}

// QuantizeImage reduces img to at most colors entries with a median-cut
// quantizer and returns it as a paletted sprite.
func QuantizeImage(img image.Image, colors int) *Sprite {
	if colors <= 0 || colors > PaletteSize {
		colors = PaletteSize
	}
	b := img.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), q.Quantize(make(color.Palette, 0, colors), img))
	draw.Draw(pm, pm.Bounds(), img, b.Min, draw.Src)

	pixels := pm.Pix
	if pm.Stride != b.Dx() {
		pixels = make([]byte, b.Dx()*b.Dy())
		for y := 0; y < b.Dy(); y++ {
			copy(pixels[y*b.Dx():], pm.Pix[y*pm.Stride:y*pm.Stride+b.Dx()])
		}
	}
	return &Sprite{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Kind:    SpritePaletted,
		Pixels:  pixels,
		palette: PaletteFromColors(pm.Palette),
	}
}

// Palette returns the sprite's palette, nil for truecolor sprites.
func (s *Sprite) Palette() *Palette {
	return s.palette
}

// SetPalette replaces the palette and schedules a re-upload.
func (s *Sprite) SetPalette(p *Palette) {
	s.palette = p
	s.version++
}

// Invalidate schedules a re-upload after Pixels or the palette changed in
// place.
func (s *Sprite) Invalidate() {
	s.version++
}

// Version increases every time the sprite needs re-uploading.
func (s *Sprite) Version() uint32 {
	return s.version
}

// RGBA expands the sprite to premultiplied RGBA bytes, applying the palette
// and color key for paletted sprites. Backends without palette programs use
// this for uploads; the shader backends upload indices instead.
func (s *Sprite) RGBA() []byte {
	out := make([]byte, s.Width*s.Height*4)
	pal := s.palette
	if s.Kind == SpritePaletted && pal == nil {
		pal = NewGrayscalePalette()
	}
	for i := 0; i < s.Width*s.Height; i++ {
		var c Color
		if s.Kind == SpritePaletted {
			idx := s.Pixels[i]
			if s.ColorKey && idx == s.KeyIndex {
				continue
			}
			c = pal[idx]
		} else {
			c = Color{s.Pixels[i*4], s.Pixels[i*4+1], s.Pixels[i*4+2], s.Pixels[i*4+3]}
		}
		out[i*4] = uint8(uint16(c.R) * uint16(c.A) / 255)
		out[i*4+1] = uint8(uint16(c.G) * uint16(c.A) / 255)
		out[i*4+2] = uint8(uint16(c.B) * uint16(c.A) / 255)
		out[i*4+3] = c.A
	}
	return out
}

// PaletteRGBA returns the palette as 256 premultiplied RGBA texels with the
// color key entry cleared.
func (s *Sprite) PaletteRGBA() []byte {
	out := make([]byte, PaletteSize*4)
	if s.palette == nil {
		return out
	}
	for i, c := range s.palette {
		if s.ColorKey && uint8(i) == s.KeyIndex {
			continue
		}
		out[i*4] = uint8(uint16(c.R) * uint16(c.A) / 255)
		out[i*4+1] = uint8(uint16(c.G) * uint16(c.A) / 255)
		out[i*4+2] = uint8(uint16(c.B) * uint16(c.A) / 255)
		out[i*4+3] = c.A
	}
	return out
}
