package palvideo

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SubtitleSource resolves a movie subtitle reference to its text.
type SubtitleSource interface {
	Subtitle(ref uint32) (string, bool)
}

// SubtitleMap is a SubtitleSource backed by a map.
type SubtitleMap map[uint32]string

// Subtitle implements SubtitleSource.
func (m SubtitleMap) Subtitle(ref uint32) (string, bool) {
	s, ok := m[ref]
	return s, ok
}

// SubtitleRenderer draws a subtitle into the strip below a movie frame.
type SubtitleRenderer interface {
	DrawSubtitle(r Renderer, ref uint32, region Rect) error
}

// FontSubtitles rasterizes subtitle text with a bitmap font, centered and
// word-wrapped inside the strip.
type FontSubtitles struct {
	Source SubtitleSource
	Face   font.Face
	Color  Color

	cachedRef  uint32
	cachedSize [2]int
	cached     *Surface
}

// NewFontSubtitles renders text from src in white using the 7x13 basic font.
func NewFontSubtitles(src SubtitleSource) *FontSubtitles {
	return &FontSubtitles{
		Source: src,
		Face:   basicfont.Face7x13,
		Color:  ColorWhite,
	}
}

// DrawSubtitle implements SubtitleRenderer. Unknown references draw nothing.
func (f *FontSubtitles) DrawSubtitle(r Renderer, ref uint32, region Rect) error {
	if region.Empty() || f.Source == nil {
		return nil
	}
	text, ok := f.Source.Subtitle(ref)
	if !ok || text == "" {
		return nil
	}
	surf := f.surface(ref, text, region.Width, region.Height)

	tex, err := r.CreateTextureFromSurface(surf)
	if err != nil {
		return fmt.Errorf("%w: subtitle texture: %w", ErrResourceCreate, err)
	}
	defer r.DestroyTexture(tex)
	return r.Copy(tex, nil, &region)
}

func (f *FontSubtitles) surface(ref uint32, text string, w, h int) *Surface {
	if f.cached != nil && f.cachedRef == ref && f.cachedSize == [2]int{w, h} {
		return f.cached
	}
	f.cached = RasterizeText(f.Face, text, f.Color, w, h)
	f.cachedRef = ref
	f.cachedSize = [2]int{w, h}
	return f.cached
}

// RasterizeText draws text centered in a transparent w x h surface,
// wrapping on spaces to fit the width.
func RasterizeText(face font.Face, text string, c Color, w, h int) *Surface {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.RGBA()),
		Face: face,
	}

	lines := wrapText(face, text, fixed.I(w))
	m := face.Metrics()
	lineH := m.Height.Ceil()
	if lineH == 0 {
		lineH = (m.Ascent + m.Descent).Ceil()
	}
	top := (h - lineH*len(lines)) / 2
	for i, line := range lines {
		adv := font.MeasureString(face, line)
		x := (fixed.I(w) - adv) / 2
		d.Dot = fixed.Point26_6{X: x, Y: fixed.I(top+i*lineH) + m.Ascent}
		d.DrawString(line)
	}

	s := NewSurface(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			p := img.Pix[off : off+4]
			s.SetARGB(x, y, uint32(p[3])<<24|uint32(p[0])<<16|uint32(p[1])<<8|uint32(p[2]))
		}
	}
	return s
}

func wrapText(face font.Face, text string, width fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if font.MeasureString(face, candidate) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
