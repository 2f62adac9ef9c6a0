package ebitenvideo

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/palvideo"
)

// texture is a palvideo.Texture backed by an *ebiten.Image. Locks hand out
// a CPU staging buffer in the texture's own format; Unlock converts it to
// RGBA and writes it to the GPU image.
type texture struct {
	format palvideo.PixelFormat
	w, h   int
	pitch  int
	pix    []byte // staging, ARGB8888 or YV12
	rgba   []byte // upload buffer
	img    *ebiten.Image
	locked bool
}

func (t *texture) Format() palvideo.PixelFormat { return t.format }
func (t *texture) Size() (int, int)             { return t.w, t.h }

// upload converts the staging buffer and writes it to the GPU image.
func (t *texture) upload() {
	switch t.format {
	case palvideo.PixelFormatYV12:
		yv12ToRGBA(t.rgba, t.pix, t.pitch, t.w, t.h)
	default:
		palvideo.ARGBToRGBA(t.rgba, t.pix, t.pitch, t.w, t.h)
	}
	t.img.WritePixels(t.rgba)
}

func newTexture(format palvideo.PixelFormat, w, h int) (*texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s texture %dx%d", palvideo.ErrResourceCreate, format, w, h)
	}
	t := &texture{format: format, w: w, h: h, rgba: make([]byte, w*h*4)}
	switch format {
	case palvideo.PixelFormatARGB8888:
		t.pitch = w * 4
		t.pix = make([]byte, t.pitch*h)
	case palvideo.PixelFormatYV12:
		// Chroma rows are pitch/2 wide, so keep the luma pitch even.
		t.pitch = w + w%2
		t.pix = make([]byte, palvideo.YV12Size(t.pitch, h))
	default:
		return nil, fmt.Errorf("%w: unsupported format %d", palvideo.ErrResourceCreate, format)
	}
	t.img = ebiten.NewImage(w, h)
	return t, nil
}

// Renderer implements palvideo.Renderer by drawing into an offscreen canvas
// of the logical size. Present marks the canvas as the next frame to show.
type Renderer struct {
	w, h       int
	outW, outH int

	canvas *ebiten.Image
	white  *ebiten.Image // 1x1 opaque white inside a transparent border

	drawColor palvideo.Color
	presents  int

	log *slog.Logger
}

// NewRenderer allocates a canvas of the logical size w x h.
func NewRenderer(w, h int) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", palvideo.ErrResourceCreate, w, h)
	}
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{
		w:      w,
		h:      h,
		outW:   w,
		outH:   h,
		canvas: ebiten.NewImage(w, h),
		white:  white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		log:    palvideo.Logger().With("backend", "ebiten"),
	}, nil
}

// Canvas is the image every draw lands in.
func (r *Renderer) Canvas() *ebiten.Image { return r.canvas }

// Presents counts Present calls.
func (r *Renderer) Presents() int { return r.presents }

// SetOutputSize records the window's real size; Game.Layout calls it.
func (r *Renderer) SetOutputSize(w, h int) {
	r.outW, r.outH = w, h
}

// LogicalSize implements palvideo.Renderer.
func (r *Renderer) LogicalSize() (int, int) { return r.w, r.h }

// OutputSize implements palvideo.OutputSizer.
func (r *Renderer) OutputSize() (int, int) { return r.outW, r.outH }

// CreateTexture implements palvideo.Renderer.
func (r *Renderer) CreateTexture(format palvideo.PixelFormat, w, h int) (palvideo.Texture, error) {
	t, err := newTexture(format, w, h)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTextureFromSurface implements palvideo.Renderer.
func (r *Renderer) CreateTextureFromSurface(s *palvideo.Surface) (palvideo.Texture, error) {
	t, err := newTexture(palvideo.PixelFormatARGB8888, s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < s.Height; y++ {
		copy(t.pix[y*t.pitch:(y+1)*t.pitch], s.Pix[y*s.Pitch:])
	}
	t.upload()
	return t, nil
}

func asTexture(t palvideo.Texture) (*texture, error) {
	tex, ok := t.(*texture)
	if !ok || tex == nil {
		return nil, fmt.Errorf("ebitenvideo: foreign texture %T", t)
	}
	return tex, nil
}

// LockTexture implements palvideo.Renderer.
func (r *Renderer) LockTexture(t palvideo.Texture) ([]byte, int, error) {
	tex, err := asTexture(t)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", palvideo.ErrLock, err)
	}
	if tex.locked {
		return nil, 0, fmt.Errorf("%w: texture already locked", palvideo.ErrLock)
	}
	tex.locked = true
	return tex.pix, tex.pitch, nil
}

// UnlockTexture implements palvideo.Renderer.
func (r *Renderer) UnlockTexture(t palvideo.Texture) {
	tex, err := asTexture(t)
	if err != nil || !tex.locked {
		return
	}
	tex.locked = false
	tex.upload()
}

// DestroyTexture implements palvideo.Renderer.
func (r *Renderer) DestroyTexture(t palvideo.Texture) {
	tex, err := asTexture(t)
	if err != nil || tex.img == nil {
		return
	}
	tex.img.Deallocate()
	tex.img = nil
}

// SetDrawColor implements palvideo.Renderer.
func (r *Renderer) SetDrawColor(c palvideo.Color) { r.drawColor = c }

// Clear replaces every canvas pixel with the draw color.
func (r *Renderer) Clear() {
	r.canvas.Fill(nrgba(r.drawColor))
}

// FillRect implements palvideo.Renderer.
func (r *Renderer) FillRect(rect *palvideo.Rect) error {
	dst := palvideo.Rect{Width: r.w, Height: r.h}
	if rect != nil {
		dst = *rect
	}
	if dst.Empty() {
		return nil
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = rectGeoM(palvideo.Rect{Width: 1, Height: 1}, dst)
	op.ColorScale.ScaleWithColor(nrgba(r.drawColor))
	r.canvas.DrawImage(r.white, op)
	return nil
}

// Copy implements palvideo.Renderer. YV12 textures are filtered linearly
// when scaled; ARGB textures keep hard pixel edges.
func (r *Renderer) Copy(t palvideo.Texture, src, dst *palvideo.Rect) error {
	tex, err := asTexture(t)
	if err != nil {
		return err
	}
	if tex.img == nil {
		return fmt.Errorf("ebitenvideo: copy from destroyed texture")
	}
	s := palvideo.Rect{Width: tex.w, Height: tex.h}
	if src != nil {
		s = *src
	}
	d := palvideo.Rect{Width: r.w, Height: r.h}
	if dst != nil {
		d = *dst
	}
	if s.Empty() || d.Empty() {
		return nil
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = rectGeoM(s, d)
	if tex.format == palvideo.PixelFormatYV12 {
		op.Filter = ebiten.FilterLinear
	}
	sub := tex.img.SubImage(image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)).(*ebiten.Image)
	r.canvas.DrawImage(sub, op)
	return nil
}

// Present implements palvideo.Renderer. Ebitengine shows the canvas on its
// own schedule, so this only counts frames.
func (r *Renderer) Present() {
	r.presents++
}

// rectGeoM maps the src rectangle's size onto dst. DrawImage already
// places a sub-image's origin at (0, 0).
func rectGeoM(src, dst palvideo.Rect) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(float64(dst.Width)/float64(src.Width), float64(dst.Height)/float64(src.Height))
	m.Translate(float64(dst.X), float64(dst.Y))
	return m
}

func nrgba(c palvideo.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
