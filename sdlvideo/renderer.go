package sdlvideo

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

// texture wraps a streaming or static SDL texture.
type texture struct {
	tex    *sdl.Texture
	format palvideo.PixelFormat
	w, h   int
	locked bool
}

func (t *texture) Format() palvideo.PixelFormat { return t.format }
func (t *texture) Size() (int, int)             { return t.w, t.h }

// sdlFormat maps a palvideo pixel format onto the SDL enum.
func sdlFormat(f palvideo.PixelFormat) (uint32, bool) {
	switch f {
	case palvideo.PixelFormatARGB8888:
		return sdl.PIXELFORMAT_ARGB8888, true
	case palvideo.PixelFormatYV12:
		return sdl.PIXELFORMAT_YV12, true
	}
	return 0, false
}

// sdlRect converts an optional palvideo rect. Nil stays nil, which SDL
// reads as the whole texture or target.
func sdlRect(r *palvideo.Rect) *sdl.Rect {
	if r == nil {
		return nil
	}
	return &sdl.Rect{X: int32(r.X), Y: int32(r.Y), W: int32(r.Width), H: int32(r.Height)}
}

// lockedSize is the number of bytes a lock exposes. SDL allocates the
// chroma planes of a YV12 texture after the luma plane, but go-sdl2 only
// slices the luma rows.
func lockedSize(format palvideo.PixelFormat, pitch, h int) int {
	if format == palvideo.PixelFormatYV12 {
		return palvideo.YV12Size(pitch, h)
	}
	return pitch * h
}

// Renderer implements palvideo.Renderer and palvideo.OutputSizer on an SDL
// renderer.
type Renderer struct {
	r   *sdl.Renderer
	log *slog.Logger

	// beforeDraw ends any open GL pass before SDL draws again.
	beforeDraw func()
}

func (r *Renderer) endGLPass() {
	if r.beforeDraw != nil {
		r.beforeDraw()
	}
}

// LogicalSize is the size set with SDL_RenderSetLogicalSize.
func (r *Renderer) LogicalSize() (int, int) {
	w, h := r.r.GetLogicalSize()
	return int(w), int(h)
}

// OutputSize is the drawable size in device pixels.
func (r *Renderer) OutputSize() (int, int) {
	w, h, err := r.r.GetOutputSize()
	if err != nil {
		r.log.Debug("output size", "err", err)
		return r.LogicalSize()
	}
	return int(w), int(h)
}

func (r *Renderer) CreateTexture(format palvideo.PixelFormat, w, h int) (palvideo.Texture, error) {
	f, ok := sdlFormat(format)
	if !ok || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s texture %dx%d", palvideo.ErrResourceCreate, format, w, h)
	}
	tex, err := r.r.CreateTexture(f, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", palvideo.ErrResourceCreate, err)
	}
	if format == palvideo.PixelFormatARGB8888 {
		_ = tex.SetBlendMode(sdl.BLENDMODE_BLEND)
	}
	return &texture{tex: tex, format: format, w: w, h: h}, nil
}

func (r *Renderer) CreateTextureFromSurface(s *palvideo.Surface) (palvideo.Texture, error) {
	if s == nil || s.Width <= 0 || s.Height <= 0 || len(s.Pix) < s.Pitch*s.Height {
		return nil, fmt.Errorf("%w: bad surface", palvideo.ErrResourceCreate)
	}
	surf, err := sdl.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&s.Pix[0]),
		int32(s.Width), int32(s.Height), 32, int32(s.Pitch), sdl.PIXELFORMAT_ARGB8888)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", palvideo.ErrResourceCreate, err)
	}
	defer surf.Free()
	tex, err := r.r.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", palvideo.ErrResourceCreate, err)
	}
	_ = tex.SetBlendMode(sdl.BLENDMODE_BLEND)
	return &texture{tex: tex, format: palvideo.PixelFormatARGB8888, w: s.Width, h: s.Height}, nil
}

func (r *Renderer) own(t palvideo.Texture) (*texture, error) {
	tt, ok := t.(*texture)
	if !ok || tt == nil || tt.tex == nil {
		return nil, fmt.Errorf("%w: texture %T not created by this renderer", palvideo.ErrLock, t)
	}
	return tt, nil
}

func (r *Renderer) LockTexture(t palvideo.Texture) ([]byte, int, error) {
	tt, err := r.own(t)
	if err != nil {
		return nil, 0, err
	}
	if tt.locked {
		return nil, 0, fmt.Errorf("%w: already locked", palvideo.ErrLock)
	}
	pix, pitch, err := tt.tex.Lock(nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", palvideo.ErrLock, err)
	}
	if len(pix) == 0 {
		tt.tex.Unlock()
		return nil, 0, fmt.Errorf("%w: empty lock", palvideo.ErrLock)
	}
	tt.locked = true
	if n := lockedSize(tt.format, pitch, tt.h); n > len(pix) {
		pix = unsafe.Slice(&pix[0], n)
	}
	return pix, pitch, nil
}

func (r *Renderer) UnlockTexture(t palvideo.Texture) {
	tt, err := r.own(t)
	if err != nil || !tt.locked {
		return
	}
	tt.tex.Unlock()
	tt.locked = false
}

func (r *Renderer) DestroyTexture(t palvideo.Texture) {
	tt, err := r.own(t)
	if err != nil {
		return
	}
	if tt.locked {
		tt.tex.Unlock()
	}
	if err := tt.tex.Destroy(); err != nil {
		r.log.Debug("destroy texture", "err", err)
	}
	tt.tex = nil
}

func (r *Renderer) SetDrawColor(c palvideo.Color) {
	_ = r.r.SetDrawColor(c.R, c.G, c.B, c.A)
}

func (r *Renderer) Clear() {
	r.endGLPass()
	_ = r.r.Clear()
}

func (r *Renderer) FillRect(rect *palvideo.Rect) error {
	r.endGLPass()
	return r.r.FillRect(sdlRect(rect))
}

func (r *Renderer) Copy(t palvideo.Texture, src, dst *palvideo.Rect) error {
	tt, err := r.own(t)
	if err != nil {
		return err
	}
	r.endGLPass()
	return r.r.Copy(tt.tex, sdlRect(src), sdlRect(dst))
}

func (r *Renderer) Present() {
	r.endGLPass()
	r.r.Present()
}

// Flush submits queued SDL draws so raw GL calls land on top of them.
func (r *Renderer) Flush() {
	_ = r.r.Flush()
}
