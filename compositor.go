package palvideo

import (
	"fmt"
	"time"
)

// FrameCompositor owns the CPU backbuffer the engine renders into and
// presents it once per display tick.
type FrameCompositor struct {
	renderer Renderer
	back     *Surface
	viewport Rect

	fade     Color
	fadeAnim *fadeTween

	overlay func()

	screenshotDir   string
	screenshotQueue []string

	debug bool
}

// NewFrameCompositor allocates a backbuffer matching the renderer's logical
// size.
func NewFrameCompositor(r Renderer) (*FrameCompositor, error) {
	w, h := r.LogicalSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: logical size %dx%d", ErrResourceCreate, w, h)
	}
	return &FrameCompositor{
		renderer:      r,
		back:          NewSurface(w, h),
		viewport:      Rect{Width: w, Height: h},
		screenshotDir: "screenshots",
	}, nil
}

// Backbuffer is the surface the engine draws the next frame into.
func (c *FrameCompositor) Backbuffer() *Surface {
	return c.back
}

// Resize reallocates the backbuffer after a display mode change. The
// renderer's logical size must already equal w x h.
func (c *FrameCompositor) Resize(w, h int) {
	c.back = NewSurface(w, h)
	c.viewport = Rect{Width: w, Height: h}
}

// Viewport is the region the fade overlay covers.
func (c *FrameCompositor) Viewport() Rect {
	return c.viewport
}

// SetViewport changes the region the fade overlay covers.
func (c *FrameCompositor) SetViewport(r Rect) {
	c.viewport = r
}

// SetFadeColor sets the overlay drawn over every frame. Alpha 0 disables it.
// Any running fade animation is stopped.
func (c *FrameCompositor) SetFadeColor(col Color) {
	c.fade = col
	c.fadeAnim = nil
}

// FadeColor returns the current overlay color.
func (c *FrameCompositor) FadeColor() Color {
	return c.fade
}

// SetOverlay registers a pass drawn after the backbuffer copy and before the
// fade, typically the shader sprite pass.
func (c *FrameCompositor) SetOverlay(fn func()) {
	c.overlay = fn
}

// SetDebug enables per-present timing logs.
func (c *FrameCompositor) SetDebug(on bool) {
	c.debug = on
}

// SwapBuffers uploads the backbuffer into a transient texture, draws it,
// runs the overlay pass, blends the fade color over the result and presents.
// The texture is destroyed before returning.
func (c *FrameCompositor) SwapBuffers() error {
	w, h := c.renderer.LogicalSize()
	if c.back.Width != w || c.back.Height != h {
		Logger().Warn("backbuffer size mismatch",
			"backbuffer", fmt.Sprintf("%dx%d", c.back.Width, c.back.Height),
			"logical", fmt.Sprintf("%dx%d", w, h))
		return fmt.Errorf("%w: backbuffer %dx%d, display %dx%d", ErrGeometry, c.back.Width, c.back.Height, w, h)
	}

	var stats presentStats
	start := time.Now()

	tex, err := c.renderer.CreateTextureFromSurface(c.back)
	if err != nil {
		Logger().Error("create frame texture", "err", err)
		return fmt.Errorf("%w: frame texture: %w", ErrResourceCreate, err)
	}
	defer c.renderer.DestroyTexture(tex)

	// The frame texture blends, so clear first or the last frame shows
	// through pixels the engine left below full alpha.
	c.renderer.SetDrawColor(ColorBlack)
	c.renderer.Clear()
	if err := c.renderer.Copy(tex, nil, nil); err != nil {
		Logger().Warn("copy frame texture", "err", err)
	}
	stats.upload = time.Since(start)

	mark := time.Now()
	if c.overlay != nil {
		c.overlay()
	}
	if c.fade.A > 0 {
		vp := c.viewport
		c.renderer.SetDrawColor(c.fade)
		if err := c.renderer.FillRect(&vp); err != nil {
			Logger().Warn("fill fade overlay", "err", err)
		}
		stats.faded = true
	}
	stats.overlay = time.Since(mark)

	c.flushScreenshots()

	mark = time.Now()
	c.renderer.Present()
	stats.present = time.Since(mark)

	if c.debug {
		stats.log()
	}
	return nil
}
