package palvideo

import (
	"fmt"
)

type cachedTexture struct {
	tex     SpriteTexture
	version uint32
}

// ShaderSpriteRenderer draws sprites and flat rectangles through one of the
// five shader programs, binding each program only when it changes.
type ShaderSpriteRenderer struct {
	backend ProgramBackend
	cache   *ProgramCache

	textures map[*Sprite]cachedTexture

	// Screen bounds every clip rect is intersected with.
	screen Rect

	sprites int
	stats   frameStats
	debug   bool
}

// NewShaderSpriteRenderer builds all five programs. If any program fails
// the ones already built are deleted and the error is returned; no sprite
// can be drawn without the full set.
func NewShaderSpriteRenderer(backend ProgramBackend, screenW, screenH int) (*ShaderSpriteRenderer, error) {
	for i, kind := range AllPrograms {
		if err := backend.BuildProgram(kind); err != nil {
			for _, built := range AllPrograms[:i] {
				backend.DeleteProgram(built)
			}
			Logger().Error("build shader program", "program", kind.String(), "err", err)
			return nil, fmt.Errorf("%w: %s: %w", ErrProgramBuild, kind, err)
		}
	}
	return &ShaderSpriteRenderer{
		backend:  backend,
		cache:    NewProgramCache(backend),
		textures: make(map[*Sprite]cachedTexture),
		screen:   Rect{Width: screenW, Height: screenH},
	}, nil
}

// SetDebug enables per-frame stats logging from EndFrame.
func (r *ShaderSpriteRenderer) SetDebug(on bool) {
	r.debug = on
}

// Programs exposes the bind cache.
func (r *ShaderSpriteRenderer) Programs() *ProgramCache {
	return r.cache
}

// SetScreenSize changes the bounds clip rects are limited to.
func (r *ShaderSpriteRenderer) SetScreenSize(w, h int) {
	r.screen = Rect{Width: w, Height: h}
}

// texture returns the uploaded copy of s, uploading on first use or after
// the sprite changed.
func (r *ShaderSpriteRenderer) texture(s *Sprite) (SpriteTexture, error) {
	if c, ok := r.textures[s]; ok {
		if c.version == s.version {
			return c.tex, nil
		}
		r.backend.DestroySpriteTexture(c.tex)
		delete(r.textures, s)
	}
	tex, err := r.backend.UploadSprite(s)
	if err != nil {
		return nil, fmt.Errorf("%w: upload %dx%d sprite: %w", ErrResourceCreate, s.Width, s.Height, err)
	}
	r.textures[s] = cachedTexture{tex: tex, version: s.version}
	r.stats.uploads++
	return tex, nil
}

// BlitSprite draws s with its origin at (x, y).
//
// The program is chosen from the sprite kind and the grayscale/sepia bits
// of flags. clip, when non-nil, limits both the scissor and the quad; a
// fully clipped sprite is skipped without touching GPU state. tint
// multiplies the sampled color. mask, when non-nil, must match the sprite's
// size; its alpha multiplies the output.
func (r *ShaderSpriteRenderer) BlitSprite(s *Sprite, x, y int, clip *Rect, flags BlitFlags, tint *Color, mask *Sprite) error {
	dst := Rect{X: x - s.OriginX, Y: y - s.OriginY, Width: s.Width, Height: s.Height}
	scissor := r.screen
	if clip != nil {
		scissor = scissor.Intersect(*clip)
	}
	if dst.Intersect(scissor).Empty() {
		r.stats.culled++
		return nil
	}
	if mask != nil && (mask.Width != s.Width || mask.Height != s.Height) {
		Logger().Warn("mask size mismatch", "sprite", fmt.Sprintf("%dx%d", s.Width, s.Height),
			"mask", fmt.Sprintf("%dx%d", mask.Width, mask.Height))
		return fmt.Errorf("%w: mask %dx%d for sprite %dx%d", ErrGeometry, mask.Width, mask.Height, s.Width, s.Height)
	}

	tex, err := r.texture(s)
	if err != nil {
		return err
	}
	var maskTex SpriteTexture
	if mask != nil {
		if maskTex, err = r.texture(mask); err != nil {
			return err
		}
	}

	c := ColorWhite
	if tint != nil {
		c = *tint
	}
	if flags&BlitHalfTrans != 0 {
		c.A /= 2
	}

	r.cache.Use(programFor(s.Kind, flags))
	r.backend.DrawSprite(&SpriteDraw{
		Texture:  tex,
		Mask:     maskTex,
		Dst:      dst,
		Clip:     scissor,
		Tint:     c,
		MirrorX:  flags&BlitMirrorX != 0,
		MirrorY:  flags&BlitMirrorY != 0,
		External: flags&BlitExternal != 0,
	})
	r.sprites++
	r.stats.draws++
	return nil
}

// DrawColoredRect fills region with c using the rect program.
func (r *ShaderSpriteRenderer) DrawColoredRect(region Rect, c Color) {
	region = region.Intersect(r.screen)
	if region.Empty() {
		r.stats.culled++
		return
	}
	r.cache.Use(ProgramRect)
	r.backend.DrawRect(region, c)
	r.stats.draws++
}

// DrawRect draws region filled, or as a one-pixel outline.
func (r *ShaderSpriteRenderer) DrawRect(region Rect, c Color, fill bool) {
	if region.Empty() {
		r.stats.culled++
		return
	}
	if fill {
		r.DrawColoredRect(region, c)
		return
	}
	x1 := region.X + region.Width - 1
	y1 := region.Y + region.Height - 1
	r.DrawHLine(region.X, region.Y, x1, c)
	r.DrawHLine(region.X, y1, x1, c)
	r.DrawVLine(region.X, region.Y, y1, c)
	r.DrawVLine(x1, region.Y, y1, c)
}

// DrawHLine draws a one-pixel horizontal line from x1 to x2 inclusive.
func (r *ShaderSpriteRenderer) DrawHLine(x1, y, x2 int, c Color) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	r.DrawColoredRect(Rect{X: x1, Y: y, Width: x2 - x1 + 1, Height: 1}, c)
}

// DrawVLine draws a one-pixel vertical line from y1 to y2 inclusive.
func (r *ShaderSpriteRenderer) DrawVLine(x, y1, y2 int, c Color) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r.DrawColoredRect(Rect{X: x, Y: y1, Width: 1, Height: y2 - y1 + 1}, c)
}

// EndPass closes the backend's open draw pass, if it keeps one, and forgets
// the bound program since the pass leaves none bound.
func (r *ShaderSpriteRenderer) EndPass() {
	pe, ok := r.backend.(PassEnder)
	if !ok {
		return
	}
	pe.EndPass()
	r.cache.Invalidate()
}

// SpritesThisFrame is the number of sprites blitted since the last EndFrame.
func (r *ShaderSpriteRenderer) SpritesThisFrame() int {
	return r.sprites
}

// EndFrame ends the draw pass and resets the per-frame counters, logging
// them first when debug is enabled.
func (r *ShaderSpriteRenderer) EndFrame() {
	r.EndPass()
	r.stats.sprites = r.sprites
	r.stats.binds, r.stats.skippedBinds = r.cache.Stats()
	if r.debug {
		r.stats.log()
	}
	r.sprites = 0
	r.stats = frameStats{}
	r.cache.ResetStats()
}

// ReleaseSprite destroys the uploaded copy of s, if any.
func (r *ShaderSpriteRenderer) ReleaseSprite(s *Sprite) {
	if c, ok := r.textures[s]; ok {
		r.backend.DestroySpriteTexture(c.tex)
		delete(r.textures, s)
	}
}

// Close releases every sprite texture and deletes the programs.
func (r *ShaderSpriteRenderer) Close() {
	r.EndPass()
	for s, c := range r.textures {
		r.backend.DestroySpriteTexture(c.tex)
		delete(r.textures, s)
	}
	for _, kind := range AllPrograms {
		r.backend.DeleteProgram(kind)
	}
	r.cache.Invalidate()
}
