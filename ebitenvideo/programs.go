package ebitenvideo

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/palvideo"
)

// minTextureSize is the smallest edge of an uploaded sprite texture. The
// palette image must hold a 16x16 grid and every source image of a
// DrawRectShader call must share one size, so small sprites are padded
// with transparent texels.
const minTextureSize = 16

// spriteTexture is the GPU copy of a sprite.
type spriteTexture struct {
	w, h       int // sprite size
	texW, texH int // padded image size
	img        *ebiten.Image
	palette    *ebiten.Image // nil for truecolor
	colorKey   float32       // -1 when unkeyed
}

func (t *spriteTexture) Size() (int, int) { return t.w, t.h }

func (t *spriteTexture) dispose() {
	t.img.Deallocate()
	if t.palette != nil {
		t.palette.Deallocate()
	}
}

// Programs implements palvideo.ProgramBackend with Kage shaders drawing
// into a Renderer's canvas.
type Programs struct {
	target  *Renderer
	shaders [len(palvideo.AllPrograms)]*ebiten.Shader
	current palvideo.ProgramKind

	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewPrograms returns a backend drawing into r's canvas. Programs are
// compiled by BuildProgram.
func NewPrograms(r *Renderer) *Programs {
	return &Programs{
		target:   r,
		uniforms: make(map[string]any, 3),
	}
}

// BuildProgram implements palvideo.ProgramBackend.
func (p *Programs) BuildProgram(kind palvideo.ProgramKind) error {
	src, ok := shaderSources[kind]
	if !ok {
		return fmt.Errorf("%w: no source for %s", palvideo.ErrProgramBuild, kind)
	}
	s, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", palvideo.ErrProgramBuild, kind, err)
	}
	p.shaders[kind] = s
	return nil
}

// UseProgram implements palvideo.ProgramBackend.
func (p *Programs) UseProgram(kind palvideo.ProgramKind) {
	p.current = kind
}

// DeleteProgram implements palvideo.ProgramBackend.
func (p *Programs) DeleteProgram(kind palvideo.ProgramKind) {
	if s := p.shaders[kind]; s != nil {
		s.Deallocate()
		p.shaders[kind] = nil
	}
}

// UploadSprite implements palvideo.ProgramBackend.
func (p *Programs) UploadSprite(s *palvideo.Sprite) (palvideo.SpriteTexture, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: sprite %dx%d", palvideo.ErrResourceCreate, s.Width, s.Height)
	}
	t := &spriteTexture{
		w:        s.Width,
		h:        s.Height,
		texW:     max(s.Width, minTextureSize),
		texH:     max(s.Height, minTextureSize),
		colorKey: -1,
	}
	t.img = ebiten.NewImage(t.texW, t.texH)
	if s.Kind == palvideo.SpritePaletted {
		t.img.WritePixels(indexTexels(s, t.texW, t.texH))
		t.palette = ebiten.NewImage(t.texW, t.texH)
		t.palette.WritePixels(paletteGrid(s.Palette(), t.texW, t.texH))
		if s.ColorKey {
			t.colorKey = float32(s.KeyIndex)
		}
	} else {
		t.img.WritePixels(padRGBA(s.RGBA(), s.Width, s.Height, t.texW, t.texH))
	}
	return t, nil
}

// DestroySpriteTexture implements palvideo.ProgramBackend.
func (p *Programs) DestroySpriteTexture(t palvideo.SpriteTexture) {
	if st, ok := t.(*spriteTexture); ok {
		st.dispose()
	}
}

// DrawSprite implements palvideo.ProgramBackend.
func (p *Programs) DrawSprite(d *palvideo.SpriteDraw) {
	shader := p.shaders[p.current]
	tex, ok := d.Texture.(*spriteTexture)
	if shader == nil || !ok {
		return
	}
	op := &p.shaderOp
	op.GeoM = spriteGeoM(d.Dst, d.MirrorX, d.MirrorY)
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(nrgba(d.Tint))
	op.Images[0] = tex.img
	op.Images[1] = tex.palette
	op.Images[2] = nil

	clear(p.uniforms)
	p.uniforms["HasMask"] = float32(0)
	if m, ok := d.Mask.(*spriteTexture); ok && m.texW == tex.texW && m.texH == tex.texH {
		op.Images[2] = m.img
		p.uniforms["HasMask"] = float32(1)
	}
	if p.current != palvideo.ProgramTruecolor {
		key := tex.colorKey
		if d.External {
			key = -1
		}
		p.uniforms["Cell"] = []float32{float32(tex.texW / 16), float32(tex.texH / 16)}
		p.uniforms["ColorKey"] = key
	}
	op.Uniforms = p.uniforms
	p.clipped(d.Clip).DrawRectShader(tex.texW, tex.texH, shader, op)
}

// DrawRect implements palvideo.ProgramBackend.
func (p *Programs) DrawRect(r palvideo.Rect, c palvideo.Color) {
	shader := p.shaders[palvideo.ProgramRect]
	if shader == nil || r.Empty() {
		return
	}
	op := &ebiten.DrawRectShaderOptions{}
	op.GeoM.Translate(float64(r.X), float64(r.Y))
	op.ColorScale.ScaleWithColor(nrgba(c))
	p.target.canvas.DrawRectShader(r.Width, r.Height, shader, op)
}

func (p *Programs) clipped(clip palvideo.Rect) *ebiten.Image {
	return p.target.canvas.SubImage(image.Rect(clip.X, clip.Y, clip.X+clip.Width, clip.Y+clip.Height)).(*ebiten.Image)
}

// spriteGeoM places a texture's top-left sprite region at dst, flipping it
// in place when mirrored.
func spriteGeoM(dst palvideo.Rect, mirrorX, mirrorY bool) ebiten.GeoM {
	var m ebiten.GeoM
	sx, sy := 1.0, 1.0
	var tx, ty float64
	if mirrorX {
		sx, tx = -1, float64(dst.Width)
	}
	if mirrorY {
		sy, ty = -1, float64(dst.Height)
	}
	m.Scale(sx, sy)
	m.Translate(tx+float64(dst.X), ty+float64(dst.Y))
	return m
}

// indexTexels stores each palette index in the red channel of an opaque
// texel. Padding stays fully transparent.
func indexTexels(s *palvideo.Sprite, texW, texH int) []byte {
	out := make([]byte, texW*texH*4)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			off := (y*texW + x) * 4
			out[off] = s.Pixels[y*s.Width+x]
			out[off+3] = 0xFF
		}
	}
	return out
}

// paletteGrid lays the palette out as a 16x16 grid of equal blocks filling
// a texW x texH image, premultiplied.
func paletteGrid(pal *palvideo.Palette, texW, texH int) []byte {
	out := make([]byte, texW*texH*4)
	cw, ch := texW/16, texH/16
	for i, c := range pal {
		col, row := i%16, i/16
		r := uint8(uint16(c.R) * uint16(c.A) / 255)
		g := uint8(uint16(c.G) * uint16(c.A) / 255)
		b := uint8(uint16(c.B) * uint16(c.A) / 255)
		for y := row * ch; y < (row+1)*ch; y++ {
			for x := col * cw; x < (col+1)*cw; x++ {
				off := (y*texW + x) * 4
				out[off], out[off+1], out[off+2], out[off+3] = r, g, b, c.A
			}
		}
	}
	return out
}

// padRGBA copies w x h RGBA rows into the top-left of a texW x texH buffer.
func padRGBA(pix []byte, w, h, texW, texH int) []byte {
	if w == texW && h == texH {
		return pix
	}
	out := make([]byte, texW*texH*4)
	for y := 0; y < h; y++ {
		copy(out[y*texW*4:], pix[y*w*4:(y+1)*w*4])
	}
	return out
}
