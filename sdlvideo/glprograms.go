package sdlvideo

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/phanxgames/palvideo"
)

// glSprite is a sprite uploaded as GL textures.
type glSprite struct {
	w, h     int
	tex      uint32
	palette  uint32 // 0 for truecolor sprites
	colorKey float32
}

func (s *glSprite) Size() (int, int) { return s.w, s.h }

type glProgram struct {
	id uint32

	screen, tint     int32
	hasMask, keyUnif int32
}

// glTarget is what the programs need from the SDL renderer sharing their
// context.
type glTarget interface {
	LogicalSize() (int, int)
	OutputSize() (int, int)
	Flush()
}

// glDevice issues the raw GL state changes of a draw pass.
type glDevice interface {
	beginPass(viewport [4]int32)
	bindProgram(prog *glProgram, lw, lh int)
	scissor(box [4]int32)
	drawSprite(prog *glProgram, tex, mask *glSprite, d *palvideo.SpriteDraw)
	drawRect(prog *glProgram, r palvideo.Rect, c palvideo.Color)
	endPass()
}

// GLPrograms implements palvideo.ProgramBackend with GLSL programs drawn
// on top of the SDL renderer's queued output.
//
// Draws accumulate in a pass: the first bind or draw flushes SDL and takes
// the context, and the program stays bound until EndPass gives it back.
// The SDL Renderer ends the pass before its own draws.
type GLPrograms struct {
	target   glTarget
	dev      glDevice
	programs [len(palvideo.AllPrograms)]glProgram
	current  palvideo.ProgramKind

	inPass bool
	bound  uint32
	lw, lh int
	ow, oh int

	log *slog.Logger
}

// NewGLPrograms loads the GL entry points from the current context, which
// must be the one owned by r.
func NewGLPrograms(r *Renderer) (*GLPrograms, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: gl init: %w", palvideo.ErrProgramBuild, err)
	}
	p := &GLPrograms{target: r, dev: newGLContext(), log: palvideo.Logger().With("backend", "gl")}
	p.log.Info("gl programs ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))
	return p, nil
}

// BuildProgram compiles and links kind.
func (p *GLPrograms) BuildProgram(kind palvideo.ProgramKind) error {
	src, ok := fragmentSources[kind]
	if !ok {
		return fmt.Errorf("%w: unknown program %s", palvideo.ErrProgramBuild, kind)
	}
	p.EndPass()
	id, err := makeProgram(vertexShaderSrc, src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", palvideo.ErrProgramBuild, kind, err)
	}
	prog := glProgram{
		id:      id,
		screen:  uniform(id, "uScreen"),
		tint:    uniform(id, "uTint"),
		hasMask: uniform(id, "uHasMask"),
		keyUnif: uniform(id, "uColorKey"),
	}
	gl.UseProgram(id)
	gl.Uniform1i(uniform(id, "uSprite"), 0)
	gl.Uniform1i(uniform(id, "uPalette"), 1)
	gl.Uniform1i(uniform(id, "uMask"), 2)
	gl.UseProgram(0)

	p.DeleteProgram(kind)
	p.programs[kind] = prog
	return nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// UseProgram binds kind, opening a pass first if none is open.
func (p *GLPrograms) UseProgram(kind palvideo.ProgramKind) {
	p.current = kind
	if int(kind) >= len(p.programs) || p.programs[kind].id == 0 {
		return
	}
	p.bind(&p.programs[kind])
}

func (p *GLPrograms) DeleteProgram(kind palvideo.ProgramKind) {
	if int(kind) >= len(p.programs) {
		return
	}
	id := p.programs[kind].id
	if id == 0 {
		return
	}
	if id == p.bound {
		p.EndPass()
	}
	gl.DeleteProgram(id)
	p.programs[kind] = glProgram{}
}

// UploadSprite creates the textures for s.
func (p *GLPrograms) UploadSprite(s *palvideo.Sprite) (palvideo.SpriteTexture, error) {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: empty sprite", palvideo.ErrResourceCreate)
	}
	out := &glSprite{w: s.Width, h: s.Height, colorKey: -1}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if s.Kind == palvideo.SpritePaletted {
		out.tex = newGLTexture(gl.R8, gl.RED, s.Width, s.Height, s.Pixels)
		out.palette = newGLTexture(gl.RGBA8, gl.RGBA, palvideo.PaletteSize, 1, paletteTexels(s.Palette()))
		if s.ColorKey {
			out.colorKey = float32(s.KeyIndex)
		}
	} else {
		out.tex = newGLTexture(gl.RGBA8, gl.RGBA, s.Width, s.Height, s.RGBA())
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if out.tex == 0 {
		return nil, fmt.Errorf("%w: glGenTextures", palvideo.ErrResourceCreate)
	}
	return out, nil
}

func newGLTexture(internal int32, format uint32, w, h int, pix []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h), 0, format, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return tex
}

func (p *GLPrograms) DestroySpriteTexture(t palvideo.SpriteTexture) {
	s, ok := t.(*glSprite)
	if !ok {
		return
	}
	if s.tex != 0 {
		gl.DeleteTextures(1, &s.tex)
	}
	if s.palette != 0 {
		gl.DeleteTextures(1, &s.palette)
	}
	s.tex, s.palette = 0, 0
}

// DrawSprite draws d with the selected program.
func (p *GLPrograms) DrawSprite(d *palvideo.SpriteDraw) {
	if int(p.current) >= len(p.programs) {
		return
	}
	prog := &p.programs[p.current]
	tex, ok := d.Texture.(*glSprite)
	if prog.id == 0 || !ok || tex.tex == 0 || d.Clip.Empty() {
		return
	}
	p.bind(prog)
	p.dev.scissor(scissorBox(d.Clip, p.lw, p.lh, p.ow, p.oh))

	var mask *glSprite
	if m, ok := d.Mask.(*glSprite); ok && m.tex != 0 && m.w == tex.w && m.h == tex.h {
		mask = m
	}
	p.dev.drawSprite(prog, tex, mask, d)
}

// DrawRect fills r with c using the rect program.
func (p *GLPrograms) DrawRect(r palvideo.Rect, c palvideo.Color) {
	prog := &p.programs[palvideo.ProgramRect]
	if prog.id == 0 || r.Empty() {
		return
	}
	p.bind(prog)
	p.dev.scissor(scissorBox(palvideo.Rect{Width: p.lw, Height: p.lh}, p.lw, p.lh, p.ow, p.oh))
	p.dev.drawRect(prog, r, c)
}

// begin opens a pass: SDL's queue is flushed so GL draws land on top of it.
func (p *GLPrograms) begin() {
	if p.inPass {
		return
	}
	p.target.Flush()
	p.lw, p.lh = p.target.LogicalSize()
	p.ow, p.oh = p.target.OutputSize()
	x, y, w, h := viewportBox(p.lw, p.lh, p.ow, p.oh)
	p.dev.beginPass([4]int32{x, y, w, h})
	p.inPass = true
	p.bound = 0
}

// bind makes prog current in the open pass.
func (p *GLPrograms) bind(prog *glProgram) {
	p.begin()
	if p.bound == prog.id {
		return
	}
	p.dev.bindProgram(prog, p.lw, p.lh)
	p.bound = prog.id
}

// EndPass hands the context back to SDL in the state its renderer expects.
// Nothing is bound afterwards.
func (p *GLPrograms) EndPass() {
	if !p.inPass {
		return
	}
	p.dev.endPass()
	p.inPass = false
	p.bound = 0
}

// Close deletes every program and the quad buffers.
func (p *GLPrograms) Close() {
	p.EndPass()
	for _, kind := range palvideo.AllPrograms {
		p.DeleteProgram(kind)
	}
	if c, ok := p.dev.(*glContext); ok {
		c.close()
	}
}

// glContext is the glDevice for the context SDL created.
type glContext struct {
	vao, vbo uint32
	verts    [16]float32
}

func newGLContext() *glContext {
	c := &glContext{}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(c.verts)*4, nil, gl.DYNAMIC_DRAW)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aTex;
	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return c
}

func (c *glContext) beginPass(vp [4]int32) {
	gl.Viewport(vp[0], vp[1], vp[2], vp[3])
	gl.Enable(gl.SCISSOR_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
}

func (c *glContext) bindProgram(prog *glProgram, lw, lh int) {
	gl.UseProgram(prog.id)
	gl.Uniform2f(prog.screen, float32(lw), float32(lh))
}

func (c *glContext) scissor(box [4]int32) {
	gl.Scissor(box[0], box[1], box[2], box[3])
}

func (c *glContext) drawSprite(prog *glProgram, tex, mask *glSprite, d *palvideo.SpriteDraw) {
	tint := premultiplied(d.Tint)
	gl.Uniform4fv(prog.tint, 1, &tint[0])
	key := tex.colorKey
	if d.External {
		key = -1
	}
	gl.Uniform1f(prog.keyUnif, key)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.tex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, tex.palette)
	var hasMask float32
	if mask != nil {
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, mask.tex)
		hasMask = 1
	}
	gl.Uniform1f(prog.hasMask, hasMask)

	c.verts = quadVertices(d.Dst, d.MirrorX, d.MirrorY)
	c.drawQuad()
}

func (c *glContext) drawRect(prog *glProgram, r palvideo.Rect, col palvideo.Color) {
	tint := premultiplied(col)
	gl.Uniform4fv(prog.tint, 1, &tint[0])
	c.verts = quadVertices(r, false, false)
	c.drawQuad()
}

func (c *glContext) drawQuad() {
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(c.verts)*4, gl.Ptr(&c.verts[0]))
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

func (c *glContext) endPass() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)
	for _, unit := range []uint32{gl.TEXTURE2, gl.TEXTURE1, gl.TEXTURE0} {
		gl.ActiveTexture(unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.Disable(gl.SCISSOR_TEST)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (c *glContext) close() {
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	c.vao, c.vbo = 0, 0
}

// --- Pure helpers ---

// quadVertices returns a triangle strip of (x, y, u, v) vertices covering
// dst, with texture coordinates swapped on mirrored axes.
func quadVertices(dst palvideo.Rect, mirrorX, mirrorY bool) [16]float32 {
	x0, y0 := float32(dst.X), float32(dst.Y)
	x1, y1 := x0+float32(dst.Width), y0+float32(dst.Height)
	u0, u1 := float32(0), float32(1)
	v0, v1 := float32(0), float32(1)
	if mirrorX {
		u0, u1 = u1, u0
	}
	if mirrorY {
		v0, v1 = v1, v0
	}
	return [16]float32{
		x0, y0, u0, v0,
		x1, y0, u1, v0,
		x0, y1, u0, v1,
		x1, y1, u1, v1,
	}
}

// letterbox returns the scale and top-left offset SDL uses to fit the
// logical size into the output.
func letterbox(lw, lh, ow, oh int) (scale, ox, oy float64) {
	if lw <= 0 || lh <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(float64(ow)/float64(lw), float64(oh)/float64(lh))
	ox = (float64(ow) - float64(lw)*scale) / 2
	oy = (float64(oh) - float64(lh)*scale) / 2
	return scale, ox, oy
}

// viewportBox is the letterboxed logical area in GL window coordinates.
func viewportBox(lw, lh, ow, oh int) (x, y, w, h int32) {
	scale, ox, oy := letterbox(lw, lh, ow, oh)
	return int32(math.Round(ox)), int32(math.Round(oy)),
		int32(math.Round(float64(lw) * scale)), int32(math.Round(float64(lh) * scale))
}

// scissorBox maps a logical clip rect to GL window coordinates, whose
// origin is the bottom-left corner.
func scissorBox(clip palvideo.Rect, lw, lh, ow, oh int) (x, y, w, h int32) {
	scale, ox, oy := letterbox(lw, lh, ow, oh)
	left := math.Round(ox + float64(clip.X)*scale)
	right := math.Round(ox + float64(clip.X+clip.Width)*scale)
	top := math.Round(oy + float64(clip.Y)*scale)
	bottom := math.Round(oy + float64(clip.Y+clip.Height)*scale)
	return int32(left), int32(float64(oh) - bottom), int32(right - left), int32(bottom - top)
}

// premultiplied converts c to a premultiplied float tint.
func premultiplied(c palvideo.Color) [4]float32 {
	a := float32(c.A) / 255
	return [4]float32{
		float32(c.R) / 255 * a,
		float32(c.G) / 255 * a,
		float32(c.B) / 255 * a,
		a,
	}
}

// paletteTexels lays pal out as 256 premultiplied RGBA texels. The color
// key is applied in the shader so External draws can ignore it.
func paletteTexels(pal *palvideo.Palette) []byte {
	out := make([]byte, palvideo.PaletteSize*4)
	if pal == nil {
		return out
	}
	for i, c := range pal {
		out[i*4] = uint8(uint16(c.R) * uint16(c.A) / 255)
		out[i*4+1] = uint8(uint16(c.G) * uint16(c.A) / 255)
		out[i*4+2] = uint8(uint16(c.B) * uint16(c.A) / 255)
		out[i*4+3] = c.A
	}
	return out
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}
