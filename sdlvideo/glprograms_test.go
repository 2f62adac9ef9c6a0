package sdlvideo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

func TestFragmentSourcesComplete(t *testing.T) {
	for _, kind := range palvideo.AllPrograms {
		src, ok := fragmentSources[kind]
		require.True(t, ok, kind.String())
		assert.True(t, strings.HasSuffix(src, "\x00"), "%s must be NUL terminated", kind)
		assert.Equal(t, 1, strings.Count(src, "\x00"), kind.String())
		assert.Contains(t, src, "#version 330 core")
		assert.Contains(t, src, "uTint")
	}
	assert.True(t, strings.HasSuffix(vertexShaderSrc, "\x00"))
	for _, kind := range []palvideo.ProgramKind{palvideo.ProgramPaletted, palvideo.ProgramPalettedGrayscale, palvideo.ProgramPalettedSepia} {
		assert.Contains(t, fragmentSources[kind], "uColorKey", kind.String())
		assert.Contains(t, fragmentSources[kind], "texelFetch(uPalette", kind.String())
	}
}

func TestQuadVertices(t *testing.T) {
	dst := palvideo.Rect{X: 10, Y: 20, Width: 8, Height: 4}
	v := quadVertices(dst, false, false)
	assert.Equal(t, [16]float32{
		10, 20, 0, 0,
		18, 20, 1, 0,
		10, 24, 0, 1,
		18, 24, 1, 1,
	}, v)

	v = quadVertices(dst, true, true)
	assert.Equal(t, [4]float32{10, 20, 1, 1}, [4]float32(v[0:4]), "mirrored corners swap texture coordinates")
	assert.Equal(t, [4]float32{18, 24, 0, 0}, [4]float32(v[12:16]))
}

func TestViewportBox(t *testing.T) {
	tests := []struct {
		name           string
		lw, lh, ow, oh int
		want           [4]int32
	}{
		{"same size", 640, 480, 640, 480, [4]int32{0, 0, 640, 480}},
		{"integer scale", 640, 480, 1280, 960, [4]int32{0, 0, 1280, 960}},
		{"pillarbox", 640, 480, 1920, 1080, [4]int32{240, 0, 1440, 1080}},
		{"letterbox", 800, 600, 800, 800, [4]int32{0, 100, 800, 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := viewportBox(tt.lw, tt.lh, tt.ow, tt.oh)
			assert.Equal(t, tt.want, [4]int32{x, y, w, h})
		})
	}
}

func TestScissorBox(t *testing.T) {
	clip := palvideo.Rect{X: 10, Y: 20, Width: 100, Height: 50}

	x, y, w, h := scissorBox(clip, 640, 480, 640, 480)
	assert.Equal(t, [4]int32{10, 410, 100, 50}, [4]int32{x, y, w, h}, "origin flips to the bottom")

	x, y, w, h = scissorBox(clip, 640, 480, 1280, 960)
	assert.Equal(t, [4]int32{20, 820, 200, 100}, [4]int32{x, y, w, h})

	// 1440x1080 viewport centered in 1920x1080, scale 2.25.
	clip = palvideo.Rect{X: 40, Y: 40, Width: 80, Height: 40}
	x, y, w, h = scissorBox(clip, 640, 480, 1920, 1080)
	assert.Equal(t, [4]int32{330, 900, 180, 90}, [4]int32{x, y, w, h})
}

func TestPremultiplied(t *testing.T) {
	assert.Equal(t, [4]float32{1, 1, 1, 1}, premultiplied(palvideo.Color{R: 255, G: 255, B: 255, A: 255}))
	p := premultiplied(palvideo.Color{R: 255, G: 0, B: 51, A: 0})
	assert.Equal(t, [4]float32{0, 0, 0, 0}, p)
	p = premultiplied(palvideo.Color{R: 255, A: 51})
	assert.InDelta(t, 0.2, p[0], 1e-6)
	assert.InDelta(t, 0.2, p[3], 1e-6)
}

func TestPaletteTexels(t *testing.T) {
	pal := palvideo.NewGrayscalePalette()
	pal[3] = palvideo.Color{R: 200, G: 100, B: 50, A: 255}
	pal[4] = palvideo.Color{R: 255, G: 255, B: 255, A: 128}

	out := paletteTexels(pal)
	require.Len(t, out, palvideo.PaletteSize*4)
	assert.Equal(t, []byte{200, 100, 50, 255}, out[12:16])
	assert.Equal(t, []byte{128, 128, 128, 128}, out[16:20])
	assert.Len(t, paletteTexels(nil), palvideo.PaletteSize*4)
}

func TestSDLRect(t *testing.T) {
	assert.Nil(t, sdlRect(nil))
	assert.Equal(t, &sdl.Rect{X: 1, Y: 2, W: 3, H: 4}, sdlRect(&palvideo.Rect{X: 1, Y: 2, Width: 3, Height: 4}))
}

func TestLockedSize(t *testing.T) {
	assert.Equal(t, 60, lockedSize(palvideo.PixelFormatARGB8888, 20, 3))
	assert.Equal(t, palvideo.YV12Size(8, 4), lockedSize(palvideo.PixelFormatYV12, 8, 4))
	assert.Greater(t, lockedSize(palvideo.PixelFormatYV12, 8, 4), 8*4)
	assert.Equal(t, 7*3+2*4*2, lockedSize(palvideo.PixelFormatYV12, 7, 3), "odd sizes round the chroma planes up like SDL")
}

func TestSDLFormat(t *testing.T) {
	f, ok := sdlFormat(palvideo.PixelFormatARGB8888)
	assert.True(t, ok)
	assert.Equal(t, uint32(sdl.PIXELFORMAT_ARGB8888), f)
	f, ok = sdlFormat(palvideo.PixelFormatYV12)
	assert.True(t, ok)
	assert.Equal(t, uint32(sdl.PIXELFORMAT_YV12), f)
	_, ok = sdlFormat(palvideo.PixelFormat(42))
	assert.False(t, ok)
}

func TestWindowFlags(t *testing.T) {
	cfg := palvideo.DefaultConfig()
	flags := windowFlags(cfg)
	assert.NotZero(t, flags&sdl.WINDOW_OPENGL)
	assert.Zero(t, flags&sdl.WINDOW_FULLSCREEN)

	cfg.Fullscreen = true
	flags = windowFlags(cfg)
	assert.NotZero(t, flags&sdl.WINDOW_FULLSCREEN)
	assert.NotZero(t, flags&sdl.WINDOW_BORDERLESS)
}

func TestBrightnessFactor(t *testing.T) {
	assert.Equal(t, float32(1), brightnessFactor(40))
	assert.Equal(t, float32(0.5), brightnessFactor(20))
}

type fakeTarget struct {
	flushes int
}

func (t *fakeTarget) LogicalSize() (int, int) { return 640, 480 }
func (t *fakeTarget) OutputSize() (int, int)  { return 1280, 960 }
func (t *fakeTarget) Flush()                  { t.flushes++ }

// fakeGLDevice records what a GL context would see.
type fakeGLDevice struct {
	calls    []string
	bound    uint32
	binds    int
	begins   int
	ends     int
	draws    []uint32 // program bound at each draw
	scissors [][4]int32
}

func (d *fakeGLDevice) beginPass([4]int32) {
	d.begins++
	d.calls = append(d.calls, "begin")
}

func (d *fakeGLDevice) bindProgram(prog *glProgram, _, _ int) {
	d.binds++
	d.bound = prog.id
	d.calls = append(d.calls, "bind")
}

func (d *fakeGLDevice) scissor(box [4]int32) {
	d.scissors = append(d.scissors, box)
}

func (d *fakeGLDevice) drawSprite(_ *glProgram, _, _ *glSprite, _ *palvideo.SpriteDraw) {
	d.draws = append(d.draws, d.bound)
	d.calls = append(d.calls, "draw")
}

func (d *fakeGLDevice) drawRect(*glProgram, palvideo.Rect, palvideo.Color) {
	d.draws = append(d.draws, d.bound)
	d.calls = append(d.calls, "rect")
}

func (d *fakeGLDevice) endPass() {
	d.ends++
	d.bound = 0
	d.calls = append(d.calls, "end")
}

func newTestGLPrograms() (*GLPrograms, *fakeGLDevice, *fakeTarget) {
	dev, target := &fakeGLDevice{}, &fakeTarget{}
	p := &GLPrograms{target: target, dev: dev, log: palvideo.Logger()}
	for i, kind := range palvideo.AllPrograms {
		p.programs[kind] = glProgram{id: uint32(i + 1)}
	}
	return p, dev, target
}

func TestGLProgramsSameProgramBindsOncePerPass(t *testing.T) {
	p, dev, target := newTestGLPrograms()
	cache := palvideo.NewProgramCache(p)
	sprite := &glSprite{w: 8, h: 8, tex: 7}
	paletted := p.programs[palvideo.ProgramPaletted].id

	for i := 0; i < 3; i++ {
		cache.Use(palvideo.ProgramPaletted)
		p.DrawSprite(&palvideo.SpriteDraw{
			Texture: sprite,
			Dst:     palvideo.Rect{X: i * 8, Width: 8, Height: 8},
			Clip:    palvideo.Rect{Width: 640, Height: 480},
		})
	}
	assert.Equal(t, 1, dev.binds, "one GL bind for three draws")
	assert.Equal(t, 1, dev.begins)
	assert.Equal(t, 1, target.flushes, "SDL is flushed once per pass")
	assert.Zero(t, dev.ends, "the pass stays open between draws")
	assert.Equal(t, []uint32{paletted, paletted, paletted}, dev.draws)
	assert.Equal(t, [4]int32{0, 0, 1280, 960}, dev.scissors[0])

	kind, ok := cache.Current()
	assert.True(t, ok)
	assert.Equal(t, paletted, p.programs[kind].id, "cache matches the bound program")
}

func TestGLProgramsEndPassRebinds(t *testing.T) {
	p, dev, target := newTestGLPrograms()
	cache := palvideo.NewProgramCache(p)
	sprite := &glSprite{w: 4, h: 4, tex: 3}
	draw := &palvideo.SpriteDraw{Texture: sprite, Dst: palvideo.Rect{Width: 4, Height: 4}, Clip: palvideo.Rect{Width: 640, Height: 480}}

	cache.Use(palvideo.ProgramTruecolor)
	p.DrawSprite(draw)

	// SDL draws again, so the pass is handed back.
	r := &Renderer{beforeDraw: func() {
		p.EndPass()
		cache.Invalidate()
	}}
	r.endGLPass()
	r.endGLPass()
	assert.Equal(t, 1, dev.ends, "a closed pass is not ended twice")
	assert.Zero(t, dev.bound)

	cache.Use(palvideo.ProgramTruecolor)
	p.DrawSprite(draw)
	assert.Equal(t, []string{"begin", "bind", "draw", "end", "begin", "bind", "draw"}, dev.calls)
	assert.Equal(t, 2, target.flushes)
}

func TestGLProgramsDrawRectSwitchesProgram(t *testing.T) {
	p, dev, _ := newTestGLPrograms()
	cache := palvideo.NewProgramCache(p)

	cache.Use(palvideo.ProgramRect)
	p.DrawRect(palvideo.Rect{X: 1, Y: 1, Width: 2, Height: 2}, palvideo.ColorWhite)
	p.DrawRect(palvideo.Rect{}, palvideo.ColorWhite)
	cache.Use(palvideo.ProgramPaletted)
	p.DrawSprite(&palvideo.SpriteDraw{Texture: &glSprite{w: 1, h: 1, tex: 1}, Dst: palvideo.Rect{Width: 1, Height: 1}, Clip: palvideo.Rect{Width: 1, Height: 1}})

	assert.Equal(t, []string{"begin", "bind", "rect", "bind", "draw"}, dev.calls)
	assert.Equal(t, []uint32{p.programs[palvideo.ProgramRect].id, p.programs[palvideo.ProgramPaletted].id}, dev.draws)
}

func TestGLProgramsSkipsUnusableDraws(t *testing.T) {
	p, dev, target := newTestGLPrograms()
	p.UseProgram(palvideo.ProgramPaletted)
	p.DrawSprite(&palvideo.SpriteDraw{Texture: &glSprite{w: 1, h: 1}, Clip: palvideo.Rect{Width: 1, Height: 1}})
	p.DrawSprite(&palvideo.SpriteDraw{Texture: &glSprite{w: 1, h: 1, tex: 2}})
	assert.Empty(t, dev.draws)
	assert.Equal(t, 1, target.flushes)
	p.EndPass()
	p.EndPass()
	assert.Equal(t, 1, dev.ends)
}
