package palvideo

import "encoding/binary"

// Texture is a GPU texture owned by the Renderer that created it.
type Texture interface {
	Format() PixelFormat
	Size() (w, h int)
}

// Renderer is the 2D presentation device used by the compositor and the
// movie uploader. Implementations exist for SDL and Ebitengine.
//
// All calls happen on the render thread.
type Renderer interface {
	// LogicalSize is the resolution every draw is expressed in, independent
	// of the window's real size.
	LogicalSize() (w, h int)

	// CreateTexture creates a streaming texture that can be locked.
	CreateTexture(format PixelFormat, w, h int) (Texture, error)
	// CreateTextureFromSurface uploads a CPU surface into a new static texture.
	CreateTextureFromSurface(s *Surface) (Texture, error)
	// LockTexture returns writable pixels and the row pitch in bytes. For
	// YV12 textures the pitch is the luma pitch; see YV12Chroma for the
	// chroma planes.
	LockTexture(t Texture) ([]byte, int, error)
	UnlockTexture(t Texture)
	DestroyTexture(t Texture)

	SetDrawColor(c Color)
	Clear()
	// FillRect fills r with the draw color, alpha-blended over the target.
	// A nil rect fills the whole target.
	FillRect(r *Rect) error
	// Copy draws src of t into dst of the target. Nil rects mean the whole
	// texture or target.
	Copy(t Texture, src, dst *Rect) error
	Present()
}

// Surface is a CPU-side ARGB8888 pixel buffer. Each pixel is a little-endian
// 0xAARRGGBB word.
type Surface struct {
	Width, Height int
	Pitch         int
	Pix           []byte
}

// NewSurface allocates a cleared surface.
func NewSurface(w, h int) *Surface {
	return &Surface{
		Width:  w,
		Height: h,
		Pitch:  w * 4,
		Pix:    make([]byte, w*h*4),
	}
}

// ARGBAt returns the packed pixel at (x, y).
func (s *Surface) ARGBAt(x, y int) uint32 {
	off := y*s.Pitch + x*4
	return binary.LittleEndian.Uint32(s.Pix[off:])
}

// SetARGB stores a packed pixel at (x, y).
func (s *Surface) SetARGB(x, y int, v uint32) {
	off := y*s.Pitch + x*4
	binary.LittleEndian.PutUint32(s.Pix[off:], v)
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c Color) {
	v := c.ARGB()
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.SetARGB(x, y, v)
		}
	}
}

// SpriteTexture is the GPU-side copy of a Sprite, created by a
// ProgramBackend.
type SpriteTexture interface {
	Size() (w, h int)
}

// SpriteDraw carries the per-draw uniforms for one textured quad. The
// program is whatever the ProgramCache last bound.
type SpriteDraw struct {
	Texture SpriteTexture
	Mask    SpriteTexture // nil when unmasked

	Dst  Rect // destination quad in logical pixels
	Clip Rect // scissor; the quad never draws outside it

	Tint     Color
	MirrorX  bool
	MirrorY  bool
	External bool // pre-blended source, color key ignored
}

// ProgramBackend compiles the five sprite programs and issues draws with
// whichever is bound.
type ProgramBackend interface {
	BuildProgram(kind ProgramKind) error
	UseProgram(kind ProgramKind)
	DeleteProgram(kind ProgramKind)

	UploadSprite(s *Sprite) (SpriteTexture, error)
	DestroySpriteTexture(t SpriteTexture)

	DrawSprite(d *SpriteDraw)
	// DrawRect fills r with c using the rect program.
	DrawRect(r Rect, c Color)
}

// PassEnder is implemented by backends whose draws share a context with
// another renderer. Binds and draws accumulate in an open pass until EndPass
// hands the context back, leaving no program bound.
type PassEnder interface {
	EndPass()
}
