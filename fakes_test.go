package palvideo

import (
	"errors"
	"fmt"
)

var errFake = errors.New("fake failure")

type fakeTexture struct {
	id     int
	format PixelFormat
	w, h   int
	pitch  int
	pix    []byte
}

func (t *fakeTexture) Format() PixelFormat { return t.format }
func (t *fakeTexture) Size() (int, int)    { return t.w, t.h }

type fakeFill struct {
	rect  Rect
	color Color
}

type fakeCopy struct {
	tex      *fakeTexture
	src, dst *Rect
}

// fakeRenderer records every call in order.
type fakeRenderer struct {
	w, h       int
	outW, outH int // OutputSize; zero means same as logical
	pitchPad   int // extra bytes per locked row

	calls []string
	live  map[int]*fakeTexture
	next  int

	drawColor Color
	fills     []fakeFill
	clears    []Color
	copies    []fakeCopy
	presents  int

	createErr error
	lockErr   error
	locked    *fakeTexture
}

func newFakeRenderer(w, h int) *fakeRenderer {
	return &fakeRenderer{w: w, h: h, live: map[int]*fakeTexture{}}
}

func (r *fakeRenderer) LogicalSize() (int, int) { return r.w, r.h }

func (r *fakeRenderer) newTexture(format PixelFormat, w, h int) *fakeTexture {
	r.next++
	t := &fakeTexture{id: r.next, format: format, w: w, h: h}
	switch format {
	case PixelFormatYV12:
		t.pitch = w + r.pitchPad
		t.pix = make([]byte, YV12Size(t.pitch, h))
	default:
		t.pitch = w*4 + r.pitchPad
		t.pix = make([]byte, t.pitch*h)
	}
	r.live[t.id] = t
	return t
}

func (r *fakeRenderer) CreateTexture(format PixelFormat, w, h int) (Texture, error) {
	r.calls = append(r.calls, fmt.Sprintf("create %s %dx%d", format, w, h))
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.newTexture(format, w, h), nil
}

func (r *fakeRenderer) CreateTextureFromSurface(s *Surface) (Texture, error) {
	r.calls = append(r.calls, "upload")
	if r.createErr != nil {
		return nil, r.createErr
	}
	t := r.newTexture(PixelFormatARGB8888, s.Width, s.Height)
	copy(t.pix, s.Pix)
	return t, nil
}

func (r *fakeRenderer) LockTexture(t Texture) ([]byte, int, error) {
	r.calls = append(r.calls, "lock")
	if r.lockErr != nil {
		return nil, 0, r.lockErr
	}
	ft := t.(*fakeTexture)
	r.locked = ft
	return ft.pix, ft.pitch, nil
}

func (r *fakeRenderer) UnlockTexture(Texture) {
	r.calls = append(r.calls, "unlock")
	r.locked = nil
}

func (r *fakeRenderer) DestroyTexture(t Texture) {
	r.calls = append(r.calls, "destroy")
	delete(r.live, t.(*fakeTexture).id)
}

func (r *fakeRenderer) SetDrawColor(c Color) { r.drawColor = c }

func (r *fakeRenderer) Clear() {
	r.calls = append(r.calls, "clear")
	r.clears = append(r.clears, r.drawColor)
}

func (r *fakeRenderer) FillRect(rect *Rect) error {
	r.calls = append(r.calls, "fill")
	full := Rect{Width: r.w, Height: r.h}
	if rect != nil {
		full = *rect
	}
	r.fills = append(r.fills, fakeFill{rect: full, color: r.drawColor})
	return nil
}

func (r *fakeRenderer) Copy(t Texture, src, dst *Rect) error {
	r.calls = append(r.calls, "copy")
	r.copies = append(r.copies, fakeCopy{tex: t.(*fakeTexture), src: src, dst: dst})
	return nil
}

func (r *fakeRenderer) Present() {
	r.calls = append(r.calls, "present")
	r.presents++
}

func (r *fakeRenderer) OutputSize() (int, int) {
	if r.outW == 0 {
		return r.w, r.h
	}
	return r.outW, r.outH
}

type fakeSpriteTexture struct {
	sprite  *Sprite
	version uint32
}

func (t *fakeSpriteTexture) Size() (int, int) { return t.sprite.Width, t.sprite.Height }

// fakeBackend counts program binds and records draws.
type fakeBackend struct {
	built    []ProgramKind
	deleted  []ProgramKind
	binds    []ProgramKind
	bound    ProgramKind
	failOn   ProgramKind
	fail     bool
	uploads  int
	destroys int
	draws    []SpriteDraw
	drawn    []ProgramKind // program bound at each draw
	rects    []fakeFill
}

func (b *fakeBackend) BuildProgram(kind ProgramKind) error {
	if b.fail && kind == b.failOn {
		return errFake
	}
	b.built = append(b.built, kind)
	return nil
}

func (b *fakeBackend) UseProgram(kind ProgramKind) {
	b.binds = append(b.binds, kind)
	b.bound = kind
}

func (b *fakeBackend) DeleteProgram(kind ProgramKind) {
	b.deleted = append(b.deleted, kind)
}

func (b *fakeBackend) UploadSprite(s *Sprite) (SpriteTexture, error) {
	b.uploads++
	return &fakeSpriteTexture{sprite: s, version: s.Version()}, nil
}

func (b *fakeBackend) DestroySpriteTexture(SpriteTexture) {
	b.destroys++
}

func (b *fakeBackend) DrawSprite(d *SpriteDraw) {
	b.draws = append(b.draws, *d)
	b.drawn = append(b.drawn, b.bound)
}

func (b *fakeBackend) DrawRect(r Rect, c Color) {
	b.rects = append(b.rects, fakeFill{rect: r, color: c})
	b.drawn = append(b.drawn, b.bound)
}

// fakePassBackend drops the bound program when its pass ends, the way a
// backend sharing a GL context does.
type fakePassBackend struct {
	fakeBackend
	passEnds int
}

func (b *fakePassBackend) EndPass() {
	b.passEnds++
	b.bound = 0
}
