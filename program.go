package palvideo

// ProgramKind names one of the five sprite shader programs.
type ProgramKind uint8

const (
	ProgramTruecolor ProgramKind = iota
	ProgramPaletted
	ProgramPalettedGrayscale
	ProgramPalettedSepia
	ProgramRect

	programCount
)

// AllPrograms lists every program in build order.
var AllPrograms = [programCount]ProgramKind{
	ProgramTruecolor,
	ProgramPaletted,
	ProgramPalettedGrayscale,
	ProgramPalettedSepia,
	ProgramRect,
}

func (k ProgramKind) String() string {
	switch k {
	case ProgramTruecolor:
		return "truecolor"
	case ProgramPaletted:
		return "paletted"
	case ProgramPalettedGrayscale:
		return "paletted-grayscale"
	case ProgramPalettedSepia:
		return "paletted-sepia"
	case ProgramRect:
		return "rect"
	default:
		return "unknown"
	}
}

// programFor resolves the program for a sprite kind and blit flags.
// Grayscale wins over sepia; effects never apply to truecolor sprites.
func programFor(kind SpriteKind, flags BlitFlags) ProgramKind {
	if kind == SpriteTruecolor {
		return ProgramTruecolor
	}
	switch {
	case flags&BlitGrayscale != 0:
		return ProgramPalettedGrayscale
	case flags&BlitSepia != 0:
		return ProgramPalettedSepia
	default:
		return ProgramPaletted
	}
}

// programBinder is the part of a ProgramBackend the cache drives.
type programBinder interface {
	UseProgram(kind ProgramKind)
}

// ProgramCache remembers the bound program and skips redundant binds.
// Skipping is only an optimization: the backend must tolerate binding the
// same program twice.
type ProgramCache struct {
	backend programBinder
	last    ProgramKind
	valid   bool

	binds   int
	skipped int
}

// NewProgramCache returns a cache with nothing bound.
func NewProgramCache(backend programBinder) *ProgramCache {
	return &ProgramCache{backend: backend}
}

// Use binds kind unless it is already bound. It reports whether the
// backend was called.
func (c *ProgramCache) Use(kind ProgramKind) bool {
	if c.valid && c.last == kind {
		c.skipped++
		return false
	}
	c.backend.UseProgram(kind)
	c.last = kind
	c.valid = true
	c.binds++
	return true
}

// Current returns the bound program, if any.
func (c *ProgramCache) Current() (ProgramKind, bool) {
	return c.last, c.valid
}

// Invalidate forgets the bound program so the next Use always binds.
// Call it after anything outside the cache touched GPU program state.
func (c *ProgramCache) Invalidate() {
	c.valid = false
}

// Stats returns the bind and skipped-bind counts since the last reset.
func (c *ProgramCache) Stats() (binds, skipped int) {
	return c.binds, c.skipped
}

// ResetStats zeroes the counters without touching the bound program.
func (c *ProgramCache) ResetStats() {
	c.binds, c.skipped = 0, 0
}
