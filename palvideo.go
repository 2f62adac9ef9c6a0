package palvideo

import (
	"fmt"
	"image/color"
)

// Color is an 8-bit RGBA color. Not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// ColorBlack is the opaque black used to clear movie screens.
var ColorBlack = Color{0, 0, 0, 255}

// ColorWhite is the neutral tint.
var ColorWhite = Color{255, 255, 255, 255}

// RGBA converts c to a standard library color.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, c.A}
}

// ARGB packs c into a 0xAARRGGBB word.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Floats returns the components scaled to [0, 1].
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// Rect is an axis-aligned pixel rectangle. The origin is at the top-left,
// with Y increasing downward.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the largest rectangle contained by both r and other.
// The result is the zero Rect when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// MouseButton identifies a synthetic mouse button.
type MouseButton uint8

const (
	MouseButtonPrimary   MouseButton = iota // action button (left click)
	MouseButtonSecondary                    // menu button (right click)
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonPrimary:
		return "primary"
	case MouseButtonSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// SpecialKey identifies a non-character key the classifier can press.
type SpecialKey uint8

const (
	KeyTab SpecialKey = iota + 1
	KeyAlt
)

func (k SpecialKey) String() string {
	switch k {
	case KeyTab:
		return "tab"
	case KeyAlt:
		return "alt"
	default:
		return "unknown"
	}
}

// ControlKind is the capability tag of the engine control that currently
// holds pointer focus.
type ControlKind uint8

const (
	ControlOther    ControlKind = iota // anything without touch-specific rules
	ControlTextArea                    // scrolls for any non-keyboard finger count
	ControlGameView                    // accepts the formation-rotation gesture
)

func (k ControlKind) String() string {
	switch k {
	case ControlTextArea:
		return "text-area"
	case ControlGameView:
		return "game-view"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ControlKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ControlKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "other", "":
		*k = ControlOther
	case "text-area":
		*k = ControlTextArea
	case "game-view":
		*k = ControlGameView
	default:
		return fmt.Errorf("unknown control kind %q", b)
	}
	return nil
}

// BlitFlags selects effects and modifiers for a sprite blit. The effect
// bits choose the shader program; the remaining bits only change uniforms.
type BlitFlags uint32

const (
	BlitMirrorX   BlitFlags = 1 << 0
	BlitMirrorY   BlitFlags = 1 << 1
	BlitHalfTrans BlitFlags = 1 << 2
	BlitGrayscale BlitFlags = 1 << 3
	BlitSepia     BlitFlags = 1 << 4
	BlitExternal  BlitFlags = 0x100 // source is pre-blended; skip palette color key
)

// SpriteKind tells the renderer how a sprite's pixels are encoded.
type SpriteKind uint8

const (
	SpriteTruecolor SpriteKind = iota // 32-bit RGBA pixels
	SpritePaletted                    // 8-bit indices into a palette
)

// PixelFormat identifies a texture's memory layout.
type PixelFormat uint8

const (
	// PixelFormatARGB8888 stores one little-endian 0xAARRGGBB word per pixel.
	PixelFormatARGB8888 PixelFormat = iota
	// PixelFormatYV12 stores a full-size Y plane followed by quarter-size
	// V and U planes.
	PixelFormatYV12
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatARGB8888:
		return "ARGB8888"
	case PixelFormatYV12:
		return "YV12"
	default:
		return "unknown"
	}
}
