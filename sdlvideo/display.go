package sdlvideo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

// Display owns the SDL window and renderer.
type Display struct {
	cfg      palvideo.Config
	window   *sdl.Window
	renderer *sdl.Renderer
	wrapped  *Renderer

	fullscreen bool
	textInput  bool

	log *slog.Logger
}

// windowFlags returns the creation flags for cfg. Fullscreen windows are
// also borderless, which hides the status bar on mobile platforms.
func windowFlags(cfg palvideo.Config) uint32 {
	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_OPENGL | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN | sdl.WINDOW_BORDERLESS
	}
	return flags
}

// Open initializes SDL video and creates the window and renderer described
// by cfg. The renderer is forced onto OpenGL so GLPrograms can share its
// context.
func Open(cfg palvideo.Config) (*Display, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := palvideo.Logger().With("backend", "sdl")

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("%w: sdl init: %w", palvideo.ErrResourceCreate, err)
	}
	sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengl")
	sdl.SetHintWithPriority(sdl.HINT_ORIENTATIONS, "LandscapeRight LandscapeLeft", sdl.HINT_DEFAULT)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)

	title := cfg.Title
	if strings.TrimSpace(title) == "" {
		title = "palvideo"
	}
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), windowFlags(cfg))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("%w: create window: %w", palvideo.ErrResourceCreate, err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("%w: create renderer: %w", palvideo.ErrResourceCreate, err)
	}
	if err := renderer.SetLogicalSize(int32(cfg.Width), int32(cfg.Height)); err != nil {
		log.Warn("logical size", "err", err)
	}
	if err := renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		log.Warn("blend mode", "err", err)
	}

	d := &Display{
		cfg:        cfg,
		window:     window,
		renderer:   renderer,
		wrapped:    &Renderer{r: renderer, log: log},
		fullscreen: cfg.Fullscreen,
		log:        log,
	}
	d.SetGamma(cfg.Brightness)
	log.Info("display created", "width", cfg.Width, "height", cfg.Height, "fullscreen", cfg.Fullscreen)
	return d, nil
}

// Renderer is the palvideo.Renderer over the display's SDL renderer.
func (d *Display) Renderer() *Renderer { return d.wrapped }

// Window is the underlying SDL window.
func (d *Display) Window() *sdl.Window { return d.window }

// SetGamma maps the engine's brightness setting onto the window, 40 being
// neutral.
func (d *Display) SetGamma(brightness int) {
	if brightness <= 0 {
		return
	}
	if err := d.window.SetBrightness(brightnessFactor(brightness)); err != nil {
		d.log.Debug("set brightness", "err", err)
	}
}

func brightnessFactor(brightness int) float32 {
	return float32(brightness) / 40
}

// SetFullscreen switches between fullscreen and windowed mode and reports
// whether the switch took effect.
func (d *Display) SetFullscreen(on bool) bool {
	var flags uint32
	if on {
		flags = sdl.WINDOW_FULLSCREEN
	}
	if err := d.window.SetFullscreen(flags); err != nil {
		d.log.Warn("set fullscreen", "on", on, "err", err)
		return false
	}
	d.fullscreen = on
	return true
}

// Fullscreen reports the current mode.
func (d *Display) Fullscreen() bool { return d.fullscreen }

// ToggleGrabInput flips the pointer grab and reports whether it changed.
func (d *Display) ToggleGrabInput() bool {
	was := d.window.GetGrab()
	d.window.SetGrab(!was)
	return d.window.GetGrab() != was
}

// ShowSoftKeyboard starts text input, which raises the on-screen keyboard
// on mobile platforms.
func (d *Display) ShowSoftKeyboard() {
	if d.cfg.UseSoftKeyboard {
		sdl.StartTextInput()
		d.textInput = true
	}
}

// HideSoftKeyboard stops text input.
func (d *Display) HideSoftKeyboard() {
	if d.cfg.UseSoftKeyboard {
		sdl.StopTextInput()
		d.textInput = false
	}
}

// KeyboardShown reports whether text input is active.
func (d *Display) KeyboardShown() bool { return d.textInput }

// MoveMouse warps the pointer to (x, y) in window coordinates.
func (d *Display) MoveMouse(x, y int) {
	d.window.WarpMouseInWindow(int32(x), int32(y))
}

// Close destroys the renderer and window and shuts SDL down.
func (d *Display) Close() {
	if d.renderer != nil {
		_ = d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		_ = d.window.Destroy()
		d.window = nil
	}
	sdl.Quit()
}
