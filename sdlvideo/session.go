package sdlvideo

import (
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

// frameTicks paces the loop at roughly 60 presents per second.
const frameTicks = 16

// Session owns every driver component on the SDL backend and runs the
// frame loop. F11 toggles debug timing logs and F12 queues a screenshot.
type Session struct {
	cfg palvideo.Config

	display    *Display
	programs   *GLPrograms
	sprites    *palvideo.ShaderSpriteRenderer
	compositor *palvideo.FrameCompositor
	classifier *palvideo.TouchGestureClassifier
	pump       *EventPump

	debug bool
	log   *slog.Logger

	// OnUpdate runs once per frame after input has been classified and
	// before the frame is presented. A non-nil error ends Run.
	OnUpdate func() error
	// OnDraw runs during SwapBuffers, after the backbuffer copy and before
	// the fade. Sprite blits belong here.
	OnDraw func()
	// OnKey receives keyboard events not handled by the session.
	OnKey func(*sdl.KeyboardEvent)
}

// NewSession opens the display and builds the driver for cfg.
func NewSession(cfg palvideo.Config, env palvideo.Environment, sink palvideo.EventSink) (*Session, error) {
	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg, d, env, sink)
	if err != nil {
		d.Close()
		return nil, err
	}
	return s, nil
}

func newSession(cfg palvideo.Config, d *Display, env palvideo.Environment, sink palvideo.EventSink) (*Session, error) {
	programs, err := NewGLPrograms(d.Renderer())
	if err != nil {
		return nil, err
	}
	sprites, err := palvideo.NewShaderSpriteRenderer(programs, cfg.Width, cfg.Height)
	if err != nil {
		programs.Close()
		return nil, err
	}
	fc, err := palvideo.NewFrameCompositor(d.Renderer())
	if err != nil {
		sprites.Close()
		programs.Close()
		return nil, err
	}
	if cfg.ScreenshotDir != "" {
		fc.SetScreenshotDir(cfg.ScreenshotDir)
	}
	classifier, err := palvideo.NewTouchGestureClassifier(cfg, env, d.KeyboardSink(sink))
	if err != nil {
		sprites.Close()
		programs.Close()
		return nil, err
	}
	w, h := d.Renderer().LogicalSize()
	classifier.SetRenderSize(w, h)

	s := &Session{
		cfg:        cfg,
		display:    d,
		programs:   programs,
		sprites:    sprites,
		compositor: fc,
		classifier: classifier,
		pump:       NewEventPump(classifier),
		log:        palvideo.Logger().With("backend", "sdl"),
	}
	s.pump.OnEvent = s.handleEvent
	d.Renderer().beforeDraw = sprites.EndPass
	s.SetDebug(cfg.Debug)
	fc.SetOverlay(func() {
		if s.OnDraw != nil {
			s.OnDraw()
		}
	})
	return s, nil
}

// Display is the window and renderer.
func (s *Session) Display() *Display { return s.display }

// Sprites is the shader sprite renderer.
func (s *Session) Sprites() *palvideo.ShaderSpriteRenderer { return s.sprites }

// Compositor presents the engine's backbuffer.
func (s *Session) Compositor() *palvideo.FrameCompositor { return s.compositor }

// Classifier is the gesture classifier fed by the event pump.
func (s *Session) Classifier() *palvideo.TouchGestureClassifier { return s.classifier }

// NewVideoUploader returns a movie uploader presenting through the SDL
// renderer.
func (s *Session) NewVideoUploader() *palvideo.VideoPlaybackUploader {
	return palvideo.NewVideoPlaybackUploader(s.display.Renderer())
}

// SetDebug toggles per-frame timing logs.
func (s *Session) SetDebug(on bool) {
	s.debug = on
	s.compositor.SetDebug(on)
	s.sprites.SetDebug(on)
}

func (s *Session) handleEvent(ev sdl.Event) {
	key, ok := ev.(*sdl.KeyboardEvent)
	if !ok {
		return
	}
	if key.Type == sdl.KEYDOWN && key.Repeat == 0 {
		switch key.Keysym.Sym {
		case sdl.K_F11:
			s.SetDebug(!s.debug)
			return
		case sdl.K_F12:
			s.compositor.Screenshot(fmt.Sprintf("frame-%d", sdl.GetTicks()))
			return
		}
	}
	if s.OnKey != nil {
		s.OnKey(key)
	}
}

// Run polls, updates and presents until the window is closed or OnUpdate
// fails.
func (s *Session) Run() error {
	last := sdl.GetTicks()
	for {
		if s.pump.Poll() {
			s.log.Info("quit requested")
			return nil
		}
		now := sdl.GetTicks()
		s.compositor.Update(float32(now-last) / 1000)
		last = now

		if s.OnUpdate != nil {
			if err := s.OnUpdate(); err != nil {
				return err
			}
		}
		if err := s.compositor.SwapBuffers(); err != nil {
			return fmt.Errorf("sdlvideo: present: %w", err)
		}
		s.sprites.EndFrame()

		if spent := sdl.GetTicks() - now; spent < frameTicks {
			sdl.Delay(frameTicks - spent)
		}
	}
}

// Close releases the GL programs and textures and closes the display.
func (s *Session) Close() {
	s.display.Renderer().beforeDraw = nil
	s.sprites.Close()
	s.programs.Close()
	s.display.Close()
}
