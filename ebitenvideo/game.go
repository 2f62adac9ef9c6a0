package ebitenvideo

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/palvideo"
)

// mouseTouchID stands in for the left mouse button on desktops, which
// report no touches.
const mouseTouchID ebiten.TouchID = -1

// Game is an ebiten.Game that owns the renderer, the sprite programs and
// the frame compositor, and classifies touch input every tick.
//
// F11 toggles the debug overlay and F12 queues a screenshot.
type Game struct {
	cfg palvideo.Config

	renderer   *Renderer
	programs   *Programs
	sprites    *palvideo.ShaderSpriteRenderer
	compositor *palvideo.FrameCompositor
	classifier *palvideo.TouchGestureClassifier
	overlay    *Overlay

	tracker *touchTracker
	ids     []ebiten.TouchID
	points  []touchPoint
	events  []palvideo.TouchEvent
	runes   []rune

	start   time.Time
	focused bool
	debug   bool

	log *slog.Logger

	// OnUpdate runs after input has been classified each tick. A non-nil
	// error ends the game.
	OnUpdate func() error
	// OnDraw runs during FrameCompositor.SwapBuffers, after the backbuffer
	// copy and before the fade. Sprite blits belong here.
	OnDraw func()
}

// NewGame builds every driver component for cfg. Classified events go to
// sink; env answers the classifier's questions about the engine.
func NewGame(cfg palvideo.Config, env palvideo.Environment, sink palvideo.EventSink) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := NewRenderer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	programs := NewPrograms(r)
	sprites, err := palvideo.NewShaderSpriteRenderer(programs, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	fc, err := palvideo.NewFrameCompositor(r)
	if err != nil {
		return nil, err
	}
	fc.SetDebug(cfg.Debug)
	if cfg.ScreenshotDir != "" {
		fc.SetScreenshotDir(cfg.ScreenshotDir)
	}
	sprites.SetDebug(cfg.Debug)
	classifier, err := palvideo.NewTouchGestureClassifier(cfg, env, sink)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		renderer:   r,
		programs:   programs,
		sprites:    sprites,
		compositor: fc,
		classifier: classifier,
		overlay:    NewOverlay(),
		tracker:    newTouchTracker(cfg.Width, cfg.Height),
		start:      time.Now(),
		focused:    true,
		log:        palvideo.Logger().With("backend", "ebiten"),
	}
	g.SetDebug(cfg.Debug)
	fc.SetOverlay(g.overlayPass)
	return g, nil
}

// Renderer is the canvas-backed renderer.
func (g *Game) Renderer() *Renderer { return g.renderer }

// Sprites is the shader sprite renderer drawing into the canvas.
func (g *Game) Sprites() *palvideo.ShaderSpriteRenderer { return g.sprites }

// Compositor presents the engine's backbuffer.
func (g *Game) Compositor() *palvideo.FrameCompositor { return g.compositor }

// Classifier is the gesture classifier fed by Update.
func (g *Game) Classifier() *palvideo.TouchGestureClassifier { return g.classifier }

// NewVideoUploader returns a movie uploader presenting through the canvas.
func (g *Game) NewVideoUploader() *palvideo.VideoPlaybackUploader {
	return palvideo.NewVideoPlaybackUploader(g.renderer)
}

// SetDebug toggles the stats overlay.
func (g *Game) SetDebug(on bool) {
	g.debug = on
}

// overlayPass is the compositor's overlay: the sprite pass, then the stats
// overlay when debugging.
func (g *Game) overlayPass() {
	if g.OnDraw != nil {
		g.OnDraw()
	}
	if g.debug {
		g.overlay.DrawTo(g.renderer.canvas)
	}
}

// ticks is the millisecond clock the classifier runs on.
func (g *Game) ticks() uint32 {
	return uint32(time.Since(g.start).Milliseconds())
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.classifier.Tick(g.ticks())

	g.events = g.pollWindow(g.events[:0])
	g.events = g.pollPointer(g.events)
	if _, y := ebiten.Wheel(); y != 0 {
		g.events = append(g.events, palvideo.TouchEvent{Type: palvideo.TouchWheel, WheelY: int(y)})
	}
	if g.runes = ebiten.AppendInputChars(g.runes[:0]); len(g.runes) > 0 {
		g.events = append(g.events, palvideo.TouchEvent{Type: palvideo.TouchTextInput, Text: string(g.runes)})
	}
	for _, e := range g.events {
		g.classifier.HandleEvent(e)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		g.SetDebug(!g.debug)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.compositor.Screenshot(fmt.Sprintf("frame-%d", g.ticks()))
	}

	dt := 1 / float64(ebiten.TPS())
	g.compositor.Update(float32(dt))
	if g.debug {
		g.overlay.Update(dt, g.classifier.State())
	}
	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// pollWindow reports focus changes as minimize and restore, which is how
// mobile platforms surface backgrounding.
func (g *Game) pollWindow(events []palvideo.TouchEvent) []palvideo.TouchEvent {
	focused := ebiten.IsFocused()
	if focused == g.focused {
		return events
	}
	g.focused = focused
	if focused {
		g.log.Debug("window restored")
		return append(events, palvideo.TouchEvent{Type: palvideo.TouchWindowRestore})
	}
	g.log.Debug("window minimized")
	g.tracker.reset()
	return append(events, palvideo.TouchEvent{Type: palvideo.TouchWindowMinimize})
}

func (g *Game) pollPointer(events []palvideo.TouchEvent) []palvideo.TouchEvent {
	g.ids, g.points = pollTouches(g.ids, g.points)
	if len(g.points) == 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.points = append(g.points, touchPoint{id: mouseTouchID, x: x, y: y})
	}
	return g.tracker.update(g.points, events)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.renderer.canvas, nil)
}

// Layout implements ebiten.Game. The logical size never changes; the
// window size is recorded as the renderer's output size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.SetOutputSize(outsideWidth, outsideHeight)
	return g.cfg.Width, g.cfg.Height
}

// Close releases the programs and the sprite textures.
func (g *Game) Close() {
	g.sprites.Close()
}

// Run opens the window described by the game's config and runs it.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(g.cfg.Fullscreen)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebitenvideo: run: %w", err)
	}
	return nil
}
