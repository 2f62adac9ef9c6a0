package palvideo

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a gesture script. Coordinates are
// normalized to [0, 1].
type scriptStep struct {
	Action  string      `json:"action"`
	Label   string      `json:"label,omitempty"`
	X       float64     `json:"x,omitempty"`
	Y       float64     `json:"y,omitempty"`
	FromX   float64     `json:"fromX,omitempty"`
	FromY   float64     `json:"fromY,omitempty"`
	ToX     float64     `json:"toX,omitempty"`
	ToY     float64     `json:"toY,omitempty"`
	DX      float64     `json:"dx,omitempty"`
	DY      float64     `json:"dy,omitempty"`
	Fingers int         `json:"fingers,omitempty"`
	Frames  int         `json:"frames,omitempty"`
	Ticks   uint32      `json:"ticks,omitempty"`
	Text    string      `json:"text,omitempty"`
	Control ControlKind `json:"control,omitempty"`
}

// gestureScript is the top-level JSON structure for a gesture script.
type gestureScript struct {
	Config      json.RawMessage    `json:"config,omitempty"`
	Environment *StaticEnvironment `json:"environment,omitempty"`
	Steps       []scriptStep       `json:"steps"`
}

// GestureRunner replays a JSON gesture script through a classifier, one
// injected event per Step. Script actions:
//
//	tap        x, y
//	longPress  x, y, ticks (default the promotion threshold)
//	drag       fromX, fromY, toX, toY, frames
//	swipe      fingers, x, y, dx, dy
//	rotate     x, y (pivot), fromX, fromY, toX, toY, frames
//	wait       ticks
//	text       text
//	focus      control ("other", "text-area", "game-view")
//	restore, minimize
//	screenshot label
type GestureRunner struct {
	cfg   Config
	env   *StaticEnvironment
	steps []scriptStep

	injector   *TouchInjector
	compositor *FrameCompositor

	cursor int
	done   bool
}

// LoadGestureScript parses a JSON gesture script. The script's config is
// laid over DefaultConfig and validated.
func LoadGestureScript(jsonData []byte) (*GestureRunner, error) {
	script := gestureScript{}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	cfg := DefaultConfig()
	if len(script.Config) > 0 {
		var err error
		if cfg, err = LoadConfig(script.Config); err != nil {
			return nil, fmt.Errorf("parse gesture script: %w", err)
		}
	}
	env := script.Environment
	if env == nil {
		env = &StaticEnvironment{}
	}
	for i, st := range script.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GestureRunner{
		cfg:      cfg,
		env:      env,
		steps:    script.Steps,
		injector: NewTouchInjector(),
	}, nil
}

func knownAction(a string) bool {
	switch a {
	case "tap", "longPress", "drag", "swipe", "rotate", "wait", "text",
		"focus", "restore", "minimize", "screenshot":
		return true
	}
	return false
}

// Config is the configuration the script asks for.
func (r *GestureRunner) Config() Config {
	return r.cfg
}

// Environment is the engine state the script runs against. Focus actions
// change it as the script advances.
func (r *GestureRunner) Environment() *StaticEnvironment {
	return r.env
}

// NewClassifier builds a classifier for the script's config and environment.
func (r *GestureRunner) NewClassifier(sink EventSink) (*TouchGestureClassifier, error) {
	return NewTouchGestureClassifier(r.cfg, r.env, sink)
}

// SetCompositor lets screenshot actions capture frames.
func (r *GestureRunner) SetCompositor(fc *FrameCompositor) {
	r.compositor = fc
}

// Done reports whether every step has been delivered.
func (r *GestureRunner) Done() bool {
	return r.done
}

// Step advances the script by one delivery. Actions that expand into
// several touch events are queued and drained one per call before the next
// action is read.
func (r *GestureRunner) Step(c *TouchGestureClassifier) {
	if r.done {
		return
	}
	for r.injector.Pending() == 0 {
		if r.cursor >= len(r.steps) {
			r.done = true
			return
		}
		st := r.steps[r.cursor]
		r.cursor++
		r.queue(st)
	}
	r.injector.Step(c)
	if r.injector.Pending() == 0 && r.cursor >= len(r.steps) {
		r.done = true
	}
}

// Run steps until the script is done.
func (r *GestureRunner) Run(c *TouchGestureClassifier) {
	for !r.done {
		r.Step(c)
	}
}

func (r *GestureRunner) queue(st scriptStep) {
	j := r.injector
	switch st.Action {
	case "tap":
		j.InjectTap(st.X, st.Y)
	case "longPress":
		ticks := st.Ticks
		if ticks == 0 {
			ticks = r.cfg.PromotionTicks
		}
		j.InjectLongPress(st.X, st.Y, ticks)
	case "drag":
		j.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "swipe":
		j.InjectSwipe(st.Fingers, st.X, st.Y, st.DX, st.DY)
	case "rotate":
		j.InjectRotation(st.X, st.Y, st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		j.InjectWait(st.Ticks)
	case "text":
		j.InjectText(st.Text)
	case "focus":
		r.env.Focused = st.Control
	case "restore":
		j.InjectRestore()
	case "minimize":
		j.InjectMinimize()
	case "screenshot":
		if r.compositor != nil {
			r.compositor.Screenshot(st.Label)
		}
	}
}
