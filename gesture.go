package palvideo

import "fmt"

// TouchGestureClassifier turns raw multi-touch events into mouse and keyboard
// events. A single finger is held back until its meaning is known: motion
// makes it a primary press, holding it past the promotion threshold makes it
// a secondary press, and a lift makes it a primary click.
//
// The classifier is not safe for concurrent use; feed it from the loop that
// drains platform events.
type TouchGestureClassifier struct {
	cfg  Config
	env  Environment
	sink EventSink

	state FingerTrackingState

	renderW, renderH int
	now              uint32
	mod              KeyModifiers
}

// NewTouchGestureClassifier validates the finger thresholds in cfg and
// returns an Idle classifier emitting into sink.
func NewTouchGestureClassifier(cfg Config, env Environment, sink EventSink) (*TouchGestureClassifier, error) {
	if err := validateFingers(cfg); err != nil {
		return nil, err
	}
	if env == nil {
		env = &StaticEnvironment{}
	}
	if cfg.PromotionTicks == 0 {
		cfg.PromotionTicks = DefaultPromotionTicks
	}
	return &TouchGestureClassifier{
		cfg:     cfg,
		env:     env,
		sink:    sink,
		state:   NewFingerTrackingState(),
		renderW: cfg.Width,
		renderH: cfg.Height,
	}, nil
}

func validateFingers(cfg Config) error {
	for _, f := range []struct {
		name string
		n    int
	}{
		{"scroll", cfg.ScrollFingers},
		{"keyboard", cfg.KeyboardFingers},
		{"info", cfg.InfoFingers},
	} {
		if f.n < 2 || f.n > 4 {
			return fmt.Errorf("%w: %s fingers %d outside [2, 4]", ErrInvalidFingerCount, f.name, f.n)
		}
	}
	if cfg.ScrollFingers == cfg.KeyboardFingers {
		return fmt.Errorf("%w: scroll and keyboard both use %d fingers", ErrInvalidFingerCount, cfg.ScrollFingers)
	}
	return nil
}

// SetRenderSize sets the logical size normalized coordinates are scaled by.
func (c *TouchGestureClassifier) SetRenderSize(w, h int) {
	c.renderW, c.renderH = w, h
}

// State returns a copy of the tracking state.
func (c *TouchGestureClassifier) State() FingerTrackingState {
	return c.state
}

// Reset returns the classifier to Idle without emitting anything.
func (c *TouchGestureClassifier) Reset() {
	c.state.Reset()
}

// Now is the tick passed to the last Tick call.
func (c *TouchGestureClassifier) Now() uint32 {
	return c.now
}

// Tick advances the clock and promotes a pending touch held for at least
// PromotionTicks into a secondary press. Call it once per loop iteration
// before draining events.
func (c *TouchGestureClassifier) Tick(now uint32) {
	c.now = now
	s := &c.state
	if !s.Pending() || !s.Timed {
		return
	}
	if now-s.First.Timestamp < c.cfg.PromotionTicks {
		return
	}
	if c.resolve(MouseButtonSecondary) {
		s.SuppressUp = true
		s.HeldSecondary = true
		Logger().Debug("touch promoted", "tick", now)
	}
}

// HandleEvent classifies one platform event.
func (c *TouchGestureClassifier) HandleEvent(e TouchEvent) {
	c.mod = e.Mod
	switch e.Type {
	case TouchFingerDown:
		c.fingerDown(&e)
	case TouchFingerUp:
		c.fingerUp(&e)
	case TouchFingerMotion:
		c.fingerMotion(&e)
	case TouchMultiGesture:
		c.multiGesture(&e)
	case TouchWheel:
		c.emit(InputEvent{Type: EventWheel, X: -e.WheelX, Y: -e.WheelY})
	case TouchTextInput:
		console := c.env.ConsolePopped()
		for _, r := range e.Text {
			c.emit(InputEvent{Type: EventKeyPress, Rune: r, Mod: e.Mod, ToConsole: console})
		}
	case TouchWindowRestore:
		c.state.Reset()
		Logger().Debug("touch state reset on restore")
		c.emit(InputEvent{Type: EventResume})
	case TouchWindowMinimize:
		c.emit(InputEvent{Type: EventSuspend})
	}
}

func (c *TouchGestureClassifier) scale(x, y float64) (int, int) {
	return int(x * float64(c.renderW)), int(y * float64(c.renderH))
}

func (c *TouchGestureClassifier) emit(e InputEvent) {
	if c.sink != nil {
		c.sink.EmitEvent(e)
	}
}

// record makes f the pending first touch.
func (c *TouchGestureClassifier) record(f Finger, timed bool) {
	x, y := c.scale(f.X, f.Y)
	c.state.First = FingerTouchRecord{
		FingerID:  f.ID,
		X:         x,
		Y:         y,
		Timestamp: c.now,
		Pressure:  f.Pressure,
	}
	c.state.Timed = timed
}

// resolve turns the pending touch into a move and a press with button. It
// reports whether anything was emitted.
func (c *TouchGestureClassifier) resolve(button MouseButton) bool {
	s := &c.state
	if !s.Pending() || c.env.MouseDisabled() {
		return false
	}
	x, y := s.First.X, s.First.Y
	c.emit(InputEvent{Type: EventMouseMove, X: x, Y: y, Mod: c.mod})
	c.emit(InputEvent{Type: EventMouseDown, X: x, Y: y, Button: button, Mod: c.mod})
	s.Pressed = true
	s.PressButton = button
	s.clearFirst()
	s.SuppressUp = false
	return true
}

func (c *TouchGestureClassifier) fingerDown(e *TouchEvent) {
	n := e.NumFingers()
	s := &c.state
	if n > 1 && !s.Pending() && !s.Rotating {
		// Several fingers landed within one tick.
		c.record(e.Fingers[0], false)
	}
	switch {
	case n == 1:
		c.record(Finger{ID: e.FingerID, X: e.X, Y: e.Y, Pressure: e.Pressure}, true)
	case n == c.cfg.InfoFingers:
		c.resolve(MouseButtonPrimary)
		c.emit(InputEvent{Type: EventSpecialKeyPress, Key: KeyTab, Mod: e.Mod})
		c.emit(InputEvent{Type: EventSpecialKeyPress, Key: KeyAlt, Mod: e.Mod})
	}
}

func (c *TouchGestureClassifier) fingerUp(e *TouchEvent) {
	n := e.NumFingers()
	s := &c.state
	c.resolve(MouseButtonPrimary)
	if n == 0 {
		x, y := c.scale(e.X, e.Y)
		switch {
		case s.HeldSecondary:
			c.emit(InputEvent{Type: EventMouseUp, X: x, Y: y, Button: MouseButtonSecondary, Mod: e.Mod})
		case !s.SuppressUp && s.Pressed:
			c.emit(InputEvent{Type: EventMouseUp, X: x, Y: y, Button: s.PressButton, Mod: e.Mod})
		}
		s.Reset()
	}
	if n != c.cfg.InfoFingers {
		// Fires even when Alt was never pressed.
		c.emit(InputEvent{Type: EventKeyRelease, Key: KeyAlt})
	}
}

func (c *TouchGestureClassifier) fingerMotion(e *TouchEvent) {
	n := e.NumFingers()
	s := &c.state
	s.SuppressUp = true

	leading := e.FingerID
	focused := ControlOther
	if n > 0 {
		leading = e.Fingers[0].ID
		focused = c.env.FocusedControl()
	}
	textArea := focused == ControlTextArea

	switch {
	case n == c.cfg.ScrollFingers || (n != c.cfg.KeyboardFingers && textArea):
		if textArea {
			c.hideKeyboard()
		} else {
			c.resolve(MouseButtonPrimary)
		}
		// Dragging down scrolls up.
		c.emit(InputEvent{
			Type: EventWheel,
			X:    -int(e.DX * float64(c.renderW)),
			Y:    -int(e.DY * float64(c.renderH)),
		})
	case n == c.cfg.KeyboardFingers && s.LastMotionFinger != leading:
		delta := -int(e.DY * float64(c.renderH))
		switch {
		case delta > 0:
			if c.env.KeyboardShown() && !c.env.ConsolePopped() {
				c.emit(InputEvent{Type: EventConsolePopup})
			} else {
				c.showKeyboard()
			}
		case delta < 0:
			c.hideKeyboard()
		}
	case n <= 1:
		// n can be 0 here when the platform reports motion after the
		// last lift; treat it as plain pointer movement.
		c.resolve(MouseButtonPrimary)
		s.SuppressUp = false
		x, y := c.scale(e.X, e.Y)
		c.emit(InputEvent{Type: EventMouseMove, X: x, Y: y, Mod: e.Mod})
	}
	s.LastMotionFinger = leading
}

func (c *TouchGestureClassifier) multiGesture(e *TouchEvent) {
	n := e.NumFingers()
	s := &c.state
	if (s.Pending() || s.Rotating) && n == 2 && c.env.FocusedControl() == ControlGameView {
		if !c.env.TargetModeNone() {
			return
		}
		// The first finger is the pivot; the second one aims.
		c.resolve(MouseButtonSecondary)
		s.Rotating = true
		x, y := c.scale(e.Fingers[1].X, e.Fingers[1].Y)
		vx, vy := c.env.ViewportOffset()
		c.emit(InputEvent{Type: EventPointerOver, X: x + vx, Y: y + vy})
		return
	}
	c.resolve(MouseButtonPrimary)
}

func (c *TouchGestureClassifier) showKeyboard() {
	if c.cfg.UseSoftKeyboard {
		c.emit(InputEvent{Type: EventShowKeyboard})
	}
}

func (c *TouchGestureClassifier) hideKeyboard() {
	if !c.cfg.UseSoftKeyboard {
		return
	}
	c.emit(InputEvent{Type: EventHideKeyboard})
	if c.env.ConsolePopped() {
		c.emit(InputEvent{Type: EventConsolePopup})
	}
}
