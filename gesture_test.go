package palvideo

import (
	"errors"
	"strings"
	"testing"
)

// gestureHarness drives a classifier with hand-built touch events at a
// 640x480 render size.
type gestureHarness struct {
	t       *testing.T
	c       *TouchGestureClassifier
	env     *StaticEnvironment
	rec     *EventRecorder
	fingers []Finger
	now     uint32
}

func newGestureHarness(t *testing.T, mutate func(*Config)) *gestureHarness {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h := &gestureHarness{t: t, env: &StaticEnvironment{}, rec: &EventRecorder{}}
	c, err := NewTouchGestureClassifier(cfg, h.env, h.rec)
	if err != nil {
		t.Fatalf("NewTouchGestureClassifier: %v", err)
	}
	c.SetRenderSize(640, 480)
	h.c = c
	return h
}

func (h *gestureHarness) tick(dt uint32) {
	h.now += dt
	h.c.Tick(h.now)
}

func (h *gestureHarness) snapshot() []Finger {
	return append([]Finger(nil), h.fingers...)
}

func (h *gestureHarness) down(id int64, x, y float64) {
	h.fingers = append(h.fingers, Finger{ID: id, X: x, Y: y, Pressure: 1})
	h.c.HandleEvent(TouchEvent{Type: TouchFingerDown, FingerID: id, X: x, Y: y, Pressure: 1, Fingers: h.snapshot()})
}

func (h *gestureHarness) move(id int64, x, y float64) {
	for i := range h.fingers {
		if h.fingers[i].ID == id {
			f := &h.fingers[i]
			dx, dy := x-f.X, y-f.Y
			f.X, f.Y = x, y
			h.c.HandleEvent(TouchEvent{Type: TouchFingerMotion, FingerID: id, X: x, Y: y, DX: dx, DY: dy, Fingers: h.snapshot()})
			return
		}
	}
	h.t.Fatalf("move of unknown finger %d", id)
}

func (h *gestureHarness) up(id int64) {
	for i := range h.fingers {
		if h.fingers[i].ID == id {
			f := h.fingers[i]
			h.fingers = append(h.fingers[:i], h.fingers[i+1:]...)
			h.c.HandleEvent(TouchEvent{Type: TouchFingerUp, FingerID: id, X: f.X, Y: f.Y, Fingers: h.snapshot()})
			return
		}
	}
	h.t.Fatalf("lift of unknown finger %d", id)
}

func (h *gestureHarness) multi() {
	h.c.HandleEvent(TouchEvent{Type: TouchMultiGesture, Fingers: h.snapshot()})
}

// trace renders the recorded events, skipping Alt releases.
func (h *gestureHarness) trace() string {
	var parts []string
	for _, e := range h.rec.Events {
		if e.Type == EventKeyRelease {
			continue
		}
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}

func TestLongPressPromotesToSecondary(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.5, 0.5)
	h.tick(499)
	if len(h.rec.Events) != 0 {
		t.Fatalf("events before threshold: %s", h.trace())
	}
	h.tick(1)
	for i := 0; i < 10; i++ {
		h.tick(100)
	}
	if got := h.rec.Count(EventMouseDown, MouseButtonSecondary); got != 1 {
		t.Errorf("secondary downs while held = %d, want 1", got)
	}
	if got := h.rec.Count(EventMouseUp); got != 0 {
		t.Errorf("ups while held = %d, want 0", got)
	}

	h.up(1)
	if got := h.rec.Count(EventMouseDown); got != 1 {
		t.Errorf("downs after release = %d, want 1", got)
	}
	if got := h.rec.Count(EventMouseUp, MouseButtonSecondary); got != 1 {
		t.Errorf("secondary ups after release = %d, want 1", got)
	}
	if want := "mouse-move(320,240) mouse-down(320,240,secondary) mouse-up(320,240,secondary)"; h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
	if !h.c.State().Idle() {
		t.Errorf("state after release = %+v, want Idle", h.c.State())
	}
}

func TestTapIsPrimaryClick(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.25, 0.5)
	h.tick(100)
	h.up(1)
	want := "mouse-move(160,240) mouse-down(160,240,primary) mouse-up(160,240,primary)"
	if h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
	if !h.c.State().Idle() {
		t.Errorf("state = %+v, want Idle", h.c.State())
	}
}

func TestDragIsPrimaryPress(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.1, 0.1)
	h.tick(50)
	h.move(1, 0.2, 0.2)
	h.tick(50)
	h.move(1, 0.3, 0.3)
	h.tick(50)
	h.up(1)
	h.tick(1000)

	if got := h.rec.Count(EventMouseDown, MouseButtonPrimary); got != 1 {
		t.Errorf("primary downs = %d, want 1", got)
	}
	if got := h.rec.Count(EventMouseMove); got < 1 {
		t.Errorf("moves = %d, want at least 1", got)
	}
	if got := h.rec.Count(EventMouseUp, MouseButtonPrimary); got != 1 {
		t.Errorf("primary ups = %d, want 1", got)
	}
	if got := h.rec.Count(EventMouseDown, MouseButtonSecondary) + h.rec.Count(EventMouseUp, MouseButtonSecondary); got != 0 {
		t.Errorf("secondary events = %d, want 0", got)
	}
	last := h.rec.Events[len(h.rec.Events)-2]
	if last.Type != EventMouseUp || last.X != 192 || last.Y != 144 {
		t.Errorf("mouse-up = %s, want at the lift position", last)
	}
}

func TestWindowRestoreResetsToIdle(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *gestureHarness)
	}{
		{"pending", func(h *gestureHarness) {
			h.down(1, 0.5, 0.5)
		}},
		{"promoted", func(h *gestureHarness) {
			h.down(1, 0.5, 0.5)
			h.tick(600)
		}},
		{"dragging", func(h *gestureHarness) {
			h.down(1, 0.5, 0.5)
			h.move(1, 0.6, 0.6)
		}},
		{"rotating", func(h *gestureHarness) {
			h.env.Focused = ControlGameView
			h.down(1, 0.2, 0.2)
			h.down(2, 0.6, 0.6)
			h.multi()
		}},
		{"scrolling", func(h *gestureHarness) {
			h.down(1, 0.5, 0.5)
			h.down(2, 0.6, 0.5)
			h.move(1, 0.5, 0.6)
			h.move(1, 0.5, 0.7)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newGestureHarness(t, nil)
			tt.setup(h)
			if h.c.State().Idle() {
				t.Fatal("setup left the classifier Idle")
			}
			h.c.HandleEvent(TouchEvent{Type: TouchWindowRestore})
			if !h.c.State().Idle() {
				t.Errorf("state after restore = %+v, want Idle", h.c.State())
			}
			last := h.rec.Events[len(h.rec.Events)-1]
			if last.Type != EventResume {
				t.Errorf("last event = %s, want resume", last)
			}

			n := len(h.rec.Events)
			h.tick(1000)
			if len(h.rec.Events) != n {
				t.Error("restored classifier still promoted a touch")
			}
		})
	}
}

func TestMinimizeRequestsSuspend(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.5, 0.5)
	h.c.HandleEvent(TouchEvent{Type: TouchWindowMinimize})
	if h.trace() != "suspend" {
		t.Errorf("trace = %q", h.trace())
	}
	if !h.c.State().Pending() {
		t.Error("minimize should not reset the touch state")
	}
}

func TestScrollResolvesFirstTouchThenWheels(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.5, 0.5)
	h.down(2, 0.6, 0.5)
	h.move(1, 0.625, 0.75)

	want := "mouse-move(320,240) mouse-down(320,240,primary) wheel(-80,-120)"
	if h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
}

func TestTextAreaScrollHidesKeyboard(t *testing.T) {
	tests := []struct {
		name    string
		console bool
		want    string
	}{
		{"closed console", false, "hide-keyboard wheel(0,-120)"},
		{"popped console", true, "hide-keyboard console-popup wheel(0,-120)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newGestureHarness(t, nil)
			h.env.Focused = ControlTextArea
			h.env.Console = tt.console
			h.down(1, 0.5, 0.5)
			h.move(1, 0.5, 0.75) // one finger still scrolls a text area
			if h.trace() != tt.want {
				t.Errorf("trace = %q, want %q", h.trace(), tt.want)
			}
			if !h.c.State().Pending() {
				t.Error("text-area scroll should not resolve the first touch")
			}
		})
	}
}

func TestKeyboardGesture(t *testing.T) {
	tests := []struct {
		name     string
		dy       float64
		keyboard bool
		console  bool
		want     string
	}{
		{"swipe up shows keyboard", -0.1, false, false, "show-keyboard"},
		{"swipe up with keyboard pops console", -0.1, true, false, "console-popup"},
		{"swipe up with console shows keyboard", -0.1, true, true, "show-keyboard"},
		{"swipe down hides keyboard", 0.1, false, false, "hide-keyboard"},
		{"swipe down closes console", 0.1, true, true, "hide-keyboard console-popup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newGestureHarness(t, nil)
			h.env.Keyboard = tt.keyboard
			h.env.Console = tt.console
			h.down(1, 0.4, 0.5)
			h.down(2, 0.5, 0.5)
			h.down(3, 0.6, 0.5)
			h.move(1, 0.4, 0.5+tt.dy)
			// Same leading finger: not a new gesture.
			h.move(2, 0.5, 0.5+tt.dy)
			h.move(3, 0.6, 0.5+tt.dy)
			if h.trace() != tt.want {
				t.Errorf("trace = %q, want %q", h.trace(), tt.want)
			}
		})
	}
}

func TestSoftKeyboardDisabled(t *testing.T) {
	h := newGestureHarness(t, func(c *Config) { c.UseSoftKeyboard = false })
	h.down(1, 0.4, 0.5)
	h.down(2, 0.5, 0.5)
	h.down(3, 0.6, 0.5)
	h.move(1, 0.4, 0.3)
	if h.trace() != "" {
		t.Errorf("trace = %q, want no keyboard requests", h.trace())
	}
}

func TestInfoFingersPressTabAlt(t *testing.T) {
	h := newGestureHarness(t, nil)
	for i := int64(1); i <= 4; i++ {
		h.down(i, 0.1*float64(i), 0.5)
	}
	want := "mouse-move(64,240) mouse-down(64,240,primary) special-key-press(tab) special-key-press(alt)"
	if h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
	for i := int64(1); i <= 4; i++ {
		h.up(i)
	}
	if got := h.rec.Count(EventKeyRelease); got != 4 {
		t.Errorf("alt releases = %d, want 4", got)
	}
}

func TestAltReleaseSkippedAtInfoCount(t *testing.T) {
	h := newGestureHarness(t, func(c *Config) {
		c.ScrollFingers, c.KeyboardFingers, c.InfoFingers = 3, 4, 2
	})
	h.down(1, 0.1, 0.5)
	h.down(2, 0.2, 0.5)
	h.down(3, 0.3, 0.5)
	h.rec.Reset()

	h.up(3) // two remain: the info count
	if got := h.rec.Count(EventKeyRelease); got != 0 {
		t.Errorf("alt releases at info count = %d, want 0", got)
	}
	h.up(2)
	h.up(1)
	if got := h.rec.Count(EventKeyRelease); got != 2 {
		t.Errorf("alt releases = %d, want 2", got)
	}
}

func TestTapOverReleasesAlt(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.5, 0.5)
	h.up(1)
	if got := h.rec.Count(EventKeyRelease); got != 1 {
		t.Errorf("alt releases = %d, want 1", got)
	}
	for _, e := range h.rec.Events {
		if e.Type == EventKeyRelease && e.Key != KeyAlt {
			t.Errorf("released %s, want alt", e.Key)
		}
	}
}

func TestFormationRotation(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.env.Focused = ControlGameView
	h.env.ViewportX, h.env.ViewportY = 100, 50

	h.down(1, 0.25, 0.5)
	h.down(2, 0.75, 0.5)
	h.fingers[1].X, h.fingers[1].Y = 0.8, 0.4
	h.multi()
	h.fingers[1].X, h.fingers[1].Y = 0.5, 0.5
	h.multi()

	want := "mouse-move(160,240) mouse-down(160,240,secondary) pointer-over(612,242) pointer-over(420,290)"
	if h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
	if !h.c.State().Rotating {
		t.Error("Rotating not set")
	}

	h.up(2)
	h.up(1)
	if got := h.rec.Count(EventMouseUp, MouseButtonSecondary); got != 1 {
		t.Errorf("secondary ups = %d, want 1", got)
	}
	if h.c.State().Rotating {
		t.Error("Rotating still set after every finger lifted")
	}
}

func TestRotationIgnoredInTargetMode(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.env.Focused = ControlGameView
	h.env.TargetMode = true
	h.down(1, 0.25, 0.5)
	h.down(2, 0.75, 0.5)
	h.multi()
	if h.trace() != "" {
		t.Errorf("trace = %q, want nothing while targeting", h.trace())
	}
	if !h.c.State().Pending() {
		t.Error("pivot touch should stay pending")
	}
}

func TestMultiGestureOutsideGameViewIsPrimary(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.down(1, 0.25, 0.5)
	h.down(2, 0.75, 0.5)
	h.multi()
	if want := "mouse-move(160,240) mouse-down(160,240,primary)"; h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
}

func TestSimultaneousTouchRecordsLeadingFinger(t *testing.T) {
	h := newGestureHarness(t, nil)
	both := []Finger{{ID: 7, X: 0.1, Y: 0.1}, {ID: 8, X: 0.9, Y: 0.9}}
	h.c.HandleEvent(TouchEvent{Type: TouchFingerDown, FingerID: 8, X: 0.9, Y: 0.9, Fingers: both})

	st := h.c.State()
	if !st.Pending() || st.First.FingerID != 7 || st.First.X != 64 || st.First.Y != 48 {
		t.Fatalf("First = %+v, want finger 7 at (64,48)", st.First)
	}
	h.tick(1000)
	if len(h.rec.Events) != 0 {
		t.Errorf("simultaneous touch promoted: %s", h.trace())
	}
}

func TestMouseDisabledKeepsPendingTouch(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.env.NoMouse = true
	h.down(1, 0.5, 0.5)
	h.move(1, 0.5, 0.55)
	h.tick(1000)
	if h.rec.Count(EventMouseDown) != 0 {
		t.Errorf("mouse-down with mouse disabled: %s", h.trace())
	}
	if !h.c.State().Pending() {
		t.Error("pending touch dropped while mouse disabled")
	}
}

func TestZeroFingerMotionMovesPointer(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.c.HandleEvent(TouchEvent{Type: TouchFingerMotion, FingerID: 3, X: 0.5, Y: 0.5})
	if h.trace() != "mouse-move(320,240)" {
		t.Errorf("trace = %q", h.trace())
	}
}

func TestWheelAndText(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.c.HandleEvent(TouchEvent{Type: TouchWheel, WheelX: 1, WheelY: -3})
	h.c.HandleEvent(TouchEvent{Type: TouchTextInput, Text: "ok"})
	h.env.Console = true
	h.c.HandleEvent(TouchEvent{Type: TouchTextInput, Text: "é"})

	want := `wheel(-1,3) key-press('o') key-press('k') key-press('é',console)`
	if h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
}

func TestRenderSizeScaling(t *testing.T) {
	h := newGestureHarness(t, nil)
	h.c.SetRenderSize(800, 600)
	h.down(1, 0.5, 0.25)
	h.up(1)
	if want := "mouse-move(400,150) mouse-down(400,150,primary) mouse-up(400,150,primary)"; h.trace() != want {
		t.Errorf("trace = %q, want %q", h.trace(), want)
	}
}

func TestInvalidFingerCounts(t *testing.T) {
	tests := []struct {
		name                   string
		scroll, keyboard, info int
	}{
		{"scroll equals keyboard", 2, 2, 4},
		{"scroll too small", 1, 3, 4},
		{"keyboard too large", 2, 5, 4},
		{"info out of range", 2, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ScrollFingers, cfg.KeyboardFingers, cfg.InfoFingers = tt.scroll, tt.keyboard, tt.info
			_, err := NewTouchGestureClassifier(cfg, nil, nil)
			if !errors.Is(err, ErrInvalidFingerCount) {
				t.Errorf("err = %v, want ErrInvalidFingerCount", err)
			}
		})
	}
}

func TestCustomPromotionTicks(t *testing.T) {
	h := newGestureHarness(t, func(c *Config) { c.PromotionTicks = 200 })
	h.down(1, 0.5, 0.5)
	h.tick(200)
	if h.rec.Count(EventMouseDown, MouseButtonSecondary) != 1 {
		t.Errorf("trace = %q, want promotion at 200 ticks", h.trace())
	}
}
