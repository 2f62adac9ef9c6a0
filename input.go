package palvideo

import "fmt"

// InputEventType identifies an event delivered to the engine.
type InputEventType uint8

const (
	EventMouseMove InputEventType = iota
	EventMouseDown
	EventMouseUp
	EventWheel
	EventSpecialKeyPress
	EventKeyRelease
	EventKeyPress
	EventShowKeyboard
	EventHideKeyboard
	EventConsolePopup
	EventPointerOver
	EventSuspend
	EventResume

	inputEventCount
)

var inputEventNames = [inputEventCount]string{
	EventMouseMove:       "mouse-move",
	EventMouseDown:       "mouse-down",
	EventMouseUp:         "mouse-up",
	EventWheel:           "wheel",
	EventSpecialKeyPress: "special-key-press",
	EventKeyRelease:      "key-release",
	EventKeyPress:        "key-press",
	EventShowKeyboard:    "show-keyboard",
	EventHideKeyboard:    "hide-keyboard",
	EventConsolePopup:    "console-popup",
	EventPointerOver:     "pointer-over",
	EventSuspend:         "suspend",
	EventResume:          "resume",
}

func (t InputEventType) String() string {
	if t < inputEventCount {
		return inputEventNames[t]
	}
	return "unknown"
}

// InputEvent is a mouse or keyboard event synthesized from touch input.
type InputEvent struct {
	Type InputEventType

	// X and Y are the pointer position for mouse and pointer-over events,
	// or the scroll amount for wheel events.
	X, Y   int
	Button MouseButton

	Key  SpecialKey // special-key press and key release
	Rune rune       // key press
	Mod  KeyModifiers

	// ToConsole routes a key press to the popped-up console.
	ToConsole bool
}

func (e InputEvent) String() string {
	switch e.Type {
	case EventMouseMove, EventPointerOver:
		return fmt.Sprintf("%s(%d,%d)", e.Type, e.X, e.Y)
	case EventMouseDown, EventMouseUp:
		return fmt.Sprintf("%s(%d,%d,%s)", e.Type, e.X, e.Y, e.Button)
	case EventWheel:
		return fmt.Sprintf("%s(%d,%d)", e.Type, e.X, e.Y)
	case EventSpecialKeyPress, EventKeyRelease:
		return fmt.Sprintf("%s(%s)", e.Type, e.Key)
	case EventKeyPress:
		if e.ToConsole {
			return fmt.Sprintf("%s(%q,console)", e.Type, e.Rune)
		}
		return fmt.Sprintf("%s(%q)", e.Type, e.Rune)
	default:
		return e.Type.String()
	}
}

// EventSink receives classified input events.
type EventSink interface {
	EmitEvent(InputEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(InputEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(e InputEvent) { f(e) }

// Environment answers the questions the classifier asks about the engine.
type Environment interface {
	FocusedControl() ControlKind
	// TargetModeNone reports whether the game view is not waiting for a
	// spell or action target.
	TargetModeNone() bool
	ViewportOffset() (x, y int)
	KeyboardShown() bool
	ConsolePopped() bool
	MouseDisabled() bool
}

// StaticEnvironment is an Environment backed by plain fields.
type StaticEnvironment struct {
	Focused    ControlKind `json:"focused"`
	TargetMode bool        `json:"targetMode"` // a target mode is active
	ViewportX  int         `json:"viewportX"`
	ViewportY  int         `json:"viewportY"`
	Keyboard   bool        `json:"keyboard"`
	Console    bool        `json:"console"`
	NoMouse    bool        `json:"noMouse"`
}

func (e *StaticEnvironment) FocusedControl() ControlKind { return e.Focused }
func (e *StaticEnvironment) TargetModeNone() bool        { return !e.TargetMode }
func (e *StaticEnvironment) ViewportOffset() (int, int)  { return e.ViewportX, e.ViewportY }
func (e *StaticEnvironment) KeyboardShown() bool         { return e.Keyboard }
func (e *StaticEnvironment) ConsolePopped() bool         { return e.Console }
func (e *StaticEnvironment) MouseDisabled() bool         { return e.NoMouse }

// --- Handler registry ---

type inputHandler struct {
	id uint32
	fn func(InputEvent)
}

type handlerRegistry struct {
	byType [inputEventCount][]inputHandler
	any    []inputHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event InputEventType
	any   bool
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	if h.any {
		h.reg.any = removeHandler(h.reg.any, h.id)
		return
	}
	h.reg.byType[h.event] = removeHandler(h.reg.byType[h.event], h.id)
}

func removeHandler(s []inputHandler, id uint32) []inputHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = inputHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// Dispatcher is an EventSink that fans events out to registered callbacks
// in registration order.
type Dispatcher struct {
	handlers handlerRegistry
}

// NewDispatcher returns a Dispatcher with no callbacks.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// On registers fn for events of type t.
func (d *Dispatcher) On(t InputEventType, fn func(InputEvent)) CallbackHandle {
	if t >= inputEventCount {
		return CallbackHandle{}
	}
	d.handlers.nextID++
	id := d.handlers.nextID
	d.handlers.byType[t] = append(d.handlers.byType[t], inputHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &d.handlers, event: t}
}

// OnAny registers fn for every event. Type-specific callbacks run first.
func (d *Dispatcher) OnAny(fn func(InputEvent)) CallbackHandle {
	d.handlers.nextID++
	id := d.handlers.nextID
	d.handlers.any = append(d.handlers.any, inputHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &d.handlers, any: true}
}

// EmitEvent implements EventSink.
func (d *Dispatcher) EmitEvent(e InputEvent) {
	if e.Type < inputEventCount {
		for _, h := range d.handlers.byType[e.Type] {
			h.fn(e)
		}
	}
	for _, h := range d.handlers.any {
		h.fn(e)
	}
}

// EventRecorder is an EventSink that keeps every event it receives.
type EventRecorder struct {
	Events []InputEvent
}

// EmitEvent implements EventSink.
func (r *EventRecorder) EmitEvent(e InputEvent) {
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events match t, and button when t is a
// mouse press or release.
func (r *EventRecorder) Count(t InputEventType, button ...MouseButton) int {
	n := 0
	for _, e := range r.Events {
		if e.Type != t {
			continue
		}
		if len(button) > 0 && e.Button != button[0] {
			continue
		}
		n++
	}
	return n
}

// Reset drops every recorded event.
func (r *EventRecorder) Reset() {
	r.Events = r.Events[:0]
}
