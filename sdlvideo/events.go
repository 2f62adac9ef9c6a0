package sdlvideo

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

// touchSource lists the contacts on a touch device, leading finger first.
type touchSource interface {
	Fingers(touch sdl.TouchID) []palvideo.Finger
}

// sdlTouches reads the live finger table from SDL.
type sdlTouches struct{}

func (sdlTouches) Fingers(touch sdl.TouchID) []palvideo.Finger {
	n := sdl.GetNumTouchFingers(touch)
	out := make([]palvideo.Finger, 0, n)
	for i := 0; i < n; i++ {
		f := sdl.GetTouchFinger(touch, i)
		if f == nil {
			continue
		}
		out = append(out, palvideo.Finger{
			ID:       int64(f.ID),
			X:        float64(f.X),
			Y:        float64(f.Y),
			Pressure: float64(f.Pressure),
		})
	}
	return out
}

// withoutFinger drops id from fingers. SDL may still list a finger while
// its up event is queued.
func withoutFinger(fingers []palvideo.Finger, id int64) []palvideo.Finger {
	out := fingers[:0:0]
	for _, f := range fingers {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

// translateEvent converts an SDL event into the classifier's input. The
// second result is false for events the classifier does not consume.
func translateEvent(ev sdl.Event, touches touchSource, mod palvideo.KeyModifiers) (palvideo.TouchEvent, bool) {
	switch e := ev.(type) {
	case *sdl.TouchFingerEvent:
		out := palvideo.TouchEvent{
			FingerID: int64(e.FingerID),
			X:        float64(e.X),
			Y:        float64(e.Y),
			DX:       float64(e.DX),
			DY:       float64(e.DY),
			Pressure: float64(e.Pressure),
			Mod:      mod,
		}
		fingers := touches.Fingers(e.TouchID)
		switch e.Type {
		case sdl.FINGERDOWN:
			out.Type = palvideo.TouchFingerDown
		case sdl.FINGERUP:
			out.Type = palvideo.TouchFingerUp
			fingers = withoutFinger(fingers, out.FingerID)
		case sdl.FINGERMOTION:
			out.Type = palvideo.TouchFingerMotion
		default:
			return palvideo.TouchEvent{}, false
		}
		out.Fingers = fingers
		return out, true

	case *sdl.MultiGestureEvent:
		return palvideo.TouchEvent{
			Type:    palvideo.TouchMultiGesture,
			X:       float64(e.X),
			Y:       float64(e.Y),
			Fingers: touches.Fingers(e.TouchID),
			Mod:     mod,
		}, true

	case *sdl.MouseWheelEvent:
		x, y := int(e.X), int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			x, y = -x, -y
		}
		return palvideo.TouchEvent{Type: palvideo.TouchWheel, WheelX: x, WheelY: y, Mod: mod}, true

	case *sdl.TextInputEvent:
		text := e.GetText()
		if text == "" {
			return palvideo.TouchEvent{}, false
		}
		return palvideo.TouchEvent{Type: palvideo.TouchTextInput, Text: text, Mod: mod}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESTORED:
			return palvideo.TouchEvent{Type: palvideo.TouchWindowRestore}, true
		case sdl.WINDOWEVENT_MINIMIZED:
			return palvideo.TouchEvent{Type: palvideo.TouchWindowMinimize}, true
		}
	}
	return palvideo.TouchEvent{}, false
}

// EventPump drains the SDL queue into a gesture classifier.
type EventPump struct {
	classifier *palvideo.TouchGestureClassifier
	touches    touchSource
	modState   func() sdl.Keymod

	// OnEvent receives every event the classifier does not consume, such as
	// keyboard and mouse button events.
	OnEvent func(sdl.Event)
}

// NewEventPump returns a pump feeding c.
func NewEventPump(c *palvideo.TouchGestureClassifier) *EventPump {
	return &EventPump{
		classifier: c,
		touches:    sdlTouches{},
		modState:   sdl.GetModState,
	}
}

// Handle classifies one event and reports whether it asked to quit.
func (p *EventPump) Handle(ev sdl.Event) (quit bool) {
	if _, ok := ev.(*sdl.QuitEvent); ok {
		return true
	}
	te, ok := translateEvent(ev, p.touches, keyModifiers(p.modState()))
	if !ok {
		if p.OnEvent != nil {
			p.OnEvent(ev)
		}
		return false
	}
	p.classifier.HandleEvent(te)
	return false
}

// Poll advances the classifier clock to SDL's tick count, then handles
// every queued event. It reports whether a quit was requested.
func (p *EventPump) Poll() (quit bool) {
	p.classifier.Tick(sdl.GetTicks())
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if p.Handle(ev) {
			quit = true
		}
	}
	return quit
}
