package palvideo

// TouchEventType identifies a raw platform event fed to the classifier.
type TouchEventType uint8

const (
	TouchFingerDown TouchEventType = iota
	TouchFingerUp
	TouchFingerMotion
	TouchMultiGesture
	TouchWheel
	TouchTextInput
	TouchWindowRestore
	TouchWindowMinimize
)

var touchEventNames = [...]string{
	TouchFingerDown:     "finger-down",
	TouchFingerUp:       "finger-up",
	TouchFingerMotion:   "finger-motion",
	TouchMultiGesture:   "multi-gesture",
	TouchWheel:          "wheel",
	TouchTextInput:      "text-input",
	TouchWindowRestore:  "window-restore",
	TouchWindowMinimize: "window-minimize",
}

func (t TouchEventType) String() string {
	if int(t) < len(touchEventNames) {
		return touchEventNames[t]
	}
	return "unknown"
}

// ParseTouchEventType is the inverse of TouchEventType.String.
func ParseTouchEventType(s string) (TouchEventType, bool) {
	for i, name := range touchEventNames {
		if name == s {
			return TouchEventType(i), true
		}
	}
	return 0, false
}

// Finger is one contact point as reported by the platform, in normalized
// [0, 1] coordinates.
type Finger struct {
	ID       int64   `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
}

// TouchEvent is a platform input event in normalized coordinates.
//
// Fingers lists the contacts still touching after the event, leading finger
// first; its length is the event's finger count. For TouchFingerUp the lifted
// finger is not included.
type TouchEvent struct {
	Type     TouchEventType
	FingerID int64
	X, Y     float64
	DX, DY   float64
	Pressure float64
	Fingers  []Finger

	WheelX, WheelY int
	Text           string
	Mod            KeyModifiers
}

// NumFingers is the number of contacts touching the device.
func (e *TouchEvent) NumFingers() int {
	return len(e.Fingers)
}

// FingerTouchRecord is the pending first touch, in screen pixels.
type FingerTouchRecord struct {
	FingerID  int64 // -1 when no touch is pending
	X, Y      int
	Timestamp uint32
	Pressure  float64
	DX, DY    int
}

// Present reports whether the record holds a touch.
func (r FingerTouchRecord) Present() bool {
	return r.FingerID >= 0
}

var noTouch = FingerTouchRecord{FingerID: -1}

// FingerTrackingState is everything the classifier remembers between events.
type FingerTrackingState struct {
	// First is the touch waiting to be resolved into a mouse press.
	First FingerTouchRecord
	// Timed is set when First arms the long-press timer. Touches recorded
	// from a simultaneous multi-finger landing never promote.
	Timed bool

	// SuppressUp swallows the mouse-up of the next final lift.
	SuppressUp bool

	// Rotating is set while a formation-rotation gesture is in progress.
	Rotating bool

	// LastMotionFinger is the leading finger id of the previous motion
	// event, -1 when none.
	LastMotionFinger int64

	// Pressed is set once a touch resolved into a mouse-down that has not
	// been released. PressButton is the button it went down with.
	Pressed     bool
	PressButton MouseButton
	// HeldSecondary is set by long-press promotion; the secondary press is
	// released on the final lift regardless of SuppressUp.
	HeldSecondary bool
}

// NewFingerTrackingState returns the Idle state.
func NewFingerTrackingState() FingerTrackingState {
	return FingerTrackingState{First: noTouch, LastMotionFinger: -1}
}

// Reset returns s to Idle.
func (s *FingerTrackingState) Reset() {
	*s = NewFingerTrackingState()
}

// Pending reports whether a first touch is waiting to be resolved.
func (s FingerTrackingState) Pending() bool {
	return s.First.Present()
}

// Idle reports whether s carries no gesture state at all.
func (s FingerTrackingState) Idle() bool {
	return s == NewFingerTrackingState()
}

func (s *FingerTrackingState) clearFirst() {
	s.First = noTouch
	s.Timed = false
}
