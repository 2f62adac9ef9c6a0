package palvideo

// FrameTicks is how far the injector advances the clock before delivering
// each queued event.
const FrameTicks = 16

// injectStep is one queued delivery. A nil event only advances the clock.
type injectStep struct {
	advance uint32
	event   *TouchEvent
}

// TouchInjector queues synthetic touch events and delivers them to a
// classifier one per Step, advancing the classifier's clock as it goes.
// Coordinates are normalized to [0, 1], like real platform touches.
type TouchInjector struct {
	queue    []injectStep
	contacts []Finger
	nextID   int64
}

// NewTouchInjector returns an empty injector.
func NewTouchInjector() *TouchInjector {
	return &TouchInjector{nextID: 1}
}

// Pending is the number of queued deliveries.
func (j *TouchInjector) Pending() int {
	return len(j.queue)
}

func (j *TouchInjector) push(advance uint32, e *TouchEvent) {
	j.queue = append(j.queue, injectStep{advance: advance, event: e})
}

func (j *TouchInjector) snapshot() []Finger {
	out := make([]Finger, len(j.contacts))
	copy(out, j.contacts)
	return out
}

func (j *TouchInjector) contact(id int64) int {
	for i := range j.contacts {
		if j.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// down adds a contact and queues its finger-down.
func (j *TouchInjector) down(x, y float64) int64 {
	id := j.nextID
	j.nextID++
	f := Finger{ID: id, X: x, Y: y, Pressure: 1}
	j.contacts = append(j.contacts, f)
	j.push(FrameTicks, &TouchEvent{
		Type: TouchFingerDown, FingerID: id, X: x, Y: y, Pressure: 1,
		Fingers: j.snapshot(),
	})
	return id
}

// move relocates a contact and queues the motion.
func (j *TouchInjector) move(id int64, x, y float64) {
	i := j.contact(id)
	if i < 0 {
		return
	}
	f := &j.contacts[i]
	dx, dy := x-f.X, y-f.Y
	f.X, f.Y = x, y
	j.push(FrameTicks, &TouchEvent{
		Type: TouchFingerMotion, FingerID: id, X: x, Y: y, DX: dx, DY: dy,
		Pressure: f.Pressure, Fingers: j.snapshot(),
	})
}

// up removes a contact and queues its lift.
func (j *TouchInjector) up(id int64) {
	i := j.contact(id)
	if i < 0 {
		return
	}
	f := j.contacts[i]
	j.contacts = append(j.contacts[:i], j.contacts[i+1:]...)
	j.push(FrameTicks, &TouchEvent{
		Type: TouchFingerUp, FingerID: id, X: f.X, Y: f.Y,
		Fingers: j.snapshot(),
	})
}

// InjectTap queues a single-finger touch and lift at (x, y).
func (j *TouchInjector) InjectTap(x, y float64) {
	id := j.down(x, y)
	j.up(id)
}

// InjectLongPress queues a touch at (x, y) held for hold ticks before the
// lift.
func (j *TouchInjector) InjectLongPress(x, y float64, hold uint32) {
	id := j.down(x, y)
	j.InjectWait(hold)
	j.up(id)
}

// InjectDrag queues a single-finger drag: a touch at the start, frames-2
// interpolated moves, a move onto the end point and the lift. The minimum
// is 3 frames.
func (j *TouchInjector) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	id := j.down(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		j.move(id, fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	j.up(id)
}

// InjectSwipe queues fingers contacts landing side by side around (x, y),
// all moving by (dx, dy) in one frame, then lifting.
func (j *TouchInjector) InjectSwipe(fingers int, x, y, dx, dy float64) {
	if fingers < 1 {
		fingers = 1
	}
	ids := make([]int64, fingers)
	for i := range ids {
		ids[i] = j.down(x+float64(i)*0.02, y)
	}
	// Platforms report every contact moving; the leading one arrives first.
	for i, id := range ids {
		j.move(id, x+float64(i)*0.02+dx, y+dy)
	}
	for _, id := range ids {
		j.up(id)
	}
}

// InjectRotation queues the formation-rotation gesture: a pivot touch at
// (px, py), a second finger landing at (fromX, fromY) and dragged to
// (toX, toY) over frames multi-gesture updates, then both lifts.
func (j *TouchInjector) InjectRotation(px, py, fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	pivot := j.down(px, py)
	aim := j.down(fromX, fromY)
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		k := j.contact(aim)
		j.contacts[k].X = fromX + (toX-fromX)*t
		j.contacts[k].Y = fromY + (toY-fromY)*t
		j.push(FrameTicks, &TouchEvent{
			Type: TouchMultiGesture, X: (px + j.contacts[k].X) / 2, Y: (py + j.contacts[k].Y) / 2,
			Fingers: j.snapshot(),
		})
	}
	j.up(aim)
	j.up(pivot)
}

// InjectWait advances the clock by ticks without delivering an event.
func (j *TouchInjector) InjectWait(ticks uint32) {
	j.push(ticks, nil)
}

// InjectText queues a text input event.
func (j *TouchInjector) InjectText(text string) {
	j.push(FrameTicks, &TouchEvent{Type: TouchTextInput, Text: text})
}

// InjectWheel queues a mouse wheel event.
func (j *TouchInjector) InjectWheel(x, y int) {
	j.push(FrameTicks, &TouchEvent{Type: TouchWheel, WheelX: x, WheelY: y})
}

// InjectRestore queues a window restore.
func (j *TouchInjector) InjectRestore() {
	j.push(FrameTicks, &TouchEvent{Type: TouchWindowRestore})
}

// InjectMinimize queues a window minimize. Contacts still down are
// forgotten, as platforms cancel touches when the window goes away.
func (j *TouchInjector) InjectMinimize() {
	j.contacts = j.contacts[:0]
	j.push(FrameTicks, &TouchEvent{Type: TouchWindowMinimize})
}

// Step delivers the next queued event: it advances the classifier's clock
// with Tick and then hands the event over. It reports whether anything was
// queued.
func (j *TouchInjector) Step(c *TouchGestureClassifier) bool {
	if len(j.queue) == 0 {
		return false
	}
	st := j.queue[0]
	copy(j.queue, j.queue[1:])
	j.queue[len(j.queue)-1] = injectStep{}
	j.queue = j.queue[:len(j.queue)-1]

	c.Tick(c.Now() + st.advance)
	if st.event != nil {
		c.HandleEvent(*st.event)
	}
	return true
}

// Drain delivers every queued event.
func (j *TouchInjector) Drain(c *TouchGestureClassifier) {
	for j.Step(c) {
	}
}
