package ebitenvideo

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/palvideo"
)

// touchPoint is one contact as polled from Ebitengine, in logical pixels.
type touchPoint struct {
	id   ebiten.TouchID
	x, y int
}

// touchTracker turns per-tick contact snapshots into the platform-style
// events the classifier consumes. Contacts keep their landing order so the
// leading finger is the one that touched first.
type touchTracker struct {
	w, h  int
	order []ebiten.TouchID
	last  map[ebiten.TouchID]palvideo.Finger
}

func newTouchTracker(w, h int) *touchTracker {
	return &touchTracker{w: w, h: h, last: make(map[ebiten.TouchID]palvideo.Finger)}
}

func (t *touchTracker) finger(p touchPoint) palvideo.Finger {
	return palvideo.Finger{
		ID:       int64(p.id),
		X:        float64(p.x) / float64(t.w),
		Y:        float64(p.y) / float64(t.h),
		Pressure: 1,
	}
}

func (t *touchTracker) fingers() []palvideo.Finger {
	out := make([]palvideo.Finger, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.last[id])
	}
	return out
}

// update diffs points against the previous snapshot and appends lifts,
// landings and motions to events, in that order. When two or more
// contacts moved it also appends one multi-gesture event.
func (t *touchTracker) update(points []touchPoint, events []palvideo.TouchEvent) []palvideo.TouchEvent {
	seen := make(map[ebiten.TouchID]touchPoint, len(points))
	for _, p := range points {
		seen[p.id] = p
	}

	for i := 0; i < len(t.order); {
		id := t.order[i]
		if _, ok := seen[id]; ok {
			i++
			continue
		}
		f := t.last[id]
		t.order = append(t.order[:i], t.order[i+1:]...)
		delete(t.last, id)
		events = append(events, palvideo.TouchEvent{
			Type: palvideo.TouchFingerUp, FingerID: f.ID, X: f.X, Y: f.Y,
			Fingers: t.fingers(),
		})
	}

	for _, p := range points {
		if _, ok := t.last[p.id]; ok {
			continue
		}
		f := t.finger(p)
		t.order = append(t.order, p.id)
		t.last[p.id] = f
		events = append(events, palvideo.TouchEvent{
			Type: palvideo.TouchFingerDown, FingerID: f.ID, X: f.X, Y: f.Y,
			Pressure: f.Pressure, Fingers: t.fingers(),
		})
	}

	moved := 0
	var cx, cy float64
	for _, id := range t.order {
		prev := t.last[id]
		f := t.finger(seen[id])
		cx += f.X
		cy += f.Y
		if f.X == prev.X && f.Y == prev.Y {
			continue
		}
		moved++
		t.last[id] = f
		events = append(events, palvideo.TouchEvent{
			Type: palvideo.TouchFingerMotion, FingerID: f.ID, X: f.X, Y: f.Y,
			DX: f.X - prev.X, DY: f.Y - prev.Y, Pressure: f.Pressure,
			Fingers: t.fingers(),
		})
	}
	if moved > 0 && len(t.order) >= 2 {
		n := float64(len(t.order))
		events = append(events, palvideo.TouchEvent{
			Type: palvideo.TouchMultiGesture, X: cx / n, Y: cy / n,
			Fingers: t.fingers(),
		})
	}
	return events
}

// reset forgets every contact without emitting lifts.
func (t *touchTracker) reset() {
	t.order = t.order[:0]
	clear(t.last)
}

// pollTouches reads the current contacts from Ebitengine.
func pollTouches(ids []ebiten.TouchID, points []touchPoint) ([]ebiten.TouchID, []touchPoint) {
	ids = ebiten.AppendTouchIDs(ids[:0])
	points = points[:0]
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		points = append(points, touchPoint{id: id, x: x, y: y})
	}
	return ids, points
}
