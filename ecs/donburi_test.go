package ecs

import (
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/palvideo"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []palvideo.InputEvent
	InputEventType.Subscribe(world, func(w donburi.World, e palvideo.InputEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(palvideo.InputEvent{
		Type:   palvideo.EventMouseDown,
		X:      100,
		Y:      200,
		Button: palvideo.MouseButtonSecondary,
	})
	sink.EmitEvent(palvideo.InputEvent{Type: palvideo.EventKeyPress, Rune: 'q', ToConsole: true})

	// Events are queued; process them.
	InputEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != palvideo.EventMouseDown || e0.Button != palvideo.MouseButtonSecondary {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}

	e1 := received[1]
	if e1.Type != palvideo.EventKeyPress || e1.Rune != 'q' || !e1.ToConsole {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_FromClassifier(t *testing.T) {
	world := donburi.NewWorld()
	c, err := palvideo.NewTouchGestureClassifier(palvideo.DefaultConfig(), nil, NewDonburiSink(world))
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	InputEventType.Subscribe(world, func(w donburi.World, e palvideo.InputEvent) {
		got = append(got, e.String())
	})

	c.HandleEvent(palvideo.TouchEvent{Type: palvideo.TouchWheel, WheelX: 0, WheelY: 2})
	c.HandleEvent(palvideo.TouchEvent{Type: palvideo.TouchWindowMinimize})
	events.ProcessAllEvents(world)

	want := []string{"wheel(0,-2)", "suspend"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	InputEventType.Subscribe(world, func(w donburi.World, e palvideo.InputEvent) {
		count1++
	})
	InputEventType.Subscribe(world, func(w donburi.World, e palvideo.InputEvent) {
		count2++
	})

	sink.EmitEvent(palvideo.InputEvent{Type: palvideo.EventResume})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
