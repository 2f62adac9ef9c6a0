// Package ecs provides ECS adapters for palvideo.
package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/palvideo"
)

// InputEventType is the Donburi event type for classified input events.
// Subscribe to this in your ECS systems to receive mouse, wheel, key and
// lifecycle events.
var InputEventType = events.NewEventType[palvideo.InputEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to InputEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) palvideo.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event palvideo.InputEvent) {
	InputEventType.Publish(s.world, event)
}
