// Package ecs provides ECS adapters for palvideo's classified input.
//
// The primary adapter is [NewDonburiSink], which bridges the mouse and
// keyboard events synthesized by the gesture classifier into a [Donburi]
// world as typed events. Subscribe to [InputEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	game, err := ebitenvideo.NewGame(cfg, env, sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
