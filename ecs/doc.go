// Package ecs mirrors grove's dispatched events into a [Donburi] world.
//
// [NewDonburiSink] returns a [grove.EventSink] that publishes every event
// the engine dispatches to [EventType]. Subscribe in your ECS systems and
// drain with ProcessEvents:
//
//	world := donburi.NewWorld()
//	e := grove.NewEngine(cfg, grove.WithEventSink(ecs.NewDonburiSink(world)))
//	ecs.EventType.Subscribe(world, onEvent)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
