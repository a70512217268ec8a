// Package ecs provides ECS adapters for ardent's interaction events.
//
// Nodes opt in by carrying a non-zero EntityID. Every event that targets
// such a node reaches the store, and [NewDonburiStore] republishes it in a
// [Donburi] world under [InteractionEventType]:
//
//	scene.SetEntityStore(ecs.NewDonburiStore(world, ardent.EventClick))
//	ecs.InteractionEventType.Subscribe(world, onClick)
//
// Systems then drain the queue with events.ProcessAllEvents once per tick.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
