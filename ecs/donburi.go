package ecs

import (
	"github.com/phanxgames/ardent"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type ardent interaction events
// are published under.
var InteractionEventType = events.NewEventType[ardent.InteractionEvent]()

type donburiStore struct {
	world donburi.World
	kinds uint32 // bit per EventKind; zero forwards every kind
}

// NewDonburiStore returns an EntityStore that publishes to
// InteractionEventType in world. Subscribers see the events on the next
// ProcessEvents. When kinds are given, only those kinds are forwarded.
func NewDonburiStore(world donburi.World, kinds ...ardent.EventKind) ardent.EntityStore {
	st := &donburiStore{world: world}
	for _, k := range kinds {
		st.kinds |= 1 << k
	}
	return st
}

func (s *donburiStore) EmitEvent(event ardent.InteractionEvent) {
	if s.kinds != 0 && s.kinds&(1<<event.Kind) == 0 {
		return
	}
	InteractionEventType.Publish(s.world, event)
}
