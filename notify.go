package addrbook

import (
	"github.com/bradenaw/juniper/xslices"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Bus delivers events to observers synchronously, on the publisher's
// goroutine, in registration order. Like the Book it serves, a Bus is meant
// for a single-threaded event loop and is not safe for concurrent use.
//
// An observer may publish further events, and may subscribe or unsubscribe
// observers, from inside its callback: registration changes are queued
// while any dispatch is running and applied once the outermost dispatch
// returns.
type Bus struct {
	observers []observer

	// depth counts nested Publish calls so registration changes made by
	// observers cannot invalidate the list mid-dispatch.
	depth   int
	added   []observer
	removed []ObserverID
}

type observer struct {
	id    ObserverID
	types EventType
	fn    Observer
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every event type in mask and returns an ID
// that Unsubscribe accepts.
func (bus *Bus) Subscribe(mask EventType, fn Observer) ObserverID {
	obs := observer{id: ObserverID(uuid.NewString()), types: mask, fn: fn}

	if bus.depth > 0 {
		bus.added = append(bus.added, obs)
	} else {
		bus.observers = append(bus.observers, obs)
	}

	return obs.id
}

// Unsubscribe removes the observer with the given ID. Unknown IDs are
// ignored. An observer removed during a dispatch still sees the event
// being dispatched.
func (bus *Bus) Unsubscribe(id ObserverID) {
	if bus.depth > 0 {
		bus.removed = append(bus.removed, id)
		return
	}

	bus.drop(id)
}

// Publish delivers ev to every observer whose mask includes its type. An
// observer error is logged and delivery continues.
func (bus *Bus) Publish(ev Event) {
	bus.depth++

	for _, obs := range bus.observers {
		if obs.types&ev.Type == 0 {
			continue
		}

		if err := obs.fn(ev); err != nil {
			logrus.WithFields(logrus.Fields{
				"event": ev.Type,
				"err":   err,
			}).Warn("Observer failed")
		}
	}

	bus.depth--

	if bus.depth == 0 {
		bus.observers = append(bus.observers, bus.added...)
		bus.added = nil

		for _, id := range bus.removed {
			bus.drop(id)
		}

		bus.removed = nil
	}
}

func (bus *Bus) drop(id ObserverID) {
	if idx := xslices.IndexFunc(bus.observers, func(obs observer) bool { return obs.id == id }); idx >= 0 {
		bus.observers = xslices.Remove(bus.observers, idx, 1)
	}
}
