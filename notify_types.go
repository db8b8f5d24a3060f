package addrbook

// EventType identifies a change to the book or its configuration. The
// values form a bitmask so an observer can subscribe to several at once.
type EventType uint8

const (
	EventNew     EventType = 1 << iota // alias added to the book
	EventDeleted                       // alias removed from the book
	EventChanged                       // alias edited in place
	EventConfig                        // configuration option written

	EventAll EventType = 1<<iota - 1
)

func (t EventType) String() string {
	switch t {
	case EventNew:
		return "new"

	case EventDeleted:
		return "deleted"

	case EventChanged:
		return "changed"

	case EventConfig:
		return "config"

	default:
		return "multiple"
	}
}

// Event describes one change. Alias is set for alias events, Option for
// EventConfig.
type Event struct {
	Type   EventType
	Alias  *Alias
	Option string
}

// Observer receives events. A returned error is logged; it does not stop
// delivery to later observers.
type Observer func(Event) error

// ObserverID identifies a subscription for removal.
type ObserverID string
