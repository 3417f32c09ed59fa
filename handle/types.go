package handle

// Handle is an index into a session's handle table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind tags what a handle refers to.
type Kind uint8

const (
	// KindHostObject is an object owned by the script engine.
	KindHostObject Kind = iota + 1
	// KindManaged is a Go value exposed to scripts by identity.
	KindManaged
)

func (k Kind) String() string {
	switch k {
	case KindHostObject:
		return "host-object"
	case KindManaged:
		return "managed"
	default:
		return "unknown"
	}
}

// EventType identifies a handle lifecycle notification.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventAcquired:
		return "acquired"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event is a handle lifecycle notification. Refs is the reference count
// after the operation.
type Event struct {
	Value  any
	Handle Handle
	Refs   uint32
	Kind   Kind
	Type   EventType
}

// Observer receives handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to Observer. Function observers cannot
// be passed to Unsubscribe.
type ObserverFunc func(Event)

func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when
// their last reference is released.
type Dropper interface {
	Drop()
}
