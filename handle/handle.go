package handle

// Handle is an opaque reference to implementation-owned element state.
// Handle zero is reserved as the Empty sentinel and never denotes live
// state.
type Handle uint32

// Empty is the reserved "no live backing state" handle. An element holds
// Empty before its first connection and after every disconnection.
const Empty Handle = 0

// IsEmpty reports whether h is the Empty sentinel.
func (h Handle) IsEmpty() bool {
	return h == Empty
}

// Event types for state lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event describes one table lifecycle event.
type Event[T any] struct {
	Value  T
	Handle Handle
	Type   EventType
}

// Observer receives table lifecycle events.
type Observer[T any] func(Event[T])

// Dropper is optionally implemented by state values that need cleanup
// beyond removal from the table.
type Dropper interface {
	Drop()
}
