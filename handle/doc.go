// Package handle provides opaque handles for implementation-owned element
// state.
//
// A Handle is the state token threaded between the lifecycle bridge and a
// component implementation: produced by connected, read by
// attribute-changed, consumed by disconnected. Handle zero is the Empty
// sentinel and never denotes live state, so "no backing state" is a named
// value rather than a convention.
//
// # State Table
//
// Implementations that keep their backing state on the Go side allocate it
// through a Table, which maps handles to values of one concrete type:
//
//	table := handle.NewTable[*counterState]()
//
//	// Allocate state, get a handle
//	h := table.Insert(st)
//
//	// Retrieve state by handle
//	st, ok := table.Get(h)
//
//	// Release on disconnection
//	st, ok := table.Remove(h)
//
// Handles are reused after removal; a Table never hands out Empty.
//
// # Observers
//
// Subscribe to track allocation and release, e.g. for leak checks in tests:
//
//	table.Subscribe(func(e handle.Event[*counterState]) {
//	    switch e.Type {
//	    case handle.EventCreated:
//	        log.Printf("state %d allocated", e.Handle)
//	    case handle.EventDropped:
//	        log.Printf("state %d released", e.Handle)
//	    }
//	})
//
// # Cleanup
//
// State is not garbage collected out of the table. Implementations must
// Remove handles they produced when disconnected fires; values implementing
// Dropper are additionally given a Drop call on removal and on Close.
package handle
