package handle

import (
	"errors"
)

var ErrClosed = errors.New("handle table closed")

// Table maps handles to state values of one concrete type. Slots are
// reused through a free list, so handle values stay small; slot 0 is never
// allocated, keeping Empty structurally invalid.
//
// A Table is used from the host's single dispatch goroutine and does no
// locking of its own.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []Handle
	observers []Observer[T]
	closed    bool
}

type entry[T any] struct {
	value T
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

// Insert stores a value and returns its handle, or Empty after Close.
func (t *Table[T]) Insert(value T) Handle {
	if t.closed {
		return Empty
	}

	e := entry[T]{value: value, valid: true}

	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
	} else {
		t.entries = append(t.entries, e)
		h = Handle(len(t.entries))
	}

	t.notify(Event[T]{Type: EventCreated, Handle: h, Value: value})
	return h
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	var zero T
	if h == Empty || int(h) > len(t.entries) {
		return zero, false
	}
	e := t.entries[h-1]
	if !e.valid {
		return zero, false
	}
	return e.value, true
}

// Remove releases a handle and returns its value. Values implementing
// Dropper are given a Drop call.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h == Empty || int(h) > len(t.entries) {
		return zero, false
	}

	e := &t.entries[h-1]
	if !e.valid {
		return zero, false
	}

	value := e.value
	e.valid = false
	e.value = zero
	t.freeList = append(t.freeList, h)

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}

	t.notify(Event[T]{Type: EventDropped, Handle: h, Value: value})
	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer[T]) {
	t.observers = append(t.observers, o)
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	return len(t.entries) - len(t.freeList)
}

// Each iterates over all live handles.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	for i := range t.entries {
		if t.entries[i].valid {
			if !fn(Handle(i+1), t.entries[i].value) {
				return
			}
		}
	}
}

// Clear releases all live handles, observing the same Dropper and event
// discipline as Remove.
func (t *Table[T]) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all live handles and rejects further inserts.
func (t *Table[T]) Close() error {
	if t.closed {
		return nil
	}
	t.Clear()
	t.closed = true
	t.entries = nil
	t.freeList = nil
	return nil
}

func (t *Table[T]) notify(e Event[T]) {
	for _, o := range t.observers {
		o(e)
	}
}
