package celbridge

import (
	"context"

	"github.com/loomui/celbridge/handle"
)

// Element is the bridge's view of one mounted custom element. The host
// runtime owns the element; the bridge only forwards it to the
// Implementation alongside the element's current Handle.
type Element interface {
	// ID returns a host-assigned identifier, stable for the element's life.
	ID() string

	// TagName returns the element's registered tag name.
	TagName() string

	// Attribute returns the current value of a named attribute.
	Attribute(name string) (string, bool)
}

// Implementation is the externally supplied backing logic for a component.
// It is typically compiled from another language and exposed across a
// language boundary (see the guest package), but any Go value satisfying
// this interface works.
//
// All four lifecycle operations are invoked synchronously by the host
// runtime, never concurrently for the same element. Errors returned here
// propagate unmodified to the host's failure channel; the bridge performs
// no recovery.
type Implementation interface {
	// ObservedAttributes returns the attribute names whose mutations the
	// host reports. Read once, before any instance exists; the returned
	// list must not change afterward.
	ObservedAttributes() []string

	// Connected allocates backing state for a newly mounted element and
	// returns its handle. Returning handle.Empty signals that no live
	// state was produced; attribute notifications stay suppressed until
	// a later connection cycle succeeds.
	Connected(ctx context.Context, el Element) (handle.Handle, error)

	// Disconnected releases the backing state denoted by h. h is the
	// value produced by the most recent Connected, or handle.Empty.
	Disconnected(ctx context.Context, el Element, h handle.Handle) error

	// Adopted is invoked when the element moved to a different document.
	// Ownership of the backing state does not depend on document
	// identity, so no handle is carried.
	Adopted(ctx context.Context, el Element) error

	// AttributeChanged is invoked after one of the observed attributes
	// mutated while h denotes live backing state.
	AttributeChanged(ctx context.Context, el Element, h handle.Handle) error
}
