package bridge

import (
	celbridge "github.com/loomui/celbridge"
	"github.com/loomui/celbridge/errors"
)

// Class is a generated element type: one Implementation plus the
// observed-attribute list snapshotted at definition time. Classes produced
// by separate Define calls are independent, each closing over its own
// Implementation.
type Class struct {
	impl     celbridge.Implementation
	observed []string
}

// Define generates an element class for impl.
//
// The observed-attribute list is read exactly once, here, before any
// instance exists; later mutations of the Implementation's list are not
// seen by the host. The list is passed through verbatim: order is
// preserved and duplicates are not removed. Define has no other side
// effect and creates no instances.
func Define(impl celbridge.Implementation) (*Class, error) {
	if impl == nil {
		return nil, errors.InvalidImpl(errors.PhaseDefine, "implementation is nil")
	}

	observed := impl.ObservedAttributes()
	snapshot := make([]string, len(observed))
	copy(snapshot, observed)

	return &Class{
		impl:     impl,
		observed: snapshot,
	}, nil
}

// ObservedAttributes returns the attribute names the host should report
// mutations for. The result is fixed for the life of the class; callers
// must not modify it.
func (c *Class) ObservedAttributes() []string {
	return c.observed
}

// NewInstance creates the per-element state machine backing one mounted
// element. Instances start Unmounted with an Empty handle. The host
// runtime owns instance creation and destruction.
func (c *Class) NewInstance(el celbridge.Element) *Instance {
	return &Instance{
		class: c,
		el:    el,
	}
}
