package bridge

import (
	"context"

	"go.uber.org/zap"

	celbridge "github.com/loomui/celbridge"
	"github.com/loomui/celbridge/handle"
)

// Instance is the lifecycle state machine for one mounted element.
//
// Instance is not safe for concurrent use: the host runtime dispatches all
// lifecycle callbacks for one element from a single goroutine, and the
// handle field relies on that.
type Instance struct {
	class     *Class
	el        celbridge.Element
	h         handle.Handle
	connected bool
}

// Element returns the host element this instance backs.
func (in *Instance) Element() celbridge.Element {
	return in.el
}

// Handle returns the instance's current handle. Non-empty exactly while
// the instance sits between a completed Connected that produced state and
// the next Disconnected.
func (in *Instance) Handle() handle.Handle {
	return in.h
}

// IsConnected reports whether the instance is in the Connected state.
// A Connected instance can still hold an Empty handle when the
// Implementation signalled initialization failure that way.
func (in *Instance) IsConnected() bool {
	return in.connected
}

// Connected is dispatched by the host when the element was inserted into a
// document. The Implementation's result becomes the instance's handle.
//
// A Connected dispatch on an already-Connected instance is suppressed
// without forwarding: overwriting the handle would orphan the live backing
// state, and the host contract does not produce this sequence in normal
// operation.
func (in *Instance) Connected(ctx context.Context) error {
	if in.connected {
		Logger().Debug("duplicate connected dispatch suppressed",
			zap.String("element", in.el.ID()))
		return nil
	}

	h, err := in.class.impl.Connected(ctx, in.el)
	in.connected = true
	in.h = h
	return err
}

// Disconnected is dispatched by the host when the element was removed. The
// Implementation receives the handle produced by the most recent Connected;
// the handle is then reset to Empty unconditionally, also when the
// Implementation returns an error, so a stale handle can never survive
// into a later connection.
func (in *Instance) Disconnected(ctx context.Context) error {
	h := in.h
	err := in.class.impl.Disconnected(ctx, in.el, h)
	in.h = handle.Empty
	in.connected = false
	return err
}

// Adopted is dispatched by the host when the element moved to a different
// document. No handle is carried and none changes: ownership of the
// backing state does not depend on document identity.
func (in *Instance) Adopted(ctx context.Context) error {
	return in.class.impl.Adopted(ctx, in.el)
}

// AttributeChanged is dispatched by the host after one of the observed
// attributes mutated. The notification is forwarded only while the handle
// denotes live state; the host may deliver mutations for unmounted
// instances during batched document updates, and forwarding those would
// hand the Implementation a handle with nothing behind it.
func (in *Instance) AttributeChanged(ctx context.Context) error {
	if in.h == handle.Empty {
		return nil
	}
	return in.class.impl.AttributeChanged(ctx, in.el, in.h)
}
