// Package bridge turns an Implementation into an element class.
//
// Define captures one Implementation and produces a Class, the celbridge
// analog of a custom-element type: the class's observed-attribute list is
// fixed at definition time, and each element instance the host creates from
// it forwards host-dispatched lifecycle events to the Implementation with
// the instance's current Handle.
//
// An Instance is a small state machine, Unmounted -> Connected -> Unmounted,
// with the Handle as the state token:
//
//	Connected        handle = impl.Connected(el)
//	Disconnected     impl.Disconnected(el, handle); handle = Empty (always)
//	Adopted          impl.Adopted(el)              (no handle involved)
//	AttributeChanged impl.AttributeChanged(el, handle) only while live
//
// The bridge catches, converts, and retries nothing: any error an
// Implementation returns comes back unmodified from the dispatch method,
// and the host decides what its failure channel does with it. The one piece
// of bookkeeping the bridge owns is the Handle reset on disconnection,
// which is unconditional so a stale handle can never be mistaken for live
// state on a later reconnection.
package bridge
