package host

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomui/celbridge/errors"
)

// Document is a simulated host document: it constructs elements from a
// registry and dispatches lifecycle callbacks in host order. Not safe for
// concurrent use.
type Document struct {
	registry  *Registry
	elements  map[string]*Element
	onFailure func(error)
	logger    *zap.Logger
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithFailureHandler installs the document's unhandled-failure channel.
// Implementation errors raised during lifecycle dispatch are passed to fn
// unmodified.
func WithFailureHandler(fn func(error)) DocumentOption {
	return func(d *Document) {
		d.onFailure = fn
	}
}

// WithLogger installs a logger for dispatch tracing and default failure
// reporting.
func WithLogger(l *zap.Logger) DocumentOption {
	return func(d *Document) {
		d.logger = l
	}
}

// NewDocument creates a document backed by reg.
func NewDocument(reg *Registry, opts ...DocumentOption) *Document {
	d := &Document{
		registry: reg,
		elements: make(map[string]*Element),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateElement constructs an unmounted element for a registered tag and
// upgrades it with a fresh bridge instance. The instance is created by the
// document, never by the bridge itself.
func (d *Document) CreateElement(tag string) (*Element, error) {
	reg, ok := d.registry.lookup(tag)
	if !ok {
		return nil, errors.NotRegistered(tag)
	}

	el := &Element{
		id:       uuid.New().String(),
		tag:      tag,
		doc:      d,
		observed: reg.observed,
		attrs:    make(map[string]string),
	}
	el.instance = reg.class.NewInstance(el)
	d.elements[el.id] = el

	d.logger.Debug("element created",
		zap.String("tag", tag),
		zap.String("element", el.id))
	return el, nil
}

// Mount inserts el into the document tree and dispatches connected.
// Mounting an already-mounted element is a host-contract violation and is
// rejected before any dispatch.
func (d *Document) Mount(ctx context.Context, el *Element) error {
	if el.doc != d {
		return errors.InvalidInput(errors.PhaseDispatch, "element belongs to a different document")
	}
	if el.mounted {
		return errors.InvalidInput(errors.PhaseDispatch, "element already mounted")
	}

	el.mounted = true
	d.logger.Debug("dispatch connected", zap.String("element", el.id))
	if err := el.instance.Connected(ctx); err != nil {
		d.fail(err)
	}
	return nil
}

// Unmount removes el from the document tree and dispatches disconnected.
// Unmounting an element that is not mounted is a no-op, preserving the
// at-most-once-per-connection guarantee.
func (d *Document) Unmount(ctx context.Context, el *Element) error {
	if el.doc != d {
		return errors.InvalidInput(errors.PhaseDispatch, "element belongs to a different document")
	}
	if !el.mounted {
		return nil
	}

	el.mounted = false
	d.logger.Debug("dispatch disconnected", zap.String("element", el.id))
	if err := el.instance.Disconnected(ctx); err != nil {
		d.fail(err)
	}
	return nil
}

// Adopt moves el from its current document into d and dispatches adopted.
// The move alone triggers no connected or disconnected dispatch, and the
// element's handle is untouched: ownership of the backing state does not
// depend on document identity.
func (d *Document) Adopt(ctx context.Context, el *Element) error {
	if el.doc == d {
		return errors.InvalidInput(errors.PhaseDispatch, "element already in this document")
	}

	delete(el.doc.elements, el.id)
	el.doc = d
	d.elements[el.id] = el

	d.logger.Debug("dispatch adopted", zap.String("element", el.id))
	if err := el.instance.Adopted(ctx); err != nil {
		d.fail(err)
	}
	return nil
}

// Len returns the number of elements belonging to the document.
func (d *Document) Len() int {
	return len(d.elements)
}

func (d *Document) fail(err error) {
	if d.onFailure != nil {
		d.onFailure(err)
		return
	}
	d.logger.Error("unhandled lifecycle failure", zap.Error(err))
}
