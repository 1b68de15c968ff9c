package host

import (
	"context"
)

// Element is one custom element in a document. It implements the bridge's
// element view and owns the attribute map; the backing state lives behind
// the bridge instance's handle, on the Implementation side.
type Element struct {
	id        string
	tag       string
	doc       *Document
	instance  instanceDispatch
	observed  map[string]struct{}
	attrs     map[string]string
	attrOrder []string
	mounted   bool
}

// instanceDispatch is the slice of the bridge instance the document needs.
type instanceDispatch interface {
	Connected(ctx context.Context) error
	Disconnected(ctx context.Context) error
	Adopted(ctx context.Context) error
	AttributeChanged(ctx context.Context) error
}

// ID returns the document-assigned element identifier.
func (e *Element) ID() string {
	return e.id
}

// TagName returns the element's registered tag name.
func (e *Element) TagName() string {
	return e.tag
}

// Attribute returns the current value of a named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attributes returns the attribute names in the order they were first set.
func (e *Element) Attributes() []string {
	out := make([]string, len(e.attrOrder))
	copy(out, e.attrOrder)
	return out
}

// IsMounted reports whether the element is currently in its document tree.
func (e *Element) IsMounted() bool {
	return e.mounted
}

// SetAttribute mutates an attribute. Mutations of observed attributes are
// reported to the element's bridge instance regardless of mount state;
// whether the notification reaches the Implementation is the bridge's
// decision. Mutations of non-observed attributes are never reported.
//
// Dispatch failures surface on the document's failure channel.
func (e *Element) SetAttribute(ctx context.Context, name, value string) {
	if _, seen := e.attrs[name]; !seen {
		e.attrOrder = append(e.attrOrder, name)
	}
	e.attrs[name] = value

	if _, ok := e.observed[name]; !ok {
		return
	}
	if e.instance == nil {
		return
	}
	if err := e.instance.AttributeChanged(ctx); err != nil {
		e.doc.fail(err)
	}
}

// RemoveAttribute deletes an attribute, reporting the mutation under the
// same rules as SetAttribute.
func (e *Element) RemoveAttribute(ctx context.Context, name string) {
	if _, seen := e.attrs[name]; !seen {
		return
	}
	delete(e.attrs, name)
	for i, n := range e.attrOrder {
		if n == name {
			e.attrOrder = append(e.attrOrder[:i], e.attrOrder[i+1:]...)
			break
		}
	}

	if _, ok := e.observed[name]; !ok {
		return
	}
	if e.instance == nil {
		return
	}
	if err := e.instance.AttributeChanged(ctx); err != nil {
		e.doc.fail(err)
	}
}
