package host

import (
	"context"
	"errors"
	"testing"

	celbridge "github.com/loomui/celbridge"
	"github.com/loomui/celbridge/bridge"
	celerrors "github.com/loomui/celbridge/errors"
	"github.com/loomui/celbridge/handle"
)

type lifecycleCall struct {
	op string
	el string
	h  handle.Handle
}

type countingImpl struct {
	observed   []string
	table      *handle.Table[string]
	calls      []lifecycleCall
	connectErr error
}

func newCountingImpl(observed ...string) *countingImpl {
	return &countingImpl{
		observed: observed,
		table:    handle.NewTable[string](),
	}
}

func (c *countingImpl) ObservedAttributes() []string { return c.observed }

func (c *countingImpl) Connected(_ context.Context, el celbridge.Element) (handle.Handle, error) {
	if c.connectErr != nil {
		return handle.Empty, c.connectErr
	}
	h := c.table.Insert(el.ID())
	c.calls = append(c.calls, lifecycleCall{op: "connected", el: el.ID(), h: h})
	return h, nil
}

func (c *countingImpl) Disconnected(_ context.Context, el celbridge.Element, h handle.Handle) error {
	c.calls = append(c.calls, lifecycleCall{op: "disconnected", el: el.ID(), h: h})
	c.table.Remove(h)
	return nil
}

func (c *countingImpl) Adopted(_ context.Context, el celbridge.Element) error {
	c.calls = append(c.calls, lifecycleCall{op: "adopted", el: el.ID()})
	return nil
}

func (c *countingImpl) AttributeChanged(_ context.Context, el celbridge.Element, h handle.Handle) error {
	c.calls = append(c.calls, lifecycleCall{op: "attributeChanged", el: el.ID(), h: h})
	return nil
}

func (c *countingImpl) count(op string) int {
	n := 0
	for _, call := range c.calls {
		if call.op == op {
			n++
		}
	}
	return n
}

func mustDefine(t *testing.T, reg *Registry, tag string, impl celbridge.Implementation) {
	t.Helper()
	class, err := bridge.Define(impl)
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if err := reg.Define(tag, class); err != nil {
		t.Fatalf("registry Define failed: %v", err)
	}
}

func TestRegistry_Define(t *testing.T) {
	reg := NewRegistry()
	impl := newCountingImpl("value")
	mustDefine(t, reg, "x-widget", impl)

	if _, ok := reg.Lookup("x-widget"); !ok {
		t.Fatal("Lookup should find defined tag")
	}

	class, _ := bridge.Define(impl)
	err := reg.Define("x-widget", class)
	if !errors.Is(err, celerrors.DuplicateTag("x-widget")) {
		t.Fatalf("Expected duplicate_tag error, got %v", err)
	}

	if err := reg.Define("nohyphen", class); err == nil {
		t.Fatal("Tags without a hyphen must be rejected")
	}
}

func TestDocument_UnknownTag(t *testing.T) {
	doc := NewDocument(NewRegistry())
	_, err := doc.CreateElement("x-missing")
	if !errors.Is(err, celerrors.NotRegistered("x-missing")) {
		t.Fatalf("Expected not_registered error, got %v", err)
	}
}

// The mount -> mutate -> unmount -> mutate sequence: one forwarded
// attributeChanged with the live handle, one disconnected with the same
// handle, and zero forwarding after unmount.
func TestDocument_MountMutateUnmountScenario(t *testing.T) {
	impl := newCountingImpl("value")
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	ctx := context.Background()

	el, err := doc.CreateElement("x-counter")
	if err != nil {
		t.Fatalf("CreateElement failed: %v", err)
	}

	if err := doc.Mount(ctx, el); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if impl.count("connected") != 1 {
		t.Fatal("Expected one connected call")
	}
	h1 := impl.calls[0].h

	el.SetAttribute(ctx, "value", "1")
	if impl.count("attributeChanged") != 1 {
		t.Fatalf("Expected one attributeChanged call, got %d", impl.count("attributeChanged"))
	}
	if got := impl.calls[1].h; got != h1 {
		t.Fatalf("attributeChanged must carry the live handle %d, got %d", h1, got)
	}

	if err := doc.Unmount(ctx, el); err != nil {
		t.Fatalf("Unmount failed: %v", err)
	}
	if impl.count("disconnected") != 1 {
		t.Fatal("Expected one disconnected call")
	}
	if got := impl.calls[2].h; got != h1 {
		t.Fatalf("disconnected must receive handle %d, got %d", h1, got)
	}

	// Mutation while unmounted: reported to the bridge, never forwarded.
	el.SetAttribute(ctx, "value", "2")
	if impl.count("attributeChanged") != 1 {
		t.Fatal("Expected zero additional attributeChanged calls while unmounted")
	}
}

func TestDocument_NonObservedAttributeNotReported(t *testing.T) {
	impl := newCountingImpl("value")
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	ctx := context.Background()
	el, _ := doc.CreateElement("x-counter")
	doc.Mount(ctx, el)

	el.SetAttribute(ctx, "class", "wide")
	if impl.count("attributeChanged") != 0 {
		t.Fatal("Non-observed attribute mutations must not be reported")
	}
}

// Moving a connected element between documents: exactly one adopted call,
// no handle mutation, no connected or disconnected from the move alone.
func TestDocument_AdoptScenario(t *testing.T) {
	impl := newCountingImpl("value")
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	docA := NewDocument(reg)
	docB := NewDocument(reg)
	ctx := context.Background()

	el, _ := docA.CreateElement("x-counter")
	docA.Mount(ctx, el)
	h := impl.calls[0].h

	if err := docB.Adopt(ctx, el); err != nil {
		t.Fatalf("Adopt failed: %v", err)
	}

	if impl.count("adopted") != 1 {
		t.Fatalf("Expected exactly one adopted call, got %d", impl.count("adopted"))
	}
	if impl.count("connected") != 1 || impl.count("disconnected") != 0 {
		t.Fatal("The move alone must trigger no connected/disconnected")
	}
	if docA.Len() != 0 || docB.Len() != 1 {
		t.Fatal("Element must have moved between documents")
	}

	// The handle is untouched: a later attribute mutation still carries it.
	el.SetAttribute(ctx, "value", "1")
	last := impl.calls[len(impl.calls)-1]
	if last.op != "attributeChanged" || last.h != h {
		t.Fatalf("Expected attributeChanged with handle %d, got %+v", h, last)
	}
}

func TestDocument_AdoptIntoSameDocument(t *testing.T) {
	impl := newCountingImpl()
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	el, _ := doc.CreateElement("x-counter")

	if err := doc.Adopt(context.Background(), el); err == nil {
		t.Fatal("Adopt into the element's own document must be rejected")
	}
}

func TestDocument_FailureChannel(t *testing.T) {
	implErr := errors.New("init trap")
	impl := newCountingImpl("value")
	impl.connectErr = implErr

	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	var failures []error
	doc := NewDocument(reg, WithFailureHandler(func(err error) {
		failures = append(failures, err)
	}))
	ctx := context.Background()

	el, _ := doc.CreateElement("x-counter")
	if err := doc.Mount(ctx, el); err != nil {
		t.Fatalf("Mount itself should not fail: %v", err)
	}

	if len(failures) != 1 || !errors.Is(failures[0], implErr) {
		t.Fatalf("Implementation error must reach the failure channel unmodified, got %v", failures)
	}

	// Connected failed before producing a handle: mutations stay suppressed.
	el.SetAttribute(ctx, "value", "1")
	if impl.count("attributeChanged") != 0 {
		t.Fatal("No forwarding with an Empty handle")
	}
}

func TestDocument_MountTwiceRejected(t *testing.T) {
	impl := newCountingImpl()
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	ctx := context.Background()
	el, _ := doc.CreateElement("x-counter")

	doc.Mount(ctx, el)
	if err := doc.Mount(ctx, el); err == nil {
		t.Fatal("Mounting a mounted element must be rejected")
	}
	if impl.count("connected") != 1 {
		t.Fatal("Rejected mount must not dispatch")
	}
}

func TestDocument_UnmountWhenUnmountedIsNoop(t *testing.T) {
	impl := newCountingImpl()
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	ctx := context.Background()
	el, _ := doc.CreateElement("x-counter")

	if err := doc.Unmount(ctx, el); err != nil {
		t.Fatalf("Unmount of unmounted element should be a no-op, got %v", err)
	}
	if impl.count("disconnected") != 0 {
		t.Fatal("disconnected fires at most once per connection")
	}
}

func TestElement_RemoveAttributeReported(t *testing.T) {
	impl := newCountingImpl("value")
	reg := NewRegistry()
	mustDefine(t, reg, "x-counter", impl)

	doc := NewDocument(reg)
	ctx := context.Background()
	el, _ := doc.CreateElement("x-counter")
	doc.Mount(ctx, el)

	el.SetAttribute(ctx, "value", "1")
	el.RemoveAttribute(ctx, "value")

	if impl.count("attributeChanged") != 2 {
		t.Fatalf("Expected 2 attributeChanged calls, got %d", impl.count("attributeChanged"))
	}
	if _, ok := el.Attribute("value"); ok {
		t.Fatal("Attribute should be gone")
	}
}
