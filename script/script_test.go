package script

import (
	"context"
	"errors"
	"testing"

	celbridge "github.com/loomui/celbridge"
	"github.com/loomui/celbridge/bridge"
	celerrors "github.com/loomui/celbridge/errors"
	"github.com/loomui/celbridge/handle"
	"github.com/loomui/celbridge/host"
)

const counterScenario = `
name: counter smoke
tag: my-counter
steps:
  - {op: create, as: a}
  - {op: mount, el: a}
  - {op: set-attribute, el: a, attr: value, value: "1"}
  - {op: adopt, el: a}
  - {op: unmount, el: a}
  - {op: set-attribute, el: a, attr: value, value: "2"}
`

type scriptImpl struct {
	table      *handle.Table[string]
	ops        []string
	connectErr error
}

func newScriptImpl() *scriptImpl {
	return &scriptImpl{table: handle.NewTable[string]()}
}

func (s *scriptImpl) ObservedAttributes() []string { return []string{"value"} }

func (s *scriptImpl) Connected(_ context.Context, el celbridge.Element) (handle.Handle, error) {
	if s.connectErr != nil {
		return handle.Empty, s.connectErr
	}
	s.ops = append(s.ops, "connected")
	return s.table.Insert(el.ID()), nil
}

func (s *scriptImpl) Disconnected(_ context.Context, _ celbridge.Element, h handle.Handle) error {
	s.ops = append(s.ops, "disconnected")
	s.table.Remove(h)
	return nil
}

func (s *scriptImpl) Adopted(_ context.Context, _ celbridge.Element) error {
	s.ops = append(s.ops, "adopted")
	return nil
}

func (s *scriptImpl) AttributeChanged(_ context.Context, _ celbridge.Element, _ handle.Handle) error {
	s.ops = append(s.ops, "attributeChanged")
	return nil
}

func newRegistry(t *testing.T, impl celbridge.Implementation) *host.Registry {
	t.Helper()
	class, err := bridge.Define(impl)
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	reg := host.NewRegistry()
	if err := reg.Define("my-counter", class); err != nil {
		t.Fatalf("registry Define failed: %v", err)
	}
	return reg
}

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(counterScenario))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sc.Name != "counter smoke" || sc.Tag != "my-counter" {
		t.Fatalf("Unexpected header: %+v", sc)
	}
	if len(sc.Steps) != 6 {
		t.Fatalf("Expected 6 steps, got %d", len(sc.Steps))
	}
	if sc.Steps[2].Attr != "value" || sc.Steps[2].Value != "1" {
		t.Fatalf("Step 3 not parsed: %+v", sc.Steps[2])
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no tag", "steps:\n  - {op: create, as: a}\n"},
		{"unknown op", "tag: x-a\nsteps:\n  - {op: explode, el: a}\n"},
		{"mount before create", "tag: x-a\nsteps:\n  - {op: mount, el: a}\n"},
		{"create without as", "tag: x-a\nsteps:\n  - {op: create}\n"},
		{"set-attribute without attr", "tag: x-a\nsteps:\n  - {op: create, as: a}\n  - {op: set-attribute, el: a}\n"},
		{"duplicate create", "tag: x-a\nsteps:\n  - {op: create, as: a}\n  - {op: create, as: a}\n"},
		{"not yaml", ":::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("Expected parse/validate error")
			}
		})
	}
}

func TestRunner_CounterScenario(t *testing.T) {
	impl := newScriptImpl()
	runner := NewRunner(newRegistry(t, impl), nil)

	sc, err := Parse([]byte(counterScenario))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	trace, err := runner.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(trace.Steps) != 6 {
		t.Fatalf("Expected 6 step results, got %d", len(trace.Steps))
	}
	if trace.FailureCount() != 0 {
		t.Fatalf("Expected no failures, got %d", trace.FailureCount())
	}

	// The unmounted mutation in the last step must not have been forwarded.
	want := []string{"connected", "attributeChanged", "adopted", "disconnected"}
	if len(impl.ops) != len(want) {
		t.Fatalf("Expected ops %v, got %v", want, impl.ops)
	}
	for i := range want {
		if impl.ops[i] != want[i] {
			t.Fatalf("Expected ops %v, got %v", want, impl.ops)
		}
	}

	if impl.table.Len() != 0 {
		t.Fatalf("Implementation state leaked: %d live handles", impl.table.Len())
	}
}

func TestRunner_CollectsFailures(t *testing.T) {
	impl := newScriptImpl()
	impl.connectErr = errors.New("init trap")
	runner := NewRunner(newRegistry(t, impl), nil)

	sc, _ := Parse([]byte("tag: my-counter\nsteps:\n  - {op: create, as: a}\n  - {op: mount, el: a}\n"))
	trace, err := runner.Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if trace.FailureCount() != 1 {
		t.Fatalf("Expected 1 collected failure, got %d", trace.FailureCount())
	}
	mount := trace.Steps[1]
	if len(mount.Failures) != 1 || !errors.Is(mount.Failures[0], impl.connectErr) {
		t.Fatalf("Failure must be attached to the mount step unmodified, got %+v", mount)
	}
}

func TestRunner_UnknownTagAborts(t *testing.T) {
	runner := NewRunner(host.NewRegistry(), nil)
	sc, _ := Parse([]byte("tag: x-unknown\nsteps:\n  - {op: create, as: a}\n"))

	_, err := runner.Run(context.Background(), sc)
	if !errors.Is(err, celerrors.NotRegistered("x-unknown")) {
		t.Fatalf("Expected not_registered, got %v", err)
	}
}

func TestRunner_AdoptMovesBackAndForth(t *testing.T) {
	impl := newScriptImpl()
	runner := NewRunner(newRegistry(t, impl), nil)

	sc, err := Parse([]byte(`
tag: my-counter
steps:
  - {op: create, as: a}
  - {op: mount, el: a}
  - {op: adopt, el: a}
  - {op: adopt, el: a}
  - {op: unmount, el: a}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, err := runner.Run(context.Background(), sc); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	adopted := 0
	for _, op := range impl.ops {
		if op == "adopted" {
			adopted++
		}
	}
	if adopted != 2 {
		t.Fatalf("Expected 2 adopted calls, got %d", adopted)
	}
}
