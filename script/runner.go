package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loomui/celbridge/errors"
	"github.com/loomui/celbridge/host"
)

// StepResult records one executed step.
type StepResult struct {
	Index   int
	Op      string
	Element string

	// Failures are Implementation errors the document's failure channel
	// received while this step dispatched, unmodified.
	Failures []error
}

// Trace is the record of one scenario run.
type Trace struct {
	Scenario string
	Steps    []StepResult
}

// FailureCount returns the total number of lifecycle failures in the run.
func (t *Trace) FailureCount() int {
	n := 0
	for _, s := range t.Steps {
		n += len(s.Failures)
	}
	return n
}

// Runner executes scenarios against documents built from one registry.
type Runner struct {
	registry *host.Registry
	logger   *zap.Logger
}

// NewRunner creates a runner over reg. logger may be nil.
func NewRunner(reg *host.Registry, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{registry: reg, logger: logger}
}

// Run executes the scenario on a fresh document. Adopt steps move the
// element into a second document, created on first use, and back again on
// the next adopt of the same element.
//
// Host-contract violations (mounting twice, unknown tag) abort the run;
// Implementation failures do not, they are collected per step in the
// trace, matching the host's unhandled-failure channel semantics.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Trace, error) {
	var pending []error
	collect := host.WithFailureHandler(func(err error) {
		pending = append(pending, err)
	})

	main := host.NewDocument(r.registry, collect, host.WithLogger(r.logger))
	var other *host.Document

	elements := make(map[string]*host.Element)
	docs := make(map[string]*host.Document)

	trace := &Trace{Scenario: sc.Name}

	for i, step := range sc.Steps {
		pending = nil

		switch step.Op {
		case OpCreate:
			el, err := main.CreateElement(sc.Tag)
			if err != nil {
				return trace, err
			}
			elements[step.As] = el
			docs[step.As] = main

		case OpMount:
			el := elements[step.El]
			if err := docs[step.El].Mount(ctx, el); err != nil {
				return trace, err
			}

		case OpUnmount:
			el := elements[step.El]
			if err := docs[step.El].Unmount(ctx, el); err != nil {
				return trace, err
			}

		case OpAdopt:
			if other == nil {
				other = host.NewDocument(r.registry, collect, host.WithLogger(r.logger))
			}
			target := other
			if docs[step.El] == other {
				target = main
			}
			if err := target.Adopt(ctx, elements[step.El]); err != nil {
				return trace, err
			}
			docs[step.El] = target

		case OpSetAttr:
			elements[step.El].SetAttribute(ctx, step.Attr, step.Value)

		case OpRemoveAttr:
			elements[step.El].RemoveAttribute(ctx, step.Attr)

		default:
			return trace, errors.InvalidInput(errors.PhaseScript,
				fmt.Sprintf("step %d: unknown op %q", i+1, step.Op))
		}

		ref := step.El
		if ref == "" {
			ref = step.As
		}
		trace.Steps = append(trace.Steps, StepResult{
			Index:    i + 1,
			Op:       step.Op,
			Element:  ref,
			Failures: pending,
		})

		r.logger.Debug("step executed",
			zap.Int("step", i+1),
			zap.String("op", step.Op),
			zap.Int("failures", len(pending)))
	}

	return trace, nil
}
