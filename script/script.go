// Package script runs YAML lifecycle scenarios against a host document.
//
// A scenario declares a tag and a sequence of host events:
//
//	name: counter smoke
//	tag: my-counter
//	steps:
//	  - {op: create, as: a}
//	  - {op: mount, el: a}
//	  - {op: set-attribute, el: a, attr: value, value: "1"}
//	  - {op: adopt, el: a}
//	  - {op: unmount, el: a}
//
// Scenarios drive bridges from the CLI and from tests without hand-writing
// the dispatch sequences.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loomui/celbridge/errors"
)

// Step operations.
const (
	OpCreate     = "create"
	OpMount      = "mount"
	OpUnmount    = "unmount"
	OpAdopt      = "adopt"
	OpSetAttr    = "set-attribute"
	OpRemoveAttr = "remove-attribute"
)

// Scenario is one parsed scenario file.
type Scenario struct {
	Name  string `yaml:"name"`
	Tag   string `yaml:"tag"`
	Steps []Step `yaml:"steps"`
}

// Step is one host event.
type Step struct {
	Op    string `yaml:"op"`
	As    string `yaml:"as,omitempty"`    // create: name for the new element
	El    string `yaml:"el,omitempty"`    // all other ops: element reference
	Attr  string `yaml:"attr,omitempty"`  // set/remove-attribute
	Value string `yaml:"value,omitempty"` // set-attribute
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Script("parse scenario", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Script(fmt.Sprintf("read %s", path), err)
	}
	return Parse(data)
}

func (s *Scenario) validate() error {
	if s.Tag == "" {
		return errors.InvalidInput(errors.PhaseScript, "scenario has no tag")
	}

	defined := make(map[string]bool)
	for i, step := range s.Steps {
		at := func(detail string) error {
			return errors.InvalidInput(errors.PhaseScript,
				fmt.Sprintf("step %d (%s): %s", i+1, step.Op, detail))
		}

		switch step.Op {
		case OpCreate:
			if step.As == "" {
				return at("create needs 'as'")
			}
			if defined[step.As] {
				return at(fmt.Sprintf("element %q already created", step.As))
			}
			defined[step.As] = true

		case OpMount, OpUnmount, OpAdopt:
			if step.El == "" {
				return at("needs 'el'")
			}
			if !defined[step.El] {
				return at(fmt.Sprintf("element %q not created", step.El))
			}

		case OpSetAttr, OpRemoveAttr:
			if step.El == "" {
				return at("needs 'el'")
			}
			if !defined[step.El] {
				return at(fmt.Sprintf("element %q not created", step.El))
			}
			if step.Attr == "" {
				return at("needs 'attr'")
			}

		default:
			return at("unknown op")
		}
	}
	return nil
}
