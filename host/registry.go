package host

import (
	"strings"

	"github.com/loomui/celbridge/bridge"
	"github.com/loomui/celbridge/errors"
)

// Registry maps tag names to element classes, the analog of the host
// runtime's custom-element registry.
type Registry struct {
	classes map[string]*registration
}

type registration struct {
	class *bridge.Class

	// observed is the class's attribute list read once at definition
	// time, indexed for mutation filtering.
	observed map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*registration),
	}
}

// Define registers class under tag. Custom-element tags must contain a
// hyphen; a tag can be defined only once.
//
// The class's observed-attribute list is read here, before any instance
// exists, and determines which attribute mutations documents report for
// elements of this tag.
func (r *Registry) Define(tag string, class *bridge.Class) error {
	if !strings.Contains(tag, "-") {
		return errors.InvalidInput(errors.PhaseRegister, "custom element tag must contain a hyphen")
	}
	if class == nil {
		return errors.InvalidInput(errors.PhaseRegister, "class is nil")
	}
	if _, exists := r.classes[tag]; exists {
		return errors.DuplicateTag(tag)
	}

	observed := make(map[string]struct{})
	for _, name := range class.ObservedAttributes() {
		observed[name] = struct{}{}
	}

	r.classes[tag] = &registration{
		class:    class,
		observed: observed,
	}
	return nil
}

// Lookup returns the class registered under tag.
func (r *Registry) Lookup(tag string) (*bridge.Class, bool) {
	reg, ok := r.classes[tag]
	if !ok {
		return nil, false
	}
	return reg.class, true
}

// Tags returns the registered tag names, unordered.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.classes))
	for tag := range r.classes {
		tags = append(tags, tag)
	}
	return tags
}

func (r *Registry) lookup(tag string) (*registration, bool) {
	reg, ok := r.classes[tag]
	return reg, ok
}
