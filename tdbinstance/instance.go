package tdbinstance

import (
	"fmt"

	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// Properties is an insertion-ordered map of property name to
// InstanceProperty. Serialization determinism (invariant 5, spec §3:
// "order is preserved for serialization determinism") requires a real
// ordered map rather than Go's unordered map[string]T.
type Properties struct {
	order []string
	byKey map[string]InstanceProperty
}

// NewProperties returns an empty ordered property map.
func NewProperties() *Properties {
	return &Properties{byKey: make(map[string]InstanceProperty)}
}

// Set inserts or replaces the value for name. Insertion order is recorded
// only the first time a name is set.
func (p *Properties) Set(name string, value InstanceProperty) {
	if _, ok := p.byKey[name]; !ok {
		p.order = append(p.order, name)
	}
	p.byKey[name] = value
}

// Get returns the value for name and whether it was present.
func (p *Properties) Get(name string) (InstanceProperty, bool) {
	v, ok := p.byKey[name]
	return v, ok
}

// Delete removes name from the map, preserving order of the remaining keys.
func (p *Properties) Delete(name string) {
	if _, ok := p.byKey[name]; !ok {
		return
	}
	delete(p.byKey, name)
	for i, k := range p.order {
		if k == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of properties.
func (p *Properties) Len() int { return len(p.order) }

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Range calls fn for each property in insertion order. Iteration stops
// early if fn returns false.
func (p *Properties) Range(fn func(name string, value InstanceProperty) bool) {
	for _, name := range p.order {
		if !fn(name, p.byKey[name]) {
			return
		}
	}
}

// Instance is a concrete value conforming to a schema class: the in-memory
// representation lifted from a domain value before JSON-LD encoding, or
// produced by decoding a server response (spec §3 "Instance").
type Instance struct {
	Schema     tdbschema.Schema
	ID         *string
	Capture    bool // true triggers server-side @capture emission
	RefProps   bool // true: properties are themselves references, not owned values
	Properties *Properties

	// keyPrefix is assigned by ApplyCapturePrefixes and consumed by callers
	// that need a client-side salt before the server assigns a real id.
	keyPrefix string
}

// NewInstance returns an Instance bound to schema with an empty property map.
func NewInstance(schema tdbschema.Schema) Instance {
	return Instance{Schema: schema, Properties: NewProperties()}
}

// ClassName returns the schema's class id (invariant 1, spec §3).
func (i Instance) ClassName() string {
	if i.Schema == nil {
		return ""
	}
	return i.Schema.ClassName()
}

// CheckCaptureInvariant enforces invariant 4 (spec §3): Capture=true
// implies ID must be absent, and a non-nil ID implies Capture must be
// false. Returns a descriptive error if violated.
func (i Instance) CheckCaptureInvariant() error {
	if i.Capture && i.ID != nil {
		return fmt.Errorf("tdbinstance: %s: capture=true but id is set to %q", i.ClassName(), *i.ID)
	}
	return nil
}
