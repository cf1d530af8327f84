// Package tdbmodel holds the conformance interfaces every domain type
// implements to participate in the schema/instance pipeline (spec §4.1
// contract), plus the generic runtime registry that stands in for the
// source's compile-time type introspection (spec §9 "Generic
// derivation").
//
// A domain type calls Register once (typically from an init func)
// supplying its schema and decode closures, then uses the package-level
// generic helpers (SchemaTreeFor, ToSchemaFor, DecodeFor, FieldOf) and the
// EntityIDFor/TdbLazy types parameterized by itself. Register does not
// make the type implement Schemer or Instancer; a type passed to
// tdbhttp's insert operations implements Instancer itself.
package tdbmodel

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// Schemer names the schema class a domain type lifts to. Register does
// not implement it on the type.
type Schemer interface {
	SchemaName() string
}

// Instancer lifts a value to an Instance tree. It is implemented on the
// domain type itself; tdbhttp's insert operations require it.
type Instancer interface {
	ToInstance() (tdbinstance.Instance, error)
}

// registration is the runtime stand-in for a generated conformance impl:
// one per registered Go type, keyed by reflect.Type.
type registration struct {
	schemaName    string
	toSchema      func() tdbschema.Schema
	referenced    func() []tdbschema.TypeConformer
	fields        []string
	reverseFields map[string]string
	decode        func(tdbinstance.Instance) (any, error)
}

func (r *registration) SchemaName() string         { return r.schemaName }
func (r *registration) ToSchema() tdbschema.Schema { return r.toSchema() }
func (r *registration) ReferencedSchemas() []tdbschema.TypeConformer {
	if r.referenced == nil {
		return nil
	}
	return r.referenced()
}

var registry = struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*registration
	byName map[string]*registration
}{
	byType: make(map[reflect.Type]*registration),
	byName: make(map[string]*registration),
}

// Registration describes how a domain type T participates in the schema
// and instance pipeline. Decode receives a fully-populated Instance and
// must produce a T.
type Registration[T any] struct {
	SchemaName string
	ToSchema   func() tdbschema.Schema
	// Referenced lists the conformance adapters of every class this
	// type's schema refers to, for schema-tree construction (spec §4.1
	// "to_schema_tree_mut"). May be nil for leaf types.
	Referenced func() []tdbschema.TypeConformer
	// Fields lists the domain-level field names T exposes, consulted by
	// FieldOf for the weakened runtime form of the field! macro (spec
	// §9 "Variable macros").
	Fields []string
	// ReverseFields maps a parent class name to the single field on T
	// that holds a TdbLazy back-reference to it, consulted by
	// DefaultReverseField for tdborm's auto-inferred `.With[R]()`
	// reverse relation (spec §4.5 "R::default_field_name()"). Omit an
	// entry when T has no single unambiguous back-reference to that
	// parent; callers then must use the explicit-field form instead.
	ReverseFields map[string]string
	Decode        func(tdbinstance.Instance) (T, error)
}

// Register installs T's conformance registration. Intended to be called
// once per type, typically from an init func alongside the type
// definition — the runtime-builder alternative to compile-time derive
// macros (spec §9).
func Register[T any](reg Registration[T]) {
	var zero T
	key := reflect.TypeOf(&zero).Elem()

	entry := &registration{
		schemaName:    reg.SchemaName,
		toSchema:      reg.ToSchema,
		referenced:    reg.Referenced,
		fields:        reg.Fields,
		reverseFields: reg.ReverseFields,
		decode: func(inst tdbinstance.Instance) (any, error) {
			return reg.Decode(inst)
		},
	}

	registry.mu.Lock()
	registry.byType[key] = entry
	registry.byName[reg.SchemaName] = entry
	registry.mu.Unlock()
}

func lookup[T any]() (*registration, error) {
	var zero T
	key := reflect.TypeOf(&zero).Elem()

	registry.mu.RLock()
	entry, ok := registry.byType[key]
	registry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tdbmodel: %s is not registered (call tdbmodel.Register first)", key)
	}
	return entry, nil
}

// LookupByName returns the conformance adapter registered under a schema
// class name, used by SchemaResolver wiring in tdbinstance.DecodeOptions.
func LookupByName(className string) (tdbschema.TypeConformer, bool) {
	registry.mu.RLock()
	entry, ok := registry.byName[className]
	registry.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return entry, true
}

// SchemaNameFor returns T's registered schema class name.
func SchemaNameFor[T any]() (string, error) {
	entry, err := lookup[T]()
	if err != nil {
		return "", err
	}
	return entry.schemaName, nil
}

// ToSchemaFor returns T's Schema value.
func ToSchemaFor[T any]() (tdbschema.Schema, error) {
	entry, err := lookup[T]()
	if err != nil {
		return nil, err
	}
	return entry.ToSchema(), nil
}

// SchemaTreeFor builds the deduplicated schema tree rooted at T (spec
// §4.1 "to_schema_tree"), reusing tdbschema.BuildTree's class-name
// deduplicating walk.
func SchemaTreeFor[T any]() ([]tdbschema.Schema, error) {
	entry, err := lookup[T]()
	if err != nil {
		return nil, err
	}
	return tdbschema.BuildTree(entry).Schemas(), nil
}

// DecodeFor decodes inst into a T using T's registered Decode closure.
func DecodeFor[T any](inst tdbinstance.Instance) (T, error) {
	var zero T
	entry, err := lookup[T]()
	if err != nil {
		return zero, err
	}
	v, err := entry.decode(inst)
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// DefaultReverseField returns the field on T that back-references
// parentClass, when T registered exactly one (spec §4.5
// "R::default_field_name()"). ok is false when T named no such field, or
// T is unregistered.
func DefaultReverseField[T any](parentClass string) (field string, ok bool) {
	entry, err := lookup[T]()
	if err != nil {
		return "", false
	}
	field, ok = entry.reverseFields[parentClass]
	return field, ok
}

// FieldOf returns name unchanged if T registered it as a field, else an
// error. This is the runtime form of the field! macro's compile-time
// field-existence check (spec §9): weaker than a generated guarantee,
// but it still fails fast on a typo rather than silently sending a bad
// GraphQL/WOQL field name to the server.
func FieldOf[T any](name string) (string, error) {
	entry, err := lookup[T]()
	if err != nil {
		return "", err
	}
	for _, f := range entry.fields {
		if f == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("tdbmodel: %s has no field %q", entry.schemaName, name)
}
