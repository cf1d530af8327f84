package tdbschema

// Tree collects schemas by class name, deduplicating as it goes. It is the
// "standard recursion breaker" named in spec §9 ("Cycles in schema
// trees"): recursion into a class's properties only continues when that
// class is not already present, and membership is judged by class name,
// never by Go value/pointer identity (§9: "Do not collect by reference
// equality; collect by class-name equality").
type Tree struct {
	order []Schema
	seen  map[string]bool
}

// NewTree returns an empty schema tree collector.
func NewTree() *Tree {
	return &Tree{seen: make(map[string]bool)}
}

// Has reports whether a schema with the given class name has already been
// collected.
func (t *Tree) Has(className string) bool {
	return t.seen[className]
}

// Add inserts s into the tree if its class name is not already present.
// Returns true if s was newly added.
func (t *Tree) Add(s Schema) bool {
	name := s.ClassName()
	if t.seen[name] {
		return false
	}
	t.seen[name] = true
	t.order = append(t.order, s)
	return true
}

// Schemas returns the collected schemas in insertion order, forming the
// DAG rooted at whichever type began the walk.
func (t *Tree) Schemas() []Schema {
	out := make([]Schema, len(t.order))
	copy(out, t.order)
	return out
}

// TypeConformer is the subset of tdbmodel's Schemer contract tree.go needs:
// a type that knows its own schema and how to recurse into the schemas its
// properties reference. Declared locally (rather than imported from
// tdbmodel) to keep tdbschema free of a dependency on the conformance
// layer; tdbmodel's generic registry satisfies this interface for every
// registered domain type.
type TypeConformer interface {
	SchemaName() string
	ToSchema() Schema
	// ReferencedSchemas returns the TypeConformers for every class a
	// property of this type's schema points to (nested classes, tagged
	// union variant payloads, enum types). Leaf/primitive properties are
	// not represented here.
	ReferencedSchemas() []TypeConformer
}

// BuildTree walks root's schema and all transitively referenced schemas,
// stopping recursion at any class name already in the tree (spec §4.1:
// "to_schema_tree_mut(collection) ... recurses into each property's
// referenced class iff that class is not already in the collection").
func BuildTree(root TypeConformer) *Tree {
	t := NewTree()
	var walk func(tc TypeConformer)
	walk = func(tc TypeConformer) {
		s := tc.ToSchema()
		if !t.Add(s) {
			return
		}
		for _, ref := range tc.ReferencedSchemas() {
			if t.Has(ref.SchemaName()) {
				continue
			}
			walk(ref)
		}
	}
	walk(root)
	return t
}
