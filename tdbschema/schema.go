// Package tdbschema is the in-memory representation of TerminusDB schema
// values: classes, tagged unions, enums, one-of classes, their properties
// and keys, with a class-name-deduplicated schema tree builder and the
// validation error types used by tdbinstance's instance validation
// (spec.md §3, §4.1).
package tdbschema

// Schema is a closed sum type over the four schema value shapes the server
// accepts: Class, TaggedUnion, Enum and OneOfClass.
type Schema interface {
	isSchema()
	// ClassName returns the schema's @id (invariant 1 in spec §3:
	// every Instance's schema.ClassName() equals the class it claims to
	// be an instance of).
	ClassName() string
}

// Class is a concrete document or subdocument class.
type Class struct {
	ID          string
	Base        *string // optional namespace, preserved verbatim
	Key         Key
	Doc         *string
	Subdocument bool
	Abstract    bool
	Inherits    []string // class ids
	Unfoldable  bool
	Properties  []Property
}

func (Class) isSchema()          {}
func (c Class) ClassName() string { return c.ID }

// TaggedUnion is a sum type whose variants are property names on a wrapper
// class. Each variant's payload schema is generated alongside (see
// TaggedUnion.VariantSchemas in tree.go).
type TaggedUnion struct {
	ID         string
	Base       *string
	Key        Key
	Doc        *string
	Properties []Property // one Property per variant; Property.Class is the variant's payload class
}

func (TaggedUnion) isSchema()          {}
func (u TaggedUnion) ClassName() string { return u.ID }

// Enum is a schema value over a fixed set of named constants.
type Enum struct {
	ID     string
	Values []string
	Doc    *string
}

func (Enum) isSchema()          {}
func (e Enum) ClassName() string { return e.ID }

// OneOfClass is a class that matches when at least one of its variant
// property-sets validates against the instance's properties.
type OneOfClass struct {
	ID       string
	Variants []PropertySet // each element is one acceptable set of properties
}

// PropertySet names one acceptable combination of properties for a
// OneOfClass variant.
type PropertySet struct {
	Properties []Property
}

func (OneOfClass) isSchema()          {}
func (o OneOfClass) ClassName() string { return o.ID }

// PropertyByName returns the Class's property with the given name, and
// whether it was found.
func (c Class) PropertyByName(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// VariantProperty returns the TaggedUnion's property for the given variant
// discriminant, and whether it was found.
func (u TaggedUnion) VariantProperty(variant string) (Property, bool) {
	for _, p := range u.Properties {
		if p.Name == variant {
			return p, true
		}
	}
	return Property{}, false
}

// HasValue reports whether name is one of the Enum's values.
func (e Enum) HasValue(name string) bool {
	for _, v := range e.Values {
		if v == name {
			return true
		}
	}
	return false
}
