package tdbschema

import "fmt"

// Property is a single field of a Class or TaggedUnion: a name, the URI or
// class id it holds values of, and an optional TypeFamily describing the
// collection shape (spec §3 "Property").
type Property struct {
	Name       string
	Class      string // primitive URI ("xsd:integer") or a schema class id
	TypeFamily TypeFamily // nil means a bare scalar/relation, no wrapping family
}

// TypeFamily distinguishes the collection shape a Property's values take:
// optional scalar, ordered list, unordered set (with a cardinality
// constraint), or fixed-dimension array. TypeFamily is a closed sum type.
type TypeFamily interface {
	isTypeFamily()
	Kind() TypeFamilyKind
}

// TypeFamilyKind tags which TypeFamily variant a value holds.
type TypeFamilyKind int

const (
	// FamilyOptional marks the property as optional (may be absent).
	FamilyOptional TypeFamilyKind = iota
	// FamilyList marks the property as an ordered list (duplicates allowed).
	FamilyList
	// FamilySet marks the property as an unordered set with a cardinality bound.
	FamilySet
	// FamilyArray marks the property as a multi-dimensional fixed-shape array.
	FamilyArray
)

type optionalFamily struct{}

func (optionalFamily) isTypeFamily()        {}
func (optionalFamily) Kind() TypeFamilyKind { return FamilyOptional }

// Optional returns a TypeFamily marking a property as optional.
func Optional() TypeFamily { return optionalFamily{} }

type listFamily struct{}

func (listFamily) isTypeFamily()        {}
func (listFamily) Kind() TypeFamilyKind { return FamilyList }

// List returns a TypeFamily marking a property as an ordered list.
func List() TypeFamily { return listFamily{} }

type setFamily struct{ cardinality SetCardinality }

func (setFamily) isTypeFamily()              {}
func (setFamily) Kind() TypeFamilyKind       { return FamilySet }
func (f setFamily) Cardinality() SetCardinality { return f.cardinality }

// Set returns a TypeFamily marking a property as an unordered set with the
// given cardinality bound.
func Set(cardinality SetCardinality) TypeFamily { return setFamily{cardinality: cardinality} }

type arrayFamily struct{ dimensions []int }

func (arrayFamily) isTypeFamily()          {}
func (arrayFamily) Kind() TypeFamilyKind   { return FamilyArray }
func (f arrayFamily) Dimensions() []int    { return f.dimensions }

// Array returns a TypeFamily marking a property as a fixed-dimension array.
func Array(dimensions ...int) TypeFamily { return arrayFamily{dimensions: dimensions} }

// SetCardinality bounds the length of a Set-family property's value.
// SetCardinality is a closed sum type.
type SetCardinality interface {
	isSetCardinality()
	// Allows reports whether n elements satisfy the cardinality bound.
	Allows(n int) bool
	String() string
}

type cardNone struct{}

func (cardNone) isSetCardinality()  {}
func (cardNone) Allows(int) bool    { return true }
func (cardNone) String() string     { return "none" }

// NoCardinality returns a SetCardinality with no bound.
func NoCardinality() SetCardinality { return cardNone{} }

type cardExact struct{ n int }

func (cardExact) isSetCardinality() {}
func (c cardExact) Allows(n int) bool { return n == c.n }
func (c cardExact) String() string  { return fmt.Sprintf("exact(%d)", c.n) }

// ExactCardinality returns a SetCardinality requiring exactly n elements.
func ExactCardinality(n int) SetCardinality { return cardExact{n: n} }

type cardMin struct{ n int }

func (cardMin) isSetCardinality()  {}
func (c cardMin) Allows(n int) bool { return n >= c.n }
func (c cardMin) String() string   { return fmt.Sprintf("min(%d)", c.n) }

// MinCardinality returns a SetCardinality requiring at least n elements.
func MinCardinality(n int) SetCardinality { return cardMin{n: n} }

type cardMax struct{ n int }

func (cardMax) isSetCardinality()  {}
func (c cardMax) Allows(n int) bool { return n <= c.n }
func (c cardMax) String() string   { return fmt.Sprintf("max(%d)", c.n) }

// MaxCardinality returns a SetCardinality requiring at most n elements.
func MaxCardinality(n int) SetCardinality { return cardMax{n: n} }

type cardRange struct{ min, max int }

func (cardRange) isSetCardinality()  {}
func (c cardRange) Allows(n int) bool { return n >= c.min && n <= c.max }
func (c cardRange) String() string   { return fmt.Sprintf("range(%d,%d)", c.min, c.max) }

// RangeCardinality returns a SetCardinality requiring between min and max
// elements, inclusive.
func RangeCardinality(min, max int) SetCardinality { return cardRange{min: min, max: max} }
