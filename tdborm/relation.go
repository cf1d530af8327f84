package tdborm

// RelationField names a struct field for the explicit relation forms
// (WithVia, WithField), the Go stand-in for the source's compile-time
// field marker types (e.g. `CarFields::Front`). Domain packages define
// small zero-value types implementing it alongside their models.
type RelationField interface {
	FieldName() string
}

// RelationDirection distinguishes which side of a relation owns the
// pointer (spec §4.5 "Forward vs Reverse Relations").
type RelationDirection int

const (
	// DirectionReverse: the related type R holds a TdbLazy back to the
	// host type (BelongsTo-shaped). Loaded via With/WithVia/WithNested.
	DirectionReverse RelationDirection = iota
	// DirectionForward: the host type itself holds the field pointing
	// at R (HasMany/HasOne-shaped). Loaded via WithField.
	DirectionForward
)

// RelationSpec is one edge of the eager-load tree attached to a query
// (spec §4.5 "RelationSpec"). Field is always the name on whichever side
// owns the pointer: the host's own field for a forward relation, or R's
// back-reference field for a reverse relation.
type RelationSpec struct {
	TargetType string
	Direction  RelationDirection
	Field      string
	Children   []RelationSpec
}

// relationHost is satisfied by every builder a relation can be attached
// to (ModelQuery[T], RelationBuilder[Parent], QueryEntry): it lets
// With/WithVia/WithField/WithNested operate as one set of generic
// functions instead of duplicating them per builder type.
type relationHost interface {
	addRelation(RelationSpec)
	hostClassName() string
	validateOwnField(name string) (string, error)
	addError(error)
}

// RelationBuilder accumulates relations to nest under a parent relation,
// for use inside a WithNested closure (spec §4.5 ".with_nested(|b| ...)").
type RelationBuilder[Parent any] struct {
	class          string
	err            error
	relations      []RelationSpec
	fieldValidator func(string) (string, error)
}

func newRelationBuilder[Parent any]() *RelationBuilder[Parent] {
	class, err := schemaNameOrError[Parent]()
	return &RelationBuilder[Parent]{
		class:          class,
		err:            err,
		fieldValidator: fieldValidatorFor[Parent](),
	}
}

func (b *RelationBuilder[Parent]) addRelation(r RelationSpec) { b.relations = append(b.relations, r) }
func (b *RelationBuilder[Parent]) hostClassName() string      { return b.class }
func (b *RelationBuilder[Parent]) validateOwnField(name string) (string, error) {
	return b.fieldValidator(name)
}
func (b *RelationBuilder[Parent]) addError(err error) {
	if b.err == nil {
		b.err = err
	}
}
