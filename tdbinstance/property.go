package tdbinstance

// InstanceProperty is the value held by one property slot of an Instance.
// It is a closed sum type over the five shapes a property's value can
// take (spec §3 "InstanceProperty").
type InstanceProperty interface {
	isInstanceProperty()
	Kind() PropertyKind
}

// PropertyKind tags which InstanceProperty variant a value holds.
type PropertyKind int

const (
	// PropPrimitive holds a single scalar value.
	PropPrimitive PropertyKind = iota
	// PropPrimitives holds a list of scalar values.
	PropPrimitives
	// PropRelation holds a single relation value.
	PropRelation
	// PropRelations holds a list of relation values.
	PropRelations
	// PropAny holds a heterogeneous list of InstanceProperty (rare: enum
	// variants with mixed shapes).
	PropAny
)

// Primitive wraps a single PrimitiveValue.
type Primitive struct{ Value PrimitiveValue }

func (Primitive) isInstanceProperty() {}
func (Primitive) Kind() PropertyKind  { return PropPrimitive }

// Primitives wraps a list of PrimitiveValue.
type Primitives struct{ Values []PrimitiveValue }

func (Primitives) isInstanceProperty() {}
func (Primitives) Kind() PropertyKind  { return PropPrimitives }

// Relation wraps a single RelationValue.
type Relation struct{ Value RelationValue }

func (Relation) isInstanceProperty() {}
func (Relation) Kind() PropertyKind  { return PropRelation }

// Relations wraps a list of RelationValue.
type Relations struct{ Values []RelationValue }

func (Relations) isInstanceProperty() {}
func (Relations) Kind() PropertyKind  { return PropRelations }

// Any wraps a heterogeneous list of InstanceProperty. Used only where a
// single property slot legitimately carries mixed shapes, such as a
// OneOfClass variant mixing a unit and a tuple payload.
type Any struct{ Values []InstanceProperty }

func (Any) isInstanceProperty() {}
func (Any) Kind() PropertyKind  { return PropAny }
