package tdbinstance

import "encoding/json"

// PrimitiveValue is a scalar value carried by an InstanceProperty: the
// leaf of every property tree that isn't a relation (spec §3
// "PrimitiveValue"). It is a closed sum type.
type PrimitiveValue interface {
	isPrimitiveValue()
	// MarshalJSONLD returns the JSON-LD scalar representation of the
	// value (spec §4.2: sys:Unit serializes as null, Null Optional
	// serializes as absent at the property level — handled by the
	// caller, not here).
	MarshalJSONLD() (json.RawMessage, error)
}

// NullValue represents the absence of a value. It is the only legal
// representation of "missing" for an Optional property (invariant 2,
// spec §3).
type NullValue struct{}

func (NullValue) isPrimitiveValue() {}
func (NullValue) MarshalJSONLD() (json.RawMessage, error) { return json.RawMessage("null"), nil }

// BoolValue wraps a boolean scalar.
type BoolValue bool

func (BoolValue) isPrimitiveValue() {}
func (v BoolValue) MarshalJSONLD() (json.RawMessage, error) { return json.Marshal(bool(v)) }

// NumberValue wraps a numeric scalar. It is stored as float64 to cover
// both integer and floating-point xsd types; callers needing exact
// integer round-tripping should prefer json.Number via ObjectValue.
type NumberValue float64

func (NumberValue) isPrimitiveValue() {}
func (v NumberValue) MarshalJSONLD() (json.RawMessage, error) { return json.Marshal(float64(v)) }

// StringValue wraps a string scalar.
type StringValue string

func (StringValue) isPrimitiveValue() {}
func (v StringValue) MarshalJSONLD() (json.RawMessage, error) { return json.Marshal(string(v)) }

// UnitValue represents TerminusDB's sys:Unit type, used for unit enum
// variants. It always serializes as JSON null (spec §4.2 "sys:Unit
// serializes as null").
type UnitValue struct{}

func (UnitValue) isPrimitiveValue() {}
func (UnitValue) MarshalJSONLD() (json.RawMessage, error) { return json.RawMessage("null"), nil }

// ObjectValue wraps an opaque JSON value (object, array, or a scalar that
// needs exact representation, e.g. a json.Number) that passes through
// untouched. Used for xsd types this client has no dedicated scalar for.
type ObjectValue struct{ Raw json.RawMessage }

func (ObjectValue) isPrimitiveValue() {}
func (v ObjectValue) MarshalJSONLD() (json.RawMessage, error) {
	if len(v.Raw) == 0 {
		return json.RawMessage("null"), nil
	}
	return v.Raw, nil
}

// NewObjectValue wraps an arbitrary Go value by marshaling it once at
// construction time.
func NewObjectValue(v any) (ObjectValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return ObjectValue{}, err
	}
	return ObjectValue{Raw: raw}, nil
}
