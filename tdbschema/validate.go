package tdbschema

import "fmt"

// ValidationErrorKind classifies a single validation failure produced by
// walking an instance against its schema (spec §4.1). The actual walk
// lives in package tdbinstance (it needs the Instance/InstanceProperty
// value types); this type is declared here, alongside the schema it
// describes failures against, so both packages share one vocabulary.
type ValidationErrorKind int

const (
	// UnknownProperty: the instance has a property the schema does not declare.
	UnknownProperty ValidationErrorKind = iota
	// MissingProperty: the schema requires a property the instance lacks.
	MissingProperty
	// PropertyTypeMismatch: a property's value does not match its declared class/primitive.
	PropertyTypeMismatch
	// InvalidEnumValue: an enum property's value is not one of the enum's declared values.
	InvalidEnumValue
	// SetCardinalityViolation: a Set-family property's length violates its cardinality.
	SetCardinalityViolation
	// ArrayDimensionMismatch: an Array-family property's shape does not match its declared dimensions.
	ArrayDimensionMismatch
	// TypeFamilyMismatch: a List/Set-family property's value is not list-shaped.
	TypeFamilyMismatch
	// NestedInstanceError: a nested relation instance failed its own validation.
	NestedInstanceError
	// SchemaMismatch: the instance's schema.ClassName() does not match the expected class.
	SchemaMismatch
)

// String returns a stable lowercase name for the kind.
func (k ValidationErrorKind) String() string {
	switch k {
	case UnknownProperty:
		return "unknown_property"
	case MissingProperty:
		return "missing_property"
	case PropertyTypeMismatch:
		return "property_type_mismatch"
	case InvalidEnumValue:
		return "invalid_enum_value"
	case SetCardinalityViolation:
		return "set_cardinality_violation"
	case ArrayDimensionMismatch:
		return "array_dimension_mismatch"
	case TypeFamilyMismatch:
		return "type_family_mismatch"
	case NestedInstanceError:
		return "nested_instance_error"
	case SchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

// ValidationError is a single validation failure, scoped to the class and
// property (if any) it occurred on.
type ValidationError struct {
	Kind     ValidationErrorKind
	Class    string
	Property string // empty when the error is not property-scoped (e.g. SchemaMismatch)
	Detail   string
	Nested   []*ValidationError // populated for NestedInstanceError
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Class, e.Property, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Class, e.Detail)
}

// ValidationErrors aggregates zero or more ValidationError values, as
// yielded by validate_instance (spec §4.1: "yields zero or more errors").
type ValidationErrors []*ValidationError

// Error implements error. It is only meaningful to call when len > 0.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d validation errors, first: %s", len(e), e[0].Error())
}

// OK reports whether there are no validation errors.
func (e ValidationErrors) OK() bool { return len(e) == 0 }
