package tdbinstance

import (
	"fmt"

	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// ValidateInstance walks inst against its own schema and every nested
// relation instance, yielding zero or more ValidationError values (spec
// §4.1 "validate_instance(instance, schema)"). It does not stop at the
// first failure: every property slot is checked so a caller sees the full
// set of problems in one pass.
func ValidateInstance(inst Instance) tdbschema.ValidationErrors {
	var errs tdbschema.ValidationErrors
	validate(inst, &errs)
	return errs
}

func validate(inst Instance, errs *tdbschema.ValidationErrors) {
	switch s := inst.Schema.(type) {
	case tdbschema.Class:
		validateClass(inst, s, errs)
	case tdbschema.TaggedUnion:
		validateTaggedUnion(inst, s, errs)
	case tdbschema.Enum:
		validateEnum(inst, s, errs)
	case tdbschema.OneOfClass:
		validateOneOf(inst, s, errs)
	default:
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:   tdbschema.SchemaMismatch,
			Class:  inst.ClassName(),
			Detail: fmt.Sprintf("unsupported schema type %T", inst.Schema),
		})
	}
}

func validateClass(inst Instance, s tdbschema.Class, errs *tdbschema.ValidationErrors) {
	declared := make(map[string]tdbschema.Property, len(s.Properties))
	for _, p := range s.Properties {
		declared[p.Name] = p
	}

	for _, name := range inst.Properties.Names() {
		if _, ok := declared[name]; !ok {
			*errs = append(*errs, &tdbschema.ValidationError{
				Kind:     tdbschema.UnknownProperty,
				Class:    s.ID,
				Property: name,
				Detail:   "instance declares a property the schema does not have",
			})
		}
	}

	for _, prop := range s.Properties {
		value, present := inst.Properties.Get(prop.Name)
		optional := prop.TypeFamily != nil && prop.TypeFamily.Kind() == tdbschema.FamilyOptional
		if !present {
			if optional {
				continue
			}
			*errs = append(*errs, &tdbschema.ValidationError{
				Kind:     tdbschema.MissingProperty,
				Class:    s.ID,
				Property: prop.Name,
				Detail:   "required property is absent",
			})
			continue
		}
		validateProperty(s.ID, prop, value, errs)
	}
}

func validateProperty(class string, prop tdbschema.Property, value InstanceProperty, errs *tdbschema.ValidationErrors) {
	isList := prop.TypeFamily != nil && (prop.TypeFamily.Kind() == tdbschema.FamilyList ||
		prop.TypeFamily.Kind() == tdbschema.FamilySet || prop.TypeFamily.Kind() == tdbschema.FamilyArray)

	switch v := value.(type) {
	case Primitive:
		if isList {
			typeFamilyMismatch(class, prop.Name, "scalar Primitive but a list-family property", errs)
		}
	case Relation:
		if isList {
			typeFamilyMismatch(class, prop.Name, "scalar Relation but a list-family property", errs)
		}
		validateRelationValue(class, prop.Name, v.Value, errs)
	case Primitives:
		if !isList {
			typeFamilyMismatch(class, prop.Name, "list Primitives but a scalar property", errs)
		}
		checkFamilyShape(class, prop, len(v.Values), errs)
	case Relations:
		if !isList {
			typeFamilyMismatch(class, prop.Name, "list Relations but a scalar property", errs)
		}
		checkFamilyShape(class, prop, len(v.Values), errs)
		for _, rv := range v.Values {
			validateRelationValue(class, prop.Name, rv, errs)
		}
	case Any:
		// Mixed-shape slot (e.g. OneOfClass variant payload); nothing
		// further to check generically.
	default:
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:     tdbschema.PropertyTypeMismatch,
			Class:    class,
			Property: prop.Name,
			Detail:   fmt.Sprintf("unknown InstanceProperty variant %T", value),
		})
	}
}

func checkFamilyShape(class string, prop tdbschema.Property, n int, errs *tdbschema.ValidationErrors) {
	switch fam := prop.TypeFamily.(type) {
	case interface{ Cardinality() tdbschema.SetCardinality }:
		if !fam.Cardinality().Allows(n) {
			*errs = append(*errs, &tdbschema.ValidationError{
				Kind:     tdbschema.SetCardinalityViolation,
				Class:    class,
				Property: prop.Name,
				Detail:   fmt.Sprintf("%d elements do not satisfy cardinality %s", n, fam.Cardinality()),
			})
		}
	case interface{ Dimensions() []int }:
		want := 1
		for _, d := range fam.Dimensions() {
			want *= d
		}
		if len(fam.Dimensions()) > 0 && n != want {
			*errs = append(*errs, &tdbschema.ValidationError{
				Kind:     tdbschema.ArrayDimensionMismatch,
				Class:    class,
				Property: prop.Name,
				Detail:   fmt.Sprintf("%d elements do not match declared dimensions %v", n, fam.Dimensions()),
			})
		}
	}
}

func typeFamilyMismatch(class, property, detail string, errs *tdbschema.ValidationErrors) {
	*errs = append(*errs, &tdbschema.ValidationError{
		Kind:     tdbschema.TypeFamilyMismatch,
		Class:    class,
		Property: property,
		Detail:   detail,
	})
}

func validateRelationValue(class, property string, rv RelationValue, errs *tdbschema.ValidationErrors) {
	switch v := rv.(type) {
	case One:
		nested := ValidateInstance(v.Instance)
		if !nested.OK() {
			*errs = append(*errs, &tdbschema.ValidationError{
				Kind:     tdbschema.NestedInstanceError,
				Class:    class,
				Property: property,
				Detail:   "nested instance failed validation",
				Nested:   nested,
			})
		}
	case More:
		for _, n := range v.Instances {
			validateRelationValue(class, property, One{Instance: n}, errs)
		}
	case ExternalReference, ExternalReferences, TransactionRef, TransactionRefs:
		// References point outside this document; nothing local to walk.
	}
}

func validateTaggedUnion(inst Instance, u tdbschema.TaggedUnion, errs *tdbschema.ValidationErrors) {
	if inst.Properties.Len() != 1 {
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:   tdbschema.PropertyTypeMismatch,
			Class:  u.ID,
			Detail: fmt.Sprintf("tagged union must set exactly one property, got %d", inst.Properties.Len()),
		})
		return
	}
	name := inst.Properties.Names()[0]
	prop, ok := u.VariantProperty(name)
	if !ok {
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:     tdbschema.UnknownProperty,
			Class:    u.ID,
			Property: name,
			Detail:   "not a declared variant of this union",
		})
		return
	}
	value, _ := inst.Properties.Get(name)
	validateProperty(u.ID, prop, value, errs)
}

func validateEnum(inst Instance, e tdbschema.Enum, errs *tdbschema.ValidationErrors) {
	if inst.Properties.Len() != 1 {
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:   tdbschema.PropertyTypeMismatch,
			Class:  e.ID,
			Detail: fmt.Sprintf("enum instance must set exactly one value, got %d", inst.Properties.Len()),
		})
		return
	}
	name := inst.Properties.Names()[0]
	if !e.HasValue(name) {
		*errs = append(*errs, &tdbschema.ValidationError{
			Kind:     tdbschema.InvalidEnumValue,
			Class:    e.ID,
			Property: name,
			Detail:   "not a declared enum value",
		})
	}
}

func validateOneOf(inst Instance, o tdbschema.OneOfClass, errs *tdbschema.ValidationErrors) {
	names := make(map[string]bool, inst.Properties.Len())
	for _, n := range inst.Properties.Names() {
		names[n] = true
	}
	for _, variant := range o.Variants {
		matches := true
		for _, p := range variant.Properties {
			if !names[p.Name] {
				matches = false
				break
			}
		}
		if matches && len(variant.Properties) == len(names) {
			var variantErrs tdbschema.ValidationErrors
			validateClass(inst, tdbschema.Class{ID: o.ID, Properties: variant.Properties}, &variantErrs)
			if variantErrs.OK() {
				return
			}
		}
	}
	*errs = append(*errs, &tdbschema.ValidationError{
		Kind:   tdbschema.SchemaMismatch,
		Class:  o.ID,
		Detail: "no declared variant matches the instance's properties",
	})
}
