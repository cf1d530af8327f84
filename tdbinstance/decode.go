package tdbinstance

import (
	"encoding/json"
	"fmt"

	"github.com/terminusdb/terminusdb-go/tdberr"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// SchemaResolver looks up a schema by class name, so the decoder can
// recurse into nested relation/enum/union classes without every caller
// threading the whole schema graph through by hand.
type SchemaResolver func(className string) (tdbschema.Schema, bool)

// PrimitiveDecoder converts a raw JSON value for a property whose class is
// a primitive URI (e.g. "xsd:integer") into a PrimitiveValue. A nil/absent
// raw value (json.RawMessage(nil) or "null") must decode to NullValue.
type PrimitiveDecoder func(classURI string, raw json.RawMessage) (PrimitiveValue, error)

// DefaultPrimitiveDecoder maps the common xsd URIs to PrimitiveValue.
// Unrecognized URIs fall back to ObjectValue, preserving the raw JSON
// rather than failing — a deliberate choice consistent with §7's
// "never swallow ... surface as Deserialization" only applying to shape
// mismatches, not to URIs this client simply has no dedicated mapping for.
func DefaultPrimitiveDecoder(classURI string, raw json.RawMessage) (PrimitiveValue, error) {
	if classURI == "sys:Unit" {
		return UnitValue{}, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return NullValue{}, nil
	}
	switch classURI {
	case "xsd:boolean":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return BoolValue(b), nil
	case "xsd:integer", "xsd:decimal", "xsd:double", "xsd:float",
		"xsd:long", "xsd:int", "xsd:short", "xsd:nonNegativeInteger":
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return NumberValue(n), nil
	case "xsd:string", "xsd:dateTime", "xsd:date", "xsd:anyURI":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return StringValue(s), nil
	default:
		return ObjectValue{Raw: raw}, nil
	}
}

// DecodeOptions configures instance_from_json.
type DecodeOptions struct {
	Resolve   SchemaResolver
	Primitive PrimitiveDecoder // defaults to DefaultPrimitiveDecoder when nil
}

func (o DecodeOptions) primitive() PrimitiveDecoder {
	if o.Primitive != nil {
		return o.Primitive
	}
	return DefaultPrimitiveDecoder
}

// resolve looks up className, treating a nil Resolve (the zero value of
// DecodeOptions) as "nothing resolves to a relation" rather than panicking.
func (o DecodeOptions) resolve(className string) (tdbschema.Schema, bool) {
	if o.Resolve == nil {
		return nil, false
	}
	return o.Resolve(className)
}

// DecodeInstance parses raw as an instance of schema (spec §4.2
// "instance_from_json"). On a class/type mismatch it returns a
// *tdbschema.ValidationError of kind SchemaMismatch; all other
// structural failures are Deserialization errors — never silently
// dropped (§9 open-question decision: "do not reproduce" swallowing).
func DecodeInstance(schema tdbschema.Schema, raw json.RawMessage, opts DecodeOptions) (Instance, error) {
	switch s := schema.(type) {
	case tdbschema.Class:
		return decodeClass(s, raw, opts)
	case tdbschema.TaggedUnion:
		return decodeTaggedUnion(s, raw, opts)
	case tdbschema.Enum:
		return decodeEnum(s, raw, opts)
	case tdbschema.OneOfClass:
		return decodeOneOf(s, raw, opts)
	default:
		return Instance{}, deserErr("instance_from_json", "unsupported schema type %T", schema)
	}
}

func deserErr(op, format string, a ...any) error {
	return tdberr.Newf(tdberr.Deserialization, op, "", format, a...)
}

func schemaMismatch(class, got string) error {
	return &tdbschema.ValidationError{
		Kind:   tdbschema.SchemaMismatch,
		Class:  class,
		Detail: fmt.Sprintf("expected @type %q, got %q", class, got),
	}
}

func decodeClass(s tdbschema.Class, raw json.RawMessage, opts DecodeOptions) (Instance, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: not a JSON object: %v", s.ID, err)
	}
	typ, err := stringField(obj, "@type")
	if err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: missing @type: %v", s.ID, err)
	}
	if typ != s.ID {
		return Instance{}, schemaMismatch(s.ID, typ)
	}

	inst := NewInstance(s)
	if idRaw, ok := obj["@id"]; ok {
		id, err := jsonString(idRaw)
		if err != nil {
			return Instance{}, deserErr("instance_from_json", "%s: @id: %v", s.ID, err)
		}
		inst.ID = &id
	}

	for _, prop := range s.Properties {
		propRaw, present := obj[prop.Name]
		ip, err := decodeProperty(prop, propRaw, present, opts)
		if err != nil {
			return Instance{}, fmt.Errorf("%s.%s: %w", s.ID, prop.Name, err)
		}
		if ip == nil {
			continue
		}
		inst.Properties.Set(prop.Name, ip)
	}
	return inst, nil
}

func decodeProperty(prop tdbschema.Property, raw json.RawMessage, present bool, opts DecodeOptions) (InstanceProperty, error) {
	isOptional := false
	isList := false
	if prop.TypeFamily != nil {
		switch prop.TypeFamily.Kind() {
		case tdbschema.FamilyOptional:
			isOptional = true
		case tdbschema.FamilyList, tdbschema.FamilySet, tdbschema.FamilyArray:
			isList = true
		}
	}
	if !present {
		if isOptional {
			return Primitive{Value: NullValue{}}, nil
		}
		return nil, deserErr("instance_from_json", "missing required property")
	}

	resolvedSchema, isRelation := opts.resolve(prop.Class)
	if isList {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, deserErr("instance_from_json", "expected list-shaped value: %v", err)
		}
		if isRelation {
			values := make([]RelationValue, len(items))
			for i, item := range items {
				rv, err := decodeRelation(resolvedSchema, item, opts)
				if err != nil {
					return nil, err
				}
				values[i] = rv
			}
			return Relations{Values: values}, nil
		}
		values := make([]PrimitiveValue, len(items))
		for i, item := range items {
			pv, err := opts.primitive()(prop.Class, item)
			if err != nil {
				return nil, tdberr.New(tdberr.Deserialization, "instance_from_json", "", err)
			}
			values[i] = pv
		}
		return Primitives{Values: values}, nil
	}

	if isRelation {
		rv, err := decodeRelation(resolvedSchema, raw, opts)
		if err != nil {
			return nil, err
		}
		return Relation{Value: rv}, nil
	}
	pv, err := opts.primitive()(prop.Class, raw)
	if err != nil {
		return nil, tdberr.New(tdberr.Deserialization, "instance_from_json", "", err)
	}
	return Primitive{Value: pv}, nil
}

func decodeRelation(target tdbschema.Schema, raw json.RawMessage, opts DecodeOptions) (RelationValue, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		if refRaw, ok := probe["@ref"]; ok {
			ref, err := jsonString(refRaw)
			if err != nil {
				return nil, deserErr("instance_from_json", "@ref: %v", err)
			}
			return ExternalReference{IRI: ref}, nil
		}
	}
	inst, err := DecodeInstance(target, raw, opts)
	if err != nil {
		return nil, err
	}
	return One{Instance: inst}, nil
}

func decodeEnum(s tdbschema.Enum, raw json.RawMessage, opts DecodeOptions) (Instance, error) {
	// Bare string form: a string directly naming the variant (spec §4.2:
	// "For enums, also accepts a bare string matching a variant name").
	if bare, err := jsonString(raw); err == nil {
		if !s.HasValue(bare) {
			return Instance{}, deserErr("instance_from_json", "%s: %q is not a valid enum value", s.ID, bare)
		}
		inst := NewInstance(s)
		inst.Properties.Set(bare, Primitive{Value: UnitValue{}})
		return inst, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: not a string or object: %v", s.ID, err)
	}
	typ, err := stringField(obj, "@type")
	if err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: missing @type: %v", s.ID, err)
	}
	if typ != s.ID {
		return Instance{}, schemaMismatch(s.ID, typ)
	}
	for key := range obj {
		if key == "@type" {
			continue
		}
		if !s.HasValue(key) {
			return Instance{}, deserErr("instance_from_json", "%s: %q is not a valid enum value", s.ID, key)
		}
		inst := NewInstance(s)
		inst.Properties.Set(key, Primitive{Value: UnitValue{}})
		return inst, nil
	}
	return Instance{}, deserErr("instance_from_json", "%s: no variant key present", s.ID)
}

func decodeTaggedUnion(u tdbschema.TaggedUnion, raw json.RawMessage, opts DecodeOptions) (Instance, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: not a JSON object: %v", u.ID, err)
	}
	typ, err := stringField(obj, "@type")
	if err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: missing @type: %v", u.ID, err)
	}

	if typ != u.ID {
		// Variant-direct form: @type names the variant's own payload
		// class. Rewrite into canonical union form before dispatching
		// (spec §4.2 / §9 "Tagged unions with variant payloads").
		for _, prop := range u.Properties {
			if prop.Class == typ {
				rewritten := map[string]json.RawMessage{"@type": mustMarshal(u.ID), prop.Name: raw}
				rewrittenRaw, mErr := json.Marshal(rewritten)
				if mErr != nil {
					return Instance{}, deserErr("instance_from_json", "%s: rewrite variant-direct form: %v", u.ID, mErr)
				}
				return decodeTaggedUnion(u, rewrittenRaw, opts)
			}
		}
		return Instance{}, schemaMismatch(u.ID, typ)
	}

	inst := NewInstance(u)
	for _, prop := range u.Properties {
		propRaw, present := obj[prop.Name]
		if !present {
			continue
		}
		ip, err := decodeProperty(prop, propRaw, present, opts)
		if err != nil {
			return Instance{}, fmt.Errorf("%s.%s: %w", u.ID, prop.Name, err)
		}
		inst.Properties.Set(prop.Name, ip)
		return inst, nil // invariant 6: exactly one properties entry
	}
	return Instance{}, deserErr("instance_from_json", "%s: no variant key present", u.ID)
}

func decodeOneOf(o tdbschema.OneOfClass, raw json.RawMessage, opts DecodeOptions) (Instance, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Instance{}, deserErr("instance_from_json", "%s: not a JSON object: %v", o.ID, err)
	}
	var lastErr error
	for _, variant := range o.Variants {
		candidate := tdbschema.Class{ID: o.ID, Properties: variant.Properties}
		inst, err := decodeClass(candidate, raw, opts)
		if err == nil {
			return inst, nil
		}
		lastErr = err
	}
	return Instance{}, deserErr("instance_from_json", "%s: no variant matched: %v", o.ID, lastErr)
}

func stringField(obj map[string]json.RawMessage, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	return jsonString(raw)
}

func jsonString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}
