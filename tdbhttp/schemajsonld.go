package tdbhttp

import (
	"encoding/json"

	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// orderedObject is a minimal insertion-ordered JSON object marshaler,
// the same small pattern tdbinstance/jsonld.go and woql/jsonld.go each
// keep locally rather than sharing (none of tdbschema's types carry
// json tags, so a schema document needs its own encoder entirely).
type orderedObject struct {
	keys []string
	vals []json.RawMessage
}

func (o *orderedObject) set(key string, val json.RawMessage) *orderedObject {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
	return o
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, o.vals[i]...)
	}
	buf = append(buf, '}')
	return buf, nil
}

func mustMarshalSchema(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

// EncodeSchema renders s as a schema document, spec §6's "JSON-LD
// document form" applied to Class/TaggedUnion/Enum/OneOfClass: every
// node carries "@type"/"@id", used by InsertEntitySchema to PUT a
// schema class onto the server's document/{org}/{db}?graph_type=schema
// endpoint.
func EncodeSchema(s tdbschema.Schema) json.RawMessage {
	switch v := s.(type) {
	case tdbschema.Class:
		return encodeClass(v)
	case tdbschema.TaggedUnion:
		return encodeTaggedUnion(v)
	case tdbschema.Enum:
		return encodeEnum(v)
	case tdbschema.OneOfClass:
		return encodeOneOfClass(v)
	default:
		return json.RawMessage("null")
	}
}

func encodeClass(c tdbschema.Class) json.RawMessage {
	obj := &orderedObject{}
	obj.set("@type", mustMarshalSchema("Class"))
	obj.set("@id", mustMarshalSchema(c.ID))
	if c.Base != nil {
		obj.set("@base", mustMarshalSchema(*c.Base))
	}
	if c.Doc != nil {
		obj.set("@documentation", mustMarshalSchema(*c.Doc))
	}
	if c.Abstract {
		obj.set("@abstract", json.RawMessage("[]"))
	}
	if c.Subdocument {
		obj.set("@subdocument", json.RawMessage("[]"))
	}
	if c.Unfoldable {
		obj.set("@unfoldable", json.RawMessage("[]"))
	}
	if len(c.Inherits) > 0 {
		obj.set("@inherits", mustMarshalSchema(c.Inherits))
	}
	obj.set("@key", encodeKey(c.Key))
	for _, p := range c.Properties {
		obj.set(p.Name, encodeProperty(p))
	}
	return mustMarshalSchema(obj)
}

func encodeTaggedUnion(u tdbschema.TaggedUnion) json.RawMessage {
	obj := &orderedObject{}
	obj.set("@type", mustMarshalSchema("TaggedUnion"))
	obj.set("@id", mustMarshalSchema(u.ID))
	if u.Base != nil {
		obj.set("@base", mustMarshalSchema(*u.Base))
	}
	if u.Doc != nil {
		obj.set("@documentation", mustMarshalSchema(*u.Doc))
	}
	obj.set("@key", encodeKey(u.Key))
	for _, p := range u.Properties {
		obj.set(p.Name, encodeProperty(p))
	}
	return mustMarshalSchema(obj)
}

func encodeEnum(e tdbschema.Enum) json.RawMessage {
	obj := &orderedObject{}
	obj.set("@type", mustMarshalSchema("Enum"))
	obj.set("@id", mustMarshalSchema(e.ID))
	if e.Doc != nil {
		obj.set("@documentation", mustMarshalSchema(*e.Doc))
	}
	obj.set("@values", mustMarshalSchema(e.Values))
	return mustMarshalSchema(obj)
}

func encodeOneOfClass(o tdbschema.OneOfClass) json.RawMessage {
	obj := &orderedObject{}
	obj.set("@type", mustMarshalSchema("OneOfClass"))
	obj.set("@id", mustMarshalSchema(o.ID))
	variants := make([]*orderedObject, len(o.Variants))
	for i, variant := range o.Variants {
		vobj := &orderedObject{}
		for _, p := range variant.Properties {
			vobj.set(p.Name, encodeProperty(p))
		}
		variants[i] = vobj
	}
	obj.set("@oneOf", mustMarshalSchema(variants))
	return mustMarshalSchema(obj)
}

func encodeKey(k tdbschema.Key) json.RawMessage {
	obj := &orderedObject{}
	switch k.Kind() {
	case tdbschema.KeyRandom:
		obj.set("@type", mustMarshalSchema("Random"))
	case tdbschema.KeyLexical:
		obj.set("@type", mustMarshalSchema("Lexical"))
		obj.set("@fields", mustMarshalSchema(k.Fields()))
	case tdbschema.KeyHash:
		obj.set("@type", mustMarshalSchema("Hash"))
		obj.set("@fields", mustMarshalSchema(k.Fields()))
	case tdbschema.KeyValueHash:
		obj.set("@type", mustMarshalSchema("ValueHash"))
	default:
		obj.set("@type", mustMarshalSchema("Default"))
	}
	return mustMarshalSchema(obj)
}

func encodeProperty(p tdbschema.Property) json.RawMessage {
	if p.TypeFamily == nil {
		return mustMarshalSchema(p.Class)
	}
	obj := &orderedObject{}
	switch p.TypeFamily.Kind() {
	case tdbschema.FamilyOptional:
		obj.set("@type", mustMarshalSchema("Optional"))
		obj.set("@class", mustMarshalSchema(p.Class))
	case tdbschema.FamilyList:
		obj.set("@type", mustMarshalSchema("List"))
		obj.set("@class", mustMarshalSchema(p.Class))
	case tdbschema.FamilySet:
		obj.set("@type", mustMarshalSchema("Set"))
		obj.set("@class", mustMarshalSchema(p.Class))
		if card, ok := p.TypeFamily.(interface {
			Cardinality() tdbschema.SetCardinality
		}); ok {
			obj.set("@cardinality", mustMarshalSchema(card.Cardinality().String()))
		}
	case tdbschema.FamilyArray:
		obj.set("@type", mustMarshalSchema("Array"))
		obj.set("@class", mustMarshalSchema(p.Class))
		if dims, ok := p.TypeFamily.(interface{ Dimensions() []int }); ok {
			obj.set("@dimensions", mustMarshalSchema(dims.Dimensions()))
		}
	}
	return mustMarshalSchema(obj)
}
