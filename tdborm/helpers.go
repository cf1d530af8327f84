package tdborm

import (
	"encoding/json"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

// schemaNameOrError resolves T's registered schema class name, returning
// the lookup error (rather than panicking) so it can be surfaced lazily
// at Execute — consistent with the rest of the builder's fail-at-execute
// style.
func schemaNameOrError[T any]() (string, error) {
	return tdbmodel.SchemaNameFor[T]()
}

// fieldValidatorFor closes over T so a builder can validate a forward
// relation's field name without itself remaining generic over T after
// construction (mirrors the closure-capture already used throughout
// tdbmodel's registration, rather than reflection over struct tags).
func fieldValidatorFor[T any]() func(string) (string, error) {
	return func(name string) (string, error) {
		return tdbmodel.FieldOf[T](name)
	}
}

// schemaResolverFor adapts tdbmodel's runtime registry to
// tdbinstance.SchemaResolver, the same small adapter tdbhttp/document.go
// keeps locally for the same reason (no shared dependency from tdbmodel
// back onto either caller).
func schemaResolverFor(className string) (tdbschema.Schema, bool) {
	conformer, ok := tdbmodel.LookupByName(className)
	if !ok {
		return nil, false
	}
	return conformer.ToSchema(), true
}

// decodeDoc decodes a raw document into T via its registered schema and
// Decode closure, the same path tdbhttp.GetInstance[T] uses for a single
// document fetch.
func decodeDoc[T any](raw json.RawMessage) (T, error) {
	var zero T
	schema, err := tdbmodel.ToSchemaFor[T]()
	if err != nil {
		return zero, err
	}
	inst, err := tdbinstance.DecodeInstance(schema, raw, tdbinstance.DecodeOptions{Resolve: schemaResolverFor})
	if err != nil {
		return zero, err
	}
	return tdbmodel.DecodeFor[T](inst)
}

// classNameOf reads a raw document's @type, the key OrmResult groups
// fetched documents by.
func classNameOf(raw json.RawMessage) (string, bool) {
	var probe struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Type == "" {
		return "", false
	}
	return probe.Type, true
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
