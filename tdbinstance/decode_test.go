package tdbinstance_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

func resolverFor(schemas ...tdbschema.Schema) tdbinstance.SchemaResolver {
	byName := make(map[string]tdbschema.Schema, len(schemas))
	for _, s := range schemas {
		byName[s.ClassName()] = s
	}
	return func(className string) (tdbschema.Schema, bool) {
		s, ok := byName[className]
		return s, ok
	}
}

func TestDecodeInstanceRoundTrip(t *testing.T) {
	t.Parallel()

	person := personClass()
	opts := tdbinstance.DecodeOptions{Resolve: resolverFor(person)}

	friend := tdbinstance.NewInstance(person)
	friend.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Grace")})
	friend.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	friend.Properties.Set("friends", tdbinstance.Relations{})

	inst := tdbinstance.NewInstance(person)
	id := "Person/ada"
	inst.ID = &id
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: friend},
	}})

	raw, err := tdbinstance.EncodeInstance(inst, &tdbinstance.CaptureCounter{})
	require.NoError(t, err)

	decoded, err := tdbinstance.DecodeInstance(person, raw, opts)
	require.NoError(t, err)
	assert.Equal(t, "Person", decoded.ClassName())
	require.NotNil(t, decoded.ID)
	assert.Equal(t, "Person/ada", *decoded.ID)

	name, ok := decoded.Properties.Get("name")
	require.True(t, ok)
	assert.Equal(t, tdbinstance.StringValue("Ada"), name.(tdbinstance.Primitive).Value)

	friends, ok := decoded.Properties.Get("friends")
	require.True(t, ok)
	rels := friends.(tdbinstance.Relations)
	require.Len(t, rels.Values, 1)
	one := rels.Values[0].(tdbinstance.One)
	gname, _ := one.Instance.Properties.Get("name")
	assert.Equal(t, tdbinstance.StringValue("Grace"), gname.(tdbinstance.Primitive).Value)
}

func TestDecodeInstanceSchemaMismatch(t *testing.T) {
	t.Parallel()

	person := personClass()
	raw := json.RawMessage(`{"@type":"Animal","name":"Rex"}`)
	_, err := tdbinstance.DecodeInstance(person, raw, tdbinstance.DecodeOptions{Resolve: resolverFor(person)})
	require.Error(t, err)

	var verr *tdbschema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, tdbschema.SchemaMismatch, verr.Kind)
}

func TestDecodeEnumBareString(t *testing.T) {
	t.Parallel()

	color := tdbschema.Enum{ID: "Color", Values: []string{"Red", "Green", "Blue"}}
	raw := json.RawMessage(`"Green"`)
	inst, err := tdbinstance.DecodeInstance(color, raw, tdbinstance.DecodeOptions{})
	require.NoError(t, err)
	_, ok := inst.Properties.Get("Green")
	assert.True(t, ok)
}

func TestDecodeEnumRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	color := tdbschema.Enum{ID: "Color", Values: []string{"Red"}}
	raw := json.RawMessage(`"Purple"`)
	_, err := tdbinstance.DecodeInstance(color, raw, tdbinstance.DecodeOptions{})
	assert.Error(t, err)
}

func taggedShapeUnion() tdbschema.TaggedUnion {
	return tdbschema.TaggedUnion{
		ID: "Shape",
		Properties: []tdbschema.Property{
			{Name: "circle", Class: "Circle"},
			{Name: "square", Class: "Square"},
		},
	}
}

func circleClass() tdbschema.Class {
	return tdbschema.Class{ID: "Circle", Properties: []tdbschema.Property{
		{Name: "radius", Class: "xsd:decimal"},
	}}
}

func squareClass() tdbschema.Class {
	return tdbschema.Class{ID: "Square", Properties: []tdbschema.Property{
		{Name: "side", Class: "xsd:decimal"},
	}}
}

func TestDecodeTaggedUnionCanonicalForm(t *testing.T) {
	t.Parallel()

	union := taggedShapeUnion()
	opts := tdbinstance.DecodeOptions{Resolve: resolverFor(circleClass(), squareClass())}
	raw := json.RawMessage(`{"@type":"Shape","circle":{"@type":"Circle","radius":2.5}}`)

	inst, err := tdbinstance.DecodeInstance(union, raw, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, inst.Properties.Len())
	_, ok := inst.Properties.Get("circle")
	assert.True(t, ok)
}

func TestDecodeTaggedUnionVariantDirectForm(t *testing.T) {
	t.Parallel()

	union := taggedShapeUnion()
	opts := tdbinstance.DecodeOptions{Resolve: resolverFor(circleClass(), squareClass())}
	raw := json.RawMessage(`{"@type":"Circle","radius":3}`)

	inst, err := tdbinstance.DecodeInstance(union, raw, opts)
	require.NoError(t, err)
	_, ok := inst.Properties.Get("circle")
	assert.True(t, ok)
}

// oneOfContact models a property that accepts either a bare unit marker
// ("unlisted") or a tuple payload (an email address), exercising the
// OneOfClass "at least one variant validates" path with mixed shapes.
func oneOfContact() tdbschema.OneOfClass {
	return tdbschema.OneOfClass{
		ID: "Contact",
		Variants: []tdbschema.PropertySet{
			{Properties: []tdbschema.Property{{Name: "unlisted", Class: "sys:Unit"}}},
			{Properties: []tdbschema.Property{{Name: "email", Class: "xsd:string"}}},
		},
	}
}

func TestDecodeOneOfClassUnitVariant(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"@type":"Contact","unlisted":null}`)
	inst, err := tdbinstance.DecodeInstance(oneOfContact(), raw, tdbinstance.DecodeOptions{})
	require.NoError(t, err)
	v, ok := inst.Properties.Get("unlisted")
	require.True(t, ok)
	assert.IsType(t, tdbinstance.UnitValue{}, v.(tdbinstance.Primitive).Value)
}

func TestDecodeOneOfClassTupleVariant(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"@type":"Contact","email":"ada@example.com"}`)
	inst, err := tdbinstance.DecodeInstance(oneOfContact(), raw, tdbinstance.DecodeOptions{})
	require.NoError(t, err)
	v, ok := inst.Properties.Get("email")
	require.True(t, ok)
	assert.Equal(t, tdbinstance.StringValue("ada@example.com"), v.(tdbinstance.Primitive).Value)
}

func TestDecodeOneOfClassNoVariantMatches(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"@type":"Contact","phone":"555-1234"}`)
	_, err := tdbinstance.DecodeInstance(oneOfContact(), raw, tdbinstance.DecodeOptions{})
	assert.Error(t, err)
}
