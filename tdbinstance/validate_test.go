package tdbinstance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

func validPerson(name string) tdbinstance.Instance {
	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue(name)})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{})
	return inst
}

func TestValidateInstanceOK(t *testing.T) {
	t.Parallel()

	errs := tdbinstance.ValidateInstance(validPerson("Ada"))
	assert.True(t, errs.OK())
}

func TestValidateInstanceMissingRequiredProperty(t *testing.T) {
	t.Parallel()

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.MissingProperty, errs[0].Kind)
	assert.Equal(t, "name", errs[0].Property)
}

func TestValidateInstanceUnknownProperty(t *testing.T) {
	t.Parallel()

	inst := validPerson("Ada")
	inst.Properties.Set("extra", tdbinstance.Primitive{Value: tdbinstance.StringValue("???")})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	found := false
	for _, e := range errs {
		if e.Kind == tdbschema.UnknownProperty && e.Property == "extra" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateInstanceTypeFamilyMismatch(t *testing.T) {
	t.Parallel()

	inst := validPerson("Ada")
	// "friends" is list-family; set it as a scalar Relation instead.
	inst.Properties.Set("friends", tdbinstance.Relation{Value: tdbinstance.One{Instance: validPerson("Grace")}})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.TypeFamilyMismatch, errs[0].Kind)
}

func TestValidateInstanceSetCardinalityViolation(t *testing.T) {
	t.Parallel()

	tag := tdbschema.Class{
		ID: "TaggedPost",
		Properties: []tdbschema.Property{
			{Name: "tags", Class: "xsd:string", TypeFamily: tdbschema.Set(tdbschema.MaxCardinality(2))},
		},
	}
	inst := tdbinstance.NewInstance(tag)
	inst.Properties.Set("tags", tdbinstance.Primitives{Values: []tdbinstance.PrimitiveValue{
		tdbinstance.StringValue("a"), tdbinstance.StringValue("b"), tdbinstance.StringValue("c"),
	}})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.SetCardinalityViolation, errs[0].Kind)
}

func TestValidateInstanceNestedInstanceError(t *testing.T) {
	t.Parallel()

	badFriend := tdbinstance.NewInstance(personClass())
	badFriend.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	badFriend.Properties.Set("friends", tdbinstance.Relations{})
	// missing required "name"

	inst := validPerson("Ada")
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: badFriend},
	}})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.NestedInstanceError, errs[0].Kind)
	require.NotEmpty(t, errs[0].Nested)
	assert.Equal(t, tdbschema.MissingProperty, errs[0].Nested[0].Kind)
}

func TestValidateEnumRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	color := tdbschema.Enum{ID: "Color", Values: []string{"Red", "Green"}}
	inst := tdbinstance.NewInstance(color)
	inst.Properties.Set("Purple", tdbinstance.Primitive{Value: tdbinstance.UnitValue{}})

	errs := tdbinstance.ValidateInstance(inst)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.InvalidEnumValue, errs[0].Kind)
}

func TestValidateOneOfClassAtLeastOneVariant(t *testing.T) {
	t.Parallel()

	contact := tdbschema.OneOfClass{
		ID: "Contact",
		Variants: []tdbschema.PropertySet{
			{Properties: []tdbschema.Property{{Name: "unlisted", Class: "sys:Unit"}}},
			{Properties: []tdbschema.Property{{Name: "email", Class: "xsd:string"}}},
		},
	}

	good := tdbinstance.NewInstance(contact)
	good.Properties.Set("email", tdbinstance.Primitive{Value: tdbinstance.StringValue("ada@example.com")})
	assert.True(t, tdbinstance.ValidateInstance(good).OK())

	bad := tdbinstance.NewInstance(contact)
	bad.Properties.Set("phone", tdbinstance.Primitive{Value: tdbinstance.StringValue("555-1234")})
	errs := tdbinstance.ValidateInstance(bad)
	require.False(t, errs.OK())
	assert.Equal(t, tdbschema.SchemaMismatch, errs[0].Kind)
}
