package tdbinstance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

func personClass() tdbschema.Class {
	return tdbschema.Class{
		ID: "Person",
		Properties: []tdbschema.Property{
			{Name: "name", Class: "xsd:string"},
			{Name: "nickname", Class: "xsd:string", TypeFamily: tdbschema.Optional()},
			{Name: "friends", Class: "Person", TypeFamily: tdbschema.List()},
		},
	}
}

func TestPropertiesPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	p := tdbinstance.NewProperties()
	p.Set("b", tdbinstance.Primitive{Value: tdbinstance.StringValue("2")})
	p.Set("a", tdbinstance.Primitive{Value: tdbinstance.StringValue("1")})
	p.Set("c", tdbinstance.Primitive{Value: tdbinstance.StringValue("3")})

	assert.Equal(t, []string{"b", "a", "c"}, p.Names())

	p.Delete("a")
	assert.Equal(t, []string{"b", "c"}, p.Names())
	_, ok := p.Get("a")
	assert.False(t, ok)
}

func TestInstanceClassName(t *testing.T) {
	t.Parallel()

	inst := tdbinstance.NewInstance(personClass())
	assert.Equal(t, "Person", inst.ClassName())
}

func TestCheckCaptureInvariant(t *testing.T) {
	t.Parallel()

	id := "Person/123"
	inst := tdbinstance.NewInstance(personClass())
	inst.Capture = true
	inst.ID = &id
	assert.Error(t, inst.CheckCaptureInvariant())

	inst.ID = nil
	assert.NoError(t, inst.CheckCaptureInvariant())

	inst.Capture = false
	inst.ID = &id
	assert.NoError(t, inst.CheckCaptureInvariant())
}
