package tdbinstance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
)

func TestEncodeInstanceOmitsNullOptional(t *testing.T) {
	t.Parallel()

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{})

	raw, err := tdbinstance.EncodeInstance(inst, &tdbinstance.CaptureCounter{})
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"@type":"Person"`)
	assert.Contains(t, s, `"name":"Ada"`)
	assert.NotContains(t, s, "nickname")
}

func TestEncodeInstanceUsesCaptureVariable(t *testing.T) {
	t.Parallel()

	inst := tdbinstance.NewInstance(personClass())
	inst.Capture = true
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{})

	counter := &tdbinstance.CaptureCounter{}
	raw, err := tdbinstance.EncodeInstance(inst, counter)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"@capture":"v0"`)
}

func TestEncodeInstanceRejectsCaptureWithID(t *testing.T) {
	t.Parallel()

	id := "Person/1"
	inst := tdbinstance.NewInstance(personClass())
	inst.Capture = true
	inst.ID = &id

	_, err := tdbinstance.EncodeInstance(inst, &tdbinstance.CaptureCounter{})
	assert.Error(t, err)
}

func TestEncodeRelationOne(t *testing.T) {
	t.Parallel()

	friend := tdbinstance.NewInstance(personClass())
	friend.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Grace")})
	friend.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	friend.Properties.Set("friends", tdbinstance.Relations{})

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: friend},
	}})

	raw, err := tdbinstance.EncodeInstance(inst, &tdbinstance.CaptureCounter{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Grace"`)
}

func TestEncodeExternalReference(t *testing.T) {
	t.Parallel()

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.ExternalReference{IRI: "Person/grace"},
	}})

	raw, err := tdbinstance.EncodeInstance(inst, &tdbinstance.CaptureCounter{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"@ref":"Person/grace"`)
}

func TestUnitValueSerializesNull(t *testing.T) {
	t.Parallel()

	raw, err := tdbinstance.UnitValue{}.MarshalJSONLD()
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}
