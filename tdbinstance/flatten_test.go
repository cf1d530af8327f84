package tdbinstance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
)

func TestFlattenExtractsPersistedNestedInstance(t *testing.T) {
	t.Parallel()

	friendID := "Person/grace"
	friend := tdbinstance.NewInstance(personClass())
	friend.ID = &friendID
	friend.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Grace")})
	friend.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	friend.Properties.Set("friends", tdbinstance.Relations{})

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: friend},
	}})

	extracted := tdbinstance.Flatten(&inst, tdbinstance.FlattenExternal)
	require.Len(t, extracted, 1)
	assert.Equal(t, friendID, *extracted[0].ID)

	friends, ok := inst.Properties.Get("friends")
	require.True(t, ok)
	rels := friends.(tdbinstance.Relations)
	require.Len(t, rels.Values, 1)
	ref, ok := rels.Values[0].(tdbinstance.ExternalReference)
	require.True(t, ok)
	assert.Equal(t, friendID, ref.IRI)
}

func TestFlattenLeavesUnpersistedNestedInstanceEmbedded(t *testing.T) {
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

	extracted := tdbinstance.Flatten(&inst, tdbinstance.FlattenExternal)
	assert.Empty(t, extracted)

	friends, _ := inst.Properties.Get("friends")
	rels := friends.(tdbinstance.Relations)
	_, stillOne := rels.Values[0].(tdbinstance.One)
	assert.True(t, stillOne)
}

func TestFlattenTransactionalUsesTransactionRef(t *testing.T) {
	t.Parallel()

	friendID := "Person/grace"
	friend := tdbinstance.NewInstance(personClass())
	friend.ID = &friendID
	friend.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Grace")})
	friend.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	friend.Properties.Set("friends", tdbinstance.Relations{})

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: friend},
	}})

	tdbinstance.Flatten(&inst, tdbinstance.FlattenTransactional)
	friends, _ := inst.Properties.Get("friends")
	rels := friends.(tdbinstance.Relations)
	ref, ok := rels.Values[0].(tdbinstance.TransactionRef)
	require.True(t, ok)
	assert.Equal(t, friendID, ref.CaptureVar)
}

func TestApplyCapturePrefixesAssignsOnlyToCaptureNodes(t *testing.T) {
	t.Parallel()

	nested := tdbinstance.NewInstance(personClass())
	nested.Capture = true
	nested.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Grace")})
	nested.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	nested.Properties.Set("friends", tdbinstance.Relations{})

	inst := tdbinstance.NewInstance(personClass())
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})
	inst.Properties.Set("nickname", tdbinstance.Primitive{Value: tdbinstance.NullValue{}})
	inst.Properties.Set("friends", tdbinstance.Relations{Values: []tdbinstance.RelationValue{
		tdbinstance.One{Instance: nested},
	}})

	tdbinstance.ApplyCapturePrefixes(&inst)
	assert.Empty(t, inst.KeyPrefix())

	friends, _ := inst.Properties.Get("friends")
	rels := friends.(tdbinstance.Relations)
	one := rels.Values[0].(tdbinstance.One)
	assert.NotEmpty(t, one.Instance.KeyPrefix())
}
