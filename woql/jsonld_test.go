package woql_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/woql"
)

func TestMarshalQueryRendersTripleWithGraph(t *testing.T) {
	t.Parallel()

	q := woql.Triple{
		Subject:   woql.Var("x"),
		Predicate: woql.Node("name"),
		Object:    woql.Str("Ada"),
		Graph:     woql.GraphInstance,
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(woql.MarshalQuery(q), &decoded))
	assert.Equal(t, "Triple", decoded["@type"])
	assert.Equal(t, "instance", decoded["graph"])

	subject := decoded["subject"].(map[string]any)
	assert.Equal(t, "Variable", subject["@type"])
	assert.Equal(t, "x", subject["variable_name"])
}

func TestEnvelopeWrapsQueryUnderQueryKey(t *testing.T) {
	t.Parallel()

	q := woql.New().Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).Finalize()

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(woql.Envelope(q), &decoded))
	require.Contains(t, decoded, "query")

	var inner map[string]any
	require.NoError(t, json.Unmarshal(decoded["query"], &inner))
	assert.Equal(t, "Triple", inner["@type"])
}

func TestMarshalQueryRendersAndList(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Triple(woql.Var("b"), woql.Node("q"), woql.Var("c")).
		Finalize()

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(woql.MarshalQuery(q), &decoded))
	assert.Equal(t, "And", decoded["@type"])
	assert.Len(t, decoded["and"], 2)
}
