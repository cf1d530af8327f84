package woql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/woql"
)

func TestBuilderFlattensChainedTriplesIntoOneAnd(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Triple(woql.Var("b"), woql.Node("p"), woql.Var("c")).
		Triple(woql.Var("c"), woql.Node("p"), woql.Var("d")).
		Finalize()

	and, ok := q.(woql.And)
	require.True(t, ok, "expected And, got %T", q)
	assert.Len(t, and.Queries, 3)
}

func TestEmptyBuilderFinalizesToTrue(t *testing.T) {
	t.Parallel()

	q := woql.New().Finalize()
	assert.Equal(t, woql.True{}, q)
}

func TestNotDoesNotSimplifyNotTrue(t *testing.T) {
	t.Parallel()

	q := woql.New().Not().Finalize()
	assert.Equal(t, woql.Not{Query: woql.True{}}, q)
	assert.Equal(t, "not(true())", q.(woql.Not).String())
}

func TestWrappingOperationFinalizesThenWraps(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Triple(woql.Var("b"), woql.Node("p"), woql.Var("c")).
		Limit(10).
		Finalize()

	limit, ok := q.(woql.Limit)
	require.True(t, ok, "expected Limit, got %T", q)
	assert.Equal(t, uint64(10), limit.Count)

	and, ok := limit.Query.(woql.And)
	require.True(t, ok, "expected the wrapped query to stay And")
	assert.Len(t, and.Queries, 2)
}

func TestSelectFollowedByFurtherTriplesStartsANewAnd(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Select(woql.Var("a")).
		Triple(woql.Var("c"), woql.Node("q"), woql.Var("d")).
		Finalize()

	and, ok := q.(woql.And)
	require.True(t, ok, "expected And, got %T", q)
	require.Len(t, and.Queries, 2)
	_, ok = and.Queries[0].(woql.Select)
	assert.True(t, ok, "first component should be the finalized Select")
	_, ok = and.Queries[1].(woql.Triple)
	assert.True(t, ok, "second component should be the new Triple")
}

func TestAndCombinesFinalizedBuilders(t *testing.T) {
	t.Parallel()

	left := woql.New().Triple(woql.Var("a"), woql.Node("p"), woql.Var("b"))
	right := woql.New().Triple(woql.Var("c"), woql.Node("p"), woql.Var("d"))

	q := woql.And_(left, right).Finalize()
	and, ok := q.(woql.And)
	require.True(t, ok)
	assert.Len(t, and.Queries, 2)
}

func TestOptAndNotWrapInSequence(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Opt().
		Not().
		Finalize()

	not, ok := q.(woql.Not)
	require.True(t, ok, "expected Not, got %T", q)
	_, ok = not.Query.(woql.WoqlOptional)
	assert.True(t, ok, "expected WoqlOptional wrapped inside Not")
}
