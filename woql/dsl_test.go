package woql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terminusdb/terminusdb-go/woql"
)

func TestDSLRendersTripleAndLimit(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("x"), woql.Node("p"), woql.Str("o")).
		Limit(10).
		Finalize()

	assert.Equal(t, `limit(10, triple($x, "p", "o"))`, q.String())
}

func TestDSLRendersAndOfTriples(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Triple(woql.Var("b"), woql.Node("q"), woql.Var("c")).
		Finalize()

	assert.Equal(t, `and(triple($a, "p", $b), triple($b, "q", $c))`, q.String())
}

func TestDSLRendersSelectOverMultipleVariables(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		Select(woql.Var("a"), woql.Var("b")).
		Finalize()

	assert.Equal(t, `select([$a, $b], triple($a, "p", $b))`, q.String())
}

func TestDSLRendersNotTrue(t *testing.T) {
	t.Parallel()

	q := woql.New().Not().Finalize()
	assert.Equal(t, "not(true())", q.String())
}

func TestDSLRendersOrderByAscDesc(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Triple(woql.Var("a"), woql.Node("p"), woql.Var("b")).
		OrderBy(woql.OrderTemplate{Variable: "a", Order: woql.Asc}, woql.OrderTemplate{Variable: "b", Order: woql.Desc}).
		Finalize()

	assert.Equal(t, `order_by([asc($a), desc($b)], triple($a, "p", $b))`, q.String())
}

func TestDSLRendersPathWithStarAndSequence(t *testing.T) {
	t.Parallel()

	q := woql.PathQuery(
		woql.Var("start"),
		woql.Seq(woql.StarPattern(woql.Pred("parent")), woql.InvPred("child")),
		woql.Var("end"),
		woql.Var("p"),
	).Finalize()

	assert.Equal(t, `path($start, seq(star(pred("parent")), inv("child")), $end, $p)`, q.String())
}

func TestDSLRendersEvalArithmetic(t *testing.T) {
	t.Parallel()

	q := woql.New().
		Eval(woql.Plus{Left: woql.Expr(woql.Var("a")), Right: woql.Expr(woql.Int(1))}, woql.Var("b")).
		Finalize()

	assert.Equal(t, `eval(plus($a, 1), $b)`, q.String())
}

func TestDSLRendersInsertDocumentWithAndWithoutIdentifier(t *testing.T) {
	t.Parallel()

	doc := woql.Dict(woql.Entry("name", woql.Str("Ada")))

	withID := woql.New().InsertDocument(doc, woql.Var("id")).Finalize()
	assert.Equal(t, `insert_document({"name": "Ada"}, $id)`, withID.String())

	withoutID := woql.New().InsertDocument(doc, nil).Finalize()
	assert.Equal(t, `insert_document({"name": "Ada"})`, withoutID.String())
}
