package tdbschema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbschema"
)

func TestClassPropertyByName(t *testing.T) {
	t.Parallel()

	c := tdbschema.Class{
		ID:  "Person",
		Key: tdbschema.LexicalKey("id"),
		Properties: []tdbschema.Property{
			{Name: "id", Class: "xsd:string"},
			{Name: "age", Class: "xsd:integer"},
		},
	}

	p, ok := c.PropertyByName("age")
	require.True(t, ok)
	assert.Equal(t, "xsd:integer", p.Class)

	_, ok = c.PropertyByName("missing")
	assert.False(t, ok)

	assert.Equal(t, "Person", c.ClassName())
	assert.Equal(t, []string{"id"}, c.Key.Fields())
	assert.Equal(t, tdbschema.KeyLexical, c.Key.Kind())
}

func TestSetCardinalityAllows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    tdbschema.SetCardinality
		n    int
		want bool
	}{
		{"none always allows", tdbschema.NoCardinality(), 0, true},
		{"exact matches", tdbschema.ExactCardinality(2), 2, true},
		{"exact rejects", tdbschema.ExactCardinality(2), 3, false},
		{"min satisfied", tdbschema.MinCardinality(2), 2, true},
		{"min violated", tdbschema.MinCardinality(2), 1, false},
		{"max satisfied", tdbschema.MaxCardinality(2), 2, true},
		{"max violated", tdbschema.MaxCardinality(2), 3, false},
		{"range inside", tdbschema.RangeCardinality(1, 3), 2, true},
		{"range outside", tdbschema.RangeCardinality(1, 3), 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Allows(tt.n))
		})
	}
}

func TestRenamePolicyApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy tdbschema.RenamePolicy
		name   string
		want   string
	}{
		{tdbschema.RenameLowercase, "PendingReview", "pendingreview"},
		{tdbschema.RenameUpper, "pending", "PENDING"},
		{tdbschema.RenameKebab, "PendingReview", "pending-review"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.Apply(tt.name))
	}
}

func TestTaggedUnionVariantProperty(t *testing.T) {
	t.Parallel()

	u := tdbschema.TaggedUnion{
		ID: "Shape",
		Properties: []tdbschema.Property{
			{Name: "circle", Class: "ShapeCircle"},
			{Name: "square", Class: "ShapeSquare"},
		},
	}
	p, ok := u.VariantProperty("circle")
	require.True(t, ok)
	assert.Equal(t, "ShapeCircle", p.Class)

	_, ok = u.VariantProperty("triangle")
	assert.False(t, ok)
}

func TestBuildTreeDedupsByClassName(t *testing.T) {
	t.Parallel()

	leaf := fakeConformer{name: "Address", schema: tdbschema.Class{ID: "Address"}}
	root := fakeConformer{
		name:   "Person",
		schema: tdbschema.Class{ID: "Person"},
		refs:   []tdbschema.TypeConformer{leaf, leaf}, // referenced twice, cyclic-like
	}

	tree := tdbschema.BuildTree(root)
	schemas := tree.Schemas()
	require.Len(t, schemas, 2)
	assert.Equal(t, "Person", schemas[0].ClassName())
	assert.Equal(t, "Address", schemas[1].ClassName())
}

type fakeConformer struct {
	name   string
	schema tdbschema.Schema
	refs   []tdbschema.TypeConformer
}

func (f fakeConformer) SchemaName() string                        { return f.name }
func (f fakeConformer) ToSchema() tdbschema.Schema                 { return f.schema }
func (f fakeConformer) ReferencedSchemas() []tdbschema.TypeConformer { return f.refs }
