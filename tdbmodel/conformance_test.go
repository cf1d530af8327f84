package tdbmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

type testPerson struct {
	ID   string
	Name string
}

type testTeam struct {
	ID      string
	Members []testPerson
}

func init() {
	tdbmodel.Register(tdbmodel.Registration[testPerson]{
		SchemaName: "Person",
		ToSchema: func() tdbschema.Schema {
			return tdbschema.Class{
				ID: "Person",
				Properties: []tdbschema.Property{
					{Name: "name", Class: "xsd:string"},
				},
			}
		},
		Fields: []string{"name"},
		Decode: func(inst tdbinstance.Instance) (testPerson, error) {
			p := testPerson{}
			if inst.ID != nil {
				p.ID = *inst.ID
			}
			if v, ok := inst.Properties.Get("name"); ok {
				p.Name = string(v.(tdbinstance.Primitive).Value.(tdbinstance.StringValue))
			}
			return p, nil
		},
	})

	tdbmodel.Register(tdbmodel.Registration[testTeam]{
		SchemaName: "Team",
		ToSchema: func() tdbschema.Schema {
			return tdbschema.Class{
				ID: "Team",
				Properties: []tdbschema.Property{
					{Name: "members", Class: "Person", TypeFamily: tdbschema.List()},
				},
			}
		},
		Referenced: func() []tdbschema.TypeConformer {
			conformer, ok := tdbmodel.LookupByName("Person")
			if !ok {
				return nil
			}
			return []tdbschema.TypeConformer{conformer}
		},
		Decode: func(inst tdbinstance.Instance) (testTeam, error) { return testTeam{}, nil },
	})
}

func TestSchemaTreeForDedupsReferencedSchemas(t *testing.T) {
	t.Parallel()

	tree, err := tdbmodel.SchemaTreeFor[testTeam]()
	require.NoError(t, err)

	names := make([]string, len(tree))
	for i, s := range tree {
		names[i] = s.ClassName()
	}
	assert.ElementsMatch(t, []string{"Team", "Person"}, names)
}

func TestDecodeForRoundTrips(t *testing.T) {
	t.Parallel()

	person := tdbschema.Class{ID: "Person", Properties: []tdbschema.Property{{Name: "name", Class: "xsd:string"}}}
	inst := tdbinstance.NewInstance(person)
	id := "Person/ada"
	inst.ID = &id
	inst.Properties.Set("name", tdbinstance.Primitive{Value: tdbinstance.StringValue("Ada")})

	decoded, err := tdbmodel.DecodeFor[testPerson](inst)
	require.NoError(t, err)
	assert.Equal(t, "Person/ada", decoded.ID)
	assert.Equal(t, "Ada", decoded.Name)
}

func TestFieldOfValidatesAgainstRegisteredFields(t *testing.T) {
	t.Parallel()

	name, err := tdbmodel.FieldOf[testPerson]("name")
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	_, err = tdbmodel.FieldOf[testPerson]("nonexistent")
	assert.Error(t, err)
}

func TestEntityIDForAcceptsShortAndFullForm(t *testing.T) {
	t.Parallel()

	short, err := tdbmodel.NewEntityID[testPerson]("Person/alice")
	require.NoError(t, err)
	assert.Equal(t, "Person/alice", short.Short())

	full, err := tdbmodel.NewEntityID[testPerson]("iri:///data/Person/alice")
	require.NoError(t, err)
	assert.Equal(t, "Person/alice", full.Short())

	_, err = tdbmodel.NewEntityID[testPerson]("Team/alice")
	assert.Error(t, err)
}

type stubResolver struct{ calls int }

func (s *stubResolver) GetInstance(_ context.Context, id string) (testPerson, error) {
	s.calls++
	return testPerson{ID: id, Name: "Resolved"}, nil
}

func TestTdbLazyCachesOnFirstResolution(t *testing.T) {
	t.Parallel()

	id := tdbmodel.MustEntityID[testPerson]("Person/alice")
	lazy := tdbmodel.LazyFromID(id)
	assert.False(t, lazy.IsResolved())

	resolver := &stubResolver{}
	ctx := context.Background()

	v1, err := lazy.Get(ctx, resolver)
	require.NoError(t, err)
	assert.Equal(t, "Resolved", v1.Name)
	assert.True(t, lazy.IsResolved())

	v2, err := lazy.Get(ctx, resolver)
	require.NoError(t, err)
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, resolver.calls)
}

func TestTdbLazyResolvedNeverCallsResolver(t *testing.T) {
	t.Parallel()

	lazy := tdbmodel.LazyResolved(testPerson{ID: "Person/bob", Name: "Bob"})
	resolver := &stubResolver{}
	v, err := lazy.Get(context.Background(), resolver)
	require.NoError(t, err)
	assert.Equal(t, "Bob", v.Name)
	assert.Equal(t, 0, resolver.calls)
}
