package tdborm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terminusdb/terminusdb-go/tdbconfig"
	"github.com/terminusdb/terminusdb-go/tdbhttp"
	"github.com/terminusdb/terminusdb-go/tdbinstance"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
	"github.com/terminusdb/terminusdb-go/tdborm"
	"github.com/terminusdb/terminusdb-go/tdbschema"
)

type ormProject struct {
	ID   string
	Name string
}

type ormTicket struct {
	ID      string
	Project string
}

type ormTicketProjectField struct{}

func (ormTicketProjectField) FieldName() string { return "project" }

func init() {
	tdbmodel.Register(tdbmodel.Registration[ormProject]{
		SchemaName: "Project",
		ToSchema: func() tdbschema.Schema {
			return tdbschema.Class{
				ID: "Project",
				Properties: []tdbschema.Property{
					{Name: "name", Class: "xsd:string"},
				},
			}
		},
		Decode: func(inst tdbinstance.Instance) (ormProject, error) {
			p := ormProject{}
			if inst.ID != nil {
				p.ID = *inst.ID
			}
			if v, ok := inst.Properties.Get("name"); ok {
				p.Name = string(v.(tdbinstance.Primitive).Value.(tdbinstance.StringValue))
			}
			return p, nil
		},
	})

	tdbmodel.Register(tdbmodel.Registration[ormTicket]{
		SchemaName: "Ticket",
		ToSchema: func() tdbschema.Schema {
			return tdbschema.Class{
				ID: "Ticket",
				Properties: []tdbschema.Property{
					{Name: "project", Class: "Project"},
				},
			}
		},
		Fields:        []string{"project"},
		ReverseFields: map[string]string{"Project": "project"},
		Decode: func(inst tdbinstance.Instance) (ormTicket, error) {
			t := ormTicket{}
			if inst.ID != nil {
				t.ID = *inst.ID
			}
			return t, nil
		},
	})
}

func newTestClient(t *testing.T, handler http.Handler) (*tdbhttp.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := tdbconfig.New(srv.URL, "user", "pass", "myorg")
	c, err := tdbhttp.NewClient(cfg)
	require.NoError(t, err)
	return c, srv
}

func TestModelQueryExecuteNoRelations(t *testing.T) {
	t.Parallel()

	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, []string{"Project/1"}, r.URL.Query()["id"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"@type": "Project", "@id": "Project/1", "name": "Apollo"}]`))
	})
	c, _ := newTestClient(t, handler)
	spec := tdbhttp.Spec{Org: "myorg", DB: "mydb"}

	result, err := tdborm.Find[ormProject](c, spec, "Project/1").Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotPath, "/api/document/myorg/mydb")

	projects, err := tdborm.Get[ormProject](result)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Apollo", projects[0].Name)
}

func TestModelQueryExecuteOneNotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	})
	c, _ := newTestClient(t, handler)
	spec := tdbhttp.Spec{Org: "myorg", DB: "mydb"}

	_, err := tdborm.Find[ormProject](c, spec, "Project/missing").ExecuteOne(context.Background())
	require.Error(t, err)
}

func TestModelQueryWithRelationsProbesThenBatches(t *testing.T) {
	t.Parallel()

	var sawGraphQL, sawDocument bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			sawGraphQL = true
			var body struct {
				Query string `json:"query"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body.Query, "_project_of_Ticket")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data": {"Project": [
				{"_id": "Project/1", "_project_of_Ticket": [{"_id": "Ticket/9"}]}
			]}}`))
		case r.Method == http.MethodGet:
			sawDocument = true
			ids := r.URL.Query()["id"]
			assert.ElementsMatch(t, []string{"Project/1", "Ticket/9"}, ids)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[
				{"@type": "Project", "@id": "Project/1", "name": "Apollo"},
				{"@type": "Ticket", "@id": "Ticket/9", "project": {"@ref": "Project/1"}}
			]`))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	})
	c, _ := newTestClient(t, handler)
	spec := tdbhttp.Spec{Org: "myorg", DB: "mydb"}

	q := tdborm.Find[ormProject](c, spec, "Project/1")
	q = tdborm.WithVia[ormTicket](q, ormTicketProjectField{})

	result, err := q.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, sawGraphQL)
	assert.True(t, sawDocument)

	tickets, err := tdborm.Get[ormTicket](result)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Ticket/9", tickets[0].ID)
}

func TestComposedQueryEmpty(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request for empty composed query")
	}))
	spec := tdbhttp.Spec{Org: "myorg", DB: "mydb"}

	result, err := tdborm.Combine(c, spec).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumParts())
}

func TestComposedQueryNamedParts(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data": {
				"Project": [{"_id": "Project/1"}],
				"Ticket": [{"_id": "Ticket/9"}]
			}}`))
		case http.MethodGet:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[
				{"@type": "Project", "@id": "Project/1", "name": "Apollo"},
				{"@type": "Ticket", "@id": "Ticket/9", "project": {"@ref": "Project/1"}}
			]`))
		}
	})
	c, _ := newTestClient(t, handler)
	spec := tdbhttp.Spec{Org: "myorg", DB: "mydb"}

	result, err := tdborm.And(c, spec,
		tdborm.Entry[ormProject]().Named("projects"),
		tdborm.Entry[ormTicket]().Named("tickets"),
	).Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.NumParts())

	part, err := result.PartNamed("tickets")
	require.NoError(t, err)
	tickets, err := tdborm.Get[ormTicket](part)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Ticket/9", tickets[0].ID)

	_, err = result.PartNamed("nonexistent")
	assert.Error(t, err)
}
