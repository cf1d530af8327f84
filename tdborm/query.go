package tdborm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/terminusdb/terminusdb-go/tdbhttp"
	"github.com/terminusdb/terminusdb-go/tdbmodel"
)

// ModelQuery is the eager-loading query planner for a single primary
// type T (spec §4.5 "ModelQuery<T>"). Zero or more relations are
// attached with With/WithVia/WithField/WithNested before Execute runs
// the two-phase plan: one GraphQL probe to collect every related _id,
// then one batch document fetch.
type ModelQuery[T any] struct {
	client         *tdbhttp.Client
	spec           tdbhttp.Spec
	class          string
	primaryIDs     []string
	err            error
	relations      []RelationSpec
	opts           tdbhttp.DocumentOpts
	fieldValidator func(string) (string, error)
}

// Find plans a query for the single document id (spec §4.5
// "Orm::find::<T>(id)").
func Find[T any](c *tdbhttp.Client, spec tdbhttp.Spec, id string) *ModelQuery[T] {
	return FindAll[T](c, spec, id)
}

// FindAll plans a query over every id given (spec §4.5
// "Orm::find_all::<T>(ids)"). Passing no ids plans an empty query: a
// later Execute short-circuits to an EmptyResult without a round trip.
func FindAll[T any](c *tdbhttp.Client, spec tdbhttp.Spec, ids ...string) *ModelQuery[T] {
	class, err := schemaNameOrError[T]()
	return &ModelQuery[T]{
		client:         c,
		spec:           spec,
		class:          class,
		primaryIDs:     dedupeStrings(ids),
		err:            err,
		fieldValidator: fieldValidatorFor[T](),
	}
}

// FindTyped plans a query over the given typed entity ids, the
// EntityIDFor-aware counterpart to FindAll for callers already holding
// strongly-typed ids rather than bare strings.
func FindTyped[T any](c *tdbhttp.Client, spec tdbhttp.Spec, ids ...tdbmodel.EntityIDFor[T]) *ModelQuery[T] {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return FindAll[T](c, spec, strs...)
}

func (q *ModelQuery[T]) addRelation(r RelationSpec) { q.relations = append(q.relations, r) }
func (q *ModelQuery[T]) hostClassName() string      { return q.class }
func (q *ModelQuery[T]) addError(err error) {
	if q.err == nil {
		q.err = err
	}
}
func (q *ModelQuery[T]) validateOwnField(name string) (string, error) { return q.fieldValidator(name) }

// Unfold sets tdbhttp's DocumentOpts.Unfold for the batch document fetch.
// Execute always runs that fetch with unfold on, so calling Unfold does
// not change the result.
func (q *ModelQuery[T]) Unfold() *ModelQuery[T] {
	q.opts.Unfold = true
	return q
}

// Opts overrides the DocumentOpts used for the batch document fetch.
func (q *ModelQuery[T]) Opts(opts tdbhttp.DocumentOpts) *ModelQuery[T] {
	q.opts = opts
	return q
}

// WithClient swaps the client a query executes against, for composing
// a query built against one client but run against another (e.g. a
// branch-scoped clone).
func (q *ModelQuery[T]) WithClient(c *tdbhttp.Client) *ModelQuery[T] {
	q.client = c
	return q
}

// IDs returns the primary ids this query was built over.
func (q *ModelQuery[T]) IDs() []string { return q.primaryIDs }

// Len returns the number of primary ids.
func (q *ModelQuery[T]) Len() int { return len(q.primaryIDs) }

// IsEmpty reports whether the query has no primary ids to resolve.
func (q *ModelQuery[T]) IsEmpty() bool { return len(q.primaryIDs) == 0 }

// Relations returns the relation tree attached to this query so far.
func (q *ModelQuery[T]) Relations() []RelationSpec { return q.relations }

// With eager-loads R through its one unambiguous reverse relation field
// to T, inferred via tdbmodel.DefaultReverseField (spec §4.5
// ".with::<R>()"). H is inferred from h's concrete type, letting the
// same function serve ModelQuery[T], RelationBuilder[Parent], and
// QueryEntry.
func With[R any, H relationHost](h H) H {
	targetClass, err := schemaNameOrError[R]()
	if err != nil {
		h.addError(err)
		return h
	}
	field, ok := tdbmodel.DefaultReverseField[R](h.hostClassName())
	if !ok {
		h.addError(fmt.Errorf("tdborm: %s has no unambiguous reverse field back to %s; use WithVia or WithField", targetClass, h.hostClassName()))
		return h
	}
	h.addRelation(RelationSpec{TargetType: targetClass, Direction: DirectionReverse, Field: field})
	return h
}

// WithVia eager-loads R through the explicit reverse field f names
// (spec §4.5 ".with_via::<R, F>(field)"), for when R has more than one
// back-reference to the host and DefaultReverseField can't disambiguate.
func WithVia[R any, F RelationField, H relationHost](h H, f F) H {
	targetClass, err := schemaNameOrError[R]()
	if err != nil {
		h.addError(err)
		return h
	}
	h.addRelation(RelationSpec{TargetType: targetClass, Direction: DirectionReverse, Field: f.FieldName()})
	return h
}

// WithField eager-loads R through the host's own forward-pointing field
// f (spec §4.5 ".with_field::<R, F>(field)" — HasMany/HasOne-shaped,
// the host holds the pointer rather than R).
func WithField[R any, F RelationField, H relationHost](h H, f F) H {
	targetClass, err := schemaNameOrError[R]()
	if err != nil {
		h.addError(err)
		return h
	}
	name, verr := h.validateOwnField(f.FieldName())
	if verr != nil {
		h.addError(verr)
		return h
	}
	h.addRelation(RelationSpec{TargetType: targetClass, Direction: DirectionForward, Field: name})
	return h
}

// WithNested eager-loads R the same way With does, then nests further
// relations under it via build, which receives a fresh
// RelationBuilder[R] (spec §4.5 ".with_nested::<R>(|b| b.with::<S>())").
func WithNested[R any, H relationHost](h H, build func(*RelationBuilder[R]) *RelationBuilder[R]) H {
	targetClass, err := schemaNameOrError[R]()
	if err != nil {
		h.addError(err)
		return h
	}
	field, ok := tdbmodel.DefaultReverseField[R](h.hostClassName())
	if !ok {
		h.addError(fmt.Errorf("tdborm: %s has no unambiguous reverse field back to %s; use WithVia before nesting", targetClass, h.hostClassName()))
		return h
	}
	nested := build(newRelationBuilder[R]())
	if nested.err != nil {
		h.addError(nested.err)
		return h
	}
	h.addRelation(RelationSpec{TargetType: targetClass, Direction: DirectionReverse, Field: field, Children: nested.relations})
	return h
}

// Execute runs the two-phase plan and returns every document fetched,
// grouped by type (spec §4.5 "execute() -> OrmResult").
func (q *ModelQuery[T]) Execute(ctx context.Context) (*OrmResult, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.IsEmpty() {
		return EmptyResult(), nil
	}

	ids, err := q.resolveIDs(ctx)
	if err != nil {
		return nil, err
	}

	opts := q.opts
	opts.Unfold = true
	docs, err := q.client.GetDocuments(ctx, q.spec, ids, opts)
	if err != nil {
		return nil, err
	}
	return newOrmResult(docs), nil
}

// ExecutePrimary runs Execute and decodes just the primary type T,
// discarding the eagerly-loaded relations (spec §4.5
// "execute_primary() -> Vec<T>").
func (q *ModelQuery[T]) ExecutePrimary(ctx context.Context) ([]T, error) {
	result, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return Get[T](result)
}

// ExecuteOne runs Execute and decodes exactly one T, failing if the
// query's id set didn't resolve to precisely one document (spec §4.5
// "execute_one() -> T").
func (q *ModelQuery[T]) ExecuteOne(ctx context.Context) (T, error) {
	result, err := q.Execute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return GetOne[T](result)
}

// resolveIDs runs the GraphQL probe phase when the query has
// relations attached, recursively collecting every primary and related
// _id; with no relations it returns the primary ids unchanged, skipping
// the probe round trip entirely (spec §4.5 "no eager loads -> direct
// document fetch").
func (q *ModelQuery[T]) resolveIDs(ctx context.Context) ([]string, error) {
	if len(q.relations) == 0 {
		return q.primaryIDs, nil
	}

	fragment := buildFragment(q.class, "", "", 0, 0, q.primaryIDs, q.relations)
	query := buildQuery([]string{fragment})
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	envelope, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	raw, err := q.client.ExecuteGraphQL(ctx, q.spec.DB, q.spec.Branch, envelope, 0)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	ids := append([]string{}, q.primaryIDs...)
	extractIDs(payload.Data, q.class, q.relations, &ids)
	return dedupeStrings(ids), nil
}
