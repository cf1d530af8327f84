package tdborm

import (
	"encoding/json"
	"fmt"

	"github.com/terminusdb/terminusdb-go/tdberr"
)

// OrmResult holds every document a query's batch fetch returned,
// indexed by its @type so Get[T] can slice out just one class (spec
// §4.5 "OrmResult containing all documents").
type OrmResult struct {
	docs    []json.RawMessage
	byClass map[string][]json.RawMessage
}

// EmptyResult is the zero-match result, returned when a query's primary
// id set was empty.
func EmptyResult() *OrmResult {
	return &OrmResult{byClass: map[string][]json.RawMessage{}}
}

func newOrmResult(docs []json.RawMessage) *OrmResult {
	r := &OrmResult{docs: docs, byClass: make(map[string][]json.RawMessage, len(docs))}
	for _, d := range docs {
		class, ok := classNameOf(d)
		if !ok {
			continue
		}
		r.byClass[class] = append(r.byClass[class], d)
	}
	return r
}

// Documents returns every raw document the query fetched, regardless of
// type.
func (r *OrmResult) Documents() []json.RawMessage { return r.docs }

// Get decodes every document of type T in r.
func Get[T any](r *OrmResult) ([]T, error) {
	class, err := schemaNameOrError[T]()
	if err != nil {
		return nil, err
	}
	raws := r.byClass[class]
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := decodeDoc[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetOne decodes the single document of type T in r, failing if there
// are zero or more than one.
func GetOne[T any](r *OrmResult) (T, error) {
	var zero T
	vs, err := Get[T](r)
	if err != nil {
		return zero, err
	}
	if len(vs) == 0 {
		return zero, tdberr.Newf(tdberr.DocumentNotFound, "orm_execute_one", "", "no matching document found")
	}
	if len(vs) > 1 {
		return zero, tdberr.Newf(tdberr.Other, "orm_execute_one", "", "%d matching documents found, expected exactly one", len(vs))
	}
	return vs[0], nil
}

// ComposedResult is the result of a ComposedQuery: a combined view over
// every part plus per-part access (spec §4.5 "Composable multi-type
// queries"; SUPPLEMENTED FEATURES #4 adds the named accessor).
type ComposedResult struct {
	combined *OrmResult
	parts    []*OrmResult
	names    []string
}

// EmptyComposedResult is the zero-entries result.
func EmptyComposedResult() *ComposedResult {
	return &ComposedResult{combined: EmptyResult()}
}

// Combined returns the union of every part's documents.
func (r *ComposedResult) Combined() *OrmResult { return r.combined }

// Part returns the i-th query's isolated result, in Add order.
func (r *ComposedResult) Part(i int) (*OrmResult, error) {
	if i < 0 || i >= len(r.parts) {
		return nil, fmt.Errorf("tdborm: part index %d out of bounds (have %d parts)", i, len(r.parts))
	}
	return r.parts[i], nil
}

// PartNamed returns the result of the entry added under name (via
// QueryEntry.Named), the source's supplemented `part_named` accessor.
func (r *ComposedResult) PartNamed(name string) (*OrmResult, error) {
	for i, n := range r.names {
		if n == name {
			return r.parts[i], nil
		}
	}
	return nil, fmt.Errorf("tdborm: no part named %q", name)
}

// NumParts returns the number of query parts.
func (r *ComposedResult) NumParts() int { return len(r.parts) }
