package tdbmodel

import (
	"context"
	"fmt"
	"strings"
)

// EntityIDFor carries a target class at the type level: it is a typed
// IRI newtype accepting both the short form ("Type/local") and the full
// form ("iri:///data/Type/local") (spec §3 "EntityIDFor<T>").
type EntityIDFor[T any] struct {
	raw string
}

// NewEntityID validates raw against T's registered schema name (when
// raw is in short form) and wraps it.
func NewEntityID[T any](raw string) (EntityIDFor[T], error) {
	if raw == "" {
		return EntityIDFor[T]{}, fmt.Errorf("tdbmodel: empty entity id")
	}
	entry, err := lookup[T]()
	if err != nil {
		return EntityIDFor[T]{}, err
	}
	if strings.HasPrefix(raw, "iri://") {
		return EntityIDFor[T]{raw: raw}, nil
	}
	class, _, ok := strings.Cut(raw, "/")
	if !ok || class == "" {
		return EntityIDFor[T]{}, fmt.Errorf("tdbmodel: %q is not a valid short-form id", raw)
	}
	if class != entry.schemaName {
		return EntityIDFor[T]{}, fmt.Errorf("tdbmodel: id %q does not belong to class %q", raw, entry.schemaName)
	}
	return EntityIDFor[T]{raw: raw}, nil
}

// MustEntityID is NewEntityID, panicking on error — for literals whose
// validity is known at call time (tests, fixtures).
func MustEntityID[T any](raw string) EntityIDFor[T] {
	id, err := NewEntityID[T](raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the id exactly as constructed (short or full form).
func (id EntityIDFor[T]) String() string { return id.raw }

// Short returns the "Type/local" form, expanding from a full IRI if
// necessary by taking the last two path segments.
func (id EntityIDFor[T]) Short() string {
	if !strings.HasPrefix(id.raw, "iri://") {
		return id.raw
	}
	parts := strings.Split(strings.TrimRight(id.raw, "/"), "/")
	if len(parts) < 2 {
		return id.raw
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// IsZero reports whether id was never assigned a value.
func (id EntityIDFor[T]) IsZero() bool { return id.raw == "" }

// Resolver fetches a single T by its short or full id.
// tdbhttp.InstanceResolver[T] satisfies it by adapting a client and a
// Spec; it is declared here, rather than imported from tdbhttp, so
// tdbmodel never depends on the HTTP layer.
type Resolver[T any] interface {
	GetInstance(ctx context.Context, id string) (T, error)
}

// TdbLazy is a possibly-unresolved typed reference to another instance
// (spec §3 "TdbLazy<T>", §9 "TdbLazy and identity"): either a
// materialized T or a bare EntityIDFor<T>. Get caches the resolved value
// on the receiver on first successful resolution — the Go equivalent of
// the source's "small state cell taking an exclusive reference on first
// access", since Go has no built-in interior mutability.
type TdbLazy[T any] struct {
	resolved *T
	id       EntityIDFor[T]
}

// LazyResolved wraps an already-materialized value.
func LazyResolved[T any](v T) TdbLazy[T] {
	return TdbLazy[T]{resolved: &v}
}

// LazyFromID wraps an unresolved reference.
func LazyFromID[T any](id EntityIDFor[T]) TdbLazy[T] {
	return TdbLazy[T]{id: id}
}

// ID returns the underlying entity id. It is only meaningful when the
// TdbLazy was constructed via LazyFromID, or via LazyResolved followed by
// a caller that separately knows the id — TdbLazy does not extract an id
// out of an already-materialized T.
func (l *TdbLazy[T]) ID() (EntityIDFor[T], error) {
	if l.id.IsZero() {
		return EntityIDFor[T]{}, fmt.Errorf("tdbmodel: TdbLazy has no associated id")
	}
	return l.id, nil
}

// IsResolved reports whether Get has already cached a value (or the
// TdbLazy was constructed via LazyResolved).
func (l *TdbLazy[T]) IsResolved() bool { return l.resolved != nil }

// Get returns the resolved value, fetching and caching it via r on first
// access. Subsequent calls return the cached value without touching r.
func (l *TdbLazy[T]) Get(ctx context.Context, r Resolver[T]) (*T, error) {
	if l.resolved != nil {
		return l.resolved, nil
	}
	v, err := r.GetInstance(ctx, l.id.raw)
	if err != nil {
		return nil, err
	}
	l.resolved = &v
	return l.resolved, nil
}
