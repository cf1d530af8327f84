// Package tdborm is the ORM query planner (spec §4.5): a generic
// ModelQuery[T] builder that eager-loads forward and reverse relations
// through a fixed two-phase plan — one GraphQL probe to harvest every
// related _id, then one batch document fetch — instead of the N+1 walk
// a naive relation traversal produces. ComposedQuery runs several
// independent queries as a single GraphQL request (spec §4.5
// "Composable multi-type queries").
//
// Go has no generic methods, so the fluent `.with::<R>()` chain from the
// source becomes a family of package-level generic functions
// (With[R], WithVia[R, F], WithField[R, F], WithNested[R]) that take and
// return the builder, mirroring the InstanceResolver[T] wrapper already
// used in tdbhttp for the same language-level reason.
package tdborm
