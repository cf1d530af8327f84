// Package tdbmodel bridges domain Go types and the schema/instance
// pipeline: Register once per type, then use the generic package-level
// helpers parameterized by that type.
package tdbmodel
