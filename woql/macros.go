package woql

import "github.com/terminusdb/terminusdb-go/tdbmodel"

// Vars is the Go-idiomatic equivalent of the source's vars!(a, b, c)
// macro: it builds a slice of Variable from names, for use with
// Builder.Select, Builder.Distinct and Builder.GroupBy.
func Vars(names ...string) []Variable {
	out := make([]Variable, len(names))
	for i, n := range names {
		out[i] = Var(n)
	}
	return out
}

// FieldVar is the Go-idiomatic equivalent of the source's
// field!(Type:field) macro: it validates name against T's registered
// field set (tdbmodel.FieldOf) and returns it as a Variable, so a typo in
// a WOQL query referencing a domain type's field fails at query
// construction time rather than in the server's response. This is the
// weakened runtime-checked form the spec's §9 fallback guidance allows
// when compile-time field existence cannot be checked in Go.
func FieldVar[T any](field string) (Variable, error) {
	name, err := tdbmodel.FieldOf[T](field)
	if err != nil {
		return Variable{}, err
	}
	return Var(name), nil
}

// MustFieldVar is FieldVar, panicking on error — for call sites where the
// field name is a literal known to be valid.
func MustFieldVar[T any](field string) Variable {
	v, err := FieldVar[T](field)
	if err != nil {
		panic(err)
	}
	return v
}
