package woql

// PathPattern is the closed sum type of path-query patterns accepted by
// Path (spec §4.4 "PathPattern"), mirroring the original's predicate,
// inverse-predicate, star/plus closure and sequence/alternation
// combinators.
type PathPattern interface {
	isPathPattern()
}

// PathPredicate matches a single forward edge named Predicate. An empty
// Predicate matches any edge.
type PathPredicate struct {
	Predicate string
}

// InversePathPredicate matches a single backward edge named Predicate. An
// empty Predicate matches any edge.
type InversePathPredicate struct {
	Predicate string
}

// PathStar matches zero or more repetitions of Pattern.
type PathStar struct {
	Pattern PathPattern
}

// PathPlus matches one or more repetitions of Pattern.
type PathPlus struct {
	Pattern PathPattern
}

// PathSequence matches each element of Patterns in order.
type PathSequence struct {
	Patterns []PathPattern
}

// PathOr matches any one of Patterns.
type PathOr struct {
	Patterns []PathPattern
}

func (PathPredicate) isPathPattern()        {}
func (InversePathPredicate) isPathPattern() {}
func (PathStar) isPathPattern()             {}
func (PathPlus) isPathPattern()             {}
func (PathSequence) isPathPattern()         {}
func (PathOr) isPathPattern()               {}

// Pred, InvPred, StarPattern, PlusPattern, Seq and Alt build PathPattern values.
func Pred(name string) PathPattern            { return PathPredicate{Predicate: name} }
func InvPred(name string) PathPattern         { return InversePathPredicate{Predicate: name} }
func StarPattern(p PathPattern) PathPattern   { return PathStar{Pattern: p} }
func PlusPattern(p PathPattern) PathPattern   { return PathPlus{Pattern: p} }
func Seq(patterns ...PathPattern) PathPattern { return PathSequence{Patterns: patterns} }
func Alt(patterns ...PathPattern) PathPattern { return PathOr{Patterns: patterns} }
