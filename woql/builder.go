package woql

// Builder assembles a Query under an implicit conjunction policy (spec
// §4.4 "Builder"): non-wrapping operations (Triple, Eq, IsA, ...) append
// to the current And, flattening rather than nesting when the current
// root is already an And. Wrapping operations (Limit, Start, Select,
// Distinct, OrderBy, GroupBy, Count, Using, From, Into, Not, Opt, Once,
// Immediately) finalize the builder first, then wrap the finalized query.
// The zero Builder is ready to use.
type Builder struct {
	query Query
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Finalize consumes the builder and returns its Query, defaulting to True
// if nothing was ever added.
func (b *Builder) Finalize() Query {
	if b.query == nil {
		return True{}
	}
	return b.query
}

// append adds component to the current query, flattening into an
// existing And rather than nesting a new one.
func (b *Builder) append(component Query) *Builder {
	switch existing := b.query.(type) {
	case nil:
		b.query = component
	case And:
		existing.Queries = append(existing.Queries, component)
		b.query = existing
	default:
		b.query = And{Queries: []Query{existing, component}}
	}
	return b
}

// wrap finalizes the current query and replaces it with wrap(finalized).
func (b *Builder) wrap(wrap func(Query) Query) *Builder {
	b.query = wrap(b.Finalize())
	return b
}

// Triple appends a Triple pattern over the instance graph.
func (b *Builder) Triple(subject, predicate NodeValue, object Value) *Builder {
	return b.append(Triple{Subject: subject, Predicate: predicate, Object: object, Graph: GraphInstance})
}

// TripleIn appends a Triple pattern over an explicit graph.
func (b *Builder) TripleIn(graph GraphType, subject, predicate NodeValue, object Value) *Builder {
	return b.append(Triple{Subject: subject, Predicate: predicate, Object: object, Graph: graph})
}

// AddTriple appends a staged-insertion triple.
func (b *Builder) AddTriple(subject, predicate NodeValue, object Value) *Builder {
	return b.append(AddTriple{Subject: subject, Predicate: predicate, Object: object, Graph: GraphInstance})
}

// DeleteTriple appends a staged-deletion triple.
func (b *Builder) DeleteTriple(subject, predicate NodeValue, object Value) *Builder {
	return b.append(DeleteTriple{Subject: subject, Predicate: predicate, Object: object, Graph: GraphInstance})
}

// AddedTriple appends a match against triples added in the current commit
// context.
func (b *Builder) AddedTriple(graph GraphType, subject, predicate NodeValue, object Value) *Builder {
	return b.append(AddedTriple{Subject: subject, Predicate: predicate, Object: object, Graph: graph})
}

// And_ finalizes each of builders and combines them under a single And
// in a new Builder.
func And_(builders ...*Builder) *Builder {
	queries := make([]Query, len(builders))
	for i, bb := range builders {
		queries[i] = bb.Finalize()
	}
	return &Builder{query: And{Queries: queries}}
}

// Or_ finalizes each of builders and combines them under a single Or
// in a new Builder.
func Or_(builders ...*Builder) *Builder {
	queries := make([]Query, len(builders))
	for i, bb := range builders {
		queries[i] = bb.Finalize()
	}
	return &Builder{query: Or{Queries: queries}}
}

// Not negates the current query. WOQL has no shortcut for Not(True), so
// an empty builder negated stays Not{True{}} rather than simplifying away.
func (b *Builder) Not() *Builder {
	return b.wrap(func(q Query) Query { return Not{Query: q} })
}

// Opt makes the current query optional.
func (b *Builder) Opt() *Builder {
	return b.wrap(func(q Query) Query { return WoqlOptional{Query: q} })
}

// IfThenElse builds an If query from three independently-finalized
// builders. It replaces whatever test/then/else already held, matching
// the constructor semantics of the source builder.
func IfThenElse(test, then, els *Builder) *Builder {
	return &Builder{query: If{Test: test.Finalize(), Then: then.Finalize(), Else: els.Finalize()}}
}

// When is IfThenElse with an implicit True else-branch.
func When(test, then *Builder) *Builder {
	return IfThenElse(test, then, New())
}

// Limit wraps the current query, bounding it to at most n results.
func (b *Builder) Limit(n uint64) *Builder {
	return b.wrap(func(q Query) Query { return Limit{Count: n, Query: q} })
}

// Start wraps the current query, skipping the first n results.
func (b *Builder) Start(n uint64) *Builder {
	return b.wrap(func(q Query) Query { return Start{Count: n, Query: q} })
}

// Select wraps the current query, projecting down to vars.
func (b *Builder) Select(vars ...Variable) *Builder {
	names := varNames(vars)
	return b.wrap(func(q Query) Query { return Select{Variables: names, Query: q} })
}

// Distinct wraps the current query, deduplicating over vars.
func (b *Builder) Distinct(vars ...Variable) *Builder {
	names := varNames(vars)
	return b.wrap(func(q Query) Query { return Distinct{Variables: names, Query: q} })
}

// OrderBy wraps the current query, sorting by ordering.
func (b *Builder) OrderBy(ordering ...OrderTemplate) *Builder {
	return b.wrap(func(q Query) Query { return OrderBy{Ordering: ordering, Query: q} })
}

// GroupBy wraps the current query, grouping solutions by groupVars and
// binding the per-group template list to grouped.
func (b *Builder) GroupBy(template Value, groupVars []Variable, grouped Value) *Builder {
	names := varNames(groupVars)
	return b.wrap(func(q Query) Query {
		return GroupBy{Template: template, GroupBy: names, Grouped: grouped, Query: q}
	})
}

// Count wraps the current query, binding its solution count to result.
func (b *Builder) Count(result DataValue) *Builder {
	return b.wrap(func(q Query) Query { return Count{Query: q, Result: result} })
}

// Once wraps the current query, limiting it to at most one solution.
func (b *Builder) Once() *Builder {
	return b.wrap(func(q Query) Query { return Once{Query: q} })
}

// Immediately wraps the current query, committing its side effects eagerly.
func (b *Builder) Immediately() *Builder {
	return b.wrap(func(q Query) Query { return Immediately{Query: q} })
}

// Using wraps the current query, scoping it to collection.
func (b *Builder) Using(collection string) *Builder {
	return b.wrap(func(q Query) Query { return Using{Collection: collection, Query: q} })
}

// From wraps the current query, scoping its reads to graph.
func (b *Builder) From(graph string) *Builder {
	return b.wrap(func(q Query) Query { return From{Graph: graph, Query: q} })
}

// Into wraps the current query, scoping its writes to graph.
func (b *Builder) Into(graph string) *Builder {
	return b.wrap(func(q Query) Query { return Into{Graph: graph, Query: q} })
}

// Eq appends an Equals comparison.
func (b *Builder) Eq(left, right Value) *Builder {
	return b.append(Equals{Left: left, Right: right})
}

// Less appends a Less comparison.
func (b *Builder) Less(left, right DataValue) *Builder {
	return b.append(Less{Left: left, Right: right})
}

// Greater appends a Greater comparison.
func (b *Builder) Greater(left, right DataValue) *Builder {
	return b.append(Greater{Left: left, Right: right})
}

// IsA appends an IsA check.
func (b *Builder) IsA(element, typeOf NodeValue) *Builder {
	return b.append(IsA{Element: element, TypeOf: typeOf})
}

// Subsumption appends a Subsumption check.
func (b *Builder) Subsumption(child, parent NodeValue) *Builder {
	return b.append(Subsumption{Child: child, Parent: parent})
}

// TypeOf appends a TypeOf check.
func (b *Builder) TypeOf(value Value, typeURI NodeValue) *Builder {
	return b.append(TypeOf{Value: value, TypeURI: typeURI})
}

// Typecast appends a Typecast operation.
func (b *Builder) Typecast(value Value, typeURI NodeValue, result Value) *Builder {
	return b.append(Typecast{Value: value, TypeURI: typeURI, Result: result})
}

// Trim appends a Trim operation.
func (b *Builder) Trim(untrimmed, trimmed DataValue) *Builder {
	return b.append(Trim{Untrimmed: untrimmed, Trimmed: trimmed})
}

// Lower appends a Lower operation.
func (b *Builder) Lower(mixed, result DataValue) *Builder {
	return b.append(Lower{Mixed: mixed, Result: result})
}

// Upper appends an Upper operation.
func (b *Builder) Upper(mixed, result DataValue) *Builder {
	return b.append(Upper{Mixed: mixed, Result: result})
}

// Pad appends a Pad operation.
func (b *Builder) Pad(str, char, times, result DataValue) *Builder {
	return b.append(Pad{String: str, Char: char, Times: times, Result: result})
}

// Split appends a Split operation.
func (b *Builder) Split(str, pattern, result DataValue) *Builder {
	return b.append(Split{String: str, Pattern: pattern, Result: result})
}

// Join appends a Join operation.
func (b *Builder) Join(list, separator, result DataValue) *Builder {
	return b.append(Join{List: list, Separator: separator, Result: result})
}

// Concat appends a Concatenate operation.
func (b *Builder) Concat(list, result DataValue) *Builder {
	return b.append(Concatenate{List: list, Result: result})
}

// Substring appends a Substring operation.
func (b *Builder) Substring(str, before, length, after, sub DataValue) *Builder {
	return b.append(Substring{String: str, Before: before, Length: length, After: after, Result: sub})
}

// Regexp appends a Regexp match. result may be nil to discard captures.
func (b *Builder) Regexp(pattern, str DataValue, result DataValue) *Builder {
	return b.append(Regexp{Pattern: pattern, String: str, Result: result})
}

// Like appends a Like similarity computation.
func (b *Builder) Like(left, right, similarity DataValue) *Builder {
	return b.append(Like{Left: left, Right: right, Similarity: similarity})
}

// Member appends a Member check.
func (b *Builder) Member(element, list DataValue) *Builder {
	return b.append(Member{Element: element, List: list})
}

// Dot appends a Dot field access.
func (b *Builder) Dot(document Value, field, result DataValue) *Builder {
	return b.append(Dot{Document: document, Field: field, Result: result})
}

// ReadDocument appends a ReadDocument operation.
func (b *Builder) ReadDocument(identifier NodeValue, document Value) *Builder {
	return b.append(ReadDocument{Identifier: identifier, Document: document})
}

// InsertDocument appends an InsertDocument operation. identifier may be
// nil to discard the newly assigned id.
func (b *Builder) InsertDocument(document Value, identifier NodeValue) *Builder {
	return b.append(InsertDocument{Document: document, Identifier: identifier})
}

// UpdateDocument appends an UpdateDocument operation. identifier may be
// nil to discard the updated id.
func (b *Builder) UpdateDocument(document Value, identifier NodeValue) *Builder {
	return b.append(UpdateDocument{Document: document, Identifier: identifier})
}

// DeleteDocument appends a DeleteDocument operation.
func (b *Builder) DeleteDocument(identifier NodeValue) *Builder {
	return b.append(DeleteDocument{Identifier: identifier})
}

// Data appends a Data literal assertion.
func (b *Builder) Data(value, result DataValue) *Builder {
	return b.append(Data{Value: value, Result: result})
}

// Link appends a Link node assertion.
func (b *Builder) Link(value, result NodeValue) *Builder {
	return b.append(Link{Value: value, Result: result})
}

// Eval appends an Eval operation.
func (b *Builder) Eval(expression ArithExpr, result DataValue) *Builder {
	return b.append(Eval{Expression: expression, Result: result})
}

// Sum_ returns a new Builder holding a standalone Sum; it does not chain
// onto any existing query.
func Sum_(list, result DataValue) *Builder {
	return &Builder{query: Sum{List: list, Result: result}}
}

// Length_ returns a new Builder holding a standalone Length; it does not
// chain onto any existing query.
func Length_(list, result DataValue) *Builder {
	return &Builder{query: Length{List: list, Result: result}}
}

// PathQuery is a standalone operation finding paths matching pattern from
// subject to object, optionally binding the path list to pathVar.
func PathQuery(subject NodeValue, pattern PathPattern, object NodeValue, pathVar Value) *Builder {
	return &Builder{query: Path{Subject: subject, Pattern: pattern, Object: object, PathVar: pathVar}}
}

// TripleCountQuery is a standalone operation binding the triple count of
// resource to count.
func TripleCountQuery(resource string, count DataValue) *Builder {
	return &Builder{query: TripleCount{Resource: resource, Count: count}}
}

func varNames(vars []Variable) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}
