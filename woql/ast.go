package woql

// Query is the closed sum type of every WOQL operation (spec §4.4
// "Query"). The Builder assembles Query values under an implicit
// conjunction policy; the AST itself is a plain tree with no flattening
// behavior of its own.
type Query interface {
	isQuery()
	// String renders the query in WOQL's DSL syntax.
	String() string
}

// True always succeeds. It is the Builder's empty-query identity and the
// else-branch default of If/When.
type True struct{}

// And succeeds if every element of Queries succeeds, threading variable
// bindings left to right.
type And struct {
	Queries []Query
}

// Or succeeds if any element of Queries succeeds.
type Or struct {
	Queries []Query
}

// Not succeeds iff Query fails. WOQL has no negation of True as a
// distinct primitive; Not{True{}} is a legal, if unusual, AST shape and
// the Builder does not simplify it away.
type Not struct {
	Query Query
}

// WoqlOptional succeeds whether or not Query succeeds; if Query fails,
// its variable bindings are simply absent rather than failing the
// surrounding conjunction.
type WoqlOptional struct {
	Query Query
}

// If runs Then if Test succeeds, otherwise Else.
type If struct {
	Test Query
	Then Query
	Else Query
}

// GraphType selects which named graph a triple operation targets.
type GraphType string

const (
	GraphInstance GraphType = "instance"
	GraphSchema   GraphType = "schema"
)

// Triple matches an existing edge (Subject, Predicate, Object) in Graph.
type Triple struct {
	Subject   NodeValue
	Predicate NodeValue
	Object    Value
	Graph     GraphType
}

// AddTriple stages the edge for insertion on commit.
type AddTriple struct {
	Subject   NodeValue
	Predicate NodeValue
	Object    Value
	Graph     GraphType
}

// DeleteTriple stages the edge for removal on commit.
type DeleteTriple struct {
	Subject   NodeValue
	Predicate NodeValue
	Object    Value
	Graph     GraphType
}

// AddedTriple matches an edge added within the current commit context
// (typically reached via Using on a commit IRI).
type AddedTriple struct {
	Subject   NodeValue
	Predicate NodeValue
	Object    Value
	Graph     GraphType
}

// IsA succeeds if Element has runtime type TypeOf.
type IsA struct {
	Element NodeValue
	TypeOf  NodeValue
}

// Subsumption succeeds if Child is Parent or a subclass of Parent.
type Subsumption struct {
	Child  NodeValue
	Parent NodeValue
}

// TypeOf binds the schema type of Value to TypeURI.
type TypeOf struct {
	Value   Value
	TypeURI NodeValue
}

// Typecast casts Value to TypeURI, binding the result to Result.
type Typecast struct {
	Value   Value
	TypeURI NodeValue
	Result  Value
}

// Equals succeeds if Left and Right unify to the same value.
type Equals struct {
	Left, Right Value
}

// Less succeeds if Left orders before Right.
type Less struct {
	Left, Right DataValue
}

// Greater succeeds if Left orders after Right.
type Greater struct {
	Left, Right DataValue
}

// Member succeeds if Element occurs in List.
type Member struct {
	Element DataValue
	List    DataValue
}

// Dot binds the value of Field within Document to Result.
type Dot struct {
	Document Value
	Field    DataValue
	Result   DataValue
}

// Limit bounds Query to at most N results.
type Limit struct {
	Count uint64
	Query Query
}

// Start skips the first N results of Query.
type Start struct {
	Count uint64
	Query Query
}

// Select projects Query's result bindings down to Variables.
type Select struct {
	Variables []string
	Query     Query
}

// Distinct deduplicates Query's results over Variables.
type Distinct struct {
	Variables []string
	Query     Query
}

// Order is the sort direction of one OrderTemplate entry.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// OrderTemplate pairs a variable with its sort direction.
type OrderTemplate struct {
	Variable string
	Order    Order
}

// OrderBy sorts Query's results by Ordering, in order.
type OrderBy struct {
	Ordering []OrderTemplate
	Query    Query
}

// GroupBy runs Query, groups its solutions by the GroupBy variables, and for each
// group binds Template's variables into one entry of the list bound to
// Grouped.
type GroupBy struct {
	Template Value
	GroupBy  []string
	Grouped  Value
	Query    Query
}

// Count binds the number of solutions of Query to Result.
type Count struct {
	Query  Query
	Result DataValue
}

// Sum binds the sum of the numbers in List to Result. Standalone: it does
// not wrap a subquery.
type Sum struct {
	List   DataValue
	Result DataValue
}

// Length binds the length of List to Result. Standalone.
type Length struct {
	List   DataValue
	Result DataValue
}

// Concatenate joins the strings in List (no separator) and binds the
// result to Result.
type Concatenate struct {
	List   DataValue
	Result DataValue
}

// Join joins the strings in List using Separator and binds the result to
// Result.
type Join struct {
	List      DataValue
	Separator DataValue
	Result    DataValue
}

// Split breaks String apart on Pattern and binds the resulting list to
// Result.
type Split struct {
	String  DataValue
	Pattern DataValue
	Result  DataValue
}

// Substring extracts a run of String starting Before characters in,
// Length characters long, leaving After trailing characters, and binds
// it to Result.
type Substring struct {
	String         DataValue
	Before, Length DataValue
	After          DataValue
	Result         DataValue
}

// Regexp matches String against Pattern (PCRE syntax), optionally binding
// the captured groups to Result.
type Regexp struct {
	Pattern DataValue
	String  DataValue
	Result  DataValue // nil when the match result is discarded
}

// Like computes a similarity score in [-1, 1] between Left and Right and
// binds it to Similarity.
type Like struct {
	Left, Right DataValue
	Similarity  DataValue
}

// Trim strips leading/trailing whitespace from Untrimmed and binds the
// result to Trimmed.
type Trim struct {
	Untrimmed DataValue
	Trimmed   DataValue
}

// Upper binds the uppercased form of Mixed to Result.
type Upper struct {
	Mixed  DataValue
	Result DataValue
}

// Lower binds the lowercased form of Mixed to Result.
type Lower struct {
	Mixed  DataValue
	Result DataValue
}

// Pad pads String with Char, Times times, binding the result to Result.
type Pad struct {
	String DataValue
	Char   DataValue
	Times  DataValue
	Result DataValue
}

// Eval evaluates Expression and binds the numeric result to Result.
type Eval struct {
	Expression ArithExpr
	Result     DataValue
}

// Using scopes Query to the resource (database/repository/commit) named
// by Collection.
type Using struct {
	Collection string
	Query      Query
}

// From scopes Query's reads to the graph named by Graph.
type From struct {
	Graph string
	Query Query
}

// Into scopes Query's writes to the graph named by Graph.
type Into struct {
	Graph string
	Query Query
}

// Path finds paths matching Pattern from Subject to Object, optionally
// binding the path itself to PathVar.
type Path struct {
	Subject NodeValue
	Pattern PathPattern
	Object  NodeValue
	PathVar Value // nil when the path list is discarded
}

// ReadDocument reads the document identified by Identifier and binds it
// to Document.
type ReadDocument struct {
	Identifier NodeValue
	Document   Value
}

// InsertDocument inserts Document, optionally binding its assigned IRI
// to Identifier.
type InsertDocument struct {
	Document   Value
	Identifier NodeValue // nil when the new id is discarded
}

// UpdateDocument updates the document named by Document's own @id,
// optionally binding that id to Identifier.
type UpdateDocument struct {
	Document   Value
	Identifier NodeValue // nil when the updated id is discarded
}

// DeleteDocument deletes the document identified by Identifier.
type DeleteDocument struct {
	Identifier NodeValue
}

// Once limits Query to at most one solution.
type Once struct {
	Query Query
}

// Immediately commits Query's side effects eagerly rather than at the end
// of the enclosing transaction.
type Immediately struct {
	Query Query
}

// TripleCount binds the number of triples in Resource to Count.
// Standalone: it does not wrap a subquery.
type TripleCount struct {
	Resource string
	Count    DataValue
}

// Data asserts a literal value, binding it to Result. Used where the DSL
// needs to name a literal assignment explicitly rather than leaving it
// implicit in a Triple's object position.
type Data struct {
	Value  DataValue
	Result DataValue
}

// Link asserts a node reference, binding it to Result — the NodeValue
// counterpart of Data.
type Link struct {
	Value  NodeValue
	Result NodeValue
}

func (True) isQuery()           {}
func (And) isQuery()            {}
func (Or) isQuery()             {}
func (Not) isQuery()            {}
func (WoqlOptional) isQuery()   {}
func (If) isQuery()             {}
func (Triple) isQuery()         {}
func (AddTriple) isQuery()      {}
func (DeleteTriple) isQuery()   {}
func (AddedTriple) isQuery()    {}
func (IsA) isQuery()            {}
func (Subsumption) isQuery()    {}
func (TypeOf) isQuery()         {}
func (Typecast) isQuery()       {}
func (Equals) isQuery()         {}
func (Less) isQuery()           {}
func (Greater) isQuery()        {}
func (Member) isQuery()         {}
func (Dot) isQuery()            {}
func (Limit) isQuery()          {}
func (Start) isQuery()          {}
func (Select) isQuery()         {}
func (Distinct) isQuery()       {}
func (OrderBy) isQuery()        {}
func (GroupBy) isQuery()        {}
func (Count) isQuery()          {}
func (Sum) isQuery()            {}
func (Length) isQuery()         {}
func (Concatenate) isQuery()    {}
func (Join) isQuery()           {}
func (Split) isQuery()          {}
func (Substring) isQuery()      {}
func (Regexp) isQuery()         {}
func (Like) isQuery()           {}
func (Trim) isQuery()           {}
func (Upper) isQuery()          {}
func (Lower) isQuery()          {}
func (Pad) isQuery()            {}
func (Eval) isQuery()           {}
func (Using) isQuery()          {}
func (From) isQuery()           {}
func (Into) isQuery()           {}
func (Path) isQuery()           {}
func (ReadDocument) isQuery()   {}
func (InsertDocument) isQuery() {}
func (UpdateDocument) isQuery() {}
func (DeleteDocument) isQuery() {}
func (Once) isQuery()           {}
func (Immediately) isQuery()    {}
func (TripleCount) isQuery()    {}
func (Data) isQuery()           {}
func (Link) isQuery()           {}
