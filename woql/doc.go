// Package woql implements the WOQL query language: a closed AST (spec
// §4.4), a fluent Builder that assembles it under an implicit-conjunction
// policy, a DSL renderer producing the function-call syntax WOQL's own
// tooling prints, and a JSON-LD encoder for submitting a query to the
// /woql endpoint.
//
// Construct queries with the Builder rather than the AST types directly:
//
//	q := woql.New().
//		Triple(woql.Var("Person"), woql.Node("rdf:type"), woql.Node("@schema:Person")).
//		Triple(woql.Var("Person"), woql.Node("name"), woql.Var("Name")).
//		Select(woql.Var("Person"), woql.Var("Name")).
//		Finalize()
//
//	fmt.Println(q.String()) // select([$Person, $Name], and(triple(...), triple(...)))
package woql
