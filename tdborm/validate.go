package tdborm

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/terminusdb/terminusdb-go/tdberr"
)

// validateQuery parses the generated probe document against gqlparser's
// own grammar before it ever reaches the wire. A planner bug (a typo'd
// synthetic field name, an unbalanced fragment) then fails locally as a
// BadRequest instead of a round trip to the server.
func validateQuery(query string) error {
	if _, err := parser.ParseQuery(&ast.Source{Input: query}); err != nil {
		return tdberr.New(tdberr.BadRequest, "orm_execute", "", err)
	}
	return nil
}
