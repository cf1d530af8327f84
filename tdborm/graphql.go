package tdborm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
)

// graphqlFieldName maps a schema property name to the casing TerminusDB's
// GraphQL layer actually serves fields under. tdbschema property names
// are written as-is into JSON-LD (snake_case is common); the generated
// GraphQL schema camelCases them, so the probe query has to follow suit
// or the server 400s on an unknown field.
func graphqlFieldName(property string) string {
	return inflect.CamelizeDownFirst(property)
}

// syntheticFieldName is the wire field name a relation appears under in
// the GraphQL probe response (spec §4.5 step 1): a forward relation uses
// its own field name; a reverse relation uses the source's
// `_{field}_of_{TargetType}` convention — the field that, on the related
// type R, points back at the host (crates/orm/src/compose.rs
// `extract_relation_ids_recursive`).
func syntheticFieldName(rel RelationSpec) string {
	if rel.Direction == DirectionForward {
		return graphqlFieldName(rel.Field)
	}
	return fmt.Sprintf("_%s_of_%s", graphqlFieldName(rel.Field), rel.TargetType)
}

// idsFilter builds a `{_id: {in: [...]}}` GraphQL filter argument for a
// set of known primary ids. resolver.rs (which would have built the
// root query's args) is not present in the retrieval pack, so this
// shape is a documented judgment call rather than a direct port — see
// DESIGN.md.
func idsFilter(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	return fmt.Sprintf("{_id: {in: [%s]}}", strings.Join(quoted, ", "))
}

// buildFragment renders one root selection (spec §4.5 step 1: "Root:
// <PrimaryType>(…args…) { _id <nested> }"), grounded directly on
// compose.rs's build_query_entry_fragment.
func buildFragment(typeName, filterGQL, orderByGQL string, limit, offset int, ids []string, relations []RelationSpec) string {
	var args []string
	filter := filterGQL
	if filter == "" && len(ids) > 0 {
		filter = idsFilter(ids)
	}
	if filter != "" {
		args = append(args, "filter: "+filter)
	}
	if orderByGQL != "" {
		args = append(args, "orderBy: "+orderByGQL)
	}
	if limit > 0 {
		args = append(args, fmt.Sprintf("limit: %d", limit))
	}
	if offset > 0 {
		args = append(args, fmt.Sprintf("offset: %d", offset))
	}
	argStr := ""
	if len(args) > 0 {
		argStr = "(" + strings.Join(args, ", ") + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s%s {\n    _id\n", typeName, argStr)
	for _, rel := range relations {
		writeRelationSpec(&b, rel, "    ")
	}
	b.WriteString("  }")
	return b.String()
}

func writeRelationSpec(b *strings.Builder, rel RelationSpec, indent string) {
	fmt.Fprintf(b, "%s%s {\n%s  _id\n", indent, syntheticFieldName(rel), indent)
	for _, child := range rel.Children {
		writeRelationSpec(b, child, indent+"  ")
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

// buildQuery wraps one or more fragments in a `query { ... }` document
// (spec §4.5 "Composable multi-type queries ... one GraphQL request").
func buildQuery(fragments []string) string {
	if len(fragments) == 0 {
		return "query { __typename }"
	}
	return fmt.Sprintf("query {\n%s\n}", strings.Join(fragments, "\n"))
}

// extractIDs walks a GraphQL response's decoded data for typeName,
// collecting every root _id plus every nested relation _id (spec §4.5
// step 2 "All _id's are collected recursively"), grounded directly on
// compose.rs's extract_ids_from_entry / extract_relation_ids_recursive.
func extractIDs(data map[string]any, typeName string, relations []RelationSpec, out *[]string) {
	arr, ok := data[typeName].([]any)
	if !ok {
		return
	}
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["_id"].(string); ok {
			*out = append(*out, id)
		}
		extractRelationIDs(obj, relations, out)
	}
}

func extractRelationIDs(item map[string]any, relations []RelationSpec, out *[]string) {
	for _, rel := range relations {
		relData, ok := item[syntheticFieldName(rel)]
		if !ok {
			continue
		}
		arr, ok := relData.([]any)
		if !ok {
			continue
		}
		for _, relItem := range arr {
			obj, ok := relItem.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := obj["_id"].(string); ok {
				*out = append(*out, id)
			}
			extractRelationIDs(obj, rel.Children, out)
		}
	}
}
