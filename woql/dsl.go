package woql

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders q in WOQL's DSL function-call syntax, e.g.
// "select([$Person], and(triple(...), triple(...)))".
func String(q Query) string { return renderQuery(q) }

func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func renderFunction(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

func renderListValue(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

func renderValue(v Value) string {
	switch val := v.(type) {
	case Variable:
		return "$" + val.Name
	case NodeLiteral:
		return escapeString(val.IRI)
	case Literal:
		return renderLiteral(val)
	case ListValue:
		items := make([]string, len(val.Items))
		for i, item := range val.Items {
			items[i] = renderValue(item)
		}
		return renderListValue(items)
	case DictionaryValue:
		return renderDictionary(val)
	default:
		return fmt.Sprintf("/* unknown value %T */", v)
	}
}

func renderLiteral(l Literal) string {
	switch raw := l.Raw.(type) {
	case string:
		return escapeString(raw)
	case bool:
		return strconv.FormatBool(raw)
	case int64:
		return strconv.FormatInt(raw, 10)
	case int:
		return strconv.Itoa(raw)
	case float64:
		return strconv.FormatFloat(raw, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", raw)
	}
}

func renderDictionary(d DictionaryValue) string {
	if len(d.Entries) == 0 {
		return "{}"
	}
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = escapeString(e.Key) + ": " + renderValue(e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func renderNodeValue(v NodeValue) string { return renderValue(v) }
func renderDataValue(v DataValue) string { return renderValue(v) }

func renderVarNames(names []string) string {
	items := make([]string, len(names))
	for i, n := range names {
		items[i] = "$" + n
	}
	return renderListValue(items)
}

func renderGraph(g GraphType) string {
	if g == "" {
		return string(GraphInstance)
	}
	return string(g)
}

func renderQuery(q Query) string {
	switch node := q.(type) {
	case True:
		return "true()"
	case And:
		return renderFunction("and", renderQueries(node.Queries)...)
	case Or:
		return renderFunction("or", renderQueries(node.Queries)...)
	case Not:
		return renderFunction("not", renderQuery(node.Query))
	case WoqlOptional:
		return renderFunction("opt", renderQuery(node.Query))
	case If:
		return renderFunction("when", renderQuery(node.Test), renderQuery(node.Then), renderQuery(node.Else))
	case Triple:
		return renderTripleLike("triple", node.Subject, node.Predicate, node.Object, node.Graph)
	case AddTriple:
		return renderTripleLike("add_triple", node.Subject, node.Predicate, node.Object, node.Graph)
	case DeleteTriple:
		return renderTripleLike("delete_triple", node.Subject, node.Predicate, node.Object, node.Graph)
	case AddedTriple:
		return renderTripleLike("added_triple", node.Subject, node.Predicate, node.Object, node.Graph)
	case IsA:
		return renderFunction("isa", renderNodeValue(node.Element), renderNodeValue(node.TypeOf))
	case Subsumption:
		return renderFunction("sub", renderNodeValue(node.Child), renderNodeValue(node.Parent))
	case TypeOf:
		return renderFunction("type_of", renderValue(node.Value), renderNodeValue(node.TypeURI))
	case Typecast:
		return renderFunction("typecast", renderValue(node.Value), renderNodeValue(node.TypeURI), renderValue(node.Result))
	case Equals:
		return renderFunction("eq", renderValue(node.Left), renderValue(node.Right))
	case Less:
		return renderFunction("less", renderDataValue(node.Left), renderDataValue(node.Right))
	case Greater:
		return renderFunction("greater", renderDataValue(node.Left), renderDataValue(node.Right))
	case Member:
		return renderFunction("member", renderDataValue(node.Element), renderDataValue(node.List))
	case Dot:
		return renderFunction("dot", renderValue(node.Document), renderDataValue(node.Field), renderDataValue(node.Result))
	case Limit:
		return renderFunction("limit", strconv.FormatUint(node.Count, 10), renderQuery(node.Query))
	case Start:
		return renderFunction("start", strconv.FormatUint(node.Count, 10), renderQuery(node.Query))
	case Select:
		return renderFunction("select", renderVarNames(node.Variables), renderQuery(node.Query))
	case Distinct:
		return renderFunction("distinct", renderVarNames(node.Variables), renderQuery(node.Query))
	case OrderBy:
		templates := make([]string, len(node.Ordering))
		for i, t := range node.Ordering {
			fn := "asc"
			if t.Order == Desc {
				fn = "desc"
			}
			templates[i] = renderFunction(fn, "$"+t.Variable)
		}
		return renderFunction("order_by", renderListValue(templates), renderQuery(node.Query))
	case GroupBy:
		return renderFunction("group_by", renderVarNames(node.GroupBy), renderValue(node.Template), renderValue(node.Grouped), renderQuery(node.Query))
	case Count:
		return renderFunction("count", renderQuery(node.Query), renderDataValue(node.Result))
	case Sum:
		return renderFunction("sum", renderDataValue(node.List), renderDataValue(node.Result))
	case Length:
		return renderFunction("length", renderDataValue(node.List), renderDataValue(node.Result))
	case Concatenate:
		return renderFunction("concat", renderDataValue(node.List), renderDataValue(node.Result))
	case Join:
		return renderFunction("join", renderDataValue(node.List), renderDataValue(node.Separator), renderDataValue(node.Result))
	case Split:
		return renderFunction("split", renderDataValue(node.String), renderDataValue(node.Pattern), renderDataValue(node.Result))
	case Substring:
		return renderFunction("substring", renderDataValue(node.String), renderDataValue(node.Before), renderDataValue(node.Length), renderDataValue(node.After), renderDataValue(node.Result))
	case Regexp:
		if node.Result == nil {
			return renderFunction("regexp", renderDataValue(node.Pattern), renderDataValue(node.String))
		}
		return renderFunction("regexp", renderDataValue(node.Pattern), renderDataValue(node.String), renderDataValue(node.Result))
	case Like:
		return renderFunction("like", renderDataValue(node.Left), renderDataValue(node.Right), renderDataValue(node.Similarity))
	case Trim:
		return renderFunction("trim", renderDataValue(node.Untrimmed), renderDataValue(node.Trimmed))
	case Upper:
		return renderFunction("upper", renderDataValue(node.Mixed), renderDataValue(node.Result))
	case Lower:
		return renderFunction("lower", renderDataValue(node.Mixed), renderDataValue(node.Result))
	case Pad:
		return renderFunction("pad", renderDataValue(node.String), renderDataValue(node.Char), renderDataValue(node.Times), renderDataValue(node.Result))
	case Eval:
		return renderFunction("eval", renderArithExpr(node.Expression), renderDataValue(node.Result))
	case Using:
		return renderFunction("using", escapeString(node.Collection), renderQuery(node.Query))
	case From:
		return renderFunction("from", escapeString(node.Graph), renderQuery(node.Query))
	case Into:
		return renderFunction("into", escapeString(node.Graph), renderQuery(node.Query))
	case Path:
		if node.PathVar == nil {
			return renderFunction("path", renderNodeValue(node.Subject), renderPathPattern(node.Pattern), renderNodeValue(node.Object))
		}
		return renderFunction("path", renderNodeValue(node.Subject), renderPathPattern(node.Pattern), renderNodeValue(node.Object), renderValue(node.PathVar))
	case ReadDocument:
		return renderFunction("read_document", renderNodeValue(node.Identifier), renderValue(node.Document))
	case InsertDocument:
		if node.Identifier == nil {
			return renderFunction("insert_document", renderValue(node.Document))
		}
		return renderFunction("insert_document", renderValue(node.Document), renderNodeValue(node.Identifier))
	case UpdateDocument:
		if node.Identifier == nil {
			return renderFunction("update_document", renderValue(node.Document))
		}
		return renderFunction("update_document", renderValue(node.Document), renderNodeValue(node.Identifier))
	case DeleteDocument:
		return renderFunction("delete_document", renderNodeValue(node.Identifier))
	case Once:
		return renderFunction("once", renderQuery(node.Query))
	case Immediately:
		return renderFunction("immediately", renderQuery(node.Query))
	case TripleCount:
		return renderFunction("triple_count", escapeString(node.Resource), renderDataValue(node.Count))
	case Data:
		return renderFunction("data", renderDataValue(node.Value), renderDataValue(node.Result))
	case Link:
		return renderFunction("link", renderNodeValue(node.Value), renderNodeValue(node.Result))
	default:
		return fmt.Sprintf("/* unknown query %T */", q)
	}
}

func renderTripleLike(name string, subject, predicate NodeValue, object Value, graph GraphType) string {
	if graph == "" || graph == GraphInstance {
		return renderFunction(name, renderNodeValue(subject), renderNodeValue(predicate), renderValue(object))
	}
	return renderFunction(name, renderNodeValue(subject), renderNodeValue(predicate), renderValue(object), renderGraph(graph))
}

func renderQueries(queries []Query) []string {
	out := make([]string, len(queries))
	for i, q := range queries {
		out[i] = renderQuery(q)
	}
	return out
}

func renderArithExpr(e ArithExpr) string {
	switch node := e.(type) {
	case ArithValue:
		return renderDataValue(node.Value)
	case Plus:
		return renderFunction("plus", renderArithExpr(node.Left), renderArithExpr(node.Right))
	case Minus:
		return renderFunction("minus", renderArithExpr(node.Left), renderArithExpr(node.Right))
	case Times:
		return renderFunction("times", renderArithExpr(node.Left), renderArithExpr(node.Right))
	case Div:
		return renderFunction("div", renderArithExpr(node.Left), renderArithExpr(node.Right))
	case Exp:
		return renderFunction("exp", renderArithExpr(node.Left), renderArithExpr(node.Right))
	default:
		return fmt.Sprintf("/* unknown arith expr %T */", e)
	}
}

func renderPathPattern(p PathPattern) string {
	switch node := p.(type) {
	case PathPredicate:
		if node.Predicate == "" {
			return `pred("")`
		}
		return renderFunction("pred", escapeString(node.Predicate))
	case InversePathPredicate:
		if node.Predicate == "" {
			return `inv("")`
		}
		return renderFunction("inv", escapeString(node.Predicate))
	case PathStar:
		return renderFunction("star", renderPathPattern(node.Pattern))
	case PathPlus:
		return renderFunction("plus", renderPathPattern(node.Pattern))
	case PathSequence:
		parts := make([]string, len(node.Patterns))
		for i, sub := range node.Patterns {
			parts[i] = renderPathPattern(sub)
		}
		return renderFunction("seq", parts...)
	case PathOr:
		parts := make([]string, len(node.Patterns))
		for i, sub := range node.Patterns {
			parts[i] = renderPathPattern(sub)
		}
		return renderFunction("or", parts...)
	default:
		return fmt.Sprintf("/* unknown path pattern %T */", p)
	}
}
