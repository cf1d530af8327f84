package woql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject marshals key/value pairs in insertion order, mirroring
// tdbinstance's own JSON-LD encoder — WOQL's server-side parser does not
// require key order, but a stable order keeps rendered queries diffable
// in tests and logs.
type orderedObject struct {
	keys []string
	vals []json.RawMessage
}

func (o *orderedObject) set(key string, val json.RawMessage) *orderedObject {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
	return o
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(o.vals[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("woql: marshal %T: %v", v, err))
	}
	return raw
}

// Envelope wraps q's JSON-LD form under {"query": ...} for POST to the
// /woql endpoint (spec §4.4 "Embedded in {query: …} for the endpoint").
func Envelope(q Query) json.RawMessage {
	env := &orderedObject{}
	env.set("query", marshalQuery(q))
	raw, err := json.Marshal(env)
	if err != nil {
		panic(fmt.Sprintf("woql: marshal envelope: %v", err))
	}
	return raw
}

// MarshalQuery renders q as a standalone JSON-LD document: every node
// carries "@type": "<NodeName>" with fields named per spec §4.4.
func MarshalQuery(q Query) json.RawMessage { return marshalQuery(q) }

func typed(typeName string) *orderedObject {
	o := &orderedObject{}
	o.set("@type", mustMarshal(typeName))
	return o
}

func marshalQueries(queries []Query) json.RawMessage {
	parts := make([]json.RawMessage, len(queries))
	for i, q := range queries {
		parts[i] = marshalQuery(q)
	}
	return mustMarshal(parts)
}

func marshalQuery(q Query) json.RawMessage {
	switch node := q.(type) {
	case True:
		return mustMarshal(typed("True"))
	case And:
		return mustMarshal(typed("And").set("and", marshalQueries(node.Queries)))
	case Or:
		return mustMarshal(typed("Or").set("or", marshalQueries(node.Queries)))
	case Not:
		return mustMarshal(typed("Not").set("query", marshalQuery(node.Query)))
	case WoqlOptional:
		return mustMarshal(typed("WoqlOptional").set("query", marshalQuery(node.Query)))
	case If:
		return mustMarshal(typed("If").
			set("test", marshalQuery(node.Test)).
			set("then", marshalQuery(node.Then)).
			set("else", marshalQuery(node.Else)))
	case Triple:
		return marshalTripleLike("Triple", node.Subject, node.Predicate, node.Object, node.Graph)
	case AddTriple:
		return marshalTripleLike("AddTriple", node.Subject, node.Predicate, node.Object, node.Graph)
	case DeleteTriple:
		return marshalTripleLike("DeleteTriple", node.Subject, node.Predicate, node.Object, node.Graph)
	case AddedTriple:
		return marshalTripleLike("AddedTriple", node.Subject, node.Predicate, node.Object, node.Graph)
	case IsA:
		return mustMarshal(typed("IsA").set("element", marshalValue(node.Element)).set("type_of", marshalValue(node.TypeOf)))
	case Subsumption:
		return mustMarshal(typed("Subsumption").set("child", marshalValue(node.Child)).set("parent", marshalValue(node.Parent)))
	case TypeOf:
		return mustMarshal(typed("TypeOf").set("value", marshalValue(node.Value)).set("type_uri", marshalValue(node.TypeURI)))
	case Typecast:
		return mustMarshal(typed("Typecast").
			set("value", marshalValue(node.Value)).
			set("type_uri", marshalValue(node.TypeURI)).
			set("result_value", marshalValue(node.Result)))
	case Equals:
		return mustMarshal(typed("Equals").set("left", marshalValue(node.Left)).set("right", marshalValue(node.Right)))
	case Less:
		return mustMarshal(typed("Less").set("left", marshalValue(node.Left)).set("right", marshalValue(node.Right)))
	case Greater:
		return mustMarshal(typed("Greater").set("left", marshalValue(node.Left)).set("right", marshalValue(node.Right)))
	case Member:
		return mustMarshal(typed("Member").set("member", marshalValue(node.Element)).set("list", marshalValue(node.List)))
	case Dot:
		return mustMarshal(typed("Dot").
			set("document", marshalValue(node.Document)).
			set("field", marshalValue(node.Field)).
			set("value", marshalValue(node.Result)))
	case Limit:
		return mustMarshal(typed("Limit").set("limit", mustMarshal(node.Count)).set("query", marshalQuery(node.Query)))
	case Start:
		return mustMarshal(typed("Start").set("start", mustMarshal(node.Count)).set("query", marshalQuery(node.Query)))
	case Select:
		return mustMarshal(typed("Select").set("variables", mustMarshal(node.Variables)).set("query", marshalQuery(node.Query)))
	case Distinct:
		return mustMarshal(typed("Distinct").set("variables", mustMarshal(node.Variables)).set("query", marshalQuery(node.Query)))
	case OrderBy:
		templates := make([]*orderedObject, len(node.Ordering))
		for i, t := range node.Ordering {
			templates[i] = typed("OrderTemplate").set("variable", mustMarshal(t.Variable)).set("order", mustMarshal(string(t.Order)))
		}
		return mustMarshal(typed("OrderBy").set("ordering", mustMarshal(templates)).set("query", marshalQuery(node.Query)))
	case GroupBy:
		return mustMarshal(typed("GroupBy").
			set("template", marshalValue(node.Template)).
			set("group_by", mustMarshal(node.GroupBy)).
			set("grouped", marshalValue(node.Grouped)).
			set("query", marshalQuery(node.Query)))
	case Count:
		return mustMarshal(typed("Count").set("query", marshalQuery(node.Query)).set("count", marshalValue(node.Result)))
	case Sum:
		return mustMarshal(typed("Sum").set("list", marshalValue(node.List)).set("result", marshalValue(node.Result)))
	case Length:
		return mustMarshal(typed("Length").set("list", marshalValue(node.List)).set("length", marshalValue(node.Result)))
	case Concatenate:
		return mustMarshal(typed("Concatenate").set("list", marshalValue(node.List)).set("result_string", marshalValue(node.Result)))
	case Join:
		return mustMarshal(typed("Join").
			set("list", marshalValue(node.List)).
			set("separator", marshalValue(node.Separator)).
			set("result_string", marshalValue(node.Result)))
	case Split:
		return mustMarshal(typed("Split").
			set("string", marshalValue(node.String)).
			set("pattern", marshalValue(node.Pattern)).
			set("list", marshalValue(node.Result)))
	case Substring:
		return mustMarshal(typed("Substring").
			set("string", marshalValue(node.String)).
			set("before", marshalValue(node.Before)).
			set("length", marshalValue(node.Length)).
			set("after", marshalValue(node.After)).
			set("substring", marshalValue(node.Result)))
	case Regexp:
		o := typed("Regexp").set("pattern", marshalValue(node.Pattern)).set("string", marshalValue(node.String))
		if node.Result != nil {
			o.set("result", marshalValue(node.Result))
		}
		return mustMarshal(o)
	case Like:
		return mustMarshal(typed("Like").
			set("left", marshalValue(node.Left)).
			set("right", marshalValue(node.Right)).
			set("similarity", marshalValue(node.Similarity)))
	case Trim:
		return mustMarshal(typed("Trim").set("untrimmed", marshalValue(node.Untrimmed)).set("trimmed", marshalValue(node.Trimmed)))
	case Upper:
		return mustMarshal(typed("Upper").set("mixed", marshalValue(node.Mixed)).set("upper", marshalValue(node.Result)))
	case Lower:
		return mustMarshal(typed("Lower").set("mixed", marshalValue(node.Mixed)).set("lower", marshalValue(node.Result)))
	case Pad:
		return mustMarshal(typed("Pad").
			set("string", marshalValue(node.String)).
			set("char", marshalValue(node.Char)).
			set("times", marshalValue(node.Times)).
			set("result_string", marshalValue(node.Result)))
	case Eval:
		return mustMarshal(typed("Eval").set("expression", marshalArithExpr(node.Expression)).set("result_value", marshalValue(node.Result)))
	case Using:
		return mustMarshal(typed("Using").set("collection", mustMarshal(node.Collection)).set("query", marshalQuery(node.Query)))
	case From:
		return mustMarshal(typed("From").set("graph", mustMarshal(node.Graph)).set("query", marshalQuery(node.Query)))
	case Into:
		return mustMarshal(typed("Into").set("graph", mustMarshal(node.Graph)).set("query", marshalQuery(node.Query)))
	case Path:
		o := typed("Path").
			set("subject", marshalValue(node.Subject)).
			set("pattern", marshalPathPattern(node.Pattern)).
			set("object", marshalValue(node.Object))
		if node.PathVar != nil {
			o.set("path", marshalValue(node.PathVar))
		}
		return mustMarshal(o)
	case ReadDocument:
		return mustMarshal(typed("ReadDocument").set("identifier", marshalValue(node.Identifier)).set("document", marshalValue(node.Document)))
	case InsertDocument:
		o := typed("InsertDocument").set("document", marshalValue(node.Document))
		if node.Identifier != nil {
			o.set("identifier", marshalValue(node.Identifier))
		}
		return mustMarshal(o)
	case UpdateDocument:
		o := typed("UpdateDocument").set("document", marshalValue(node.Document))
		if node.Identifier != nil {
			o.set("identifier", marshalValue(node.Identifier))
		}
		return mustMarshal(o)
	case DeleteDocument:
		return mustMarshal(typed("DeleteDocument").set("identifier", marshalValue(node.Identifier)))
	case Once:
		return mustMarshal(typed("Once").set("query", marshalQuery(node.Query)))
	case Immediately:
		return mustMarshal(typed("Immediately").set("query", marshalQuery(node.Query)))
	case TripleCount:
		return mustMarshal(typed("TripleCount").set("resource", mustMarshal(node.Resource)).set("count", marshalValue(node.Count)))
	case Data:
		return mustMarshal(typed("Data").set("value", marshalValue(node.Value)).set("result", marshalValue(node.Result)))
	case Link:
		return mustMarshal(typed("Link").set("value", marshalValue(node.Value)).set("result", marshalValue(node.Result)))
	default:
		panic(fmt.Sprintf("woql: marshal: unknown query type %T", q))
	}
}

func marshalTripleLike(typeName string, subject, predicate NodeValue, object Value, graph GraphType) json.RawMessage {
	o := typed(typeName).
		set("subject", marshalValue(subject)).
		set("predicate", marshalValue(predicate)).
		set("object", marshalValue(object)).
		set("graph", mustMarshal(renderGraph(graph)))
	return mustMarshal(o)
}

func marshalValue(v Value) json.RawMessage {
	switch val := v.(type) {
	case Variable:
		return mustMarshal(typed("Variable").set("variable_name", mustMarshal(val.Name)))
	case NodeLiteral:
		return mustMarshal(typed("Node").set("node", mustMarshal(val.IRI)))
	case Literal:
		o := typed("Data").set("data", mustMarshal(val.Raw))
		if val.Type != "" {
			o.set("datatype", mustMarshal(val.Type))
		}
		return mustMarshal(o)
	case ListValue:
		items := make([]json.RawMessage, len(val.Items))
		for i, item := range val.Items {
			items[i] = marshalValue(item)
		}
		return mustMarshal(typed("List").set("list", mustMarshal(items)))
	case DictionaryValue:
		obj := &orderedObject{}
		for _, e := range val.Entries {
			obj.set(e.Key, marshalValue(e.Value))
		}
		return mustMarshal(typed("Dictionary").set("dictionary", mustMarshal(obj)))
	default:
		panic(fmt.Sprintf("woql: marshal: unknown value type %T", v))
	}
}

func marshalArithExpr(e ArithExpr) json.RawMessage {
	switch node := e.(type) {
	case ArithValue:
		return mustMarshal(typed("ArithmeticValue").set("value", marshalValue(node.Value)))
	case Plus:
		return marshalArithBinary("Plus", node.Left, node.Right)
	case Minus:
		return marshalArithBinary("Minus", node.Left, node.Right)
	case Times:
		return marshalArithBinary("Times", node.Left, node.Right)
	case Div:
		return marshalArithBinary("Div", node.Left, node.Right)
	case Exp:
		return marshalArithBinary("Exp", node.Left, node.Right)
	default:
		panic(fmt.Sprintf("woql: marshal: unknown arith expr type %T", e))
	}
}

func marshalArithBinary(typeName string, left, right ArithExpr) json.RawMessage {
	return mustMarshal(typed(typeName).set("left", marshalArithExpr(left)).set("right", marshalArithExpr(right)))
}

func marshalPathPattern(p PathPattern) json.RawMessage {
	switch node := p.(type) {
	case PathPredicate:
		return mustMarshal(typed("PathPredicate").set("predicate", mustMarshal(node.Predicate)))
	case InversePathPredicate:
		return mustMarshal(typed("InversePathPredicate").set("predicate", mustMarshal(node.Predicate)))
	case PathStar:
		return mustMarshal(typed("PathStar").set("star", marshalPathPattern(node.Pattern)))
	case PathPlus:
		return mustMarshal(typed("PathPlus").set("plus", marshalPathPattern(node.Pattern)))
	case PathSequence:
		parts := make([]json.RawMessage, len(node.Patterns))
		for i, sub := range node.Patterns {
			parts[i] = marshalPathPattern(sub)
		}
		return mustMarshal(typed("PathSequence").set("sequence", mustMarshal(parts)))
	case PathOr:
		parts := make([]json.RawMessage, len(node.Patterns))
		for i, sub := range node.Patterns {
			parts[i] = marshalPathPattern(sub)
		}
		return mustMarshal(typed("PathOr").set("or", mustMarshal(parts)))
	default:
		panic(fmt.Sprintf("woql: marshal: unknown path pattern type %T", p))
	}
}
