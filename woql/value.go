package woql

import "fmt"

// Value is the broadest WOQL operand: anything that can appear where the
// language accepts a variable, a node IRI, a literal, a list or a
// dictionary (spec §4.4 "Value"). NodeValue and DataValue are narrower
// views used where the language restricts what an operand may be.
type Value interface {
	isValue()
}

// NodeValue restricts Value to what may denote a graph node: a variable
// or an IRI (spec §4.4 "NodeValue").
type NodeValue interface {
	Value
	isNodeValue()
}

// DataValue restricts Value to what may denote a literal: a variable or a
// literal datum (spec §4.4 "DataValue").
type DataValue interface {
	Value
	isDataValue()
}

// Variable is a WOQL logic variable. It satisfies Value, NodeValue and
// DataValue simultaneously, since a variable may be bound to any of them
// at query-execution time.
type Variable struct {
	Name string
}

func (Variable) isValue()     {}
func (Variable) isNodeValue() {}
func (Variable) isDataValue() {}

// Var constructs a Variable. The leading "$" used in DSL text is added by
// the renderer, not stored on the value.
func Var(name string) Variable { return Variable{Name: name} }

// NodeLiteral is a bare IRI used as a NodeValue (spec §4.4 "Node").
type NodeLiteral struct {
	IRI string
}

func (NodeLiteral) isValue()     {}
func (NodeLiteral) isNodeValue() {}

// Node constructs a NodeLiteral, e.g. Node("rdf:type") or Node("@schema:Person").
func Node(iri string) NodeLiteral { return NodeLiteral{IRI: iri} }

// Literal is a scalar datum carrying an XSD datatype (spec §4.4 "Data").
// Type follows the xsd: prefix convention ("xsd:string", "xsd:integer",
// "xsd:boolean", "xsd:decimal", ...); an empty Type leaves "datatype" out
// of the JSON-LD form. The DSL renderer formats Raw by its Go type and
// does not print Type.
type Literal struct {
	Raw  any
	Type string
}

func (Literal) isValue()     {}
func (Literal) isDataValue() {}

// Str, Int, Float and Bool construct Literal values of the corresponding
// XSD datatype.
func Str(v string) Literal    { return Literal{Raw: v, Type: "xsd:string"} }
func Int(v int64) Literal     { return Literal{Raw: v, Type: "xsd:integer"} }
func Float(v float64) Literal { return Literal{Raw: v, Type: "xsd:decimal"} }
func Bool(v bool) Literal     { return Literal{Raw: v, Type: "xsd:boolean"} }

// ListValue is an ordered WOQL list value (spec §4.4 "List").
type ListValue struct {
	Items []Value
}

func (ListValue) isValue()     {}
func (ListValue) isDataValue() {}

// List constructs a ListValue.
func List(items ...Value) ListValue { return ListValue{Items: items} }

// DictEntry is one key/value pair of a DictionaryValue.
type DictEntry struct {
	Key   string
	Value Value
}

// DictionaryValue is a WOQL dictionary literal (spec §4.4 "Dictionary"),
// typically used as an insert/update document template. Entries are kept
// in insertion order so DSL/JSON-LD output is deterministic.
type DictionaryValue struct {
	Entries []DictEntry
}

func (DictionaryValue) isValue() {}

// Dict constructs a DictionaryValue from ordered key/value pairs.
func Dict(entries ...DictEntry) DictionaryValue { return DictionaryValue{Entries: entries} }

// Entry builds one DictEntry, for use with Dict.
func Entry(key string, value Value) DictEntry { return DictEntry{Key: key, Value: value} }

func (v Variable) String() string { return fmt.Sprintf("$%s", v.Name) }
