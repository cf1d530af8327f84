// Package tdbschema models TerminusDB schema values: classes, tagged
// unions, enums and one-of classes, their properties, keys and type
// families, plus the class-name-deduplicated tree walk used to lift a
// domain type's transitive schema graph into a flat, server-submittable
// list (spec.md §3 "Schema", §4.1 "Schema Model").
//
// # Defining a class
//
//	person := tdbschema.Class{
//	    ID:  "Person",
//	    Key: tdbschema.LexicalKey("id"),
//	    Properties: []tdbschema.Property{
//	        {Name: "id", Class: "xsd:string"},
//	        {Name: "name", Class: "xsd:string"},
//	        {Name: "age", Class: "xsd:integer"},
//	        {Name: "nickname", Class: "xsd:string", TypeFamily: tdbschema.Optional()},
//	    },
//	}
//
// # Walking the schema tree
//
// Domain types that implement TypeConformer (normally via tdbmodel's
// registry) can have their full referenced-class graph collected with
// BuildTree, which stops recursing the moment a class name it has already
// seen reappears — the standard defense against cyclic schemas (§9).
package tdbschema
