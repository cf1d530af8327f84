package tdbschema

// Key determines how the server materializes a class instance's @id when
// one is not supplied by the caller. Key is a closed sum type: the only
// implementations are the unexported structs returned by the constructors
// below, mirroring the variant set in spec.md §3 ("Key — variants
// { Random, Lexical(field_list), Hash(field_list), ValueHash, Default }").
type Key interface {
	isKey()
	// Fields returns the property names the key is derived from, or nil
	// for key kinds that do not depend on property values.
	Fields() []string
	// Kind returns the variant tag, useful for serialization and tests
	// without needing a type switch at every call site.
	Kind() KeyKind
}

// KeyKind tags which Key variant a value holds.
type KeyKind int

const (
	// KeyRandom lets the server assign an opaque random id.
	KeyRandom KeyKind = iota
	// KeyLexical derives the id from the literal values of Fields, in order.
	KeyLexical
	// KeyHash derives the id from a hash of the values of Fields, in order.
	KeyHash
	// KeyValueHash derives the id from a hash of the entire instance value.
	KeyValueHash
	// KeyDefault defers to the server's default key strategy.
	KeyDefault
)

type randomKey struct{}

func (randomKey) isKey()        {}
func (randomKey) Fields() []string { return nil }
func (randomKey) Kind() KeyKind { return KeyRandom }

type lexicalKey struct{ fields []string }

func (lexicalKey) isKey()            {}
func (k lexicalKey) Fields() []string { return k.fields }
func (lexicalKey) Kind() KeyKind     { return KeyLexical }

type hashKey struct{ fields []string }

func (hashKey) isKey()            {}
func (k hashKey) Fields() []string { return k.fields }
func (hashKey) Kind() KeyKind     { return KeyHash }

type valueHashKey struct{}

func (valueHashKey) isKey()        {}
func (valueHashKey) Fields() []string { return nil }
func (valueHashKey) Kind() KeyKind { return KeyValueHash }

type defaultKey struct{}

func (defaultKey) isKey()        {}
func (defaultKey) Fields() []string { return nil }
func (defaultKey) Kind() KeyKind { return KeyDefault }

// RandomKey returns a Key that lets the server assign an opaque id.
func RandomKey() Key { return randomKey{} }

// LexicalKey returns a Key that derives the id from the literal values of
// the named fields, in the given order.
func LexicalKey(fields ...string) Key { return lexicalKey{fields: fields} }

// HashKey returns a Key that derives the id from a hash of the values of
// the named fields, in the given order.
func HashKey(fields ...string) Key { return hashKey{fields: fields} }

// ValueHashKey returns a Key that derives the id from a hash of the whole
// instance value.
func ValueHashKey() Key { return valueHashKey{} }

// DefaultKey returns a Key that defers to the server's default strategy.
func DefaultKey() Key { return defaultKey{} }
