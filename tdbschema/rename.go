package tdbschema

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenamePolicy controls how a tagged union / enum's Go variant identifiers
// are mapped to the wire-level variant name emitted in JSON-LD (spec §4.1:
// "Enum variant names lowercased by default; a configurable rename policy
// ... may override").
type RenamePolicy int

const (
	// RenameLowercase lowercases the identifier verbatim. This is the default.
	RenameLowercase RenamePolicy = iota
	// RenameSnake converts to snake_case.
	RenameSnake
	// RenameCamel converts to camelCase.
	RenameCamel
	// RenamePascal converts to PascalCase.
	RenamePascal
	// RenameKebab converts to kebab-case.
	RenameKebab
	// RenameUpper uppercases the identifier verbatim.
	RenameUpper
	// RenameScreamingSnake converts to SCREAMING_SNAKE_CASE.
	RenameScreamingSnake
)

var upperCaser = cases.Upper(language.Und)

// Apply renders name (a Go identifier such as "PendingReview") according to
// the policy.
func (p RenamePolicy) Apply(name string) string {
	switch p {
	case RenameSnake:
		return inflect.Underscore(name)
	case RenameCamel:
		return inflect.CamelizeDownFirst(name)
	case RenamePascal:
		return inflect.Camelize(name)
	case RenameKebab:
		return strings.ReplaceAll(inflect.Underscore(name), "_", "-")
	case RenameUpper:
		return upperCaser.String(name)
	case RenameScreamingSnake:
		return upperCaser.String(inflect.Underscore(name))
	case RenameLowercase:
		fallthrough
	default:
		return strings.ToLower(name)
	}
}
