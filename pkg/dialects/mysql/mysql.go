// Package mysql provides the MySQL dialect definition: backtick
// delimited identifiers, backslash string escapes, and digit-led
// unquoted identifiers.
package mysql

import (
	"unicode"

	"github.com/leapstack-labs/squill/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect.
var MySQL = dialect.New("mysql").
	IdentifierStart(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
	}).
	IdentifierPart(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
	}).
	DelimitedBy('`').
	Flags(dialect.Flags{
		SupportsNumericPrefix:                true,
		SupportsStringLiteralBackslashEscape: true,
		SupportsInEmptyList:                  true,
		SupportsGroupByExpression:            true,
		SupportsSubstringFromForExpression:   true,
		SupportsStartTransactionModifier:     true,
	}).
	Build()
