// Package dialect defines the Dialect value that specialises the
// generic parser to a particular SQL variant: character classifiers,
// parser hooks, operator precedence overrides, and capability flags.
//
// Concrete dialect definitions live in pkg/dialects/* and register
// themselves here via init.
package dialect

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Flags are the read-only capability switches a dialect exposes. Each
// gates a piece of grammar in the built-in parser or lexer, except
// SupportsMatchRecognize and SupportsConnectBy, which the built-in
// parser and lexer do not read.
type Flags struct {
	SupportsFilterDuringAggregation          bool
	SupportsInEmptyList                      bool
	SupportsGroupByExpression                bool
	SupportsSubstringFromForExpression       bool
	ConvertTypeBeforeValue                   bool
	SupportsStartTransactionModifier         bool
	SupportsNamedFunctionArgsWithEqOperator  bool
	SupportsStringLiteralBackslashEscape     bool
	SupportsMatchRecognize                   bool
	SupportsDictionarySyntax                 bool
	SupportsConnectBy                        bool
	SupportsWindowClauseNamedWindowReference bool
	SupportsNumericPrefix                    bool
	SupportsWindowFunctionNullTreatmentArg   bool
	SupportsLambdaFunctions                  bool
	SupportsParenthesizedSetVariables        bool
	SupportsTripleQuotedString               bool
	SupportsSelectWildcardExcept             bool
	SupportsTrailingCommas                   bool
	SupportsProjectionTrailingCommas         bool
}

// Dialect specialises the parser to one SQL variant. The zero value
// is not usable; build one with New.
type Dialect struct {
	name string

	identStart     func(rune) bool
	identPart      func(rune) bool
	delimitedStart func(rune) bool
	insideQuotes   func(rune) bool
	quoteStyle     rune

	flags Flags

	statement  spi.StatementHandler
	prefix     spi.PrefixHandler
	infix      spi.InfixHandler
	precedence spi.PrecedenceHandler

	precOverrides map[token.Type]int
}

// Name returns the registry name of the dialect.
func (d *Dialect) Name() string { return d.name }

// Flags returns the capability flags.
func (d *Dialect) Flags() Flags { return d.flags }

// IsIdentifierStart reports whether r may begin an unquoted word.
func (d *Dialect) IsIdentifierStart(r rune) bool { return d.identStart(r) }

// IsIdentifierPart reports whether r may continue an unquoted word.
func (d *Dialect) IsIdentifierPart(r rune) bool { return d.identPart(r) }

// IsDelimitedIdentifierStart reports whether r opens a delimited
// identifier.
func (d *Dialect) IsDelimitedIdentifierStart(r rune) bool {
	return d.delimitedStart(r)
}

// IsProperIdentifierInsideQuotes reports whether r may appear inside
// a delimited identifier.
func (d *Dialect) IsProperIdentifierInsideQuotes(r rune) bool {
	if d.insideQuotes == nil {
		return true
	}
	return d.insideQuotes(r)
}

// IdentifierQuoteStyle returns the quote rune this dialect prefers
// when an identifier must be delimited.
func (d *Dialect) IdentifierQuoteStyle() rune { return d.quoteStyle }

// ParseStatement consults the dialect's statement hook. It reports
// handled == false when the dialect defers to the built-in dispatch.
func (d *Dialect) ParseStatement(p spi.ParserOps) (ast.Statement, bool, error) {
	if d.statement == nil {
		return nil, false, nil
	}
	return d.statement(p)
}

// ParsePrefix consults the dialect's prefix hook.
func (d *Dialect) ParsePrefix(p spi.ParserOps) (ast.Expr, bool, error) {
	if d.prefix == nil {
		return nil, false, nil
	}
	return d.prefix(p)
}

// ParseInfix consults the dialect's infix hook.
func (d *Dialect) ParseInfix(p spi.ParserOps, left ast.Expr, precedence int) (ast.Expr, bool, error) {
	if d.infix == nil {
		return nil, false, nil
	}
	return d.infix(p, left, precedence)
}

// NextPrecedence consults the dialect's precedence hook, then the
// static override table. It reports ok == false when neither has an
// opinion and the built-in table should decide.
func (d *Dialect) NextPrecedence(p spi.ParserOps) (int, bool) {
	if d.precedence != nil {
		if prec, ok := d.precedence(p); ok {
			return prec, true
		}
	}
	if prec, ok := d.precOverrides[p.Token().Type]; ok {
		return prec, true
	}
	return 0, false
}
