// Package spi provides the Service Provider Interface through which
// dialect hooks interact with the parser without creating circular
// dependencies.
package spi

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/token"
)

// ParserOps exposes parser operations to dialect hooks.
type ParserOps interface {
	// Token access
	Token() token.Token
	Peek() token.Token
	PeekN(n int) token.Token
	Position() token.Position

	// Consumption
	NextToken()
	Check(t token.Type) bool
	Match(t token.Type) bool
	Expect(t token.Type) error

	// Speculation. Restore rewinds the token stream to a previously
	// saved checkpoint; the parser never consumes more than it can
	// unconsume.
	Checkpoint() int
	Restore(cp int)

	// Sub-parsers
	ParseExpr(minPrecedence int) (ast.Expr, error)
	ParseExprList() ([]ast.Expr, error)
	ParseIdentifier() (ast.Ident, error)
	ParseObjectName() (*ast.ObjectName, error)
	ParseDataType() (ast.DataType, error)
	ParseQuery() (*ast.Query, error)

	// Errorf builds a ParseError at the current position.
	Errorf(format string, args ...any) error
}

// StatementHandler lets a dialect take over statement parsing. It is
// consulted before built-in dispatch; returning handled == false
// defers to the built-in.
type StatementHandler func(p ParserOps) (stmt ast.Statement, handled bool, err error)

// PrefixHandler lets a dialect take over prefix expression parsing.
type PrefixHandler func(p ParserOps) (expr ast.Expr, handled bool, err error)

// InfixHandler lets a dialect take over infix parsing for the current
// token. left is the already-parsed left operand and precedence the
// binding power of the current operator.
type InfixHandler func(p ParserOps, left ast.Expr, precedence int) (expr ast.Expr, handled bool, err error)

// PrecedenceHandler lets a dialect supply the binding power of the
// current token. Returning ok == false defers to the built-in table.
type PrecedenceHandler func(p ParserOps) (precedence int, ok bool)

// Precedence tiers of the built-in operator table, loosest first.
// Dialect overrides may use any value; the gaps leave room to slot
// custom operators between tiers.
const (
	PrecedenceNone        = 0
	PrecedenceOr          = 5
	PrecedenceAnd         = 10
	PrecedenceNot         = 15
	PrecedenceComparison  = 20 // =, !=, <, >, <=, >=, <=>, IS
	PrecedenceBetween     = 25 // BETWEEN, IN, LIKE, ILIKE, SIMILAR TO
	PrecedencePipe        = 30 // ||, |, JSON arrows
	PrecedenceAmpersand   = 35 // &
	PrecedenceShift       = 40 // <<, >>
	PrecedenceAddition    = 45 // +, -
	PrecedenceMultiply    = 50 // *, /, %
	PrecedenceDoubleColon = 55 // ::, COLLATE, AT TIME ZONE
	PrecedencePower       = 60 // ^ (right-associative)
	PrecedenceUnary       = 65 // -, +, ~ prefix
	PrecedencePostfix     = 70 // [] subscript, . access
)
