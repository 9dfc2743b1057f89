// Package parser implements a dialect-parameterised SQL parser.
//
// # Usage
//
//	stmts, err := parser.Parse("SELECT a FROM t", dialect.Default())
//	if err != nil {
//	    // handle error
//	}
//
// The parser is a Pratt operator-precedence parser for expressions
// and a recursive descent parser for statements and clauses. The
// dialect is consulted for tokenization rules, statement/prefix/infix
// overrides, precedence, and capability flags.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Parser parses a fully-buffered token stream into an AST.
type Parser struct {
	dialect *dialect.Dialect
	tokens  []token.Token
	idx     int
}

// NewParser lexes sql with d and returns a parser positioned at the
// first token. Tokenizer failures surface immediately.
func NewParser(sql string, d *dialect.Dialect) (*Parser, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	tokens, err := NewLexer(sql, d).Tokenize()
	if err != nil {
		return nil, err
	}
	return &Parser{dialect: d, tokens: tokens}, nil
}

// Parse parses a sequence of semicolon-separated statements.
func Parse(sql string, d *dialect.Dialect) ([]ast.Statement, error) {
	if d == nil {
		d = dialect.Default()
	}
	p, err := NewParser(sql, d)
	if err != nil {
		return nil, err
	}
	return p.ParseStatements()
}

// ParseExpr parses a single expression, requiring end of input after
// it.
func ParseExpr(sql string, d *dialect.Dialect) (ast.Expr, error) {
	if d == nil {
		d = dialect.Default()
	}
	p, err := NewParser(sql, d)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	if !p.Check(token.EOF) {
		return nil, p.Errorf("unexpected token %s after expression", p.Token().Type)
	}
	return expr, nil
}

// ParseStatements parses statements until end of input. Statements
// are separated by semicolons; an empty trailing statement is
// discarded and a stray token after a terminator is an error.
func (p *Parser) ParseStatements() ([]ast.Statement, error) {
	var statements []ast.Statement
	expectingDelimiter := false

	for {
		for p.Match(token.SEMICOLON) {
			expectingDelimiter = false
		}
		if p.Check(token.EOF) {
			return statements, nil
		}
		if expectingDelimiter {
			return nil, p.Errorf("expected %s, found %s", token.SEMICOLON, p.Token().Type)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
		expectingDelimiter = true
	}
}

// ---------- token helpers ----------

// Token returns the current token.
func (p *Parser) Token() token.Token {
	if p.idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.idx]
}

// Peek returns the lookahead token.
func (p *Parser) Peek() token.Token { return p.PeekN(1) }

// PeekN returns the token n positions ahead.
func (p *Parser) PeekN(n int) token.Token {
	if p.idx+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.idx+n]
}

// Position returns the current token's position.
func (p *Parser) Position() token.Position { return p.Token().Pos }

// NextToken advances past the current token.
func (p *Parser) NextToken() {
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
}

// Check reports whether the current token has type t.
func (p *Parser) Check(t token.Type) bool { return p.Token().Type == t }

// Match consumes the current token if it has type t.
func (p *Parser) Match(t token.Type) bool {
	if p.Check(t) {
		p.NextToken()
		return true
	}
	return false
}

// Expect consumes the current token if it has type t and errors
// otherwise.
func (p *Parser) Expect(t token.Type) error {
	if p.Check(t) {
		p.NextToken()
		return nil
	}
	return p.Errorf("expected %s, found %s", t, p.Token().Type)
}

// Checkpoint saves the current stream position for Restore.
func (p *Parser) Checkpoint() int { return p.idx }

// Restore rewinds the stream to a saved checkpoint.
func (p *Parser) Restore(cp int) { p.idx = cp }

// Errorf builds a ParseError at the current position.
func (p *Parser) Errorf(format string, args ...any) error {
	return &ParseError{Pos: p.Token().Pos, Message: fmt.Sprintf(format, args...)}
}

// ---------- spi.ParserOps sub-parsers ----------

// ParseExpr parses an expression with the given minimum binding
// power (implements spi.ParserOps).
func (p *Parser) ParseExpr(minPrecedence int) (ast.Expr, error) {
	return p.parseExpr(minPrecedence)
}

// ParseExprList parses a comma-separated expression list (implements
// spi.ParserOps).
func (p *Parser) ParseExprList() ([]ast.Expr, error) {
	return p.parseExprList(false)
}

// ParseIdentifier parses one identifier (implements spi.ParserOps).
func (p *Parser) ParseIdentifier() (ast.Ident, error) {
	return p.parseIdentifier()
}

// ParseObjectName parses a dotted object name (implements
// spi.ParserOps).
func (p *Parser) ParseObjectName() (*ast.ObjectName, error) {
	return p.parseObjectName()
}

// ParseDataType parses a data type (implements spi.ParserOps).
func (p *Parser) ParseDataType() (ast.DataType, error) {
	return p.parseDataType()
}

// ParseQuery parses a full query (implements spi.ParserOps).
func (p *Parser) ParseQuery() (*ast.Query, error) {
	return p.parseQuery()
}

var _ spi.ParserOps = (*Parser)(nil)

// ---------- statement dispatch ----------

func (p *Parser) parseStatement() (ast.Statement, error) {
	// The dialect gets the first look.
	if stmt, handled, err := p.dialect.ParseStatement(p); handled || err != nil {
		return stmt, err
	}

	switch p.Token().Type {
	case token.SELECT, token.WITH, token.VALUES, token.LPAREN:
		return p.parseQuery()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.CREATE:
		return p.parseCreate()
	case token.ALTER:
		return p.parseAlterTable()
	case token.DROP:
		return p.parseDrop()
	case token.TRUNCATE:
		return p.parseTruncate()
	case token.SET:
		return p.parseSetVariable()
	case token.START, token.BEGIN:
		return p.parseStartTransaction()
	case token.COMMIT:
		p.NextToken()
		return &ast.Commit{}, nil
	case token.ROLLBACK:
		p.NextToken()
		return &ast.Rollback{}, nil
	case token.GRANT:
		return p.parseGrant()
	case token.USE:
		return p.parseUse()
	case token.EXPLAIN:
		return p.parseExplain()
	default:
		return nil, p.Errorf("unexpected token %s at start of statement", p.Token().Type)
	}
}

// ---------- identifier helpers ----------

// parseIdentifier accepts IDENT and any keyword usable as a name.
func (p *Parser) parseIdentifier() (ast.Ident, error) {
	tok := p.Token()
	if tok.Type == token.IDENT || token.IsKeyword(tok.Type) {
		p.NextToken()
		return ast.Ident{Value: tok.Literal, Quote: tok.Quote}, nil
	}
	return ast.Ident{}, p.Errorf("expected identifier, found %s", tok.Type)
}

func (p *Parser) parseObjectName() (*ast.ObjectName, error) {
	var parts []ast.Ident
	for {
		ident, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		parts = append(parts, ident)
		if !p.Match(token.DOT) {
			break
		}
	}
	return &ast.ObjectName{Parts: parts}, nil
}

// parseIdentList parses ident [, ident ...].
func (p *Parser) parseIdentList() ([]ast.Ident, error) {
	var idents []ast.Ident
	for {
		ident, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident)
		if !p.Match(token.COMMA) {
			return idents, nil
		}
	}
}

// parseParenIdentList parses ( ident [, ident ...] ).
func (p *Parser) parseParenIdentList() ([]ast.Ident, error) {
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	idents, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return idents, nil
}

// parseExprList parses expr [, expr ...]. When trailing is true a
// trailing comma before a list terminator is accepted, which is gated
// on the dialect's trailing-comma flags by the callers.
func (p *Parser) parseExprList(trailing bool) ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if !p.Match(token.COMMA) {
			return exprs, nil
		}
		if trailing && p.listDone() {
			return exprs, nil
		}
	}
}

// listDone reports whether the current token terminates a comma list:
// a closing paren, end of input, or a clause keyword.
func (p *Parser) listDone() bool {
	switch p.Token().Type {
	case token.RPAREN, token.EOF, token.SEMICOLON,
		token.FROM, token.WHERE, token.GROUP, token.HAVING, token.WINDOW,
		token.ORDER, token.LIMIT, token.OFFSET, token.FETCH, token.FOR,
		token.UNION, token.INTERSECT, token.EXCEPT:
		return true
	}
	return false
}
