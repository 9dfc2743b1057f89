package parser

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Expression parsing: a Pratt operator-precedence engine. The prefix
// and infix handlers and the precedence table can each be overridden
// by the dialect; the dialect's answer wins when it is higher than
// the built-in table's.

// parseExpr parses an expression, consuming infix operators while
// their binding power exceeds minPrecedence.
func (p *Parser) parseExpr(minPrecedence int) (ast.Expr, error) {
	left, handled, err := p.dialect.ParsePrefix(p)
	if err != nil {
		return nil, err
	}
	if !handled {
		left, err = p.parsePrefix()
		if err != nil {
			return nil, err
		}
	}

	for !p.Check(token.EOF) {
		prec := p.nextPrecedence()
		if prec <= minPrecedence {
			break
		}
		left, err = p.parseInfix(left, prec)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// nextPrecedence returns the binding power of the current token: the
// maximum of the dialect's answer and the built-in table.
func (p *Parser) nextPrecedence() int {
	prec := p.builtinPrecedence()
	if dprec, ok := p.dialect.NextPrecedence(p); ok && dprec > prec {
		prec = dprec
	}
	return prec
}

func (p *Parser) builtinPrecedence() int {
	switch p.Token().Type {
	case token.OR:
		return spi.PrecedenceOr
	case token.AND:
		return spi.PrecedenceAnd
	case token.NOT:
		// NOT is infix only as the negation of IN / BETWEEN / LIKE.
		switch p.Peek().Type {
		case token.IN, token.BETWEEN, token.LIKE, token.ILIKE, token.SIMILAR:
			return spi.PrecedenceBetween
		}
		return spi.PrecedenceNone
	case token.IS, token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.SPACESHIP:
		return spi.PrecedenceComparison
	case token.BETWEEN, token.IN, token.LIKE, token.ILIKE, token.SIMILAR:
		return spi.PrecedenceBetween
	case token.DPIPE, token.PIPE, token.ARROW, token.LONG_ARROW,
		token.HASH_ARROW, token.HASH_LARROW, token.AT_ARROW, token.ARROW_AT,
		token.Q_PIPE, token.Q_AMP:
		return spi.PrecedencePipe
	case token.AMP:
		return spi.PrecedenceAmpersand
	case token.SHL, token.SHR:
		return spi.PrecedenceShift
	case token.PLUS, token.MINUS:
		return spi.PrecedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return spi.PrecedenceMultiply
	case token.DCOLON, token.COLLATE, token.AT_KW:
		return spi.PrecedenceDoubleColon
	case token.CARET:
		return spi.PrecedencePower
	case token.LBRACKET:
		return spi.PrecedencePostfix
	default:
		return spi.PrecedenceNone
	}
}

// binaryOps maps operator tokens to their AST tags.
var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:        ast.OpPlus,
	token.MINUS:       ast.OpMinus,
	token.STAR:        ast.OpMultiply,
	token.SLASH:       ast.OpDivide,
	token.PERCENT:     ast.OpModulo,
	token.EQ:          ast.OpEq,
	token.NE:          ast.OpNotEq,
	token.LT:          ast.OpLt,
	token.GT:          ast.OpGt,
	token.LE:          ast.OpLtEq,
	token.GE:          ast.OpGtEq,
	token.SPACESHIP:   ast.OpSpaceship,
	token.AND:         ast.OpAnd,
	token.OR:          ast.OpOr,
	token.DPIPE:       ast.OpStringConcat,
	token.PIPE:        ast.OpBitwiseOr,
	token.AMP:         ast.OpBitwiseAnd,
	token.SHL:         ast.OpShiftLeft,
	token.SHR:         ast.OpShiftRight,
	token.ARROW:       ast.OpArrow,
	token.LONG_ARROW:  ast.OpLongArrow,
	token.HASH_ARROW:  ast.OpHashArrow,
	token.HASH_LARROW: ast.OpHashLongArrow,
	token.AT_ARROW:    ast.OpAtArrow,
	token.ARROW_AT:    ast.OpArrowAt,
	token.Q_PIPE:      ast.OpQuestionPipe,
	token.Q_AMP:       ast.OpQuestionAmp,
	token.CARET:       ast.OpPow,
}

// parseInfix extends left with the operator at the current token,
// whose binding power is prec.
func (p *Parser) parseInfix(left ast.Expr, prec int) (ast.Expr, error) {
	if expr, handled, err := p.dialect.ParseInfix(p, left, prec); handled || err != nil {
		return expr, err
	}

	tok := p.Token()
	switch tok.Type {
	case token.NOT:
		p.NextToken()
		switch p.Token().Type {
		case token.IN:
			p.NextToken()
			return p.parseIn(left, true)
		case token.BETWEEN:
			p.NextToken()
			return p.parseBetween(left, true)
		case token.LIKE:
			p.NextToken()
			return p.parseLike(left, true, ast.Like)
		case token.ILIKE:
			p.NextToken()
			return p.parseLike(left, true, ast.ILike)
		case token.SIMILAR:
			p.NextToken()
			if err := p.Expect(token.TO); err != nil {
				return nil, err
			}
			return p.parseLike(left, true, ast.SimilarTo)
		default:
			return nil, p.Errorf("expected IN, BETWEEN, LIKE, ILIKE, or SIMILAR after NOT")
		}

	case token.IN:
		p.NextToken()
		return p.parseIn(left, false)

	case token.BETWEEN:
		p.NextToken()
		return p.parseBetween(left, false)

	case token.LIKE:
		p.NextToken()
		return p.parseLike(left, false, ast.Like)

	case token.ILIKE:
		p.NextToken()
		return p.parseLike(left, false, ast.ILike)

	case token.SIMILAR:
		p.NextToken()
		if err := p.Expect(token.TO); err != nil {
			return nil, err
		}
		return p.parseLike(left, false, ast.SimilarTo)

	case token.IS:
		return p.parseIs(left)

	case token.DCOLON:
		p.NextToken()
		t, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Expr: left, Type: t, Operator: true}, nil

	case token.COLLATE:
		p.NextToken()
		name, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		return &ast.CollateExpr{Expr: left, Collation: name}, nil

	case token.AT_KW:
		p.NextToken()
		if err := p.Expect(token.TIME); err != nil {
			return nil, err
		}
		if err := p.Expect(token.ZONE); err != nil {
			return nil, err
		}
		zone, err := p.parseExpr(spi.PrecedenceDoubleColon)
		if err != nil {
			return nil, err
		}
		return &ast.AtTimeZone{Expr: left, Zone: zone}, nil

	case token.LBRACKET:
		p.NextToken()
		index, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Expr: left, Index: index}, nil
	}

	op, ok := binaryOps[tok.Type]
	if !ok {
		return nil, p.Errorf("unexpected operator %s", tok.Type)
	}
	p.NextToken()

	// Exponentiation is right-associative; every other binary
	// operator is left-associative.
	min := prec
	if tok.Type == token.CARET {
		min = prec - 1
	}
	right, err := p.parseExpr(min)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Left: left, Op: op, Right: right}, nil
}

// parseIn parses the tail of expr [NOT] IN. Empty lists are gated on
// the dialect.
func (p *Parser) parseIn(left ast.Expr, not bool) (ast.Expr, error) {
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	in := &ast.InExpr{Expr: left, Not: not}

	if p.Check(token.RPAREN) {
		if !p.dialect.Flags().SupportsInEmptyList {
			return nil, p.Errorf("empty IN list is not supported by the %s dialect", p.dialect.Name())
		}
		p.NextToken()
		return in, nil
	}

	if p.Check(token.SELECT) || p.Check(token.WITH) {
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		in.Query = query
	} else {
		list, err := p.parseExprList(p.dialect.Flags().SupportsTrailingCommas)
		if err != nil {
			return nil, err
		}
		in.List = list
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return in, nil
}

// parseBetween parses the tail of expr [NOT] BETWEEN. The bounds bind
// at BETWEEN's own tier so the AND separator is not captured.
func (p *Parser) parseBetween(left ast.Expr, not bool) (ast.Expr, error) {
	low, err := p.parseExpr(spi.PrecedenceBetween)
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.AND); err != nil {
		return nil, err
	}
	high, err := p.parseExpr(spi.PrecedenceBetween)
	if err != nil {
		return nil, err
	}
	return &ast.BetweenExpr{Expr: left, Not: not, Low: low, High: high}, nil
}

// parseLike parses the tail of a LIKE-family predicate with an
// optional ESCAPE clause.
func (p *Parser) parseLike(left ast.Expr, not bool, op ast.LikeOp) (ast.Expr, error) {
	pattern, err := p.parseExpr(spi.PrecedenceBetween)
	if err != nil {
		return nil, err
	}
	like := &ast.LikeExpr{Expr: left, Not: not, Op: op, Pattern: pattern}
	if p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "ESCAPE") {
		p.NextToken()
		esc, err := p.parseExpr(spi.PrecedenceBetween)
		if err != nil {
			return nil, err
		}
		like.Escape = esc
	}
	return like, nil
}

// parseIs distinguishes IS NULL / IS NOT NULL / IS [NOT] TRUE/FALSE /
// IS [NOT] DISTINCT FROM by looking ahead; the checkpoint keeps the
// speculation reversible.
func (p *Parser) parseIs(left ast.Expr) (ast.Expr, error) {
	cp := p.Checkpoint()
	p.NextToken() // IS
	not := p.Match(token.NOT)

	switch p.Token().Type {
	case token.NULL:
		p.NextToken()
		kind := ast.IsNull
		if not {
			kind = ast.IsNotNull
		}
		return &ast.IsExpr{Expr: left, Kind: kind}, nil

	case token.TRUE:
		p.NextToken()
		kind := ast.IsTrue
		if not {
			kind = ast.IsNotTrue
		}
		return &ast.IsExpr{Expr: left, Kind: kind}, nil

	case token.FALSE:
		p.NextToken()
		kind := ast.IsFalse
		if not {
			kind = ast.IsNotFalse
		}
		return &ast.IsExpr{Expr: left, Kind: kind}, nil

	case token.DISTINCT:
		p.NextToken()
		if err := p.Expect(token.FROM); err != nil {
			return nil, err
		}
		other, err := p.parseExpr(spi.PrecedenceComparison)
		if err != nil {
			return nil, err
		}
		kind := ast.IsDistinctFrom
		if not {
			kind = ast.IsNotDistinctFrom
		}
		return &ast.IsExpr{Expr: left, Kind: kind, Other: other}, nil

	default:
		p.Restore(cp)
		return nil, p.Errorf("expected NULL, TRUE, FALSE, or DISTINCT FROM after IS")
	}
}
