package parser

import (
	"strings"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

func equalsUpper(s, want string) bool {
	return strings.EqualFold(s, want)
}

// isReservedKeyword reports keywords that can never begin an
// expression or serve as an implicit alias: clause and operator
// keywords whose appearance means the current construct has ended.
func isReservedKeyword(t token.Type) bool {
	switch t {
	case token.FROM, token.WHERE, token.GROUP, token.HAVING, token.WINDOW,
		token.ORDER, token.LIMIT, token.OFFSET, token.FETCH, token.FOR,
		token.UNION, token.INTERSECT, token.EXCEPT, token.SELECT,
		token.ON, token.USING, token.JOIN, token.INNER, token.OUTER,
		token.CROSS, token.NATURAL, token.INTO, token.AS, token.BY,
		token.WHEN, token.THEN, token.ELSE, token.END, token.AND,
		token.OR, token.IS, token.IN, token.BETWEEN, token.LIKE,
		token.ILIKE, token.SIMILAR, token.ASC, token.DESC, token.SET,
		token.TO, token.VALUES:
		return true
	}
	return false
}

// parsePrefix handles the prefix position of the Pratt parser:
// literals, identifiers and function calls, CASE/CAST/EXISTS and the
// other keyword-introduced forms, unary operators, and parenthesized
// subexpressions and subqueries.
func (p *Parser) parsePrefix() (ast.Expr, error) {
	tok := p.Token()
	switch tok.Type {
	case token.NUMBER:
		p.NextToken()
		return &ast.Literal{Kind: ast.Number, Value: tok.Literal}, nil

	case token.STRING:
		p.NextToken()
		return &ast.Literal{Kind: ast.SingleQuotedString, Value: tok.Literal}, nil

	case token.NATIONAL_STRING:
		p.NextToken()
		return &ast.Literal{Kind: ast.NationalString, Value: tok.Literal}, nil

	case token.HEX_STRING:
		p.NextToken()
		return &ast.Literal{Kind: ast.HexString, Value: tok.Literal}, nil

	case token.BIT_STRING:
		p.NextToken()
		return &ast.Literal{Kind: ast.BitString, Value: tok.Literal}, nil

	case token.PLACEHOLDER:
		p.NextToken()
		return &ast.Literal{Kind: ast.Placeholder, Value: tok.Literal}, nil

	case token.TRUE:
		p.NextToken()
		return &ast.Literal{Kind: ast.Boolean, Value: "true"}, nil

	case token.FALSE:
		p.NextToken()
		return &ast.Literal{Kind: ast.Boolean, Value: "false"}, nil

	case token.NULL:
		p.NextToken()
		return &ast.Literal{Kind: ast.Null}, nil

	case token.MINUS:
		p.NextToken()
		expr, err := p.parseExpr(spi.PrecedenceUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, Expr: expr}, nil

	case token.PLUS:
		p.NextToken()
		expr, err := p.parseExpr(spi.PrecedenceUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpPos, Expr: expr}, nil

	case token.TILDE:
		p.NextToken()
		expr, err := p.parseExpr(spi.PrecedenceUnary)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpBitwiseNot, Expr: expr}, nil

	case token.NOT:
		p.NextToken()
		expr, err := p.parseExpr(spi.PrecedenceNot)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNot, Expr: expr}, nil

	case token.CASE:
		return p.parseCase()

	case token.CAST:
		return p.parseCast()

	case token.CONVERT:
		return p.parseConvert()

	case token.EXISTS:
		return p.parseExists()

	case token.EXTRACT:
		return p.parseExtract()

	case token.POSITION:
		return p.parsePosition()

	case token.SUBSTRING:
		return p.parseSubstring()

	case token.TRIM:
		return p.parseTrim()

	case token.INTERVAL:
		return p.parseInterval()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.LBRACKET:
		p.NextToken()
		elems, err := p.parseArrayElems(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayExpr{Elems: elems}, nil

	case token.ARRAY:
		if p.Peek().Type == token.LBRACKET {
			p.NextToken()
			p.NextToken()
			elems, err := p.parseArrayElems(token.RBRACKET)
			if err != nil {
				return nil, err
			}
			return &ast.ArrayExpr{Keyword: true, Elems: elems}, nil
		}
		return p.parseWordExpr()

	case token.LBRACE:
		if !p.dialect.Flags().SupportsDictionarySyntax {
			return nil, p.Errorf("dictionary syntax is not supported by the %s dialect", p.dialect.Name())
		}
		return p.parseDictionary()

	case token.DATE, token.TIME, token.TIMESTAMP:
		// Typed string: DATE '2024-01-02'.
		if p.Peek().Type == token.STRING {
			t, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			value := p.Token().Literal
			p.NextToken()
			return &ast.TypedString{Type: t, Value: value}, nil
		}
		return p.parseWordExpr()

	case token.IDENT:
		return p.parseWordExpr()
	}

	if token.IsKeyword(tok.Type) && !isReservedKeyword(tok.Type) {
		// Many keywords double as function names or plain column
		// names (LEFT(s, 2), ROW, YEAR ...).
		return p.parseWordExpr()
	}
	return nil, p.Errorf("expected an expression, found %s", tok.Type)
}

// parseArrayElems parses the elements of an array constructor up to
// the closing bracket.
func (p *Parser) parseArrayElems(end token.Type) ([]ast.Expr, error) {
	var elems []ast.Expr
	if p.Match(end) {
		return elems, nil
	}
	elems, err := p.parseExprList(p.dialect.Flags().SupportsTrailingCommas)
	if err != nil {
		return nil, err
	}
	if err := p.Expect(end); err != nil {
		return nil, err
	}
	return elems, nil
}

// parseWordExpr parses an expression that begins with a word:
// identifier, compound identifier, function call, or lambda.
func (p *Parser) parseWordExpr() (ast.Expr, error) {
	// Lambda: x -> expr.
	if p.dialect.Flags().SupportsLambdaFunctions &&
		p.Check(token.IDENT) && p.Peek().Type == token.ARROW {
		param, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		p.NextToken() // ->
		body, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		return &ast.LambdaExpr{Params: []ast.Ident{param}, Body: body}, nil
	}

	var parts []ast.Ident
	for {
		ident, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		parts = append(parts, ident)
		if p.Check(token.DOT) && p.Peek().Type != token.STAR {
			p.NextToken()
			continue
		}
		break
	}

	if p.Check(token.LPAREN) {
		return p.parseFunctionCall(&ast.ObjectName{Parts: parts})
	}

	if len(parts) == 1 {
		return &ast.IdentExpr{Ident: parts[0]}, nil
	}
	return &ast.CompoundIdent{Parts: parts}, nil
}

// parseFunctionCall parses the argument list and the aggregate/window
// suffixes of a function call. The name has been consumed and the
// current token is the opening paren.
func (p *Parser) parseFunctionCall(name *ast.ObjectName) (ast.Expr, error) {
	p.NextToken() // (
	fn := &ast.FuncCall{Name: name}

	if p.Match(token.DISTINCT) {
		fn.Distinct = true
	}

	for !p.Check(token.RPAREN) {
		arg, err := p.parseFunctionArg()
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)
		if !p.Match(token.COMMA) {
			break
		}
		if p.dialect.Flags().SupportsTrailingCommas && p.Check(token.RPAREN) {
			break
		}
	}

	// IGNORE NULLS / RESPECT NULLS inside the argument list.
	if p.Check(token.IGNORE) || p.Check(token.RESPECT) {
		if !p.dialect.Flags().SupportsWindowFunctionNullTreatmentArg {
			return nil, p.Errorf("null treatment in function arguments is not supported by the %s dialect", p.dialect.Name())
		}
		if p.Match(token.IGNORE) {
			fn.NullTreatment = ast.IgnoreNulls
		} else {
			p.NextToken()
			fn.NullTreatment = ast.RespectNulls
		}
		if err := p.Expect(token.NULLS); err != nil {
			return nil, err
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}

	// FILTER (WHERE expr).
	if p.Check(token.FILTER) && p.Peek().Type == token.LPAREN {
		if !p.dialect.Flags().SupportsFilterDuringAggregation {
			return nil, p.Errorf("FILTER during aggregation is not supported by the %s dialect", p.dialect.Name())
		}
		p.NextToken()
		p.NextToken()
		if err := p.Expect(token.WHERE); err != nil {
			return nil, err
		}
		filter, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		fn.Filter = filter
	}

	// OVER (window spec) or OVER name.
	if p.Match(token.OVER) {
		over := &ast.OverClause{}
		if p.Match(token.LPAREN) {
			spec, err := p.parseWindowSpec()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			over.Spec = spec
		} else {
			name, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			over.Name = &name
		}
		fn.Over = over
	}

	return fn, nil
}

// parseFunctionArg parses one function argument: a wildcard, a named
// argument (name => value, or name = value where the dialect spells
// it that way), or a plain expression.
func (p *Parser) parseFunctionArg() (ast.FuncArg, error) {
	if p.Check(token.STAR) {
		p.NextToken()
		return ast.FuncArg{Value: &ast.Wildcard{}}, nil
	}

	if p.Check(token.IDENT) {
		named := p.Peek().Type == token.FAT_ARROW
		eq := p.Peek().Type == token.EQ &&
			p.dialect.Flags().SupportsNamedFunctionArgsWithEqOperator
		if named || eq {
			name, err := p.parseIdentifier()
			if err != nil {
				return ast.FuncArg{}, err
			}
			p.NextToken() // => or =
			value, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return ast.FuncArg{}, err
			}
			return ast.FuncArg{Name: &name, Eq: eq, Value: value}, nil
		}
	}

	value, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return ast.FuncArg{}, err
	}
	return ast.FuncArg{Value: value}, nil
}

// parseWindowSpec parses the inside of OVER ( ... ). A leading
// identifier references a named window where the dialect allows it.
func (p *Parser) parseWindowSpec() (*ast.WindowSpec, error) {
	spec := &ast.WindowSpec{}

	if p.Check(token.IDENT) {
		if !p.dialect.Flags().SupportsWindowClauseNamedWindowReference {
			return nil, p.Errorf("named window references are not supported by the %s dialect", p.dialect.Name())
		}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		spec.Name = &name
	}

	if p.Match(token.PARTITION) {
		if err := p.Expect(token.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprList(false)
		if err != nil {
			return nil, err
		}
		spec.PartitionBy = exprs
	}

	if p.Match(token.ORDER) {
		if err := p.Expect(token.BY); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = items
	}

	switch p.Token().Type {
	case token.ROWS, token.RANGE, token.GROUPS:
		frame, err := p.parseWindowFrame()
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}

	return spec, nil
}

func (p *Parser) parseWindowFrame() (*ast.WindowFrame, error) {
	frame := &ast.WindowFrame{}
	switch p.Token().Type {
	case token.ROWS:
		frame.Units = ast.FrameRows
	case token.RANGE:
		frame.Units = ast.FrameRange
	case token.GROUPS:
		frame.Units = ast.FrameGroups
	}
	p.NextToken()

	if p.Match(token.BETWEEN) {
		start, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.AND); err != nil {
			return nil, err
		}
		end, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		frame.Start, frame.End = start, end
		return frame, nil
	}

	start, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	frame.Start = start
	return frame, nil
}

func (p *Parser) parseFrameBound() (*ast.FrameBound, error) {
	switch {
	case p.Match(token.CURRENT):
		if err := p.Expect(token.ROW); err != nil {
			return nil, err
		}
		return &ast.FrameBound{Kind: ast.CurrentRow}, nil

	case p.Match(token.UNBOUNDED):
		bound := &ast.FrameBound{}
		switch {
		case p.Match(token.PRECEDING):
			bound.Kind = ast.Preceding
		case p.Match(token.FOLLOWING):
			bound.Kind = ast.Following
		default:
			return nil, p.Errorf("expected PRECEDING or FOLLOWING after UNBOUNDED")
		}
		return bound, nil

	default:
		offset, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		bound := &ast.FrameBound{Offset: offset}
		switch {
		case p.Match(token.PRECEDING):
			bound.Kind = ast.Preceding
		case p.Match(token.FOLLOWING):
			bound.Kind = ast.Following
		default:
			return nil, p.Errorf("expected PRECEDING or FOLLOWING in window frame")
		}
		return bound, nil
	}
}

// parseCase parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCase() (ast.Expr, error) {
	p.NextToken() // CASE
	expr := &ast.CaseExpr{}

	if !p.Check(token.WHEN) {
		operand, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}

	for p.Match(token.WHEN) {
		cond, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.THEN); err != nil {
			return nil, err
		}
		result, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		expr.Whens = append(expr.Whens, &ast.WhenClause{Condition: cond, Result: result})
	}
	if len(expr.Whens) == 0 {
		return nil, p.Errorf("expected WHEN in CASE expression")
	}

	if p.Match(token.ELSE) {
		els, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		expr.Else = els
	}
	if err := p.Expect(token.END); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCast parses CAST(expr AS type).
func (p *Parser) parseCast() (ast.Expr, error) {
	p.NextToken() // CAST
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.AS); err != nil {
		return nil, err
	}
	t, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CastExpr{Expr: expr, Type: t}, nil
}

// parseConvert parses CONVERT with the argument order the dialect
// prescribes.
func (p *Parser) parseConvert() (ast.Expr, error) {
	p.NextToken() // CONVERT
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	conv := &ast.ConvertExpr{TypeFirst: p.dialect.Flags().ConvertTypeBeforeValue}

	if conv.TypeFirst {
		t, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.COMMA); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		conv.Type, conv.Expr = t, expr
	} else {
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.COMMA); err != nil {
			return nil, err
		}
		t, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		conv.Type, conv.Expr = t, expr
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return conv, nil
}

func (p *Parser) parseExists() (ast.Expr, error) {
	p.NextToken() // EXISTS
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	query, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ExistsExpr{Query: query}, nil
}

// parseExtract parses EXTRACT(field FROM expr).
func (p *Parser) parseExtract() (ast.Expr, error) {
	p.NextToken() // EXTRACT
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	field := strings.ToUpper(p.Token().Literal)
	if p.Token().Type != token.IDENT && !token.IsKeyword(p.Token().Type) {
		return nil, p.Errorf("expected a date-time field, found %s", p.Token().Type)
	}
	p.NextToken()
	if err := p.Expect(token.FROM); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ExtractExpr{Field: field, Expr: expr}, nil
}

// parsePosition parses POSITION(needle IN haystack); with any other
// argument shape it falls back to a plain function call.
func (p *Parser) parsePosition() (ast.Expr, error) {
	name := p.Token()
	p.NextToken()
	if !p.Check(token.LPAREN) {
		return &ast.IdentExpr{Ident: ast.Ident{Value: name.Literal}}, nil
	}
	cp := p.Checkpoint()
	p.NextToken() // (
	needle, err := p.parseExpr(spi.PrecedenceBetween)
	if err == nil && p.Match(token.IN) {
		haystack, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.PositionExpr{Expr: needle, In: haystack}, nil
	}
	p.Restore(cp)
	return p.parseFunctionCall(ast.NewObjectName(name.Literal))
}

// parseSubstring parses SUBSTRING(expr FROM a FOR b), gated on the
// dialect, or SUBSTRING(expr, a, b) as a plain function call.
func (p *Parser) parseSubstring() (ast.Expr, error) {
	name := p.Token()
	p.NextToken()
	if !p.Check(token.LPAREN) {
		return &ast.IdentExpr{Ident: ast.Ident{Value: name.Literal}}, nil
	}
	cp := p.Checkpoint()
	p.NextToken() // (
	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	if p.Check(token.FROM) || p.Check(token.FOR) {
		if !p.dialect.Flags().SupportsSubstringFromForExpression {
			return nil, p.Errorf("SUBSTRING ... FROM ... FOR is not supported by the %s dialect", p.dialect.Name())
		}
		sub := &ast.SubstringExpr{Expr: expr}
		if p.Match(token.FROM) {
			from, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return nil, err
			}
			sub.From = from
		}
		if p.Match(token.FOR) {
			length, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return nil, err
			}
			sub.For = length
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return sub, nil
	}
	p.Restore(cp)
	return p.parseFunctionCall(ast.NewObjectName(name.Literal))
}

// parseTrim parses TRIM([BOTH|LEADING|TRAILING] [what] FROM expr) or
// TRIM(expr).
func (p *Parser) parseTrim() (ast.Expr, error) {
	p.NextToken() // TRIM
	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	trim := &ast.TrimExpr{}

	switch p.Token().Type {
	case token.BOTH:
		trim.Where = ast.TrimBoth
		p.NextToken()
	case token.LEADING:
		trim.Where = ast.TrimLeading
		p.NextToken()
	case token.TRAILING:
		trim.Where = ast.TrimTrailing
		p.NextToken()
	}

	if p.Match(token.FROM) {
		// TRIM(LEADING FROM x)
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		trim.Expr = expr
	} else {
		first, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		if p.Match(token.FROM) {
			trim.What = first
			expr, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return nil, err
			}
			trim.Expr = expr
		} else {
			trim.Expr = first
		}
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return trim, nil
}

// parseInterval parses INTERVAL <value> [unit].
func (p *Parser) parseInterval() (ast.Expr, error) {
	p.NextToken() // INTERVAL
	value, err := p.parseExpr(spi.PrecedenceUnary)
	if err != nil {
		return nil, err
	}
	interval := &ast.IntervalExpr{Value: value}
	switch p.Token().Type {
	case token.YEAR, token.MONTH, token.DAY, token.HOUR, token.MINUTE, token.SECOND:
		interval.Unit = p.Token().Type.String()
		p.NextToken()
	}
	return interval, nil
}

// parseParenExpr disambiguates parenthesized subqueries, tuples,
// lambda parameter lists, and plain grouped expressions.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.NextToken() // (

	if p.Check(token.SELECT) || p.Check(token.WITH) || p.Check(token.VALUES) {
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.SubqueryExpr{Query: query}, nil
	}

	first, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}

	if p.Check(token.COMMA) {
		exprs := []ast.Expr{first}
		for p.Match(token.COMMA) {
			if p.dialect.Flags().SupportsTrailingCommas && p.Check(token.RPAREN) {
				break
			}
			expr, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		if lambda, ok, err := p.tryParenLambda(exprs); err != nil {
			return nil, err
		} else if ok {
			return lambda, nil
		}
		return &ast.TupleExpr{Exprs: exprs}, nil
	}

	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	if lambda, ok, err := p.tryParenLambda([]ast.Expr{first}); err != nil {
		return nil, err
	} else if ok {
		return lambda, nil
	}
	return &ast.ParenExpr{Expr: first}, nil
}

// tryParenLambda recognizes (x, y) -> body after a parenthesized
// expression list whose members are all bare identifiers.
func (p *Parser) tryParenLambda(exprs []ast.Expr) (ast.Expr, bool, error) {
	if !p.dialect.Flags().SupportsLambdaFunctions || !p.Check(token.ARROW) {
		return nil, false, nil
	}
	params := make([]ast.Ident, 0, len(exprs))
	for _, e := range exprs {
		ident, ok := e.(*ast.IdentExpr)
		if !ok {
			return nil, false, nil
		}
		params = append(params, ident.Ident)
	}
	p.NextToken() // ->
	body, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, false, err
	}
	return &ast.LambdaExpr{Params: params, Body: body}, true, nil
}

// parseDictionary parses {'k': v, ...}.
func (p *Parser) parseDictionary() (ast.Expr, error) {
	p.NextToken() // {
	dict := &ast.DictionaryExpr{}

	for !p.Check(token.RBRACE) {
		key := p.Token()
		if key.Type != token.STRING && key.Type != token.IDENT {
			return nil, p.Errorf("expected dictionary key, found %s", key.Type)
		}
		p.NextToken()
		if err := p.Expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		dict.Fields = append(dict.Fields, &ast.DictionaryField{
			Key:   ast.Ident{Value: key.Literal, Quote: dictKeyQuote(key)},
			Value: value,
		})
		if !p.Match(token.COMMA) {
			break
		}
	}
	if err := p.Expect(token.RBRACE); err != nil {
		return nil, err
	}
	return dict, nil
}

// dictKeyQuote records whether a dictionary key was written as a
// string so rendering can reproduce it.
func dictKeyQuote(tok token.Token) rune {
	if tok.Type == token.STRING {
		return '\''
	}
	return tok.Quote
}
