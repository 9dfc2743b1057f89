package parser

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// Set operators form their own two-tier precedence ladder: INTERSECT
// binds tighter than UNION and EXCEPT.
const (
	setPrecUnion     = 10
	setPrecIntersect = 20
)

// parseQuery parses [WITH ...] body [ORDER BY] [LIMIT] [OFFSET]
// [FETCH] [FOR ...].
func (p *Parser) parseQuery() (*ast.Query, error) {
	query := &ast.Query{}

	if p.Check(token.WITH) {
		with, err := p.parseWith()
		if err != nil {
			return nil, err
		}
		query.With = with
	}

	body, err := p.parseSetExpr(0)
	if err != nil {
		return nil, err
	}
	query.Body = body

	if p.Match(token.ORDER) {
		if err := p.Expect(token.BY); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		query.OrderBy = items
	}

	if p.Match(token.LIMIT) {
		limit, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		query.Limit = limit
	}

	if p.Match(token.OFFSET) {
		value, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		offset := &ast.Offset{Value: value}
		switch {
		case p.Match(token.ROW):
			offset.Rows = ast.OffsetRow
		case p.Match(token.ROWS):
			offset.Rows = ast.OffsetRowsKw
		}
		query.Offset = offset
	}

	if p.Check(token.FETCH) {
		fetch, err := p.parseFetch()
		if err != nil {
			return nil, err
		}
		query.Fetch = fetch
	}

	for p.Match(token.FOR) {
		lock := &ast.LockClause{}
		switch {
		case p.Match(token.UPDATE):
			lock.Mode = ast.LockUpdate
		case p.Match(token.SHARE):
			lock.Mode = ast.LockShare
		default:
			return nil, p.Errorf("expected UPDATE or SHARE after FOR")
		}
		query.Locks = append(query.Locks, lock)
	}

	return query, nil
}

// parseWith parses WITH [RECURSIVE] name [(cols)] AS (query), ...
func (p *Parser) parseWith() (*ast.With, error) {
	p.NextToken() // WITH
	with := &ast.With{Recursive: p.Match(token.RECURSIVE)}

	for {
		cte := &ast.CTE{}
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		cte.Name = name

		if p.Check(token.LPAREN) {
			cols, err := p.parseParenIdentList()
			if err != nil {
				return nil, err
			}
			cte.Columns = cols
		}

		if err := p.Expect(token.AS); err != nil {
			return nil, err
		}
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
		cte.Query = query

		with.CTEs = append(with.CTEs, cte)
		if !p.Match(token.COMMA) {
			return with, nil
		}
	}
}

// parseSetExpr parses a query body, folding UNION / INTERSECT /
// EXCEPT left-associatively with INTERSECT binding tighter.
func (p *Parser) parseSetExpr(minPrecedence int) (ast.SetExpr, error) {
	left, err := p.parseSetExprPrimary()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.SetOp
		var prec int
		switch p.Token().Type {
		case token.UNION:
			op, prec = ast.Union, setPrecUnion
		case token.EXCEPT:
			op, prec = ast.ExceptOp, setPrecUnion
		case token.INTERSECT:
			op, prec = ast.Intersect, setPrecIntersect
		default:
			return left, nil
		}
		if prec <= minPrecedence {
			return left, nil
		}
		p.NextToken()

		setOp := &ast.SetOperation{Op: op, Left: left}
		if p.Match(token.ALL) {
			setOp.All = true
		} else {
			p.Match(token.DISTINCT)
		}

		right, err := p.parseSetExpr(prec)
		if err != nil {
			return nil, err
		}
		setOp.Right = right
		left = setOp
	}
}

func (p *Parser) parseSetExprPrimary() (ast.SetExpr, error) {
	switch p.Token().Type {
	case token.SELECT:
		return p.parseSelect()

	case token.VALUES:
		return p.parseValues()

	case token.LPAREN:
		p.NextToken()
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ParenQuery{Query: query}, nil

	default:
		return nil, p.Errorf("expected SELECT, VALUES, or a subquery, found %s", p.Token().Type)
	}
}

// parseValues parses VALUES (a, b), (c, d), ...
func (p *Parser) parseValues() (*ast.Values, error) {
	p.NextToken() // VALUES
	values := &ast.Values{}
	for {
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		row, err := p.parseExprList(p.dialect.Flags().SupportsTrailingCommas)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		values.Rows = append(values.Rows, row)
		if !p.Match(token.COMMA) {
			return values, nil
		}
	}
}

// parseSelect parses one SELECT core.
func (p *Parser) parseSelect() (*ast.Select, error) {
	p.NextToken() // SELECT
	sel := &ast.Select{}

	if p.Match(token.DISTINCT) {
		sel.Distinct = true
	} else {
		p.Match(token.ALL)
	}

	if p.Match(token.TOP) {
		top := &ast.Top{}
		quantity, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		top.Quantity = quantity
		if p.Match(token.PERCENT_KW) {
			top.Percent = true
		}
		if p.Check(token.WITH) && p.Peek().Type == token.TIES {
			p.NextToken()
			p.NextToken()
			top.WithTies = true
		}
		sel.Top = top
	}

	projection, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	sel.Projection = projection

	if p.Match(token.FROM) {
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		sel.From = from
	}

	if p.Match(token.WHERE) {
		selection, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		sel.Selection = selection
	}

	if p.Match(token.GROUP) {
		if err := p.Expect(token.BY); err != nil {
			return nil, err
		}
		groupBy, err := p.parseGroupBy()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = groupBy
	}

	if p.Match(token.HAVING) {
		having, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		sel.Having = having
	}

	if p.Match(token.WINDOW) {
		for {
			name, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(token.AS); err != nil {
				return nil, err
			}
			if err := p.Expect(token.LPAREN); err != nil {
				return nil, err
			}
			spec, err := p.parseWindowSpec()
			if err != nil {
				return nil, err
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			sel.Windows = append(sel.Windows, &ast.NamedWindow{Name: name, Spec: spec})
			if !p.Match(token.COMMA) {
				break
			}
		}
	}

	return sel, nil
}

// parseProjection parses the SELECT item list. Trailing commas are
// accepted when the dialect enables them for projections.
func (p *Parser) parseProjection() ([]*ast.SelectItem, error) {
	trailing := p.dialect.Flags().SupportsProjectionTrailingCommas ||
		p.dialect.Flags().SupportsTrailingCommas

	var items []*ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.Match(token.COMMA) {
			return items, nil
		}
		if trailing && p.listDone() {
			return items, nil
		}
	}
}

func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	// * [EXCEPT (cols)]
	if p.Check(token.STAR) {
		p.NextToken()
		item := &ast.SelectItem{Wildcard: true}
		if err := p.parseWildcardExcept(item); err != nil {
			return nil, err
		}
		return item, nil
	}

	// qualifier.* — speculative: rewind if the dots do not end in *.
	if p.Check(token.IDENT) && p.Peek().Type == token.DOT {
		cp := p.Checkpoint()
		var parts []ast.Ident
		for p.Check(token.IDENT) && p.Peek().Type == token.DOT {
			ident, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ident)
			p.NextToken() // .
			if p.Check(token.STAR) {
				p.NextToken()
				item := &ast.SelectItem{
					Wildcard:  true,
					Qualifier: &ast.ObjectName{Parts: parts},
				}
				if err := p.parseWildcardExcept(item); err != nil {
					return nil, err
				}
				return item, nil
			}
		}
		p.Restore(cp)
	}

	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	item := &ast.SelectItem{Expr: expr}

	if p.Match(token.AS) {
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		item.Alias = &alias
	} else if p.Check(token.IDENT) {
		// Implicit alias: a bare identifier directly after the
		// expression.
		alias, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		item.Alias = &alias
	}

	return item, nil
}

// parseWildcardExcept handles * EXCEPT (cols), gated on the dialect.
func (p *Parser) parseWildcardExcept(item *ast.SelectItem) error {
	if !p.Check(token.EXCEPT) || p.Peek().Type != token.LPAREN {
		return nil
	}
	if !p.dialect.Flags().SupportsSelectWildcardExcept {
		return p.Errorf("SELECT * EXCEPT is not supported by the %s dialect", p.dialect.Name())
	}
	p.NextToken()
	cols, err := p.parseParenIdentList()
	if err != nil {
		return err
	}
	item.Except = cols
	return nil
}

// parseGroupBy parses the GROUP BY body. ROLLUP, CUBE and GROUPING
// SETS are gated on the dialect.
func (p *Parser) parseGroupBy() (*ast.GroupBy, error) {
	flags := p.dialect.Flags()

	switch p.Token().Type {
	case token.ROLLUP, token.CUBE:
		if !flags.SupportsGroupByExpression {
			return nil, p.Errorf("GROUP BY %s is not supported by the %s dialect", p.Token().Type, p.dialect.Name())
		}
		modifier := ast.GroupByRollup
		if p.Token().Type == token.CUBE {
			modifier = ast.GroupByCube
		}
		p.NextToken()
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprList(flags.SupportsTrailingCommas)
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.GroupBy{Modifier: modifier, Exprs: exprs}, nil

	case token.GROUPING:
		if !flags.SupportsGroupByExpression {
			return nil, p.Errorf("GROUP BY GROUPING SETS is not supported by the %s dialect", p.dialect.Name())
		}
		p.NextToken()
		if err := p.Expect(token.SETS); err != nil {
			return nil, err
		}
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		groupBy := &ast.GroupBy{Modifier: ast.GroupByGroupingSets}
		for {
			if err := p.Expect(token.LPAREN); err != nil {
				return nil, err
			}
			var set []ast.Expr
			if !p.Check(token.RPAREN) {
				exprs, err := p.parseExprList(flags.SupportsTrailingCommas)
				if err != nil {
					return nil, err
				}
				set = exprs
			}
			if err := p.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			groupBy.Sets = append(groupBy.Sets, set)
			if !p.Match(token.COMMA) {
				break
			}
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return groupBy, nil
	}

	exprs, err := p.parseExprList(flags.SupportsTrailingCommas)
	if err != nil {
		return nil, err
	}
	return &ast.GroupBy{Exprs: exprs}, nil
}

// parseOrderByList parses order-by elements with their ASC/DESC and
// NULLS FIRST/LAST markers.
func (p *Parser) parseOrderByList() ([]*ast.OrderByExpr, error) {
	var items []*ast.OrderByExpr
	for {
		item, err := p.parseOrderByExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.Match(token.COMMA) {
			return items, nil
		}
	}
}

func (p *Parser) parseOrderByExpr() (*ast.OrderByExpr, error) {
	expr, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	item := &ast.OrderByExpr{Expr: expr}

	switch {
	case p.Match(token.ASC):
		asc := true
		item.Asc = &asc
	case p.Match(token.DESC):
		asc := false
		item.Asc = &asc
	}

	if p.Match(token.NULLS) {
		switch {
		case p.Match(token.FIRST):
			first := true
			item.NullsFirst = &first
		case p.Match(token.LAST):
			first := false
			item.NullsFirst = &first
		default:
			return nil, p.Errorf("expected FIRST or LAST after NULLS")
		}
	}
	return item, nil
}

// parseFetch parses FETCH {FIRST|NEXT} [n [PERCENT]] {ROW|ROWS}
// {ONLY|WITH TIES}.
func (p *Parser) parseFetch() (*ast.Fetch, error) {
	p.NextToken() // FETCH
	fetch := &ast.Fetch{}

	if !p.Match(token.FIRST) && !p.Match(token.NEXT) {
		return nil, p.Errorf("expected FIRST or NEXT after FETCH")
	}

	if !p.Check(token.ROW) && !p.Check(token.ROWS) {
		quantity, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		fetch.Quantity = quantity
		if p.Match(token.PERCENT_KW) {
			fetch.Percent = true
		}
	}

	if !p.Match(token.ROW) && !p.Match(token.ROWS) {
		return nil, p.Errorf("expected ROW or ROWS in FETCH clause")
	}

	switch {
	case p.Match(token.ONLY):
	case p.Match(token.WITH):
		if err := p.Expect(token.TIES); err != nil {
			return nil, err
		}
		fetch.WithTies = true
	default:
		return nil, p.Errorf("expected ONLY or WITH TIES in FETCH clause")
	}
	return fetch, nil
}
