package parser

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// FROM clause parsing: table factors and join chains.

// parseFromList parses the comma-separated FROM items.
func (p *Parser) parseFromList() ([]*ast.TableWithJoins, error) {
	trailing := p.dialect.Flags().SupportsTrailingCommas

	var items []*ast.TableWithJoins
	for {
		item, err := p.parseTableWithJoins()
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

// parseTableWithJoins parses a relation followed by its join chain.
func (p *Parser) parseTableWithJoins() (*ast.TableWithJoins, error) {
	relation, err := p.parseTableFactor()
	if err != nil {
		return nil, err
	}
	twj := &ast.TableWithJoins{Relation: relation}

	for p.atJoinKeyword() {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		twj.Joins = append(twj.Joins, join)
	}
	return twj, nil
}

func (p *Parser) atJoinKeyword() bool {
	switch p.Token().Type {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL,
		token.CROSS, token.NATURAL:
		return true
	}
	return false
}

// parseJoin parses one join step: the operator words, the relation,
// and the ON / USING constraint.
func (p *Parser) parseJoin() (*ast.Join, error) {
	join := &ast.Join{}
	natural := p.Match(token.NATURAL)

	switch p.Token().Type {
	case token.CROSS:
		p.NextToken()
		if err := p.Expect(token.JOIN); err != nil {
			return nil, err
		}
		join.Op = ast.JoinCross
	case token.INNER:
		p.NextToken()
		if err := p.Expect(token.JOIN); err != nil {
			return nil, err
		}
		join.Op = ast.JoinInner
	case token.LEFT:
		p.NextToken()
		p.Match(token.OUTER)
		if err := p.Expect(token.JOIN); err != nil {
			return nil, err
		}
		join.Op = ast.JoinLeftOuter
	case token.RIGHT:
		p.NextToken()
		p.Match(token.OUTER)
		if err := p.Expect(token.JOIN); err != nil {
			return nil, err
		}
		join.Op = ast.JoinRightOuter
	case token.FULL:
		p.NextToken()
		p.Match(token.OUTER)
		if err := p.Expect(token.JOIN); err != nil {
			return nil, err
		}
		join.Op = ast.JoinFullOuter
	case token.JOIN:
		p.NextToken()
		join.Op = ast.JoinInner
	default:
		return nil, p.Errorf("expected a join operator, found %s", p.Token().Type)
	}

	relation, err := p.parseTableFactor()
	if err != nil {
		return nil, err
	}
	join.Relation = relation

	switch {
	case natural:
		join.Constraint = &ast.NaturalConstraint{}
	case p.Match(token.ON):
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		join.Constraint = &ast.OnConstraint{Expr: expr}
	case p.Match(token.USING):
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		join.Constraint = &ast.UsingConstraint{Columns: cols}
	}

	return join, nil
}

// parseTableFactor parses a named table, a derived table, or a
// parenthesized join tree.
func (p *Parser) parseTableFactor() (ast.TableFactor, error) {
	if p.Match(token.LATERAL) {
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		return p.parseDerived(true)
	}

	if p.Match(token.LPAREN) {
		// A paren here opens either a derived table or a nested join
		// tree; peeking at the first token decides.
		if p.Check(token.SELECT) || p.Check(token.WITH) || p.Check(token.VALUES) {
			return p.parseDerived(false)
		}
		inner, err := p.parseTableWithJoins()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		nested := &ast.NestedJoin{Inner: inner}
		alias, err := p.parseTableAlias()
		if err != nil {
			return nil, err
		}
		nested.Alias = alias
		return nested, nil
	}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	table := &ast.TableName{Name: name}
	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	table.Alias = alias
	return table, nil
}

// parseDerived parses the query body and alias of a derived table.
// The opening paren has been consumed.
func (p *Parser) parseDerived(lateral bool) (ast.TableFactor, error) {
	query, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	derived := &ast.Derived{Lateral: lateral, Query: query}
	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	derived.Alias = alias
	return derived, nil
}

// parseTableAlias parses [AS] name [(cols)], or nothing. A reserved
// keyword is never taken as an implicit alias.
func (p *Parser) parseTableAlias() (*ast.TableAlias, error) {
	explicit := p.Match(token.AS)
	if !explicit && !p.Check(token.IDENT) {
		return nil, nil
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	alias := &ast.TableAlias{Name: name}

	if p.Check(token.LPAREN) {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		alias.Columns = cols
	}
	return alias, nil
}
