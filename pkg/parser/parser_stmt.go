package parser

import (
	"strings"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// DML and session statement parsing. DDL lives in parser_ddl.go.

// parseInsert parses INSERT INTO table [(cols)] {VALUES ... | query}.
func (p *Parser) parseInsert() (ast.Statement, error) {
	p.NextToken() // INSERT
	if err := p.Expect(token.INTO); err != nil {
		return nil, err
	}
	insert := &ast.Insert{}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	insert.Table = name

	// A paren here is a column list only if it is not the start of a
	// parenthesized source query.
	if p.Check(token.LPAREN) && p.Peek().Type != token.SELECT && p.Peek().Type != token.WITH {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		insert.Columns = cols
	}

	source, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	insert.Source = source
	return insert, nil
}

// parseUpdate parses UPDATE table SET a = expr, ... [WHERE expr].
func (p *Parser) parseUpdate() (ast.Statement, error) {
	p.NextToken() // UPDATE
	update := &ast.Update{}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	update.Table = &ast.TableName{Name: name}
	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	update.Table.Alias = alias

	if err := p.Expect(token.SET); err != nil {
		return nil, err
	}
	for {
		target, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.EQ); err != nil {
			return nil, err
		}
		// Assignment is right-associative: everything up to the next
		// comma belongs to the value.
		value, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		update.Assignments = append(update.Assignments, &ast.Assignment{Target: target, Value: value})
		if !p.Match(token.COMMA) {
			break
		}
	}

	if p.Match(token.WHERE) {
		selection, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		update.Selection = selection
	}
	return update, nil
}

// parseDelete parses DELETE FROM table [WHERE expr].
func (p *Parser) parseDelete() (ast.Statement, error) {
	p.NextToken() // DELETE
	if err := p.Expect(token.FROM); err != nil {
		return nil, err
	}
	del := &ast.Delete{}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	del.Table = &ast.TableName{Name: name}
	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	del.Table.Alias = alias

	if p.Match(token.WHERE) {
		selection, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, err
		}
		del.Selection = selection
	}
	return del, nil
}

// parseSetVariable parses SET name = expr, or the parenthesized form
// SET (a, b) = (1, 2) where the dialect allows it.
func (p *Parser) parseSetVariable() (ast.Statement, error) {
	p.NextToken() // SET
	set := &ast.SetVariable{}

	if p.Check(token.LPAREN) {
		if !p.dialect.Flags().SupportsParenthesizedSetVariables {
			return nil, p.Errorf("parenthesized SET variables are not supported by the %s dialect", p.dialect.Name())
		}
		set.Parenthesized = true
		p.NextToken()
		for {
			name, err := p.parseObjectName()
			if err != nil {
				return nil, err
			}
			set.Names = append(set.Names, name)
			if !p.Match(token.COMMA) {
				break
			}
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		if err := p.Expect(token.EQ); err != nil {
			return nil, err
		}
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, err
		}
		values, err := p.parseExprList(false)
		if err != nil {
			return nil, err
		}
		set.Values = values
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		if len(set.Names) != len(set.Values) {
			return nil, p.Errorf("SET names and values differ in length")
		}
		return set, nil
	}

	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	set.Names = []*ast.ObjectName{name}
	if err := p.Expect(token.EQ); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(spi.PrecedenceNone)
	if err != nil {
		return nil, err
	}
	set.Values = []ast.Expr{value}
	return set, nil
}

// parseStartTransaction parses START TRANSACTION [modes] and BEGIN
// [modifier] [TRANSACTION].
func (p *Parser) parseStartTransaction() (ast.Statement, error) {
	stmt := &ast.StartTransaction{}

	if p.Match(token.BEGIN) {
		stmt.Begin = true
		// BEGIN DEFERRED / IMMEDIATE / EXCLUSIVE, dialect-gated.
		if p.Check(token.IDENT) {
			if !p.dialect.Flags().SupportsStartTransactionModifier {
				return nil, p.Errorf("transaction modifier %q is not supported by the %s dialect",
					p.Token().Literal, p.dialect.Name())
			}
			stmt.Modifier = strings.ToUpper(p.Token().Literal)
			p.NextToken()
		}
		p.Match(token.TRANSACTION)
		return stmt, nil
	}

	p.NextToken() // START
	if err := p.Expect(token.TRANSACTION); err != nil {
		return nil, err
	}

	for {
		var mode ast.TransactionMode
		switch {
		case p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "READ"):
			p.NextToken()
			switch {
			case p.Check(token.ONLY):
				p.NextToken()
				mode = ast.ReadOnly
			case p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "WRITE"):
				p.NextToken()
				mode = ast.ReadWrite
			default:
				return nil, p.Errorf("expected ONLY or WRITE after READ")
			}
		case p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "ISOLATION"):
			p.NextToken()
			if !p.Check(token.IDENT) || !equalsUpper(p.Token().Literal, "LEVEL") {
				return nil, p.Errorf("expected LEVEL after ISOLATION")
			}
			p.NextToken()
			level, err := p.parseIsolationLevel()
			if err != nil {
				return nil, err
			}
			mode = level
		default:
			return stmt, nil
		}
		stmt.Modes = append(stmt.Modes, mode)
		if !p.Match(token.COMMA) {
			return stmt, nil
		}
	}
}

func (p *Parser) parseIsolationLevel() (ast.TransactionMode, error) {
	word := strings.ToUpper(p.Token().Literal)
	switch {
	case word == "READ":
		p.NextToken()
		next := strings.ToUpper(p.Token().Literal)
		p.NextToken()
		switch next {
		case "UNCOMMITTED":
			return ast.ReadUncommitted, nil
		case "COMMITTED":
			return ast.ReadCommitted, nil
		}
	case word == "REPEATABLE":
		p.NextToken()
		if equalsUpper(p.Token().Literal, "READ") {
			p.NextToken()
			return ast.RepeatableRead, nil
		}
	case word == "SERIALIZABLE":
		p.NextToken()
		return ast.Serializable, nil
	}
	return "", p.Errorf("invalid isolation level")
}

// parseGrant parses GRANT privileges ON objects TO grantees
// [WITH GRANT OPTION].
func (p *Parser) parseGrant() (ast.Statement, error) {
	p.NextToken() // GRANT
	grant := &ast.Grant{}

	for {
		priv, err := p.parsePrivilege()
		if err != nil {
			return nil, err
		}
		grant.Privileges = append(grant.Privileges, priv)
		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.ON); err != nil {
		return nil, err
	}
	for {
		name, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		grant.Objects = append(grant.Objects, name)
		if !p.Match(token.COMMA) {
			break
		}
	}

	if err := p.Expect(token.TO); err != nil {
		return nil, err
	}
	grantees, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	grant.Grantees = grantees

	if p.Match(token.WITH) {
		if err := p.Expect(token.GRANT); err != nil {
			return nil, err
		}
		if err := p.Expect(token.OPTION); err != nil {
			return nil, err
		}
		grant.WithGrantOption = true
	}
	return grant, nil
}

func (p *Parser) parsePrivilege() (string, error) {
	switch p.Token().Type {
	case token.SELECT, token.INSERT, token.UPDATE, token.DELETE,
		token.CREATE, token.DROP, token.TRUNCATE, token.GRANT:
		word := p.Token().Type.String()
		p.NextToken()
		return word, nil
	case token.ALL:
		p.NextToken()
		if p.Match(token.PRIVILEGES) {
			return "ALL PRIVILEGES", nil
		}
		return "ALL", nil
	case token.IDENT:
		word := strings.ToUpper(p.Token().Literal)
		p.NextToken()
		return word, nil
	default:
		return "", p.Errorf("expected a privilege, found %s", p.Token().Type)
	}
}

// parseUse parses USE database.
func (p *Parser) parseUse() (ast.Statement, error) {
	p.NextToken() // USE
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	return &ast.Use{Name: name}, nil
}

// parseExplain parses EXPLAIN statement.
func (p *Parser) parseExplain() (ast.Statement, error) {
	p.NextToken() // EXPLAIN
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Explain{Statement: stmt}, nil
}

// parseTruncate parses TRUNCATE [TABLE] name.
func (p *Parser) parseTruncate() (ast.Statement, error) {
	p.NextToken() // TRUNCATE
	p.Match(token.TABLE)
	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	return &ast.Truncate{Name: name}, nil
}
