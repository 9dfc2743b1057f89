package parser

import (
	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

// DDL statement parsing: CREATE, ALTER, DROP.

func (p *Parser) parseCreate() (ast.Statement, error) {
	p.NextToken() // CREATE

	orReplace := false
	if p.Check(token.OR) && p.Peek().Type == token.REPLACE {
		p.NextToken()
		p.NextToken()
		orReplace = true
	}

	temporary := p.Match(token.TEMPORARY)
	materialized := p.Match(token.MATERIALIZED)
	unique := p.Match(token.UNIQUE)

	switch {
	case p.Match(token.TABLE):
		return p.parseCreateTable(orReplace, temporary)
	case p.Match(token.VIEW):
		return p.parseCreateView(orReplace, materialized)
	case p.Match(token.INDEX):
		return p.parseCreateIndex(unique)
	default:
		return nil, p.Errorf("expected TABLE, VIEW, or INDEX after CREATE, found %s", p.Token().Type)
	}
}

func (p *Parser) parseIfNotExists() (bool, error) {
	if !p.Check(token.IF) {
		return false, nil
	}
	p.NextToken()
	if err := p.Expect(token.NOT); err != nil {
		return false, err
	}
	if err := p.Expect(token.EXISTS); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Parser) parseIfExists() (bool, error) {
	if !p.Check(token.IF) {
		return false, nil
	}
	p.NextToken()
	if err := p.Expect(token.EXISTS); err != nil {
		return false, err
	}
	return true, nil
}

// parseCreateTable parses the tail of CREATE TABLE: name, column and
// constraint list, and the optional AS query.
func (p *Parser) parseCreateTable(orReplace, temporary bool) (ast.Statement, error) {
	ifNotExists, err := p.parseIfNotExists()
	if err != nil {
		return nil, err
	}
	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	create := &ast.CreateTable{
		OrReplace:   orReplace,
		Temporary:   temporary,
		IfNotExists: ifNotExists,
		Name:        name,
	}

	if p.Match(token.LPAREN) {
		for {
			if constraint, ok, err := p.tryParseTableConstraint(); err != nil {
				return nil, err
			} else if ok {
				create.Constraints = append(create.Constraints, constraint)
			} else {
				column, err := p.parseColumnDef()
				if err != nil {
					return nil, err
				}
				create.Columns = append(create.Columns, column)
			}
			if !p.Match(token.COMMA) {
				break
			}
			if p.dialect.Flags().SupportsTrailingCommas && p.Check(token.RPAREN) {
				break
			}
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	if p.Match(token.AS) {
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		create.Query = query
	}
	return create, nil
}

// parseColumnDef parses name type [options].
func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	colType, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	column := &ast.ColumnDef{Name: name, Type: colType}

	for {
		switch {
		case p.Check(token.NOT) && p.Peek().Type == token.NULL:
			p.NextToken()
			p.NextToken()
			column.Options = append(column.Options, &ast.ColumnOption{Kind: ast.ColumnNotNull})
		case p.Match(token.NULL):
			column.Options = append(column.Options, &ast.ColumnOption{Kind: ast.ColumnNull})
		case p.Match(token.DEFAULT):
			expr, err := p.parseExpr(spi.PrecedenceNone)
			if err != nil {
				return nil, err
			}
			column.Options = append(column.Options, &ast.ColumnOption{Kind: ast.ColumnDefault, Expr: expr})
		case p.Check(token.PRIMARY):
			p.NextToken()
			if err := p.Expect(token.KEY); err != nil {
				return nil, err
			}
			column.Options = append(column.Options, &ast.ColumnOption{Kind: ast.ColumnPrimaryKey})
		case p.Match(token.UNIQUE):
			column.Options = append(column.Options, &ast.ColumnOption{Kind: ast.ColumnUnique})
		default:
			return column, nil
		}
	}
}

// tryParseTableConstraint recognizes a table-level constraint at the
// current position: [CONSTRAINT name] {UNIQUE | PRIMARY KEY | CHECK}.
func (p *Parser) tryParseTableConstraint() (*ast.TableConstraint, bool, error) {
	constraint := &ast.TableConstraint{}

	if p.Check(token.CONSTRAINT) {
		p.NextToken()
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, false, err
		}
		constraint.Name = &name
	} else if !p.Check(token.PRIMARY) && !p.Check(token.CHECK) &&
		!(p.Check(token.UNIQUE) && p.Peek().Type == token.LPAREN) {
		return nil, false, nil
	}

	switch {
	case p.Match(token.PRIMARY):
		if err := p.Expect(token.KEY); err != nil {
			return nil, false, err
		}
		constraint.Kind = ast.ConstraintPrimaryKey
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, false, err
		}
		constraint.Columns = cols
	case p.Match(token.UNIQUE):
		constraint.Kind = ast.ConstraintUnique
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, false, err
		}
		constraint.Columns = cols
	case p.Match(token.CHECK):
		constraint.Kind = ast.ConstraintCheck
		if err := p.Expect(token.LPAREN); err != nil {
			return nil, false, err
		}
		expr, err := p.parseExpr(spi.PrecedenceNone)
		if err != nil {
			return nil, false, err
		}
		if err := p.Expect(token.RPAREN); err != nil {
			return nil, false, err
		}
		constraint.Expr = expr
	default:
		return nil, false, p.Errorf("expected UNIQUE, PRIMARY KEY, or CHECK in table constraint")
	}
	return constraint, true, nil
}

// parseCreateView parses the tail of CREATE [MATERIALIZED] VIEW.
func (p *Parser) parseCreateView(orReplace, materialized bool) (ast.Statement, error) {
	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	view := &ast.CreateView{
		OrReplace:    orReplace,
		Materialized: materialized,
		Name:         name,
	}

	if p.Check(token.LPAREN) {
		cols, err := p.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		view.Columns = cols
	}

	if err := p.Expect(token.AS); err != nil {
		return nil, err
	}
	query, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	view.Query = query
	return view, nil
}

// parseCreateIndex parses the tail of CREATE [UNIQUE] INDEX.
func (p *Parser) parseCreateIndex(unique bool) (ast.Statement, error) {
	ifNotExists, err := p.parseIfNotExists()
	if err != nil {
		return nil, err
	}
	index := &ast.CreateIndex{Unique: unique, IfNotExists: ifNotExists}

	if !p.Check(token.ON) {
		name, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		index.Name = name
	}
	if err := p.Expect(token.ON); err != nil {
		return nil, err
	}
	table, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	index.Table = table

	if err := p.Expect(token.LPAREN); err != nil {
		return nil, err
	}
	cols, err := p.parseOrderByList()
	if err != nil {
		return nil, err
	}
	index.Columns = cols
	if err := p.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return index, nil
}

// parseAlterTable parses ALTER TABLE name <operation>.
func (p *Parser) parseAlterTable() (ast.Statement, error) {
	p.NextToken() // ALTER
	if err := p.Expect(token.TABLE); err != nil {
		return nil, err
	}
	name, err := p.parseObjectName()
	if err != nil {
		return nil, err
	}
	alter := &ast.AlterTable{Name: name}

	switch {
	case p.Check(token.IDENT) && equalsUpper(p.Token().Literal, "ADD"):
		p.NextToken()
		p.Match(token.COLUMN)
		ifNotExists, err := p.parseIfNotExists()
		if err != nil {
			return nil, err
		}
		column, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		alter.Op = &ast.AddColumn{IfNotExists: ifNotExists, Column: column}

	case p.Match(token.DROP):
		p.Match(token.COLUMN)
		ifExists, err := p.parseIfExists()
		if err != nil {
			return nil, err
		}
		column, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		alter.Op = &ast.DropColumn{IfExists: ifExists, Name: column}

	case p.Match(token.RENAME):
		if p.Match(token.TO) {
			target, err := p.parseObjectName()
			if err != nil {
				return nil, err
			}
			alter.Op = &ast.RenameTable{Name: target}
			break
		}
		p.Match(token.COLUMN)
		old, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(token.TO); err != nil {
			return nil, err
		}
		renamed, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		alter.Op = &ast.RenameColumn{Old: old, New: renamed}

	default:
		return nil, p.Errorf("expected ADD, DROP, or RENAME in ALTER TABLE, found %s", p.Token().Type)
	}

	return alter, nil
}

// parseDrop parses DROP {TABLE|VIEW|INDEX} [IF EXISTS] names
// [CASCADE|RESTRICT].
func (p *Parser) parseDrop() (ast.Statement, error) {
	p.NextToken() // DROP
	drop := &ast.Drop{}

	switch {
	case p.Match(token.TABLE):
		drop.Kind = ast.ObjectTable
	case p.Match(token.VIEW):
		drop.Kind = ast.ObjectView
	case p.Match(token.INDEX):
		drop.Kind = ast.ObjectIndex
	default:
		return nil, p.Errorf("expected TABLE, VIEW, or INDEX after DROP, found %s", p.Token().Type)
	}

	ifExists, err := p.parseIfExists()
	if err != nil {
		return nil, err
	}
	drop.IfExists = ifExists

	for {
		name, err := p.parseObjectName()
		if err != nil {
			return nil, err
		}
		drop.Names = append(drop.Names, name)
		if !p.Match(token.COMMA) {
			break
		}
	}

	switch {
	case p.Match(token.CASCADE):
		drop.Cascade = true
	case p.Match(token.RESTRICT):
		drop.Restrict = true
	}
	return drop, nil
}
