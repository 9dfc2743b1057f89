package format

import (
	"github.com/leapstack-labs/squill/pkg/ast"
)

// statement renders a statement.
//
//nolint:gocyclo // one arm per statement variant
func (p *printer) statement(stmt ast.Statement) {
	if stmt == nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.Query:
		p.query(s)

	case *ast.Insert:
		p.keyword("INSERT INTO ")
		p.write(s.Table.String())
		if len(s.Columns) > 0 {
			p.write(" (")
			p.identList(s.Columns)
			p.write(")")
		}
		p.space()
		p.query(s.Source)

	case *ast.Update:
		p.keyword("UPDATE ")
		p.tableFactor(s.Table)
		p.keyword(" SET ")
		p.commaSep(len(s.Assignments), func(i int) {
			a := s.Assignments[i]
			p.write(a.Target.String())
			p.write(" = ")
			p.expr(a.Value)
		})
		if s.Selection != nil {
			p.keyword(" WHERE ")
			p.expr(s.Selection)
		}

	case *ast.Delete:
		p.keyword("DELETE FROM ")
		p.tableFactor(s.Table)
		if s.Selection != nil {
			p.keyword(" WHERE ")
			p.expr(s.Selection)
		}

	case *ast.CreateTable:
		p.createTable(s)

	case *ast.CreateView:
		p.keyword("CREATE ")
		if s.OrReplace {
			p.keyword("OR REPLACE ")
		}
		if s.Materialized {
			p.keyword("MATERIALIZED ")
		}
		p.keyword("VIEW ")
		p.write(s.Name.String())
		if len(s.Columns) > 0 {
			p.write(" (")
			p.identList(s.Columns)
			p.write(")")
		}
		p.keyword(" AS ")
		p.query(s.Query)

	case *ast.CreateIndex:
		p.keyword("CREATE ")
		if s.Unique {
			p.keyword("UNIQUE ")
		}
		p.keyword("INDEX ")
		if s.IfNotExists {
			p.keyword("IF NOT EXISTS ")
		}
		if s.Name != nil {
			p.write(s.Name.String())
			p.space()
		}
		p.keyword("ON ")
		p.write(s.Table.String())
		p.write(" (")
		p.orderByList(s.Columns)
		p.write(")")

	case *ast.AlterTable:
		p.keyword("ALTER TABLE ")
		p.write(s.Name.String())
		p.space()
		p.alterTableOp(s.Op)

	case *ast.Drop:
		p.keyword("DROP ")
		p.keyword(string(s.Kind))
		p.space()
		if s.IfExists {
			p.keyword("IF EXISTS ")
		}
		p.commaSep(len(s.Names), func(i int) {
			p.write(s.Names[i].String())
		})
		if s.Cascade {
			p.keyword(" CASCADE")
		}
		if s.Restrict {
			p.keyword(" RESTRICT")
		}

	case *ast.Truncate:
		p.keyword("TRUNCATE TABLE ")
		p.write(s.Name.String())

	case *ast.StartTransaction:
		if s.Begin {
			p.keyword("BEGIN")
			if s.Modifier != "" {
				p.space()
				p.keyword(s.Modifier)
			}
			return
		}
		p.keyword("START TRANSACTION")
		p.commaSep(len(s.Modes), func(i int) {
			if i == 0 {
				p.space()
			}
			p.keyword(string(s.Modes[i]))
		})

	case *ast.Commit:
		p.keyword("COMMIT")

	case *ast.Rollback:
		p.keyword("ROLLBACK")

	case *ast.Grant:
		p.keyword("GRANT ")
		p.commaSep(len(s.Privileges), func(i int) {
			p.keyword(s.Privileges[i])
		})
		p.keyword(" ON ")
		p.commaSep(len(s.Objects), func(i int) {
			p.write(s.Objects[i].String())
		})
		p.keyword(" TO ")
		p.identList(s.Grantees)
		if s.WithGrantOption {
			p.keyword(" WITH GRANT OPTION")
		}

	case *ast.Use:
		p.keyword("USE ")
		p.write(s.Name.String())

	case *ast.SetVariable:
		p.keyword("SET ")
		if s.Parenthesized {
			p.write("(")
			p.commaSep(len(s.Names), func(i int) {
				p.write(s.Names[i].String())
			})
			p.write(") = (")
			p.exprList(s.Values)
			p.write(")")
			return
		}
		p.write(s.Names[0].String())
		p.write(" = ")
		p.expr(s.Values[0])

	case *ast.Explain:
		p.keyword("EXPLAIN ")
		p.statement(s.Statement)

	default:
		p.printf("%v", stmt)
	}
}

func (p *printer) createTable(s *ast.CreateTable) {
	p.keyword("CREATE ")
	if s.OrReplace {
		p.keyword("OR REPLACE ")
	}
	if s.Temporary {
		p.keyword("TEMPORARY ")
	}
	p.keyword("TABLE ")
	if s.IfNotExists {
		p.keyword("IF NOT EXISTS ")
	}
	p.write(s.Name.String())

	if len(s.Columns) > 0 || len(s.Constraints) > 0 {
		p.write(" (")
		for i, column := range s.Columns {
			if i > 0 {
				p.write(", ")
			}
			p.columnDef(column)
		}
		for i, constraint := range s.Constraints {
			if i > 0 || len(s.Columns) > 0 {
				p.write(", ")
			}
			p.tableConstraint(constraint)
		}
		p.write(")")
	}

	if s.Query != nil {
		p.keyword(" AS ")
		p.query(s.Query)
	}
}

func (p *printer) columnDef(column *ast.ColumnDef) {
	p.write(column.Name.String())
	p.space()
	p.dataType(column.Type)
	for _, opt := range column.Options {
		p.space()
		switch opt.Kind {
		case ast.ColumnNull:
			p.keyword("NULL")
		case ast.ColumnNotNull:
			p.keyword("NOT NULL")
		case ast.ColumnDefault:
			p.keyword("DEFAULT ")
			p.expr(opt.Expr)
		case ast.ColumnPrimaryKey:
			p.keyword("PRIMARY KEY")
		case ast.ColumnUnique:
			p.keyword("UNIQUE")
		}
	}
}

func (p *printer) tableConstraint(constraint *ast.TableConstraint) {
	if constraint.Name != nil {
		p.keyword("CONSTRAINT ")
		p.write(constraint.Name.String())
		p.space()
	}
	switch constraint.Kind {
	case ast.ConstraintUnique:
		p.keyword("UNIQUE (")
		p.identList(constraint.Columns)
		p.write(")")
	case ast.ConstraintPrimaryKey:
		p.keyword("PRIMARY KEY (")
		p.identList(constraint.Columns)
		p.write(")")
	case ast.ConstraintCheck:
		p.keyword("CHECK (")
		p.expr(constraint.Expr)
		p.write(")")
	}
}

func (p *printer) alterTableOp(op ast.AlterTableOp) {
	switch o := op.(type) {
	case *ast.AddColumn:
		p.keyword("ADD COLUMN ")
		if o.IfNotExists {
			p.keyword("IF NOT EXISTS ")
		}
		p.columnDef(o.Column)
	case *ast.DropColumn:
		p.keyword("DROP COLUMN ")
		if o.IfExists {
			p.keyword("IF EXISTS ")
		}
		p.write(o.Name.String())
	case *ast.RenameColumn:
		p.keyword("RENAME COLUMN ")
		p.write(o.Old.String())
		p.keyword(" TO ")
		p.write(o.New.String())
	case *ast.RenameTable:
		p.keyword("RENAME TO ")
		p.write(o.Name.String())
	}
}
