package format

import (
	"github.com/leapstack-labs/squill/pkg/ast"
)

func (p *printer) query(q *ast.Query) {
	if q.With != nil {
		p.keyword("WITH ")
		if q.With.Recursive {
			p.keyword("RECURSIVE ")
		}
		p.commaSep(len(q.With.CTEs), func(i int) {
			cte := q.With.CTEs[i]
			p.write(cte.Name.String())
			if len(cte.Columns) > 0 {
				p.write(" (")
				p.identList(cte.Columns)
				p.write(")")
			}
			p.keyword(" AS (")
			p.query(cte.Query)
			p.write(")")
		})
		p.space()
	}

	p.setExpr(q.Body)

	if len(q.OrderBy) > 0 {
		p.keyword(" ORDER BY ")
		p.orderByList(q.OrderBy)
	}
	if q.Limit != nil {
		p.keyword(" LIMIT ")
		p.expr(q.Limit)
	}
	if q.Offset != nil {
		p.keyword(" OFFSET ")
		p.expr(q.Offset.Value)
		if q.Offset.Rows != ast.OffsetRowsNone {
			p.space()
			p.keyword(string(q.Offset.Rows))
		}
	}
	if q.Fetch != nil {
		p.keyword(" FETCH FIRST ")
		if q.Fetch.Quantity != nil {
			p.expr(q.Fetch.Quantity)
			if q.Fetch.Percent {
				p.keyword(" PERCENT")
			}
			p.keyword(" ROWS")
		} else {
			p.keyword("ROW")
		}
		if q.Fetch.WithTies {
			p.keyword(" WITH TIES")
		} else {
			p.keyword(" ONLY")
		}
	}
	for _, lock := range q.Locks {
		p.keyword(" FOR ")
		p.keyword(string(lock.Mode))
	}
}

func (p *printer) setExpr(body ast.SetExpr) {
	switch b := body.(type) {
	case *ast.Select:
		p.selectCore(b)

	case *ast.SetOperation:
		p.setExpr(b.Left)
		p.space()
		p.keyword(string(b.Op))
		if b.All {
			p.keyword(" ALL")
		}
		p.space()
		p.setExpr(b.Right)

	case *ast.ParenQuery:
		p.write("(")
		p.query(b.Query)
		p.write(")")

	case *ast.Values:
		p.keyword("VALUES ")
		p.commaSep(len(b.Rows), func(i int) {
			p.write("(")
			p.exprList(b.Rows[i])
			p.write(")")
		})
	}
}

func (p *printer) selectCore(sel *ast.Select) {
	p.keyword("SELECT ")
	if sel.Distinct {
		p.keyword("DISTINCT ")
	}
	if sel.Top != nil {
		p.keyword("TOP ")
		p.expr(sel.Top.Quantity)
		if sel.Top.Percent {
			p.keyword(" PERCENT")
		}
		if sel.Top.WithTies {
			p.keyword(" WITH TIES")
		}
		p.space()
	}

	p.commaSep(len(sel.Projection), func(i int) {
		p.selectItem(sel.Projection[i])
	})

	if len(sel.From) > 0 {
		p.keyword(" FROM ")
		p.commaSep(len(sel.From), func(i int) {
			p.tableWithJoins(sel.From[i])
		})
	}
	if sel.Selection != nil {
		p.keyword(" WHERE ")
		p.expr(sel.Selection)
	}
	if sel.GroupBy != nil {
		p.keyword(" GROUP BY ")
		p.groupBy(sel.GroupBy)
	}
	if sel.Having != nil {
		p.keyword(" HAVING ")
		p.expr(sel.Having)
	}
	if len(sel.Windows) > 0 {
		p.keyword(" WINDOW ")
		p.commaSep(len(sel.Windows), func(i int) {
			w := sel.Windows[i]
			p.write(w.Name.String())
			p.keyword(" AS (")
			p.windowSpec(w.Spec)
			p.write(")")
		})
	}
}

func (p *printer) selectItem(item *ast.SelectItem) {
	if item.Wildcard {
		if item.Qualifier != nil {
			p.write(item.Qualifier.String())
			p.write(".")
		}
		p.write("*")
		if len(item.Except) > 0 {
			p.keyword(" EXCEPT (")
			p.identList(item.Except)
			p.write(")")
		}
		return
	}
	p.expr(item.Expr)
	if item.Alias != nil {
		p.keyword(" AS ")
		p.write(item.Alias.String())
	}
}

func (p *printer) groupBy(g *ast.GroupBy) {
	switch g.Modifier {
	case ast.GroupByRollup:
		p.keyword("ROLLUP (")
		p.exprList(g.Exprs)
		p.write(")")
	case ast.GroupByCube:
		p.keyword("CUBE (")
		p.exprList(g.Exprs)
		p.write(")")
	case ast.GroupByGroupingSets:
		p.keyword("GROUPING SETS (")
		p.commaSep(len(g.Sets), func(i int) {
			p.write("(")
			p.exprList(g.Sets[i])
			p.write(")")
		})
		p.write(")")
	default:
		p.exprList(g.Exprs)
	}
}

func (p *printer) tableWithJoins(twj *ast.TableWithJoins) {
	p.tableFactor(twj.Relation)
	for _, join := range twj.Joins {
		p.space()
		if _, natural := join.Constraint.(*ast.NaturalConstraint); natural {
			p.keyword("NATURAL ")
		}
		p.keyword(string(join.Op))
		p.space()
		p.tableFactor(join.Relation)
		switch c := join.Constraint.(type) {
		case *ast.OnConstraint:
			p.keyword(" ON ")
			p.expr(c.Expr)
		case *ast.UsingConstraint:
			p.keyword(" USING (")
			p.identList(c.Columns)
			p.write(")")
		}
	}
}

func (p *printer) tableFactor(factor ast.TableFactor) {
	switch f := factor.(type) {
	case *ast.TableName:
		p.write(f.Name.String())
		p.tableAlias(f.Alias)

	case *ast.Derived:
		if f.Lateral {
			p.keyword("LATERAL ")
		}
		p.write("(")
		p.query(f.Query)
		p.write(")")
		p.tableAlias(f.Alias)

	case *ast.NestedJoin:
		p.write("(")
		p.tableWithJoins(f.Inner)
		p.write(")")
		p.tableAlias(f.Alias)
	}
}

func (p *printer) tableAlias(alias *ast.TableAlias) {
	if alias == nil {
		return
	}
	p.keyword(" AS ")
	p.write(alias.Name.String())
	if len(alias.Columns) > 0 {
		p.write(" (")
		p.identList(alias.Columns)
		p.write(")")
	}
}
