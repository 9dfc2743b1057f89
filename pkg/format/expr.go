package format

import (
	"github.com/leapstack-labs/squill/pkg/ast"
)

// expr renders an expression.
//
//nolint:gocyclo // one arm per expression variant
func (p *printer) expr(e ast.Expr) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.IdentExpr:
		p.write(x.Ident.String())

	case *ast.CompoundIdent:
		p.commaSepDot(x.Parts)

	case *ast.Literal:
		p.literal(x)

	case *ast.BinaryExpr:
		p.expr(x.Left)
		p.write(" ")
		p.write(string(x.Op))
		p.write(" ")
		p.expr(x.Right)

	case *ast.UnaryExpr:
		if x.Op == ast.OpNot {
			p.keyword("NOT ")
			p.expr(x.Expr)
			return
		}
		p.write(string(x.Op))
		p.expr(x.Expr)

	case *ast.FuncCall:
		p.funcCall(x)

	case *ast.CaseExpr:
		p.caseExpr(x)

	case *ast.CastExpr:
		if x.Operator {
			p.expr(x.Expr)
			p.write("::")
			p.dataType(x.Type)
			return
		}
		p.keyword("CAST(")
		p.expr(x.Expr)
		p.keyword(" AS ")
		p.dataType(x.Type)
		p.write(")")

	case *ast.ConvertExpr:
		p.keyword("CONVERT(")
		if x.TypeFirst {
			p.dataType(x.Type)
			p.write(", ")
			p.expr(x.Expr)
		} else {
			p.expr(x.Expr)
			p.write(", ")
			p.dataType(x.Type)
		}
		p.write(")")

	case *ast.SubqueryExpr:
		p.write("(")
		p.query(x.Query)
		p.write(")")

	case *ast.ExistsExpr:
		if x.Not {
			p.keyword("NOT ")
		}
		p.keyword("EXISTS (")
		p.query(x.Query)
		p.write(")")

	case *ast.InExpr:
		p.expr(x.Expr)
		if x.Not {
			p.keyword(" NOT")
		}
		p.keyword(" IN (")
		if x.Query != nil {
			p.query(x.Query)
		} else {
			p.exprList(x.List)
		}
		p.write(")")

	case *ast.BetweenExpr:
		p.expr(x.Expr)
		if x.Not {
			p.keyword(" NOT")
		}
		p.keyword(" BETWEEN ")
		p.expr(x.Low)
		p.keyword(" AND ")
		p.expr(x.High)

	case *ast.LikeExpr:
		p.expr(x.Expr)
		if x.Not {
			p.keyword(" NOT")
		}
		p.write(" ")
		p.write(string(x.Op))
		p.write(" ")
		p.expr(x.Pattern)
		if x.Escape != nil {
			p.keyword(" ESCAPE ")
			p.expr(x.Escape)
		}

	case *ast.IsExpr:
		p.expr(x.Expr)
		switch x.Kind {
		case ast.IsNull:
			p.keyword(" IS NULL")
		case ast.IsNotNull:
			p.keyword(" IS NOT NULL")
		case ast.IsTrue:
			p.keyword(" IS TRUE")
		case ast.IsNotTrue:
			p.keyword(" IS NOT TRUE")
		case ast.IsFalse:
			p.keyword(" IS FALSE")
		case ast.IsNotFalse:
			p.keyword(" IS NOT FALSE")
		case ast.IsDistinctFrom:
			p.keyword(" IS DISTINCT FROM ")
			p.expr(x.Other)
		case ast.IsNotDistinctFrom:
			p.keyword(" IS NOT DISTINCT FROM ")
			p.expr(x.Other)
		}

	case *ast.CollateExpr:
		p.expr(x.Expr)
		p.keyword(" COLLATE ")
		p.write(x.Collation.String())

	case *ast.ParenExpr:
		p.write("(")
		p.expr(x.Expr)
		p.write(")")

	case *ast.TupleExpr:
		p.write("(")
		p.exprList(x.Exprs)
		p.write(")")

	case *ast.ArrayExpr:
		if x.Keyword {
			p.keyword("ARRAY")
		}
		p.write("[")
		p.exprList(x.Elems)
		p.write("]")

	case *ast.IndexExpr:
		p.expr(x.Expr)
		p.write("[")
		p.expr(x.Index)
		p.write("]")

	case *ast.TypedString:
		p.dataType(x.Type)
		p.write(" '")
		p.write(escapeString(x.Value))
		p.write("'")

	case *ast.IntervalExpr:
		p.keyword("INTERVAL ")
		p.expr(x.Value)
		if x.Unit != "" {
			p.space()
			p.keyword(x.Unit)
		}

	case *ast.AtTimeZone:
		p.expr(x.Expr)
		p.keyword(" AT TIME ZONE ")
		p.expr(x.Zone)

	case *ast.ExtractExpr:
		p.keyword("EXTRACT(")
		p.keyword(x.Field)
		p.keyword(" FROM ")
		p.expr(x.Expr)
		p.write(")")

	case *ast.PositionExpr:
		p.keyword("POSITION(")
		p.expr(x.Expr)
		p.keyword(" IN ")
		p.expr(x.In)
		p.write(")")

	case *ast.SubstringExpr:
		p.keyword("SUBSTRING(")
		p.expr(x.Expr)
		if x.From != nil {
			p.keyword(" FROM ")
			p.expr(x.From)
		}
		if x.For != nil {
			p.keyword(" FOR ")
			p.expr(x.For)
		}
		p.write(")")

	case *ast.TrimExpr:
		p.keyword("TRIM(")
		sep := false
		if x.Where != "" {
			p.keyword(string(x.Where))
			sep = true
		}
		if x.What != nil {
			if sep {
				p.space()
			}
			p.expr(x.What)
			sep = true
		}
		if sep {
			p.keyword(" FROM ")
		}
		p.expr(x.Expr)
		p.write(")")

	case *ast.LambdaExpr:
		if len(x.Params) == 1 {
			p.write(x.Params[0].String())
		} else {
			p.write("(")
			p.identList(x.Params)
			p.write(")")
		}
		p.write(" -> ")
		p.expr(x.Body)

	case *ast.DictionaryExpr:
		p.write("{")
		p.commaSep(len(x.Fields), func(i int) {
			field := x.Fields[i]
			if field.Key.Quote == '\'' {
				p.write("'")
				p.write(escapeString(field.Key.Value))
				p.write("'")
			} else {
				p.write(field.Key.String())
			}
			p.write(": ")
			p.expr(field.Value)
		})
		p.write("}")

	case *ast.Wildcard:
		p.write("*")

	default:
		p.printf("%v", e)
	}
}

// commaSepDot renders a dotted identifier chain.
func (p *printer) commaSepDot(parts []ast.Ident) {
	for i, part := range parts {
		if i > 0 {
			p.write(".")
		}
		p.write(part.String())
	}
}

func (p *printer) literal(l *ast.Literal) {
	switch l.Kind {
	case ast.Number:
		p.write(l.Value)
	case ast.SingleQuotedString:
		p.write("'")
		p.write(escapeString(l.Value))
		p.write("'")
	case ast.NationalString:
		p.write("N'")
		p.write(escapeString(l.Value))
		p.write("'")
	case ast.HexString:
		p.write("X'")
		p.write(l.Value)
		p.write("'")
	case ast.BitString:
		p.write("B'")
		p.write(l.Value)
		p.write("'")
	case ast.Boolean:
		p.write(l.Value)
	case ast.Null:
		p.keyword("NULL")
	case ast.Placeholder:
		p.write(l.Value)
	}
}

func (p *printer) funcCall(fn *ast.FuncCall) {
	p.write(fn.Name.String())
	p.write("(")
	if fn.Distinct {
		p.keyword("DISTINCT ")
	}
	p.commaSep(len(fn.Args), func(i int) {
		arg := fn.Args[i]
		if arg.Name != nil {
			p.write(arg.Name.String())
			if arg.Eq {
				p.write(" = ")
			} else {
				p.write(" => ")
			}
		}
		p.expr(arg.Value)
	})
	switch fn.NullTreatment {
	case ast.IgnoreNulls:
		p.keyword(" IGNORE NULLS")
	case ast.RespectNulls:
		p.keyword(" RESPECT NULLS")
	}
	p.write(")")

	if fn.Filter != nil {
		p.keyword(" FILTER (WHERE ")
		p.expr(fn.Filter)
		p.write(")")
	}

	if fn.Over != nil {
		p.keyword(" OVER ")
		if fn.Over.Name != nil {
			p.write(fn.Over.Name.String())
		} else {
			p.write("(")
			p.windowSpec(fn.Over.Spec)
			p.write(")")
		}
	}
}

func (p *printer) caseExpr(c *ast.CaseExpr) {
	p.keyword("CASE")
	if c.Operand != nil {
		p.space()
		p.expr(c.Operand)
	}
	for _, when := range c.Whens {
		p.keyword(" WHEN ")
		p.expr(when.Condition)
		p.keyword(" THEN ")
		p.expr(when.Result)
	}
	if c.Else != nil {
		p.keyword(" ELSE ")
		p.expr(c.Else)
	}
	p.keyword(" END")
}

func (p *printer) windowSpec(spec *ast.WindowSpec) {
	sep := false
	if spec.Name != nil {
		p.write(spec.Name.String())
		sep = true
	}
	if len(spec.PartitionBy) > 0 {
		if sep {
			p.space()
		}
		p.keyword("PARTITION BY ")
		p.exprList(spec.PartitionBy)
		sep = true
	}
	if len(spec.OrderBy) > 0 {
		if sep {
			p.space()
		}
		p.keyword("ORDER BY ")
		p.orderByList(spec.OrderBy)
		sep = true
	}
	if spec.Frame != nil {
		if sep {
			p.space()
		}
		p.windowFrame(spec.Frame)
	}
}

func (p *printer) windowFrame(frame *ast.WindowFrame) {
	p.keyword(string(frame.Units))
	p.space()
	if frame.End != nil {
		p.keyword("BETWEEN ")
		p.frameBound(frame.Start)
		p.keyword(" AND ")
		p.frameBound(frame.End)
		return
	}
	p.frameBound(frame.Start)
}

func (p *printer) frameBound(bound *ast.FrameBound) {
	switch bound.Kind {
	case ast.CurrentRow:
		p.keyword("CURRENT ROW")
		return
	case ast.Preceding:
		if bound.Offset == nil {
			p.keyword("UNBOUNDED PRECEDING")
			return
		}
		p.expr(bound.Offset)
		p.keyword(" PRECEDING")
	case ast.Following:
		if bound.Offset == nil {
			p.keyword("UNBOUNDED FOLLOWING")
			return
		}
		p.expr(bound.Offset)
		p.keyword(" FOLLOWING")
	}
}

func (p *printer) orderByList(items []*ast.OrderByExpr) {
	p.commaSep(len(items), func(i int) {
		item := items[i]
		p.expr(item.Expr)
		if item.Asc != nil {
			if *item.Asc {
				p.keyword(" ASC")
			} else {
				p.keyword(" DESC")
			}
		}
		if item.NullsFirst != nil {
			if *item.NullsFirst {
				p.keyword(" NULLS FIRST")
			} else {
				p.keyword(" NULLS LAST")
			}
		}
	})
}
