package format

import (
	"github.com/leapstack-labs/squill/pkg/ast"
)

// dataType renders a data type. Array types reproduce the bracket
// style captured at parse time.
func (p *printer) dataType(t ast.DataType) {
	switch x := t.(type) {
	case *ast.SimpleType:
		p.keyword(x.Name)

	case *ast.IntType:
		p.keyword(x.Name)
		if x.Width != nil {
			p.write("(")
			p.expr(x.Width)
			p.write(")")
		}
		if x.Unsigned {
			p.keyword(" UNSIGNED")
		}

	case *ast.FloatType:
		p.keyword("FLOAT")
		if x.Precision != nil {
			p.write("(")
			p.expr(x.Precision)
			p.write(")")
		}

	case *ast.DecimalType:
		p.keyword(x.Name)
		if x.Precision != nil {
			p.write("(")
			p.expr(x.Precision)
			if x.Scale != nil {
				p.write(", ")
				p.expr(x.Scale)
			}
			p.write(")")
		}

	case *ast.CharType:
		p.keyword(x.Name)
		if x.Length != nil {
			p.write("(")
			p.expr(x.Length)
			p.write(")")
		}

	case *ast.TimeType:
		p.keyword(x.Name)
		if x.WithTimeZone {
			p.keyword(" WITH TIME ZONE")
		}

	case *ast.ArrayType:
		switch x.Brackets {
		case ast.AngleBracket:
			p.keyword("ARRAY<")
			p.dataType(x.Elem)
			p.write(">")
		case ast.ParenBracket:
			p.keyword("ARRAY(")
			p.dataType(x.Elem)
			p.write(")")
		default:
			p.dataType(x.Elem)
			p.write("[")
			if x.Size != nil {
				p.expr(x.Size)
			}
			p.write("]")
		}

	case *ast.CustomType:
		p.write(x.Name.String())
		if len(x.Modifiers) > 0 {
			p.write("(")
			p.commaSep(len(x.Modifiers), func(i int) {
				p.write(x.Modifiers[i])
			})
			p.write(")")
		}
	}
}
