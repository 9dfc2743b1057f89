// Package format renders AST nodes back to canonical SQL text.
//
// Rendering is purely structural: the variant choice made at parse
// time already captured dialect differences, so no dialect is
// consulted here. Keywords are upper-case, lists use ", ", and
// identifiers keep their captured quote style.
package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/squill/pkg/ast"
)

// Statements renders a statement list, one per line, each terminated
// with a semicolon.
func Statements(stmts []ast.Statement) string {
	var sb strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Statement(stmt))
		sb.WriteString(";")
	}
	return sb.String()
}

// Statement renders a single statement.
func Statement(stmt ast.Statement) string {
	p := newPrinter()
	p.statement(stmt)
	return p.String()
}

// Expr renders a single expression.
func Expr(e ast.Expr) string {
	p := newPrinter()
	p.expr(e)
	return p.String()
}

// Node renders any AST node.
func Node(n ast.Node) string {
	p := newPrinter()
	p.node(n)
	return p.String()
}

// printer is the text sink nodes render into.
type printer struct {
	sb strings.Builder
}

func newPrinter() *printer {
	return &printer{}
}

func (p *printer) String() string { return p.sb.String() }

// write appends a raw fragment.
func (p *printer) write(s string) {
	p.sb.WriteString(s)
}

func (p *printer) space() {
	p.sb.WriteByte(' ')
}

// keyword writes a keyword in canonical upper case.
func (p *printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

// printf is the formatted write: %s verbs render AST nodes inline and
// pass anything else to the fmt machinery.
func (p *printer) printf(format string, args ...any) {
	rendered := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case ast.Node:
			rendered[i] = Node(v)
		case ast.Ident:
			rendered[i] = v.String()
		default:
			rendered[i] = v
		}
	}
	fmt.Fprintf(&p.sb, format, rendered...)
}

// node dispatches on the node family.
func (p *printer) node(n ast.Node) {
	switch x := n.(type) {
	case ast.Statement:
		p.statement(x)
	case ast.Expr:
		p.expr(x)
	case ast.DataType:
		p.dataType(x)
	case *ast.ObjectName:
		p.write(x.String())
	case ast.SetExpr:
		p.setExpr(x)
	case ast.TableFactor:
		p.tableFactor(x)
	default:
		p.printf("%v", x)
	}
}

// commaSep renders count items separated by ", ".
func (p *printer) commaSep(count int, render func(i int)) {
	for i := 0; i < count; i++ {
		if i > 0 {
			p.write(", ")
		}
		render(i)
	}
}

// identList renders a comma-separated identifier list.
func (p *printer) identList(idents []ast.Ident) {
	p.commaSep(len(idents), func(i int) {
		p.write(idents[i].String())
	})
}

// exprList renders a comma-separated expression list.
func (p *printer) exprList(exprs []ast.Expr) {
	p.commaSep(len(exprs), func(i int) {
		p.expr(exprs[i])
	})
}

// escapeString doubles single quotes for embedding in a quoted
// literal.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
