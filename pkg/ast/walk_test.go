package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/format"
	"github.com/leapstack-labs/squill/pkg/parser"
)

func mustParse(t *testing.T, sql string) ast.Statement {
	t.Helper()
	stmts, err := parser.Parse(sql, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func TestVisitorIdentity(t *testing.T) {
	// A no-op visitor returns the original root by identity.
	stmt := mustParse(t, "SELECT a, sum(b) FROM t JOIN u ON t.id = u.id WHERE a > 0 GROUP BY a ORDER BY a LIMIT 3")
	got, err := ast.ApplyStatement(stmt, ast.BaseVisitor{})
	require.NoError(t, err)
	assert.Same(t, any(stmt), any(got))
}

// renameIdents replaces every identifier equal to From with To, in
// expressions and object names alike.
type renameIdents struct {
	ast.BaseVisitor
	From, To string
}

func (v *renameIdents) rename(idents []ast.Ident) ([]ast.Ident, bool) {
	changed := false
	out := make([]ast.Ident, len(idents))
	for i, ident := range idents {
		if ident.Value == v.From {
			out[i] = ast.Ident{Value: v.To, Quote: ident.Quote}
			changed = true
		} else {
			out[i] = ident
		}
	}
	return out, changed
}

func (v *renameIdents) PreVisitExpr(e ast.Expr) (ast.Expr, error) {
	switch x := e.(type) {
	case *ast.IdentExpr:
		if x.Ident.Value == v.From {
			return &ast.IdentExpr{Ident: ast.Ident{Value: v.To, Quote: x.Ident.Quote}}, nil
		}
	case *ast.CompoundIdent:
		if parts, changed := v.rename(x.Parts); changed {
			return &ast.CompoundIdent{Parts: parts}, nil
		}
	}
	return e, nil
}

func (v *renameIdents) PreVisitObjectName(o *ast.ObjectName) (*ast.ObjectName, error) {
	if parts, changed := v.rename(o.Parts); changed {
		return &ast.ObjectName{Parts: parts}, nil
	}
	return o, nil
}

func TestVisitorRewrite(t *testing.T) {
	stmt := mustParse(t, "SELECT a FROM a JOIN b ON a = b.a")

	got, err := ast.ApplyStatement(stmt, &renameIdents{From: "a", To: "x"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT x FROM x JOIN b ON x = b.x", format.Statement(got))
	// The original tree is unchanged.
	assert.Equal(t, "SELECT a FROM a JOIN b ON a = b.a", format.Statement(stmt))
}

func TestVisitorLocality(t *testing.T) {
	// Replacing a node deep in the WHERE clause rebuilds its
	// ancestors and shares every other subtree.
	stmt := mustParse(t, "SELECT a, b FROM t WHERE c = 1")
	query := stmt.(*ast.Query)
	sel := query.Body.(*ast.Select)

	got, err := ast.ApplyStatement(stmt, &renameIdents{From: "c", To: "z"})
	require.NoError(t, err)

	newQuery := got.(*ast.Query)
	newSel := newQuery.Body.(*ast.Select)

	// Ancestors of the replacement are fresh.
	assert.NotSame(t, query, newQuery)
	assert.NotSame(t, sel, newSel)
	// Non-ancestor subtrees are shared by identity.
	assert.Same(t, sel.Projection[0], newSel.Projection[0])
	assert.Same(t, sel.Projection[1], newSel.Projection[1])
	assert.Same(t, sel.From[0], newSel.From[0])
	// The selection path was rebuilt.
	assert.NotSame(t, any(sel.Selection), any(newSel.Selection))
}

func TestVisitorErrorPropagates(t *testing.T) {
	stmt := mustParse(t, "SELECT a FROM t")
	boom := errors.New("boom")

	_, err := ast.ApplyStatement(stmt, &failingVisitor{err: boom})
	assert.Same(t, boom, err)
	// The input is untouched.
	assert.Equal(t, "SELECT a FROM t", format.Statement(stmt))
}

type failingVisitor struct {
	ast.BaseVisitor
	err error
}

func (v *failingVisitor) PreVisitExpr(e ast.Expr) (ast.Expr, error) {
	return nil, v.err
}

func TestWalkPreOrder(t *testing.T) {
	expr, err := parser.ParseExpr("1 + 2 * 3", nil)
	require.NoError(t, err)

	var seen []string
	ast.Walk(expr, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.BinaryExpr:
			seen = append(seen, string(x.Op))
		case *ast.Literal:
			seen = append(seen, x.Value)
		}
		return true
	})
	assert.Equal(t, []string{"+", "1", "*", "2", "3"}, seen)
}

func TestWalkEarlyStop(t *testing.T) {
	expr, err := parser.ParseExpr("1 + 2 * 3", nil)
	require.NoError(t, err)

	count := 0
	ast.Walk(expr, func(ast.Node) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestDescendants(t *testing.T) {
	expr, err := parser.ParseExpr("1 + 2", nil)
	require.NoError(t, err)

	var nodes []ast.Node
	for n := range ast.Descendants(expr) {
		nodes = append(nodes, n)
	}
	// The root itself is not yielded; its two literal children are,
	// each exactly once, in order.
	require.Len(t, nodes, 2)
	assert.Equal(t, &ast.Literal{Kind: ast.Number, Value: "1"}, nodes[0])
	assert.Equal(t, &ast.Literal{Kind: ast.Number, Value: "2"}, nodes[1])
}

func TestDescendantsEnumeratesEveryNodeOnce(t *testing.T) {
	stmt := mustParse(t, "SELECT a, count(*) FROM t WHERE b IN (1, 2) GROUP BY a")

	seen := map[ast.Node]int{}
	for n := range ast.Descendants(stmt) {
		seen[n]++
	}
	for n, count := range seen {
		assert.Equal(t, 1, count, "node %T enumerated more than once", n)
	}
	// Spot checks: both FROM table name and the IN list literals are
	// reachable.
	var foundTable, foundLiteral bool
	for n := range seen {
		switch x := n.(type) {
		case *ast.TableName:
			foundTable = true
		case *ast.Literal:
			if x.Value == "2" {
				foundLiteral = true
			}
		}
	}
	assert.True(t, foundTable)
	assert.True(t, foundLiteral)
}

func TestCustomVisitorHooks(t *testing.T) {
	// OrderByExpr has no dedicated hook; a registered custom hook
	// sees it and may replace it.
	stmt := mustParse(t, "SELECT a FROM t ORDER BY a")

	v := &ast.CustomVisitor{}
	ast.RegisterPreVisit(v, func(o *ast.OrderByExpr) (*ast.OrderByExpr, error) {
		desc := false
		return &ast.OrderByExpr{Expr: o.Expr, Asc: &desc}, nil
	})

	got, err := ast.ApplyStatement(stmt, v)
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t ORDER BY a DESC", format.Statement(got))
	assert.Equal(t, "SELECT a FROM t ORDER BY a", format.Statement(stmt))
}

func TestCustomVisitorUnregisteredVariantsPassThrough(t *testing.T) {
	stmt := mustParse(t, "SELECT a FROM t")
	got, err := ast.ApplyStatement(stmt, &ast.CustomVisitor{})
	require.NoError(t, err)
	assert.Same(t, any(stmt), any(got))
}

func TestApplyExprTypeSafety(t *testing.T) {
	expr, err := parser.ParseExpr("a + b", nil)
	require.NoError(t, err)

	got, err := ast.ApplyExpr(expr, ast.BaseVisitor{})
	require.NoError(t, err)
	assert.Same(t, any(expr), any(got))
}
