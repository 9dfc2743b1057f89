package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/format"
)

func TestIdentQuoteStyles(t *testing.T) {
	tests := []struct {
		ident ast.Ident
		want  string
	}{
		{ast.Ident{Value: "plain"}, "plain"},
		{ast.Ident{Value: "my col", Quote: '"'}, `"my col"`},
		{ast.Ident{Value: `a"b`, Quote: '"'}, `"a""b"`},
		{ast.Ident{Value: "my col", Quote: '`'}, "`my col`"},
		{ast.Ident{Value: "my col", Quote: '['}, "[my col]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ident.String())
	}
}

func TestLiteralRendering(t *testing.T) {
	tests := []struct {
		lit  *ast.Literal
		want string
	}{
		{&ast.Literal{Kind: ast.Number, Value: "1.5"}, "1.5"},
		{&ast.Literal{Kind: ast.SingleQuotedString, Value: "it's"}, "'it''s'"},
		{&ast.Literal{Kind: ast.NationalString, Value: "abc"}, "N'abc'"},
		{&ast.Literal{Kind: ast.HexString, Value: "CAFE"}, "X'CAFE'"},
		{&ast.Literal{Kind: ast.BitString, Value: "0101"}, "B'0101'"},
		{&ast.Literal{Kind: ast.Boolean, Value: "true"}, "true"},
		{&ast.Literal{Kind: ast.Null}, "NULL"},
		{&ast.Literal{Kind: ast.Placeholder, Value: "$1"}, "$1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, format.Expr(tt.lit))
	}
}

func TestArrayTypeBracketStyles(t *testing.T) {
	intType := &ast.IntType{Name: "INT"}
	tests := []struct {
		dt   ast.DataType
		want string
	}{
		{&ast.ArrayType{Elem: intType, Brackets: ast.AngleBracket}, "ARRAY<INT>"},
		{&ast.ArrayType{Elem: intType, Brackets: ast.ParenBracket}, "ARRAY(INT)"},
		{&ast.ArrayType{Elem: intType, Brackets: ast.SquareBracket}, "INT[]"},
		{
			&ast.ArrayType{
				Elem:     intType,
				Brackets: ast.SquareBracket,
				Size:     &ast.Literal{Kind: ast.Number, Value: "3"},
			},
			"INT[3]",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, format.Node(tt.dt))
	}
}

func TestStatementsJoinsWithSemicolons(t *testing.T) {
	stmts := []ast.Statement{
		&ast.Use{Name: ast.NewIdent("a")},
		&ast.Commit{},
	}
	assert.Equal(t, "USE a;\nCOMMIT;", format.Statements(stmts))
}

func TestExprRenderingHandBuilt(t *testing.T) {
	// A hand-built tree renders without a parser in the loop.
	expr := &ast.BinaryExpr{
		Left: &ast.IdentExpr{Ident: ast.NewIdent("a")},
		Op:   ast.OpPlus,
		Right: &ast.FuncCall{
			Name: ast.NewObjectName("sum"),
			Args: []ast.FuncArg{{Value: &ast.IdentExpr{Ident: ast.NewIdent("b")}}},
		},
	}
	assert.Equal(t, "a + sum(b)", format.Expr(expr))
}

func TestQueryClauseOrder(t *testing.T) {
	asc := false
	query := &ast.Query{
		Body: &ast.Select{
			Projection: []*ast.SelectItem{{Expr: &ast.IdentExpr{Ident: ast.NewIdent("a")}}},
			From: []*ast.TableWithJoins{
				{Relation: &ast.TableName{Name: ast.NewObjectName("t")}},
			},
		},
		OrderBy: []*ast.OrderByExpr{
			{Expr: &ast.IdentExpr{Ident: ast.NewIdent("a")}, Asc: &asc},
		},
		Limit:  &ast.Literal{Kind: ast.Number, Value: "10"},
		Offset: &ast.Offset{Value: &ast.Literal{Kind: ast.Number, Value: "5"}},
		Locks:  []*ast.LockClause{{Mode: ast.LockUpdate}},
	}
	require.Equal(t,
		"SELECT a FROM t ORDER BY a DESC LIMIT 10 OFFSET 5 FOR UPDATE",
		format.Statement(query))
}
