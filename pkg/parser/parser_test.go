package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/dialects/duckdb"
	"github.com/leapstack-labs/squill/pkg/dialects/postgres"
	"github.com/leapstack-labs/squill/pkg/spi"
	"github.com/leapstack-labs/squill/pkg/token"
)

func parseOneExpr(t *testing.T, sql string, d *dialect.Dialect) ast.Expr {
	t.Helper()
	expr, err := ParseExpr(sql, d)
	require.NoError(t, err, "input %q", sql)
	return expr
}

func TestParseExprPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	expr := parseOneExpr(t, "1 + 2 * 3", nil)
	plus, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpPlus, plus.Op)
	assert.Equal(t, &ast.Literal{Kind: ast.Number, Value: "1"}, plus.Left)

	mul, ok := plus.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMultiply, mul.Op)
}

func TestParseExprLogicalPrecedence(t *testing.T) {
	// a OR b AND c parses as a OR (b AND c).
	expr := parseOneExpr(t, "a OR b AND c", nil)
	or, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, or.Op)

	and, ok := or.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, and.Op)
}

func TestParseExprComparisonBindsTighterThanNot(t *testing.T) {
	// NOT a = b parses as NOT (a = b).
	expr := parseOneExpr(t, "NOT a = b", nil)
	not, ok := expr.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpNot, not.Op)
	_, ok = not.Expr.(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseExprLeftAssociativity(t *testing.T) {
	// 1 - 2 - 3 parses as (1 - 2) - 3.
	expr := parseOneExpr(t, "1 - 2 - 3", nil)
	outer, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, &ast.Literal{Kind: ast.Number, Value: "3"}, outer.Right)
	inner, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMinus, inner.Op)
}

func TestParseExprPowerRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 4 parses as 2 ^ (3 ^ 4).
	expr := parseOneExpr(t, "2 ^ 3 ^ 4", nil)
	outer, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, &ast.Literal{Kind: ast.Number, Value: "2"}, outer.Left)
	inner, ok := outer.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpPow, inner.Op)
}

func TestParseExprCompoundIdent(t *testing.T) {
	expr := parseOneExpr(t, "a.b.c", nil)
	compound, ok := expr.(*ast.CompoundIdent)
	require.True(t, ok)
	require.Len(t, compound.Parts, 3)
	assert.Equal(t, "b", compound.Parts[1].Value)
}

func TestParseExprCastOperator(t *testing.T) {
	// :: binds tighter than +.
	expr := parseOneExpr(t, "a + b::INT", nil)
	plus, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	cast, ok := plus.Right.(*ast.CastExpr)
	require.True(t, ok)
	assert.True(t, cast.Operator)
	assert.Equal(t, &ast.IntType{Name: "INT"}, cast.Type)
}

func TestParseExprBetween(t *testing.T) {
	expr := parseOneExpr(t, "x BETWEEN 1 AND 2 AND y", nil)
	// The trailing AND is a logical conjunction, not the BETWEEN
	// separator.
	and, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, and.Op)
	between, ok := and.Left.(*ast.BetweenExpr)
	require.True(t, ok)
	assert.False(t, between.Not)
}

func TestParseExprNotVariants(t *testing.T) {
	expr := parseOneExpr(t, "x NOT IN (1, 2)", nil)
	in, ok := expr.(*ast.InExpr)
	require.True(t, ok)
	assert.True(t, in.Not)
	assert.Len(t, in.List, 2)

	expr = parseOneExpr(t, "x NOT LIKE 'a%'", nil)
	like, ok := expr.(*ast.LikeExpr)
	require.True(t, ok)
	assert.True(t, like.Not)
	assert.Equal(t, ast.Like, like.Op)

	_, err := ParseExpr("x NOT 5", nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseExprIsVariants(t *testing.T) {
	tests := []struct {
		sql  string
		kind ast.IsKind
	}{
		{"x IS NULL", ast.IsNull},
		{"x IS NOT NULL", ast.IsNotNull},
		{"x IS TRUE", ast.IsTrue},
		{"x IS NOT FALSE", ast.IsNotFalse},
		{"x IS DISTINCT FROM y", ast.IsDistinctFrom},
		{"x IS NOT DISTINCT FROM y", ast.IsNotDistinctFrom},
	}
	for _, tt := range tests {
		expr := parseOneExpr(t, tt.sql, nil)
		is, ok := expr.(*ast.IsExpr)
		require.True(t, ok, "input %q", tt.sql)
		assert.Equal(t, tt.kind, is.Kind, "input %q", tt.sql)
	}
}

func TestParseExprInSubquery(t *testing.T) {
	expr := parseOneExpr(t, "x IN (SELECT a FROM t)", nil)
	in, ok := expr.(*ast.InExpr)
	require.True(t, ok)
	require.NotNil(t, in.Query)
	assert.Nil(t, in.List)
}

func TestParseExprEmptyInListGated(t *testing.T) {
	// The generic dialect allows the empty list; postgres does not.
	expr := parseOneExpr(t, "x IN ()", dialect.Default())
	in, ok := expr.(*ast.InExpr)
	require.True(t, ok)
	assert.Empty(t, in.List)

	_, err := ParseExpr("x IN ()", postgres.Postgres)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "empty IN list")
}

func TestParseExprLikeEscape(t *testing.T) {
	expr := parseOneExpr(t, "x LIKE 'a!%' ESCAPE '!'", nil)
	like, ok := expr.(*ast.LikeExpr)
	require.True(t, ok)
	require.NotNil(t, like.Escape)
}

func TestParseExprCaseForms(t *testing.T) {
	expr := parseOneExpr(t, "CASE WHEN a THEN 1 ELSE 2 END", nil)
	caseExpr, ok := expr.(*ast.CaseExpr)
	require.True(t, ok)
	assert.Nil(t, caseExpr.Operand)
	assert.Len(t, caseExpr.Whens, 1)
	assert.NotNil(t, caseExpr.Else)

	expr = parseOneExpr(t, "CASE x WHEN 1 THEN 'a' WHEN 2 THEN 'b' END", nil)
	caseExpr, ok = expr.(*ast.CaseExpr)
	require.True(t, ok)
	assert.NotNil(t, caseExpr.Operand)
	assert.Len(t, caseExpr.Whens, 2)
	assert.Nil(t, caseExpr.Else)
}

func TestParseExprFunctionCalls(t *testing.T) {
	expr := parseOneExpr(t, "count(*)", nil)
	fn, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	require.Len(t, fn.Args, 1)
	_, ok = fn.Args[0].Value.(*ast.Wildcard)
	assert.True(t, ok)

	expr = parseOneExpr(t, "count(DISTINCT a)", nil)
	fn = expr.(*ast.FuncCall)
	assert.True(t, fn.Distinct)

	expr = parseOneExpr(t, "sum(x) FILTER (WHERE x > 0)", nil)
	fn = expr.(*ast.FuncCall)
	require.NotNil(t, fn.Filter)
}

func TestParseExprNamedFunctionArgs(t *testing.T) {
	expr := parseOneExpr(t, "fn(path => '/tmp')", nil)
	fn, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	require.Len(t, fn.Args, 1)
	require.NotNil(t, fn.Args[0].Name)
	assert.Equal(t, "path", fn.Args[0].Name.Value)
	assert.False(t, fn.Args[0].Eq)

	// name = value is only a named argument where the dialect says
	// so; duckdb does.
	expr = parseOneExpr(t, "read_csv(header = true)", duckdb.DuckDB)
	fn = expr.(*ast.FuncCall)
	require.Len(t, fn.Args, 1)
	require.NotNil(t, fn.Args[0].Name)
	assert.True(t, fn.Args[0].Eq)

	// Under postgres the same input is a boolean comparison.
	expr = parseOneExpr(t, "read_csv(header = true)", postgres.Postgres)
	fn = expr.(*ast.FuncCall)
	require.Len(t, fn.Args, 1)
	assert.Nil(t, fn.Args[0].Name)
	_, ok = fn.Args[0].Value.(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseExprWindow(t *testing.T) {
	expr := parseOneExpr(t, "row_number() OVER (PARTITION BY a ORDER BY b DESC)", nil)
	fn, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	require.NotNil(t, fn.Over)
	require.NotNil(t, fn.Over.Spec)
	assert.Len(t, fn.Over.Spec.PartitionBy, 1)
	require.Len(t, fn.Over.Spec.OrderBy, 1)
	require.NotNil(t, fn.Over.Spec.OrderBy[0].Asc)
	assert.False(t, *fn.Over.Spec.OrderBy[0].Asc)

	expr = parseOneExpr(t, "sum(x) OVER w", nil)
	fn = expr.(*ast.FuncCall)
	require.NotNil(t, fn.Over.Name)
	assert.Equal(t, "w", fn.Over.Name.Value)
}

func TestParseExprWindowFrame(t *testing.T) {
	expr := parseOneExpr(t, "sum(x) OVER (ORDER BY a ROWS BETWEEN 1 PRECEDING AND CURRENT ROW)", nil)
	fn := expr.(*ast.FuncCall)
	frame := fn.Over.Spec.Frame
	require.NotNil(t, frame)
	assert.Equal(t, ast.FrameRows, frame.Units)
	assert.Equal(t, ast.Preceding, frame.Start.Kind)
	require.NotNil(t, frame.Start.Offset)
	assert.Equal(t, ast.CurrentRow, frame.End.Kind)

	expr = parseOneExpr(t, "sum(x) OVER (ROWS UNBOUNDED PRECEDING)", nil)
	fn = expr.(*ast.FuncCall)
	require.NotNil(t, fn.Over.Spec.Frame)
	assert.Nil(t, fn.Over.Spec.Frame.Start.Offset)
	assert.Nil(t, fn.Over.Spec.Frame.End)
}

func TestParseExprNullTreatmentGated(t *testing.T) {
	expr := parseOneExpr(t, "lag(x IGNORE NULLS) OVER (ORDER BY a)", duckdb.DuckDB)
	fn := expr.(*ast.FuncCall)
	assert.Equal(t, ast.IgnoreNulls, fn.NullTreatment)
}

func TestParseExprSubstringGated(t *testing.T) {
	expr := parseOneExpr(t, "SUBSTRING(s FROM 1 FOR 3)", postgres.Postgres)
	sub, ok := expr.(*ast.SubstringExpr)
	require.True(t, ok)
	assert.NotNil(t, sub.From)
	assert.NotNil(t, sub.For)

	restricted := dialect.New("no-substring").Build()
	_, err := ParseExpr("SUBSTRING(s FROM 1 FOR 3)", restricted)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "SUBSTRING")
}

func TestParseExprConvertOrderGated(t *testing.T) {
	typeFirst := dialect.New("mssqlish").
		Flags(dialect.Flags{ConvertTypeBeforeValue: true}).
		Build()
	expr := parseOneExpr(t, "CONVERT(INT, x)", typeFirst)
	conv, ok := expr.(*ast.ConvertExpr)
	require.True(t, ok)
	assert.True(t, conv.TypeFirst)

	expr = parseOneExpr(t, "CONVERT(x, INT)", dialect.Default())
	conv = expr.(*ast.ConvertExpr)
	assert.False(t, conv.TypeFirst)
}

func TestParseExprLambdaGated(t *testing.T) {
	expr := parseOneExpr(t, "list_transform(l, x -> x + 1)", duckdb.DuckDB)
	fn := expr.(*ast.FuncCall)
	require.Len(t, fn.Args, 2)
	lambda, ok := fn.Args[1].Value.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lambda.Params, 1)

	expr = parseOneExpr(t, "(x, y) -> x + y", duckdb.DuckDB)
	lambda, ok = expr.(*ast.LambdaExpr)
	require.True(t, ok)
	assert.Len(t, lambda.Params, 2)
}

func TestParseExprDictionaryGated(t *testing.T) {
	expr := parseOneExpr(t, "{'a': 1, 'b': 2}", duckdb.DuckDB)
	dict, ok := expr.(*ast.DictionaryExpr)
	require.True(t, ok)
	assert.Len(t, dict.Fields, 2)

	_, err := ParseExpr("{'a': 1}", postgres.Postgres)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "dictionary")
}

func TestParseExprArraysAndSubscripts(t *testing.T) {
	expr := parseOneExpr(t, "[1, 2, 3]", nil)
	arr, ok := expr.(*ast.ArrayExpr)
	require.True(t, ok)
	assert.False(t, arr.Keyword)
	assert.Len(t, arr.Elems, 3)

	expr = parseOneExpr(t, "ARRAY[1, 2]", nil)
	arr = expr.(*ast.ArrayExpr)
	assert.True(t, arr.Keyword)

	expr = parseOneExpr(t, "a[1]", nil)
	idx, ok := expr.(*ast.IndexExpr)
	require.True(t, ok)
	require.NotNil(t, idx.Index)
}

func TestParseExprTypedStringAndInterval(t *testing.T) {
	expr := parseOneExpr(t, "DATE '2024-01-02'", nil)
	typed, ok := expr.(*ast.TypedString)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", typed.Value)

	expr = parseOneExpr(t, "INTERVAL '1' DAY", nil)
	interval, ok := expr.(*ast.IntervalExpr)
	require.True(t, ok)
	assert.Equal(t, "DAY", interval.Unit)
}

func TestParseExprAtTimeZoneAndCollate(t *testing.T) {
	expr := parseOneExpr(t, "ts AT TIME ZONE 'UTC'", nil)
	_, ok := expr.(*ast.AtTimeZone)
	require.True(t, ok)

	expr = parseOneExpr(t, "name COLLATE de_DE = 'x'", nil)
	// COLLATE binds tighter than =.
	eq, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	_, ok = eq.Left.(*ast.CollateExpr)
	assert.True(t, ok)
}

func TestParseExprTrailingInputRejected(t *testing.T) {
	_, err := ParseExpr("1 + 2 junk junk", nil)
	require.Error(t, err)
}

func TestParseStatementsSeparators(t *testing.T) {
	stmts, err := Parse("SELECT 1; SELECT 2;", nil)
	require.NoError(t, err)
	assert.Len(t, stmts, 2)

	// An empty trailing statement is discarded.
	stmts, err = Parse("SELECT 1;", nil)
	require.NoError(t, err)
	assert.Len(t, stmts, 1)

	// A stray token after a terminator is an error.
	_, err = Parse("SELECT 1 SELECT 2", nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "expected ;")
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("SELECT a FROM", nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Pos.Line)
	assert.Equal(t, 14, parseErr.Pos.Column)
}

func TestDialectStatementHook(t *testing.T) {
	// A statement hook wins over built-in dispatch.
	hooked := dialect.New("hooked").
		StatementHandler(func(p spi.ParserOps) (ast.Statement, bool, error) {
			if !p.Check(token.USE) {
				return nil, false, nil
			}
			p.NextToken()
			name, err := p.ParseIdentifier()
			if err != nil {
				return nil, true, err
			}
			return &ast.Use{Name: ast.Ident{Value: "hooked:" + name.Value}}, true, nil
		}).
		Build()

	stmts, err := Parse("USE db1", hooked)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	use, ok := stmts[0].(*ast.Use)
	require.True(t, ok)
	assert.Equal(t, "hooked:db1", use.Name.Value)
}

func TestDialectPrefixAndInfixHooks(t *testing.T) {
	// A prefix hook that parses ! as a unary operator and an
	// infix hook that turns <@ into a function call.
	hooked := dialect.New("hooked2").
		PrefixHandler(func(p spi.ParserOps) (ast.Expr, bool, error) {
			if !p.Check(token.EXCLAM) {
				return nil, false, nil
			}
			p.NextToken()
			expr, err := p.ParseExpr(spi.PrecedenceUnary)
			if err != nil {
				return nil, true, err
			}
			return &ast.UnaryExpr{Op: ast.UnaryOp("!"), Expr: expr}, true, nil
		}).
		InfixHandler(func(p spi.ParserOps, left ast.Expr, prec int) (ast.Expr, bool, error) {
			if !p.Check(token.ARROW_AT) {
				return nil, false, nil
			}
			p.NextToken()
			right, err := p.ParseExpr(prec)
			if err != nil {
				return nil, true, err
			}
			return &ast.FuncCall{
				Name: ast.NewObjectName("contained_by"),
				Args: []ast.FuncArg{{Value: left}, {Value: right}},
			}, true, nil
		}).
		Build()

	expr, err := ParseExpr("! x", hooked)
	require.NoError(t, err)
	unary, ok := expr.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryOp("!"), unary.Op)

	expr, err = ParseExpr("a <@ b", hooked)
	require.NoError(t, err)
	fn, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "contained_by", fn.Name.Parts[0].Value)
}

func TestDialectPrecedenceOverride(t *testing.T) {
	// Raise + to the tier of * and the same input groups differently.
	weird := dialect.New("weird-prec").
		PrecedenceHandler(func(p spi.ParserOps) (int, bool) {
			switch p.Token().Type {
			case token.PLUS:
				return spi.PrecedenceMultiply, true
			}
			return 0, false
		}).
		Build()

	// With + raised to the multiplicative tier, 1 + 2 * 3 groups as
	// (1 + 2) * 3.
	expr, err := ParseExpr("1 + 2 * 3", weird)
	require.NoError(t, err)
	mul, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMultiply, mul.Op)
	_, ok = mul.Left.(*ast.BinaryExpr)
	assert.True(t, ok)
}
