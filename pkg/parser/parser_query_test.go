package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/dialects/duckdb"
	"github.com/leapstack-labs/squill/pkg/dialects/postgres"
	"github.com/leapstack-labs/squill/pkg/dialects/snowflake"
)

func parseOne(t *testing.T, sql string, d *dialect.Dialect) ast.Statement {
	t.Helper()
	stmts, err := Parse(sql, d)
	require.NoError(t, err, "input %q", sql)
	require.Len(t, stmts, 1, "input %q", sql)
	return stmts[0]
}

func parseQueryStmt(t *testing.T, sql string, d *dialect.Dialect) *ast.Query {
	t.Helper()
	query, ok := parseOne(t, sql, d).(*ast.Query)
	require.True(t, ok, "input %q", sql)
	return query
}

func TestParseSelectBasic(t *testing.T) {
	query := parseQueryStmt(t, "SELECT a, b FROM t", nil)
	sel, ok := query.Body.(*ast.Select)
	require.True(t, ok)
	require.Len(t, sel.Projection, 2)
	require.Len(t, sel.From, 1)

	table, ok := sel.From[0].Relation.(*ast.TableName)
	require.True(t, ok)
	assert.Equal(t, "t", table.Name.String())
}

func TestParseSelectDistinctAndAliases(t *testing.T) {
	query := parseQueryStmt(t, "SELECT DISTINCT a AS x, b y FROM t AS u", nil)
	sel := query.Body.(*ast.Select)
	assert.True(t, sel.Distinct)
	require.NotNil(t, sel.Projection[0].Alias)
	assert.Equal(t, "x", sel.Projection[0].Alias.Value)
	require.NotNil(t, sel.Projection[1].Alias)
	assert.Equal(t, "y", sel.Projection[1].Alias.Value)

	table := sel.From[0].Relation.(*ast.TableName)
	require.NotNil(t, table.Alias)
	assert.Equal(t, "u", table.Alias.Name.Value)
}

func TestParseSelectWildcards(t *testing.T) {
	query := parseQueryStmt(t, "SELECT *, t.* FROM t", nil)
	sel := query.Body.(*ast.Select)
	require.Len(t, sel.Projection, 2)
	assert.True(t, sel.Projection[0].Wildcard)
	assert.Nil(t, sel.Projection[0].Qualifier)
	assert.True(t, sel.Projection[1].Wildcard)
	require.NotNil(t, sel.Projection[1].Qualifier)
	assert.Equal(t, "t", sel.Projection[1].Qualifier.String())
}

func TestParseSelectWildcardExceptGated(t *testing.T) {
	query := parseQueryStmt(t, "SELECT * EXCEPT (secret) FROM t", snowflake.Snowflake)
	sel := query.Body.(*ast.Select)
	require.Len(t, sel.Projection, 1)
	require.Len(t, sel.Projection[0].Except, 1)
	assert.Equal(t, "secret", sel.Projection[0].Except[0].Value)

	_, err := Parse("SELECT * EXCEPT (secret) FROM t", postgres.Postgres)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "EXCEPT")
}

func TestParseProjectionTrailingCommaGated(t *testing.T) {
	query := parseQueryStmt(t, "SELECT a, b, FROM t", duckdb.DuckDB)
	sel := query.Body.(*ast.Select)
	assert.Len(t, sel.Projection, 2)

	_, err := Parse("SELECT a, b, FROM t", postgres.Postgres)
	require.Error(t, err)
}

func TestParseWhereGroupByHaving(t *testing.T) {
	query := parseQueryStmt(t,
		"SELECT a, count(*) FROM t WHERE a > 0 GROUP BY a HAVING count(*) > 1", nil)
	sel := query.Body.(*ast.Select)
	require.NotNil(t, sel.Selection)
	require.NotNil(t, sel.GroupBy)
	assert.Equal(t, ast.GroupByPlain, sel.GroupBy.Modifier)
	require.NotNil(t, sel.Having)
}

func TestParseGroupByRollupGated(t *testing.T) {
	query := parseQueryStmt(t, "SELECT a, b FROM t GROUP BY ROLLUP (a, b)", nil)
	sel := query.Body.(*ast.Select)
	assert.Equal(t, ast.GroupByRollup, sel.GroupBy.Modifier)
	assert.Len(t, sel.GroupBy.Exprs, 2)

	query = parseQueryStmt(t, "SELECT a FROM t GROUP BY GROUPING SETS ((a), (a, b), ())", nil)
	sel = query.Body.(*ast.Select)
	assert.Equal(t, ast.GroupByGroupingSets, sel.GroupBy.Modifier)
	assert.Len(t, sel.GroupBy.Sets, 3)
	assert.Empty(t, sel.GroupBy.Sets[2])

	restricted := dialect.New("no-rollup").Build()
	_, err := Parse("SELECT a FROM t GROUP BY ROLLUP (a)", restricted)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "ROLLUP")
}

func TestParseJoins(t *testing.T) {
	query := parseQueryStmt(t,
		"SELECT * FROM a JOIN b ON a.id = b.id LEFT OUTER JOIN c USING (id) CROSS JOIN d NATURAL JOIN e", nil)
	sel := query.Body.(*ast.Select)
	require.Len(t, sel.From, 1)
	joins := sel.From[0].Joins
	require.Len(t, joins, 4)

	assert.Equal(t, ast.JoinInner, joins[0].Op)
	_, ok := joins[0].Constraint.(*ast.OnConstraint)
	assert.True(t, ok)

	assert.Equal(t, ast.JoinLeftOuter, joins[1].Op)
	using, ok := joins[1].Constraint.(*ast.UsingConstraint)
	require.True(t, ok)
	assert.Len(t, using.Columns, 1)

	assert.Equal(t, ast.JoinCross, joins[2].Op)
	assert.Nil(t, joins[2].Constraint)

	assert.Equal(t, ast.JoinInner, joins[3].Op)
	_, ok = joins[3].Constraint.(*ast.NaturalConstraint)
	assert.True(t, ok)
}

func TestParseDerivedAndLateral(t *testing.T) {
	query := parseQueryStmt(t, "SELECT * FROM (SELECT a FROM t) AS sub (x)", nil)
	sel := query.Body.(*ast.Select)
	derived, ok := sel.From[0].Relation.(*ast.Derived)
	require.True(t, ok)
	assert.False(t, derived.Lateral)
	require.NotNil(t, derived.Alias)
	assert.Equal(t, "sub", derived.Alias.Name.Value)
	assert.Len(t, derived.Alias.Columns, 1)

	query = parseQueryStmt(t, "SELECT * FROM t, LATERAL (SELECT * FROM u WHERE u.id = t.id) l", nil)
	sel = query.Body.(*ast.Select)
	require.Len(t, sel.From, 2)
	lateral, ok := sel.From[1].Relation.(*ast.Derived)
	require.True(t, ok)
	assert.True(t, lateral.Lateral)
}

func TestParseSetOperationPrecedence(t *testing.T) {
	// INTERSECT binds tighter than UNION: a UNION b INTERSECT c is
	// a UNION (b INTERSECT c).
	query := parseQueryStmt(t, "SELECT a UNION SELECT b INTERSECT SELECT c", nil)
	union, ok := query.Body.(*ast.SetOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Union, union.Op)

	intersect, ok := union.Right.(*ast.SetOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Intersect, intersect.Op)
}

func TestParseSetOperationLeftAssociative(t *testing.T) {
	query := parseQueryStmt(t, "SELECT a UNION SELECT b UNION ALL SELECT c", nil)
	outer, ok := query.Body.(*ast.SetOperation)
	require.True(t, ok)
	assert.True(t, outer.All)
	inner, ok := outer.Left.(*ast.SetOperation)
	require.True(t, ok)
	assert.False(t, inner.All)
}

func TestParseWithClause(t *testing.T) {
	query := parseQueryStmt(t,
		"WITH RECURSIVE nums (n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM nums) SELECT n FROM nums LIMIT 5", nil)
	require.NotNil(t, query.With)
	assert.True(t, query.With.Recursive)
	require.Len(t, query.With.CTEs, 1)
	cte := query.With.CTEs[0]
	assert.Equal(t, "nums", cte.Name.Value)
	assert.Len(t, cte.Columns, 1)
	require.NotNil(t, query.Limit)
}

func TestParseOrderLimitOffsetFetch(t *testing.T) {
	query := parseQueryStmt(t,
		"SELECT a FROM t ORDER BY a DESC NULLS LAST, b LIMIT 10 OFFSET 5 ROWS", nil)
	require.Len(t, query.OrderBy, 2)
	require.NotNil(t, query.OrderBy[0].Asc)
	assert.False(t, *query.OrderBy[0].Asc)
	require.NotNil(t, query.OrderBy[0].NullsFirst)
	assert.False(t, *query.OrderBy[0].NullsFirst)
	assert.Nil(t, query.OrderBy[1].Asc)
	require.NotNil(t, query.Limit)
	require.NotNil(t, query.Offset)
	assert.Equal(t, ast.OffsetRowsKw, query.Offset.Rows)

	query = parseQueryStmt(t, "SELECT a FROM t FETCH FIRST 3 ROWS WITH TIES", nil)
	require.NotNil(t, query.Fetch)
	assert.True(t, query.Fetch.WithTies)
	require.NotNil(t, query.Fetch.Quantity)

	query = parseQueryStmt(t, "SELECT a FROM t FETCH NEXT ROW ONLY", nil)
	require.NotNil(t, query.Fetch)
	assert.Nil(t, query.Fetch.Quantity)
}

func TestParseLockClauses(t *testing.T) {
	query := parseQueryStmt(t, "SELECT a FROM t FOR UPDATE", nil)
	require.Len(t, query.Locks, 1)
	assert.Equal(t, ast.LockUpdate, query.Locks[0].Mode)

	query = parseQueryStmt(t, "SELECT a FROM t FOR SHARE", nil)
	require.Len(t, query.Locks, 1)
	assert.Equal(t, ast.LockShare, query.Locks[0].Mode)
}

func TestParseValues(t *testing.T) {
	query := parseQueryStmt(t, "VALUES (1, 'a'), (2, 'b')", nil)
	values, ok := query.Body.(*ast.Values)
	require.True(t, ok)
	require.Len(t, values.Rows, 2)
	assert.Len(t, values.Rows[0], 2)
}

func TestParseParenthesizedSetOperand(t *testing.T) {
	query := parseQueryStmt(t, "(SELECT a FROM t ORDER BY a) UNION SELECT b", nil)
	union, ok := query.Body.(*ast.SetOperation)
	require.True(t, ok)
	paren, ok := union.Left.(*ast.ParenQuery)
	require.True(t, ok)
	assert.NotEmpty(t, paren.Query.OrderBy)
}

func TestParseNamedWindows(t *testing.T) {
	query := parseQueryStmt(t,
		"SELECT sum(x) OVER w FROM t WINDOW w AS (PARTITION BY a ORDER BY b)", nil)
	sel := query.Body.(*ast.Select)
	require.Len(t, sel.Windows, 1)
	assert.Equal(t, "w", sel.Windows[0].Name.Value)
	assert.Len(t, sel.Windows[0].Spec.PartitionBy, 1)
}

func TestParseWindowSpecNamedReferenceGated(t *testing.T) {
	query := parseQueryStmt(t,
		"SELECT sum(x) OVER (w ORDER BY b) FROM t WINDOW w AS (PARTITION BY a)", duckdb.DuckDB)
	sel := query.Body.(*ast.Select)
	fn := sel.Projection[0].Expr.(*ast.FuncCall)
	require.NotNil(t, fn.Over.Spec.Name)
	assert.Equal(t, "w", fn.Over.Spec.Name.Value)

	restricted := dialect.New("no-named-window").Build()
	_, err := Parse("SELECT sum(x) OVER (w ORDER BY b) FROM t", restricted)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "named window")
}

func TestParseSubqueryExpression(t *testing.T) {
	query := parseQueryStmt(t, "SELECT (SELECT max(b) FROM u) FROM t", nil)
	sel := query.Body.(*ast.Select)
	_, ok := sel.Projection[0].Expr.(*ast.SubqueryExpr)
	assert.True(t, ok)
}

func TestParseNestedJoinFactor(t *testing.T) {
	query := parseQueryStmt(t, "SELECT * FROM (a JOIN b ON a.x = b.x) JOIN c ON c.y = a.y", nil)
	sel := query.Body.(*ast.Select)
	nested, ok := sel.From[0].Relation.(*ast.NestedJoin)
	require.True(t, ok)
	require.Len(t, nested.Inner.Joins, 1)
	require.Len(t, sel.From[0].Joins, 1)
}
