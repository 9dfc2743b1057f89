package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/pkg/ast"
	"github.com/leapstack-labs/squill/pkg/dialect"
	"github.com/leapstack-labs/squill/pkg/dialects/mysql"
	"github.com/leapstack-labs/squill/pkg/dialects/postgres"
	"github.com/leapstack-labs/squill/pkg/spi"
)

func TestParseInsert(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y')", nil)
	insert, ok := stmt.(*ast.Insert)
	require.True(t, ok)
	assert.Equal(t, "t", insert.Table.String())
	assert.Len(t, insert.Columns, 2)
	values, ok := insert.Source.Body.(*ast.Values)
	require.True(t, ok)
	assert.Len(t, values.Rows, 2)

	stmt = parseOne(t, "INSERT INTO t SELECT * FROM u", nil)
	insert = stmt.(*ast.Insert)
	assert.Empty(t, insert.Columns)
	_, ok = insert.Source.Body.(*ast.Select)
	assert.True(t, ok)
}

func TestParseUpdate(t *testing.T) {
	stmt := parseOne(t, "UPDATE t SET a = a + 1, b = 'x' WHERE id = 7", nil)
	update, ok := stmt.(*ast.Update)
	require.True(t, ok)
	require.Len(t, update.Assignments, 2)
	assert.Equal(t, "a", update.Assignments[0].Target.String())
	require.NotNil(t, update.Selection)
}

func TestParseDelete(t *testing.T) {
	stmt := parseOne(t, "DELETE FROM t WHERE id = 7", nil)
	del, ok := stmt.(*ast.Delete)
	require.True(t, ok)
	require.NotNil(t, del.Selection)

	stmt = parseOne(t, "DELETE FROM t", nil)
	del = stmt.(*ast.Delete)
	assert.Nil(t, del.Selection)
}

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, `CREATE TABLE IF NOT EXISTS t (
		id BIGINT NOT NULL PRIMARY KEY,
		name VARCHAR(255) DEFAULT 'anon',
		age INT NULL,
		CONSTRAINT uniq_name UNIQUE (name),
		CHECK (age > 0)
	)`, nil)
	create, ok := stmt.(*ast.CreateTable)
	require.True(t, ok)
	assert.True(t, create.IfNotExists)
	require.Len(t, create.Columns, 3)
	require.Len(t, create.Constraints, 2)

	id := create.Columns[0]
	assert.Equal(t, "id", id.Name.Value)
	assert.Equal(t, &ast.IntType{Name: "BIGINT"}, id.Type)
	require.Len(t, id.Options, 2)
	assert.Equal(t, ast.ColumnNotNull, id.Options[0].Kind)
	assert.Equal(t, ast.ColumnPrimaryKey, id.Options[1].Kind)

	name := create.Columns[1]
	charType, ok := name.Type.(*ast.CharType)
	require.True(t, ok)
	assert.Equal(t, "VARCHAR", charType.Name)
	require.Len(t, name.Options, 1)
	assert.Equal(t, ast.ColumnDefault, name.Options[0].Kind)

	uniq := create.Constraints[0]
	require.NotNil(t, uniq.Name)
	assert.Equal(t, ast.ConstraintUnique, uniq.Kind)
	check := create.Constraints[1]
	assert.Nil(t, check.Name)
	assert.Equal(t, ast.ConstraintCheck, check.Kind)
}

func TestParseCreateTableArrayTypes(t *testing.T) {
	stmt := parseOne(t, "CREATE TABLE t (a INT ARRAY[3], b INT[], c ARRAY<TEXT>, d ARRAY(INT))", nil)
	create := stmt.(*ast.CreateTable)
	require.Len(t, create.Columns, 4)

	a, ok := create.Columns[0].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, ast.SquareBracket, a.Brackets)
	require.NotNil(t, a.Size)

	b, ok := create.Columns[1].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, ast.SquareBracket, b.Brackets)
	assert.Nil(t, b.Size)

	c, ok := create.Columns[2].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, ast.AngleBracket, c.Brackets)

	d, ok := create.Columns[3].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, ast.ParenBracket, d.Brackets)
}

func TestParseCreateTableAsSelect(t *testing.T) {
	stmt := parseOne(t, "CREATE OR REPLACE TEMPORARY TABLE t AS SELECT a FROM u", nil)
	create := stmt.(*ast.CreateTable)
	assert.True(t, create.OrReplace)
	assert.True(t, create.Temporary)
	require.NotNil(t, create.Query)
}

func TestParseCreateView(t *testing.T) {
	stmt := parseOne(t, "CREATE MATERIALIZED VIEW v (a, b) AS SELECT x, y FROM t", nil)
	view, ok := stmt.(*ast.CreateView)
	require.True(t, ok)
	assert.True(t, view.Materialized)
	assert.Len(t, view.Columns, 2)
	require.NotNil(t, view.Query)
}

func TestParseCreateIndex(t *testing.T) {
	stmt := parseOne(t, "CREATE UNIQUE INDEX idx_name ON t (a DESC, b)", nil)
	index, ok := stmt.(*ast.CreateIndex)
	require.True(t, ok)
	assert.True(t, index.Unique)
	require.NotNil(t, index.Name)
	require.Len(t, index.Columns, 2)
	require.NotNil(t, index.Columns[0].Asc)
	assert.False(t, *index.Columns[0].Asc)
}

func TestParseAlterTable(t *testing.T) {
	stmt := parseOne(t, "ALTER TABLE t ADD COLUMN age INT NOT NULL", nil)
	alter, ok := stmt.(*ast.AlterTable)
	require.True(t, ok)
	add, ok := alter.Op.(*ast.AddColumn)
	require.True(t, ok)
	assert.Equal(t, "age", add.Column.Name.Value)

	stmt = parseOne(t, "ALTER TABLE t DROP COLUMN IF EXISTS age", nil)
	alter = stmt.(*ast.AlterTable)
	drop, ok := alter.Op.(*ast.DropColumn)
	require.True(t, ok)
	assert.True(t, drop.IfExists)

	stmt = parseOne(t, "ALTER TABLE t RENAME COLUMN a TO b", nil)
	alter = stmt.(*ast.AlterTable)
	rename, ok := alter.Op.(*ast.RenameColumn)
	require.True(t, ok)
	assert.Equal(t, "a", rename.Old.Value)
	assert.Equal(t, "b", rename.New.Value)

	stmt = parseOne(t, "ALTER TABLE t RENAME TO u", nil)
	alter = stmt.(*ast.AlterTable)
	renameTable, ok := alter.Op.(*ast.RenameTable)
	require.True(t, ok)
	assert.Equal(t, "u", renameTable.Name.String())
}

func TestParseDrop(t *testing.T) {
	stmt := parseOne(t, "DROP TABLE IF EXISTS a, b CASCADE", nil)
	drop, ok := stmt.(*ast.Drop)
	require.True(t, ok)
	assert.Equal(t, ast.ObjectTable, drop.Kind)
	assert.True(t, drop.IfExists)
	assert.Len(t, drop.Names, 2)
	assert.True(t, drop.Cascade)

	stmt = parseOne(t, "DROP VIEW v", nil)
	drop = stmt.(*ast.Drop)
	assert.Equal(t, ast.ObjectView, drop.Kind)
}

func TestParseTruncate(t *testing.T) {
	stmt := parseOne(t, "TRUNCATE TABLE t", nil)
	truncate, ok := stmt.(*ast.Truncate)
	require.True(t, ok)
	assert.Equal(t, "t", truncate.Name.String())
}

func TestParseTransactions(t *testing.T) {
	stmt := parseOne(t, "START TRANSACTION READ ONLY, ISOLATION LEVEL SERIALIZABLE", nil)
	start, ok := stmt.(*ast.StartTransaction)
	require.True(t, ok)
	assert.False(t, start.Begin)
	assert.Equal(t, []ast.TransactionMode{ast.ReadOnly, ast.Serializable}, start.Modes)

	stmt = parseOne(t, "BEGIN", nil)
	start = stmt.(*ast.StartTransaction)
	assert.True(t, start.Begin)

	stmt = parseOne(t, "BEGIN DEFERRED", mysql.MySQL)
	start = stmt.(*ast.StartTransaction)
	assert.Equal(t, "DEFERRED", start.Modifier)

	restricted := dialect.New("no-begin-modifier").Build()
	_, err := Parse("BEGIN DEFERRED", restricted)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "transaction modifier")

	_, ok = parseOne(t, "COMMIT", nil).(*ast.Commit)
	assert.True(t, ok)
	_, ok = parseOne(t, "ROLLBACK", nil).(*ast.Rollback)
	assert.True(t, ok)
}

func TestParseGrant(t *testing.T) {
	stmt := parseOne(t, "GRANT SELECT, INSERT ON db.t TO alice, bob WITH GRANT OPTION", nil)
	grant, ok := stmt.(*ast.Grant)
	require.True(t, ok)
	assert.Equal(t, []string{"SELECT", "INSERT"}, grant.Privileges)
	require.Len(t, grant.Objects, 1)
	assert.Equal(t, "db.t", grant.Objects[0].String())
	assert.Len(t, grant.Grantees, 2)
	assert.True(t, grant.WithGrantOption)

	stmt = parseOne(t, "GRANT ALL PRIVILEGES ON t TO carol", nil)
	grant = stmt.(*ast.Grant)
	assert.Equal(t, []string{"ALL PRIVILEGES"}, grant.Privileges)
}

func TestParseUse(t *testing.T) {
	stmt := parseOne(t, "USE analytics", nil)
	use, ok := stmt.(*ast.Use)
	require.True(t, ok)
	assert.Equal(t, "analytics", use.Name.Value)
}

func TestParseSetVariable(t *testing.T) {
	stmt := parseOne(t, "SET search_path = 'public'", nil)
	set, ok := stmt.(*ast.SetVariable)
	require.True(t, ok)
	assert.False(t, set.Parenthesized)
	require.Len(t, set.Names, 1)

	stmt = parseOne(t, "SET (a, b) = (1, 2)", postgres.Postgres)
	set = stmt.(*ast.SetVariable)
	assert.True(t, set.Parenthesized)
	assert.Len(t, set.Names, 2)
	assert.Len(t, set.Values, 2)

	restricted := dialect.New("no-paren-set").Build()
	_, err := Parse("SET (a, b) = (1, 2)", restricted)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "parenthesized SET")
}

func TestParseExplain(t *testing.T) {
	stmt := parseOne(t, "EXPLAIN SELECT a FROM t", nil)
	explain, ok := stmt.(*ast.Explain)
	require.True(t, ok)
	_, ok = explain.Statement.(*ast.Query)
	assert.True(t, ok)
}

func TestDialectHookErrorSurfacesUnchanged(t *testing.T) {
	boom := &ParseError{Message: "boom"}
	hooked := dialect.New("boom").
		StatementHandler(func(p spi.ParserOps) (ast.Statement, bool, error) {
			return nil, true, boom
		}).
		Build()
	_, err := Parse("SELECT 1", hooked)
	assert.Same(t, boom, err)
}
