package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/squill/internal/cli/config"

	_ "github.com/leapstack-labs/squill/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/squill/pkg/dialects/mysql"
)

func TestFmtCommandExpression(t *testing.T) {
	SetConfig(&config.Config{Dialect: "generic", Output: "text"})

	cmd := NewFmtCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-e", "select a,b from t where x=1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "SELECT a, b FROM t WHERE x = 1;\n", out.String())
}

func TestFmtCommandSyntaxError(t *testing.T) {
	SetConfig(&config.Config{Dialect: "generic", Output: "text"})

	cmd := NewFmtCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-e", "select from where"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestTokensCommandExpression(t *testing.T) {
	SetConfig(&config.Config{Dialect: "generic", Output: "text"})

	cmd := NewTokensCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-e", "SELECT 1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "SELECT")
	assert.Contains(t, out.String(), "NUMBER")
}

func TestDialectsCommandListsRegistry(t *testing.T) {
	cmd := NewDialectsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "generic (default)")
	assert.Contains(t, out.String(), "duckdb")
	assert.Contains(t, out.String(), "mysql")
}

func TestUnknownDialect(t *testing.T) {
	SetConfig(&config.Config{Dialect: "no-such", Output: "text"})
	defer SetConfig(&config.Config{Dialect: config.DefaultDialect, Output: config.DefaultOutput})

	cmd := NewFmtCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-e", "SELECT 1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}
