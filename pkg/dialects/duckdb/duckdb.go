// Package duckdb provides the DuckDB dialect definition.
package duckdb

import (
	"github.com/leapstack-labs/squill/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect. Permissive: trailing commas, lambda
// functions, dictionary (struct) literals, and the full window
// grammar.
var DuckDB = dialect.New("duckdb").
	Flags(dialect.Flags{
		SupportsFilterDuringAggregation:          true,
		SupportsInEmptyList:                      true,
		SupportsGroupByExpression:                true,
		SupportsSubstringFromForExpression:       true,
		SupportsWindowClauseNamedWindowReference: true,
		SupportsWindowFunctionNullTreatmentArg:   true,
		SupportsLambdaFunctions:                  true,
		SupportsDictionarySyntax:                 true,
		SupportsTrailingCommas:                   true,
		SupportsProjectionTrailingCommas:         true,
		SupportsNamedFunctionArgsWithEqOperator:  true,
	}).
	Build()
