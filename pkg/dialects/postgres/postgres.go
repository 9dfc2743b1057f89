// Package postgres provides the PostgreSQL dialect definition.
package postgres

import (
	"github.com/leapstack-labs/squill/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect. Double-quoted identifiers,
// standard-conforming strings (no backslash escapes), FILTER on
// aggregates, and SUBSTRING(x FROM a FOR b).
var Postgres = dialect.New("postgres").
	Flags(dialect.Flags{
		SupportsFilterDuringAggregation:          true,
		SupportsGroupByExpression:                true,
		SupportsSubstringFromForExpression:       true,
		SupportsWindowClauseNamedWindowReference: true,
		SupportsWindowFunctionNullTreatmentArg:   true,
		SupportsParenthesizedSetVariables:        true,
	}).
	Build()
