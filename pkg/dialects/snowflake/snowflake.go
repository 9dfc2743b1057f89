// Package snowflake provides the Snowflake dialect definition.
package snowflake

import (
	"github.com/leapstack-labs/squill/pkg/dialect"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake dialect. SELECT * EXCEPT, MATCH_RECOGNIZE
// and CONNECT BY capability flags, and projection trailing commas.
var Snowflake = dialect.New("snowflake").
	Flags(dialect.Flags{
		SupportsFilterDuringAggregation:          true,
		SupportsGroupByExpression:                true,
		SupportsSubstringFromForExpression:       true,
		SupportsWindowClauseNamedWindowReference: true,
		SupportsWindowFunctionNullTreatmentArg:   true,
		SupportsSelectWildcardExcept:             true,
		SupportsMatchRecognize:                   true,
		SupportsConnectBy:                        true,
		SupportsProjectionTrailingCommas:         true,
		SupportsTripleQuotedString:               true,
	}).
	Build()
