package dialect

// builtinGeneric is the permissive default dialect. It accepts the
// common ground of the concrete dialects so that dialect-less callers
// can parse ordinary SQL.
var builtinGeneric = New("generic").
	Flags(Flags{
		SupportsFilterDuringAggregation:          true,
		SupportsGroupByExpression:                true,
		SupportsSubstringFromForExpression:       true,
		SupportsInEmptyList:                      true,
		SupportsWindowClauseNamedWindowReference: true,
		SupportsWindowFunctionNullTreatmentArg:   true,
		SupportsStartTransactionModifier:         true,
		SupportsNamedFunctionArgsWithEqOperator:  true,
		SupportsParenthesizedSetVariables:        true,
	}).
	Build()

func init() {
	Register(builtinGeneric)
	SetDefault(builtinGeneric)
}
