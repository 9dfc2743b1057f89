package parser

import (
	"fmt"

	"github.com/leapstack-labs/squill/pkg/token"
)

// LexError is a tokenizer failure: malformed literal, unterminated
// string or comment, unrecognized character.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("tokenizer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ParseError is a parser failure: unexpected token, missing expected
// token, or a construct the dialect does not support. Errors are
// fatal to the current parse; there is no recovery.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
