package token

import "fmt"

// Position represents a source position. Line and Column are 1-based;
// Offset is the rune offset from the start of the input.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
