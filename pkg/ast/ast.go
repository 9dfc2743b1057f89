// Package ast defines the abstract syntax tree for SQL.
//
// Nodes are plain data records. They are immutable by convention:
// the parser builds them, consumers read them, and transformations
// produce new nodes (see Apply). Two nodes are equal when their
// fields are equal.
package ast

import "strings"

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()
}

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	Node
	stmtNode()
}

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Ident is a single identifier with its captured quote style.
type Ident struct {
	Value string
	// Quote is the opening quote rune (`"`, '`' or '['), or zero for
	// an unquoted identifier.
	Quote rune
}

// NewIdent returns an unquoted identifier.
func NewIdent(value string) Ident {
	return Ident{Value: value}
}

// String renders the identifier with its quote style.
func (i Ident) String() string {
	switch i.Quote {
	case '"':
		return `"` + strings.ReplaceAll(i.Value, `"`, `""`) + `"`
	case '`':
		return "`" + strings.ReplaceAll(i.Value, "`", "``") + "`"
	case '[':
		return "[" + i.Value + "]"
	default:
		return i.Value
	}
}

// ObjectName is a dotted, possibly quoted name path such as
// catalog.schema.table. It always has at least one part.
type ObjectName struct {
	Parts []Ident
}

func (*ObjectName) node() {}

// NewObjectName builds an ObjectName from unquoted parts.
func NewObjectName(parts ...string) *ObjectName {
	idents := make([]Ident, len(parts))
	for i, p := range parts {
		idents[i] = Ident{Value: p}
	}
	return &ObjectName{Parts: idents}
}

// String renders the dotted name.
func (o *ObjectName) String() string {
	var sb strings.Builder
	for i, p := range o.Parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}
