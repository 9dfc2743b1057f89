package ast

import (
	"errors"
	"fmt"
	"iter"
)

// Visitor receives nodes during traversal. Each hook may return a
// replacement node; returning the argument unchanged leaves the tree
// untouched. Query, ObjectName, TableFactor, expressions and
// statements have dedicated hooks; every other node kind is routed
// through PreVisit/PostVisit.
//
// Embed BaseVisitor to get identity behaviour for the hooks you do
// not care about.
type Visitor interface {
	PreVisitQuery(*Query) (*Query, error)
	PostVisitQuery(*Query) (*Query, error)
	PreVisitStatement(Statement) (Statement, error)
	PostVisitStatement(Statement) (Statement, error)
	PreVisitExpr(Expr) (Expr, error)
	PostVisitExpr(Expr) (Expr, error)
	PreVisitObjectName(*ObjectName) (*ObjectName, error)
	PostVisitObjectName(*ObjectName) (*ObjectName, error)
	PreVisitTableFactor(TableFactor) (TableFactor, error)
	PostVisitTableFactor(TableFactor) (TableFactor, error)
	PreVisit(Node) (Node, error)
	PostVisit(Node) (Node, error)
}

// BaseVisitor implements Visitor with identity hooks.
type BaseVisitor struct{}

func (BaseVisitor) PreVisitQuery(q *Query) (*Query, error)            { return q, nil }
func (BaseVisitor) PostVisitQuery(q *Query) (*Query, error)           { return q, nil }
func (BaseVisitor) PreVisitStatement(s Statement) (Statement, error)  { return s, nil }
func (BaseVisitor) PostVisitStatement(s Statement) (Statement, error) { return s, nil }
func (BaseVisitor) PreVisitExpr(e Expr) (Expr, error)                 { return e, nil }
func (BaseVisitor) PostVisitExpr(e Expr) (Expr, error)                { return e, nil }
func (BaseVisitor) PreVisitObjectName(o *ObjectName) (*ObjectName, error) {
	return o, nil
}
func (BaseVisitor) PostVisitObjectName(o *ObjectName) (*ObjectName, error) {
	return o, nil
}
func (BaseVisitor) PreVisitTableFactor(t TableFactor) (TableFactor, error) {
	return t, nil
}
func (BaseVisitor) PostVisitTableFactor(t TableFactor) (TableFactor, error) {
	return t, nil
}
func (BaseVisitor) PreVisit(n Node) (Node, error)  { return n, nil }
func (BaseVisitor) PostVisit(n Node) (Node, error) { return n, nil }

// Apply traverses node with v, rebuilding ancestors of any replaced
// descendant. A traversal that replaces nothing returns node itself
// by identity; replaced paths get fresh parents while untouched
// subtrees are shared with the input. Errors from hooks abort the
// traversal and surface unchanged.
func Apply(node Node, v Visitor) (Node, error) {
	n, _, err := apply(node, v)
	return n, err
}

// ApplyStatement is Apply restricted to statements.
func ApplyStatement(stmt Statement, v Visitor) (Statement, error) {
	n, err := Apply(stmt, v)
	if err != nil {
		return nil, err
	}
	s, ok := n.(Statement)
	if !ok {
		return nil, fmt.Errorf("visitor replaced statement with %T", n)
	}
	return s, nil
}

// ApplyExpr is Apply restricted to expressions.
func ApplyExpr(expr Expr, v Visitor) (Expr, error) {
	n, err := Apply(expr, v)
	if err != nil {
		return nil, err
	}
	e, ok := n.(Expr)
	if !ok {
		return nil, fmt.Errorf("visitor replaced expression with %T", n)
	}
	return e, nil
}

// errStopWalk aborts an inspection traversal early.
var errStopWalk = errors.New("stop walk")

// inspector adapts a plain callback to the Visitor interface so Walk
// and Descendants share the traversal order with Apply.
type inspector struct {
	BaseVisitor
	fn func(Node) bool
}

func (i *inspector) see(n Node) error {
	if !i.fn(n) {
		return errStopWalk
	}
	return nil
}

func (i *inspector) PreVisitQuery(q *Query) (*Query, error)           { return q, i.see(q) }
func (i *inspector) PreVisitStatement(s Statement) (Statement, error) { return s, i.see(s) }
func (i *inspector) PreVisitExpr(e Expr) (Expr, error)                { return e, i.see(e) }
func (i *inspector) PreVisitObjectName(o *ObjectName) (*ObjectName, error) {
	return o, i.see(o)
}
func (i *inspector) PreVisitTableFactor(t TableFactor) (TableFactor, error) {
	return t, i.see(t)
}
func (i *inspector) PreVisit(n Node) (Node, error) { return n, i.see(n) }

// Walk calls fn for node and every reachable descendant in pre-order.
// Traversal stops when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil {
		return
	}
	_, err := Apply(node, &inspector{fn: fn})
	if err != nil && !errors.Is(err, errStopWalk) {
		// The inspector never produces other errors.
		panic(err)
	}
}

// Descendants yields every node reachable through node's
// visitable-child fields, exactly once, in pre-order. The node itself
// is not yielded.
func Descendants(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		first := true
		Walk(node, func(n Node) bool {
			if first {
				first = false
				return true
			}
			return yield(n)
		})
	}
}

// ---------- traversal engine ----------

// apply runs the pre hook, recurses into children, and runs the post
// hook. The bool reports whether the returned node differs from n.
func apply(n Node, v Visitor) (Node, bool, error) {
	changed := false

	r, err := preVisit(n, v)
	if err != nil {
		return nil, false, err
	}
	if r != n {
		n = r
		changed = true
	}

	r, childChanged, err := applyChildren(n, v)
	if err != nil {
		return nil, false, err
	}
	if childChanged {
		n = r
		changed = true
	}

	r, err = postVisit(n, v)
	if err != nil {
		return nil, false, err
	}
	if r != n {
		n = r
		changed = true
	}

	return n, changed, nil
}

func preVisit(n Node, v Visitor) (Node, error) {
	switch x := n.(type) {
	case *Query:
		return v.PreVisitQuery(x)
	case *ObjectName:
		return v.PreVisitObjectName(x)
	case Expr:
		return v.PreVisitExpr(x)
	case TableFactor:
		return v.PreVisitTableFactor(x)
	case Statement:
		return v.PreVisitStatement(x)
	default:
		return v.PreVisit(n)
	}
}

func postVisit(n Node, v Visitor) (Node, error) {
	switch x := n.(type) {
	case *Query:
		return v.PostVisitQuery(x)
	case *ObjectName:
		return v.PostVisitObjectName(x)
	case Expr:
		return v.PostVisitExpr(x)
	case TableFactor:
		return v.PostVisitTableFactor(x)
	case Statement:
		return v.PostVisitStatement(x)
	default:
		return v.PostVisit(n)
	}
}

// ---------- typed child helpers ----------
// Each helper recurses through apply and asserts the replacement back
// to the field's static type, so hooks cannot smuggle a statement
// into an expression slot.

func applyNode[T Node](n T, v Visitor) (T, bool, error) {
	var zero T
	r, changed, err := apply(n, v)
	if err != nil {
		return zero, false, err
	}
	t, ok := r.(T)
	if !ok {
		return zero, false, fmt.Errorf("visitor replaced %T with incompatible %T", n, r)
	}
	return t, changed, nil
}

// applyPtr handles concrete pointer nodes like *Query and *With where
// the field type is the pointer itself.
func applyPtr[T any, PT interface {
	*T
	Node
}](n PT, v Visitor) (PT, bool, error) {
	if n == nil {
		return nil, false, nil
	}
	r, changed, err := apply(n, v)
	if err != nil {
		return nil, false, err
	}
	t, ok := r.(PT)
	if !ok {
		return nil, false, fmt.Errorf("visitor replaced %T with incompatible %T", n, r)
	}
	return t, changed, nil
}

func applyExprField(e Expr, v Visitor) (Expr, bool, error) {
	if e == nil {
		return nil, false, nil
	}
	return applyNode[Expr](e, v)
}

func applyList[T Node](list []T, v Visitor) ([]T, bool, error) {
	var out []T
	changed := false
	for i, item := range list {
		r, ch, err := applyNode(item, v)
		if err != nil {
			return nil, false, err
		}
		if ch && out == nil {
			out = make([]T, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out[i] = r
		}
		changed = changed || ch
	}
	if !changed {
		return list, false, nil
	}
	return out, true, nil
}

func applyExprList(list []Expr, v Visitor) ([]Expr, bool, error) {
	var out []Expr
	changed := false
	for i, item := range list {
		r, ch, err := applyExprField(item, v)
		if err != nil {
			return nil, false, err
		}
		if ch && out == nil {
			out = make([]Expr, len(list))
			copy(out, list[:i])
		}
		if out != nil {
			out[i] = r
		}
		changed = changed || ch
	}
	if !changed {
		return list, false, nil
	}
	return out, true, nil
}

// applyChildren recurses into the visitable children of n. When any
// child is replaced the parent is shallow-cloned once with the new
// children; otherwise n is returned by identity.
//
//nolint:gocyclo // one arm per node variant, each trivially shaped
func applyChildren(n Node, v Visitor) (Node, bool, error) {
	switch x := n.(type) {

	// ---------- identifiers ----------

	case *ObjectName, *IdentExpr, *CompoundIdent, *Literal, *Wildcard,
		*NaturalConstraint, *LockClause, *Commit, *Rollback, *Use,
		*StartTransaction, *SimpleType, *TimeType, *TableAlias:
		return n, false, nil

	case *CustomType:
		name, ch, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Name = name
			return &c, true, nil
		}
		return x, false, nil

	// ---------- expressions ----------

	case *BinaryExpr:
		l, ch1, err := applyExprField(x.Left, v)
		if err != nil {
			return nil, false, err
		}
		r, ch2, err := applyExprField(x.Right, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Left, c.Right = l, r
			return &c, true, nil
		}
		return x, false, nil

	case *UnaryExpr:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *FuncCall:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		args := x.Args
		argsChanged := false
		for i := range args {
			val, ch, err := applyExprField(args[i].Value, v)
			if err != nil {
				return nil, false, err
			}
			if ch && !argsChanged {
				cp := make([]FuncArg, len(args))
				copy(cp, args)
				args = cp
				argsChanged = true
			}
			if argsChanged {
				args[i].Value = val
			}
		}
		filter, ch2, err := applyExprField(x.Filter, v)
		if err != nil {
			return nil, false, err
		}
		over, ch3, err := applyPtr(x.Over, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || argsChanged || ch2 || ch3 {
			c := *x
			c.Name, c.Args, c.Filter, c.Over = name, args, filter, over
			return &c, true, nil
		}
		return x, false, nil

	case *OverClause:
		spec, ch, err := applyPtr(x.Spec, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Spec = spec
			return &c, true, nil
		}
		return x, false, nil

	case *WindowSpec:
		part, ch1, err := applyExprList(x.PartitionBy, v)
		if err != nil {
			return nil, false, err
		}
		order, ch2, err := applyList(x.OrderBy, v)
		if err != nil {
			return nil, false, err
		}
		frame, ch3, err := applyPtr(x.Frame, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.PartitionBy, c.OrderBy, c.Frame = part, order, frame
			return &c, true, nil
		}
		return x, false, nil

	case *WindowFrame:
		start, ch1, err := applyPtr(x.Start, v)
		if err != nil {
			return nil, false, err
		}
		end, ch2, err := applyPtr(x.End, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Start, c.End = start, end
			return &c, true, nil
		}
		return x, false, nil

	case *FrameBound:
		off, ch, err := applyExprField(x.Offset, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Offset = off
			return &c, true, nil
		}
		return x, false, nil

	case *CaseExpr:
		op, ch1, err := applyExprField(x.Operand, v)
		if err != nil {
			return nil, false, err
		}
		whens, ch2, err := applyList(x.Whens, v)
		if err != nil {
			return nil, false, err
		}
		els, ch3, err := applyExprField(x.Else, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Operand, c.Whens, c.Else = op, whens, els
			return &c, true, nil
		}
		return x, false, nil

	case *WhenClause:
		cond, ch1, err := applyExprField(x.Condition, v)
		if err != nil {
			return nil, false, err
		}
		res, ch2, err := applyExprField(x.Result, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Condition, c.Result = cond, res
			return &c, true, nil
		}
		return x, false, nil

	case *CastExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		t, ch2, err := applyDataType(x.Type, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Type = e, t
			return &c, true, nil
		}
		return x, false, nil

	case *ConvertExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		t, ch2, err := applyDataType(x.Type, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Type = e, t
			return &c, true, nil
		}
		return x, false, nil

	case *SubqueryExpr:
		q, ch, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Query = q
			return &c, true, nil
		}
		return x, false, nil

	case *ExistsExpr:
		q, ch, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Query = q
			return &c, true, nil
		}
		return x, false, nil

	case *InExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		list, ch2, err := applyExprList(x.List, v)
		if err != nil {
			return nil, false, err
		}
		q, ch3, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Expr, c.List, c.Query = e, list, q
			return &c, true, nil
		}
		return x, false, nil

	case *BetweenExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		lo, ch2, err := applyExprField(x.Low, v)
		if err != nil {
			return nil, false, err
		}
		hi, ch3, err := applyExprField(x.High, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Expr, c.Low, c.High = e, lo, hi
			return &c, true, nil
		}
		return x, false, nil

	case *LikeExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		pat, ch2, err := applyExprField(x.Pattern, v)
		if err != nil {
			return nil, false, err
		}
		esc, ch3, err := applyExprField(x.Escape, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Expr, c.Pattern, c.Escape = e, pat, esc
			return &c, true, nil
		}
		return x, false, nil

	case *IsExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		other, ch2, err := applyExprField(x.Other, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Other = e, other
			return &c, true, nil
		}
		return x, false, nil

	case *CollateExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		coll, ch2, err := applyPtr(x.Collation, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Collation = e, coll
			return &c, true, nil
		}
		return x, false, nil

	case *ParenExpr:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *TupleExpr:
		list, ch, err := applyExprList(x.Exprs, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Exprs = list
			return &c, true, nil
		}
		return x, false, nil

	case *ArrayExpr:
		list, ch, err := applyExprList(x.Elems, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Elems = list
			return &c, true, nil
		}
		return x, false, nil

	case *IndexExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		idx, ch2, err := applyExprField(x.Index, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Index = e, idx
			return &c, true, nil
		}
		return x, false, nil

	case *TypedString:
		t, ch, err := applyDataType(x.Type, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Type = t
			return &c, true, nil
		}
		return x, false, nil

	case *IntervalExpr:
		val, ch, err := applyExprField(x.Value, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Value = val
			return &c, true, nil
		}
		return x, false, nil

	case *AtTimeZone:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		z, ch2, err := applyExprField(x.Zone, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Zone = e, z
			return &c, true, nil
		}
		return x, false, nil

	case *ExtractExpr:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *PositionExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		in, ch2, err := applyExprField(x.In, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.In = e, in
			return &c, true, nil
		}
		return x, false, nil

	case *SubstringExpr:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		from, ch2, err := applyExprField(x.From, v)
		if err != nil {
			return nil, false, err
		}
		length, ch3, err := applyExprField(x.For, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Expr, c.From, c.For = e, from, length
			return &c, true, nil
		}
		return x, false, nil

	case *TrimExpr:
		what, ch1, err := applyExprField(x.What, v)
		if err != nil {
			return nil, false, err
		}
		e, ch2, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.What, c.Expr = what, e
			return &c, true, nil
		}
		return x, false, nil

	case *LambdaExpr:
		body, ch, err := applyExprField(x.Body, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Body = body
			return &c, true, nil
		}
		return x, false, nil

	case *DictionaryExpr:
		fields, ch, err := applyList(x.Fields, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Fields = fields
			return &c, true, nil
		}
		return x, false, nil

	case *DictionaryField:
		val, ch, err := applyExprField(x.Value, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Value = val
			return &c, true, nil
		}
		return x, false, nil

	// ---------- data types ----------

	case *IntType:
		w, ch, err := applyExprField(x.Width, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Width = w
			return &c, true, nil
		}
		return x, false, nil

	case *FloatType:
		p, ch, err := applyExprField(x.Precision, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Precision = p
			return &c, true, nil
		}
		return x, false, nil

	case *DecimalType:
		p, ch1, err := applyExprField(x.Precision, v)
		if err != nil {
			return nil, false, err
		}
		s, ch2, err := applyExprField(x.Scale, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Precision, c.Scale = p, s
			return &c, true, nil
		}
		return x, false, nil

	case *CharType:
		l, ch, err := applyExprField(x.Length, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Length = l
			return &c, true, nil
		}
		return x, false, nil

	case *ArrayType:
		elem, ch1, err := applyDataType(x.Elem, v)
		if err != nil {
			return nil, false, err
		}
		size, ch2, err := applyExprField(x.Size, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Elem, c.Size = elem, size
			return &c, true, nil
		}
		return x, false, nil

	// ---------- query substructure ----------

	case *Query:
		with, ch1, err := applyPtr(x.With, v)
		if err != nil {
			return nil, false, err
		}
		body, ch2, err := applySetExpr(x.Body, v)
		if err != nil {
			return nil, false, err
		}
		order, ch3, err := applyList(x.OrderBy, v)
		if err != nil {
			return nil, false, err
		}
		limit, ch4, err := applyExprField(x.Limit, v)
		if err != nil {
			return nil, false, err
		}
		offset, ch5, err := applyPtr(x.Offset, v)
		if err != nil {
			return nil, false, err
		}
		fetch, ch6, err := applyPtr(x.Fetch, v)
		if err != nil {
			return nil, false, err
		}
		locks, ch7, err := applyList(x.Locks, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 || ch4 || ch5 || ch6 || ch7 {
			c := *x
			c.With, c.Body, c.OrderBy, c.Limit, c.Offset, c.Fetch, c.Locks =
				with, body, order, limit, offset, fetch, locks
			return &c, true, nil
		}
		return x, false, nil

	case *With:
		ctes, ch, err := applyList(x.CTEs, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.CTEs = ctes
			return &c, true, nil
		}
		return x, false, nil

	case *CTE:
		q, ch, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Query = q
			return &c, true, nil
		}
		return x, false, nil

	case *SetOperation:
		l, ch1, err := applySetExpr(x.Left, v)
		if err != nil {
			return nil, false, err
		}
		r, ch2, err := applySetExpr(x.Right, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Left, c.Right = l, r
			return &c, true, nil
		}
		return x, false, nil

	case *ParenQuery:
		q, ch, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Query = q
			return &c, true, nil
		}
		return x, false, nil

	case *Values:
		rows := x.Rows
		rowsChanged := false
		for i, row := range rows {
			newRow, ch, err := applyExprList(row, v)
			if err != nil {
				return nil, false, err
			}
			if ch && !rowsChanged {
				cp := make([][]Expr, len(rows))
				copy(cp, rows)
				rows = cp
				rowsChanged = true
			}
			if rowsChanged {
				rows[i] = newRow
			}
		}
		if rowsChanged {
			c := *x
			c.Rows = rows
			return &c, true, nil
		}
		return x, false, nil

	case *Select:
		top, ch1, err := applyPtr(x.Top, v)
		if err != nil {
			return nil, false, err
		}
		proj, ch2, err := applyList(x.Projection, v)
		if err != nil {
			return nil, false, err
		}
		from, ch3, err := applyList(x.From, v)
		if err != nil {
			return nil, false, err
		}
		sel, ch4, err := applyExprField(x.Selection, v)
		if err != nil {
			return nil, false, err
		}
		group, ch5, err := applyPtr(x.GroupBy, v)
		if err != nil {
			return nil, false, err
		}
		having, ch6, err := applyExprField(x.Having, v)
		if err != nil {
			return nil, false, err
		}
		windows, ch7, err := applyList(x.Windows, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 || ch4 || ch5 || ch6 || ch7 {
			c := *x
			c.Top, c.Projection, c.From, c.Selection, c.GroupBy, c.Having, c.Windows =
				top, proj, from, sel, group, having, windows
			return &c, true, nil
		}
		return x, false, nil

	case *SelectItem:
		e, ch1, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		qual, ch2, err := applyPtr(x.Qualifier, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Expr, c.Qualifier = e, qual
			return &c, true, nil
		}
		return x, false, nil

	case *Top:
		q, ch, err := applyExprField(x.Quantity, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Quantity = q
			return &c, true, nil
		}
		return x, false, nil

	case *GroupBy:
		exprs, ch1, err := applyExprList(x.Exprs, v)
		if err != nil {
			return nil, false, err
		}
		sets := x.Sets
		setsChanged := false
		for i, set := range sets {
			newSet, ch, err := applyExprList(set, v)
			if err != nil {
				return nil, false, err
			}
			if ch && !setsChanged {
				cp := make([][]Expr, len(sets))
				copy(cp, sets)
				sets = cp
				setsChanged = true
			}
			if setsChanged {
				sets[i] = newSet
			}
		}
		if ch1 || setsChanged {
			c := *x
			c.Exprs, c.Sets = exprs, sets
			return &c, true, nil
		}
		return x, false, nil

	case *NamedWindow:
		spec, ch, err := applyPtr(x.Spec, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Spec = spec
			return &c, true, nil
		}
		return x, false, nil

	case *TableWithJoins:
		rel, ch1, err := applyTableFactor(x.Relation, v)
		if err != nil {
			return nil, false, err
		}
		joins, ch2, err := applyList(x.Joins, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Relation, c.Joins = rel, joins
			return &c, true, nil
		}
		return x, false, nil

	case *TableName:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		alias, ch2, err := applyPtr(x.Alias, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Name, c.Alias = name, alias
			return &c, true, nil
		}
		return x, false, nil

	case *Derived:
		q, ch1, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		alias, ch2, err := applyPtr(x.Alias, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Query, c.Alias = q, alias
			return &c, true, nil
		}
		return x, false, nil

	case *NestedJoin:
		inner, ch1, err := applyPtr(x.Inner, v)
		if err != nil {
			return nil, false, err
		}
		alias, ch2, err := applyPtr(x.Alias, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Inner, c.Alias = inner, alias
			return &c, true, nil
		}
		return x, false, nil

	case *Join:
		rel, ch1, err := applyTableFactor(x.Relation, v)
		if err != nil {
			return nil, false, err
		}
		cons := x.Constraint
		ch2 := false
		if cons != nil {
			var err error
			cons, ch2, err = applyNode[JoinConstraint](cons, v)
			if err != nil {
				return nil, false, err
			}
		}
		if ch1 || ch2 {
			c := *x
			c.Relation, c.Constraint = rel, cons
			return &c, true, nil
		}
		return x, false, nil

	case *OnConstraint:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *UsingConstraint:
		return x, false, nil

	case *OrderByExpr:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *Offset:
		val, ch, err := applyExprField(x.Value, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Value = val
			return &c, true, nil
		}
		return x, false, nil

	case *Fetch:
		q, ch, err := applyExprField(x.Quantity, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Quantity = q
			return &c, true, nil
		}
		return x, false, nil

	// ---------- statements ----------

	case *Insert:
		table, ch1, err := applyPtr(x.Table, v)
		if err != nil {
			return nil, false, err
		}
		source, ch2, err := applyPtr(x.Source, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Table, c.Source = table, source
			return &c, true, nil
		}
		return x, false, nil

	case *Update:
		table, ch1, err := applyPtr(x.Table, v)
		if err != nil {
			return nil, false, err
		}
		assigns, ch2, err := applyList(x.Assignments, v)
		if err != nil {
			return nil, false, err
		}
		sel, ch3, err := applyExprField(x.Selection, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Table, c.Assignments, c.Selection = table, assigns, sel
			return &c, true, nil
		}
		return x, false, nil

	case *Assignment:
		target, ch1, err := applyPtr(x.Target, v)
		if err != nil {
			return nil, false, err
		}
		val, ch2, err := applyExprField(x.Value, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Target, c.Value = target, val
			return &c, true, nil
		}
		return x, false, nil

	case *Delete:
		table, ch1, err := applyPtr(x.Table, v)
		if err != nil {
			return nil, false, err
		}
		sel, ch2, err := applyExprField(x.Selection, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Table, c.Selection = table, sel
			return &c, true, nil
		}
		return x, false, nil

	case *CreateTable:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		cols, ch2, err := applyList(x.Columns, v)
		if err != nil {
			return nil, false, err
		}
		cons, ch3, err := applyList(x.Constraints, v)
		if err != nil {
			return nil, false, err
		}
		q, ch4, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 || ch4 {
			c := *x
			c.Name, c.Columns, c.Constraints, c.Query = name, cols, cons, q
			return &c, true, nil
		}
		return x, false, nil

	case *ColumnDef:
		t, ch1, err := applyDataType(x.Type, v)
		if err != nil {
			return nil, false, err
		}
		opts, ch2, err := applyList(x.Options, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Type, c.Options = t, opts
			return &c, true, nil
		}
		return x, false, nil

	case *ColumnOption:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *TableConstraint:
		e, ch, err := applyExprField(x.Expr, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Expr = e
			return &c, true, nil
		}
		return x, false, nil

	case *CreateView:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		q, ch2, err := applyPtr(x.Query, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Name, c.Query = name, q
			return &c, true, nil
		}
		return x, false, nil

	case *CreateIndex:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		table, ch2, err := applyPtr(x.Table, v)
		if err != nil {
			return nil, false, err
		}
		cols, ch3, err := applyList(x.Columns, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 || ch3 {
			c := *x
			c.Name, c.Table, c.Columns = name, table, cols
			return &c, true, nil
		}
		return x, false, nil

	case *AlterTable:
		name, ch1, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		op, ch2, err := applyNode[AlterTableOp](x.Op, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Name, c.Op = name, op
			return &c, true, nil
		}
		return x, false, nil

	case *AddColumn:
		col, ch, err := applyPtr(x.Column, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Column = col
			return &c, true, nil
		}
		return x, false, nil

	case *DropColumn, *RenameColumn:
		return n, false, nil

	case *RenameTable:
		name, ch, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Name = name
			return &c, true, nil
		}
		return x, false, nil

	case *Drop:
		names, ch, err := applyList(x.Names, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Names = names
			return &c, true, nil
		}
		return x, false, nil

	case *Truncate:
		name, ch, err := applyPtr(x.Name, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Name = name
			return &c, true, nil
		}
		return x, false, nil

	case *Grant:
		objects, ch, err := applyList(x.Objects, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Objects = objects
			return &c, true, nil
		}
		return x, false, nil

	case *SetVariable:
		names, ch1, err := applyList(x.Names, v)
		if err != nil {
			return nil, false, err
		}
		values, ch2, err := applyExprList(x.Values, v)
		if err != nil {
			return nil, false, err
		}
		if ch1 || ch2 {
			c := *x
			c.Names, c.Values = names, values
			return &c, true, nil
		}
		return x, false, nil

	case *Explain:
		stmt, ch, err := applyNode[Statement](x.Statement, v)
		if err != nil {
			return nil, false, err
		}
		if ch {
			c := *x
			c.Statement = stmt
			return &c, true, nil
		}
		return x, false, nil

	default:
		return nil, false, fmt.Errorf("unknown AST node %T", n)
	}
}

func applySetExpr(s SetExpr, v Visitor) (SetExpr, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	return applyNode[SetExpr](s, v)
}

func applyTableFactor(t TableFactor, v Visitor) (TableFactor, bool, error) {
	if t == nil {
		return nil, false, nil
	}
	return applyNode[TableFactor](t, v)
}

func applyDataType(t DataType, v Visitor) (DataType, bool, error) {
	if t == nil {
		return nil, false, nil
	}
	return applyNode[DataType](t, v)
}
