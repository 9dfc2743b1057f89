package ast

import "reflect"

// CustomVisitor routes nodes without a dedicated hook to callbacks
// registered per concrete variant. Register hooks with
// RegisterPreVisit and RegisterPostVisit; unregistered variants pass
// through unchanged.
type CustomVisitor struct {
	BaseVisitor
	pre  map[reflect.Type]func(Node) (Node, error)
	post map[reflect.Type]func(Node) (Node, error)
}

// PreVisit dispatches to the hook registered for the node's variant.
func (v *CustomVisitor) PreVisit(n Node) (Node, error) {
	if fn, ok := v.pre[reflect.TypeOf(n)]; ok {
		return fn(n)
	}
	return n, nil
}

// PostVisit dispatches to the hook registered for the node's variant.
func (v *CustomVisitor) PostVisit(n Node) (Node, error) {
	if fn, ok := v.post[reflect.TypeOf(n)]; ok {
		return fn(n)
	}
	return n, nil
}

// RegisterPreVisit registers fn as the pre-order hook for variant T.
func RegisterPreVisit[T Node](v *CustomVisitor, fn func(T) (T, error)) {
	if v.pre == nil {
		v.pre = make(map[reflect.Type]func(Node) (Node, error))
	}
	var zero T
	v.pre[reflect.TypeOf(zero)] = wrapHook(fn)
}

// RegisterPostVisit registers fn as the post-order hook for variant T.
func RegisterPostVisit[T Node](v *CustomVisitor, fn func(T) (T, error)) {
	if v.post == nil {
		v.post = make(map[reflect.Type]func(Node) (Node, error))
	}
	var zero T
	v.post[reflect.TypeOf(zero)] = wrapHook(fn)
}

func wrapHook[T Node](fn func(T) (T, error)) func(Node) (Node, error) {
	return func(n Node) (Node, error) {
		t, ok := n.(T)
		if !ok {
			return n, nil
		}
		return fn(t)
	}
}
