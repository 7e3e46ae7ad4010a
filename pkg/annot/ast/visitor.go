package ast

// Visitor is called for every invocation of a FieldAnnotation.
type Visitor interface {
	VisitInvocation(inv *Invocation, element bool) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(inv *Invocation, element bool) error

// VisitInvocation calls f(inv, element).
func (f VisitorFunc) VisitInvocation(inv *Invocation, element bool) error {
	return f(inv, element)
}

// Walk visits field-level invocations then element-level invocations, in
// declaration order. It returns the first error from the visitor.
func Walk(a *FieldAnnotation, v Visitor) error {
	if a == nil {
		return nil
	}
	for _, inv := range a.Field {
		if err := v.VisitInvocation(inv, false); err != nil {
			return err
		}
	}
	for _, inv := range a.Element {
		if err := v.VisitInvocation(inv, true); err != nil {
			return err
		}
	}
	return nil
}
