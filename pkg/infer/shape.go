package infer

import "ruleforge/vgen/pkg/typeexpr"

// Shape is the decomposition of a field's declared type.
type Shape struct {
	Declared *typeexpr.Expr
	// Optional is true for pointer types; Unwrapped is the pointee, or the
	// declared type itself.
	Optional  bool
	Unwrapped *typeexpr.Expr
	// Collection is true when Unwrapped is a slice or array. Element is its
	// element type as declared, ElementUnwrapped its pointee when
	// ElementOptional.
	Collection       bool
	Element          *typeexpr.Expr
	ElementOptional  bool
	ElementUnwrapped *typeexpr.Expr
}

// ShapeOf decomposes a declared field type.
func ShapeOf(declared *typeexpr.Expr) Shape {
	s := Shape{Declared: declared, Unwrapped: declared}
	if declared.IsOptional() {
		s.Optional = true
		s.Unwrapped = declared.Elem
	}
	if s.Unwrapped.IsCollection() {
		s.Collection = true
		s.Element = s.Unwrapped.Elem
		s.ElementUnwrapped = s.Element
		if s.Element.IsOptional() {
			s.ElementOptional = true
			s.ElementUnwrapped = s.Element.Elem
		}
	}
	return s
}
