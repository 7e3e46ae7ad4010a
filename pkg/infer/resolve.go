// Package infer computes the type argument a validator is instantiated with.
//
// Resolution depends on the field's declared type, the validator's type mode
// and whether the validator runs on the field or on each element:
//
//	declared    slot     mode              result
//	string      field    ::<_>             string
//	*string     field    ::<_>             string
//	*string     field    ::<Option<_>>     *string
//	[]float64   element  ::<_>             float64
//	[]*float64  element  ::<_>             float64
//	[]string    field    ::<Set<_>>        Set[string]
//	[]string    element  ::<Outer<_>>      Outer[string]
//	anything    any      ::<int64>         int64
//	anything    any      (none)            not generic
package infer

import (
	"errors"

	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/typeexpr"
)

// ErrNotCollection is returned when element validators are declared on a
// field that is not a slice or array.
var ErrNotCollection = errors.New("element validators require a slice or array field")

// Resolve returns the type argument for a validator with the given mode and
// template on a field of type declared. It returns nil for TypeModeNone.
func Resolve(declared *typeexpr.Expr, mode ast.TypeMode, template *typeexpr.Expr, element bool) (*typeexpr.Expr, error) {
	s := ShapeOf(declared)
	if element && !s.Collection {
		return nil, ErrNotCollection
	}

	full := declared
	if element {
		full = s.Element
	}

	switch mode {
	case ast.TypeModeNone:
		return nil, nil
	case ast.TypeModeExplicit:
		return template, nil
	case ast.TypeModeInferFull:
		if full.IsOptional() {
			return full.Elem, nil
		}
		return full, nil
	case ast.TypeModeInferPartial:
		if template.IsFullOptional() {
			return full, nil
		}
		base := full
		if !element {
			if arg := declared.FirstArg(); arg != nil {
				base = arg
			}
		}
		return template.Substitute(base), nil
	}
	return nil, nil
}

// ResolveInvocation resolves inv for a field of type declared.
func ResolveInvocation(declared *typeexpr.Expr, inv *ast.Invocation, element bool) (*typeexpr.Expr, error) {
	return Resolve(declared, inv.Mode, inv.Template, element)
}

// ValueType returns the type of the value handed to inv's Validate method:
// the slot's type with one optional level removed, unless inv asks for the
// full type.
func ValueType(declared *typeexpr.Expr, inv *ast.Invocation, element bool) (*typeexpr.Expr, error) {
	s := ShapeOf(declared)
	if element && !s.Collection {
		return nil, ErrNotCollection
	}
	switch {
	case element && inv.WantsFullType():
		return s.Element, nil
	case element:
		return s.ElementUnwrapped, nil
	case inv.WantsFullType():
		return s.Declared, nil
	default:
		return s.Unwrapped, nil
	}
}
