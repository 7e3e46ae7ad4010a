package typeexpr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
)

// Parse parses Go type syntax such as "map[string][]*time.Time". The
// identifier `_` is read as a Placeholder.
func Parse(src string) (*Expr, error) {
	x, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", src, err)
	}
	return FromAST(x), nil
}

// FromAST converts a go/ast type expression.
func FromAST(x ast.Expr) *Expr {
	switch t := x.(type) {
	case *ast.Ident:
		if t.Name == "_" {
			return NewPlaceholder()
		}
		return NewNamed(t.Name)
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return NewNamed(pkg.Name + "." + t.Sel.Name)
		}
	case *ast.ParenExpr:
		return FromAST(t.X)
	case *ast.StarExpr:
		return NewPointer(FromAST(t.X))
	case *ast.ArrayType:
		if t.Len == nil {
			return NewSlice(FromAST(t.Elt))
		}
		if _, ok := t.Len.(*ast.Ellipsis); !ok {
			return NewArray(types.ExprString(t.Len), FromAST(t.Elt))
		}
	case *ast.MapType:
		return NewMap(FromAST(t.Key), FromAST(t.Value))
	case *ast.IndexExpr:
		base := FromAST(t.X)
		if base.Kind == Named && len(base.Args) == 0 {
			base.Args = []*Expr{FromAST(t.Index)}
			return base
		}
	case *ast.IndexListExpr:
		base := FromAST(t.X)
		if base.Kind == Named && len(base.Args) == 0 {
			for _, idx := range t.Indices {
				base.Args = append(base.Args, FromAST(idx))
			}
			return base
		}
	}
	return NewOpaque(types.ExprString(x), qualifiersOf(x)...)
}

// qualifiersOf collects the package identifiers of selector expressions
// found anywhere inside x.
func qualifiersOf(x ast.Expr) []string {
	var quals []string
	seen := make(map[string]bool)
	ast.Inspect(x, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); ok && !seen[pkg.Name] {
			seen[pkg.Name] = true
			quals = append(quals, pkg.Name)
		}
		return true
	})
	return quals
}
