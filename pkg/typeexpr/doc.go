// Package typeexpr models Go type expressions as a small tagged tree.
//
// The tree is shared by the annotation parser (type parameter templates such as
// `Set[_]` or `Option<_>`), the front ends (declared field types) and the
// generator (rendering resolved type arguments back to Go source).
//
// # Kinds
//
//   - Named: an identifier, optionally package-qualified, with generic arguments
//   - Placeholder: the inference token `_`
//   - Pointer, Slice, Array, Map: the Go composite shapes
//   - Opaque: anything else (func, chan, interface and literal struct types),
//     kept as source text
//
// # Substitution
//
// Substitute replaces every Placeholder leaf with another expression,
// recursing through arbitrary nesting:
//
//	tmpl, _ := typeexpr.Parse("map[string][]_")
//	tmpl.Substitute(typeexpr.NewNamed("int")).String() // "map[string][]int"
package typeexpr
