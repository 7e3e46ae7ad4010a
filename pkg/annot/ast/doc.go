// Package ast defines the syntax tree produced by the annotation parser.
//
// An annotation occurrence is the text of one `vgen:"..."` struct tag or one
// `//vgen:` directive line. Each occurrence parses into an Annotation: either a
// single Modifier (skip, nested, newtype) or a list of validator Invocations,
// split into field-level and element-level (`each(...)`) slots.
//
// Occurrences on one field are merged into a FieldAnnotation by package
// aggregate. Struct-level options (`try_new`, `newtype`) form a
// StructAnnotation.
//
// # Node Hierarchy
//
//	FieldAnnotation
//	├── Field []*Invocation
//	│   ├── Path      []string          (rules.Len)
//	│   ├── Mode      TypeMode          (::<_>, ::<Set<_>>, ::<int>)
//	│   ├── Template  *typeexpr.Expr
//	│   └── Args      []Argument        (Min = 1)
//	└── Element []*Invocation
//
// Every Invocation records the Location of its occurrence and its byte Offset
// inside the occurrence text so errors can point at it.
package ast
