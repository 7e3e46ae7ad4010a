// Package model defines the record descriptors handed from a front end to the
// generator.
//
// A front end (Go source, YAML) produces one File per input, holding the
// records in declaration order. Records and fields carry their raw annotation
// occurrences; Annotate runs the aggregator over them.
package model

import (
	"sort"

	"ruleforge/vgen/pkg/annot/aggregate"
	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/infer"
	"ruleforge/vgen/pkg/typeexpr"
)

// File is one input file.
type File struct {
	Path    string
	Package string
	// Imports maps a package qualifier to its import path.
	Imports map[string]string
	Records []*Record
}

// Record describes one opted-in type.
type Record struct {
	Name string
	// IsStruct is false when the opt-in directive was written on a non-struct
	// type.
	IsStruct bool
	// Generic is true for types with type parameters.
	Generic  bool
	Fields   []*Field
	Options  []ast.Occurrence
	Location ast.Location

	// Annotation is set by Annotate.
	Annotation *ast.StructAnnotation
}

// Field describes one struct field.
type Field struct {
	Name     string
	Type     *typeexpr.Expr
	Embedded bool
	// Occurrences are the raw annotations in source order.
	Occurrences []ast.Occurrence
	Location    ast.Location

	// Annotation is set by Annotate.
	Annotation *ast.FieldAnnotation
}

// Shape decomposes the field's declared type.
func (f *Field) Shape() infer.Shape {
	return infer.ShapeOf(f.Type)
}

// Annotated reports whether the field takes part in validation.
func (f *Field) Annotated() bool {
	return f.Annotation.IsAnnotated()
}

// Annotate aggregates the record's and its fields' occurrences. It stops at
// the first error.
func (r *Record) Annotate() error {
	sa, err := aggregate.Struct(r.Options)
	if err != nil {
		return err
	}
	r.Annotation = sa

	for _, f := range r.Fields {
		fa, err := aggregate.Field(f.Name, f.Occurrences)
		if err != nil {
			return err
		}
		f.Annotation = fa
	}
	return nil
}

// AnnotatedFields returns the fields that take part in validation, in
// declaration order.
func (r *Record) AnnotatedFields() []*Field {
	var out []*Field
	for _, f := range r.Fields {
		if f.Annotated() {
			out = append(out, f)
		}
	}
	return out
}

// Field returns the field with the given name.
func (r *Record) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Qualifiers returns the sorted import qualifiers referenced by the file's
// records through field types.
func (f *File) Qualifiers() []string {
	seen := make(map[string]bool)
	for _, r := range f.Records {
		for _, fld := range r.Fields {
			for _, q := range fld.Type.Qualifiers() {
				seen[q] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}
