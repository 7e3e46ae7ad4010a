package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
	"sort"

	"ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/model"
)

// Header is the first line of every generated file.
const Header = "// Code generated by vgen. DO NOT EDIT."

// Options controls the names the generator emits.
type Options struct {
	// ValueField is the validator field receiving the value under
	// validation. Empty disables the injection.
	ValueField string
	// ErrorSuffix is appended to record and field names to form error type
	// names.
	ErrorSuffix string
	// ConstructorPrefix names try_new constructors.
	ConstructorPrefix string
	// RuntimeImport is the import path of the runtime support package.
	RuntimeImport string
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		ValueField:        "Value",
		ErrorSuffix:       "ValidationError",
		ConstructorPrefix: "New",
		RuntimeImport:     "ruleforge/vgen/pkg/vgen",
	}
}

// Generator emits validation code for records.
type Generator struct {
	opts Options
}

// New creates a generator. Empty options fall back to their defaults, except
// ValueField, which may be empty on purpose.
func New(opts Options) *Generator {
	def := DefaultOptions()
	if opts.ErrorSuffix == "" {
		opts.ErrorSuffix = def.ErrorSuffix
	}
	if opts.ConstructorPrefix == "" {
		opts.ConstructorPrefix = def.ConstructorPrefix
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = def.RuntimeImport
	}
	return &Generator{opts: opts}
}

// Options returns the generator's effective options.
func (g *Generator) Options() Options {
	return g.opts
}

// GeneratedModule is the output for one record.
type GeneratedModule struct {
	Record string
	// Source holds the declarations, unformatted and without package clause
	// or imports.
	Source []byte
	// Qualifiers must resolve to imports of the enclosing file.
	Qualifiers []string
	// OptionalQualifiers come from argument expressions and are imported
	// only when the file imports them.
	OptionalQualifiers []string

	decls []decl
}

// Generate emits the error types and methods of one record.
func (g *Generator) Generate(rec *model.Record) (*GeneratedModule, error) {
	rm, err := g.buildRecord(rec)
	if err != nil {
		return nil, err
	}

	p := newPrinter()
	for _, m := range rm.fields {
		g.emitFieldTypes(p, rm, m)
	}
	g.emitAggregate(p, rm)
	g.emitValidate(p, rm)
	if rec.Annotation.TryNew {
		g.emitConstructor(p, rm)
	}

	for q := range p.required {
		delete(p.optional, q)
	}
	return &GeneratedModule{
		Record:             rec.Name,
		Source:             p.buf.Bytes(),
		Qualifiers:         sortedKeys(p.required),
		OptionalQualifiers: sortedKeys(p.optional),
		decls:              g.decls(rm),
	}, nil
}

// GenerateFile emits the complete generated file for f. Every record is
// attempted; the returned error lists all failures and no output is produced
// when there is any.
func (g *Generator) GenerateFile(f *model.File) ([]byte, error) {
	errs := vgenerrors.NewErrorList()
	var decls bytes.Buffer
	required := make(map[string]bool)
	optional := make(map[string]bool)

	// Generated names share the package with the records themselves.
	seen := make(map[string]string, len(f.Records))
	for _, rec := range f.Records {
		seen[rec.Name] = "the type `" + rec.Name + "`"
	}

	for _, rec := range f.Records {
		mod, err := g.Generate(rec)
		if err != nil {
			errs.AddErr(err)
			continue
		}
		if err := checkDecls(rec.Name, mod.decls, seen); err != nil {
			errs.AddErr(err)
			continue
		}
		decls.Write(mod.Source)
		for _, q := range mod.Qualifiers {
			required[q] = true
		}
		for _, q := range mod.OptionalQualifiers {
			optional[q] = true
		}
	}
	if errs.HasErrors() {
		return nil, errs.ToError()
	}

	// import path -> qualifier
	imports := map[string]string{g.opts.RuntimeImport: "vgen"}
	for _, q := range sortedKeys(required) {
		path, ok := f.Imports[q]
		if !ok {
			errs.Add(vgenerrors.NewStructuralError(ast.Location{File: f.Path},
				"unknown package qualifier `%s`: %s does not import it", q, filepath.Base(f.Path)))
			continue
		}
		imports[path] = q
	}
	if errs.HasErrors() {
		return nil, errs.ToError()
	}
	for _, q := range sortedKeys(optional) {
		if path, ok := f.Imports[q]; ok && !required[q] {
			imports[path] = q
		}
	}

	var out bytes.Buffer
	fmt.Fprintln(&out, Header)
	if f.Path != "" {
		fmt.Fprintf(&out, "// source: %s\n", filepath.Base(f.Path))
	}
	fmt.Fprintf(&out, "\npackage %s\n\n", f.Package)
	writeImports(&out, imports)
	out.Write(decls.Bytes())

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, vgenerrors.NewStructuralError(ast.Location{File: f.Path},
			"generated code for %s does not parse: %v", filepath.Base(f.Path), err)
	}
	return src, nil
}

func writeImports(out *bytes.Buffer, imports map[string]string) {
	paths := make([]string, 0, len(imports))
	for p := range imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Fprintln(out, "import (")
	for _, p := range paths {
		if q := imports[p]; q != AssumedName(p) {
			fmt.Fprintf(out, "\t%s %q\n", q, p)
		} else {
			fmt.Fprintf(out, "\t%q\n", p)
		}
	}
	fmt.Fprintln(out, ")")
	fmt.Fprintln(out)
}
