// Package gosource reads validation records from Go source files.
//
// A struct type opts in with a directive in its doc comment:
//
//	//vgen:validate try_new
//	type User struct {
//		Name string `vgen:"rules.Len::<_>(Min = 1)"`
//		//vgen:each(rules.Len::<_>(Max = 20))
//		Tags []string
//	}
//
// Field annotations come from the struct tag and from directive lines in the
// field's doc or line comment. Each tag value and each directive line is one
// occurrence; the tag comes first.
package gosource

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"strconv"
	"strings"

	annotast "ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/codegen"
	"ruleforge/vgen/pkg/model"
	"ruleforge/vgen/pkg/typeexpr"
)

// ValidateKeyword is the directive word marking a record.
const ValidateKeyword = "validate"

// Options configures how annotations are recognised.
type Options struct {
	// Tag is the struct tag key holding annotations.
	Tag string
	// Directive is the comment prefix following "//", such as "vgen:".
	Directive string
}

// DefaultOptions returns the tag and directive used by default.
func DefaultOptions() Options {
	return Options{Tag: "vgen", Directive: "vgen:"}
}

// Reader extracts records from Go files.
type Reader struct {
	opts Options
}

// New creates a reader.
func New(opts Options) *Reader {
	def := DefaultOptions()
	if opts.Tag == "" {
		opts.Tag = def.Tag
	}
	if opts.Directive == "" {
		opts.Directive = def.Directive
	}
	return &Reader{opts: opts}
}

// HasRecords reports whether src may declare records, without parsing it.
func (r *Reader) HasRecords(src []byte) bool {
	return bytes.Contains(src, []byte("//"+r.opts.Directive+ValidateKeyword))
}

// ReadFile reads and parses the file at path.
func (r *Reader) ReadFile(path string) (*model.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, vgenerrors.NewIOError(path, err)
	}
	return r.Parse(path, src)
}

// Parse extracts the records of one Go file. Files without records yield a
// File with no records.
func (r *Reader) Parse(path string, src []byte) (*model.File, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, vgenerrors.NewIOError(path, err)
	}

	f := &model.File{
		Path:    path,
		Package: af.Name.Name,
		Imports: importTable(af),
	}

	for _, decl := range af.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			options, pos, ok := r.optIn(doc)
			if !ok {
				continue
			}
			f.Records = append(f.Records, r.record(fset, ts, options, pos))
		}
	}
	return f, nil
}

// optIn finds the validate directive in doc and returns the option text
// following it.
func (r *Reader) optIn(doc *ast.CommentGroup) (string, token.Pos, bool) {
	if doc == nil {
		return "", token.NoPos, false
	}
	for _, c := range doc.List {
		text, ok := r.directive(c)
		if !ok {
			continue
		}
		rest, found := strings.CutPrefix(text, ValidateKeyword)
		if !found || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		offset := len("//"+r.opts.Directive+ValidateKeyword) + (len(rest) - len(strings.TrimLeft(rest, " \t")))
		return strings.TrimSpace(rest), c.Slash + token.Pos(offset), true
	}
	return "", token.NoPos, false
}

// directive returns the text after the directive prefix of c.
func (r *Reader) directive(c *ast.Comment) (string, bool) {
	text, ok := strings.CutPrefix(c.Text, "//"+r.opts.Directive)
	if !ok {
		return "", false
	}
	return strings.TrimRight(text, " \t"), true
}

func (r *Reader) record(fset *token.FileSet, ts *ast.TypeSpec, options string, optPos token.Pos) *model.Record {
	rec := &model.Record{
		Name:     ts.Name.Name,
		Location: location(fset, ts.Name.Pos()),
		Generic:  ts.TypeParams != nil && len(ts.TypeParams.List) > 0,
	}
	if options != "" {
		rec.Options = []annotast.Occurrence{{Text: options, Location: location(fset, optPos)}}
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		return rec
	}
	rec.IsStruct = true

	for _, af := range st.Fields.List {
		typ := typeexpr.FromAST(af.Type)
		occs := r.occurrences(fset, af)
		if len(af.Names) == 0 {
			rec.Fields = append(rec.Fields, &model.Field{
				Name:        embeddedName(typ),
				Type:        typ,
				Embedded:    true,
				Occurrences: occs,
				Location:    location(fset, af.Type.Pos()),
			})
			continue
		}
		for _, name := range af.Names {
			rec.Fields = append(rec.Fields, &model.Field{
				Name:        name.Name,
				Type:        typ,
				Occurrences: occs,
				Location:    location(fset, name.Pos()),
			})
		}
	}
	return rec
}

// occurrences collects the tag value, then directive lines from the doc and
// line comments.
func (r *Reader) occurrences(fset *token.FileSet, af *ast.Field) []annotast.Occurrence {
	var occs []annotast.Occurrence
	if af.Tag != nil {
		if raw, err := strconv.Unquote(af.Tag.Value); err == nil {
			if v, ok := reflect.StructTag(raw).Lookup(r.opts.Tag); ok {
				pos := af.Tag.Pos() + 1
				if i := strings.Index(raw, r.opts.Tag+`:"`); i >= 0 {
					pos += token.Pos(i + len(r.opts.Tag) + 2)
				}
				occs = append(occs, annotast.Occurrence{Text: v, Location: location(fset, pos)})
			}
		}
	}
	for _, cg := range []*ast.CommentGroup{af.Doc, af.Comment} {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if text, ok := r.directive(c); ok {
				pos := c.Slash + token.Pos(len("//"+r.opts.Directive))
				occs = append(occs, annotast.Occurrence{Text: text, Location: location(fset, pos)})
			}
		}
	}
	return occs
}

// importTable maps each qualifier usable in the file to its import path.
func importTable(af *ast.File) map[string]string {
	imports := make(map[string]string, len(af.Imports))
	for _, spec := range af.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := codegen.AssumedName(path)
		if spec.Name != nil {
			switch spec.Name.Name {
			case ".":
				continue
			case "_":
				// A blank import names a validator package used only by
				// annotations.
				if _, ok := imports[name]; !ok {
					imports[name] = path
				}
				continue
			}
			name = spec.Name.Name
		}
		imports[name] = path
	}
	return imports
}

func embeddedName(t *typeexpr.Expr) string {
	if t.IsOptional() {
		t = t.Elem
	}
	return t.BaseName()
}

func location(fset *token.FileSet, pos token.Pos) annotast.Location {
	p := fset.Position(pos)
	return annotast.Location{File: p.Filename, Line: p.Line, Column: p.Column}
}
