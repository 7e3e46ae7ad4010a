package codegen

import "strings"

// emitConstructor emits the try_new constructor: it takes every field in
// declaration order and returns the record only when it validates.
func (g *Generator) emitConstructor(p *printer, rm *recordModel) {
	rec := rm.rec
	name := g.constructorName(rec.Name)

	used := make(map[string]bool, len(rec.Fields))
	params := make([]string, len(rec.Fields))
	names := make([]string, len(rec.Fields))
	for i, f := range rec.Fields {
		names[i] = paramName(f.Name, used)
		params[i] = names[i] + " " + p.typ(f.Type)
	}

	p.Pf("// %s builds a %s from its fields and validates it. The error is a", name, rec.Name)
	p.Pf("// *%s when validation fails.", rm.errType)
	p.Pf("func %s(%s) (*%s, error) {", name, strings.Join(params, ", "), rec.Name)
	p.Pf("r := &%s{", rec.Name)
	for i, f := range rec.Fields {
		p.Pf("%s: %s,", f.Name, names[i])
	}
	p.P("}")
	p.P("if err := r.Validate(); err != nil {")
	p.P("return nil, err")
	p.P("}")
	p.P("return r, nil")
	p.P("}")
	p.P()
}
