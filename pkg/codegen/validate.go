package codegen

import "strings"

func (g *Generator) emitValidate(p *printer, rm *recordModel) {
	rec := rm.rec
	p.Pf("// ValidationErrors runs every validator of %s and returns the collected", rec.Name)
	p.P("// failures. The result is never nil; IsEmpty reports whether r is valid.")
	p.Pf("func (r *%s) ValidationErrors() *%s {", rec.Name, rm.errType)
	p.Pf("e := &%s{}", rm.errType)
	for _, m := range rm.fields {
		g.emitFieldChecks(p, rm, m)
	}
	p.P("return e")
	p.P("}")
	p.P()

	p.Pf("// Validate runs every validator of %s. It returns nil when r is valid and", rec.Name)
	p.Pf("// a *%s otherwise.", rm.errType)
	p.Pf("func (r *%s) Validate() error {", rec.Name)
	p.P("if e := r.ValidationErrors(); e.HasErrors() {")
	p.P("return e")
	p.P("}")
	p.P("return nil")
	p.P("}")
	p.P()
}

func (g *Generator) emitFieldChecks(p *printer, rm *recordModel, m *fieldModel) {
	src := "r." + m.f.Name
	target := rm.memberExpr(m)
	optional := m.shape.Optional

	if m.delegate != "" {
		if optional {
			p.Pf("if %s != nil {", src)
		}
		if m.nested() {
			p.Pf("if ne := %s.ValidationErrors(); ne.HasErrors() {", src)
			p.Pf("%s = ne", target)
			p.P("}")
		} else {
			p.Pf("%s = *%s.ValidationErrors()", target, src)
		}
		if optional {
			p.P("}")
		}
		return
	}

	unwrapped, full := partition(m.slots)
	if len(unwrapped) > 0 {
		if optional {
			p.Pf("if %s != nil {", src)
			p.Pf("value := *%s", src)
			g.emitSlots(p, rm, unwrapped, "value", target)
			p.P("}")
		} else {
			g.emitSlots(p, rm, unwrapped, src, target)
		}
	}
	g.emitSlots(p, rm, full, src, target)

	if len(m.elements) > 0 {
		g.emitElementChecks(p, rm, m, src, target)
	}
}

func (g *Generator) emitElementChecks(p *printer, rm *recordModel, m *fieldModel, src, target string) {
	coll := src
	if m.shape.Optional {
		p.Pf("if %s != nil {", src)
		coll = "*" + src
	}
	p.Pf("for i, item := range %s {", coll)
	p.Pf("var el %s", m.elemType)
	unwrapped, full := partition(m.elements)
	if len(unwrapped) > 0 {
		if m.shape.ElementOptional {
			p.P("if item != nil {")
			p.P("value := *item")
			g.emitSlots(p, rm, unwrapped, "value", "el")
			p.P("}")
		} else {
			g.emitSlots(p, rm, unwrapped, "item", "el")
		}
	}
	g.emitSlots(p, rm, full, "item", "el")
	p.P("if el.HasErrors() {")
	p.Pf("%s.Elements = append(%s.Elements, %s{Index: i, Err: el})", target, target, m.elemAtType)
	p.P("}")
	p.P("}")
	if m.shape.Optional {
		p.P("}")
	}
}

// emitSlots runs each validator on value and stores the failing ones in
// target.
func (g *Generator) emitSlots(p *printer, rm *recordModel, slots []slot, value, target string) {
	for _, s := range slots {
		p.Pf("if v := (%s); !v.Validate(%s) {", g.literal(p, rm, s, value), value)
		p.Pf("%s.%s = &v", target, s.name)
		p.P("}")
	}
}

// literal renders the validator construction: the declared arguments, then
// the value field unless an argument already sets it.
func (g *Generator) literal(p *printer, rm *recordModel, s slot, value string) string {
	parts := make([]string, 0, len(s.inv.Args)+1)
	hasValue := false
	for _, a := range s.inv.Args {
		if a.Name == g.opts.ValueField {
			hasValue = true
		}
		parts = append(parts, a.Name+": "+rm.argExpr(p, a.Expr))
	}
	if g.opts.ValueField != "" && !hasValue {
		parts = append(parts, g.opts.ValueField+": "+value)
	}
	return p.validatorType(s) + "{" + strings.Join(parts, ", ") + "}"
}
