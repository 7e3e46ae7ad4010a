package codegen

import (
	"strings"
)

// validatorType renders the instantiated validator type of s.
func (p *printer) validatorType(s slot) string {
	p.qual(s.inv.Qualifier())
	ref := s.inv.Ref()
	if s.typeArg == nil {
		return ref
	}
	return ref + "[" + p.typ(s.typeArg) + "]"
}

func (g *Generator) emitFieldTypes(p *printer, rm *recordModel, m *fieldModel) {
	if m.delegate != "" {
		return
	}
	owner := rm.rec.Name + "." + m.f.Name
	g.emitSlotError(p, owner, m.errType, m.failureType, m.slots, m.elemAtType)
	g.emitFailureEnum(p, owner, m.kindType, m.failureType, m.slots)
	if m.elemType == "" {
		return
	}

	elemOwner := "the elements of " + owner
	g.emitSlotError(p, elemOwner, m.elemType, m.elemFailureType, m.elements, "")
	g.emitFailureEnum(p, elemOwner, m.elemKindType, m.elemFailureType, m.elements)

	p.Pf("// %s pairs an element index of %s with its failures.", m.elemAtType, owner)
	p.Pf("type %s struct {", m.elemAtType)
	p.P("Index int")
	p.Pf("Err   %s", m.elemType)
	p.P("}")
	p.P()
}

// emitSlotError emits the struct holding one failed validator per slot and,
// when elemAt is set, the failing elements.
func (g *Generator) emitSlotError(p *printer, owner, typeName, failureType string, slots []slot, elemAt string) {
	p.Pf("// %s holds the failed validators of %s.", typeName, owner)
	p.Pf("type %s struct {", typeName)
	for _, s := range slots {
		p.Pf("%s *%s", s.name, p.validatorType(s))
	}
	if elemAt != "" {
		p.P("// Elements lists the elements with at least one failure, in index order.")
		p.Pf("Elements []%s", elemAt)
	}
	p.P("}")
	p.P()

	p.P("// All returns the failed validators in declaration order.")
	p.Pf("func (e *%s) All() []%s {", typeName, failureType)
	if len(slots) == 0 {
		p.P("return nil")
	} else {
		p.Pf("var all []%s", failureType)
		for _, s := range slots {
			p.Pf("if e.%s != nil {", s.name)
			p.Pf("all = append(all, %s{Kind: %s, Validator: e.%s})", failureType, s.kind, s.name)
			p.P("}")
		}
		p.P("return all")
	}
	p.P("}")
	p.P()

	conds := make([]string, 0, len(slots)+1)
	for _, s := range slots {
		conds = append(conds, "e."+s.name+" == nil")
	}
	if elemAt != "" {
		conds = append(conds, "len(e.Elements) == 0")
	}
	p.P("// IsEmpty reports whether no validator failed.")
	p.Pf("func (e *%s) IsEmpty() bool {", typeName)
	p.Pf("return %s", strings.Join(conds, " && "))
	p.P("}")
	p.P()

	p.P("// HasErrors reports whether at least one validator failed.")
	p.Pf("func (e *%s) HasErrors() bool {", typeName)
	p.P("return !e.IsEmpty()")
	p.P("}")
	p.P()

	p.Pf("func (e *%s) Error() string {", typeName)
	if elemAt == "" {
		p.P("return vgen.Describe(e.All())")
	} else {
		p.P("var r vgen.Report")
		p.P(`r.Add("", vgen.Describe(e.All()))`)
		p.P("for _, el := range e.Elements {")
		p.P("r.Add(vgen.Index(el.Index), el.Err.Error())")
		p.P("}")
		p.P("return r.String()")
	}
	p.P("}")
	p.P()
}

func (g *Generator) emitFailureEnum(p *printer, owner, kindType, failureType string, slots []slot) {
	p.Pf("// %s identifies a validator of %s.", kindType, owner)
	p.Pf("type %s int", kindType)
	p.P()
	if len(slots) > 0 {
		p.P("const (")
		for i, s := range slots {
			if i == 0 {
				p.Pf("%s %s = iota + 1", s.kind, kindType)
			} else {
				p.P(s.kind)
			}
		}
		p.P(")")
		p.P()
	}

	p.P("// String returns the validator name.")
	p.Pf("func (k %s) String() string {", kindType)
	if len(slots) > 0 {
		p.P("switch k {")
		for _, s := range slots {
			p.Pf("case %s:", s.kind)
			p.Pf("return %q", s.name)
		}
		p.P("}")
	}
	p.P(`return "unknown"`)
	p.P("}")
	p.P()

	p.Pf("// %s is one failed validator of %s.", failureType, owner)
	p.Pf("type %s struct {", failureType)
	p.Pf("Kind      %s", kindType)
	p.P("Validator any")
	p.P("}")
	p.P()

	p.P("// String returns the validator name, followed by its message when it has one.")
	p.Pf("func (f %s) String() string {", failureType)
	p.P("return vgen.Label(f.Kind.String(), f.Validator)")
	p.P("}")
	p.P()
}

// emitAggregate emits the record's error type.
func (g *Generator) emitAggregate(p *printer, rm *recordModel) {
	rec := rm.rec
	for _, m := range rm.fields {
		if m.delegate != "" {
			t := m.shape.Unwrapped
			p.qual(t.Qualifier())
		}
	}

	p.Pf("// %s collects the failures of every validated field of %s.", rm.errType, rec.Name)
	p.P("// The zero value holds no failures.")
	p.Pf("type %s struct {", rm.errType)
	if rm.newtype {
		p.P(rm.fields[0].memberType())
	} else {
		for _, m := range rm.fields {
			p.Pf("%s %s", m.member, m.memberType())
		}
	}
	p.P("}")
	p.P()
	p.Pf("var _ vgen.Errors = (*%s)(nil)", rm.errType)
	p.P()

	conds := make([]string, 0, len(rm.fields))
	for _, m := range rm.fields {
		x := rm.memberExpr(m)
		if m.nested() {
			conds = append(conds, "("+x+" == nil || "+x+".IsEmpty())")
		} else {
			conds = append(conds, x+".IsEmpty()")
		}
	}
	if len(conds) == 0 {
		conds = append(conds, "true")
	}
	p.P("// IsEmpty reports whether no field failed validation.")
	p.Pf("func (e *%s) IsEmpty() bool {", rm.errType)
	p.Pf("return %s", strings.Join(conds, " &&\n"))
	p.P("}")
	p.P()

	p.P("// HasErrors reports whether at least one field failed validation.")
	p.Pf("func (e *%s) HasErrors() bool {", rm.errType)
	p.P("return !e.IsEmpty()")
	p.P("}")
	p.P()

	p.Pf("func (e *%s) Error() string {", rm.errType)
	p.P("var r vgen.Report")
	for _, m := range rm.fields {
		x := rm.memberExpr(m)
		if m.nested() {
			p.Pf("if %s != nil {", x)
			p.Pf("r.Add(%q, %s.Error())", m.f.Name, x)
			p.P("}")
		} else {
			p.Pf("r.Add(%q, %s.Error())", m.f.Name, x)
		}
	}
	p.P("return r.String()")
	p.P("}")
	p.P()
}
