package codegen

import (
	"errors"
	"go/token"
	"strings"

	"ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/infer"
	"ruleforge/vgen/pkg/model"
	"ruleforge/vgen/pkg/typeexpr"
)

// Names of generated members that validators and fields must not shadow.
var (
	reservedSlotNames = map[string]bool{"All": true, "IsEmpty": true, "HasErrors": true, "Error": true, "Elements": true}
	reservedMembers   = map[string]bool{"IsEmpty": true, "HasErrors": true, "Error": true}
	reservedFields    = map[string]bool{"Validate": true, "ValidationErrors": true}
)

// slot is one validator invocation with its resolved type argument.
type slot struct {
	inv     *ast.Invocation
	name    string
	kind    string
	typeArg *typeexpr.Expr
	full    bool
}

// fieldModel is the generation model of one annotated field. It is built
// once per field and dropped after the record is emitted.
type fieldModel struct {
	f      *model.Field
	shape  infer.Shape
	member string

	slots    []slot
	elements []slot

	errType     string
	kindType    string
	failureType string

	elemType        string
	elemKindType    string
	elemFailureType string
	elemAtType      string

	// delegate is the error type of the field's own type for nested and
	// newtype fields, package-qualified when needed.
	delegate string
}

func (m *fieldModel) nested() bool  { return m.f.Annotation.Nested }
func (m *fieldModel) newtype() bool { return m.f.Annotation.Newtype }

// memberType is the type of the field's member in the aggregate error.
func (m *fieldModel) memberType() string {
	switch {
	case m.nested():
		return "*" + m.delegate
	case m.newtype():
		return m.delegate
	}
	return m.errType
}

// recordModel is the generation model of one record.
type recordModel struct {
	rec        *model.Record
	fields     []*fieldModel
	errType    string
	fieldNames map[string]bool

	// newtype records embed their single field's error; embedded is the
	// embedded field name.
	newtype  bool
	embedded string
}

// memberExpr returns the expression reaching m's error inside the aggregate
// held in e.
func (rm *recordModel) memberExpr(m *fieldModel) string {
	if rm.newtype {
		return "e." + rm.embedded
	}
	return "e." + m.member
}

// argExpr rewrites a bare identifier naming a field of the record into a read
// of that field.
func (rm *recordModel) argExpr(p *printer, src string) string {
	if token.IsIdentifier(src) && rm.fieldNames[src] {
		return "r." + src
	}
	return p.expr(src)
}

func (g *Generator) buildRecord(rec *model.Record) (*recordModel, error) {
	switch {
	case !rec.IsStruct:
		return nil, vgenerrors.NewStructuralError(rec.Location,
			"`%s` is not a struct type; only structs with named fields can be validated", rec.Name)
	case rec.Generic:
		return nil, vgenerrors.NewStructuralError(rec.Location,
			"generic struct `%s` is not supported", rec.Name)
	case len(rec.Fields) == 0:
		return nil, vgenerrors.NewStructuralError(rec.Location,
			"struct `%s` has no named fields", rec.Name)
	}
	if rec.Annotation == nil {
		if err := rec.Annotate(); err != nil {
			return nil, err
		}
	}

	rm := &recordModel{
		rec:        rec,
		errType:    rec.Name + g.opts.ErrorSuffix,
		fieldNames: make(map[string]bool, len(rec.Fields)),
		newtype:    rec.Annotation.Newtype,
	}
	for _, f := range rec.Fields {
		if reservedFields[f.Name] {
			return nil, vgenerrors.NewStructuralError(f.Location,
				"field `%s` of `%s` collides with a generated method", f.Name, rec.Name)
		}
		rm.fieldNames[f.Name] = true
	}

	annotated := rec.AnnotatedFields()
	if rm.newtype && len(annotated) != 1 {
		return nil, vgenerrors.NewStructuralError(rec.Location,
			"newtype struct `%s` must have exactly one validated field, found %d", rec.Name, len(annotated))
	}

	for _, f := range annotated {
		m, err := g.buildField(rm, f)
		if err != nil {
			return nil, err
		}
		rm.fields = append(rm.fields, m)
	}

	if rm.newtype {
		t := strings.TrimPrefix(rm.fields[0].memberType(), "*")
		rm.embedded = t[strings.LastIndexByte(t, '.')+1:]
	}
	if err := checkDecls(rec.Name, g.decls(rm), make(map[string]string)); err != nil {
		return nil, err
	}
	return rm, nil
}

func (g *Generator) buildField(rm *recordModel, f *model.Field) (*fieldModel, error) {
	if !rm.newtype && reservedMembers[f.Name] {
		return nil, vgenerrors.NewStructuralError(f.Location,
			"field `%s` collides with a generated method of %s", f.Name, rm.errType)
	}

	m := &fieldModel{f: f, shape: f.Shape(), member: f.Name}

	if f.Annotation.Delegates() {
		t := m.shape.Unwrapped
		if t.Kind != typeexpr.Named || len(t.Args) > 0 {
			mod := ast.ModifierNested
			if f.Annotation.Newtype {
				mod = ast.ModifierNewtype
			}
			return nil, vgenerrors.NewStructuralError(f.Location,
				"`%s` field `%s` must be a named struct type or a pointer to one, found %s", mod, f.Name, f.Type)
		}
		m.delegate = t.BaseName() + g.opts.ErrorSuffix
		if q := t.Qualifier(); q != "" {
			m.delegate = q + "." + m.delegate
		}
		return m, nil
	}

	prefix := rm.rec.Name + exported(f.Name)
	m.errType = prefix + g.opts.ErrorSuffix
	m.kindType = prefix + "FailureKind"
	m.failureType = prefix + "Failure"
	for _, inv := range f.Annotation.Field {
		s, err := g.buildSlot(f, inv, false, prefix)
		if err != nil {
			return nil, err
		}
		m.slots = append(m.slots, s)
	}

	if f.Annotation.HasElements() {
		if !m.shape.Collection {
			return nil, vgenerrors.NewStructuralError(f.Annotation.Element[0].Location,
				"field `%s` uses each(...) but its type %s is not a slice or array", f.Name, f.Type)
		}
		ep := prefix + "Element"
		m.elemType = ep + g.opts.ErrorSuffix
		m.elemKindType = ep + "FailureKind"
		m.elemFailureType = ep + "Failure"
		m.elemAtType = prefix + "ElementAt"
		for _, inv := range f.Annotation.Element {
			s, err := g.buildSlot(f, inv, true, ep)
			if err != nil {
				return nil, err
			}
			m.elements = append(m.elements, s)
		}
	}
	return m, nil
}

func (g *Generator) buildSlot(f *model.Field, inv *ast.Invocation, element bool, prefix string) (slot, error) {
	name := inv.Name()
	if reservedSlotNames[name] {
		return slot{}, vgenerrors.NewStructuralError(inv.Location,
			"validator `%s` on field `%s` collides with a generated member", name, f.Name)
	}
	typeArg, err := infer.ResolveInvocation(f.Type, inv, element)
	if errors.Is(err, infer.ErrNotCollection) {
		return slot{}, vgenerrors.NewStructuralError(inv.Location,
			"field `%s` uses each(...) but its type %s is not a slice or array", f.Name, f.Type)
	}
	if err != nil {
		return slot{}, err
	}
	return slot{
		inv:     inv,
		name:    name,
		kind:    prefix + exported(name) + "Failure",
		typeArg: typeArg,
		full:    inv.WantsFullType(),
	}, nil
}

// partition splits slots into those run on the unwrapped value and those
// that see the full optional value.
func partition(slots []slot) (unwrapped, full []slot) {
	for _, s := range slots {
		if s.full {
			full = append(full, s)
		} else {
			unwrapped = append(unwrapped, s)
		}
	}
	return unwrapped, full
}
