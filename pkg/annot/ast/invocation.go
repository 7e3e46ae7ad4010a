package ast

import (
	"strings"

	"ruleforge/vgen/pkg/typeexpr"
)

// TypeMode describes how a validator's type argument is chosen.
type TypeMode int

const (
	// TypeModeNone means the validator is not generic.
	TypeModeNone TypeMode = iota
	// TypeModeInferFull is `::<_>`: the field's own type, optional-unwrapped.
	TypeModeInferFull
	// TypeModeInferPartial is a template with placeholders, e.g. `::<Set<_>>`.
	TypeModeInferPartial
	// TypeModeExplicit is a written type without placeholders, e.g. `::<int>`.
	TypeModeExplicit
)

// String returns the mode name.
func (m TypeMode) String() string {
	switch m {
	case TypeModeNone:
		return "none"
	case TypeModeInferFull:
		return "infer"
	case TypeModeInferPartial:
		return "template"
	case TypeModeExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Argument is one `name = expr` pair of an invocation. Expr is Go source,
// passed through to the generated code.
type Argument struct {
	Name   string
	Expr   string
	Offset int
}

// Invocation is one validator reference.
type Invocation struct {
	// Path holds the validator name segments: ["rules", "Len"].
	Path []string
	Mode TypeMode
	// Template is the written type parameter for TypeModeInferPartial and
	// TypeModeExplicit.
	Template *typeexpr.Expr
	Args     []Argument

	Offset   int
	Location Location
}

// Name returns the last path segment, the identity used for duplicate
// detection and slot naming.
func (inv *Invocation) Name() string {
	return inv.Path[len(inv.Path)-1]
}

// Qualifier returns the package qualifier, or "" for a local validator.
func (inv *Invocation) Qualifier() string {
	if len(inv.Path) < 2 {
		return ""
	}
	return inv.Path[0]
}

// Ref returns the Go reference of the validator type ("rules.Len").
func (inv *Invocation) Ref() string {
	return strings.Join(inv.Path, ".")
}

// WantsFullType reports whether the invocation uses the `Option<_>` escape
// hatch and must see the field without optional unwrapping.
func (inv *Invocation) WantsFullType() bool {
	return inv.Mode == TypeModeInferPartial && inv.Template.IsFullOptional()
}

// Arg returns the argument with the given name.
func (inv *Invocation) Arg(name string) (Argument, bool) {
	for _, a := range inv.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// String renders the invocation in canonical annotation syntax.
func (inv *Invocation) String() string {
	var sb strings.Builder
	sb.WriteString(inv.Ref())
	switch inv.Mode {
	case TypeModeInferFull:
		sb.WriteString("::<_>")
	case TypeModeInferPartial, TypeModeExplicit:
		sb.WriteString("::<")
		sb.WriteString(inv.Template.String())
		sb.WriteString(">")
	}
	if len(inv.Args) > 0 {
		sb.WriteByte('(')
		for i, a := range inv.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Name)
			sb.WriteString(" = ")
			sb.WriteString(a.Expr)
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// Modifier is an annotation that replaces validators for a field.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierSkip
	ModifierNested
	ModifierNewtype
)

// String returns the modifier keyword.
func (m Modifier) String() string {
	switch m {
	case ModifierSkip:
		return "skip"
	case ModifierNested:
		return "nested"
	case ModifierNewtype:
		return "newtype"
	default:
		return ""
	}
}

// ModifierFor returns the modifier spelled by word.
func ModifierFor(word string) (Modifier, bool) {
	switch word {
	case "skip":
		return ModifierSkip, true
	case "nested":
		return ModifierNested, true
	case "newtype":
		return ModifierNewtype, true
	}
	return ModifierNone, false
}

// Annotation is one parsed occurrence.
type Annotation struct {
	Modifier Modifier
	Field    []*Invocation
	Element  []*Invocation
	Location Location
}

// FieldAnnotation merges every occurrence written on one field.
type FieldAnnotation struct {
	Field   []*Invocation
	Element []*Invocation
	Skip    bool
	Nested  bool
	Newtype bool
}

// IsAnnotated reports whether the field takes part in validation.
func (a *FieldAnnotation) IsAnnotated() bool {
	if a == nil || a.Skip {
		return false
	}
	return a.Nested || a.Newtype || len(a.Field) > 0 || len(a.Element) > 0
}

// Delegates reports whether validation is delegated to the field's own type.
func (a *FieldAnnotation) Delegates() bool {
	return a != nil && !a.Skip && (a.Nested || a.Newtype)
}

// HasElements reports whether element-level validators are declared.
func (a *FieldAnnotation) HasElements() bool {
	return a != nil && len(a.Element) > 0
}

// StructAnnotation holds the record-level options.
type StructAnnotation struct {
	TryNew  bool
	Newtype bool
}

// StructOptions lists the option names accepted on a record.
var StructOptions = []string{"try_new", "newtype"}
