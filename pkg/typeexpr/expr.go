package typeexpr

import (
	"strings"
)

// Kind identifies the shape of an Expr.
type Kind int

const (
	Named Kind = iota
	Placeholder
	Pointer
	Slice
	Array
	Map
	Opaque
)

var kindNames = [...]string{
	Named:       "named",
	Placeholder: "placeholder",
	Pointer:     "pointer",
	Slice:       "slice",
	Array:       "array",
	Map:         "map",
	Opaque:      "opaque",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Expr is a node of a type expression tree.
type Expr struct {
	Kind Kind

	// Name is the identifier of a Named type, including its package
	// qualifier ("time.Time").
	Name string
	// Args are the generic arguments of a Named type.
	Args []*Expr

	// Elem is the pointee, element or map value type.
	Elem *Expr
	// Key is the key type of a Map.
	Key *Expr
	// Len is the length expression of an Array.
	Len string

	// Raw is the source text of an Opaque type.
	Raw string
	// Quals are the package qualifiers referenced inside an Opaque type.
	Quals []string
}

// NewNamed returns a named type with optional generic arguments.
func NewNamed(name string, args ...*Expr) *Expr {
	return &Expr{Kind: Named, Name: name, Args: args}
}

// NewPlaceholder returns the inference placeholder `_`.
func NewPlaceholder() *Expr {
	return &Expr{Kind: Placeholder}
}

// NewPointer returns *elem.
func NewPointer(elem *Expr) *Expr {
	return &Expr{Kind: Pointer, Elem: elem}
}

// NewSlice returns []elem.
func NewSlice(elem *Expr) *Expr {
	return &Expr{Kind: Slice, Elem: elem}
}

// NewArray returns [n]elem.
func NewArray(n string, elem *Expr) *Expr {
	return &Expr{Kind: Array, Len: n, Elem: elem}
}

// NewMap returns map[key]elem.
func NewMap(key, elem *Expr) *Expr {
	return &Expr{Kind: Map, Key: key, Elem: elem}
}

// NewOpaque returns a type kept verbatim as source text.
func NewOpaque(raw string, quals ...string) *Expr {
	return &Expr{Kind: Opaque, Raw: raw, Quals: quals}
}

// String renders the expression as Go source.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	if e == nil {
		return
	}
	switch e.Kind {
	case Named:
		sb.WriteString(e.Name)
		if len(e.Args) > 0 {
			sb.WriteByte('[')
			for i, arg := range e.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				arg.write(sb)
			}
			sb.WriteByte(']')
		}
	case Placeholder:
		sb.WriteByte('_')
	case Pointer:
		sb.WriteByte('*')
		e.Elem.write(sb)
	case Slice:
		sb.WriteString("[]")
		e.Elem.write(sb)
	case Array:
		sb.WriteByte('[')
		sb.WriteString(e.Len)
		sb.WriteByte(']')
		e.Elem.write(sb)
	case Map:
		sb.WriteString("map[")
		e.Key.write(sb)
		sb.WriteByte(']')
		e.Elem.write(sb)
	case Opaque:
		sb.WriteString(e.Raw)
	}
}

// IsOptional reports whether the type is a pointer.
func (e *Expr) IsOptional() bool {
	return e != nil && e.Kind == Pointer
}

// IsCollection reports whether the type is a slice or an array.
func (e *Expr) IsCollection() bool {
	return e != nil && (e.Kind == Slice || e.Kind == Array)
}

// IsPlaceholder reports whether the node is the `_` token.
func (e *Expr) IsPlaceholder() bool {
	return e != nil && e.Kind == Placeholder
}

// IsFullOptional reports whether the expression is exactly `*_`, the template
// that asks for a field's type without optional unwrapping.
func (e *Expr) IsFullOptional() bool {
	return e.IsOptional() && e.Elem.IsPlaceholder()
}

// Qualifier returns the package qualifier of a Named type, or "".
func (e *Expr) Qualifier() string {
	if e == nil || e.Kind != Named {
		return ""
	}
	if i := strings.LastIndexByte(e.Name, '.'); i >= 0 {
		return e.Name[:i]
	}
	return ""
}

// BaseName returns the unqualified identifier of a Named type.
func (e *Expr) BaseName() string {
	if e == nil || e.Kind != Named {
		return ""
	}
	return e.Name[strings.LastIndexByte(e.Name, '.')+1:]
}

// FirstArg returns the first type argument of e: the element of a pointer,
// slice or array, the key of a map, or the first generic argument of a
// named type. It returns nil when e has none.
func (e *Expr) FirstArg() *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case Pointer, Slice, Array:
		return e.Elem
	case Map:
		return e.Key
	case Named:
		if len(e.Args) > 0 {
			return e.Args[0]
		}
	}
	return nil
}

// ContainsPlaceholder reports whether any leaf of e is `_`.
func (e *Expr) ContainsPlaceholder() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case Placeholder:
		return true
	case Named:
		for _, arg := range e.Args {
			if arg.ContainsPlaceholder() {
				return true
			}
		}
		return false
	case Map:
		return e.Key.ContainsPlaceholder() || e.Elem.ContainsPlaceholder()
	case Pointer, Slice, Array:
		return e.Elem.ContainsPlaceholder()
	}
	return false
}

// Substitute returns a copy of e with every Placeholder leaf replaced by with.
// Subtrees without placeholders are shared, not copied.
func (e *Expr) Substitute(with *Expr) *Expr {
	if !e.ContainsPlaceholder() {
		return e
	}
	switch e.Kind {
	case Placeholder:
		return with
	case Named:
		args := make([]*Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = arg.Substitute(with)
		}
		return &Expr{Kind: Named, Name: e.Name, Args: args}
	case Map:
		return &Expr{Kind: Map, Key: e.Key.Substitute(with), Elem: e.Elem.Substitute(with)}
	default:
		return &Expr{Kind: e.Kind, Len: e.Len, Elem: e.Elem.Substitute(with)}
	}
}

// Qualifiers returns the package qualifiers referenced by e, in order of
// first appearance.
func (e *Expr) Qualifiers() []string {
	var quals []string
	seen := make(map[string]bool)
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}
		add := func(q string) {
			if q != "" && !seen[q] {
				seen[q] = true
				quals = append(quals, q)
			}
		}
		switch n.Kind {
		case Named:
			add(n.Qualifier())
			for _, arg := range n.Args {
				walk(arg)
			}
		case Opaque:
			for _, q := range n.Quals {
				add(q)
			}
		case Map:
			walk(n.Key)
			walk(n.Elem)
		default:
			walk(n.Elem)
		}
	}
	walk(e)
	return quals
}
