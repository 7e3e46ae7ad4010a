package engine

import (
	"fmt"

	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/model"
)

// Warning is a lint finding that does not prevent generation.
type Warning struct {
	Location ast.Location `json:"location"`
	Message  string       `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Location, w.Message)
}

// lint checks every invocation that refers to a package known to the
// catalog. Invocations of other packages are not checked.
func (e *Engine) lint(f *model.File) []Warning {
	if e.catalog == nil {
		return nil
	}

	known := make(map[string]bool)
	for _, entry := range e.catalog.Entries() {
		known[entry.Path] = true
	}

	var out []Warning
	for _, rec := range f.Records {
		for _, fld := range rec.Fields {
			if fld.Annotation == nil {
				continue
			}
			for i, inv := range append(append([]*ast.Invocation(nil), fld.Annotation.Field...), fld.Annotation.Element...) {
				path, ok := f.Imports[inv.Qualifier()]
				if !ok || !known[path] {
					continue
				}
				if msg := e.checkInvocation(path, inv, i < len(fld.Annotation.Field)); msg != "" {
					out = append(out, Warning{Location: inv.Location, Message: msg})
				}
			}
		}
	}
	return out
}

func (e *Engine) checkInvocation(path string, inv *ast.Invocation, fieldSlot bool) string {
	entry, ok := e.catalog.Lookup(inv.Name())
	if !ok || entry.Path != path {
		msg := fmt.Sprintf("unknown validator `%s` in %s", inv.Ref(), path)
		if hint := e.catalog.Suggest(inv.Name()); hint != "" {
			msg += ". " + hint
		}
		return msg
	}
	if entry.Generic && inv.Mode == ast.TypeModeNone {
		return fmt.Sprintf("validator `%s` is generic; write `%s::<_>` to infer its type", inv.Ref(), inv.Ref())
	}
	if !entry.Generic && inv.Mode != ast.TypeModeNone {
		return fmt.Sprintf("validator `%s` is not generic but has a type argument", inv.Ref())
	}
	if entry.Element && fieldSlot && inv.Mode == ast.TypeModeInferFull {
		return fmt.Sprintf("validator `%s` takes the element type; write `%s::<Elem>` instead of `::<_>`", inv.Ref(), inv.Ref())
	}
	return ""
}
