package codegen

import (
	"go/token"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
)

// exported upper-cases the first letter of name.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// lowerFirst lower-cases the first letter of name.
func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// lowerCamel turns a field name into a parameter name: "Name" becomes
// "name", "ID" becomes "id" and "URLPath" becomes "urlPath".
func lowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		// Keep the last capital of an initialism when a word follows it.
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// reservedParams are names a constructor parameter must not take.
var reservedParams = map[string]bool{
	"r": true, "err": true, "nil": true, "true": true, "false": true,
}

// paramName returns a parameter name for field that is not a keyword and
// not already in used.
func paramName(field string, used map[string]bool) string {
	name := lowerCamel(field)
	for token.IsKeyword(name) || reservedParams[name] || used[name] {
		name += "_"
	}
	used[name] = true
	return name
}

// AssumedName guesses the package name of an import path the way goimports
// does: the last element, skipping a major version suffix, without a "go-"
// prefix and cut at the first character that cannot start an identifier.
func AssumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_' && !unicode.IsDigit(r)
	}); i >= 0 {
		base = base[:i]
	}
	return base
}

// decl is a package-level name the generator emits and the field (or
// record, when field is empty) it belongs to.
type decl struct {
	name  string
	field string
	loc   ast.Location
}

func (d decl) owner(record string) string {
	if d.field == "" {
		return "record `" + record + "`"
	}
	return "field `" + record + "." + d.field + "`"
}

// constructorName returns the name of the try_new constructor of rec.
func (g *Generator) constructorName(rec string) string {
	if !token.IsExported(rec) {
		return lowerFirst(g.opts.ConstructorPrefix) + exported(rec)
	}
	return g.opts.ConstructorPrefix + rec
}

// decls lists every package-level name generated for rm, in emission order.
func (g *Generator) decls(rm *recordModel) []decl {
	rec := rm.rec
	var out []decl
	for _, m := range rm.fields {
		if m.delegate != "" {
			continue
		}
		add := func(names ...string) {
			for _, n := range names {
				out = append(out, decl{name: n, field: m.f.Name, loc: m.f.Location})
			}
		}
		add(m.errType, m.kindType, m.failureType)
		for _, s := range m.slots {
			add(s.kind)
		}
		if m.elemType != "" {
			add(m.elemType, m.elemKindType, m.elemFailureType, m.elemAtType)
			for _, s := range m.elements {
				add(s.kind)
			}
		}
	}
	out = append(out, decl{name: rm.errType, loc: rec.Location})
	if rec.Annotation.TryNew {
		out = append(out, decl{name: g.constructorName(rec.Name), loc: rec.Location})
	}
	return out
}

// checkDecls reports the first name in decls already present in seen,
// which maps names to the description of their owner, and records the rest.
func checkDecls(record string, decls []decl, seen map[string]string) error {
	for _, d := range decls {
		owner := d.owner(record)
		if prev, ok := seen[d.name]; ok {
			return vgenerrors.NewStructuralError(d.loc,
				"generated name `%s` for %s is already used by %s; rename one of them",
				d.name, owner, prev)
		}
		seen[d.name] = "the one generated for " + owner
	}
	return nil
}
