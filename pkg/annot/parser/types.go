package parser

import (
	"go/token"
	"strings"

	"ruleforge/vgen/pkg/typeexpr"
)

// parseType reads a type parameter template:
//
//	type  := "_" | "*" type | "[" "]" type | "[" len "]" type
//	       | "map" "[" type "]" type | name args?
//	name  := ident (("." | "::") ident)?
//	args  := ("<" | "[") type ("," type)* (">" | "]")
//
// Generic arguments may use either bracket style. `Option<T>` is read as *T.
func (p *parser) parseType() (*typeexpr.Expr, error) {
	it := p.cur()
	switch it.tok {
	case token.IDENT:
		if it.lit == "_" {
			p.next()
			return typeexpr.NewPlaceholder(), nil
		}
		return p.parseNamedType()

	case token.MUL:
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return typeexpr.NewPointer(elem), nil

	case token.LBRACK:
		p.next()
		if p.at(token.RBRACK) {
			p.next()
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return typeexpr.NewSlice(elem), nil
		}
		n := p.cur()
		if n.tok != token.INT && n.tok != token.IDENT {
			return nil, p.errorf(n, "expected array length, found %s", p.describe(n))
		}
		p.next()
		if _, err := p.expect(token.RBRACK, "after array length"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return typeexpr.NewArray(n.lit, elem), nil

	case token.MAP:
		p.next()
		if _, err := p.expect(token.LBRACK, "after `map`"); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACK, "after map key type"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return typeexpr.NewMap(key, elem), nil

	case token.FUNC, token.CHAN, token.INTERFACE, token.STRUCT:
		return nil, p.errorf(it, "unsupported type syntax `%s` in type parameter; declare a named type", it.text())
	}
	return nil, p.errorf(it, "expected type, found %s", p.describe(it))
}

func (p *parser) parseNamedType() (*typeexpr.Expr, error) {
	first := p.next()
	segs := []string{first.lit}
	for {
		if p.at(token.PERIOD) && p.peek(1).tok == token.IDENT {
			p.next()
			segs = append(segs, p.next().lit)
			continue
		}
		if p.at(token.COLON) && p.peek(1).tok == token.COLON && p.peek(2).tok == token.IDENT {
			p.next()
			p.next()
			segs = append(segs, p.next().lit)
			continue
		}
		break
	}
	if len(segs) > 2 {
		return nil, p.errorf(first, "type `%s` has more than one package qualifier", strings.Join(segs, "."))
	}
	named := typeexpr.NewNamed(strings.Join(segs, "."))

	if p.isTurbofish() {
		p.next()
		p.next()
	}
	var closing token.Token
	switch {
	case p.at(token.LSS):
		closing = token.GTR
	case p.at(token.LBRACK):
		closing = token.RBRACK
	default:
		return named, nil
	}
	p.next()
	if p.at(closing) {
		return nil, p.errorf(p.cur(), "empty type argument list for `%s`", named.Name)
	}
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		named.Args = append(named.Args, arg)
		if p.at(token.COMMA) {
			p.next()
			continue
		}
		if _, err := p.expect(closing, "to close type arguments of `"+named.Name+"`"); err != nil {
			return nil, err
		}
		break
	}

	if named.Name == "Option" && len(named.Args) == 1 {
		return typeexpr.NewPointer(named.Args[0]), nil
	}
	return named, nil
}
