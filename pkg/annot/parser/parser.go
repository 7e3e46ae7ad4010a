package parser

import (
	"fmt"
	goparser "go/parser"
	"go/token"
	"strings"

	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/typeexpr"
)

// ParseAnnotation parses one annotation occurrence:
//
//	annotation     := modifier | invocationList
//	modifier       := "skip" | "nested" | "newtype"
//	invocationList := (invocation | each) ("," (invocation | each))*
//	each           := "each" "(" invocation ("," invocation)* ")"
//	invocation     := path typeParam? argList?
//	typeParam      := "::" "<" ("_" | type) ">"
//	argList        := "(" (ident "=" expr ("," ident "=" expr)*)? ")"
//
// Trailing commas are accepted in lists. A modifier applies only when it is
// the whole occurrence. Errors are *errors.Error values of type
// ErrorTypeSyntax positioned inside src.
func ParseAnnotation(src string, loc ast.Location) (*ast.Annotation, error) {
	p, err := newParser(src, loc)
	if err != nil {
		return nil, err
	}
	return p.parseAnnotation()
}

// ParseStructOptions parses the flat option list written on a record:
// `try_new`, `newtype`, or both separated by commas. An empty list is valid.
func ParseStructOptions(src string, loc ast.Location) (*ast.StructAnnotation, error) {
	p, err := newParser(src, loc)
	if err != nil {
		return nil, err
	}
	return p.parseStructOptions()
}

// ParseType parses a type parameter template such as `Set<_>`, `[]_` or
// `Option<time.Time>`.
func ParseType(src string, loc ast.Location) (*typeexpr.Expr, error) {
	p, err := newParser(src, loc)
	if err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.at(token.EOF) {
		return nil, p.errorf(p.cur(), "unexpected %s after type", p.describe(p.cur()))
	}
	return t, nil
}

type parser struct {
	src   string
	loc   ast.Location
	items []item
	pos   int
}

func newParser(src string, loc ast.Location) (*parser, error) {
	items, lexErr := lex(src)
	if lexErr != nil {
		return nil, errors.NewSyntaxError(loc, src, lexErr.off, lexErr.msg, "")
	}
	return &parser{src: src, loc: loc, items: items}, nil
}

func (p *parser) cur() item {
	return p.items[p.pos]
}

func (p *parser) peek(n int) item {
	if i := p.pos + n; i < len(p.items) {
		return p.items[i]
	}
	return p.items[len(p.items)-1]
}

func (p *parser) next() item {
	it := p.items[p.pos]
	if it.tok != token.EOF {
		p.pos++
	}
	return it
}

func (p *parser) at(tok token.Token) bool {
	return p.cur().tok == tok
}

func (p *parser) atIdent(name string) bool {
	return p.at(token.IDENT) && p.cur().lit == name
}

func (p *parser) expect(tok token.Token, context string) (item, error) {
	it := p.cur()
	if it.tok != tok {
		return it, p.errorf(it, "expected `%s` %s, found %s", tok, context, p.describe(it))
	}
	return p.next(), nil
}

func (p *parser) describe(it item) string {
	if it.tok == token.EOF {
		return "end of annotation"
	}
	return "`" + it.text() + "`"
}

func (p *parser) errorf(at item, format string, args ...any) *errors.Error {
	return errors.NewSyntaxError(p.loc, p.src, at.off, fmt.Sprintf(format, args...), "")
}

func (p *parser) hintf(at item, hint, format string, args ...any) *errors.Error {
	return errors.NewSyntaxError(p.loc, p.src, at.off, fmt.Sprintf(format, args...), hint)
}

// isTurbofish reports whether the cursor is at `::<`.
func (p *parser) isTurbofish() bool {
	return p.at(token.COLON) && p.peek(1).tok == token.COLON && p.peek(2).tok == token.LSS
}

func (p *parser) parseAnnotation() (*ast.Annotation, error) {
	a := &ast.Annotation{Location: p.loc}

	if p.at(token.EOF) {
		return nil, p.errorf(p.cur(), "empty annotation")
	}
	if p.at(token.IDENT) && p.peek(1).tok == token.EOF {
		if m, ok := ast.ModifierFor(p.cur().lit); ok {
			a.Modifier = m
			return a, nil
		}
	}

	for {
		if p.atIdent("each") {
			if err := p.parseEach(a); err != nil {
				return nil, err
			}
		} else {
			inv, err := p.parseInvocation()
			if err != nil {
				return nil, err
			}
			a.Field = append(a.Field, inv)
		}

		if p.at(token.EOF) {
			return a, nil
		}
		if _, err := p.expect(token.COMMA, "between validators"); err != nil {
			return nil, err
		}
		if p.at(token.EOF) {
			return a, nil
		}
	}
}

func (p *parser) parseEach(a *ast.Annotation) error {
	each := p.next()
	if !p.at(token.LPAREN) {
		return p.errorf(p.cur(), "`each` must be followed by a parenthesized validator list")
	}
	p.next()
	if p.at(token.RPAREN) {
		return p.errorf(p.cur(), "`each(...)` requires at least one validator")
	}
	for {
		if p.atIdent("each") {
			return p.errorf(p.cur(), "`each(...)` cannot be nested")
		}
		inv, err := p.parseInvocation()
		if err != nil {
			return err
		}
		a.Element = append(a.Element, inv)

		if p.at(token.RPAREN) {
			p.next()
			return nil
		}
		if _, err := p.expect(token.COMMA, "between element validators"); err != nil {
			return err
		}
		if p.at(token.RPAREN) {
			p.next()
			return nil
		}
		if p.at(token.EOF) {
			return p.errorf(each, "unclosed `each(`")
		}
	}
}

func (p *parser) parseInvocation() (*ast.Invocation, error) {
	start := p.cur()
	inv := &ast.Invocation{Offset: start.off, Location: p.loc}

	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	inv.Path = path

	if len(path) == 1 {
		if m, ok := ast.ModifierFor(path[0]); ok {
			return nil, p.errorf(start, "modifier `%s` must be the only annotation on its occurrence", m)
		}
	}

	switch {
	case p.isTurbofish():
		if err := p.parseTypeParam(inv); err != nil {
			return nil, err
		}
	case p.at(token.LSS):
		return nil, p.hintf(p.cur(), errors.TurbofishHint,
			"expected `::` before type parameters of `%s`", inv.Ref())
	case p.at(token.LBRACK):
		return nil, p.hintf(p.cur(), errors.TurbofishHint,
			"type parameters of `%s` are written `%s::<T>`", inv.Ref(), inv.Ref())
	case p.at(token.COLON):
		return nil, p.errorf(p.cur(), "expected identifier or `<` after `::`")
	}

	if p.at(token.LPAREN) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		inv.Args = args
	}
	return inv, nil
}

// parsePath reads `ident (("." | "::") ident)*`, stopping before `::<`.
func (p *parser) parsePath() ([]string, error) {
	first := p.cur()
	if first.tok != token.IDENT {
		return nil, p.errorf(first, "expected validator name, found %s", p.describe(first))
	}
	p.next()
	path := []string{first.lit}

	for {
		switch {
		case p.at(token.PERIOD) && p.peek(1).tok == token.IDENT:
			p.next()
			path = append(path, p.next().lit)
		case p.at(token.COLON) && p.peek(1).tok == token.COLON && p.peek(2).tok == token.IDENT:
			p.next()
			p.next()
			path = append(path, p.next().lit)
		default:
			if len(path) > 2 {
				return nil, p.errorf(first, "validator path `%s` has more than one package qualifier",
					strings.Join(path, "."))
			}
			return path, nil
		}
	}
}

func (p *parser) parseTypeParam(inv *ast.Invocation) error {
	p.next()
	p.next()
	p.next()

	if p.atIdent("_") && p.peek(1).tok == token.GTR {
		p.next()
		p.next()
		inv.Mode = ast.TypeModeInferFull
		return nil
	}

	if p.at(token.GTR) {
		return p.errorf(p.cur(), "empty type parameter list")
	}
	t, err := p.parseType()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.GTR, "to close type parameters"); err != nil {
		return err
	}

	inv.Template = t
	if t.ContainsPlaceholder() {
		inv.Mode = ast.TypeModeInferPartial
	} else {
		inv.Mode = ast.TypeModeExplicit
	}
	return nil
}

func (p *parser) parseArgs() ([]ast.Argument, error) {
	p.next()
	var args []ast.Argument
	seen := make(map[string]bool)

	for !p.at(token.RPAREN) {
		name := p.cur()
		if name.tok != token.IDENT {
			return nil, p.errorf(name, "expected argument name, found %s", p.describe(name))
		}
		p.next()
		if seen[name.lit] {
			return nil, p.errorf(name, "duplicate argument `%s`", name.lit)
		}
		seen[name.lit] = true

		if _, err := p.expect(token.ASSIGN, "after argument `"+name.lit+"`"); err != nil {
			return nil, err
		}
		expr, off, err := p.parseArgExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Name: name.lit, Expr: expr, Offset: off})

		if p.at(token.COMMA) {
			p.next()
			continue
		}
		if !p.at(token.RPAREN) {
			return nil, p.errorf(p.cur(), "expected `,` or `)` after argument `%s`, found %s",
				name.lit, p.describe(p.cur()))
		}
	}
	p.next()
	return args, nil
}

// parseArgExpr consumes tokens up to the next top-level `,` or `)` and
// checks that the text between is a Go expression.
func (p *parser) parseArgExpr() (string, int, error) {
	start := p.cur()
	depth := 0
loop:
	for {
		switch p.cur().tok {
		case token.EOF:
			return "", 0, p.errorf(p.cur(), "unclosed argument list")
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 {
				break loop
			}
			depth--
		case token.COMMA:
			if depth == 0 {
				break loop
			}
		}
		p.next()
	}

	text := strings.TrimSpace(p.src[start.off:p.cur().off])
	if text == "" {
		return "", 0, p.errorf(start, "missing expression")
	}
	if _, err := goparser.ParseExpr(text); err != nil {
		return "", 0, p.errorf(start, "invalid expression `%s`", text)
	}
	return text, start.off, nil
}

func (p *parser) parseStructOptions() (*ast.StructAnnotation, error) {
	opts := &ast.StructAnnotation{}
	for !p.at(token.EOF) {
		it := p.cur()
		if it.tok != token.IDENT {
			return nil, p.errorf(it, "expected struct-level option, found %s", p.describe(it))
		}
		p.next()
		switch it.lit {
		case "try_new":
			opts.TryNew = true
		case "newtype":
			opts.Newtype = true
		default:
			return nil, errors.NewUnknownOptionError(p.loc, p.src, it.off, it.lit)
		}
		if p.at(token.EOF) {
			break
		}
		if _, err := p.expect(token.COMMA, "between struct-level options"); err != nil {
			return nil, err
		}
	}
	return opts, nil
}
