package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"sort"

	"ruleforge/vgen/pkg/typeexpr"
)

// printer accumulates generated declarations and the package qualifiers they
// reference.
type printer struct {
	buf bytes.Buffer
	// required qualifiers come from types and validator paths and must
	// resolve to an import; optional ones come from argument expressions and
	// may name local variables instead.
	required map[string]bool
	optional map[string]bool
}

func newPrinter() *printer {
	return &printer{required: make(map[string]bool), optional: make(map[string]bool)}
}

// P writes its arguments followed by a newline.
func (p *printer) P(v ...any) {
	for _, x := range v {
		fmt.Fprint(&p.buf, x)
	}
	p.buf.WriteByte('\n')
}

// Pf writes a formatted line.
func (p *printer) Pf(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// typ renders t and records its qualifiers.
func (p *printer) typ(t *typeexpr.Expr) string {
	for _, q := range t.Qualifiers() {
		p.required[q] = true
	}
	return t.String()
}

func (p *printer) qual(q string) {
	if q != "" {
		p.required[q] = true
	}
}

// expr records the selector qualifiers of a Go expression.
func (p *printer) expr(src string) string {
	x, err := parser.ParseExpr(src)
	if err != nil {
		return src
	}
	ast.Inspect(x, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				p.optional[id.Name] = true
			}
		}
		return true
	})
	return src
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
