package infer

import (
	"testing"

	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/annot/parser"
	"ruleforge/vgen/pkg/typeexpr"
)

func mustType(t *testing.T, src string) *typeexpr.Expr {
	t.Helper()
	e, err := typeexpr.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return e
}

func mustInvocation(t *testing.T, src string) *ast.Invocation {
	t.Helper()
	a, err := parser.ParseAnnotation(src, ast.Location{})
	if err != nil {
		t.Fatalf("ParseAnnotation(%q): %v", src, err)
	}
	if len(a.Field) == 1 {
		return a.Field[0]
	}
	return a.Element[0]
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		declared   string
		invocation string
		element    bool
		want       string
	}{
		{"non generic", "string", "V", false, ""},
		{"infer plain", "string", "V::<_>", false, "string"},
		{"infer unwraps optional", "*string", "V::<_>", false, "string"},
		{"infer slice field", "[]string", "V::<_>", false, "[]string"},
		{"infer element", "[]float64", "each(V::<_>)", true, "float64"},
		{"infer optional element", "[]*float64", "each(V::<_>)", true, "float64"},
		{"infer element of optional collection", "*[]int", "each(V::<_>)", true, "int"},
		{"array element", "[3]uint8", "each(V::<_>)", true, "uint8"},
		{"template field", "[]string", "V::<Set<_>>", false, "Set[string]"},
		{"template element", "[]string", "each(V::<Outer<_>>)", true, "Outer[string]"},
		{"template nested", "[]int", "V::<a.Outer<b.Inner<_>>>", false, "a.Outer[b.Inner[int]]"},
		{"template without generic arg", "string", "V::<Wrap<_>>", false, "Wrap[string]"},
		{"template on optional", "*int", "V::<Wrap<_>>", false, "Wrap[int]"},
		{"template map key", "map[string]int", "V::<[]_>", false, "[]string"},
		{"escape hatch", "*string", "V::<Option<_>>", false, "*string"},
		{"escape hatch go syntax", "*string", "V::<*_>", false, "*string"},
		{"escape hatch non optional", "string", "V::<Option<_>>", false, "string"},
		{"escape hatch element", "[]*string", "each(V::<Option<_>>)", true, "*string"},
		{"explicit", "[]float64", "V::<float64>", false, "float64"},
		{"explicit element", "[]string", "each(V::<int>)", true, "int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := mustInvocation(t, tt.invocation)
			got, err := ResolveInvocation(mustType(t, tt.declared), inv, tt.element)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			gotStr := ""
			if got != nil {
				gotStr = got.String()
			}
			if gotStr != tt.want {
				t.Errorf("Resolve(%s, %s) = %q, want %q", tt.declared, tt.invocation, gotStr, tt.want)
			}
		})
	}
}

func TestResolveElementOnScalar(t *testing.T) {
	inv := mustInvocation(t, "each(V::<_>)")
	for _, declared := range []string{"string", "*int", "map[string]int"} {
		if _, err := ResolveInvocation(mustType(t, declared), inv, true); err != ErrNotCollection {
			t.Errorf("Resolve(%s) error = %v, want ErrNotCollection", declared, err)
		}
		if _, err := ValueType(mustType(t, declared), inv, true); err != ErrNotCollection {
			t.Errorf("ValueType(%s) error = %v, want ErrNotCollection", declared, err)
		}
	}
}

func TestValueType(t *testing.T) {
	tests := []struct {
		declared   string
		invocation string
		element    bool
		want       string
	}{
		{"string", "V", false, "string"},
		{"*string", "V", false, "string"},
		{"*string", "V::<Option<_>>", false, "*string"},
		{"*[]*int", "each(V)", true, "int"},
		{"[]*int", "each(V::<Option<_>>)", true, "*int"},
	}
	for _, tt := range tests {
		got, err := ValueType(mustType(t, tt.declared), mustInvocation(t, tt.invocation), tt.element)
		if err != nil {
			t.Fatalf("ValueType(%s, %s) error: %v", tt.declared, tt.invocation, err)
		}
		if got.String() != tt.want {
			t.Errorf("ValueType(%s, %s) = %q, want %q", tt.declared, tt.invocation, got, tt.want)
		}
	}
}

func TestShapeOf(t *testing.T) {
	s := ShapeOf(mustType(t, "*[]*string"))
	if !s.Optional || !s.Collection || !s.ElementOptional {
		t.Errorf("ShapeOf(*[]*string) = %+v", s)
	}
	if s.Unwrapped.String() != "[]*string" || s.Element.String() != "*string" || s.ElementUnwrapped.String() != "string" {
		t.Errorf("unwrapped %s element %s element unwrapped %s", s.Unwrapped, s.Element, s.ElementUnwrapped)
	}

	plain := ShapeOf(mustType(t, "int"))
	if plain.Optional || plain.Collection || plain.Element != nil {
		t.Errorf("ShapeOf(int) = %+v", plain)
	}
}
