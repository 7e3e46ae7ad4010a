package gosource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "user.go.txt"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return src
}

func TestParse(t *testing.T) {
	r := New(DefaultOptions())
	src := readFixture(t)
	if !r.HasRecords(src) {
		t.Fatal("HasRecords() = false")
	}

	f, err := r.Parse("user.go", src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if f.Package != "users" {
		t.Errorf("Package = %q, want users", f.Package)
	}
	wantImports := map[string]string{"time": "time", "embed": "embed", "check": "ruleforge/vgen/pkg/rules"}
	if diff := cmp.Diff(wantImports, f.Imports); diff != "" {
		t.Errorf("Imports mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, rec := range f.Records {
		names = append(names, rec.Name)
	}
	if diff := cmp.Diff([]string{"User", "ID", "Box", "Audit"}, names); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	user := f.Records[0]
	if !user.IsStruct || user.Generic {
		t.Errorf("User: IsStruct=%v Generic=%v", user.IsStruct, user.Generic)
	}
	if len(user.Options) != 1 || user.Options[0].Text != "try_new" {
		t.Errorf("User options = %+v", user.Options)
	}

	type fieldSummary struct {
		Name     string
		Type     string
		Embedded bool
		Occs     []string
	}
	var got []fieldSummary
	for _, fd := range user.Fields {
		s := fieldSummary{Name: fd.Name, Type: fd.Type.String(), Embedded: fd.Embedded}
		for _, o := range fd.Occurrences {
			s.Occs = append(s.Occs, o.Text)
		}
		got = append(got, s)
	}
	want := []fieldSummary{
		{Name: "Name", Type: "string", Occs: []string{"check.Len::<_>(Min = 1, Max = 50)"}},
		{Name: "Age", Type: "int", Occs: []string{"check.Range::<_>(Min = 0, Max = 150)"}},
		{Name: "Tags", Type: "[]string", Occs: []string{"check.MaxItems::<string>(Max = 3)", "each(check.Len::<_>(Min = 1))"}},
		{Name: "First", Type: "*string", Occs: []string{"check.NonEmpty::<_>"}},
		{Name: "Last", Type: "*string", Occs: []string{"check.NonEmpty::<_>"}},
		{Name: "Audit", Type: "*Audit", Embedded: true},
		{Name: "Created", Type: "time.Time"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("User fields mismatch (-want +got):\n%s", diff)
	}

	if loc := user.Fields[0].Occurrences[0].Location; loc.File != "user.go" || loc.Line != 14 {
		t.Errorf("tag location = %v, want user.go:14", loc)
	}
	if loc := user.Fields[1].Occurrences[0].Location; loc.Line != 15 || loc.Column != 9 {
		t.Errorf("directive location = %v, want line 15 column 9", loc)
	}

	if id := f.Records[1]; id.IsStruct {
		t.Error("ID should not be a struct")
	}
	if box := f.Records[2]; !box.Generic {
		t.Error("Box should be generic")
	}
	audit := f.Records[3]
	if len(audit.Options) != 1 || audit.Options[0].Text != "newtype" {
		t.Errorf("Audit options = %+v", audit.Options)
	}
	if occs := audit.Fields[0].Occurrences; len(occs) != 1 {
		t.Errorf("Audit.By occurrences = %+v, the plain line comment must be ignored", occs)
	}
}

func TestParseCustomDirective(t *testing.T) {
	src := []byte(`package p

// +check:validate
type T struct {
	// +check:Len
	A string ` + "`chk:\"NonEmpty\"`" + `
}
`)
	r := New(Options{Tag: "chk", Directive: " +check:"})
	f, err := r.Parse("p.go", src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(f.Records))
	}
	var occs []string
	for _, o := range f.Records[0].Fields[0].Occurrences {
		occs = append(occs, o.Text)
	}
	if diff := cmp.Diff([]string{"NonEmpty", "Len"}, occs); diff != "" {
		t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImportTable(t *testing.T) {
	src := []byte(`package p

import (
	_ "ruleforge/vgen/pkg/rules"
	. "strings"
	v2 "example.com/go-check/v2"
)

//vgen:validate
type T struct {
	A string ` + "`vgen:\"rules.NonEmpty::<_>\"`" + `
}
`)
	f, err := New(DefaultOptions()).Parse("p.go", src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := map[string]string{
		"rules": "ruleforge/vgen/pkg/rules",
		"v2":    "example.com/go-check/v2",
	}
	if diff := cmp.Diff(want, f.Imports); diff != "" {
		t.Errorf("Imports mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	r := New(DefaultOptions())
	if _, err := r.Parse("bad.go", []byte("package")); err == nil {
		t.Error("invalid Go should fail")
	}
	if _, err := r.ReadFile(filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Error("missing file should fail")
	}

	f, err := r.Parse("plain.go", []byte("package p\n\ntype T struct{ A int }\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(f.Records) != 0 {
		t.Errorf("records = %d, want 0", len(f.Records))
	}
}
