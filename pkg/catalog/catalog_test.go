package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterAndLookup(t *testing.T) {
	c := New()
	entries := []Entry{
		{Name: "Len", Path: "example.com/rules", Generic: true},
		{Name: "Pattern", Path: "example.com/rules"},
		{Name: "Email", Path: "example.com/mail"},
	}
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			t.Fatalf("Register(%s) error: %v", e.Name, err)
		}
	}

	if err := c.Register(Entry{Name: "Len", Path: "example.com/other"}); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := c.Register(Entry{}); err == nil {
		t.Error("unnamed entry should fail")
	}

	got, ok := c.Lookup("Len")
	if !ok || !got.Generic || got.Path != "example.com/rules" {
		t.Errorf("Lookup(Len) = %+v, %v", got, ok)
	}
	if _, ok := c.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should fail")
	}

	var names []string
	for _, e := range c.Entries() {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"Email", "Len", "Pattern"}, names); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestSuggest(t *testing.T) {
	c := New()
	if got := c.Suggest("Len"); got != "" {
		t.Errorf("Suggest on empty catalog = %q", got)
	}
	_ = c.Register(Entry{Name: "Len"})
	_ = c.Register(Entry{Name: "Range"})
	if got := c.Suggest("Lne"); !strings.Contains(got, "'Len'") {
		t.Errorf("Suggest(Lne) = %q, want a hint naming Len", got)
	}
}
