package vgen

import (
	"testing"
)

type msgValidator struct{ msg string }

func (m msgValidator) Message() string { return m.msg }

type failure string

func (f failure) String() string { return string(f) }

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"plain", struct{}{}, "Len"},
		{"nil", nil, "Len"},
		{"message", msgValidator{"must be 1..5 characters"}, "Len: must be 1..5 characters"},
		{"empty message", msgValidator{}, "Len"},
		{"pointer", &msgValidator{"bad"}, "Len: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label("Len", tt.v); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe([]failure{"Len", "Pattern"}); got != "Len, Pattern" {
		t.Errorf("Describe() = %q, want %q", got, "Len, Pattern")
	}
	if got := Describe[failure](nil); got != "" {
		t.Errorf("Describe(nil) = %q, want empty", got)
	}
}

func TestReport(t *testing.T) {
	var r Report
	r.Add("", "Len")
	r.Add("Name", "")
	r.Add(Index(2), "Pattern")
	r.Add("Age", "Range")

	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	want := "Len; [2]: Pattern; Age: Range"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	var empty Report
	if empty.String() != "" {
		t.Errorf("empty report = %q", empty.String())
	}
}
