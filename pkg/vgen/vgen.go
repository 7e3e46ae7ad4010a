// Package vgen is the runtime support imported by generated validation code.
//
// A validator is any struct type with a Validate method; the generated code
// fills its fields, calls Validate with the value under validation and keeps
// the validator when it reports false. Validators that implement Messager
// contribute their message to error strings.
package vgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Validator checks a value of type T.
type Validator[T any] interface {
	Validate(value T) bool
}

// Messager is implemented by validators that describe their failure.
type Messager interface {
	Message() string
}

// Errors is implemented by every generated record error type.
type Errors interface {
	error
	// IsEmpty reports whether no validator failed.
	IsEmpty() bool
	// HasErrors reports whether at least one validator failed.
	HasErrors() bool
}

// Label returns name, followed by the message of v when v is a Messager.
func Label(name string, v any) string {
	if m, ok := v.(Messager); ok {
		if msg := m.Message(); msg != "" {
			return name + ": " + msg
		}
	}
	return name
}

// Describe joins the string forms of failures.
func Describe[F fmt.Stringer](failures []F) string {
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

// Index returns the label of a collection element.
func Index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// Report assembles the description of a record error, one labelled part per
// failing field or element.
type Report struct {
	parts []string
}

// Add appends detail under label. Empty details are dropped; an empty label
// adds the detail alone.
func (r *Report) Add(label, detail string) {
	if detail == "" {
		return
	}
	if label == "" {
		r.parts = append(r.parts, detail)
		return
	}
	r.parts = append(r.parts, label+": "+detail)
}

// Len returns the number of parts.
func (r *Report) Len() int {
	return len(r.parts)
}

func (r *Report) String() string {
	return strings.Join(r.parts, "; ")
}
