package errors

import (
	"errors"
	"fmt"
	"strings"

	"ruleforge/vgen/pkg/annot/ast"
)

// ErrorType categorizes generation-time errors.
type ErrorType string

const (
	ErrorTypeSyntax        ErrorType = "syntax"         // Malformed annotation grammar
	ErrorTypeDuplicate     ErrorType = "duplicate"      // Same validator twice in one slot
	ErrorTypeStructural    ErrorType = "structural"     // Record shape not supported
	ErrorTypeUnknownOption ErrorType = "unknown_option" // Bad struct-level option
	ErrorTypeIO            ErrorType = "io"             // File I/O error
)

// Error is a generation-time error with location, context, and suggestions.
type Error struct {
	Type     ErrorType    // Category of error
	Message  string       // Error message
	Location ast.Location // Source location of the annotation occurrence
	// Source is the annotation text the error refers to, and Offset the byte
	// position inside it. Offset is -1 when the error is not positional.
	Source     string
	Offset     int
	Context    string // Rendered source excerpt
	Suggestion string // Suggested fix (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// NewSyntaxError reports malformed annotation text at offset.
func NewSyntaxError(loc ast.Location, source string, offset int, message, hint string) *Error {
	return WithAnnotationContext(&Error{
		Type:       ErrorTypeSyntax,
		Message:    message,
		Location:   loc,
		Source:     source,
		Offset:     offset,
		Suggestion: hint,
	})
}

// NewDuplicateError reports a validator named twice in one slot of a field.
func NewDuplicateError(loc ast.Location, name, field string, element bool) *Error {
	kind := "validator"
	if element {
		kind = "element validator"
	}
	return &Error{
		Type:     ErrorTypeDuplicate,
		Message:  fmt.Sprintf("duplicate %s `%s` on field `%s`", kind, name, field),
		Location: loc,
		Offset:   -1,
	}
}

// NewStructuralError reports a record or field shape the generator cannot
// handle.
func NewStructuralError(loc ast.Location, format string, args ...any) *Error {
	return &Error{
		Type:     ErrorTypeStructural,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Offset:   -1,
	}
}

// NewUnknownOptionError reports an unrecognized struct-level option.
func NewUnknownOptionError(loc ast.Location, source string, offset int, name string) *Error {
	return WithAnnotationContext(&Error{
		Type: ErrorTypeUnknownOption,
		Message: fmt.Sprintf("unknown struct-level option `%s`. Expected %s",
			name, quoteList(ast.StructOptions)),
		Location:   loc,
		Source:     source,
		Offset:     offset,
		Suggestion: SuggestName(name, ast.StructOptions),
	})
}

// NewIOError wraps a file system error.
func NewIOError(path string, err error) *Error {
	return &Error{
		Type:     ErrorTypeIO,
		Message:  err.Error(),
		Location: ast.Location{File: path},
		Offset:   -1,
	}
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	if len(quoted) == 2 {
		return quoted[0] + " or " + quoted[1]
	}
	return strings.Join(quoted, ", ")
}

// TypeOf returns the ErrorType of err if it is or wraps an *Error.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

// ErrorList represents a collection of errors encountered during generation.
// It allows accumulating multiple errors instead of failing on the first error.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddErr appends err, flattening lists and wrapping foreign errors as I/O
// errors.
func (el *ErrorList) AddErr(err error) {
	if err == nil {
		return
	}
	var list *ErrorList
	if errors.As(err, &list) {
		el.Errors = append(el.Errors, list.Errors...)
		return
	}
	var e *Error
	if errors.As(err, &e) {
		el.Add(e)
		return
	}
	el.Add(&Error{Type: ErrorTypeIO, Message: err.Error(), Offset: -1})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// Unwrap exposes the listed errors to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	out := make([]error, len(el.Errors))
	for i, e := range el.Errors {
		out[i] = e
	}
	return out
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}
