// Package errors provides the generation-time error types of vgen.
//
// Errors carry the source location of the annotation occurrence, the byte
// offset inside the annotation text, a rendered excerpt, and an optional
// suggestion.
//
// # Error Types
//
// ErrorTypeSyntax: malformed annotation grammar, including the legacy
// `Validator<_>` generic syntax
//
// ErrorTypeDuplicate: the same validator name twice in one slot of a field
//
// ErrorTypeStructural: record shapes the generator rejects (non-struct types,
// records without fields, newtype cardinality, `each` on non-collections)
//
// ErrorTypeUnknownOption: an unrecognized struct-level option
//
// ErrorTypeIO: file I/O errors
//
// # Error Format
//
//	[syntax] expected `::` before type parameters
//	  --> users/user.go:12:2
//	  |
//	  | rules.Len<_>(Min = 1)
//	  |          ^
//	  |
//	  = suggestion: use turbofish syntax for type parameters: `Validator::<_>` not `Validator<_>`
//
// Accumulate errors across records with ErrorList:
//
//	errs := errors.NewErrorList()
//	errs.AddErr(err)
//	return errs.ToError()
package errors
