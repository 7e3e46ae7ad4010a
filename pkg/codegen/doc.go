// Package codegen emits Go validation code for annotated records.
//
// For every record the generator writes one error type per validated field,
// with a pointer member per validator that stays nil until that validator
// fails, a failure enum naming those members, an element error type for
// each(...) validators, and the record's aggregate error type. The record
// itself gains ValidationErrors and Validate methods and, with try_new, a
// constructor.
//
// Validator types are resolved from the field's declared type through
// package infer. Validators are plain structs: the generator fills their
// declared arguments and the value field, then calls Validate(value).
//
// GenerateFile assembles a complete, gofmt-formatted file with the imports
// the emitted code needs.
package codegen
