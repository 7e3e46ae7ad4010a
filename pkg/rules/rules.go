// Package rules is a small set of ready-made validators.
//
// Every validator is a struct with its parameters as fields and a Value
// field that generated code fills with the value under validation:
//
//	//vgen:rules.Len::<_>(Min = 1, Max = 50)
//	Name string
//
// compiles to rules.Len[string]{Min: 1, Max: 50, Value: r.Name}. Messages use
// Value, so a validator built by hand without it still validates but reports
// a zero value.
package rules

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// Len checks the length of a string in characters. A zero Max means no upper
// bound.
type Len[T ~string] struct {
	Min   int
	Max   int
	Value T
}

func (v Len[T]) Validate(value T) bool {
	n := utf8.RuneCountInString(string(value))
	return n >= v.Min && (v.Max == 0 || n <= v.Max)
}

func (v Len[T]) Message() string {
	n := utf8.RuneCountInString(string(v.Value))
	if v.Max == 0 {
		return fmt.Sprintf("must be at least %d characters long, got %d", v.Min, n)
	}
	return fmt.Sprintf("must be between %d and %d characters long, got %d", v.Min, v.Max, n)
}

// NonEmpty checks that a string holds more than whitespace.
type NonEmpty[T ~string] struct {
	Value T
}

func (v NonEmpty[T]) Validate(value T) bool {
	return strings.TrimSpace(string(value)) != ""
}

func (v NonEmpty[T]) Message() string {
	return "must not be empty"
}

// Range checks that a value lies within [Min, Max].
type Range[T cmp.Ordered] struct {
	Min   T
	Max   T
	Value T
}

func (v Range[T]) Validate(value T) bool {
	return value >= v.Min && value <= v.Max
}

func (v Range[T]) Message() string {
	return fmt.Sprintf("must be between %v and %v, got %v", v.Min, v.Max, v.Value)
}

// Required checks that a value is not its zero value. Written with the full
// optional form, Required::<*_>, it checks that a pointer field is set.
type Required[T comparable] struct {
	Value T
}

func (v Required[T]) Validate(value T) bool {
	var zero T
	return value != zero
}

func (v Required[T]) Message() string {
	return "is required"
}

// OneOf checks that a value is one of Values.
type OneOf[T comparable] struct {
	Values []T
	Value  T
}

func (v OneOf[T]) Validate(value T) bool {
	for _, allowed := range v.Values {
		if value == allowed {
			return true
		}
	}
	return false
}

func (v OneOf[T]) Message() string {
	return fmt.Sprintf("must be one of %v, got %v", v.Values, v.Value)
}

// MaxItems checks that a slice holds at most Max elements. E is the element
// type, so a []string field takes rules.MaxItems::<string>; `::<_>` would
// instantiate MaxItems[[]string] and fail to compile.
type MaxItems[E any] struct {
	Max   int
	Value []E
}

func (v MaxItems[E]) Validate(value []E) bool {
	return len(value) <= v.Max
}

func (v MaxItems[E]) Message() string {
	return fmt.Sprintf("must hold at most %d items, got %d", v.Max, len(v.Value))
}

// MinItems checks that a slice holds at least Min elements. Like MaxItems it
// is parameterized by the element type.
type MinItems[E any] struct {
	Min   int
	Value []E
}

func (v MinItems[E]) Validate(value []E) bool {
	return len(value) >= v.Min
}

func (v MinItems[E]) Message() string {
	return fmt.Sprintf("must hold at least %d items, got %d", v.Min, len(v.Value))
}

// Pattern checks a string against the regular expression Expr. An invalid
// expression fails every value.
type Pattern struct {
	Expr  string
	Value string
}

var patterns sync.Map // expr -> *regexp.Regexp or error

func compile(expr string) (*regexp.Regexp, error) {
	if cached, ok := patterns.Load(expr); ok {
		if re, ok := cached.(*regexp.Regexp); ok {
			return re, nil
		}
		return nil, cached.(error)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		patterns.Store(expr, err)
		return nil, err
	}
	patterns.Store(expr, re)
	return re, nil
}

func (v Pattern) Validate(value string) bool {
	re, err := compile(v.Expr)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func (v Pattern) Message() string {
	if _, err := compile(v.Expr); err != nil {
		return fmt.Sprintf("invalid pattern %q: %v", v.Expr, err)
	}
	return fmt.Sprintf("must match %s", v.Expr)
}
