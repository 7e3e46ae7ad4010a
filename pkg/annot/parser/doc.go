// Package parser parses vgen annotation text.
//
// Annotations are written in struct tags or `//vgen:` directive lines:
//
//	type User struct {
//	    Name string   `vgen:"rules.Len::<_>(Min = 1, Max = 50)"`
//	    Tags []string `vgen:"rules.MaxItems::<string>(Max = 5), each(rules.NonEmpty::<_>)"`
//	    Home Address  `vgen:"nested"`
//	}
//
// The text is tokenized with go/scanner. Validator paths continue through `.`
// and `::` segments and stop before a turbofish `::<`. Argument expressions
// are kept as Go source text after a go/parser syntax check.
//
// # Type Parameters
//
//	V::<_>          infer the field type, pointer-unwrapped
//	V::<Set<_>>     substitute `_` inside a template, any depth
//	V::<Option<_>>  the full optional (pointer) type, nothing unwrapped
//	V::<int64>      explicit type
//
// The legacy form `V<_>` is rejected with a migration hint.
package parser
