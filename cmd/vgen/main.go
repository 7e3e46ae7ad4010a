// vgen generates validation code for annotated Go structs.
//
// Records opt in with a doc-comment directive and declare validators on
// their fields with struct tags or comment directives. vgen writes a
// <file>_vgen.go next to each input holding per-field error types, an
// aggregate error type, a Validate method and, on request, a checked
// constructor.
//
// Usage:
//
//	# Generate for the current module
//	vgen generate ./...
//
//	# Fail when generated files are out of date (CI)
//	vgen generate --check .
//
//	# Check annotations without writing, JSON for tooling
//	vgen lint --strict --format json ./internal
//
//	# Regenerate on change
//	vgen watch .
//
//	# List the bundled validators
//	vgen validators
package main

func main() {
	Execute()
}
