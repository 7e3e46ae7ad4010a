// Package cache stores the generation manifest: for every input file the
// hash it had when its output was last written, the output path and hash,
// the run that wrote it and the source revision.
//
// The engine consults the manifest before generating and skips inputs
// whose content and configuration are unchanged and whose output is
// still intact on disk.
//
// Three stores are available:
//
//   - sqlite: modernc.org/sqlite, pure Go (default)
//   - sqlite3: github.com/mattn/go-sqlite3, requires cgo
//   - memory: process-local, used by tests and --no-cache runs
package cache
