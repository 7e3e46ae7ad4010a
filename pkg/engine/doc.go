// Package engine runs vgen over a set of input paths.
//
// A run discovers inputs (Go files carrying the validate directive and
// *.vgen.yaml descriptors), parses them with the matching front end,
// generates the validation code of every record and writes one output
// file per input next to it. Each run has a UUID that appears in logs,
// spans and the cache manifest.
//
// Inputs whose content and generation settings are unchanged since the
// last run, and whose output is intact, are skipped using the cache. A
// file that fails to generate leaves its previous output untouched; the
// run continues with the remaining files and fails at the end.
//
// Three modes share the pipeline:
//
//   - ModeGenerate writes outputs.
//   - ModeCheck writes nothing and reports inputs whose output is stale.
//   - ModeLint writes nothing, bypasses the cache and reports catalog
//     warnings for validators it does not know.
package engine
