// Package source holds the front ends that turn input files into record
// descriptors for the generator.
//
// Subpackages:
//   - gosource reads annotated Go source files.
//   - yamlsource reads *.vgen.yaml descriptor files.
//
// Both produce a *model.File whose records and fields carry raw annotation
// occurrences with their locations; parsing and aggregation of the
// annotations happen later, in model.Record.Annotate.
package source
