package ast

import "fmt"

// Location is the source position of an annotation occurrence.
type Location struct {
	File   string // Path to the source file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Occurrence is the raw text of one annotation and where it was written.
type Occurrence struct {
	Text     string
	Location Location
}
