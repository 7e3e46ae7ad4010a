package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"ruleforge/vgen/pkg/annot/ast"
)

// AnnotationContext renders the annotation text with a caret under offset.
func AnnotationContext(source string, offset int) string {
	if source == "" || offset < 0 {
		return ""
	}
	if offset > len(source) {
		offset = len(source)
	}
	line := strings.ReplaceAll(source, "\n", " ")
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  | %s\n", line))
	sb.WriteString(fmt.Sprintf("  | %s^\n", strings.Repeat(" ", offset)))
	return sb.String()
}

// WithAnnotationContext fills Context from the error's annotation text.
func WithAnnotationContext(err *Error) *Error {
	err.Context = AnnotationContext(err.Source, err.Offset)
	return err
}

// ExtractContext reads the source file and extracts the lines surrounding
// location, marking the annotated line.
func ExtractContext(location ast.Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))
	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))
	}
	return sb.String()
}

// AddSourceContext replaces the annotation excerpt with surrounding source
// lines when the file is readable. Used by lint for human-readable output.
func AddSourceContext(err *Error) *Error {
	if ctx := ExtractContext(err.Location, 2); ctx != "" {
		err.Context = ctx + AnnotationContext(err.Source, err.Offset)
	}
	return err
}
