// Package yamlsource reads validation records from YAML descriptor files.
//
//	package: users
//	imports:
//	  rules: ruleforge/vgen/pkg/rules
//	records:
//	  - name: User
//	    options: try_new
//	    fields:
//	      - name: Name
//	        type: string
//	        rules: ["rules.Len::<_>(Min = 1, Max = 50)"]
//
// Each entry of rules is one annotation occurrence. Field types are Go type
// expressions.
package yamlsource

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ruleforge/vgen/pkg/annot/ast"
	vgenerrors "ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/model"
	"ruleforge/vgen/pkg/typeexpr"
)

// Extension is the file suffix of descriptor files.
const Extension = ".vgen.yaml"

type descriptor struct {
	Package string            `yaml:"package"`
	Imports map[string]string `yaml:"imports"`
	Records []recordDesc      `yaml:"records"`
}

type recordDesc struct {
	Name    string      `yaml:"name"`
	Options string      `yaml:"options"`
	Fields  []fieldDesc `yaml:"fields"`

	line, column int
}

func (r *recordDesc) UnmarshalYAML(node *yaml.Node) error {
	type plain recordDesc
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}
	r.line, r.column = node.Line, node.Column
	return nil
}

type fieldDesc struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"`
	Embedded bool      `yaml:"embedded"`
	Rules    []ruleOcc `yaml:"rules"`

	line, column int
}

func (f *fieldDesc) UnmarshalYAML(node *yaml.Node) error {
	type plain fieldDesc
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line, f.column = node.Line, node.Column
	return nil
}

type ruleOcc struct {
	text         string
	line, column int
}

func (o *ruleOcc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: rule must be a string", node.Line)
	}
	o.text, o.line, o.column = node.Value, node.Line, node.Column
	return nil
}

// IsDescriptor reports whether path names a descriptor file.
func IsDescriptor(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// ReadFile reads and parses the descriptor at path.
func ReadFile(path string) (*model.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, vgenerrors.NewIOError(path, err)
	}
	return Parse(path, src)
}

// Parse converts a descriptor into records. Every field type error is
// reported; the result is nil when there is any.
func Parse(path string, src []byte) (*model.File, error) {
	var d descriptor
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, vgenerrors.NewIOError(path, fmt.Errorf("parsing descriptor: %w", err))
	}
	if d.Package == "" {
		return nil, vgenerrors.NewStructuralError(ast.Location{File: path, Line: 1, Column: 1},
			"descriptor has no package")
	}

	f := &model.File{Path: path, Package: d.Package, Imports: d.Imports}
	if f.Imports == nil {
		f.Imports = make(map[string]string)
	}

	errs := vgenerrors.NewErrorList()
	for _, rd := range d.Records {
		rec := &model.Record{
			Name:     rd.Name,
			IsStruct: true,
			Location: ast.Location{File: path, Line: rd.line, Column: rd.column},
		}
		if rd.Options != "" {
			rec.Options = []ast.Occurrence{{Text: rd.Options, Location: rec.Location}}
		}
		for _, fd := range rd.Fields {
			loc := ast.Location{File: path, Line: fd.line, Column: fd.column}
			typ, err := typeexpr.Parse(fd.Type)
			if err != nil {
				errs.Add(vgenerrors.NewStructuralError(loc,
					"field `%s` of `%s` has an invalid type %q", fd.Name, rd.Name, fd.Type))
				continue
			}
			field := &model.Field{Name: fd.Name, Type: typ, Embedded: fd.Embedded, Location: loc}
			for _, o := range fd.Rules {
				field.Occurrences = append(field.Occurrences, ast.Occurrence{
					Text:     o.text,
					Location: ast.Location{File: path, Line: o.line, Column: o.column},
				})
			}
			rec.Fields = append(rec.Fields, field)
		}
		f.Records = append(f.Records, rec)
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return f, nil
}
