// Package aggregate merges the annotation occurrences written on one field or
// record into a single FieldAnnotation or StructAnnotation.
package aggregate

import (
	"ruleforge/vgen/pkg/annot/ast"
	"ruleforge/vgen/pkg/annot/errors"
	"ruleforge/vgen/pkg/annot/parser"
)

// Field parses every occurrence written on field and unions their
// validators in order.
//
// A validator name may appear once in the field-level slot and once in the
// element-level slot; a second use in the same slot is a duplicate error,
// whether it comes from the same occurrence or another one. `skip` on any
// occurrence wins over everything else, but every occurrence must still parse.
// A field with neither validators nor modifiers yields an annotation for which
// IsAnnotated reports false.
func Field(field string, occs []ast.Occurrence) (*ast.FieldAnnotation, error) {
	fa := &ast.FieldAnnotation{}
	seenField := make(map[string]bool)
	seenElement := make(map[string]bool)
	var delegateLoc ast.Location

	for _, occ := range occs {
		a, err := parser.ParseAnnotation(occ.Text, occ.Location)
		if err != nil {
			return nil, err
		}

		switch a.Modifier {
		case ast.ModifierSkip:
			fa.Skip = true
			continue
		case ast.ModifierNested:
			fa.Nested = true
			delegateLoc = occ.Location
			continue
		case ast.ModifierNewtype:
			fa.Newtype = true
			delegateLoc = occ.Location
			continue
		}

		for _, inv := range a.Field {
			if seenField[inv.Name()] {
				return nil, errors.NewDuplicateError(occ.Location, inv.Name(), field, false)
			}
			seenField[inv.Name()] = true
			fa.Field = append(fa.Field, inv)
		}
		for _, inv := range a.Element {
			if seenElement[inv.Name()] {
				return nil, errors.NewDuplicateError(occ.Location, inv.Name(), field, true)
			}
			seenElement[inv.Name()] = true
			fa.Element = append(fa.Element, inv)
		}
	}

	if fa.Skip {
		return &ast.FieldAnnotation{Skip: true}, nil
	}
	if fa.Nested && fa.Newtype {
		return nil, errors.NewStructuralError(delegateLoc,
			"field `%s` cannot be both `nested` and `newtype`", field)
	}
	if fa.Delegates() && (len(fa.Field) > 0 || len(fa.Element) > 0) {
		mod := ast.ModifierNested
		if fa.Newtype {
			mod = ast.ModifierNewtype
		}
		return nil, errors.NewStructuralError(delegateLoc,
			"field `%s` is `%s` and cannot also declare validators", field, mod)
	}
	return fa, nil
}

// Struct parses the option lists written on a record and merges them.
func Struct(occs []ast.Occurrence) (*ast.StructAnnotation, error) {
	sa := &ast.StructAnnotation{}
	for _, occ := range occs {
		opts, err := parser.ParseStructOptions(occ.Text, occ.Location)
		if err != nil {
			return nil, err
		}
		sa.TryNew = sa.TryNew || opts.TryNew
		sa.Newtype = sa.Newtype || opts.Newtype
	}
	return sa, nil
}
