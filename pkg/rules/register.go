package rules

import "ruleforge/vgen/pkg/catalog"

// ImportPath is the import path of this package.
const ImportPath = "ruleforge/vgen/pkg/rules"

var entries = []catalog.Entry{
	{Name: "Len", Generic: true, Description: "string length in characters within [Min, Max]; Max 0 is unbounded"},
	{Name: "NonEmpty", Generic: true, Description: "string holds more than whitespace"},
	{Name: "Range", Generic: true, Description: "ordered value within [Min, Max]"},
	{Name: "Required", Generic: true, Description: "value is not its zero value; use Required::<*_> for pointers"},
	{Name: "OneOf", Generic: true, Description: "value is one of Values"},
	{Name: "MaxItems", Generic: true, Element: true, Description: "slice holds at most Max elements; write MaxItems::<Elem>"},
	{Name: "MinItems", Generic: true, Element: true, Description: "slice holds at least Min elements; write MinItems::<Elem>"},
	{Name: "Pattern", Description: "string matches the regular expression Expr"},
}

// Register adds the validators of this package to c.
func Register(c *catalog.Catalog) error {
	for _, e := range entries {
		e.Path = ImportPath
		if err := c.Register(e); err != nil {
			return err
		}
	}
	return nil
}
