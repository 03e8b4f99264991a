package store

import "strings"

// OrderField is a sort-column specifier: a column name optionally
// prefixed with "-" to indicate descending order. A list of specifiers
// forms a multi-key sort applied in the order given.
type OrderField string

// Desc returns the descending specifier for column.
func Desc(column string) OrderField { return OrderField("-" + column) }

// Asc returns the ascending specifier for column.
func Asc(column string) OrderField { return OrderField(column) }

// Column returns the bare column name.
func (f OrderField) Column() string {
	return strings.TrimPrefix(string(f), "-")
}

// Descending reports whether the specifier requests descending order.
func (f OrderField) Descending() bool {
	return strings.HasPrefix(string(f), "-")
}

// Annotation returns the human-readable form used above filtered
// tables, e.g. "descending email" for "-email".
func (f OrderField) Annotation() string {
	if f.Descending() {
		return "descending " + f.Column()
	}
	return "ascending " + f.Column()
}
