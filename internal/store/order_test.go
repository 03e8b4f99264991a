package store

import "testing"

func TestOrderField(t *testing.T) {
	cases := []struct {
		field      OrderField
		column     string
		descending bool
		annotation string
	}{
		{Asc("email"), "email", false, "ascending email"},
		{Desc("email"), "email", true, "descending email"},
		{OrderField("date"), "date", false, "ascending date"},
		{OrderField("-total_costs"), "total_costs", true, "descending total_costs"},
	}
	for _, tc := range cases {
		if got := tc.field.Column(); got != tc.column {
			t.Fatalf("%q Column() = %q", tc.field, got)
		}
		if got := tc.field.Descending(); got != tc.descending {
			t.Fatalf("%q Descending() = %v", tc.field, got)
		}
		if got := tc.field.Annotation(); got != tc.annotation {
			t.Fatalf("%q Annotation() = %q", tc.field, got)
		}
	}
}
