package store

import "testing"

func TestCentsString(t *testing.T) {
	cases := []struct {
		cents Cents
		want  string
	}{
		{0, "0.00 €"},
		{7, "0.07 €"},
		{123450, "1234.50 €"},
		{123456, "1234.56 €"},
		{-1234, "-12.34 €"},
	}
	for _, tc := range cases {
		if got := tc.cents.String(); got != tc.want {
			t.Fatalf("Cents(%d).String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestRole(t *testing.T) {
	if !RoleSales.Valid() || !RoleSupport.Valid() || !RoleManagement.Valid() {
		t.Fatal("known roles must be valid")
	}
	if Role("XX").Valid() {
		t.Fatal("unknown role must be invalid")
	}
	if got := RoleManagement.Display(); got != "Management" {
		t.Fatalf("Display() = %q", got)
	}
}

func TestContractStateDisplay(t *testing.T) {
	if got := StateSigned.Display(); got != "Signed" {
		t.Fatalf("Display() = %q", got)
	}
	if got := StateDraft.Display(); got != "Draft" {
		t.Fatalf("Display() = %q", got)
	}
}

func TestFullName(t *testing.T) {
	e := Employee{FirstName: "Kate", LastName: "Bishop"}
	if got := e.FullName(); got != "Kate Bishop" {
		t.Fatalf("FullName() = %q", got)
	}
	c := Client{FirstName: "Ada"}
	if got := c.FullName(); got != "Ada" {
		t.Fatalf("FullName() = %q", got)
	}
}
