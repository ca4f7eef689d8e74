package auth

import (
	"reflect"
	"testing"
)

func TestParseGrantsSelfAndDelegated(t *testing.T) {
	grants := ParseGrants([]string{"Admin", "7/DeleteOrder"})
	want := []Grant{
		SelfGrant("Admin"),
		DelegatedGrant(7, "DeleteOrder"),
	}
	if !reflect.DeepEqual(grants, want) {
		t.Errorf("got %+v, want %+v", grants, want)
	}
}

func TestParseGrantsDropsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
		want int
	}{
		{"wrong arity", []string{"malformed/x/y"}, 0},
		{"non-numeric owner", []string{"abc/Admin"}, 0},
		{"empty owner", []string{"/Admin"}, 0},
		{"empty role", []string{"7/"}, 0},
		{"empty element", []string{""}, 0},
		{"mixed", []string{"Admin", "7/DeleteOrder", "malformed/x/y"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grants := ParseGrants(tc.raw)
			if len(grants) != tc.want {
				t.Errorf("got %d grants (%+v), want %d", len(grants), grants, tc.want)
			}
		})
	}
}

func TestParseGrantsNeverFails(t *testing.T) {
	// A claim set made entirely of junk yields an empty grant list, not an error.
	grants := ParseGrants([]string{"//", "x/y/z", "/", "-/Role"})
	if len(grants) != 0 {
		t.Errorf("expected no grants, got %+v", grants)
	}
}

func TestParseGrantsNegativeOwnerID(t *testing.T) {
	// Negative ids parse as integers; the engine treats them like any owner id.
	grants := ParseGrants([]string{"-3/GetOrder"})
	if len(grants) != 1 || grants[0].Owner != -3 || !grants[0].Delegated {
		t.Errorf("got %+v", grants)
	}
}
