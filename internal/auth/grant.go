// Package auth implements bearer credential validation and claim-based
// authorization. A validated credential yields an Identity holding the
// caller's numeric subject id and parsed role grants; the engine turns
// those grants into the set of owner ids the caller may act on for a
// given operation.
package auth

import (
	"strconv"
	"strings"
)

// RoleAdmin is the superset role: a grant of Admin for an owner id
// authorizes that id for every operation.
const RoleAdmin = "Admin"

// Grant is a single parsed role claim. A self-scoped grant claims the role
// for the caller's own subject id; a delegated grant (encoded on the wire as
// "<ownerId>/<role>") claims it on behalf of another owner.
type Grant struct {
	Role      string
	Owner     int64
	Delegated bool
}

// SelfGrant returns a grant scoped to the caller's own subject id.
func SelfGrant(role string) Grant {
	return Grant{Role: role}
}

// DelegatedGrant returns a grant for the given owner id.
func DelegatedGrant(owner int64, role string) Grant {
	return Grant{Role: role, Owner: owner, Delegated: true}
}

// ParseGrants normalizes raw role claim values into grants. Each element is
// split on "/": exactly two non-empty parts with a numeric first part yield a
// delegated grant; an element without a separator yields a self-scoped grant.
// Anything else (wrong arity, non-numeric owner id, empty parts) is dropped
// silently — parsing never fails the whole claim set.
func ParseGrants(raw []string) []Grant {
	grants := make([]Grant, 0, len(raw))
	for _, entry := range raw {
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			grants = append(grants, SelfGrant(entry))
			continue
		}
		parts := strings.Split(entry, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		owner, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		grants = append(grants, DelegatedGrant(owner, parts[1]))
	}
	return grants
}
