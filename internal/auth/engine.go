package auth

import "sort"

// Identity is the validated caller identity for one inbound call. The zero
// value is the anonymous identity: no subject, no grants, and therefore an
// empty permitted-id set for every operation.
type Identity struct {
	Subject       int64
	Grants        []Grant
	Authenticated bool
}

// Anonymous returns the identity used when no credential accompanies a call.
func Anonymous() Identity {
	return Identity{}
}

// IDSet is a set of owner ids a caller may act on for one operation. An
// empty set means the caller has no standing and the operation must be
// rejected before any store access.
type IDSet map[int64]struct{}

// Add inserts an id into the set.
func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Empty reports whether the set has no members.
func (s IDSet) Empty() bool {
	return len(s) == 0
}

// Values returns the set members in ascending order.
func (s IDSet) Values() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PermittedIDs computes the owner ids the identity may act on for the named
// operation: grants matching the operation plus grants of the Admin role,
// which authorizes its owner for every operation. Pure and deterministic.
func PermittedIDs(identity Identity, operation string) IDSet {
	set := IDSet{}
	collect := func(role string) {
		for _, g := range identity.Grants {
			if g.Role != role {
				continue
			}
			if g.Delegated {
				set.Add(g.Owner)
			} else if identity.Authenticated {
				set.Add(identity.Subject)
			}
		}
	}
	collect(operation)
	collect(RoleAdmin)
	return set
}
