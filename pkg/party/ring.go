package party

import (
	"errors"
	"fmt"
)

// Helpers is the number of helper parties in the replicated sharing ring.
const Helpers = 3

// Role is the position of a helper in the ring H1 → H2 → H3 → H1.
type Role int

const (
	H1 Role = iota
	H2
	H3
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case H1, H2, H3:
		return fmt.Sprintf("H%d", int(r)+1)
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Left returns the previous helper in the ring.
func (r Role) Left() Role { return (r + Helpers - 1) % Helpers }

// Right returns the next helper in the ring.
func (r Role) Right() Role { return (r + 1) % Helpers }

// ErrInvalidRing is returned when a set of IDs does not describe a three helper ring.
var ErrInvalidRing = errors.New("party: invalid helper ring")

// Ring assigns the roles H1, H2, H3 to a sorted IDSlice of exactly three parties.
type Ring struct {
	ids IDSlice
}

// NewRing orders partyIDs and checks that they form a valid ring.
func NewRing(partyIDs []ID) (Ring, error) {
	ids := NewIDSlice(partyIDs)
	if len(ids) != Helpers || !ids.Valid() {
		return Ring{}, fmt.Errorf("%w: %v", ErrInvalidRing, partyIDs)
	}
	return Ring{ids: ids}, nil
}

// IDs returns the sorted IDs of the ring.
func (r Ring) IDs() IDSlice { return r.ids }

// Role returns the role of id, or an error if id is not in the ring.
func (r Ring) Role(id ID) (Role, error) {
	idx := r.ids.GetIndex(id)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s is not a helper", ErrInvalidRing, id)
	}
	return Role(idx), nil
}

// ID returns the party holding role.
func (r Ring) ID(role Role) ID { return r.ids[role%Helpers] }

// Left returns the helper preceding id.
func (r Ring) Left(id ID) ID {
	role, err := r.Role(id)
	if err != nil {
		return ""
	}
	return r.ID(role.Left())
}

// Right returns the helper following id.
func (r Ring) Right(id ID) ID {
	role, err := r.Role(id)
	if err != nil {
		return ""
	}
	return r.ID(role.Right())
}
