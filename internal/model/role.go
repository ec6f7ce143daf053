package model

// Role is an account's permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// Elevated reports whether r grants access beyond the caller's own records.
func (r Role) Elevated() bool {
	return r.Valid() && r != RoleUser
}

// RoleSet is an immutable set of roles permitted to use a route.
type RoleSet struct {
	roles map[Role]struct{}
}

func NewRoleSet(roles ...Role) RoleSet {
	set := RoleSet{roles: make(map[Role]struct{}, len(roles))}
	for _, r := range roles {
		set.roles[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s.roles[r]
	return ok
}

// CanModifyAppointment reports whether identity may update or delete an
// appointment created by creatorID.
func CanModifyAppointment(identity *User, creatorID string) bool {
	if identity == nil {
		return false
	}
	return identity.ID == creatorID || identity.Role.Elevated()
}
