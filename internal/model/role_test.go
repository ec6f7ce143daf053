package model

import "testing"

func TestRoleElevated(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, false},
		{RoleAdmin, true},
		{RoleStaff, true},
		{Role("root"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Elevated(); got != tt.want {
			t.Errorf("Role(%q).Elevated() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleSetContains(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleStaff)

	if !set.Contains(RoleAdmin) || !set.Contains(RoleStaff) {
		t.Error("RoleSet missing a role it was built with")
	}
	if set.Contains(RoleUser) {
		t.Error("RoleSet contains RoleUser")
	}
	if (RoleSet{}).Contains(RoleAdmin) {
		t.Error("zero RoleSet should be empty")
	}
}

func TestCanModifyAppointment(t *testing.T) {
	owner := &User{ID: "u-1", Role: RoleUser}
	other := &User{ID: "u-2", Role: RoleUser}
	admin := &User{ID: "u-3", Role: RoleAdmin}
	staff := &User{ID: "u-4", Role: RoleStaff}

	tests := []struct {
		name     string
		identity *User
		want     bool
	}{
		{"creator", owner, true},
		{"other user", other, false},
		{"admin", admin, true},
		{"staff", staff, true},
		{"no identity", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyAppointment(tt.identity, "u-1"); got != tt.want {
				t.Errorf("CanModifyAppointment() = %v, want %v", got, tt.want)
			}
		})
	}
}
