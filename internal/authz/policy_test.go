package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
		role   string
		want   bool
	}{
		{name: "super admin passes super admin only", policy: SuperAdminOnly, role: "SuperAdmin", want: true},
		{name: "admin denied super admin only", policy: SuperAdminOnly, role: "Admin", want: false},
		{name: "user denied super admin only", policy: SuperAdminOnly, role: "User", want: false},
		{name: "super admin passes admin only", policy: AdminOnly, role: "SuperAdmin", want: true},
		{name: "admin passes admin only", policy: AdminOnly, role: "Admin", want: true},
		{name: "user denied admin only", policy: AdminOnly, role: "User", want: false},
		{name: "super admin passes user only", policy: UserOnly, role: "SuperAdmin", want: true},
		{name: "admin passes user only", policy: UserOnly, role: "Admin", want: true},
		{name: "user passes user only", policy: UserOnly, role: "User", want: true},
		{name: "unknown role denied", policy: UserOnly, role: "Viewer", want: false},
		{name: "empty role denied", policy: UserOnly, role: "", want: false},
		{name: "roles are case sensitive", policy: UserOnly, role: "user", want: false},
		{name: "unknown policy denies", policy: Policy("OwnerOnly"), role: "SuperAdmin", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Allowed(tt.policy, tt.role))
		})
	}
}

func TestIsValidRole(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidRole("SuperAdmin"))
	assert.True(t, IsValidRole("Admin"))
	assert.True(t, IsValidRole("User"))
	assert.False(t, IsValidRole("user"))
	assert.False(t, IsValidRole(""))
	assert.False(t, IsValidRole("Viewer"))
}
