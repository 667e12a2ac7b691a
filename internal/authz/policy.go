package authz

import "slices"

type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleUser       Role = "User"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

type Policy string

const (
	SuperAdminOnly Policy = "SuperAdminOnly"
	AdminOnly      Policy = "AdminOnly"
	UserOnly       Policy = "UserOnly"
)

// Static policy table: each policy names the roles it admits.
var policies = map[Policy][]Role{
	SuperAdminOnly: {RoleSuperAdmin},
	AdminOnly:      {RoleSuperAdmin, RoleAdmin},
	UserOnly:       {RoleSuperAdmin, RoleAdmin, RoleUser},
}

// Allowed reports whether the caller's role claim satisfies the policy.
// Unknown policies and unknown roles deny.
func Allowed(p Policy, role string) bool {
	required, ok := policies[p]
	if !ok {
		return false
	}
	return slices.Contains(required, Role(role))
}
