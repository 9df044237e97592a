// AngelaMos | 2026
// role.go

package authz

import (
	"slices"
)

type Role string

const (
	RolePlatformOwner Role = "PlatformOwner"
	RoleCompanyAdmin  Role = "CompanyAdmin"
	RoleSupervisor    Role = "Supervisor"
	RoleGuard         Role = "Guard"
)

var allRoles = []Role{
	RolePlatformOwner,
	RoleCompanyAdmin,
	RoleSupervisor,
	RoleGuard,
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if slices.Contains(allRoles, r) {
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Policy is a named, explicit allow-set of roles. Membership is the only
// thing it checks; tenant ownership is a separate gate.
type Policy struct {
	name    string
	allowed []Role
}

func NewPolicy(name string, roles ...Role) Policy {
	return Policy{name: name, allowed: slices.Clone(roles)}
}

func (p Policy) Name() string {
	return p.name
}

func (p Policy) Allows(role Role) bool {
	return slices.Contains(p.allowed, role)
}

func (p Policy) Roles() []Role {
	return slices.Clone(p.allowed)
}

var (
	PlatformOwnerOnly = NewPolicy(
		"PlatformOwnerOnly",
		RolePlatformOwner,
	)
	CompanyAdminAndAbove = NewPolicy(
		"CompanyAdminAndAbove",
		RolePlatformOwner,
		RoleCompanyAdmin,
	)
	SupervisorAndAbove = NewPolicy(
		"SupervisorAndAbove",
		RolePlatformOwner,
		RoleCompanyAdmin,
		RoleSupervisor,
	)
	AllRoles = NewPolicy(
		"AllRoles",
		RolePlatformOwner,
		RoleCompanyAdmin,
		RoleSupervisor,
		RoleGuard,
	)
	GuardOnly = NewPolicy(
		"GuardOnly",
		RoleGuard,
	)
)

// Authorize reports whether the principal's role is in the policy's
// allow-set. A nil principal is never authorized.
func Authorize(p *Principal, policy Policy) bool {
	if p == nil {
		return false
	}
	return policy.Allows(p.Role)
}

// CanAssignRole reports whether p may create a user holding role.
// PlatformOwner accounts can only be minted by another PlatformOwner.
func CanAssignRole(p *Principal, role Role) bool {
	if p == nil || !role.Valid() {
		return false
	}

	switch p.Role {
	case RolePlatformOwner:
		return true
	case RoleCompanyAdmin:
		return role != RolePlatformOwner
	default:
		return false
	}
}
