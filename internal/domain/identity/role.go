package identity

// Role is the user's position within a company. The set is closed.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleAdmin        Role = "admin"
	RoleAccountant   Role = "accountant"
	RoleStaff        Role = "staff"
)

// AllRoles returns every defined role, most privileged first
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleCompanyAdmin, RoleAdmin, RoleAccountant, RoleStaff}
}

// IsValid checks if the role is one of the defined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleAdmin, RoleAccountant, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// rank orders roles by privilege; higher outranks lower
func (r Role) rank() int {
	switch r {
	case RoleSuperAdmin:
		return 5
	case RoleCompanyAdmin:
		return 4
	case RoleAdmin:
		return 3
	case RoleAccountant:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

// CanAssign reports whether a user holding r may grant target to someone else.
// Nobody can grant a role above their own.
func (r Role) CanAssign(target Role) bool {
	return target.IsValid() && r.rank() >= target.rank()
}
