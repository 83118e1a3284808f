package auth

// Role is the fixed set of roles the service authorizes on. Tokens carry
// the role as a string; ParseRole is the only place that string is
// interpreted.
type Role int

const (
	// RoleNone is the zero role: a token without a rol claim, or with an
	// unknown one. It passes tenant resolution but fails every privilege
	// check.
	RoleNone Role = iota
	RoleAdmin
	RoleSuperAdmin
)

const (
	roleNameAdmin      = "admin"
	roleNameSuperAdmin = "super_admin"
)

// ParseRole maps a claim string onto the role set. Unknown role names are
// tolerated and resolve to RoleNone; role absence is not a session error.
func ParseRole(name string) Role {
	switch name {
	case roleNameSuperAdmin:
		return RoleSuperAdmin
	case roleNameAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}

// Privileged reports whether the role may perform administrative user
// management within its own empresa.
func (r Role) Privileged() bool {
	return r == RoleSuperAdmin
}

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return roleNameSuperAdmin
	case RoleAdmin:
		return roleNameAdmin
	default:
		return ""
	}
}
