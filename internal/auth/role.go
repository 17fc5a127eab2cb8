package auth

import "github.com/rotisserie/eris"

// Role is the privilege level attached to a user account. Roles are ordered:
// every capability of a lower role is available to the higher ones.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ErrInvalidRole indicates a role value outside the known set.
var ErrInvalidRole = eris.New("invalid role")

// ParseRole validates a raw role value against the known set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(raw), nil
	default:
		return "", eris.Wrapf(ErrInvalidRole, "unknown role: %q", raw)
	}
}

// Level returns the ordinal privilege level of the role. Unknown roles rank
// below every known one.
func (r Role) Level() int {
	switch r {
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
