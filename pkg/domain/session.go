package domain

import "time"

// Role is the kind of user a session is authenticated as.
type Role int

const (
	RoleNone Role = iota
	RolePatient
	RoleStaff
)

// Roles lists the roles a scan can authenticate, in entry-point order.
var Roles = []Role{RolePatient, RoleStaff}

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleStaff:
		return "staff"
	default:
		return "none"
	}
}

// Valid returns true for the roles a session may hold.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleStaff
}

// Status is the authentication status of a session.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the process-wide authentication state.
// Role is set if and only if Status is StatusAuthenticated.
type Session struct {
	ID              string    `json:"id,omitempty"`
	Status          Status    `json:"status"`
	Role            Role      `json:"role"`
	AuthenticatedAt time.Time `json:"authenticated_at,omitempty"`
}

// Authenticated reports whether the session holds a role.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Role.Valid()
}

// Valid checks the role/status invariant.
func (s Session) Valid() bool {
	if s.Status == StatusAuthenticated {
		return s.Role.Valid()
	}
	return s.Role == RoleNone
}
