package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// Role represents a portal principal category. The set is closed: every
// role recognized anywhere in the system is one of the constants below,
// and an unrecognized value must never grant access.
// Kept in string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleUndergrad     Role = "student-undergrad"
	RolePostgrad      Role = "student-postgrad"
	RoleTeacher       Role = "teacher"
	RoleCanteen       Role = "canteen"
	RoleLocationPoint Role = "location-point"
)

// ErrUnknownRole is returned when a role value is outside the closed enum.
// Callers must treat it as a denial, never as a default grant.
var ErrUnknownRole = errors.New("unknown role")

// Roles lists every recognized role.
func Roles() []Role {
	return []Role{
		RoleAdmin,
		RoleUndergrad,
		RolePostgrad,
		RoleTeacher,
		RoleCanteen,
		RoleLocationPoint,
	}
}

// ParseRole validates a raw role string against the closed enum.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	switch r {
	case RoleAdmin, RoleUndergrad, RolePostgrad, RoleTeacher, RoleCanteen, RoleLocationPoint:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

// IsStudent reports whether the role is one of the two student kinds.
func (r Role) IsStudent() bool { return r == RoleUndergrad || r == RolePostgrad }

// Identity represents an authenticated principal as returned by an
// authenticator (password check or IdP exchange). Adapters map their
// provider-specific records into this shape.
type Identity struct {
	UserID     string
	Name       string
	Email      string
	Role       Role           // set by credential authenticators that know the role
	Groups     []string       // set by SSO providers; mapped to a Role separately
	RawClaims  map[string]any // full claim document from SSO providers, nil otherwise
	Department string
	Semester   int
	ExpiresAt  time.Time
}

// Session is the server-side record persisted for an authenticated user.
// ID doubles as the opaque credential token handed to the client; a session
// is only ever valid with both ID and Role present.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Semester   int       `json:"semester,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Valid reports whether the session is fully authenticated: token and role
// both present and the role inside the closed enum. A partially populated
// session behaves exactly like no session at all.
func (s Session) Valid() bool {
	if s.ID == "" || s.Role == "" {
		return false
	}
	_, err := ParseRole(string(s.Role))
	return err == nil
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
