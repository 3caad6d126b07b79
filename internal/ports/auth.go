package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

// Credentials carries a password login attempt. ExpectRole, when non-empty,
// pins the role the caller's login surface accepts (the undergrad and
// postgrad login tabs each reject the other kind of student).
// RejectStudents turns away student accounts without pinning a single role;
// the staff login surface sets it.
type Credentials struct {
	Email          string
	Password       string
	ExpectRole     domainauth.Role
	RejectStudents bool
}

// Authenticator verifies credentials against a user directory and returns
// the authenticated identity, role included.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (domainauth.Identity, error)
}

// BeginInput carries inputs for initiating an SSO auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the SSO code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes an authentication flow against an IdP.
// Identities returned from Exchange carry groups and raw claims; role
// resolution happens through a RoleMapper.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions. Get must fail soft:
// a missing or malformed record is reported as absence, never as a crash.
// Delete is idempotent.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper resolves an SSO identity's claims to a portal role.
type RoleMapper interface {
	Map(identity domainauth.Identity) (domainauth.Role, error)
}
