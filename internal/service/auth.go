package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

// ErrSessionExpired is returned when a session exists but has passed its expiry.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceOptions groups dependencies for AuthService. Authenticator
// serves password logins, SSO serves the IdP flow; either may be nil when
// the corresponding mode is disabled.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator
	SSO           ports.SSOProvider
	Sessions      ports.SessionStore
	Roles         ports.RoleMapper
}

// AuthService orchestrates authentication flows: credential or code
// exchange, role resolution, and session persistence.
type AuthService struct {
	authenticator ports.Authenticator
	sso           ports.SSOProvider
	sessions      ports.SessionStore
	roles         ports.RoleMapper
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		authenticator: opts.Authenticator,
		sso:           opts.SSO,
		sessions:      opts.Sessions,
		roles:         opts.Roles,
	}
}

// PasswordLogin verifies credentials and persists a session. The returned
// session's ID is the opaque token handed to the client.
func (s *AuthService) PasswordLogin(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
	if s.authenticator == nil {
		return nil, errors.New("password login is not enabled")
	}

	identity, err := s.authenticator.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	if _, roleErr := domainauth.ParseRole(string(identity.Role)); roleErr != nil {
		return nil, roleErr
	}

	session := sessionFromIdentity(identity, identity.Role)
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &session, nil
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSOLogin initiates an SSO flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginSSOLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.sso == nil {
		return nil, errors.New("sso login is not enabled")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSOLogin exchanges the code for an identity, resolves the role
// through the mapper, and persists a session. An identity whose claims
// resolve to no recognized role is rejected outright.
func (s *AuthService) CompleteSSOLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.sso == nil {
		return nil, errors.New("sso login is not enabled")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.sso.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role, err := s.roles.Map(identity)
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	session := sessionFromIdentity(identity, role)
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &session, nil
}

// GetSession retrieves a session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Logout removes a session. A missing or empty session ID is a no-op:
// logging out twice is as good as logging out once.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionFromIdentity(identity domainauth.Identity, role domainauth.Role) domainauth.Session {
	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(8 * time.Hour)
	}
	return domainauth.Session{
		ID:         generateSessionID(),
		UserID:     identity.UserID,
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       role,
		Department: identity.Department,
		Semester:   identity.Semester,
		ExpiresAt:  expiresAt,
	}
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
