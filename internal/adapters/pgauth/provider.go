package pgauth

// Package pgauth verifies password credentials against the users table.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

// ErrInvalidCredentials is returned for any failed login attempt. The cause
// (unknown email, wrong password, wrong login surface) is never revealed to
// the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

const defaultSessionDuration = 8 * time.Hour

// Provider implements ports.Authenticator using bcrypt hashes stored in
// Postgres.
type Provider struct {
	users           *data.UserRepo
	sessionDuration time.Duration
}

// NewProvider constructs a password authenticator.
func NewProvider(users *data.UserRepo) *Provider {
	return &Provider{users: users, sessionDuration: defaultSessionDuration}
}

// NewProviderWithSessionDuration constructs a password authenticator with a
// custom session lifetime.
func NewProviderWithSessionDuration(users *data.UserRepo, dur time.Duration) *Provider {
	if dur <= 0 {
		dur = defaultSessionDuration
	}
	return &Provider{users: users, sessionDuration: dur}
}

// Authenticate verifies the email/password pair. When creds.ExpectRole is
// set, an account holding a different role is rejected as if the password
// were wrong: the undergrad login surface never logs in a postgrad. When
// creds.RejectStudents is set, student accounts are rejected the same way.
func (p *Provider) Authenticate(
	ctx context.Context,
	creds ports.Credentials,
) (domainauth.Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	user, err := p.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			// Burn a comparison so unknown and known emails take
			// comparable time.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return domainauth.Identity{}, ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	if creds.ExpectRole != "" && user.Role != creds.ExpectRole {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	if creds.RejectStudents && user.Role.IsStudent() {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	identity := domainauth.Identity{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}
	if user.Department != nil {
		identity.Department = *user.Department
	}
	if user.Semester != nil {
		identity.Semester = *user.Semester
	}
	return identity, nil
}

// HashPassword produces a bcrypt hash for storage alongside a new account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// dummyHash is a valid bcrypt hash of an unguessable value, used only to
// equalize timing for unknown emails.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
