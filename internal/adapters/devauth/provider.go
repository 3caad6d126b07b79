package devauth

// Package devauth provides a config-driven auth provider for local
// development. It short-circuits both the password and SSO flows and
// always yields the configured identity.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID          string
	Email           string
	Name            string
	Role            domainauth.Role
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.Authenticator and ports.SSOProvider for local
// development. Exchange and Authenticate both return the configured
// identity regardless of input.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if _, err := domainauth.ParseRole(string(cfg.Role)); err != nil {
		return nil, fmt.Errorf("dev auth: %w", err)
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	name := cfg.Name
	if name == "" {
		name = cfg.UserID
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			Name:      name,
			Email:     cfg.Email,
			Role:      cfg.Role,
			ExpiresAt: time.Now().Add(dur),
		},
		sessionDuration: dur,
	}, nil
}

// Authenticate ignores the credentials and returns the dev identity.
func (p *Provider) Authenticate(_ context.Context, _ ports.Credentials) (domainauth.Identity, error) {
	return p.refreshed(), nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	authURL := "/api/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return p.refreshed(), nil
}

func (p *Provider) refreshed() domainauth.Identity {
	// Keep the expiry comfortably in the future for long dev sessions.
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return p.identity
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
