package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*MockAuthenticator)(nil)
	_ ports.SSOProvider   = (*MockSSOProvider)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.RoleMapper    = (*StaticRoleMapper)(nil)
)

// MockAuthenticator simulates password verification for tests.
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error)

	// DefaultIdentity is returned when AuthenticateFunc is nil.
	DefaultIdentity domainauth.Identity
}

// NewMockAuthenticator creates a MockAuthenticator yielding an undergrad identity.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		DefaultIdentity: domainauth.Identity{
			UserID:    "mock-user-1",
			Name:      "Mock User",
			Email:     "mock.user@campus.edu",
			Role:      domainauth.RoleUndergrad,
			Semester:  3,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, creds)
	}
	id := m.DefaultIdentity
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// MockSSOProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL     string
	DefaultUser domainauth.Identity

	callCount int
}

// NewMockSSOProvider creates a MockSSOProvider with sensible defaults.
func NewMockSSOProvider() *MockSSOProvider {
	return &MockSSOProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			Name:      "Mock User",
			Email:     "mock.user@campus.edu",
			Groups:    []string{"portal-students-ug"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.callCount++
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)
	return m.AuthURL, state, nonce, nil
}

func (m *MockSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests. It
// mirrors the Redis store's contract: partial sessions are refused, reads
// fail soft, deletes are idempotent.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session

	// FailReads makes every Get return an error, for storage-outage tests.
	FailReads bool
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if !sess.Valid() {
		return errors.New("refusing to persist partial session")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.FailReads {
		return domainauth.Session{}, errors.New("session store unavailable")
	}
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper maps an identity to a fixed role, or by exact group match.
type StaticRoleMapper struct {
	// Role, when set, is returned for every identity.
	Role domainauth.Role
	// GroupRoles maps group names to roles, consulted when Role is empty.
	GroupRoles map[string]domainauth.Role
}

func (m StaticRoleMapper) Map(identity domainauth.Identity) (domainauth.Role, error) {
	if m.Role != "" {
		return m.Role, nil
	}
	for _, g := range identity.Groups {
		if role, ok := m.GroupRoles[g]; ok {
			return role, nil
		}
	}
	return "", domainauth.ErrUnknownRole
}
