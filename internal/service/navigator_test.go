package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	mockauth "github.com/neduet/campus-api/internal/mocks/auth"
)

func newNavigatorFixture(t *testing.T) (*Navigator, *mockauth.MemorySessionStore) {
	t.Helper()
	store := mockauth.NewMemorySessionStore()
	auth := NewAuthService(AuthServiceOptions{Sessions: store})
	return NewNavigator(auth, domainauth.DefaultPolicy()), store
}

func storeSession(t *testing.T, store *mockauth.MemorySessionStore, role domainauth.Role) domainauth.Session {
	t.Helper()
	sess := domainauth.Session{
		ID:        "sess-" + string(role),
		UserID:    "user-1",
		Name:      "Test User",
		Email:     "user@campus.edu",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

func TestResolveNoSessionRedirectsToLogin(t *testing.T) {
	nav, _ := newNavigatorFixture(t)

	res := nav.Resolve(context.Background(), "", "/student/marks")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialNoSession, res.Reason)
	assert.Equal(t, "/login?return_to=%2Fstudent%2Fmarks", res.RedirectTo)
}

func TestResolveUnknownTokenRedirectsToLogin(t *testing.T) {
	nav, _ := newNavigatorFixture(t)

	res := nav.Resolve(context.Background(), "no-such-token", "/admin")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialNoSession, res.Reason)
}

func TestResolveAuthorizedPathAllows(t *testing.T) {
	nav, store := newNavigatorFixture(t)

	for role, path := range map[domainauth.Role]string{
		domainauth.RoleAdmin:         "/admin/enrollment",
		domainauth.RoleUndergrad:     "/student/marks",
		domainauth.RolePostgrad:      "/student",
		domainauth.RoleTeacher:       "/teacher/attendance",
		domainauth.RoleCanteen:       "/canteen",
		domainauth.RoleLocationPoint: "/point",
	} {
		sess := storeSession(t, store, role)
		res := nav.Resolve(context.Background(), sess.ID, path)
		assert.True(t, res.Allowed, "%s should reach %s", role, path)
		require.NotNil(t, res.Session)
		assert.Equal(t, role, res.Session.Role)
	}
}

func TestResolveCrossRolePathRedirectsHome(t *testing.T) {
	nav, store := newNavigatorFixture(t)
	sess := storeSession(t, store, domainauth.RoleUndergrad)

	res := nav.Resolve(context.Background(), sess.ID, "/admin/users")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialUnauthorized, res.Reason)
	assert.Equal(t, "/student?denied=1", res.RedirectTo)
	require.NotNil(t, res.Session, "a denied-but-authenticated user keeps their session")
}

func TestResolveSubstringPathIsNotAuthorized(t *testing.T) {
	nav, store := newNavigatorFixture(t)
	sess := storeSession(t, store, domainauth.RoleUndergrad)

	res := nav.Resolve(context.Background(), sess.ID, "/studentx")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialUnauthorized, res.Reason)
}

func TestResolveLoginAlwaysReachable(t *testing.T) {
	nav, store := newNavigatorFixture(t)

	res := nav.Resolve(context.Background(), "", "/login")
	assert.True(t, res.Allowed, "login must be reachable without a session")

	sess := storeSession(t, store, domainauth.RoleTeacher)
	res = nav.Resolve(context.Background(), sess.ID, "/login")
	assert.True(t, res.Allowed, "login must be reachable with a session")
}

func TestResolveExpiredSessionBehavesLikeNoSession(t *testing.T) {
	nav, store := newNavigatorFixture(t)
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:        "expired",
		UserID:    "user-1",
		Name:      "Test User",
		Email:     "user@campus.edu",
		Role:      domainauth.RoleTeacher,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	res := nav.Resolve(context.Background(), "expired", "/teacher")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialNoSession, res.Reason)
	assert.Equal(t, "/login?return_to=%2Fteacher", res.RedirectTo)
}

// unknownRoleStore returns a session holding a role outside the enum,
// e.g. one written by an older deployment.
type unknownRoleStore struct{}

func (unknownRoleStore) Save(context.Context, domainauth.Session) error { return nil }
func (unknownRoleStore) Delete(context.Context, string) error           { return nil }
func (unknownRoleStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-9",
		Role:      domainauth.Role("superuser"),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func TestResolveUnknownRoleBehavesLikeNoSession(t *testing.T) {
	auth := NewAuthService(AuthServiceOptions{Sessions: unknownRoleStore{}})
	nav := NewNavigator(auth, domainauth.DefaultPolicy())

	res := nav.Resolve(context.Background(), "tampered", "/canteen")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialNoSession, res.Reason)
	assert.Equal(t, "/login?return_to=%2Fcanteen", res.RedirectTo)
}

func TestResolveStorageFailureRedirectsToLogin(t *testing.T) {
	nav, store := newNavigatorFixture(t)
	sess := storeSession(t, store, domainauth.RoleAdmin)
	store.FailReads = true

	res := nav.Resolve(context.Background(), sess.ID, "/admin")
	assert.False(t, res.Allowed)
	assert.Equal(t, DenialNoSession, res.Reason, "an unreadable store must deny, not crash")
}

func TestResolveUnsafeReturnPathDropped(t *testing.T) {
	nav, _ := newNavigatorFixture(t)

	res := nav.Resolve(context.Background(), "", "//evil.com/phish")
	assert.Equal(t, "/login", res.RedirectTo, "scheme-relative paths never ride along")
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/":                "/",
		"/student/":        "/student",
		"/student?tab=1":   "/student",
		"student":          "/student",
		"/student/marks/":  "/student/marks",
		"/student#section": "/student",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), "normalizePath(%q)", in)
	}
}
