package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/mocks"
	mockauth "github.com/neduet/campus-api/internal/mocks/auth"
	"github.com/neduet/campus-api/internal/ports"
)

func TestPasswordLogin(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	authn := mockauth.NewMockAuthenticator()
	svc := NewAuthService(AuthServiceOptions{Authenticator: authn, Sessions: store})

	sess, err := svc.PasswordLogin(context.Background(), ports.Credentials{
		Email:    "mock.user@campus.edu",
		Password: "whatever",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domainauth.RoleUndergrad, sess.Role)
	assert.Equal(t, 1, store.Len())

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *sess, stored)
}

func TestPasswordLoginPropagatesAuthFailure(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	authn := &mockauth.MockAuthenticator{
		AuthenticateFunc: func(context.Context, ports.Credentials) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("invalid credentials")
		},
	}
	svc := NewAuthService(AuthServiceOptions{Authenticator: authn, Sessions: store})

	_, err := svc.PasswordLogin(context.Background(), ports.Credentials{Email: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len(), "no session may be persisted on a failed login")
}

func TestPasswordLoginRejectsUnknownRoleIdentity(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	authn := &mockauth.MockAuthenticator{
		AuthenticateFunc: func(context.Context, ports.Credentials) (domainauth.Identity, error) {
			return domainauth.Identity{UserID: "u", Role: "superuser", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := NewAuthService(AuthServiceOptions{Authenticator: authn, Sessions: store})

	_, err := svc.PasswordLogin(context.Background(), ports.Credentials{Email: "x", Password: "y"})
	assert.ErrorIs(t, err, domainauth.ErrUnknownRole)
	assert.Equal(t, 0, store.Len())
}

func TestSSOLoginFlow(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	sso := mockauth.NewMockSSOProvider()
	mapper := mockauth.StaticRoleMapper{
		GroupRoles: map[string]domainauth.Role{"portal-students-ug": domainauth.RoleUndergrad},
	}
	svc := NewAuthService(AuthServiceOptions{SSO: sso, Sessions: store, Roles: mapper})

	begin, err := svc.BeginSSOLogin(context.Background(), "https://portal/api/auth/callback")
	require.NoError(t, err)
	assert.NotEmpty(t, begin.AuthURL)
	assert.NotEmpty(t, begin.State)
	assert.NotEmpty(t, begin.Nonce)

	sess, err := svc.CompleteSSOLogin(context.Background(), CompleteLoginInput{
		Code:  "code",
		State: begin.State,
		Nonce: begin.Nonce,
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUndergrad, sess.Role)
	assert.Equal(t, "mock-user-1", sess.UserID)
}

func TestCompleteSSOLoginRejectsUnmappableIdentity(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	sso := mockauth.NewMockSSOProvider()
	sso.DefaultUser.Groups = []string{"nobody-knows-this-group"}
	mapper := mockauth.StaticRoleMapper{
		GroupRoles: map[string]domainauth.Role{"portal-students-ug": domainauth.RoleUndergrad},
	}
	svc := NewAuthService(AuthServiceOptions{SSO: sso, Sessions: store, Roles: mapper})

	_, err := svc.CompleteSSOLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "s", Nonce: "n",
	})
	assert.ErrorIs(t, err, domainauth.ErrUnknownRole)
	assert.Equal(t, 0, store.Len())
}

func TestGetSessionExpiredIsDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	expired := domainauth.Session{
		ID:        "sess-1",
		UserID:    "u",
		Role:      domainauth.RoleTeacher,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	store.EXPECT().Get(gomock.Any(), "sess-1").Return(expired, nil)
	store.EXPECT().Delete(gomock.Any(), "sess-1").Return(nil)

	_, err := svc.GetSession(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogout(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	authn := mockauth.NewMockAuthenticator()
	svc := NewAuthService(AuthServiceOptions{Authenticator: authn, Sessions: store})

	sess, err := svc.PasswordLogin(context.Background(), ports.Credentials{Email: "e", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	assert.Equal(t, 0, store.Len())

	// Idempotent: clearing again, or clearing nothing, succeeds.
	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	require.NoError(t, svc.Logout(context.Background(), ""))
}
