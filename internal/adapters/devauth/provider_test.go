package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)

	_, err = NewProvider(Config{UserID: "dev", Email: "dev@campus.edu", Role: "superuser"})
	require.ErrorIs(t, err, domainauth.ErrUnknownRole)
}

func TestAuthenticateReturnsConfiguredIdentity(t *testing.T) {
	p, err := NewProvider(Config{
		UserID: "dev",
		Email:  "dev@campus.edu",
		Role:   domainauth.RoleAdmin,
	})
	require.NoError(t, err)

	id, err := p.Authenticate(context.Background(), ports.Credentials{Email: "ignored", Password: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "dev", id.UserID)
	assert.Equal(t, domainauth.RoleAdmin, id.Role)
	assert.False(t, id.ExpiresAt.IsZero())
}

func TestBeginAndExchange(t *testing.T) {
	p, err := NewProvider(Config{
		UserID: "dev",
		Email:  "dev@campus.edu",
		Role:   domainauth.RoleTeacher,
	})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.Contains(t, authURL, state)
	assert.NotEmpty(t, nonce)

	id, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleTeacher, id.Role)
}
