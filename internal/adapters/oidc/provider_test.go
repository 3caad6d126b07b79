package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	claims := map[string]any{
		"sub":                "abc-123",
		"preferred_username": "jsmith",
		"email":              "jsmith@campus.edu",
		"name":               "Jordan Smith",
		"groups":             []any{"portal-teachers", "staff"},
	}

	id := identityFromClaims(claims)
	assert.Equal(t, "jsmith", id.UserID)
	assert.Equal(t, "jsmith@campus.edu", id.Email)
	assert.Equal(t, "Jordan Smith", id.Name)
	assert.Equal(t, []string{"portal-teachers", "staff"}, id.Groups)
	assert.Equal(t, claims, id.RawClaims)
}

func TestIdentityFromClaimsFallbacks(t *testing.T) {
	id := identityFromClaims(map[string]any{
		"sub":         "abc-123",
		"given_name":  "Jordan",
		"family_name": "Smith",
	})
	assert.Equal(t, "abc-123", id.UserID, "sub is the user id when preferred_username is absent")
	assert.Equal(t, "Jordan Smith", id.Name)
	assert.Empty(t, id.Groups)
}

func TestGenerateRandomString(t *testing.T) {
	a, err := generateRandomString(32)
	require.NoError(t, err)
	b, err := generateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)
}

func TestNewProviderValidation(t *testing.T) {
	_, err := NewProvider(ProviderConfig{})
	require.Error(t, err)

	_, err = NewProvider(ProviderConfig{ClientID: "id"})
	require.Error(t, err)
}
