package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCreateUserFlagsRequiresIdentity(t *testing.T) {
	_, err := parseCreateUserFlags([]string{"--email", "a@campus.edu"})
	require.ErrorContains(t, err, "--email, --name, and --role are required")
}

func TestParseClearSessionsFlagsRejectsAmbiguousScope(t *testing.T) {
	_, err := parseClearSessionsFlags(nil)
	require.ErrorContains(t, err, "provide --email or --all")

	_, err = parseClearSessionsFlags([]string{"--email", "a@campus.edu", "--all"})
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestIsLikelyRemoteHost(t *testing.T) {
	require.False(t, isLikelyRemoteHost("localhost"))
	require.False(t, isLikelyRemoteHost("127.0.0.1"))
	require.False(t, isLikelyRemoteHost("10.0.0.5"))
	require.False(t, isLikelyRemoteHost("postgres"))
	require.False(t, isLikelyRemoteHost("db.campus.internal"))
	require.True(t, isLikelyRemoteHost("db.prod.campus.edu"))
	require.True(t, isLikelyRemoteHost("203.0.113.40"))
}

func TestAbbreviateToken(t *testing.T) {
	require.Equal(t, "abcd1234...", abbreviateToken("portal:session:abcd1234efgh5678"))
	require.Equal(t, "short", abbreviateToken("portal:session:short"))
}
