package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		got, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, got)
	}

	for _, raw := range []string{"", "bogus", "Admin", "student", "ADMIN", "admin "} {
		_, err := ParseRole(raw)
		assert.ErrorIs(t, err, ErrUnknownRole, "raw %q", raw)
	}
}

func TestRole_IsStudent(t *testing.T) {
	assert.True(t, RoleUndergrad.IsStudent())
	assert.True(t, RolePostgrad.IsStudent())
	assert.False(t, RoleAdmin.IsStudent())
	assert.False(t, RoleTeacher.IsStudent())
}

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{"token and role", Session{ID: "tok", Role: RoleTeacher}, true},
		{"missing role", Session{ID: "tok"}, false},
		{"missing token", Session{Role: RoleTeacher}, false},
		{"empty", Session{}, false},
		{"unknown role", Session{ID: "tok", Role: Role("bogus")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Valid())
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, Session{}.Expired(now), "zero expiry never expires")
	assert.False(t, Session{ExpiresAt: now.Add(time.Hour)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
}
