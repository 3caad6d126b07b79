package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

func testConfig() ClaimMapperConfig {
	return ClaimMapperConfig{
		AdminGroup:     "portal-admins",
		UndergradGroup: "students-ug",
		PostgradGroup:  "students-pg",
		TeacherGroup:   "faculty",
		CanteenGroup:   "canteen-staff",
		PointGroup:     "location-points",
	}
}

func TestClaimMapper_GroupMembership(t *testing.T) {
	m, err := NewClaimMapper(testConfig())
	require.NoError(t, err)

	tests := []struct {
		groups []string
		want   domainauth.Role
	}{
		{[]string{"portal-admins"}, domainauth.RoleAdmin},
		{[]string{"misc", "faculty"}, domainauth.RoleTeacher},
		{[]string{"students-ug"}, domainauth.RoleUndergrad},
		{[]string{"students-pg"}, domainauth.RolePostgrad},
		{[]string{"canteen-staff"}, domainauth.RoleCanteen},
		{[]string{"location-points"}, domainauth.RoleLocationPoint},
		// Admin wins over student when both groups are present.
		{[]string{"students-ug", "portal-admins"}, domainauth.RoleAdmin},
	}
	for _, tt := range tests {
		got, err := m.Map(domainauth.Identity{UserID: "u1", Groups: tt.groups})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "groups %v", tt.groups)
	}
}

func TestClaimMapper_NoMatchIsDenied(t *testing.T) {
	m, err := NewClaimMapper(testConfig())
	require.NoError(t, err)

	_, err = m.Map(domainauth.Identity{UserID: "u1", Groups: []string{"unrelated"}})
	assert.ErrorIs(t, err, domainauth.ErrUnknownRole)

	_, err = m.Map(domainauth.Identity{UserID: "u1"})
	assert.ErrorIs(t, err, domainauth.ErrUnknownRole)
}

func TestClaimMapper_RoleClaim(t *testing.T) {
	cfg := testConfig()
	cfg.RoleClaim = "portal_role"
	m, err := NewClaimMapper(cfg)
	require.NoError(t, err)

	got, err := m.Map(domainauth.Identity{
		UserID:    "u1",
		RawClaims: map[string]any{"portal_role": "teacher"},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleTeacher, got)
}

func TestClaimMapper_NestedRoleClaim(t *testing.T) {
	cfg := testConfig()
	cfg.RoleClaim = "resource_access.portal.roles[0]"
	m, err := NewClaimMapper(cfg)
	require.NoError(t, err)

	got, err := m.Map(domainauth.Identity{
		UserID: "u1",
		RawClaims: map[string]any{
			"resource_access": map[string]any{
				"portal": map[string]any{"roles": []any{"canteen"}},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleCanteen, got)
}

func TestClaimMapper_RoleClaimOutsideEnumFails(t *testing.T) {
	cfg := testConfig()
	cfg.RoleClaim = "portal_role"
	m, err := NewClaimMapper(cfg)
	require.NoError(t, err)

	_, err = m.Map(domainauth.Identity{
		UserID:    "u1",
		RawClaims: map[string]any{"portal_role": "superuser"},
	})
	assert.ErrorIs(t, err, domainauth.ErrUnknownRole)
}

func TestClaimMapper_AbsentClaimFallsBackToGroups(t *testing.T) {
	cfg := testConfig()
	cfg.RoleClaim = "portal_role"
	m, err := NewClaimMapper(cfg)
	require.NoError(t, err)

	got, err := m.Map(domainauth.Identity{
		UserID:    "u1",
		Groups:    []string{"faculty"},
		RawClaims: map[string]any{"sub": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleTeacher, got)
}

func TestNewClaimMapper_BadExpression(t *testing.T) {
	cfg := testConfig()
	cfg.RoleClaim = "roles[["
	_, err := NewClaimMapper(cfg)
	assert.Error(t, err)
}
