package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_EveryRoleHasEntry(t *testing.T) {
	p := DefaultPolicy()

	for _, role := range Roles() {
		prefixes, err := p.AllowedPrefixes(role)
		require.NoError(t, err, "role %q must have a policy entry", role)
		require.NotEmpty(t, prefixes)

		// The default route must sit inside the role's own prefixes.
		def, err := p.DefaultRoute(role)
		require.NoError(t, err)
		ok, err := p.IsAuthorized(role, def)
		require.NoError(t, err)
		assert.True(t, ok, "default route %q for role %q must be authorized", def, role)
	}
}

func TestPolicy_DefaultRoutes(t *testing.T) {
	p := DefaultPolicy()

	want := map[Role]string{
		RoleAdmin:         "/admin",
		RoleUndergrad:     "/student",
		RolePostgrad:      "/student",
		RoleTeacher:       "/teacher",
		RoleCanteen:       "/canteen",
		RoleLocationPoint: "/point",
	}
	for role, route := range want {
		got, err := p.DefaultRoute(role)
		require.NoError(t, err)
		assert.Equal(t, route, got, "role %q", role)
	}
}

func TestPolicy_IsAuthorized(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name string
		role Role
		path string
		want bool
	}{
		{"own root", RoleAdmin, "/admin", true},
		{"own descendant", RoleAdmin, "/admin/users", true},
		{"deep descendant", RoleUndergrad, "/student/marks/midterm", true},
		{"postgrad shares student subtree", RolePostgrad, "/student/marks", true},
		{"login always reachable", RoleCanteen, "/login", true},
		{"other role subtree", RoleTeacher, "/admin", false},
		{"canteen cannot reach point", RoleCanteen, "/point/location", false},
		{"segment prefix not substring", RoleUndergrad, "/studentx", false},
		{"segment prefix not substring deep", RoleUndergrad, "/students/marks", false},
		{"root is nobody's", RoleTeacher, "/", false},
		{"teacher own subtree", RoleTeacher, "/teacher/enrollment", true},
		{"point own subtree", RoleLocationPoint, "/point/location", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.IsAuthorized(tt.role, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_CrossRoleDenial(t *testing.T) {
	p := DefaultPolicy()

	// No role may reach another role's default route.
	for _, role := range Roles() {
		for _, other := range Roles() {
			otherDef, err := p.DefaultRoute(other)
			require.NoError(t, err)
			ok, err := p.IsAuthorized(role, otherDef)
			require.NoError(t, err)

			sameSubtree := role == other ||
				(role.IsStudent() && other.IsStudent())
			assert.Equal(t, sameSubtree, ok,
				"role %q requesting %q's default route %q", role, other, otherDef)
		}
	}
}

func TestPolicy_UnknownRole(t *testing.T) {
	p := DefaultPolicy()

	_, err := p.AllowedPrefixes(Role("bogus"))
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = p.DefaultRoute(Role("bogus"))
	assert.ErrorIs(t, err, ErrUnknownRole)

	// Unknown roles are denied for every path, login included.
	for _, path := range []string{"/", "/login", "/admin", "/student/marks"} {
		ok, err := p.IsAuthorized(Role("bogus"), path)
		assert.ErrorIs(t, err, ErrUnknownRole)
		assert.False(t, ok, "path %q", path)
	}
}
