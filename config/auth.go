package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword verifies credentials against the portal's own user table.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth uses OAuth/OIDC single sign-on.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"campus-portal"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"campus-portal"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// RoleMappingConfig controls how an SSO identity resolves to a portal role.
// RoleClaim is a JMESPath expression over the ID-token claims; when empty
// or unmatched, directory-group membership decides.
type RoleMappingConfig struct {
	RoleClaim      string `env:"ROLE_CLAIM"`
	AdminGroup     string `env:"ADMIN_GROUP"     envDefault:"portal-admins"`
	UndergradGroup string `env:"UNDERGRAD_GROUP" envDefault:"portal-students-ug"`
	PostgradGroup  string `env:"POSTGRAD_GROUP"  envDefault:"portal-students-pg"`
	TeacherGroup   string `env:"TEACHER_GROUP"   envDefault:"portal-teachers"`
	CanteenGroup   string `env:"CANTEEN_GROUP"   envDefault:"portal-canteen"`
	PointGroup     string `env:"POINT_GROUP"     envDefault:"portal-points"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Email  string `env:"EMAIL"   envDefault:"dev@campus.edu"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Role   string `env:"ROLE"    envDefault:"admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SessionDuration bounds how long a login stays valid.
	SessionDuration time.Duration `env:"AUTH_SESSION_DURATION" envDefault:"8h"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// Roles maps SSO identities to portal roles (used when Mode=oauth).
	Roles RoleMappingConfig `envPrefix:"AUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
