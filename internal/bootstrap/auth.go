package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/neduet/campus-api/config"
	"github.com/neduet/campus-api/internal/adapters/authroles"
	"github.com/neduet/campus-api/internal/adapters/devauth"
	"github.com/neduet/campus-api/internal/adapters/oidc"
	"github.com/neduet/campus-api/internal/adapters/pgauth"
	redisadapter "github.com/neduet/campus-api/internal/adapters/redis"
	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
	"github.com/neduet/campus-api/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("auth mode %q: redis client is required for the session store", deps.Auth.Mode)
	}
	sessionStore := redisadapter.NewSessionStore(deps.RedisClient)

	switch deps.Auth.Mode {
	case config.AuthModePassword:
		return buildPasswordAuthService(deps, sessionStore)
	case config.AuthModeOAuth:
		return buildOAuthService(deps, sessionStore)
	case config.AuthModeMock:
		return buildDevAuthService(deps, sessionStore)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", deps.Auth.Mode)
	}
}

func buildPasswordAuthService(deps AuthDeps, store ports.SessionStore) (*service.AuthService, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("auth mode %q: database is required", deps.Auth.Mode)
	}
	prov := pgauth.NewProviderWithSessionDuration(data.NewUserRepo(deps.DB), deps.Auth.SessionDuration)
	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: prov,
		Sessions:      store,
	}), nil
}

func buildOAuthService(deps AuthDeps, store ports.SessionStore) (*service.AuthService, error) {
	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     deps.Auth.OAuth.ClientID,
		ClientSecret: deps.Auth.OAuth.ClientSecret,
		RedirectURL:  deps.Auth.OAuth.RedirectURL,
		Scope:        deps.Auth.OAuth.Scope,
		DiscoveryURL: deps.Auth.OAuth.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build oidc provider: %w", err)
	}

	mapper, err := authroles.NewClaimMapper(authroles.ClaimMapperConfig{
		RoleClaim:      deps.Auth.Roles.RoleClaim,
		AdminGroup:     deps.Auth.Roles.AdminGroup,
		UndergradGroup: deps.Auth.Roles.UndergradGroup,
		PostgradGroup:  deps.Auth.Roles.PostgradGroup,
		TeacherGroup:   deps.Auth.Roles.TeacherGroup,
		CanteenGroup:   deps.Auth.Roles.CanteenGroup,
		PointGroup:     deps.Auth.Roles.PointGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("build role mapper: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		SSO:      prov,
		Sessions: store,
		Roles:    mapper,
	}), nil
}

func buildDevAuthService(deps AuthDeps, store ports.SessionStore) (*service.AuthService, error) {
	if deps.Logger != nil {
		deps.Logger.Warn("mock auth enabled; do not use in production",
			"user", deps.Auth.DevAuth.UserID,
			"role", deps.Auth.DevAuth.Role,
		)
	}

	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          deps.Auth.DevAuth.UserID,
		Email:           deps.Auth.DevAuth.Email,
		Name:            deps.Auth.DevAuth.Name,
		Role:            domainauth.Role(deps.Auth.DevAuth.Role),
		SessionDuration: deps.Auth.SessionDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("build dev auth provider: %w", err)
	}

	// The dev provider doubles as both login paths, so both work locally.
	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: prov,
		SSO:           prov,
		Sessions:      store,
		Roles:         identityRoleMapper{},
	}), nil
}

// identityRoleMapper trusts the role already present on the identity. Only
// the dev provider uses it; real SSO identities go through the claim mapper.
type identityRoleMapper struct{}

func (identityRoleMapper) Map(identity domainauth.Identity) (domainauth.Role, error) {
	return domainauth.ParseRole(string(identity.Role))
}
