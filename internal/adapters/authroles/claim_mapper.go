package authroles

// Package authroles resolves SSO identities to portal roles.

import (
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

// ClaimMapperConfig controls how an IdP identity maps to a portal role.
//
// RoleClaim, when set, is a JMESPath expression evaluated against the raw
// ID-token claims; it must yield one of the portal role strings (IdPs that
// carry the role as a custom claim, e.g. `portal_role` or
// `resource_access.portal.roles[0]`). When RoleClaim is empty or yields
// nothing, the mapper falls back to directory-group membership.
type ClaimMapperConfig struct {
	RoleClaim string

	AdminGroup     string
	UndergradGroup string
	PostgradGroup  string
	TeacherGroup   string
	CanteenGroup   string
	PointGroup     string
}

// ClaimMapper implements ports.RoleMapper over ClaimMapperConfig.
type ClaimMapper struct {
	cfg ClaimMapperConfig
}

// NewClaimMapper validates the RoleClaim expression up front so a bad
// expression fails at startup, not on the first login.
func NewClaimMapper(cfg ClaimMapperConfig) (*ClaimMapper, error) {
	if cfg.RoleClaim != "" {
		if _, err := jmespath.Compile(cfg.RoleClaim); err != nil {
			return nil, fmt.Errorf("compile role claim expression %q: %w", cfg.RoleClaim, err)
		}
	}
	return &ClaimMapper{cfg: cfg}, nil
}

// Map resolves the identity to a role. An identity matching nothing is an
// error: there is no guest tier in the portal, and an unresolvable principal
// must not be let in with a guessed role.
func (m *ClaimMapper) Map(identity domainauth.Identity) (domainauth.Role, error) {
	if role, ok, err := m.roleFromClaim(identity); err != nil {
		return "", err
	} else if ok {
		return role, nil
	}

	groupRoles := []struct {
		group string
		role  domainauth.Role
	}{
		{m.cfg.AdminGroup, domainauth.RoleAdmin},
		{m.cfg.TeacherGroup, domainauth.RoleTeacher},
		{m.cfg.PostgradGroup, domainauth.RolePostgrad},
		{m.cfg.UndergradGroup, domainauth.RoleUndergrad},
		{m.cfg.CanteenGroup, domainauth.RoleCanteen},
		{m.cfg.PointGroup, domainauth.RoleLocationPoint},
	}
	for _, gr := range groupRoles {
		if gr.group == "" {
			continue
		}
		for _, g := range identity.Groups {
			if g == gr.group {
				return gr.role, nil
			}
		}
	}

	return "", fmt.Errorf("identity %q matches no portal role: %w",
		identity.UserID, domainauth.ErrUnknownRole)
}

// roleFromClaim evaluates the configured claim expression, when any.
func (m *ClaimMapper) roleFromClaim(identity domainauth.Identity) (domainauth.Role, bool, error) {
	if m.cfg.RoleClaim == "" || identity.RawClaims == nil {
		return "", false, nil
	}

	out, err := jmespath.Search(m.cfg.RoleClaim, identity.RawClaims)
	if err != nil {
		return "", false, fmt.Errorf("evaluate role claim: %w", err)
	}
	raw, ok := out.(string)
	if !ok || raw == "" {
		// Claim absent for this principal; fall through to groups.
		return "", false, nil
	}

	role, err := domainauth.ParseRole(raw)
	if err != nil {
		return "", false, fmt.Errorf("role claim yielded %q: %w", raw, err)
	}
	return role, true, nil
}
