package auth

import "strings"

// Policy is the compiled-in mapping from role to reachable route prefixes
// and default landing route. It is a process-wide constant table: defined
// once at init, never mutated.
//
// Each role owns exactly its own subtree; there are no cross-role prefixes.
// "/login" is reachable for everyone, session or not.
type Policy struct {
	entries map[Role]policyEntry
}

type policyEntry struct {
	prefixes     []string
	defaultRoute string
}

// LoginRoute is the only route reachable without a session.
const LoginRoute = "/login"

// DefaultPolicy returns the portal's static route policy.
func DefaultPolicy() *Policy {
	return &Policy{entries: map[Role]policyEntry{
		RoleAdmin:         {prefixes: []string{"/admin"}, defaultRoute: "/admin"},
		RoleUndergrad:     {prefixes: []string{"/student"}, defaultRoute: "/student"},
		RolePostgrad:      {prefixes: []string{"/student"}, defaultRoute: "/student"},
		RoleTeacher:       {prefixes: []string{"/teacher"}, defaultRoute: "/teacher"},
		RoleCanteen:       {prefixes: []string{"/canteen"}, defaultRoute: "/canteen"},
		RoleLocationPoint: {prefixes: []string{"/point"}, defaultRoute: "/point"},
	}}
}

// AllowedPrefixes returns the route prefixes reachable by the role,
// including the globally reachable login route. Fails with ErrUnknownRole
// for values outside the closed enum rather than silently granting nothing
// in particular.
func (p *Policy) AllowedPrefixes(role Role) ([]string, error) {
	e, ok := p.entries[role]
	if !ok {
		return nil, ErrUnknownRole
	}
	out := make([]string, 0, len(e.prefixes)+1)
	out = append(out, e.prefixes...)
	out = append(out, LoginRoute)
	return out, nil
}

// DefaultRoute returns the canonical landing path for the role.
func (p *Policy) DefaultRoute(role Role) (string, error) {
	e, ok := p.entries[role]
	if !ok {
		return "", ErrUnknownRole
	}
	return e.defaultRoute, nil
}

// IsAuthorized reports whether the role may reach path. A path is reachable
// iff it equals, or is a path-segment descendant of, one of the role's
// allowed prefixes. Matching is per segment, never substring: "/studentx"
// is not under "/student". Unknown roles are denied with ErrUnknownRole.
func (p *Policy) IsAuthorized(role Role, path string) (bool, error) {
	prefixes, err := p.AllowedPrefixes(role)
	if err != nil {
		return false, err
	}
	for _, prefix := range prefixes {
		if pathHasSegmentPrefix(path, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// pathHasSegmentPrefix reports whether path equals prefix or descends from
// it along a path-segment boundary.
func pathHasSegmentPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return strings.HasPrefix(rest, "/")
}
