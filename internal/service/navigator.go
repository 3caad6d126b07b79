package service

import (
	"context"
	"net/url"
	"strings"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

// DenialReason classifies why navigation was redirected. Every denial
// resolves as a redirect, never a hard error page.
type DenialReason string

const (
	// DenialNone means the request was allowed through.
	DenialNone DenialReason = ""
	// DenialNoSession covers missing, expired, malformed, and unreadable
	// sessions alike: anything short of a fully valid session.
	DenialNoSession DenialReason = "no_session"
	// DenialUnauthorized means a valid session holds a role that does not
	// own the requested subtree.
	DenialUnauthorized DenialReason = "unauthorized_for_route"
)

// Resolution is the navigator's verdict on one (session, path) pair.
type Resolution struct {
	// Allowed is true when the request may proceed as-is.
	Allowed bool
	// RedirectTo is the route to send the client to when not allowed.
	RedirectTo string
	// Reason records why the request was redirected.
	Reason DenialReason
	// Session is the resolved session when one was valid, nil otherwise.
	Session *domainauth.Session
}

// Navigator is the route guard: it decides, for a session token and a
// requested path, whether to let the request through or where to send it
// instead. Decisions are fail-soft; no input produces an error, only a
// redirect.
type Navigator struct {
	auth   *AuthService
	policy *domainauth.Policy
}

// NewNavigator constructs a Navigator over the given auth service and policy.
func NewNavigator(auth *AuthService, policy *domainauth.Policy) *Navigator {
	return &Navigator{auth: auth, policy: policy}
}

// Policy exposes the underlying route policy table.
func (n *Navigator) Policy() *domainauth.Policy { return n.policy }

// Resolve maps a session token and requested path to a navigation verdict.
//
// The decision ladder:
//   - the login route is reachable by anyone, always;
//   - no token, unknown token, expired session, unreadable store, or a
//     session with an unrecognized role all count as "no session" and
//     redirect to the login route;
//   - a valid session on a path outside its role's subtree redirects to
//     the role's default route;
//   - otherwise the request is allowed.
func (n *Navigator) Resolve(ctx context.Context, token, path string) Resolution {
	path = normalizePath(path)

	if path == domainauth.LoginRoute || strings.HasPrefix(path, domainauth.LoginRoute+"/") {
		return Resolution{Allowed: true}
	}

	session := n.lookupSession(ctx, token)
	if session == nil {
		return Resolution{
			RedirectTo: loginRedirect(path),
			Reason:     DenialNoSession,
		}
	}

	authorized, err := n.policy.IsAuthorized(session.Role, path)
	if err != nil {
		// Unknown role in a stored session: treat exactly like no session.
		return Resolution{
			RedirectTo: loginRedirect(path),
			Reason:     DenialNoSession,
		}
	}
	if !authorized {
		home, homeErr := n.policy.DefaultRoute(session.Role)
		if homeErr != nil {
			return Resolution{
				RedirectTo: loginRedirect(path),
				Reason:     DenialNoSession,
			}
		}
		return Resolution{
			RedirectTo: deniedRedirect(home),
			Reason:     DenialUnauthorized,
			Session:    session,
		}
	}

	return Resolution{Allowed: true, Session: session}
}

// lookupSession resolves a token to a valid session, or nil. All failure
// modes (absent, expired, storage error, partial record) collapse to nil.
func (n *Navigator) lookupSession(ctx context.Context, token string) *domainauth.Session {
	if token == "" {
		return nil
	}
	session, err := n.auth.GetSession(ctx, token)
	if err != nil || session == nil || !session.Valid() {
		return nil
	}
	return session
}

// loginRedirect builds the login redirect, preserving the originally
// requested path so login can return the user there when it is safe to.
func loginRedirect(requested string) string {
	if requested == "" || requested == "/" || !isSafeReturnPath(requested) {
		return domainauth.LoginRoute
	}
	return domainauth.LoginRoute + "?return_to=" + url.QueryEscape(requested)
}

// deniedRedirect marks a cross-role redirect so the landing page can
// explain why the user ended up home instead of where they asked to go.
func deniedRedirect(home string) string {
	return home + "?denied=1"
}

// isSafeReturnPath accepts only same-origin absolute paths, rejecting
// scheme-relative ("//evil.com") and absolute URLs.
func isSafeReturnPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	if strings.HasPrefix(p, "//") {
		return false
	}
	if strings.Contains(p, "://") {
		return false
	}
	return true
}

// normalizePath reduces a raw request path to a clean absolute route.
// Anything unparseable becomes "/", which no role owns.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// Collapse trailing slash; "/student/" and "/student" are one route.
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
