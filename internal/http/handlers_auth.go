package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neduet/campus-api/internal/adapters/pgauth"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
	"github.com/neduet/campus-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	PasswordLogin(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error)
	BeginSSOLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteSSOLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Policy       *domainauth.Policy
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginSurface struct {
	expectRole     domainauth.Role
	rejectStudents bool
}

// loginSurfaces maps a login tab to the roles it accepts. The undergrad and
// postgrad tabs each pin one student kind; the staff tab accepts any
// non-student role.
var loginSurfaces = map[string]loginSurface{
	"undergrad": {expectRole: domainauth.RoleUndergrad},
	"postgrad":  {expectRole: domainauth.RolePostgrad},
	"staff":     {rejectStudents: true},
}

type passwordLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	ReturnTo string `json:"return_to,omitempty"`
}

// PasswordLogin handles the credential login endpoint.
// POST /api/auth/login/{surface} where surface is undergrad, postgrad or staff.
func (h *AuthHandlers) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	surface := r.PathValue("surface")
	sf, ok := loginSurfaces[surface]
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "unknown_login_surface",
			Err:     errors.New("unknown login surface " + surface),
		})
		return
	}

	var req passwordLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.Svc.PasswordLogin(r.Context(), ports.Credentials{
		Email:          req.Email,
		Password:       req.Password,
		ExpectRole:     sf.expectRole,
		RejectStudents: sf.rejectStudents,
	})
	if err != nil {
		if errors.Is(err, pgauth.ErrInvalidCredentials) || errors.Is(err, domainauth.ErrUnknownRole) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     errors.New("invalid credentials"),
			})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setSessionCookie(w, r, *session)

	WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
		"expires_at":  session.ExpiresAt,
		"redirect_to": h.postLoginDestination(session.Role, req.ReturnTo),
	})
}

// SSOLogin handles the SSO login initiation endpoint.
// GET /api/auth/sso/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginSSOLogin(r.Context(), callbackURL(r))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the SSO callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	// Verify state and read nonce
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteSSOLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     err,
		})
		return
	}

	// Set session cookie and clear temporary OAuth cookies
	h.setSessionCookie(w, r, *session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	redirectURI := h.getPostLoginRedirect(w, r)
	http.Redirect(w, r, h.postLoginDestination(session.Role, redirectURI), http.StatusFound)
}

// Logout handles the logout endpoint. Logging out without a session is not
// an error; the operation is idempotent end to end.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if logoutErr := h.Svc.Logout(r.Context(), token); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)

	// AJAX requests get a JSON payload; regular requests redirect
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": domainauth.LoginRoute,
		})
		return
	}

	http.Redirect(w, r, domainauth.LoginRoute, http.StatusFound)
}

// Status returns the current authentication status.
// GET /api/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), token)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	home, homeErr := h.Policy.DefaultRoute(session.Role)
	if homeErr != nil {
		home = domainauth.LoginRoute
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"role":  session.Role,
		},
		"home_route": home,
		"expires_at": session.ExpiresAt,
	})
}

// postLoginDestination picks where a freshly logged-in user lands: the
// requested return path when their role may visit it, their role's default
// route otherwise.
func (h *AuthHandlers) postLoginDestination(role domainauth.Role, returnTo string) string {
	home, err := h.Policy.DefaultRoute(role)
	if err != nil {
		return domainauth.LoginRoute
	}
	returnTo = safeRedirectPath(returnTo)
	if returnTo == "/" {
		return home
	}
	checkPath := returnTo
	if i := strings.IndexAny(checkPath, "?#"); i >= 0 {
		checkPath = checkPath[:i]
	}
	if ok, authzErr := h.Policy.IsAuthorized(role, checkPath); authzErr == nil && ok {
		return returnTo
	}
	return home
}

// getPostLoginRedirect reads and clears the post_login_redirect cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("post_login_redirect")
	if err != nil {
		return "/"
	}
	h.clearCookie(w, r, "post_login_redirect")
	return safeRedirectPath(c.Value)
}

// safeRedirectPath allows only relative paths (no scheme, host, or
// protocol-relative form); anything else collapses to "/".
func safeRedirectPath(p string) string {
	if p == "" {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return p
}

// callbackURL rebuilds this deployment's SSO callback URL from the request.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/auth/callback"
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    p.State,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    p.Nonce,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "post_login_redirect",
		Value:    p.RedirectURI,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}
