package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	mockauth "github.com/neduet/campus-api/internal/mocks/auth"
	"github.com/neduet/campus-api/internal/ports"
	"github.com/neduet/campus-api/internal/service"
)

// newTestRouter builds a full router over an in-memory session store. The
// domain services are wired but their repositories are nil; guard tests
// never reach them.
func newTestRouter(t *testing.T) (http.Handler, *mockauth.MemorySessionStore) {
	t.Helper()
	store := mockauth.NewMemorySessionStore()
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Authenticator: &mockauth.MockAuthenticator{
			DefaultIdentity: domainauth.Identity{
				UserID: "user-1",
				Name:   "Test User",
				Email:  "user@campus.edu",
				Role:   domainauth.RoleUndergrad,
			},
		},
		Sessions: store,
	})
	nav := service.NewNavigator(authSvc, domainauth.DefaultPolicy())

	router := NewRouter(RouterServices{
		Auth:        authSvc,
		Nav:         nav,
		Users:       service.NewUserService(nil),
		Departments: service.NewDepartmentService(nil),
		Courses:     service.NewCourseService(nil, nil),
		Enrollment:  service.NewEnrollmentService(nil, nil),
		Marks:       service.NewMarkService(nil, nil),
		Attendance:  service.NewAttendanceService(nil, nil),
		Canteen:     service.NewCanteenService(nil),
		Feedback:    service.NewFeedbackService(nil),
		Locations:   service.NewLocationService(nil, nil),
	})
	return router, store
}

func saveSession(t *testing.T, store *mockauth.MemorySessionStore, role domainauth.Role) domainauth.Session {
	t.Helper()
	sess := domainauth.Session{
		ID:        "sess-" + string(role),
		UserID:    "user-1",
		Name:      "Test User",
		Email:     "user@campus.edu",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

func doRequest(router http.Handler, method, target, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/student/marks", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?return_to=%2Fstudent%2Fmarks", w.Header().Get("Location"))
}

func TestGuardAllowsOwnSubtree(t *testing.T) {
	router, store := newTestRouter(t)

	cases := []struct {
		role domainauth.Role
		path string
	}{
		{domainauth.RoleAdmin, "/admin/users"},
		{domainauth.RoleUndergrad, "/student/marks"},
		{domainauth.RolePostgrad, "/student/enrollment"},
		{domainauth.RoleTeacher, "/teacher/attendance"},
		{domainauth.RoleCanteen, "/canteen/bills"},
		{domainauth.RoleLocationPoint, "/point/report"},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			sess := saveSession(t, store, tc.role)
			w := doRequest(router, http.MethodGet, tc.path, sess.ID)
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tc.role), body["role"])
			assert.Equal(t, tc.path, body["active"])
		})
	}
}

func TestGuardCrossRoleRedirectsHomeWithDeniedMarker(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleUndergrad)

	w := doRequest(router, http.MethodGet, "/admin/users", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/student?denied=1", w.Header().Get("Location"))
}

func TestGuardPrefixIsSegmentBased(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleUndergrad)

	// /studentx is not inside /student; the catch-all resolves it as a
	// denial and sends the student home rather than 404ing.
	w := doRequest(router, http.MethodGet, "/studentx", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/student?denied=1", w.Header().Get("Location"))
}

func TestLoginAlwaysReachable(t *testing.T) {
	router, store := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusOK, w.Code)

	sess := saveSession(t, store, domainauth.RoleTeacher)
	w = doRequest(router, http.MethodGet, "/login", sess.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatchAllNeverReturns404(t *testing.T) {
	router, store := newTestRouter(t)

	t.Run("anonymous lands on login", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/no/such/page", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?return_to=%2Fno%2Fsuch%2Fpage", w.Header().Get("Location"))
	})

	t.Run("signed-in lands on home route", func(t *testing.T) {
		sess := saveSession(t, store, domainauth.RoleCanteen)
		w := doRequest(router, http.MethodGet, "/no/such/page", sess.ID)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/canteen", w.Header().Get("Location"))
	})

	t.Run("unmatched method inside own subtree", func(t *testing.T) {
		sess := saveSession(t, store, domainauth.RoleUndergrad)
		w := doRequest(router, http.MethodPost, "/student/marks", sess.ID)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/student", w.Header().Get("Location"))
	})
}

func TestExpiredSessionBehavesLikeNoSession(t *testing.T) {
	router, store := newTestRouter(t)
	sess := domainauth.Session{
		ID:        "sess-expired",
		UserID:    "user-1",
		Role:      domainauth.RoleTeacher,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Save(context.Background(), sess))

	w := doRequest(router, http.MethodGet, "/teacher", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?return_to=%2Fteacher", w.Header().Get("Location"))
}

func TestUnreadableStoreBehavesLikeNoSession(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleAdmin)
	store.FailReads = true

	w := doRequest(router, http.MethodGet, "/admin", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?return_to=%2Fadmin", w.Header().Get("Location"))
}

func TestAPIRoutesRequireAuth(t *testing.T) {
	router, store := newTestRouter(t)

	t.Run("no token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/me/marks", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authentication_required")
	})

	t.Run("wrong role", func(t *testing.T) {
		sess := saveSession(t, store, domainauth.RoleCanteen)
		w := doRequest(router, http.MethodGet, "/api/me/marks", sess.ID)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient_permissions")
	})
}

func TestBearerTokenAccepted(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleAdmin)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	r.Header.Set("Authorization", "Bearer "+sess.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "/admin", body["home_route"])
}

func TestPasswordLoginSetsCookieAndRedirectTarget(t *testing.T) {
	router, _ := newTestRouter(t)

	r := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/login/undergrad",
		strings.NewReader(`{"email":"user@campus.edu","password":"hunter22","return_to":"/student/marks"}`),
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/student/marks", body["redirect_to"])

	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == SessionCookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "session cookie should be set")
}

func TestPasswordLoginIgnoresForeignReturnTo(t *testing.T) {
	router, _ := newTestRouter(t)

	// A student logging in with an admin return path lands on their own home.
	r := httptest.NewRequest(
		http.MethodPost,
		"/api/auth/login/undergrad",
		strings.NewReader(`{"email":"user@campus.edu","password":"hunter22","return_to":"/admin/users"}`),
	)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/student", body["redirect_to"])
}

func TestLoginSurfaceCredentialPins(t *testing.T) {
	var got ports.Credentials
	store := mockauth.NewMemorySessionStore()
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Authenticator: &mockauth.MockAuthenticator{
			AuthenticateFunc: func(_ context.Context, creds ports.Credentials) (domainauth.Identity, error) {
				got = creds
				return domainauth.Identity{
					UserID:    "user-2",
					Name:      "Prof",
					Email:     creds.Email,
					Role:      domainauth.RoleTeacher,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil
			},
		},
		Sessions: store,
	})
	handlers := &AuthHandlers{Svc: authSvc, Policy: domainauth.DefaultPolicy()}

	login := func(surface string) {
		r := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/login/"+surface,
			strings.NewReader(`{"email":"prof@campus.edu","password":"chalk dust"}`),
		)
		r.SetPathValue("surface", surface)
		handlers.PasswordLogin(httptest.NewRecorder(), r)
	}

	login("staff")
	// The staff tab turns students away without pinning a single role.
	assert.True(t, got.RejectStudents)
	assert.Empty(t, got.ExpectRole)

	login("undergrad")
	assert.False(t, got.RejectStudents)
	assert.Equal(t, domainauth.RoleUndergrad, got.ExpectRole)
}

func TestPasswordLoginUnknownSurface(t *testing.T) {
	router, _ := newTestRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login/guest", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_login_surface")
}

func TestLogoutIsIdempotent(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleAdmin)

	w := doRequest(router, http.MethodPost, "/api/auth/logout", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, store.Len())

	// Logging out again, without any session, is still fine.
	w = doRequest(router, http.MethodPost, "/api/auth/logout", sess.ID)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestNavResolveEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleUndergrad)

	w := doRequest(router, http.MethodGet, "/api/nav/resolve?path=/admin/users", sess.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["allowed"])
	assert.Equal(t, "/student?denied=1", body["redirect_to"])
	assert.Equal(t, "unauthorized_for_route", body["reason"])
}

func TestShellMarksDeniedLanding(t *testing.T) {
	router, store := newTestRouter(t)
	sess := saveSession(t, store, domainauth.RoleUndergrad)

	w := doRequest(router, http.MethodGet, "/student?denied=1", sess.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["denied"])
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
