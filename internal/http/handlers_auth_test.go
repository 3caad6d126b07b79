package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	mockauth "github.com/neduet/campus-api/internal/mocks/auth"
	"github.com/neduet/campus-api/internal/service"
)

func newSSORouter(t *testing.T) (http.Handler, *mockauth.MemorySessionStore) {
	t.Helper()
	store := mockauth.NewMemorySessionStore()
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		SSO:      mockauth.NewMockSSOProvider(),
		Sessions: store,
		Roles: &mockauth.StaticRoleMapper{
			GroupRoles: map[string]domainauth.Role{
				"portal-students-ug": domainauth.RoleUndergrad,
			},
		},
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

func TestSSOLoginRedirectsToProvider(t *testing.T) {
	router, _ := newSSORouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/sso/login?redirect_uri=/student/marks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://mock-idp/auth", w.Header().Get("Location"))

	cookies := map[string]string{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	assert.Equal(t, "state-1", cookies["oauth_state"])
	assert.Equal(t, "nonce-1", cookies["oauth_nonce"])
	assert.Equal(t, "/student/marks", cookies["post_login_redirect"])
}

func TestCallbackCompletesLoginAndLandsOnReturnPath(t *testing.T) {
	router, store := newSSORouter(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/student/marks"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/student/marks", w.Header().Get("Location"))
	assert.Equal(t, 1, store.Len())

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
}

func TestCallbackLandsOnHomeWhenReturnPathIsForeign(t *testing.T) {
	router, _ := newSSORouter(t)

	// The mapped role is a student; a stale admin return path is ignored.
	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/admin/users"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/student", w.Header().Get("Location"))
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	router, store := newSSORouter(t)

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-other"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
	assert.Equal(t, 0, store.Len())
}

func TestCallbackRequiresCodeAndState(t *testing.T) {
	router, _ := newSSORouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/callback?state=state-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_code")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_state")
}

func TestSafeRedirectPath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "/"},
		{"relative", "/student/marks", "/student/marks"},
		{"with query", "/student/marks?tab=final", "/student/marks?tab=final"},
		{"absolute url", "https://evil.example/phish", "/"},
		{"protocol relative", "//evil.example/phish", "/"},
		{"no leading slash", "student", "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, safeRedirectPath(tc.in))
		})
	}
}
