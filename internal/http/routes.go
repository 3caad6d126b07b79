package httpx

import (
	"bytes"
	"log"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        *service.AuthService
	Nav         *service.Navigator
	Users       *service.UserService
	Departments *service.DepartmentService
	Courses     *service.CourseService
	Enrollment  *service.EnrollmentService
	Marks       *service.MarkService
	Attendance  *service.AttendanceService
	Canteen     *service.CanteenService
	Feedback    *service.FeedbackService
	Locations   *service.LocationService
	// Configuration
	CookieDomain string
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the portal's HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	policy := services.Nav.Policy()
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Policy:       policy,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	shellHandlers := &ShellHandlers{Nav: services.Nav}

	registerAuthRoutes(mux, authHandlers, shellHandlers)
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, services.Auth)
	registerDepartmentRoutes(mux, &DepartmentHandlers{Svc: services.Departments}, services.Auth)
	registerCourseRoutes(mux, &CourseHandlers{Svc: services.Courses}, services.Auth)
	registerEnrollmentRoutes(mux, &EnrollmentHandlers{Svc: services.Enrollment}, services.Auth)
	registerAcademicRoutes(mux, academicHandlers{
		Marks:      &MarkHandlers{Svc: services.Marks},
		Attendance: &AttendanceHandlers{Svc: services.Attendance},
	}, services.Auth)
	registerCanteenRoutes(mux, &CanteenHandlers{Svc: services.Canteen}, services.Auth)
	registerFeedbackRoutes(mux, &FeedbackHandlers{Svc: services.Feedback}, services.Auth)
	registerLocationRoutes(mux, &LocationHandlers{Svc: services.Locations}, services.Auth)
	registerShellRoutes(mux, shellHandlers, services.Nav)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Wrap with the navigation catch-all: page routes never 404, they
	// resolve through the navigator to login or the role's home.
	return &notFoundHandler{mux: mux, nav: services.Nav}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, shell *ShellHandlers) {
	mux.HandleFunc("POST /api/auth/login/{surface}", h.PasswordLogin)
	mux.HandleFunc("GET /api/auth/sso/login", h.SSOLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/status", h.Status)
	mux.HandleFunc("GET /api/nav/resolve", shell.Resolve)
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, auth *service.AuthService) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/users",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: RequireRole(auth, domainauth.RoleAdmin),
	})
}

func registerDepartmentRoutes(mux *http.ServeMux, h *DepartmentHandlers, auth *service.AuthService) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/departments",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: RequireRole(auth, domainauth.RoleAdmin),
	})
}

// registerCourseRoutes wires the catalog: reads for any signed-in user,
// writes for admins, the personal course load for teachers.
func registerCourseRoutes(mux *http.ServeMux, h *CourseHandlers, auth *service.AuthService) {
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)
	authed := RequireAuth(auth)

	mux.Handle("POST /api/courses", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/courses/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/courses/{id}", adminOnly(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /api/courses", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/courses/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("GET /api/me/courses", RequireRole(auth, domainauth.RoleTeacher)(http.HandlerFunc(h.Mine)))
}

func registerEnrollmentRoutes(mux *http.ServeMux, h *EnrollmentHandlers, auth *service.AuthService) {
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)
	studentOnly := RequireRole(auth, domainauth.RoleUndergrad, domainauth.RolePostgrad)

	mux.Handle("POST /api/enrollment/windows", adminOnly(http.HandlerFunc(h.OpenWindow)))
	mux.Handle("GET /api/enrollment/windows", adminOnly(http.HandlerFunc(h.ListWindows)))
	mux.Handle("POST /api/enrollment/windows/{id}/close", adminOnly(http.HandlerFunc(h.CloseWindow)))

	mux.Handle("POST /api/enrollments", studentOnly(http.HandlerFunc(h.Enroll)))
	mux.Handle("GET /api/me/enrollments", studentOnly(http.HandlerFunc(h.Mine)))

	mux.Handle("GET /api/enrollments/pending", adminOnly(http.HandlerFunc(h.ListPending)))
	mux.Handle("POST /api/enrollments/{id}/approve", adminOnly(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/enrollments/{id}/reject", adminOnly(http.HandlerFunc(h.Reject)))
	mux.Handle("POST /api/enrollments/bulk-approve", adminOnly(http.HandlerFunc(h.BulkApprove)))
}

type academicHandlers struct {
	Marks      *MarkHandlers
	Attendance *AttendanceHandlers
}

func registerAcademicRoutes(mux *http.ServeMux, h academicHandlers, auth *service.AuthService) {
	teacherOnly := RequireRole(auth, domainauth.RoleTeacher)
	studentOnly := RequireRole(auth, domainauth.RoleUndergrad, domainauth.RolePostgrad)

	mux.Handle("POST /api/marks", teacherOnly(http.HandlerFunc(h.Marks.Record)))
	mux.Handle("GET /api/courses/{id}/marks", teacherOnly(http.HandlerFunc(h.Marks.ListForCourse)))
	mux.Handle("GET /api/me/marks", studentOnly(http.HandlerFunc(h.Marks.Mine)))

	mux.Handle("POST /api/attendance", teacherOnly(http.HandlerFunc(h.Attendance.Record)))
	mux.Handle("GET /api/courses/{id}/attendance", teacherOnly(http.HandlerFunc(h.Attendance.ListForCourse)))
	mux.Handle("GET /api/me/attendance", studentOnly(http.HandlerFunc(h.Attendance.Mine)))
	mux.Handle("GET /api/me/attendance/summary", studentOnly(http.HandlerFunc(h.Attendance.Summary)))
}

func registerCanteenRoutes(mux *http.ServeMux, h *CanteenHandlers, auth *service.AuthService) {
	canteenOnly := RequireRole(auth, domainauth.RoleCanteen)
	authed := RequireAuth(auth)

	mux.Handle("POST /api/canteen/menu", canteenOnly(http.HandlerFunc(h.CreateMenuItem)))
	mux.Handle("GET /api/canteen/menu", authed(http.HandlerFunc(h.Menu)))
	mux.Handle("PUT /api/canteen/menu/{id}/availability", canteenOnly(http.HandlerFunc(h.SetAvailability)))
	mux.Handle("DELETE /api/canteen/menu/{id}", canteenOnly(http.HandlerFunc(h.DeleteMenuItem)))

	mux.Handle("POST /api/canteen/bills", canteenOnly(http.HandlerFunc(h.CreateBill)))
	mux.Handle("POST /api/canteen/bills/{id}/pay", canteenOnly(http.HandlerFunc(h.SettleBill)))
	mux.Handle("GET /api/canteen/bills/unpaid", canteenOnly(http.HandlerFunc(h.UnpaidBills)))
	mux.Handle("GET /api/me/bills", authed(http.HandlerFunc(h.MyBills)))
}

func registerFeedbackRoutes(mux *http.ServeMux, h *FeedbackHandlers, auth *service.AuthService) {
	studentOnly := RequireRole(auth, domainauth.RoleUndergrad, domainauth.RolePostgrad)
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)

	mux.Handle("POST /api/feedback", studentOnly(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/feedback", adminOnly(http.HandlerFunc(h.List)))
}

func registerLocationRoutes(mux *http.ServeMux, h *LocationHandlers, auth *service.AuthService) {
	pointOnly := RequireRole(auth, domainauth.RoleLocationPoint)
	authed := RequireAuth(auth)
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)

	mux.Handle("POST /api/locations", pointOnly(http.HandlerFunc(h.Report)))
	mux.Handle("GET /api/locations", authed(http.HandlerFunc(h.Live)))
	mux.Handle("GET /api/locations/stream", authed(http.HandlerFunc(h.Stream)))
	mux.Handle("GET /api/locations/points", adminOnly(http.HandlerFunc(h.Points)))
}

// registerShellRoutes wires the page surface: the login frame plus one
// guarded subtree per role. Each subtree pattern ends in a trailing slash
// so the whole prefix lands in the shell, not the catch-all.
func registerShellRoutes(mux *http.ServeMux, shell *ShellHandlers, nav *service.Navigator) {
	guard := Guard(nav)

	mux.Handle("GET "+domainauth.LoginRoute, guard(http.HandlerFunc(shell.Login)))

	for _, prefix := range []string{"/admin", "/student", "/teacher", "/canteen", "/point"} {
		mux.Handle("GET "+prefix, guard(http.HandlerFunc(shell.Shell)))
		mux.Handle("GET "+prefix+"/", guard(http.HandlerFunc(shell.Shell)))
	}
}

// notFoundHandler wraps the ServeMux so unmatched page routes resolve
// through the navigator instead of returning 404. API routes keep their
// 404s; navigation routes always land somewhere.
type notFoundHandler struct {
	mux *http.ServeMux
	nav *service.Navigator
}

// ServeHTTP implements http.Handler.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// API and callback routes keep their own status codes (and streaming
	// responses must not be buffered); only page routes get the catch-all.
	if strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.HasPrefix(r.URL.Path, "/auth/") ||
		r.URL.Path == "/healthz" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// ServeMux answers 405 for a method mismatch on a known path; for page
	// routes that is just as much "nowhere to go" as a 404.
	if cw.status == http.StatusNotFound || cw.status == http.StatusMethodNotAllowed {
		http.Redirect(w, r, h.fallbackRoute(r), http.StatusFound)
		return
	}

	// Not a page 404: write the captured response
	cw.flushTo(w)
}

// fallbackRoute decides where an unmatched page request lands: wherever the
// navigator redirects it, or the session's home route when the path itself
// was permitted but unknown.
func (h *notFoundHandler) fallbackRoute(r *http.Request) string {
	res := h.nav.Resolve(r.Context(), sessionToken(r), r.URL.Path)
	if !res.Allowed {
		return res.RedirectTo
	}
	if res.Session != nil {
		if home, err := h.nav.Policy().DefaultRoute(res.Session.Role); err == nil {
			return home
		}
	}
	return domainauth.LoginRoute
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

// registerCRUD registers standard CRUD routes for a resource base path, applying mw if non-nil.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}
