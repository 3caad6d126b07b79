package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/service"
)

// shellPage is one entry in a role's navigation menu.
type shellPage struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// rolePages is the navigation tree per role. Every path here sits inside
// the role's authorized subtree, so the shell never links to a page the
// guard would bounce.
var rolePages = map[domainauth.Role][]shellPage{
	domainauth.RoleAdmin: {
		{Label: "Dashboard", Path: "/admin"},
		{Label: "Users", Path: "/admin/users"},
		{Label: "Departments", Path: "/admin/departments"},
		{Label: "Courses", Path: "/admin/courses"},
		{Label: "Enrollment", Path: "/admin/enrollment"},
		{Label: "Feedback", Path: "/admin/feedback"},
		{Label: "Locations", Path: "/admin/locations"},
	},
	domainauth.RoleUndergrad: {
		{Label: "Home", Path: "/student"},
		{Label: "Courses", Path: "/student/courses"},
		{Label: "Enrollment", Path: "/student/enrollment"},
		{Label: "Marks", Path: "/student/marks"},
		{Label: "Attendance", Path: "/student/attendance"},
		{Label: "Canteen", Path: "/student/canteen"},
		{Label: "Feedback", Path: "/student/feedback"},
	},
	domainauth.RoleTeacher: {
		{Label: "Home", Path: "/teacher"},
		{Label: "Courses", Path: "/teacher/courses"},
		{Label: "Marks", Path: "/teacher/marks"},
		{Label: "Attendance", Path: "/teacher/attendance"},
	},
	domainauth.RoleCanteen: {
		{Label: "Home", Path: "/canteen"},
		{Label: "Menu", Path: "/canteen/menu"},
		{Label: "Bills", Path: "/canteen/bills"},
	},
	domainauth.RoleLocationPoint: {
		{Label: "Home", Path: "/point"},
		{Label: "Report", Path: "/point/report"},
	},
}

func init() {
	// Postgrads share the undergrad shell; the surfaces differ only at login.
	rolePages[domainauth.RolePostgrad] = rolePages[domainauth.RoleUndergrad]
}

// ShellHandlers serves the navigation shell: the per-role page frame the
// frontend hydrates, and the login frame reachable without a session.
type ShellHandlers struct {
	Nav *service.Navigator
}

// Shell renders the role shell for the session's subtree. The guard has
// already admitted the request, so a missing session here is a wiring bug.
func (h *ShellHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	denied := r.URL.Query().Get("denied") == "1"
	WriteJSON(w, http.StatusOK, map[string]any{
		"role":   session.Role,
		"active": r.URL.Path,
		"denied": denied,
		"pages":  rolePages[session.Role],
		"user": map[string]any{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
		},
	})
}

// Login renders the login frame. It is reachable with or without a session;
// a logged-in user revisiting it simply sees the login surfaces again.
func (h *ShellHandlers) Login(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"page":      "login",
		"surfaces":  []string{"undergrad", "postgrad", "staff"},
		"return_to": safeRedirectPath(r.URL.Query().Get("return_to")),
	})
}

// Resolve exposes the navigator to the frontend router.
// GET /api/nav/resolve?path=<path>.
func (h *ShellHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	res := h.Nav.Resolve(r.Context(), sessionToken(r), r.URL.Query().Get("path"))
	body := map[string]any{
		"allowed": res.Allowed,
	}
	if !res.Allowed {
		body["redirect_to"] = res.RedirectTo
		body["reason"] = res.Reason
	}
	if res.Session != nil {
		body["role"] = res.Session.Role
	}
	WriteJSON(w, http.StatusOK, body)
}
