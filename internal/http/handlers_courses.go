package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// CourseHandlers provides HTTP handlers for the course catalog.
type CourseHandlers struct {
	Svc *service.CourseService
}

// Create handles HTTP requests to create a course.
func (h *CourseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, course)
}

// List handles HTTP requests to list courses.
// GET /api/courses?department_id=&semester=&teacher_id=.
func (h *CourseHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := data.CoursesListOptions{
		DepartmentID: r.URL.Query().Get("department_id"),
		Semester:     parseIntQuery(r, "semester", 0),
		TeacherID:    r.URL.Query().Get("teacher_id"),
	}

	courses, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

// GetByID handles HTTP requests to get a course by ID.
func (h *CourseHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("course id is required")},
		)
		return
	}

	course, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, course)
}

// Update handles HTTP requests to update a course.
func (h *CourseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("course id is required")},
		)
		return
	}

	var req model.UpdateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, course)
}

// Delete handles HTTP requests to delete a course.
func (h *CourseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("course id is required")},
		)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Mine handles HTTP requests for a teacher's own course load.
// GET /api/me/courses.
func (h *CourseHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	courses, err := h.Svc.ListForTeacher(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"courses": courses})
}
