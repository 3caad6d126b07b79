package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// MarkHandlers provides HTTP handlers for recording and reading marks.
type MarkHandlers struct {
	Svc *service.MarkService
}

// Record handles a teacher recording a mark. Re-recording the same
// (student, course, type) overwrites the previous score.
// POST /api/marks.
func (h *MarkHandlers) Record(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.RecordMarkRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	mark, err := h.Svc.Record(r.Context(), session.UserID, &req)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, mark)
}

// Mine handles a student reading their own marks.
// GET /api/me/marks.
func (h *MarkHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	marks, err := h.Svc.ListForStudent(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"marks": marks})
}

// ListForCourse handles a teacher reading all marks for one of their courses.
// GET /api/courses/{id}/marks.
func (h *MarkHandlers) ListForCourse(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	courseID := r.PathValue("id")
	if courseID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("course id is required")},
		)
		return
	}

	marks, err := h.Svc.ListForCourse(r.Context(), session.UserID, courseID)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"marks": marks})
}
