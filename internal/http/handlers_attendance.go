package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// AttendanceHandlers provides HTTP handlers for attendance records.
type AttendanceHandlers struct {
	Svc *service.AttendanceService
}

// Record handles a teacher marking one student's attendance for a date.
// POST /api/attendance.
func (h *AttendanceHandlers) Record(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.RecordAttendanceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	record, err := h.Svc.Record(r.Context(), session.UserID, &req)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// ListForCourse handles a teacher reading the class roster for one date.
// GET /api/courses/{id}/attendance?date=YYYY-MM-DD.
func (h *AttendanceHandlers) ListForCourse(w http.ResponseWriter, r *http.Request) {
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

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_date",
			Err:     errors.New("date must be in YYYY-MM-DD format"),
		})
		return
	}

	records, err := h.Svc.ListForCourseDate(r.Context(), session.UserID, courseID, date)
	if err != nil {
		if errors.Is(err, data.ErrCourseNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"attendance": records})
}

// Mine handles a student reading their own attendance for one course.
// GET /api/me/attendance?course_id=<id>.
func (h *AttendanceHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_query",
			Err:     errors.New("course_id is required"),
		})
		return
	}

	records, err := h.Svc.ListForStudent(r.Context(), session.UserID, courseID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"attendance": records})
}

// Summary handles a student reading their per-course attendance totals.
// GET /api/me/attendance/summary.
func (h *AttendanceHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	summary, err := h.Svc.Summary(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "summary_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"summary": summary})
}
