package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// EnrollmentHandlers provides HTTP handlers for enrollment windows and
// student enrollment requests.
type EnrollmentHandlers struct {
	Svc *service.EnrollmentService
}

// OpenWindow handles HTTP requests to open an enrollment window.
// POST /api/enrollment/windows.
func (h *EnrollmentHandlers) OpenWindow(w http.ResponseWriter, r *http.Request) {
	var req model.OpenWindowRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	window, err := h.Svc.OpenWindow(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrWindowExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "window_exists", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, window)
}

// ListWindows handles HTTP requests to list enrollment windows.
// GET /api/enrollment/windows.
func (h *EnrollmentHandlers) ListWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Svc.ListWindows(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"windows": windows})
}

// CloseWindow handles HTTP requests to close a window before its deadline.
// POST /api/enrollment/windows/{id}/close.
func (h *EnrollmentHandlers) CloseWindow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("window id is required")},
		)
		return
	}

	if err := h.Svc.CloseWindow(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrWindowNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "window_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

// Enroll handles a student's request to take a course.
// POST /api/enrollments.
func (h *EnrollmentHandlers) Enroll(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req model.EnrollRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.Svc.Enroll(r.Context(), session, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWindowClosed):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "window_closed", Err: err})
		case errors.Is(err, data.ErrAlreadyEnrolled):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_enrolled", Err: err})
		case errors.Is(err, data.ErrCourseNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "course_not_found", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, enrollment)
}

// Mine handles HTTP requests for the calling student's enrollments.
// GET /api/me/enrollments.
func (h *EnrollmentHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	enrollments, err := h.Svc.ListMine(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"enrollments": enrollments})
}

// ListPending handles HTTP requests to list enrollments awaiting review.
// GET /api/enrollments/pending.
func (h *EnrollmentHandlers) ListPending(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.Svc.ListPending(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"enrollments": enrollments})
}

// Approve handles HTTP requests to approve a pending enrollment.
// POST /api/enrollments/{id}/approve.
func (h *EnrollmentHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.Approve)
}

// Reject handles HTTP requests to reject a pending enrollment.
// POST /api/enrollments/{id}/reject.
func (h *EnrollmentHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.Reject)
}

func (h *EnrollmentHandlers) review(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id string) (*model.Enrollment, error),
) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("enrollment id is required")},
		)
		return
	}

	enrollment, err := apply(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrEnrollmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "enrollment_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, enrollment)
}

// BulkApprove handles HTTP requests to approve a batch of enrollments.
// POST /api/enrollments/bulk-approve.
func (h *EnrollmentHandlers) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req model.BulkReviewEnrollmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	approved, err := h.Svc.BulkApprove(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"approved": approved})
}
