package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// FeedbackHandlers provides HTTP handlers for student feedback.
type FeedbackHandlers struct {
	Svc *service.FeedbackService
}

const maxFeedbackListLimit = 200

// Submit handles a student posting feedback.
// POST /api/feedback.
func (h *FeedbackHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.SubmitFeedbackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	fb, err := h.Svc.Submit(r.Context(), session.UserID, &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, fb)
}

// List handles admins reading submitted feedback with pagination.
// GET /api/feedback?limit=&offset=.
func (h *FeedbackHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxFeedbackListLimit)

	items, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"feedback": items,
		"limit":    limit,
		"offset":   offset,
	})
}
