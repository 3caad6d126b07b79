package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// LocationHandlers provides HTTP handlers for live point locations.
type LocationHandlers struct {
	Svc *service.LocationService
}

// Report handles a point user posting their position.
// POST /api/locations.
func (h *LocationHandlers) Report(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var req model.SetLocationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	loc, err := h.Svc.Report(r.Context(), session, &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, loc)
}

// Live handles HTTP requests for the current live position set.
// GET /api/locations.
func (h *LocationHandlers) Live(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Svc.Live(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

// Points handles HTTP requests to list the registered point accounts.
// GET /api/locations/points.
func (h *LocationHandlers) Points(w http.ResponseWriter, r *http.Request) {
	points, err := h.Svc.PointUsers(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"points": points})
}

// Stream pushes position updates to the client as server-sent events. The
// stream stays open until the client disconnects.
// GET /api/locations/stream.
func (h *LocationHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "streaming_unsupported",
			Err:     errors.New("response writer does not support streaming"),
		})
		return
	}

	updates, err := h.Svc.Watch(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "stream_failed", Err: err})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case loc, open := <-updates:
			if !open {
				return
			}
			payload, marshalErr := json.Marshal(loc)
			if marshalErr != nil {
				continue
			}
			if _, writeErr := w.Write([]byte("data: " + string(payload) + "\n\n")); writeErr != nil {
				return
			}
			flusher.Flush()
		}
	}
}
