// Package httpx provides HTTP handlers and routing for the campus portal API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// UserHandlers provides HTTP handlers for account administration.
type UserHandlers struct {
	Svc *service.UserService
}

// Create handles HTTP requests to create a new account.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUserEmailExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// List handles HTTP requests to list accounts by role.
// GET /api/users?role=<role>.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("role")
	role, err := domainauth.ParseRole(raw)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_role", Err: err})
		return
	}

	users, err := h.Svc.ListByRole(r.Context(), role)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"users": users, "role": role})
}

// GetByID handles HTTP requests to get an account by ID.
func (h *UserHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	user, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// Update handles HTTP requests to reset an account's password.
// PUT /api/users/{id}.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	var req setPasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetPassword(r.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, data.ErrUserNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete handles HTTP requests to delete an account.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")},
		)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
