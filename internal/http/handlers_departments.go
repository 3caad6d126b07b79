package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// DepartmentHandlers provides HTTP handlers for department administration.
type DepartmentHandlers struct {
	Svc *service.DepartmentService
}

// Create handles HTTP requests to create a department.
func (h *DepartmentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDepartmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	dept, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDepartmentNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, dept)
}

// List handles HTTP requests to list departments.
func (h *DepartmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"departments": depts})
}

// GetByID handles HTTP requests to get a department by ID.
func (h *DepartmentHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("department id is required")},
		)
		return
	}

	dept, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrDepartmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "department_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, dept)
}

// Update handles HTTP requests to update a department.
func (h *DepartmentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("department id is required")},
		)
		return
	}

	var req model.UpdateDepartmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	dept, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDepartmentNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "department_not_found", Err: err})
		case errors.Is(err, data.ErrDepartmentNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, dept)
}

// Delete handles HTTP requests to delete a department.
func (h *DepartmentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("department id is required")},
		)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrDepartmentNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "department_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
