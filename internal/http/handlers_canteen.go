package httpx

import (
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/service"
)

// CanteenHandlers provides HTTP handlers for the canteen menu and billing.
type CanteenHandlers struct {
	Svc *service.CanteenService
}

// CreateMenuItem handles HTTP requests to add a menu item.
// POST /api/canteen/menu.
func (h *CanteenHandlers) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMenuItemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.Svc.AddMenuItem(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrMenuItemExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "menu_item_exists", Err: err})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// Menu handles HTTP requests to read the menu. Canteen staff see hidden
// items too; everyone else only what is currently available.
// GET /api/canteen/menu.
func (h *CanteenHandlers) Menu(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	includeHidden := session != nil && session.Role == domainauth.RoleCanteen

	items, err := h.Svc.Menu(r.Context(), includeHidden)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"menu": items})
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability handles HTTP requests to toggle a menu item.
// PUT /api/canteen/menu/{id}/availability.
func (h *CanteenHandlers) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("menu item id is required")},
		)
		return
	}

	var req setAvailabilityRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.SetAvailability(r.Context(), id, req.Available); err != nil {
		if errors.Is(err, data.ErrMenuItemNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "menu_item_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteMenuItem handles HTTP requests to remove a menu item.
// DELETE /api/canteen/menu/{id}.
func (h *CanteenHandlers) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("menu item id is required")},
		)
		return
	}

	if err := h.Svc.RemoveMenuItem(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrMenuItemNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "menu_item_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// CreateBill handles HTTP requests to record a charge against an account.
// POST /api/canteen/bills.
func (h *CanteenHandlers) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBillRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	bill, err := h.Svc.CreateBill(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, bill)
}

// SettleBill handles HTTP requests to mark a bill paid.
// POST /api/canteen/bills/{id}/pay.
func (h *CanteenHandlers) SettleBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("bill id is required")},
		)
		return
	}

	if err := h.Svc.SettleBill(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrBillNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "bill_not_found", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"paid": true})
}

// UnpaidBills handles HTTP requests to list all outstanding bills.
// GET /api/canteen/bills/unpaid.
func (h *CanteenHandlers) UnpaidBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Svc.UnpaidBills(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"bills": bills})
}

// MyBills handles HTTP requests for the caller's own bills.
// GET /api/me/bills.
func (h *CanteenHandlers) MyBills(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	bills, err := h.Svc.BillsForUser(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"bills": bills})
}
