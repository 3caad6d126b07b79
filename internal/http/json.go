package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neduet/campus-api/internal/data"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// notFoundSentinels are the repo-level absence errors. Handlers that care
// about a specific sentinel still map it themselves; this is the shared
// fallback so nothing leaks as a 500.
var notFoundSentinels = []error{
	data.ErrUserNotFound,
	data.ErrDepartmentNotFound,
	data.ErrCourseNotFound,
	data.ErrWindowNotFound,
	data.ErrEnrollmentNotFound,
	data.ErrMarkNotFound,
	data.ErrMenuItemNotFound,
	data.ErrBillNotFound,
}

var conflictSentinels = []error{
	data.ErrUserEmailExists,
	data.ErrDepartmentNameExists,
	data.ErrWindowExists,
	data.ErrAlreadyEnrolled,
	data.ErrMenuItemExists,
}

// WriteServiceError maps service and repository errors onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	for _, s := range notFoundSentinels {
		if errors.Is(err, s) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
	}
	for _, s := range conflictSentinels {
		if errors.Is(err, s) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
			return
		}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteError(w, ErrorParams{Code: statusForCode(appErr.Code), ErrCode: string(appErr.Code), Err: appErr})
		return
	}

	if isValidationError(err) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		return
	}

	WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
