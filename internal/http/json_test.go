package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neduet/campus-api/internal/data"
	apperrors "github.com/neduet/campus-api/internal/errors"
)

func TestWriteServiceErrorMapsRepoSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", data.ErrCourseNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get course: %w", data.ErrCourseNotFound), http.StatusNotFound},
		{"conflict", data.ErrAlreadyEnrolled, http.StatusConflict},
		{"validation app error", apperrors.Validation("semester must be between 1 and 8"), http.StatusBadRequest},
		{"forbidden app error", apperrors.Forbidden("nope"), http.StatusForbidden},
		{"raw validation message", errors.New("name is required"), http.StatusBadRequest},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	var dst struct{}
	ok := DecodeJSON(w, r, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_json")
}
