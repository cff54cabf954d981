package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastenot/service-pickup/internal/platform/domain"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func writeError(err error) (*httptest.ResponseRecorder, errorBody) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, err)

	var body errorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   domain.ErrorCode
	}{
		{"validation", domain.NewValidationError("street1 cannot be empty"), http.StatusBadRequest, domain.ErrCodeValidation},
		{"format", domain.NewFormatError("missing required key \"city\""), http.StatusBadRequest, domain.ErrCodeFormat},
		{"not found", domain.NewNotFoundError("Pickup", "abc"), http.StatusNotFound, domain.ErrCodeNotFound},
		{"conflict", domain.NewConflictError("pickup was modified by another transaction"), http.StatusConflict, domain.ErrCodeConflict},
		{"invalid state", domain.NewInvalidStateError("collected", "cancelled"), http.StatusConflict, domain.ErrCodeInvalidState},
		{"forbidden", domain.NewForbiddenError("pickup does not belong to this user"), http.StatusForbidden, domain.ErrCodeForbidden},
		{"unauthorized", domain.NewUnauthorizedError("token expired"), http.StatusUnauthorized, domain.ErrCodeUnauthorized},
		{"resolution", domain.NewResolutionError("could not get coordinates for 123 Main St, Troy, NY 12180."), http.StatusBadGateway, domain.ErrCodeResolution},
		{"lookup", domain.NewLookupError("no display name registered for state XX"), http.StatusInternalServerError, domain.ErrCodeLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := writeError(tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, string(tt.wantCode), body.Code)
			assert.Equal(t, tt.err.Error(), body.Error, "caller-facing errors keep their message")
		})
	}
}

func TestError_MasksInternalDetails(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"internal domain error", domain.NewInternalError("pq: connection reset by peer")},
		{"plain error", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := writeError(tt.err)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.False(t, body.Success)
			assert.Equal(t, string(domain.ErrCodeInternal), body.Code)
			assert.Equal(t, "internal server error", body.Error)
			assert.NotContains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestError_WrappedDomainErrorKeepsCode(t *testing.T) {
	wrapped := fmt.Errorf("failed to load pickup: %w", domain.NewNotFoundError("Pickup", "abc"))

	w, body := writeError(wrapped)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(domain.ErrCodeNotFound), body.Code)
}
