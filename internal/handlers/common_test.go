package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestHandleServiceError(t *testing.T) {
	h := NewBaseHandler(utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not published", services.ErrTestNotPublished, http.StatusForbidden, "NOT_PUBLISHED"},
		{"out of window", services.ErrOutOfWindow, http.StatusForbidden, "OUT_OF_WINDOW"},
		{"attempt in progress", services.ErrAttemptInProgress, http.StatusForbidden, "ATTEMPT_IN_PROGRESS"},
		{"attempts exhausted", services.ErrAttemptsExhausted, http.StatusForbidden, "ATTEMPTS_EXHAUSTED"},
		{"no active attempt", services.ErrNoActiveAttempt, http.StatusForbidden, "NO_ACTIVE_ATTEMPT"},
		{"test not deletable", services.ErrTestNotDeletable, http.StatusConflict, "HAS_ATTEMPTS"},
		{"already applied", services.ErrAlreadyApplied, http.StatusConflict, "ALREADY_APPLIED"},
		{"not campus drive", services.ErrNotCampusDrive, http.StatusUnprocessableEntity, "NOT_CAMPUS_DRIVE"},
		{"test not found", services.ErrTestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"job not found", services.ErrJobNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext(t)

			h.handleServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			resp := decodeError(t, recorder)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}

	t.Run("validation errors carry field details", func(t *testing.T) {
		c, recorder := newTestContext(t)

		err := services.NewValidationError("pass_mark", "cannot exceed the number of questions", 10)
		h.handleServiceError(c, err)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeError(t, recorder)
		assert.Equal(t, "VALIDATION", resp.Code)
		assert.NotNil(t, resp.Details)
	})

	t.Run("permission errors map to forbidden", func(t *testing.T) {
		c, recorder := newTestContext(t)

		err := services.NewPermissionError("student-1", "test", "create", "requires officer role")
		h.handleServiceError(c, err)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		resp := decodeError(t, recorder)
		assert.Equal(t, "FORBIDDEN", resp.Code)
	})
}
