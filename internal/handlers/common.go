package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mcadept/placement-portal/internal/errors"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/services"
	"github.com/mcadept/placement-portal/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response. Code carries a stable,
// machine-checkable reason for clients that branch on refusals.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogError logs error details with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if identity, ok := IdentityFromContext(c); ok {
		fields = append(fields, "user_id", identity.UserID)
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

// identity returns the authenticated caller or writes a 401.
func (h *BaseHandler) identity(c *gin.Context) (models.Identity, bool) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
	}
	return identity, ok
}

// handleServiceError maps service errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors apperrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
			Code:    "VALIDATION",
		})
		return
	}

	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: apperrors.ValidationErrors{*validationError},
			Code:    "VALIDATION",
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Code:    "FORBIDDEN",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	// Attempt refusals carry a stable code so the client can tell the
	// student exactly why they cannot take the test.
	case errors.Is(err, services.ErrTestNotPublished):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "NOT_PUBLISHED"})
	case errors.Is(err, services.ErrOutOfWindow):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "OUT_OF_WINDOW"})
	case errors.Is(err, services.ErrAttemptInProgress):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "ATTEMPT_IN_PROGRESS"})
	case errors.Is(err, services.ErrAttemptsExhausted):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "ATTEMPTS_EXHAUSTED"})
	case errors.Is(err, services.ErrNoActiveAttempt):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "NO_ACTIVE_ATTEMPT"})

	case errors.Is(err, services.ErrTestNotDeletable):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "HAS_ATTEMPTS"})
	case errors.Is(err, services.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "ALREADY_APPLIED"})
	case errors.Is(err, services.ErrNotCampusDrive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error(), Code: "NOT_CAMPUS_DRIVE"})

	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: "NOT_FOUND"})

	default:
		h.LogError(c, err, "Internal server error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
