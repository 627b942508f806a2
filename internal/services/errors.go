package services

import (
	"errors"
	"fmt"

	apperrors "github.com/mcadept/placement-portal/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Test specific errors
	ErrTestNotFound     = errors.New("test not found")
	ErrTestNotDeletable = errors.New("test cannot be deleted - has existing attempts")
	ErrTestNotPublished = errors.New("test is not published")

	// Attempt specific errors
	ErrOutOfWindow       = errors.New("test is outside its scheduling window")
	ErrAttemptInProgress = errors.New("an attempt is already in progress for this test")
	ErrAttemptsExhausted = errors.New("maximum attempts reached for this test")
	ErrNoActiveAttempt   = errors.New("no active attempt to submit")
	ErrAttemptNotFound   = errors.New("attempt not found")

	// Content specific errors
	ErrJobNotFound        = errors.New("job posting not found")
	ErrNotCampusDrive     = errors.New("job posting is not a campus drive")
	ErrAlreadyApplied     = errors.New("already applied to this campus drive")
	ErrBlogNotFound       = errors.New("blog not found")
	ErrMaterialNotFound   = errors.New("study material not found")
	ErrVideoNotFound      = errors.New("video not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrBlogNotFound) ||
		errors.Is(err, ErrMaterialNotFound) ||
		errors.Is(err, ErrVideoNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}
