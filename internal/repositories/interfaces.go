package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mcadept/placement-portal/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates all entity repositories. WithTransaction runs fn
// against a repository bound to a single database transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
type Repository interface {
	Test() TestRepository
	Attempt() AttemptRepository
	User() UserRepository
	Job() JobRepository
	Blog() BlogRepository
	Material() MaterialRepository
	Video() VideoRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError checks if error represents a "record not found" condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if error represents a unique-constraint violation.
// The attempt tracker relies on this to detect a concurrent begin racing on
// the started-attempt unique index.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== SHARED FILTER STRUCTS =====

type TestFilters struct {
	Type      *models.TestType `json:"type"`
	Published *bool            `json:"published"`
	CreatedBy *string          `json:"created_by"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "created_at", "name", "start_date"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	Status    *models.AttemptStatus `json:"status"`
	StudentID *string               `json:"student_id"`
	TestID    *uint                 `json:"test_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type JobFilters struct {
	CampusDriveOnly bool    `json:"campus_drive_only"`
	PostedBy        *string `json:"posted_by"`
	Limit           int     `json:"limit"`
	Offset          int     `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type TestStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageMark       float64 `json:"average_mark"`
	PassRate          float64 `json:"pass_rate"`
	QuestionCount     int     `json:"question_count"`
}
