package repositories

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
)

type AttemptRepository interface {
	// Create inserts a new attempt. When a started attempt already exists
	// for the same (student, test) pair the partial unique index rejects
	// the insert and the error satisfies IsDuplicateError.
	Create(ctx context.Context, attempt *models.Attempt) error

	GetByID(ctx context.Context, id uint) (*models.Attempt, error)

	// GetByIDForUpdate reloads an attempt with a row lock. Only meaningful
	// inside a transaction; the submit path uses it so two concurrent
	// submits serialize on the row before rechecking the status.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Attempt, error)

	Update(ctx context.Context, attempt *models.Attempt) error

	// GetActiveAttempt returns the started attempt for the pair, or nil
	// when none exists.
	GetActiveAttempt(ctx context.Context, studentID string, testID uint) (*models.Attempt, error)
	CountCompleted(ctx context.Context, studentID string, testID uint) (int64, error)
	HasAttempts(ctx context.Context, testID uint) (bool, error)

	List(ctx context.Context, filters AttemptFilters) ([]*models.Attempt, int64, error)
	GetCompletedByStudent(ctx context.Context, studentID string) ([]*models.Attempt, error)
	GetCompletedByTest(ctx context.Context, testID uint) ([]*models.Attempt, error)
	GetAllCompleted(ctx context.Context) ([]*models.Attempt, error)
}
