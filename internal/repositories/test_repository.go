package repositories

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
)

type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error)
	List(ctx context.Context, filters TestFilters) ([]*models.Test, int64, error)
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id uint) error

	SetPublished(ctx context.Context, id uint, published bool) error
	GetStats(ctx context.Context, id uint) (*TestStats, error)
}
