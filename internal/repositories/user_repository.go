package repositories

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, role *models.UserRole, limit, offset int) ([]*models.User, int64, error)
}
