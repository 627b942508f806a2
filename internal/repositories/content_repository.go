package repositories

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	GetByID(ctx context.Context, id uint) (*models.JobPosting, error)
	List(ctx context.Context, filters JobFilters) ([]*models.JobPosting, int64, error)
	Update(ctx context.Context, job *models.JobPosting) error
	Delete(ctx context.Context, id uint) error

	// CreateApplication inserts a campus-drive application; a duplicate
	// (job, student) pair fails with an error satisfying IsDuplicateError.
	CreateApplication(ctx context.Context, app *models.JobApplication) error
	GetApplications(ctx context.Context, jobID uint) ([]*models.JobApplication, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	List(ctx context.Context, approvedOnly bool, limit, offset int) ([]*models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
}

type MaterialRepository interface {
	Create(ctx context.Context, material *models.StudyMaterial) error
	GetByID(ctx context.Context, id uint) (*models.StudyMaterial, error)
	List(ctx context.Context, subject *string, limit, offset int) ([]*models.StudyMaterial, int64, error)
	Update(ctx context.Context, material *models.StudyMaterial) error
	Delete(ctx context.Context, id uint) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	List(ctx context.Context, subject *string, limit, offset int) ([]*models.Video, int64, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
}
