package postgres

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"gorm.io/gorm"
)

// GormRepository is the PostgreSQL-backed implementation of the aggregate
// Repository. A transactional copy shares the same struct with db swapped
// for the transaction handle.
type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Test() repositories.TestRepository {
	return NewTestPostgreSQL(r.db)
}

func (r *GormRepository) Attempt() repositories.AttemptRepository {
	return NewAttemptPostgreSQL(r.db)
}

func (r *GormRepository) User() repositories.UserRepository {
	return NewUserPostgreSQL(r.db)
}

func (r *GormRepository) Job() repositories.JobRepository {
	return NewJobPostgreSQL(r.db)
}

func (r *GormRepository) Blog() repositories.BlogRepository {
	return NewBlogPostgreSQL(r.db)
}

func (r *GormRepository) Material() repositories.MaterialRepository {
	return NewMaterialPostgreSQL(r.db)
}

func (r *GormRepository) Video() repositories.VideoRepository {
	return NewVideoPostgreSQL(r.db)
}

func (r *GormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the schema and the partial unique index that guarantees at
// most one started attempt per (student, test) pair. The index is what turns
// a concurrent begin race into a unique-violation on insert.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Question{},
		&models.Attempt{},
		&models.JobPosting{},
		&models.JobApplication{},
		&models.Blog{},
		&models.StudyMaterial{},
		&models.Video{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_single_started
		 ON attempts (student_id, test_id)
		 WHERE status = 'started'`,
	).Error
}
