package postgres

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"gorm.io/gorm"
)

type TestPostgreSQL struct {
	db *gorm.DB
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{db: db}
}

func (t *TestPostgreSQL) Create(ctx context.Context, test *models.Test) error {
	return t.db.WithContext(ctx).Create(test).Error
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := t.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := t.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		First(&test, id).Error; err != nil {
		return nil, err
	}
	test.QuestionsCount = len(test.Questions)
	return &test, nil
}

func (t *TestPostgreSQL) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	var tests []*models.Test
	var total int64

	query := t.db.WithContext(ctx).Model(&models.Test{})
	query = t.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&tests).Error; err != nil {
		return nil, 0, err
	}

	return tests, total, nil
}

func (t *TestPostgreSQL) Update(ctx context.Context, test *models.Test) error {
	return t.db.WithContext(ctx).Save(test).Error
}

func (t *TestPostgreSQL) Delete(ctx context.Context, id uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Test{}, id).Error
	})
}

func (t *TestPostgreSQL) SetPublished(ctx context.Context, id uint, published bool) error {
	result := t.db.WithContext(ctx).Model(&models.Test{}).
		Where("id = ?", id).
		Update("published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (t *TestPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.TestStats, error) {
	var stats repositories.TestStats

	var questionCount int64
	if err := t.db.WithContext(ctx).Model(&models.Question{}).
		Where("test_id = ?", id).
		Count(&questionCount).Error; err != nil {
		return nil, err
	}
	stats.QuestionCount = int(questionCount)

	var totalAttempts int64
	if err := t.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("test_id = ?", id).
		Count(&totalAttempts).Error; err != nil {
		return nil, err
	}
	stats.TotalAttempts = int(totalAttempts)

	var avgMark float64
	var completedCount, passedCount int64
	row := t.db.WithContext(ctx).Model(&models.Attempt{}).
		Where("test_id = ? AND status = ?", id, models.AttemptCompleted).
		Select("COALESCE(AVG(mark), 0), COUNT(*), COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0)").
		Row()
	if err := row.Scan(&avgMark, &completedCount, &passedCount); err != nil {
		return nil, err
	}

	stats.CompletedAttempts = int(completedCount)
	stats.AverageMark = avgMark
	if completedCount > 0 {
		stats.PassRate = float64(passedCount) / float64(completedCount)
	}

	return &stats, nil
}

func (t *TestPostgreSQL) applyFilters(query *gorm.DB, filters repositories.TestFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	return query
}

// applyPaginationAndSort is shared by the list queries in this package.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	if sortBy != "" {
		order := sortBy
		if sortOrder == "desc" {
			order += " DESC"
		}
		query = query.Order(order)
	} else {
		query = query.Order("created_at DESC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
