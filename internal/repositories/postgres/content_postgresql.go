package postgres

import (
	"context"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"gorm.io/gorm"
)

// ===== JOB POSTINGS =====

type JobPostgreSQL struct {
	db *gorm.DB
}

func NewJobPostgreSQL(db *gorm.DB) repositories.JobRepository {
	return &JobPostgreSQL{db: db}
}

func (j *JobPostgreSQL) Create(ctx context.Context, job *models.JobPosting) error {
	return j.db.WithContext(ctx).Create(job).Error
}

func (j *JobPostgreSQL) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := j.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobPostgreSQL) List(ctx context.Context, filters repositories.JobFilters) ([]*models.JobPosting, int64, error) {
	var jobs []*models.JobPosting
	var total int64

	query := j.db.WithContext(ctx).Model(&models.JobPosting{})
	if filters.CampusDriveOnly {
		query = query.Where("is_campus_drive = true")
	}
	if filters.PostedBy != nil {
		query = query.Where("posted_by = ?", *filters.PostedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)

	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (j *JobPostgreSQL) Update(ctx context.Context, job *models.JobPosting) error {
	return j.db.WithContext(ctx).Save(job).Error
}

func (j *JobPostgreSQL) Delete(ctx context.Context, id uint) error {
	return j.db.WithContext(ctx).Delete(&models.JobPosting{}, id).Error
}

func (j *JobPostgreSQL) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	return j.db.WithContext(ctx).Create(app).Error
}

func (j *JobPostgreSQL) GetApplications(ctx context.Context, jobID uint) ([]*models.JobApplication, error) {
	var apps []*models.JobApplication
	if err := j.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at ASC").
		Preload("Student").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ===== BLOGS =====

type BlogPostgreSQL struct {
	db *gorm.DB
}

func NewBlogPostgreSQL(db *gorm.DB) repositories.BlogRepository {
	return &BlogPostgreSQL{db: db}
}

func (b *BlogPostgreSQL) Create(ctx context.Context, blog *models.Blog) error {
	return b.db.WithContext(ctx).Create(blog).Error
}

func (b *BlogPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := b.db.WithContext(ctx).Preload("Author").First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (b *BlogPostgreSQL) List(ctx context.Context, approvedOnly bool, limit, offset int) ([]*models.Blog, int64, error) {
	var blogs []*models.Blog
	var total int64

	query := b.db.WithContext(ctx).Model(&models.Blog{})
	if approvedOnly {
		query = query.Where("approved = true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", limit, offset)

	if err := query.Preload("Author").Find(&blogs).Error; err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (b *BlogPostgreSQL) Update(ctx context.Context, blog *models.Blog) error {
	return b.db.WithContext(ctx).Save(blog).Error
}

func (b *BlogPostgreSQL) Delete(ctx context.Context, id uint) error {
	return b.db.WithContext(ctx).Delete(&models.Blog{}, id).Error
}

// ===== STUDY MATERIALS =====

type MaterialPostgreSQL struct {
	db *gorm.DB
}

func NewMaterialPostgreSQL(db *gorm.DB) repositories.MaterialRepository {
	return &MaterialPostgreSQL{db: db}
}

func (m *MaterialPostgreSQL) Create(ctx context.Context, material *models.StudyMaterial) error {
	return m.db.WithContext(ctx).Create(material).Error
}

func (m *MaterialPostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudyMaterial, error) {
	var material models.StudyMaterial
	if err := m.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (m *MaterialPostgreSQL) List(ctx context.Context, subject *string, limit, offset int) ([]*models.StudyMaterial, int64, error) {
	var materials []*models.StudyMaterial
	var total int64

	query := m.db.WithContext(ctx).Model(&models.StudyMaterial{})
	if subject != nil {
		query = query.Where("subject = ?", *subject)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", limit, offset)

	if err := query.Find(&materials).Error; err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (m *MaterialPostgreSQL) Update(ctx context.Context, material *models.StudyMaterial) error {
	return m.db.WithContext(ctx).Save(material).Error
}

func (m *MaterialPostgreSQL) Delete(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Delete(&models.StudyMaterial{}, id).Error
}

// ===== VIDEOS =====

type VideoPostgreSQL struct {
	db *gorm.DB
}

func NewVideoPostgreSQL(db *gorm.DB) repositories.VideoRepository {
	return &VideoPostgreSQL{db: db}
}

func (v *VideoPostgreSQL) Create(ctx context.Context, video *models.Video) error {
	return v.db.WithContext(ctx).Create(video).Error
}

func (v *VideoPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := v.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (v *VideoPostgreSQL) List(ctx context.Context, subject *string, limit, offset int) ([]*models.Video, int64, error) {
	var videos []*models.Video
	var total int64

	query := v.db.WithContext(ctx).Model(&models.Video{})
	if subject != nil {
		query = query.Where("subject = ?", *subject)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, "created_at", "desc", limit, offset)

	if err := query.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (v *VideoPostgreSQL) Update(ctx context.Context, video *models.Video) error {
	return v.db.WithContext(ctx).Save(video).Error
}

func (v *VideoPostgreSQL) Delete(ctx context.Context, id uint) error {
	return v.db.WithContext(ctx).Delete(&models.Video{}, id).Error
}
