package services

import (
	"context"
	"fmt"

	"github.com/mcadept/placement-portal/internal/events"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
	"github.com/mcadept/placement-portal/internal/validator"
)

// ===== JOB POSTINGS =====

type jobService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewJobService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) JobService {
	return &jobService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *jobService) Create(ctx context.Context, req *CreateJobRequest, identity models.Identity) (*models.JobPosting, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "job", "create", "requires officer role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	job := &models.JobPosting{
		Title:         req.Title,
		Company:       req.Company,
		Description:   req.Description,
		Package:       req.Package,
		Location:      req.Location,
		IsCampusDrive: req.IsCampusDrive,
		ApplyLink:     req.ApplyLink,
		LastDate:      req.LastDate,
		PostedBy:      identity.UserID,
	}

	if err := s.repo.Job().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	s.logger.InfoContext(ctx, "job posting created",
		"job_id", job.ID,
		"company", job.Company,
		"campus_drive", job.IsCampusDrive,
		"posted_by", identity.UserID)

	if s.publisher != nil {
		event := events.NewJobPostedEvent(job.ID, job.Title, job.Company, job.IsCampusDrive, job.LastDate, identity.UserID)
		if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish job event", "job_id", job.ID, "error", err)
		}
	}

	return job, nil
}

func (s *jobService) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	job, err := s.repo.Job().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, campusOnly bool) ([]*models.JobPosting, error) {
	jobs, _, err := s.repo.Job().List(ctx, repositories.JobFilters{CampusDriveOnly: campusOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}

func (s *jobService) Update(ctx context.Context, id uint, req *CreateJobRequest, identity models.Identity) (*models.JobPosting, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "job", "update", "requires officer role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	job, err := s.repo.Job().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	job.Title = req.Title
	job.Company = req.Company
	job.Description = req.Description
	job.Package = req.Package
	job.Location = req.Location
	job.IsCampusDrive = req.IsCampusDrive
	job.ApplyLink = req.ApplyLink
	job.LastDate = req.LastDate

	if err := s.repo.Job().Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job posting: %w", err)
	}

	return job, nil
}

func (s *jobService) Delete(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "job", "delete", "requires officer role")
	}
	if _, err := s.repo.Job().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to get job posting: %w", err)
	}
	if err := s.repo.Job().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	s.logger.InfoContext(ctx, "job posting deleted", "job_id", id, "deleted_by", identity.UserID)
	return nil
}

// Apply records a student's application to a campus drive. External listings
// carry an apply link instead and cannot be applied to in the portal. The
// unique index on (job_id, student_id) rejects a second application.
func (s *jobService) Apply(ctx context.Context, jobID uint, identity models.Identity) (*models.JobApplication, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}

	if !job.IsCampusDrive {
		return nil, ErrNotCampusDrive
	}

	var resumeURL *string
	if user, err := s.repo.User().GetByID(ctx, identity.UserID); err == nil {
		resumeURL = user.ResumeURL
	}

	app := &models.JobApplication{
		JobID:     jobID,
		StudentID: identity.UserID,
		ResumeURL: resumeURL,
	}

	if err := s.repo.Job().CreateApplication(ctx, app); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.InfoContext(ctx, "campus drive application recorded",
		"job_id", jobID, "student_id", identity.UserID)

	return app, nil
}

func (s *jobService) Applications(ctx context.Context, jobID uint, identity models.Identity) ([]*models.JobApplication, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "job_applications", "list", "requires officer role")
	}
	if _, err := s.repo.Job().GetByID(ctx, jobID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	apps, err := s.repo.Job().GetApplications(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ===== BLOGS =====

type blogService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewBlogService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) BlogService {
	return &blogService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *blogService) Create(ctx context.Context, req *CreateBlogRequest, identity models.Identity) (*models.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: identity.UserID,
		// Officer posts go live immediately, student posts wait for approval.
		Approved: identity.IsOfficer(),
	}

	if err := s.repo.Blog().Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	s.logger.InfoContext(ctx, "blog created",
		"blog_id", blog.ID, "author_id", identity.UserID, "approved", blog.Approved)

	return blog, nil
}

func (s *blogService) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	blog, err := s.repo.Blog().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return blog, nil
}

// List shows approved posts to students and everything to officers.
func (s *blogService) List(ctx context.Context, identity models.Identity) ([]*models.Blog, error) {
	approvedOnly := !identity.IsOfficer()
	blogs, _, err := s.repo.Blog().List(ctx, approvedOnly, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

func (s *blogService) Approve(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "blog", "approve", "requires officer role")
	}

	blog, err := s.repo.Blog().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("failed to get blog: %w", err)
	}

	if blog.Approved {
		return nil
	}

	blog.Approved = true
	if err := s.repo.Blog().Update(ctx, blog); err != nil {
		return fmt.Errorf("failed to approve blog: %w", err)
	}

	s.logger.InfoContext(ctx, "blog approved", "blog_id", id, "approved_by", identity.UserID)

	if s.publisher != nil {
		event := events.NewBlogApprovedEvent(blog.ID, blog.Title, blog.AuthorID, identity.UserID)
		if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish blog event", "blog_id", blog.ID, "error", err)
		}
	}

	return nil
}

// Delete removes a blog. Authors may delete their own posts, officers any.
func (s *blogService) Delete(ctx context.Context, id uint, identity models.Identity) error {
	blog, err := s.repo.Blog().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBlogNotFound
		}
		return fmt.Errorf("failed to get blog: %w", err)
	}

	if blog.AuthorID != identity.UserID && !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "blog", "delete", "not the author")
	}

	if err := s.repo.Blog().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

// ===== STUDY MATERIALS =====

type materialService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewMaterialService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) MaterialService {
	return &materialService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *materialService) Create(ctx context.Context, req *CreateMaterialRequest, identity models.Identity) (*models.StudyMaterial, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "study_material", "create", "requires officer role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	material := &models.StudyMaterial{
		Title:      req.Title,
		Subject:    req.Subject,
		FileURL:    req.FileURL,
		UploadedBy: identity.UserID,
	}

	if err := s.repo.Material().Create(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to create study material: %w", err)
	}

	s.logger.InfoContext(ctx, "study material created",
		"material_id", material.ID, "subject", material.Subject, "uploaded_by", identity.UserID)

	return material, nil
}

func (s *materialService) List(ctx context.Context, subject *string) ([]*models.StudyMaterial, error) {
	materials, _, err := s.repo.Material().List(ctx, subject, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list study materials: %w", err)
	}
	return materials, nil
}

func (s *materialService) Delete(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "study_material", "delete", "requires officer role")
	}
	if _, err := s.repo.Material().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMaterialNotFound
		}
		return fmt.Errorf("failed to get study material: %w", err)
	}
	if err := s.repo.Material().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete study material: %w", err)
	}
	return nil
}

// ===== VIDEOS =====

type videoService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    utils.Logger
}

func NewVideoService(repo repositories.Repository, v *validator.Validator, logger utils.Logger) VideoService {
	return &videoService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

func (s *videoService) Create(ctx context.Context, req *CreateVideoRequest, identity models.Identity) (*models.Video, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "video", "create", "requires officer role")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	video := &models.Video{
		Title:      req.Title,
		Subject:    req.Subject,
		VideoURL:   req.VideoURL,
		UploadedBy: identity.UserID,
	}

	if err := s.repo.Video().Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.InfoContext(ctx, "video created",
		"video_id", video.ID, "subject", video.Subject, "uploaded_by", identity.UserID)

	return video, nil
}

func (s *videoService) List(ctx context.Context, subject *string) ([]*models.Video, error) {
	videos, _, err := s.repo.Video().List(ctx, subject, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *videoService) Delete(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "video", "delete", "requires officer role")
	}
	if _, err := s.repo.Video().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("failed to get video: %w", err)
	}
	if err := s.repo.Video().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}
