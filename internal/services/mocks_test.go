package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ===== REPOSITORY MOCKS =====

type mockTestRepository struct {
	mock.Mock
}

func (m *mockTestRepository) Create(ctx context.Context, test *models.Test) error {
	args := m.Called(ctx, test)
	return args.Error(0)
}

func (m *mockTestRepository) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *mockTestRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *mockTestRepository) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Test), args.Get(1).(int64), args.Error(2)
}

func (m *mockTestRepository) Update(ctx context.Context, test *models.Test) error {
	args := m.Called(ctx, test)
	return args.Error(0)
}

func (m *mockTestRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTestRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	args := m.Called(ctx, id, published)
	return args.Error(0)
}

func (m *mockTestRepository) GetStats(ctx context.Context, id uint) (*repositories.TestStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TestStats), args.Error(1)
}

type mockAttemptRepository struct {
	mock.Mock
}

func (m *mockAttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attempt), args.Error(1)
}

func (m *mockAttemptRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attempt), args.Error(1)
}

func (m *mockAttemptRepository) Update(ctx context.Context, attempt *models.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockAttemptRepository) GetActiveAttempt(ctx context.Context, studentID string, testID uint) (*models.Attempt, error) {
	args := m.Called(ctx, studentID, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attempt), args.Error(1)
}

func (m *mockAttemptRepository) CountCompleted(ctx context.Context, studentID string, testID uint) (int64, error) {
	args := m.Called(ctx, studentID, testID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAttemptRepository) HasAttempts(ctx context.Context, testID uint) (bool, error) {
	args := m.Called(ctx, testID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttemptRepository) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.Attempt, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Attempt), args.Get(1).(int64), args.Error(2)
}

func (m *mockAttemptRepository) GetCompletedByStudent(ctx context.Context, studentID string) ([]*models.Attempt, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attempt), args.Error(1)
}

func (m *mockAttemptRepository) GetCompletedByTest(ctx context.Context, testID uint) ([]*models.Attempt, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attempt), args.Error(1)
}

func (m *mockAttemptRepository) GetAllCompleted(ctx context.Context) ([]*models.Attempt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attempt), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, role *models.UserRole, limit, offset int) ([]*models.User, int64, error) {
	args := m.Called(ctx, role, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

type mockJobRepository struct {
	mock.Mock
}

func (m *mockJobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepository) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPosting), args.Error(1)
}

func (m *mockJobRepository) List(ctx context.Context, filters repositories.JobFilters) ([]*models.JobPosting, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.JobPosting), args.Get(1).(int64), args.Error(2)
}

func (m *mockJobRepository) Update(ctx context.Context, job *models.JobPosting) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockJobRepository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockJobRepository) GetApplications(ctx context.Context, jobID uint) ([]*models.JobApplication, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JobApplication), args.Error(1)
}

type mockBlogRepository struct {
	mock.Mock
}

func (m *mockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *mockBlogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *mockBlogRepository) List(ctx context.Context, approvedOnly bool, limit, offset int) ([]*models.Blog, int64, error) {
	args := m.Called(ctx, approvedOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *mockBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	args := m.Called(ctx, blog)
	return args.Error(0)
}

func (m *mockBlogRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMaterialRepository struct {
	mock.Mock
}

func (m *mockMaterialRepository) Create(ctx context.Context, material *models.StudyMaterial) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *mockMaterialRepository) GetByID(ctx context.Context, id uint) (*models.StudyMaterial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyMaterial), args.Error(1)
}

func (m *mockMaterialRepository) List(ctx context.Context, subject *string, limit, offset int) ([]*models.StudyMaterial, int64, error) {
	args := m.Called(ctx, subject, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.StudyMaterial), args.Get(1).(int64), args.Error(2)
}

func (m *mockMaterialRepository) Update(ctx context.Context, material *models.StudyMaterial) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *mockMaterialRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockVideoRepository struct {
	mock.Mock
}

func (m *mockVideoRepository) Create(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *mockVideoRepository) List(ctx context.Context, subject *string, limit, offset int) ([]*models.Video, int64, error) {
	args := m.Called(ctx, subject, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Video), args.Get(1).(int64), args.Error(2)
}

func (m *mockVideoRepository) Update(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *mockVideoRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockRepository aggregates the per-entity mocks. WithTransaction runs the
// callback against the same mock set, mirroring how the real implementation
// rebinds repositories to the transaction.
type mockRepository struct {
	test     *mockTestRepository
	attempt  *mockAttemptRepository
	user     *mockUserRepository
	job      *mockJobRepository
	blog     *mockBlogRepository
	material *mockMaterialRepository
	video    *mockVideoRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		test:     new(mockTestRepository),
		attempt:  new(mockAttemptRepository),
		user:     new(mockUserRepository),
		job:      new(mockJobRepository),
		blog:     new(mockBlogRepository),
		material: new(mockMaterialRepository),
		video:    new(mockVideoRepository),
	}
}

func (m *mockRepository) Test() repositories.TestRepository         { return m.test }
func (m *mockRepository) Attempt() repositories.AttemptRepository   { return m.attempt }
func (m *mockRepository) User() repositories.UserRepository         { return m.user }
func (m *mockRepository) Job() repositories.JobRepository           { return m.job }
func (m *mockRepository) Blog() repositories.BlogRepository         { return m.blog }
func (m *mockRepository) Material() repositories.MaterialRepository { return m.material }
func (m *mockRepository) Video() repositories.VideoRepository       { return m.video }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
