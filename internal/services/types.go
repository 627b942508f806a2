package services

import (
	"context"
	"time"

	"github.com/mcadept/placement-portal/internal/models"
)

// ===== SERVICE INTERFACES =====

type TestService interface {
	Create(ctx context.Context, req *CreateTestRequest, identity models.Identity) (*models.Test, error)
	GetByID(ctx context.Context, id uint, identity models.Identity) (*TestResponse, error)
	List(ctx context.Context) ([]*models.Test, error)
	Publish(ctx context.Context, id uint, identity models.Identity) error
	Unpublish(ctx context.Context, id uint, identity models.Identity) error
	Delete(ctx context.Context, id uint, identity models.Identity) error
	GetStats(ctx context.Context, id uint, identity models.Identity) (*TestStatsResponse, error)
}

type AttemptService interface {
	Begin(ctx context.Context, testID uint, identity models.Identity) (*BeginAttemptResponse, error)
	Submit(ctx context.Context, testID uint, req *SubmitAttemptRequest, identity models.Identity) (*SubmitAttemptResponse, error)
	MyResults(ctx context.Context, identity models.Identity) ([]*AttemptResult, error)
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context) (*LeaderboardResponse, error)
	TestRanking(ctx context.Context, testID uint) (*TestRanking, error)
	Invalidate(ctx context.Context)
}

type ExportService interface {
	ExportTestResults(ctx context.Context, testID uint, identity models.Identity) ([]byte, error)
	ExportLeaderboard(ctx context.Context, identity models.Identity) ([]byte, error)
}

type JobService interface {
	Create(ctx context.Context, req *CreateJobRequest, identity models.Identity) (*models.JobPosting, error)
	GetByID(ctx context.Context, id uint) (*models.JobPosting, error)
	List(ctx context.Context, campusOnly bool) ([]*models.JobPosting, error)
	Update(ctx context.Context, id uint, req *CreateJobRequest, identity models.Identity) (*models.JobPosting, error)
	Delete(ctx context.Context, id uint, identity models.Identity) error
	Apply(ctx context.Context, jobID uint, identity models.Identity) (*models.JobApplication, error)
	Applications(ctx context.Context, jobID uint, identity models.Identity) ([]*models.JobApplication, error)
}

type BlogService interface {
	Create(ctx context.Context, req *CreateBlogRequest, identity models.Identity) (*models.Blog, error)
	GetByID(ctx context.Context, id uint) (*models.Blog, error)
	List(ctx context.Context, identity models.Identity) ([]*models.Blog, error)
	Approve(ctx context.Context, id uint, identity models.Identity) error
	Delete(ctx context.Context, id uint, identity models.Identity) error
}

type MaterialService interface {
	Create(ctx context.Context, req *CreateMaterialRequest, identity models.Identity) (*models.StudyMaterial, error)
	List(ctx context.Context, subject *string) ([]*models.StudyMaterial, error)
	Delete(ctx context.Context, id uint, identity models.Identity) error
}

type VideoService interface {
	Create(ctx context.Context, req *CreateVideoRequest, identity models.Identity) (*models.Video, error)
	List(ctx context.Context, subject *string) ([]*models.Video, error)
	Delete(ctx context.Context, id uint, identity models.Identity) error
}

// ServiceManager wires all services behind one constructor for the router.
type ServiceManager interface {
	Test() TestService
	Attempt() AttemptService
	Leaderboard() LeaderboardService
	Export() ExportService
	Job() JobService
	Blog() BlogService
	Material() MaterialService
	Video() VideoService
}

// ===== TEST DTOS =====

type CreateTestRequest struct {
	Name            string                  `json:"name" validate:"required,min=1,max=200"`
	Type            models.TestType         `json:"type" validate:"required,test_type"`
	TimeLimit       int                     `json:"time_limit" validate:"required,min=1,max=300"`
	StartDate       time.Time               `json:"start_date" validate:"required"`
	LastDayToAttend time.Time               `json:"last_day_to_attend" validate:"required"`
	MaxAttempts     int                     `json:"max_attempts" validate:"min=1,max=10"`
	PassMark        int                     `json:"pass_mark" validate:"min=0"`
	Published       bool                    `json:"published"`
	Questions       []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text   string                `json:"text" validate:"required"`
	Type   models.TestType       `json:"type" validate:"required,test_type"`
	MCQ    *models.MCQContent    `json:"mcq,omitempty"`
	Coding *models.CodingContent `json:"coding,omitempty"`
}

// TestResponse carries a test definition. For students the questions are
// sanitized and the answer key removed.
type TestResponse struct {
	*models.Test
	SanitizedQuestions []SanitizedQuestion `json:"sanitized_questions,omitempty"`
}

type TestStatsResponse struct {
	TestID            uint    `json:"test_id"`
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageMark       float64 `json:"average_mark"`
	PassRate          float64 `json:"pass_rate"`
	QuestionCount     int     `json:"question_count"`
}

// ===== ATTEMPT DTOS =====

// SanitizedQuestion is a question stripped of its answer key: options only
// for multiple-choice, visible test cases only for coding.
type SanitizedQuestion struct {
	ID        uint                    `json:"id"`
	Position  int                     `json:"position"`
	Text      string                  `json:"text"`
	Type      models.TestType         `json:"type"`
	Options   []string                `json:"options,omitempty"`
	TestCases []models.CodingTestCase `json:"test_cases,omitempty"`
}

type BeginAttemptResponse struct {
	AttemptID     uint                `json:"attempt_id"`
	AttemptNumber int                 `json:"attempt_number"`
	StartedAt     time.Time           `json:"started_at"`
	Deadline      time.Time           `json:"deadline"`
	TimeLimit     int                 `json:"time_limit"` // minutes
	Questions     []SanitizedQuestion `json:"questions"`
}

type SubmitAttemptRequest struct {
	Answers   models.AnswerSheet `json:"answers"`
	TimeTaken int                `json:"time_taken" validate:"min=0"` // seconds
}

type SubmitAttemptResponse struct {
	AttemptNumber    int     `json:"attempt_number"`
	Mark             int     `json:"mark"`
	WrongCount       int     `json:"wrong_count"`
	NotAnsweredCount int     `json:"not_answered_count"`
	TotalQuestions   int     `json:"total_questions"`
	Percentage       float64 `json:"percentage"`
	Passed           bool    `json:"passed"`
	TimedOut         bool    `json:"timed_out"`
}

// AttemptResult is a completed attempt with its per-question breakdown
// decoded for history display.
type AttemptResult struct {
	AttemptID     uint                    `json:"attempt_id"`
	TestID        uint                    `json:"test_id"`
	TestName      string                  `json:"test_name"`
	AttemptNumber int                     `json:"attempt_number"`
	StartedAt     time.Time               `json:"started_at"`
	CompletedAt   *time.Time              `json:"completed_at"`
	TimeTaken     int                     `json:"time_taken"`
	Mark          int                     `json:"mark"`
	WrongCount    int                     `json:"wrong_count"`
	NotAnswered   int                     `json:"not_answered"`
	Total         int                     `json:"total_questions"`
	Percentage    float64                 `json:"percentage"`
	Passed        bool                    `json:"passed"`
	Breakdown     []models.QuestionResult `json:"breakdown"`
}

// ===== LEADERBOARD DTOS =====

type TestRankingEntry struct {
	Rank          int        `json:"rank"`
	StudentID     string     `json:"student_id"`
	StudentName   string     `json:"student_name"`
	Mark          int        `json:"mark"`
	Percentage    float64    `json:"percentage"`
	AttemptNumber int        `json:"attempt_number"`
	CompletedAt   *time.Time `json:"completed_at"`
}

type TestRanking struct {
	TestID   uint               `json:"test_id"`
	TestName string             `json:"test_name"`
	Entries  []TestRankingEntry `json:"entries"`
}

type OverallRankingEntry struct {
	Rank              int     `json:"rank"`
	StudentID         string  `json:"student_id"`
	StudentName       string  `json:"student_name"`
	TotalMark         int     `json:"total_mark"`
	TestsTaken        int     `json:"tests_taken"`
	AveragePercentage float64 `json:"average_percentage"`
}

type LeaderboardResponse struct {
	OverallRankings []OverallRankingEntry `json:"overall_rankings"`
	TestRankings    []TestRanking         `json:"test_rankings"`
}

// ===== CONTENT DTOS =====

type CreateJobRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=200"`
	Company       string     `json:"company" validate:"required,min=1,max=200"`
	Description   string     `json:"description"`
	Package       *string    `json:"package"`
	Location      *string    `json:"location"`
	IsCampusDrive bool       `json:"is_campus_drive"`
	ApplyLink     *string    `json:"apply_link" validate:"omitempty,url"`
	LastDate      *time.Time `json:"last_date"`
}

type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}

type CreateMaterialRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Subject string `json:"subject" validate:"required"`
	FileURL string `json:"file_url" validate:"required,url"`
}

type CreateVideoRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Subject  string `json:"subject" validate:"required"`
	VideoURL string `json:"video_url" validate:"required,url"`
}
