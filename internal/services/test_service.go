package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcadept/placement-portal/internal/events"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
	"github.com/mcadept/placement-portal/internal/validator"
)

type testService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewTestService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) TestService {
	return &testService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates and persists a test definition with its questions.
// Officer or admin only.
func (s *testService) Create(ctx context.Context, req *CreateTestRequest, identity models.Identity) (*models.Test, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "test", "create", "requires officer role")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Equal bounds are a valid single-instant window; only a window that
	// ends before it starts is rejected.
	if req.LastDayToAttend.Before(req.StartDate) {
		return nil, NewValidationError("last_day_to_attend", "cannot be before start_date", req.LastDayToAttend)
	}
	if req.PassMark > len(req.Questions) {
		return nil, NewValidationError("pass_mark", "cannot exceed the number of questions", req.PassMark)
	}

	questions, err := s.buildQuestions(req)
	if err != nil {
		return nil, err
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	test := &models.Test{
		Name:            req.Name,
		Type:            req.Type,
		TimeLimit:       req.TimeLimit,
		StartDate:       req.StartDate,
		LastDayToAttend: req.LastDayToAttend,
		MaxAttempts:     maxAttempts,
		PassMark:        req.PassMark,
		Published:       req.Published,
		CreatedBy:       identity.UserID,
		Questions:       questions,
	}

	if err := s.repo.Test().Create(ctx, test); err != nil {
		s.logger.ErrorContext(ctx, "failed to create test", "name", req.Name, "error", err)
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	s.logger.InfoContext(ctx, "test created",
		"test_id", test.ID,
		"name", test.Name,
		"questions", len(test.Questions),
		"created_by", identity.UserID)

	if test.Published {
		s.publishTestEvent(ctx, test, identity.UserID)
	}

	return test, nil
}

// buildQuestions runs the content rules over each question and encodes the
// type-specific payload as jsonb.
func (s *testService) buildQuestions(req *CreateTestRequest) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(req.Questions))

	for i, q := range req.Questions {
		var content interface{}
		switch q.Type {
		case models.TestMultipleChoice:
			if q.MCQ == nil {
				return nil, NewValidationError(fmt.Sprintf("questions[%d].mcq", i), "multiple_choice question requires mcq content", nil)
			}
			content = q.MCQ
		case models.TestCoding:
			if q.Coding == nil {
				return nil, NewValidationError(fmt.Sprintf("questions[%d].coding", i), "coding question requires coding content", nil)
			}
			content = q.Coding
		default:
			return nil, NewValidationError(fmt.Sprintf("questions[%d].type", i), "unsupported question type", q.Type)
		}

		raw, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("failed to encode question %d content: %w", i+1, err)
		}

		question := models.Question{
			Position: i,
			Text:     q.Text,
			Type:     q.Type,
			Content:  raw,
		}

		if err := s.validator.Question().ValidateQuestion(&question, req.Type); err != nil {
			return nil, err
		}

		questions = append(questions, question)
	}

	return questions, nil
}

func (s *testService) GetByID(ctx context.Context, id uint, identity models.Identity) (*TestResponse, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	test.QuestionsCount = len(test.Questions)

	// Officers see the full definition including the answer key.
	if identity.IsOfficer() {
		return &TestResponse{Test: test}, nil
	}

	if !test.Published {
		return nil, ErrTestNotPublished
	}

	sanitized, err := SanitizeQuestions(test.Questions)
	if err != nil {
		return nil, err
	}
	test.Questions = nil

	return &TestResponse{Test: test, SanitizedQuestions: sanitized}, nil
}

func (s *testService) List(ctx context.Context) ([]*models.Test, error) {
	tests, _, err := s.repo.Test().List(ctx, repositories.TestFilters{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

func (s *testService) Publish(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "test", "publish", "requires officer role")
	}

	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to get test: %w", err)
	}

	if test.Published {
		return nil
	}

	if err := s.repo.Test().SetPublished(ctx, id, true); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to publish test: %w", err)
	}

	s.logger.InfoContext(ctx, "test published", "test_id", id, "published_by", identity.UserID)
	s.publishTestEvent(ctx, test, identity.UserID)

	return nil
}

// Unpublish hides a published test from students again. Existing attempt
// history is untouched.
func (s *testService) Unpublish(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "test", "unpublish", "requires officer role")
	}

	if err := s.repo.Test().SetPublished(ctx, id, false); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to unpublish test: %w", err)
	}

	s.logger.InfoContext(ctx, "test unpublished", "test_id", id, "unpublished_by", identity.UserID)
	return nil
}

// Delete removes a test definition. Tests that already have attempts are
// kept so that results history stays intact.
func (s *testService) Delete(ctx context.Context, id uint, identity models.Identity) error {
	if !identity.IsOfficer() {
		return NewPermissionError(identity.UserID, "test", "delete", "requires officer role")
	}

	if _, err := s.repo.Test().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to get test: %w", err)
	}

	hasAttempts, err := s.repo.Attempt().HasAttempts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check attempts: %w", err)
	}
	if hasAttempts {
		return ErrTestNotDeletable
	}

	if err := s.repo.Test().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}

	s.logger.InfoContext(ctx, "test deleted", "test_id", id, "deleted_by", identity.UserID)
	return nil
}

func (s *testService) GetStats(ctx context.Context, id uint, identity models.Identity) (*TestStatsResponse, error) {
	if !identity.IsOfficer() {
		return nil, NewPermissionError(identity.UserID, "test", "view_stats", "requires officer role")
	}

	stats, err := s.repo.Test().GetStats(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test stats: %w", err)
	}

	return &TestStatsResponse{
		TestID:            id,
		TotalAttempts:     stats.TotalAttempts,
		CompletedAttempts: stats.CompletedAttempts,
		AverageMark:       stats.AverageMark,
		PassRate:          stats.PassRate,
		QuestionCount:     stats.QuestionCount,
	}, nil
}

func (s *testService) publishTestEvent(ctx context.Context, test *models.Test, publishedBy string) {
	if s.publisher == nil {
		return
	}
	event := events.NewTestPublishedEvent(test.ID, test.Name, test.TimeLimit, test.StartDate, test.LastDayToAttend, publishedBy)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		// Notification delivery must not fail the request.
		s.logger.WarnContext(ctx, "failed to publish test event", "test_id", test.ID, "error", err)
	}
}

// SanitizeQuestions strips the answer key from questions before they are
// shown to a student. Multiple-choice keeps the options, coding keeps the
// visible test cases.
func SanitizeQuestions(questions []models.Question) ([]SanitizedQuestion, error) {
	sanitized := make([]SanitizedQuestion, 0, len(questions))

	for _, q := range questions {
		sq := SanitizedQuestion{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.Text,
			Type:     q.Type,
		}

		switch q.Type {
		case models.TestMultipleChoice:
			content, err := q.MCQ()
			if err != nil {
				return nil, fmt.Errorf("question %d has malformed content: %w", q.ID, err)
			}
			sq.Options = content.Options
		case models.TestCoding:
			content, err := q.Coding()
			if err != nil {
				return nil, fmt.Errorf("question %d has malformed content: %w", q.ID, err)
			}
			sq.TestCases = content.TestCases
		}

		sanitized = append(sanitized, sq)
	}

	return sanitized, nil
}
