package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcadept/placement-portal/internal/cache"
	"github.com/mcadept/placement-portal/internal/events"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
	"github.com/mcadept/placement-portal/internal/validator"
)

// submitGracePeriod absorbs network latency between the client-side timer
// firing and the submission reaching the server. Submissions after the
// deadline are still scored but recorded as timed out.
const submitGracePeriod = 30 * time.Second

type attemptService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	now       func() time.Time
}

func NewAttemptService(repo repositories.Repository, v *validator.Validator, cacheService cache.CacheService, publisher events.EventPublisher, logger utils.Logger) AttemptService {
	return &attemptService{
		repo:      repo,
		validator: v,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Begin starts a new attempt for a student on a test. The started attempt is
// inserted directly; a partial unique index on (student_id, test_id) where
// status = 'started' rejects a concurrent begin, so there is no window
// between checking and inserting.
func (s *attemptService) Begin(ctx context.Context, testID uint, identity models.Identity) (*BeginAttemptResponse, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if !test.Published {
		return nil, ErrTestNotPublished
	}

	now := s.now()
	if now.Before(test.StartDate) || now.After(test.LastDayToAttend) {
		return nil, ErrOutOfWindow
	}

	completed, err := s.repo.Attempt().CountCompleted(ctx, identity.UserID, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	if int(completed) >= test.MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	attempt := &models.Attempt{
		TestID:         testID,
		StudentID:      identity.UserID,
		AttemptNumber:  int(completed) + 1,
		Status:         models.AttemptStarted,
		StartedAt:      now,
		Deadline:       now.Add(time.Duration(test.TimeLimit)*time.Minute + submitGracePeriod),
		TotalQuestions: len(test.Questions),
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAttemptInProgress
		}
		s.logger.ErrorContext(ctx, "failed to create attempt",
			"test_id", testID, "student_id", identity.UserID, "error", err)
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.logger.InfoContext(ctx, "attempt started",
		"attempt_id", attempt.ID,
		"test_id", testID,
		"student_id", identity.UserID,
		"attempt_number", attempt.AttemptNumber)

	questions, err := SanitizeQuestions(test.Questions)
	if err != nil {
		return nil, err
	}

	s.publishAttemptStarted(ctx, attempt, test)

	return &BeginAttemptResponse{
		AttemptID:     attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		StartedAt:     attempt.StartedAt,
		Deadline:      attempt.Deadline,
		TimeLimit:     test.TimeLimit,
		Questions:     questions,
	}, nil
}

// Submit scores the active attempt and completes it. Submissions past the
// deadline are still scored, but the attempt is marked timed out and the
// recorded time is capped at the time limit.
func (s *attemptService) Submit(ctx context.Context, testID uint, req *SubmitAttemptRequest, identity models.Identity) (*SubmitAttemptResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	active, err := s.repo.Attempt().GetActiveAttempt(ctx, identity.UserID, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active attempt: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveAttempt
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	score, err := Score(test, req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to score attempt: %w", err)
	}

	now := s.now()
	timedOut := now.After(active.Deadline)

	// The server clock is authoritative; the client-reported time can only
	// tighten it, never extend it.
	limitSeconds := test.TimeLimit * 60
	timeTaken := int(now.Sub(active.StartedAt).Seconds())
	if req.TimeTaken > 0 && req.TimeTaken < timeTaken {
		timeTaken = req.TimeTaken
	}
	if timeTaken > limitSeconds {
		timeTaken = limitSeconds
	}

	endReason := models.AttemptEndReasonSubmitted
	if timedOut {
		endReason = models.AttemptEndReasonTimeout
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	breakdownJSON, err := json.Marshal(score.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// The locked reload serializes concurrent submits on the row, so a
		// second submit waits here and then sees the completed status
		// instead of re-scoring the attempt.
		attempt, err := tx.Attempt().GetByIDForUpdate(ctx, active.ID)
		if err != nil {
			return fmt.Errorf("failed to reload attempt: %w", err)
		}
		if attempt.Status != models.AttemptStarted {
			return ErrNoActiveAttempt
		}

		attempt.Status = models.AttemptCompleted
		attempt.CompletedAt = &now
		attempt.TimeTaken = timeTaken
		attempt.EndReason = &endReason
		attempt.Mark = score.Mark
		attempt.WrongCount = score.WrongCount
		attempt.NotAnsweredCount = score.NotAnsweredCount
		attempt.TotalQuestions = score.TotalQuestions
		attempt.Percentage = score.Percentage
		attempt.Passed = score.Passed
		attempt.Answers = answersJSON
		attempt.Breakdown = breakdownJSON

		return tx.Attempt().Update(ctx, attempt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "attempt submitted",
		"attempt_id", active.ID,
		"test_id", testID,
		"student_id", identity.UserID,
		"mark", score.Mark,
		"total", score.TotalQuestions,
		"passed", score.Passed,
		"timed_out", timedOut)

	s.invalidateLeaderboard(ctx)
	s.publishAttemptSubmitted(ctx, active, test, score, now, timedOut)

	return &SubmitAttemptResponse{
		AttemptNumber:    active.AttemptNumber,
		Mark:             score.Mark,
		WrongCount:       score.WrongCount,
		NotAnsweredCount: score.NotAnsweredCount,
		TotalQuestions:   score.TotalQuestions,
		Percentage:       score.Percentage,
		Passed:           score.Passed,
		TimedOut:         timedOut,
	}, nil
}

// MyResults returns the student's completed attempts, newest first, with the
// per-question breakdown decoded.
func (s *attemptService) MyResults(ctx context.Context, identity models.Identity) ([]*AttemptResult, error) {
	attempts, err := s.repo.Attempt().GetCompletedByStudent(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	results := make([]*AttemptResult, 0, len(attempts))
	for _, a := range attempts {
		result := &AttemptResult{
			AttemptID:     a.ID,
			TestID:        a.TestID,
			AttemptNumber: a.AttemptNumber,
			StartedAt:     a.StartedAt,
			CompletedAt:   a.CompletedAt,
			TimeTaken:     a.TimeTaken,
			Mark:          a.Mark,
			WrongCount:    a.WrongCount,
			NotAnswered:   a.NotAnsweredCount,
			Total:         a.TotalQuestions,
			Percentage:    a.Percentage,
			Passed:        a.Passed,
		}
		if a.Test.ID != 0 {
			result.TestName = a.Test.Name
		}
		if len(a.Breakdown) > 0 {
			if err := json.Unmarshal(a.Breakdown, &result.Breakdown); err != nil {
				s.logger.WarnContext(ctx, "failed to decode attempt breakdown", "attempt_id", a.ID, "error", err)
			}
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *attemptService) invalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, leaderboardKeyPattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate leaderboard cache", "error", err)
	}
}

func (s *attemptService) publishAttemptStarted(ctx context.Context, attempt *models.Attempt, test *models.Test) {
	if s.publisher == nil {
		return
	}
	event := events.NewAttemptStartedEvent(attempt.ID, test.ID, test.Name, attempt.StudentID, attempt.AttemptNumber, attempt.StartedAt, attempt.Deadline)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish attempt started event", "attempt_id", attempt.ID, "error", err)
	}
}

func (s *attemptService) publishAttemptSubmitted(ctx context.Context, attempt *models.Attempt, test *models.Test, score *ScoreResult, submittedAt time.Time, timedOut bool) {
	if s.publisher == nil {
		return
	}
	event := events.NewAttemptSubmittedEvent(attempt.ID, test.ID, test.Name, attempt.StudentID, attempt.AttemptNumber, submittedAt, score.Mark, score.Percentage, score.Passed, timedOut)
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish attempt submitted event", "attempt_id", attempt.ID, "error", err)
	}
}
