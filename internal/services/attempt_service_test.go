package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/validator"
)

func openTest(questions ...models.Question) *models.Test {
	return &models.Test{
		ID:              1,
		Name:            "Aptitude Round 1",
		Type:            models.TestMultipleChoice,
		TimeLimit:       30,
		StartDate:       time.Now().Add(-24 * time.Hour),
		LastDayToAttend: time.Now().Add(24 * time.Hour),
		MaxAttempts:     2,
		PassMark:        1,
		Published:       true,
		Questions:       questions,
	}
}

func newAttemptService(repo *mockRepository) AttemptService {
	return NewAttemptService(repo, validator.New(), nil, nil, testLogger())
}

var student = models.Identity{UserID: "student-1", Role: models.RoleStudent}

func TestAttemptService_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("starts first attempt with sanitized questions", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(mcqQuestion(t, 10, 0, "B"))

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("CountCompleted", ctx, "student-1", uint(1)).Return(int64(0), nil)
		repo.attempt.On("Create", ctx, mock.AnythingOfType("*models.Attempt")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Attempt).ID = 42
			}).
			Return(nil)

		resp, err := newAttemptService(repo).Begin(ctx, 1, student)
		require.NoError(t, err)

		assert.Equal(t, uint(42), resp.AttemptID)
		assert.Equal(t, 1, resp.AttemptNumber)
		assert.Equal(t, 30, resp.TimeLimit)
		assert.True(t, resp.Deadline.After(resp.StartedAt))

		require.Len(t, resp.Questions, 1)
		assert.Equal(t, []string{"A", "B", "C", "D"}, resp.Questions[0].Options)

		repo.attempt.AssertExpectations(t)
	})

	t.Run("refuses unpublished test", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest()
		test.Published = false

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)

		_, err := newAttemptService(repo).Begin(ctx, 1, student)
		assert.ErrorIs(t, err, ErrTestNotPublished)
	})

	t.Run("refuses before the start date", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest()
		test.StartDate = time.Now().Add(time.Hour)

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)

		_, err := newAttemptService(repo).Begin(ctx, 1, student)
		assert.ErrorIs(t, err, ErrOutOfWindow)
	})

	t.Run("refuses after the last day", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest()
		test.LastDayToAttend = time.Now().Add(-time.Hour)

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)

		_, err := newAttemptService(repo).Begin(ctx, 1, student)
		assert.ErrorIs(t, err, ErrOutOfWindow)
	})

	t.Run("refuses when attempts are exhausted", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest()

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("CountCompleted", ctx, "student-1", uint(1)).Return(int64(2), nil)

		_, err := newAttemptService(repo).Begin(ctx, 1, student)
		assert.ErrorIs(t, err, ErrAttemptsExhausted)
	})

	t.Run("maps a duplicate insert to attempt in progress", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(mcqQuestion(t, 10, 0, "B"))

		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("CountCompleted", ctx, "student-1", uint(1)).Return(int64(0), nil)
		repo.attempt.On("Create", ctx, mock.AnythingOfType("*models.Attempt")).
			Return(gorm.ErrDuplicatedKey)

		_, err := newAttemptService(repo).Begin(ctx, 1, student)
		assert.ErrorIs(t, err, ErrAttemptInProgress)
	})

	t.Run("unknown test", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByIDWithQuestions", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := newAttemptService(repo).Begin(ctx, 99, student)
		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestAttemptService_Submit(t *testing.T) {
	ctx := context.Background()

	activeAttempt := func() *models.Attempt {
		return &models.Attempt{
			ID:            42,
			TestID:        1,
			StudentID:     "student-1",
			AttemptNumber: 1,
			Status:        models.AttemptStarted,
			StartedAt:     time.Now().Add(-10 * time.Minute),
			Deadline:      time.Now().Add(20 * time.Minute),
		}
	}

	t.Run("scores and completes the active attempt", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(
			mcqQuestion(t, 10, 0, "B"),
			mcqQuestion(t, 11, 1, "C"),
		)
		attempt := activeAttempt()

		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(attempt, nil)
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("GetByIDForUpdate", ctx, uint(42)).Return(attempt, nil)

		var saved *models.Attempt
		repo.attempt.On("Update", ctx, mock.AnythingOfType("*models.Attempt")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.Attempt)
			}).
			Return(nil)

		req := &SubmitAttemptRequest{
			Answers: models.AnswerSheet{
				0: {Selected: strPtr("B")},
				1: {Selected: strPtr("A")},
			},
			TimeTaken: 540,
		}

		resp, err := newAttemptService(repo).Submit(ctx, 1, req, student)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Mark)
		assert.Equal(t, 1, resp.WrongCount)
		assert.Equal(t, 2, resp.TotalQuestions)
		assert.True(t, resp.Passed)
		assert.False(t, resp.TimedOut)

		require.NotNil(t, saved)
		assert.Equal(t, models.AttemptCompleted, saved.Status)
		require.NotNil(t, saved.CompletedAt)
		require.NotNil(t, saved.EndReason)
		assert.Equal(t, models.AttemptEndReasonSubmitted, *saved.EndReason)
		assert.Equal(t, 540, saved.TimeTaken)
		assert.NotEmpty(t, saved.Breakdown)
	})

	t.Run("empty sheet counts everything as unanswered", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(
			mcqQuestion(t, 10, 0, "B"),
			mcqQuestion(t, 11, 1, "C"),
		)
		attempt := activeAttempt()

		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(attempt, nil)
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("GetByIDForUpdate", ctx, uint(42)).Return(attempt, nil)
		repo.attempt.On("Update", ctx, mock.AnythingOfType("*models.Attempt")).Return(nil)

		resp, err := newAttemptService(repo).Submit(ctx, 1, &SubmitAttemptRequest{Answers: models.AnswerSheet{}}, student)
		require.NoError(t, err)

		assert.Equal(t, 0, resp.Mark)
		assert.Equal(t, 2, resp.NotAnsweredCount)
		assert.False(t, resp.Passed)
	})

	t.Run("inflated client time is capped to the elapsed wall clock", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(mcqQuestion(t, 10, 0, "B"))
		attempt := activeAttempt()

		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(attempt, nil)
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("GetByIDForUpdate", ctx, uint(42)).Return(attempt, nil)

		var saved *models.Attempt
		repo.attempt.On("Update", ctx, mock.AnythingOfType("*models.Attempt")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.Attempt)
			}).
			Return(nil)

		// 10 minutes have elapsed; the client claims 25.
		req := &SubmitAttemptRequest{
			Answers:   models.AnswerSheet{0: {Selected: strPtr("B")}},
			TimeTaken: 25 * 60,
		}

		_, err := newAttemptService(repo).Submit(ctx, 1, req, student)
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.InDelta(t, 10*60, saved.TimeTaken, 2)
	})

	t.Run("late submission is scored but flagged timed out", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(mcqQuestion(t, 10, 0, "B"))
		attempt := activeAttempt()
		attempt.StartedAt = time.Now().Add(-45 * time.Minute)
		attempt.Deadline = time.Now().Add(-time.Minute)

		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(attempt, nil)
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)
		repo.attempt.On("GetByIDForUpdate", ctx, uint(42)).Return(attempt, nil)

		var saved *models.Attempt
		repo.attempt.On("Update", ctx, mock.AnythingOfType("*models.Attempt")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.Attempt)
			}).
			Return(nil)

		req := &SubmitAttemptRequest{
			Answers: models.AnswerSheet{0: {Selected: strPtr("B")}},
		}

		resp, err := newAttemptService(repo).Submit(ctx, 1, req, student)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Mark)
		assert.True(t, resp.TimedOut)

		require.NotNil(t, saved)
		require.NotNil(t, saved.EndReason)
		assert.Equal(t, models.AttemptEndReasonTimeout, *saved.EndReason)
		// Recorded time never exceeds the 30 minute limit.
		assert.Equal(t, 30*60, saved.TimeTaken)
	})

	t.Run("no active attempt", func(t *testing.T) {
		repo := newMockRepository()
		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(nil, nil)

		_, err := newAttemptService(repo).Submit(ctx, 1, &SubmitAttemptRequest{Answers: models.AnswerSheet{}}, student)
		assert.ErrorIs(t, err, ErrNoActiveAttempt)
	})

	t.Run("double submit loses the race inside the transaction", func(t *testing.T) {
		repo := newMockRepository()
		test := openTest(mcqQuestion(t, 10, 0, "B"))
		attempt := activeAttempt()

		repo.attempt.On("GetActiveAttempt", ctx, "student-1", uint(1)).Return(attempt, nil)
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(test, nil)

		// The locked reload sees the row the concurrent submit completed.
		completed := activeAttempt()
		completed.Status = models.AttemptCompleted
		repo.attempt.On("GetByIDForUpdate", ctx, uint(42)).Return(completed, nil)

		_, err := newAttemptService(repo).Submit(ctx, 1, &SubmitAttemptRequest{Answers: models.AnswerSheet{}}, student)
		assert.ErrorIs(t, err, ErrNoActiveAttempt)
		repo.attempt.AssertNotCalled(t, "Update", ctx, mock.Anything)
		repo.attempt.AssertNotCalled(t, "GetByID", ctx, mock.Anything)
	})
}

func TestAttemptService_MyResults(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()

	completedAt := time.Now().Add(-time.Hour)
	attempts := []*models.Attempt{
		{
			ID:             42,
			TestID:         1,
			StudentID:      "student-1",
			AttemptNumber:  1,
			Status:         models.AttemptCompleted,
			CompletedAt:    &completedAt,
			Mark:           3,
			TotalQuestions: 4,
			Percentage:     75,
			Passed:         true,
			Breakdown:      []byte(`[{"question_id":10,"position":0,"answered":true,"correct":true}]`),
			Test:           models.Test{ID: 1, Name: "Aptitude Round 1"},
		},
	}

	repo.attempt.On("GetCompletedByStudent", ctx, "student-1").Return(attempts, nil)

	results, err := newAttemptService(repo).MyResults(ctx, student)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Aptitude Round 1", results[0].TestName)
	assert.Equal(t, 3, results[0].Mark)
	require.Len(t, results[0].Breakdown, 1)
	assert.True(t, results[0].Breakdown[0].Correct)
}
