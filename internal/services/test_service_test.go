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

var officer = models.Identity{UserID: "officer-1", Role: models.RoleOfficer}

func validCreateRequest() *CreateTestRequest {
	return &CreateTestRequest{
		Name:            "Aptitude Round 1",
		Type:            models.TestMultipleChoice,
		TimeLimit:       30,
		StartDate:       time.Now().Add(time.Hour),
		LastDayToAttend: time.Now().Add(7 * 24 * time.Hour),
		MaxAttempts:     2,
		PassMark:        1,
		Questions: []CreateQuestionRequest{
			{
				Text: "2 + 2 = ?",
				Type: models.TestMultipleChoice,
				MCQ: &models.MCQContent{
					Options:       []string{"2", "3", "4", "5"},
					CorrectAnswer: "4",
				},
			},
			{
				Text: "3 * 3 = ?",
				Type: models.TestMultipleChoice,
				MCQ: &models.MCQContent{
					Options:       []string{"6", "9", "12", "27"},
					CorrectAnswer: "9",
				},
			},
		},
	}
}

func newTestService(repo *mockRepository) TestService {
	return NewTestService(repo, validator.New(), nil, testLogger())
}

func TestTestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a test with encoded questions", func(t *testing.T) {
		repo := newMockRepository()

		var created *models.Test
		repo.test.On("Create", ctx, mock.AnythingOfType("*models.Test")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Test)
			}).
			Return(nil)

		test, err := newTestService(repo).Create(ctx, validCreateRequest(), officer)
		require.NoError(t, err)

		assert.Equal(t, "officer-1", test.CreatedBy)
		require.NotNil(t, created)
		require.Len(t, created.Questions, 2)
		assert.Equal(t, 0, created.Questions[0].Position)
		assert.Equal(t, 1, created.Questions[1].Position)

		content, err := created.Questions[0].MCQ()
		require.NoError(t, err)
		assert.Equal(t, "4", content.CorrectAnswer)
	})

	t.Run("students cannot create tests", func(t *testing.T) {
		repo := newMockRepository()

		_, err := newTestService(repo).Create(ctx, validCreateRequest(), student)

		var pe *PermissionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "create", pe.Action)
	})

	t.Run("rejects a schedule window that ends before it starts", func(t *testing.T) {
		repo := newMockRepository()
		req := validCreateRequest()
		req.LastDayToAttend = req.StartDate.Add(-time.Hour)

		_, err := newTestService(repo).Create(ctx, req, officer)
		assert.True(t, IsValidation(err))
	})

	t.Run("accepts a single-instant window with equal bounds", func(t *testing.T) {
		repo := newMockRepository()
		req := validCreateRequest()
		req.LastDayToAttend = req.StartDate

		repo.test.On("Create", ctx, mock.AnythingOfType("*models.Test")).Return(nil)

		test, err := newTestService(repo).Create(ctx, req, officer)
		require.NoError(t, err)
		assert.True(t, test.StartDate.Equal(test.LastDayToAttend))
	})

	t.Run("rejects a pass mark above the question count", func(t *testing.T) {
		repo := newMockRepository()
		req := validCreateRequest()
		req.PassMark = 3

		_, err := newTestService(repo).Create(ctx, req, officer)
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects an MCQ whose answer is not among the options", func(t *testing.T) {
		repo := newMockRepository()
		req := validCreateRequest()
		req.Questions[0].MCQ.CorrectAnswer = "7"

		_, err := newTestService(repo).Create(ctx, req, officer)
		assert.Error(t, err)
	})

	t.Run("rejects a question without type content", func(t *testing.T) {
		repo := newMockRepository()
		req := validCreateRequest()
		req.Questions[0].MCQ = nil

		_, err := newTestService(repo).Create(ctx, req, officer)
		assert.True(t, IsValidation(err))
	})
}

func TestTestService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a draft", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByID", ctx, uint(1)).Return(&models.Test{ID: 1, Name: "Aptitude Round 1"}, nil)
		repo.test.On("SetPublished", ctx, uint(1), true).Return(nil)

		err := newTestService(repo).Publish(ctx, 1, officer)
		require.NoError(t, err)
		repo.test.AssertExpectations(t)
	})

	t.Run("publishing twice is a no-op", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByID", ctx, uint(1)).Return(&models.Test{ID: 1, Published: true}, nil)

		err := newTestService(repo).Publish(ctx, 1, officer)
		require.NoError(t, err)
		repo.test.AssertNotCalled(t, "SetPublished", ctx, uint(1), true)
	})

	t.Run("students cannot publish", func(t *testing.T) {
		repo := newMockRepository()

		err := newTestService(repo).Publish(ctx, 1, student)

		var pe *PermissionError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestTestService_Unpublish(t *testing.T) {
	ctx := context.Background()

	t.Run("hides a published test", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("SetPublished", ctx, uint(1), false).Return(nil)

		err := newTestService(repo).Unpublish(ctx, 1, officer)
		require.NoError(t, err)
		repo.test.AssertExpectations(t)
	})

	t.Run("unknown test", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("SetPublished", ctx, uint(9), false).Return(gorm.ErrRecordNotFound)

		err := newTestService(repo).Unpublish(ctx, 9, officer)
		assert.ErrorIs(t, err, ErrTestNotFound)
	})

	t.Run("students cannot unpublish", func(t *testing.T) {
		repo := newMockRepository()

		err := newTestService(repo).Unpublish(ctx, 1, student)

		var pe *PermissionError
		assert.ErrorAs(t, err, &pe)
	})
}

func TestTestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a test without attempts", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByID", ctx, uint(1)).Return(&models.Test{ID: 1}, nil)
		repo.attempt.On("HasAttempts", ctx, uint(1)).Return(false, nil)
		repo.test.On("Delete", ctx, uint(1)).Return(nil)

		err := newTestService(repo).Delete(ctx, 1, officer)
		require.NoError(t, err)
		repo.test.AssertExpectations(t)
	})

	t.Run("refuses when attempts exist", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByID", ctx, uint(1)).Return(&models.Test{ID: 1}, nil)
		repo.attempt.On("HasAttempts", ctx, uint(1)).Return(true, nil)

		err := newTestService(repo).Delete(ctx, 1, officer)
		assert.ErrorIs(t, err, ErrTestNotDeletable)
		repo.test.AssertNotCalled(t, "Delete", ctx, uint(1))
	})

	t.Run("unknown test", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByID", ctx, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		err := newTestService(repo).Delete(ctx, 9, officer)
		assert.ErrorIs(t, err, ErrTestNotFound)
	})
}

func TestTestService_GetByID(t *testing.T) {
	ctx := context.Background()

	storedTest := func(published bool) *models.Test {
		return &models.Test{
			ID:        1,
			Name:      "Aptitude Round 1",
			Type:      models.TestMultipleChoice,
			Published: published,
			PassMark:  1,
			Questions: []models.Question{mcqQuestion(t, 10, 0, "B")},
		}
	}

	t.Run("officers see the answer key", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(storedTest(false), nil)

		resp, err := newTestService(repo).GetByID(ctx, 1, officer)
		require.NoError(t, err)

		require.Len(t, resp.Questions, 1)
		assert.Empty(t, resp.SanitizedQuestions)
	})

	t.Run("students get sanitized questions", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(storedTest(true), nil)

		resp, err := newTestService(repo).GetByID(ctx, 1, student)
		require.NoError(t, err)

		assert.Empty(t, resp.Questions)
		require.Len(t, resp.SanitizedQuestions, 1)
		assert.Equal(t, []string{"A", "B", "C", "D"}, resp.SanitizedQuestions[0].Options)
	})

	t.Run("students cannot see drafts", func(t *testing.T) {
		repo := newMockRepository()
		repo.test.On("GetByIDWithQuestions", ctx, uint(1)).Return(storedTest(false), nil)

		_, err := newTestService(repo).GetByID(ctx, 1, student)
		assert.ErrorIs(t, err, ErrTestNotPublished)
	})
}
