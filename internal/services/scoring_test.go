package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcadept/placement-portal/internal/models"
)

func mcqQuestion(t *testing.T, id uint, position int, correct string) models.Question {
	t.Helper()
	content, err := json.Marshal(models.MCQContent{
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: correct,
	})
	require.NoError(t, err)
	return models.Question{
		ID:       id,
		Position: position,
		Text:     "pick one",
		Type:     models.TestMultipleChoice,
		Content:  content,
	}
}

func codingQuestion(t *testing.T, id uint, position int) models.Question {
	t.Helper()
	content, err := json.Marshal(models.CodingContent{
		TestCases: []models.CodingTestCase{{Input: "1 2", Output: "3"}},
	})
	require.NoError(t, err)
	return models.Question{
		ID:       id,
		Position: position,
		Text:     "write a solution",
		Type:     models.TestCoding,
		Content:  content,
	}
}

func strPtr(s string) *string { return &s }

func TestScore_AllCorrect(t *testing.T) {
	test := &models.Test{
		PassMark: 3,
		Questions: []models.Question{
			mcqQuestion(t, 1, 0, "A"),
			mcqQuestion(t, 2, 1, "B"),
			mcqQuestion(t, 3, 2, "C"),
		},
	}
	answers := models.AnswerSheet{
		0: {Selected: strPtr("A")},
		1: {Selected: strPtr("B")},
		2: {Selected: strPtr("C")},
	}

	result, err := Score(test, answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Mark)
	assert.Equal(t, 0, result.WrongCount)
	assert.Equal(t, 0, result.NotAnsweredCount)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.InDelta(t, 100.0, result.Percentage, 0.001)
	assert.True(t, result.Passed)
}

func TestScore_PartiallyCorrect(t *testing.T) {
	test := &models.Test{
		PassMark: 3,
		Questions: []models.Question{
			mcqQuestion(t, 1, 0, "A"),
			mcqQuestion(t, 2, 1, "B"),
			mcqQuestion(t, 3, 2, "C"),
			mcqQuestion(t, 4, 3, "D"),
		},
	}
	answers := models.AnswerSheet{
		0: {Selected: strPtr("A")},
		1: {Selected: strPtr("B")},
		2: {Selected: strPtr("C")},
		3: {Selected: strPtr("A")}, // wrong
	}

	result, err := Score(test, answers)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Mark)
	assert.Equal(t, 1, result.WrongCount)
	assert.Equal(t, 0, result.NotAnsweredCount)
	assert.InDelta(t, 75.0, result.Percentage, 0.001)
	assert.True(t, result.Passed)
}

func TestScore_EmptySheet(t *testing.T) {
	test := &models.Test{
		PassMark: 1,
		Questions: []models.Question{
			mcqQuestion(t, 1, 0, "A"),
			mcqQuestion(t, 2, 1, "B"),
		},
	}

	result, err := Score(test, models.AnswerSheet{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Mark)
	assert.Equal(t, 0, result.WrongCount)
	assert.Equal(t, 2, result.NotAnsweredCount)
	assert.InDelta(t, 0.0, result.Percentage, 0.001)
	assert.False(t, result.Passed)
}

func TestScore_EmptySelectionCountsAsNotAnswered(t *testing.T) {
	test := &models.Test{
		PassMark: 1,
		Questions: []models.Question{
			mcqQuestion(t, 1, 0, "A"),
		},
	}
	answers := models.AnswerSheet{
		0: {Selected: strPtr("")},
	}

	result, err := Score(test, answers)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Mark)
	assert.Equal(t, 0, result.WrongCount)
	assert.Equal(t, 1, result.NotAnsweredCount)
}

func TestScore_CodingNonEmptySubmissionEarnsMark(t *testing.T) {
	test := &models.Test{
		PassMark: 1,
		Questions: []models.Question{
			codingQuestion(t, 1, 0),
			codingQuestion(t, 2, 1),
		},
	}
	answers := models.AnswerSheet{
		0: {Code: strPtr("def add(a, b):\n    return a + b")},
		1: {Code: strPtr("")},
	}

	result, err := Score(test, answers)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Mark)
	assert.Equal(t, 1, result.NotAnsweredCount)
	assert.True(t, result.Passed)
}

func TestScore_PassBoundary(t *testing.T) {
	test := &models.Test{
		PassMark: 2,
		Questions: []models.Question{
			mcqQuestion(t, 1, 0, "A"),
			mcqQuestion(t, 2, 1, "B"),
			mcqQuestion(t, 3, 2, "C"),
		},
	}

	// Exactly at the pass mark.
	result, err := Score(test, models.AnswerSheet{
		0: {Selected: strPtr("A")},
		1: {Selected: strPtr("B")},
		2: {Selected: strPtr("D")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Mark)
	assert.True(t, result.Passed)

	// One below.
	result, err = Score(test, models.AnswerSheet{
		0: {Selected: strPtr("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Mark)
	assert.False(t, result.Passed)
}

func TestScore_BreakdownKeepsAnswerDetail(t *testing.T) {
	test := &models.Test{
		PassMark: 1,
		Questions: []models.Question{
			mcqQuestion(t, 7, 0, "B"),
			mcqQuestion(t, 8, 1, "C"),
		},
	}
	answers := models.AnswerSheet{
		0: {Selected: strPtr("B")},
		1: {Selected: strPtr("A")},
	}

	result, err := Score(test, answers)
	require.NoError(t, err)
	require.Len(t, result.Breakdown, 2)

	first := result.Breakdown[0]
	assert.Equal(t, uint(7), first.QuestionID)
	assert.True(t, first.Answered)
	assert.True(t, first.Correct)
	assert.Equal(t, "B", *first.Selected)

	second := result.Breakdown[1]
	assert.True(t, second.Answered)
	assert.False(t, second.Correct)
	assert.Equal(t, "A", *second.Selected)
	assert.Equal(t, "C", *second.CorrectWith)
}

func TestScore_MalformedContentFails(t *testing.T) {
	test := &models.Test{
		Questions: []models.Question{
			{
				ID:      1,
				Type:    models.TestMultipleChoice,
				Content: []byte("not json"),
			},
		},
	}
	answers := models.AnswerSheet{
		0: {Selected: strPtr("A")},
	}

	_, err := Score(test, answers)
	assert.Error(t, err)
}
