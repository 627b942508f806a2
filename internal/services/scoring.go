package services

import (
	"fmt"

	"github.com/mcadept/placement-portal/internal/models"
)

// ScoreResult is the outcome of scoring one answer sheet against a test.
// The breakdown keeps question-level detail for history display.
type ScoreResult struct {
	Mark             int                     `json:"mark"`
	WrongCount       int                     `json:"wrong_count"`
	NotAnsweredCount int                     `json:"not_answered_count"`
	TotalQuestions   int                     `json:"total_questions"`
	Percentage       float64                 `json:"percentage"`
	Passed           bool                    `json:"passed"`
	Breakdown        []models.QuestionResult `json:"breakdown"`
}

// Score computes marks for an answer sheet against the test's answer key.
// It is a pure function: no clock, no store.
//
// Multiple-choice questions earn 1 point on an exact match with the correct
// answer. Coding questions earn 1 point for any non-empty submission; test
// cases are not executed server-side, the visible cases exist for student
// self-checking only. An empty or missing envelope counts as unanswered.
func Score(test *models.Test, answers models.AnswerSheet) (*ScoreResult, error) {
	result := &ScoreResult{
		TotalQuestions: len(test.Questions),
		Breakdown:      make([]models.QuestionResult, 0, len(test.Questions)),
	}

	for i, question := range test.Questions {
		qr := models.QuestionResult{
			QuestionID: question.ID,
			Position:   i,
		}

		answer, ok := answers[i]
		if !ok || answer.IsEmpty() {
			result.NotAnsweredCount++
			result.Breakdown = append(result.Breakdown, qr)
			continue
		}

		switch question.Type {
		case models.TestMultipleChoice:
			content, err := question.MCQ()
			if err != nil {
				return nil, fmt.Errorf("question %d has malformed content: %w", i+1, err)
			}

			if answer.Selected == nil || *answer.Selected == "" {
				result.NotAnsweredCount++
				result.Breakdown = append(result.Breakdown, qr)
				continue
			}

			qr.Answered = true
			qr.Selected = answer.Selected
			qr.CorrectWith = &content.CorrectAnswer

			if *answer.Selected == content.CorrectAnswer {
				qr.Correct = true
				result.Mark++
			} else {
				result.WrongCount++
			}

		case models.TestCoding:
			if answer.Code == nil || *answer.Code == "" {
				result.NotAnsweredCount++
				result.Breakdown = append(result.Breakdown, qr)
				continue
			}

			qr.Answered = true
			qr.Code = answer.Code
			qr.Correct = true
			result.Mark++

		default:
			return nil, fmt.Errorf("question %d has unsupported type %q", i+1, question.Type)
		}

		result.Breakdown = append(result.Breakdown, qr)
	}

	if result.TotalQuestions > 0 {
		result.Percentage = float64(result.Mark) / float64(result.TotalQuestions) * 100
	}

	result.Passed = result.Mark >= test.PassMark

	return result, nil
}
