package validator

import (
	"encoding/json"
	"fmt"

	"github.com/mcadept/placement-portal/internal/models"
)

// QuestionValidator checks question definitions against the constraints of
// their declared type. Validation stops at the first violated constraint so
// the caller gets a single, precise rejection reason.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateContent validates question content based on question type
func (v *QuestionValidator) ValidateContent(questionType models.TestType, content interface{}) error {
	if content == nil {
		return fmt.Errorf("content cannot be nil")
	}

	contentBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}

	switch questionType {
	case models.TestMultipleChoice:
		return v.validateMCQContent(contentBytes)
	case models.TestCoding:
		return v.validateCodingContent(contentBytes)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

// ValidateQuestion validates a complete question object, including that its
// declared type matches the owning test's type.
func (v *QuestionValidator) ValidateQuestion(question *models.Question, testType models.TestType) error {
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}

	if question.Type != testType {
		return fmt.Errorf("question type %q does not match test type %q", question.Type, testType)
	}

	return v.ValidateContent(question.Type, question.Content)
}

// ValidateBatch validates the full question sequence of a test
func (v *QuestionValidator) ValidateBatch(questions []*models.Question, testType models.TestType) error {
	if len(questions) == 0 {
		return fmt.Errorf("a test must have at least one question")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question, testType); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

// Private validation methods for each question type

func (v *QuestionValidator) validateMCQContent(contentBytes []byte) error {
	var content models.MCQContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid multiple choice content: %w", err)
	}

	if len(content.Options) != 4 {
		return fmt.Errorf("must have exactly 4 options, got %d", len(content.Options))
	}

	for i, option := range content.Options {
		if option == "" {
			return fmt.Errorf("option %d cannot be empty", i+1)
		}
	}

	if content.CorrectAnswer == "" {
		return fmt.Errorf("correct answer is required")
	}

	for _, option := range content.Options {
		if option == content.CorrectAnswer {
			return nil
		}
	}

	return fmt.Errorf("correct answer %q is not among the options", content.CorrectAnswer)
}

func (v *QuestionValidator) validateCodingContent(contentBytes []byte) error {
	var content models.CodingContent
	if err := json.Unmarshal(contentBytes, &content); err != nil {
		return fmt.Errorf("invalid coding content: %w", err)
	}

	if len(content.TestCases) == 0 {
		return fmt.Errorf("must have at least 1 test case")
	}

	for i, tc := range content.TestCases {
		if tc.Input == "" {
			return fmt.Errorf("test case %d input cannot be empty", i+1)
		}
		if tc.Output == "" {
			return fmt.Errorf("test case %d output cannot be empty", i+1)
		}
	}

	return nil
}
