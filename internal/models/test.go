package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TestType string

const (
	TestMultipleChoice TestType = "multiple_choice"
	TestCoding         TestType = "coding"
)

// Test is a mock test definition created by a placement officer. Scheduling
// fields bound when students may begin an attempt; PassMark is a raw mark,
// not a percentage.
type Test struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	Name      string   `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Type      TestType `json:"type" gorm:"not null;size:30" validate:"required,test_type"`
	TimeLimit int      `json:"time_limit" gorm:"not null" validate:"required,min=1,max=300"` // minutes

	StartDate       time.Time `json:"start_date" gorm:"not null"`
	LastDayToAttend time.Time `json:"last_day_to_attend" gorm:"not null"`
	MaxAttempts     int       `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`
	PassMark        int       `json:"pass_mark" gorm:"not null" validate:"min=0"`
	Published       bool      `json:"published" gorm:"default:false;index"`

	// Metadata
	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:TestID"`

	// Computed fields (not stored)
	QuestionsCount int `json:"questions_count" gorm:"-"`
}

func (Test) TableName() string {
	return "tests"
}

// Question is one entry of a test's ordered question sequence. Content is a
// tagged union keyed by Type: exactly one of the MCQ or coding payloads is
// populated, matching the owning test's type.
type Question struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	TestID   uint     `json:"test_id" gorm:"not null;index"`
	Position int      `json:"position" gorm:"not null"`
	Text     string   `json:"text" gorm:"type:text;not null" validate:"required"`
	Type     TestType `json:"type" gorm:"not null;size:30" validate:"required,test_type"`

	Content datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// MCQContent holds the four options and the answer key of a multiple-choice
// question. CorrectAnswer must be one of Options.
type MCQContent struct {
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

// CodingContent holds the visible test cases of a coding question and an
// optional sample solution. The sample solution is never sent to students.
type CodingContent struct {
	TestCases      []CodingTestCase `json:"test_cases" validate:"required,min=1,dive"`
	SampleSolution *string          `json:"sample_solution,omitempty"`
}

type CodingTestCase struct {
	Input  string `json:"input" validate:"required"`
	Output string `json:"output" validate:"required"`
}

// MCQ decodes the content payload of a multiple-choice question.
func (q *Question) MCQ() (*MCQContent, error) {
	var content MCQContent
	if err := json.Unmarshal(q.Content, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Coding decodes the content payload of a coding question.
func (q *Question) Coding() (*CodingContent, error) {
	var content CodingContent
	if err := json.Unmarshal(q.Content, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
