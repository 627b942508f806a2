package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptStarted   AttemptStatus = "started"
	AttemptCompleted AttemptStatus = "completed"
)

const (
	AttemptEndReasonSubmitted = "submitted"
	AttemptEndReasonTimeout   = "time_out"
)

// Attempt is one instance of a student taking a test. For a given
// (student, test) pair at most one row may be in the started state; this is
// enforced by a partial unique index created during migration, so concurrent
// begin calls race on the insert rather than on a prior read.
type Attempt struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	TestID        uint          `json:"test_id" gorm:"not null;index:idx_attempts_student_test"`
	StudentID     string        `json:"student_id" gorm:"not null;size:255;index:idx_attempts_student_test"`
	AttemptNumber int           `json:"attempt_number" gorm:"not null"`
	Status        AttemptStatus `json:"status" gorm:"not null;default:started;index"`

	// Timing. Deadline is stamped server-side at begin time; submissions
	// arriving after it are scored but flagged as timed out.
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	Deadline    time.Time  `json:"deadline" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	TimeTaken   int        `json:"time_taken"` // seconds, capped at the test's limit
	EndReason   *string    `json:"end_reason" gorm:"size:30"`

	// Scoring
	Mark             int     `json:"mark"`
	WrongCount       int     `json:"wrong_count"`
	NotAnsweredCount int     `json:"not_answered_count"`
	TotalQuestions   int     `json:"total_questions"`
	Percentage       float64 `json:"percentage"`
	Passed           bool    `json:"passed"`

	// Per-question audit trail: submitted answers and the scored breakdown.
	Answers   datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	Breakdown datatypes.JSON `json:"breakdown" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Test    Test `json:"test" gorm:"foreignKey:TestID"`
	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// QuestionResult is one row of the scored breakdown kept on a completed
// attempt for history display.
type QuestionResult struct {
	QuestionID  uint    `json:"question_id"`
	Position    int     `json:"position"`
	Answered    bool    `json:"answered"`
	Selected    *string `json:"selected,omitempty"`
	Code        *string `json:"code,omitempty"`
	Correct     bool    `json:"correct"`
	CorrectWith *string `json:"correct_answer,omitempty"`
}
