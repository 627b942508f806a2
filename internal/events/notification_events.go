package events

import (
	"fmt"
	"math/rand"
	"time"
)

// EventType represents different types of notification events
type EventType string

const (
	// Test events
	EventTestPublished EventType = "test.published"
	EventTestClosing   EventType = "test.closing"

	// Attempt events
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"

	// Placement events
	EventJobPosted         EventType = "job.posted"
	EventCampusDriveOpened EventType = "job.campus_drive_opened"

	// Content events
	EventBlogApproved EventType = "blog.approved"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "placement-portal"

// Test notification event payloads

type TestPublishedEvent struct {
	TestID          uint      `json:"test_id"`
	TestName        string    `json:"test_name"`
	TimeLimit       int       `json:"time_limit"` // minutes
	StartDate       time.Time `json:"start_date"`
	LastDayToAttend time.Time `json:"last_day_to_attend"`
	PublishedBy     string    `json:"published_by"`
}

type TestClosingEvent struct {
	TestID          uint      `json:"test_id"`
	TestName        string    `json:"test_name"`
	HoursRemaining  int       `json:"hours_remaining"`
	LastDayToAttend time.Time `json:"last_day_to_attend"`
}

// Attempt notification event payloads

type AttemptStartedEvent struct {
	AttemptID     uint      `json:"attempt_id"`
	TestID        uint      `json:"test_id"`
	TestName      string    `json:"test_name"`
	StudentID     string    `json:"student_id"`
	AttemptNumber int       `json:"attempt_number"`
	StartedAt     time.Time `json:"started_at"`
	Deadline      time.Time `json:"deadline"`
}

type AttemptSubmittedEvent struct {
	AttemptID     uint      `json:"attempt_id"`
	TestID        uint      `json:"test_id"`
	TestName      string    `json:"test_name"`
	StudentID     string    `json:"student_id"`
	AttemptNumber int       `json:"attempt_number"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Mark          int       `json:"mark"`
	Percentage    float64   `json:"percentage"`
	Passed        bool      `json:"passed"`
	TimedOut      bool      `json:"timed_out"`
}

// Placement notification event payloads

type JobPostedEvent struct {
	JobID         uint       `json:"job_id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	IsCampusDrive bool       `json:"is_campus_drive"`
	LastDate      *time.Time `json:"last_date,omitempty"`
	PostedBy      string     `json:"posted_by"`
}

type BlogApprovedEvent struct {
	BlogID     uint      `json:"blog_id"`
	Title      string    `json:"title"`
	AuthorID   string    `json:"author_id"`
	ApprovedAt time.Time `json:"approved_at"`
	ApprovedBy string    `json:"approved_by"`
}

// Event factory functions

func NewTestPublishedEvent(testID uint, name string, timeLimit int, startDate, lastDay time.Time, publishedBy string) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventTestPublished,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: TestPublishedEvent{
			TestID:          testID,
			TestName:        name,
			TimeLimit:       timeLimit,
			StartDate:       startDate,
			LastDayToAttend: lastDay,
			PublishedBy:     publishedBy,
		},
	}
}

func NewAttemptStartedEvent(attemptID, testID uint, testName, studentID string, attemptNumber int, startedAt, deadline time.Time) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventAttemptStarted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptStartedEvent{
			AttemptID:     attemptID,
			TestID:        testID,
			TestName:      testName,
			StudentID:     studentID,
			AttemptNumber: attemptNumber,
			StartedAt:     startedAt,
			Deadline:      deadline,
		},
	}
}

func NewAttemptSubmittedEvent(attemptID, testID uint, testName, studentID string, attemptNumber int, submittedAt time.Time, mark int, percentage float64, passed, timedOut bool) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventAttemptSubmitted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptSubmittedEvent{
			AttemptID:     attemptID,
			TestID:        testID,
			TestName:      testName,
			StudentID:     studentID,
			AttemptNumber: attemptNumber,
			SubmittedAt:   submittedAt,
			Mark:          mark,
			Percentage:    percentage,
			Passed:        passed,
			TimedOut:      timedOut,
		},
	}
}

func NewJobPostedEvent(jobID uint, title, company string, isCampusDrive bool, lastDate *time.Time, postedBy string) *NotificationEvent {
	eventType := EventJobPosted
	if isCampusDrive {
		eventType = EventCampusDriveOpened
	}
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: JobPostedEvent{
			JobID:         jobID,
			Title:         title,
			Company:       company,
			IsCampusDrive: isCampusDrive,
			LastDate:      lastDate,
			PostedBy:      postedBy,
		},
	}
}

func NewBlogApprovedEvent(blogID uint, title, authorID, approvedBy string) *NotificationEvent {
	return &NotificationEvent{
		ID:        generateEventID(),
		Type:      EventBlogApproved,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: BlogApprovedEvent{
			BlogID:     blogID,
			Title:      title,
			AuthorID:   authorID,
			ApprovedAt: time.Now(),
			ApprovedBy: approvedBy,
		},
	}
}

func generateEventID() string {
	return fmt.Sprintf("%s-%06d", time.Now().Format("20060102150405"), rand.Intn(1000000))
}
