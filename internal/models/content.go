package models

import (
	"time"

	"gorm.io/gorm"
)

// JobPosting is either an external listing (ApplyLink set) or an in-portal
// campus drive students apply to through the portal.
type JobPosting struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Company     string  `json:"company" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description string  `json:"description" gorm:"type:text"`
	Package     *string `json:"package" gorm:"size:50"`
	Location    *string `json:"location" gorm:"size:100"`

	IsCampusDrive bool       `json:"is_campus_drive" gorm:"default:false"`
	ApplyLink     *string    `json:"apply_link" gorm:"size:500" validate:"omitempty,url"`
	LastDate      *time.Time `json:"last_date"`

	PostedBy  string         `json:"posted_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Applications []JobApplication `json:"applications,omitempty" gorm:"foreignKey:JobID"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

type JobApplication struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JobID     uint      `json:"job_id" gorm:"not null;uniqueIndex:idx_job_applicant"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_job_applicant"`
	ResumeURL *string   `json:"resume_url" gorm:"size:500"`
	AppliedAt time.Time `json:"applied_at" gorm:"autoCreateTime"`

	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// Blog posts are student-authored and hidden from listings until an officer
// approves them.
type Blog struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Content  string `json:"content" gorm:"type:text;not null" validate:"required"`
	AuthorID string `json:"author_id" gorm:"not null;index;size:255"`
	Approved bool   `json:"approved" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

func (Blog) TableName() string {
	return "blogs"
}

// StudyMaterial holds metadata only; the file itself lives in external
// object storage.
type StudyMaterial struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject string `json:"subject" gorm:"not null;size:100;index" validate:"required"`
	FileURL string `json:"file_url" gorm:"not null;size:500" validate:"required,url"`

	UploadedBy string         `json:"uploaded_by" gorm:"not null;size:255"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (StudyMaterial) TableName() string {
	return "study_materials"
}

type Video struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject string `json:"subject" gorm:"not null;size:100;index" validate:"required"`
	VideoURL string `json:"video_url" gorm:"not null;size:500" validate:"required,url"`

	UploadedBy string         `json:"uploaded_by" gorm:"not null;size:255"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Video) TableName() string {
	return "videos"
}
