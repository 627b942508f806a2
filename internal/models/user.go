package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleOfficer UserRole = "officer"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:student" validate:"omitempty,user_role"`

	// Profile info
	RegisterNumber *string `json:"register_number" gorm:"size:30;index"`
	PhoneNumber    *string `json:"phone_number" gorm:"size:20"`
	ResumeURL      *string `json:"resume_url" gorm:"size:500"`
	Batch          *string `json:"batch" gorm:"size:20"`

	// Status
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the request-scoped caller identity resolved by the auth
// middleware. Handlers pass it explicitly into services; there is no ambient
// auth state.
type Identity struct {
	UserID string
	Role   UserRole
}

func (id Identity) IsOfficer() bool {
	return id.Role == RoleOfficer || id.Role == RoleAdmin
}
