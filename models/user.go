package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole determines what a participant is allowed to do
type UserRole string

const (
	RoleParticipant UserRole = "participant"
	RoleQuizmaster  UserRole = "quizmaster"
	RoleAdmin       UserRole = "admin"
)

// UserStatus tracks the registration lifecycle of a participant
type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusApproved  UserStatus = "approved"
	StatusRejected  UserStatus = "rejected"
	StatusCancelled UserStatus = "cancelled"
)

// User is a Winterproef participant. Total points are never stored here —
// they are recomputed from the points ledger.
type User struct {
	ID     string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name   string     `gorm:"not null" json:"name"`
	Email  string     `gorm:"uniqueIndex;not null" json:"email"`
	PIN    string     `gorm:"not null" json:"-"` // 4-digit login PIN
	Role   UserRole   `gorm:"not null;default:'participant'" json:"role"`
	Status UserStatus `gorm:"not null;default:'pending';index" json:"status"`

	Registration *Registration `gorm:"foreignKey:UserID" json:"registration,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
