package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus tracks whether the participation fee was settled.
// The payment link itself is handled by an external provider; we only mirror state.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentLinkSent PaymentStatus = "link_sent"
	PaymentPaid     PaymentStatus = "paid"
)

// Registration holds all profile answers for a user (one-to-one).
// Sections are saved incrementally; the completion flags live in SectionCompletion.
type Registration struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// personal
	BirthYear     *int    `json:"birth_year,omitempty"`
	PartnerName   *string `json:"partner_name,omitempty"`
	PartnerComing *bool   `json:"partner_coming,omitempty"`

	// skills: fixed eight sub-categories, answer per category
	Skills datatypes.JSONMap `gorm:"type:jsonb" json:"skills,omitempty"`

	// music
	MusicPreference *string `json:"music_preference,omitempty"`

	// jkvHistorie
	JKVJoinYear *int `gorm:"column:jkv_join_year" json:"jkv_join_year,omitempty"`
	JKVExitYear *int `gorm:"column:jkv_exit_year" json:"jkv_exit_year,omitempty"`

	// borrelStats
	BorrelsAttended *int `json:"borrels_attended,omitempty"`
	BorrelsHosted   *int `json:"borrels_hosted,omitempty"`

	// quiz: free-form answers keyed by question id
	QuizAnswers datatypes.JSONMap `gorm:"type:jsonb" json:"quiz_answers,omitempty"`

	// predictions: map from the twelve fixed field names to typed values
	Predictions datatypes.JSONMap `gorm:"type:jsonb" json:"predictions,omitempty"`

	// AIAssignment is the (AI-generated or fallback) score summary text
	AIAssignment *string `gorm:"column:ai_assignment;type:text" json:"ai_assignment,omitempty"`

	PaymentStatus PaymentStatus `gorm:"not null;default:'unpaid'" json:"payment_status"`

	Timestamps
}

// SectionCompletion marks a profile section as completed for a user.
// The composite unique index makes MarkSectionComplete idempotent at the store level.
type SectionCompletion struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_user_section" json:"user_id"`
	Section   string    `gorm:"not null;uniqueIndex:idx_user_section" json:"section"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
