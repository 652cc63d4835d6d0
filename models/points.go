package models

import "time"

// PointCategory groups ledger entries for the leaderboard breakdown
type PointCategory string

const (
	CategoryRegistration PointCategory = "registration"
	CategoryPrediction   PointCategory = "prediction"
	CategoryQuiz         PointCategory = "quiz"
	CategoryGame         PointCategory = "game"
	CategoryManual       PointCategory = "manual"
)

// PointsLedgerEntry is an append-only point grant. The (user_id, description)
// unique index is what makes non-manual awards at-most-once: a second insert
// for the same description is rejected by the store, not just by the
// check-then-insert sequence in the writer. Manual adjustments embed a UUID in
// the description so they never collide.
type PointsLedgerEntry struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string  `gorm:"not null;uniqueIndex:idx_user_description" json:"user_id"`
	Description string  `gorm:"not null;uniqueIndex:idx_user_description" json:"description"`
	Points      int     `gorm:"not null" json:"points"`
	Reason      *string `gorm:"type:text" json:"reason,omitempty"`
	GrantedBy   *string `json:"granted_by,omitempty"` // admin user id for manual grants

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
