package models

import "time"

// LeaderboardSnapshot is a persisted (user, rank, total) row written by the
// snapshot job. The live leaderboard joins the most recent batch to report
// previous-rank deltas; the aggregator itself stays stateless per call.
type LeaderboardSnapshot struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string    `gorm:"not null;index" json:"user_id"`
	Rank        int       `gorm:"not null" json:"rank"`
	TotalPoints int       `gorm:"not null" json:"total_points"`
	TakenAt     time.Time `gorm:"not null;index" json:"taken_at"`
}
