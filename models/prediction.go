package models

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionResultSnapshotID is the primary key of the single shared snapshot row.
const PredictionResultSnapshotID = 1

// PredictionResultSnapshot holds the admin-entered actual outcomes, keyed by
// prediction field name. There is exactly one logical row per event; saves
// overwrite it (last write wins, no locking — admin edits are rare and manual).
type PredictionResultSnapshot struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Results   datatypes.JSONMap `gorm:"type:jsonb;not null" json:"results"`
	UpdatedBy string            `json:"updated_by"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}
