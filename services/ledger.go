// services/ledger.go
package services

import (
	"fmt"
	"log"
	"strings"

	"winterproef-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// AwardPoints grants points to a user at most once per description.
// Returns the number of points actually awarded: 0 means the grant already
// existed (not an error — callers must not alarm the user).
func (s *LedgerService) AwardPoints(userID, description string, points int, reason *string) (int, error) {
	awarded := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		awarded, err = s.AwardPointsTx(tx, userID, description, points, reason)
		return err
	})
	return awarded, err
}

// AwardPointsTx is AwardPoints inside an existing transaction, so callers can
// couple the grant with other writes (e.g. the section completion flag).
// Sequence: check existing → conditionally insert. The unique index on
// (user_id, description) plus OnConflict DoNothing closes the race where two
// concurrent requests both pass the existence check.
func (s *LedgerService) AwardPointsTx(tx *gorm.DB, userID, description string, points int, reason *string) (int, error) {
	var count int64
	if err := tx.Model(&models.PointsLedgerEntry{}).
		Where("user_id = ? AND description = ?", userID, description).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil // already granted
	}

	entry := models.PointsLedgerEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Points:      points,
		Reason:      reason,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "description"}},
		DoNothing: true,
	}).Create(&entry)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race against a concurrent identical request; treat as duplicate.
		log.Printf("⚠️ Duplicate award suppressed by index: user=%s description=%s", userID, description)
		return 0, nil
	}
	return points, nil
}

// ManualDescription builds a non-repeating description for an admin adjustment
// so it never hits the (user_id, description) unique index.
func ManualDescription() string {
	return fmt.Sprintf("manual_%s", uuid.NewString())
}

// ManualAdjustment appends an unconstrained admin grant; points may be negative.
func (s *LedgerService) ManualAdjustment(userID string, points int, reason, grantedBy string) (*models.PointsLedgerEntry, error) {
	entry := models.PointsLedgerEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: ManualDescription(),
		Points:      points,
		Reason:      &reason,
		GrantedBy:   &grantedBy,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return nil, err
	}
	log.Printf("✏️ Manual adjustment: user=%s points=%d by=%s (%s)", userID, points, grantedBy, reason)
	return &entry, nil
}

// TotalFor recomputes a user's running total from the ledger.
func (s *LedgerService) TotalFor(userID string) (int, error) {
	var total int
	err := s.DB.Model(&models.PointsLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// EntriesFor returns the full ledger history for a user, newest first.
func (s *LedgerService) EntriesFor(userID string) ([]models.PointsLedgerEntry, error) {
	var entries []models.PointsLedgerEntry
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// CategoryForDescription infers the leaderboard category from a description tag.
func CategoryForDescription(description string) models.PointCategory {
	switch {
	case strings.HasPrefix(description, "profile_"):
		return models.CategoryRegistration
	case strings.HasPrefix(description, "prediction"):
		return models.CategoryPrediction
	case strings.HasPrefix(description, "quiz"):
		return models.CategoryQuiz
	case strings.HasPrefix(description, "game"):
		return models.CategoryGame
	default:
		return models.CategoryManual
	}
}
