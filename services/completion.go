// services/completion.go
package services

import (
	"fmt"
	"math"

	"winterproef-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSection names an independently-completable group of profile questions.
type ProfileSection string

const (
	SectionBasic       ProfileSection = "basic"
	SectionPersonal    ProfileSection = "personal"
	SectionSkills      ProfileSection = "skills"
	SectionMusic       ProfileSection = "music"
	SectionJKVHistorie ProfileSection = "jkvHistorie"
	SectionBorrelStats ProfileSection = "borrelStats"
	SectionQuiz        ProfileSection = "quiz"
)

// SectionValue pairs a section with its fixed point value.
type SectionValue struct {
	Section ProfileSection `json:"section"`
	Points  int            `json:"points"`
}

// SectionCatalog is the fixed ordered list of sections and their point values.
// These numbers are a compatibility contract with the frontend; do not tune.
var SectionCatalog = []SectionValue{
	{SectionBasic, 10},
	{SectionPersonal, 50},
	{SectionSkills, 40},
	{SectionMusic, 20},
	{SectionJKVHistorie, 30},
	{SectionBorrelStats, 30},
	{SectionQuiz, 80},
}

// TotalSectionPoints is the sum of all section values (260).
var TotalSectionPoints = func() int {
	total := 0
	for _, sv := range SectionCatalog {
		total += sv.Points
	}
	return total
}()

// SectionPoints returns the point value for a section, or false for unknown sections.
func SectionPoints(section ProfileSection) (int, bool) {
	for _, sv := range SectionCatalog {
		if sv.Section == section {
			return sv.Points, true
		}
	}
	return 0, false
}

// SectionDescription is the ledger description tag for a section grant.
func SectionDescription(section ProfileSection) string {
	return fmt.Sprintf("profile_%s", section)
}

type CompletionService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewCompletionService(db *gorm.DB, ledger *LedgerService) *CompletionService {
	return &CompletionService{DB: db, Ledger: ledger}
}

// MarkSectionComplete sets the completion flag and awards the section's points
// in a single transaction: a section is never marked complete without its
// points being recorded, and vice versa. Idempotent — a repeat call is a no-op
// that returns 0 points awarded. Validation of the section's answers is the
// caller's job; the tracker only flips state.
func (s *CompletionService) MarkSectionComplete(userID string, section ProfileSection) (int, error) {
	points, ok := SectionPoints(section)
	if !ok {
		return 0, fmt.Errorf("unknown profile section: %s", section)
	}

	awarded := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SectionCompletion{}).
			Where("user_id = ? AND section = ?", userID, string(section)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil // already complete
		}

		// Points first: if the award insert fails the flag is rolled back too.
		var err error
		awarded, err = s.Ledger.AwardPointsTx(tx, userID, SectionDescription(section), points, nil)
		if err != nil {
			return err
		}

		flag := models.SectionCompletion{
			ID:      uuid.NewString(),
			UserID:  userID,
			Section: string(section),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "section"}},
			DoNothing: true,
		}).Create(&flag).Error
	})
	if err != nil {
		return 0, err
	}
	return awarded, nil
}

// SectionStatus reports one section's completion state.
type SectionStatus struct {
	Section   ProfileSection `json:"section"`
	Points    int            `json:"points"`
	Completed bool           `json:"completed"`
}

// CompletionStatus is the full profile progress view for a user.
type CompletionStatus struct {
	Sections    []SectionStatus `json:"sections"`
	Points      int             `json:"points"`
	TotalPoints int             `json:"total_points"`
	Percentage  int             `json:"percentage"`
}

// GetCompletion returns, in catalog order, which sections are complete,
// their point sum, and the rounded percentage of the fixed total.
func (s *CompletionService) GetCompletion(userID string) (CompletionStatus, error) {
	var flags []models.SectionCompletion
	if err := s.DB.Where("user_id = ?", userID).Find(&flags).Error; err != nil {
		return CompletionStatus{}, err
	}

	done := make(map[string]bool, len(flags))
	for _, f := range flags {
		done[f.Section] = true
	}
	return BuildCompletionStatus(done), nil
}

// BuildCompletionStatus computes the progress view from a completed-section set.
func BuildCompletionStatus(done map[string]bool) CompletionStatus {
	status := CompletionStatus{TotalPoints: TotalSectionPoints}
	for _, sv := range SectionCatalog {
		completed := done[string(sv.Section)]
		if completed {
			status.Points += sv.Points
		}
		status.Sections = append(status.Sections, SectionStatus{
			Section:   sv.Section,
			Points:    sv.Points,
			Completed: completed,
		})
	}
	status.Percentage = int(math.Round(100 * float64(status.Points) / float64(status.TotalPoints)))
	return status
}
