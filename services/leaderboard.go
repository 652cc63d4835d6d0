// services/leaderboard.go
package services

import (
	"log"
	"sort"
	"time"

	"winterproef-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// LeaderboardEntry is a derived view, computed per request and never stored.
type LeaderboardEntry struct {
	UserID       string         `json:"user_id"`
	Name         string         `json:"name"`
	TotalPoints  int            `json:"total_points"`
	Rank         int            `json:"rank"`
	PreviousRank *int           `json:"previous_rank,omitempty"`
	Categories   map[string]int `json:"categories"`
}

// LeaderboardStats summarizes the field.
type LeaderboardStats struct {
	Participants  int            `json:"participants"`
	TotalPoints   int            `json:"total_points"`
	AveragePoints float64        `json:"average_points"`
	HighestScore  int            `json:"highest_score"`
	Distribution  map[string]int `json:"distribution"` // 100-point buckets
}

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// RankEntries sorts entries and assigns 1-based ranks. Tie-break is
// deterministic: total descending, then name ascending under Dutch collation,
// then user id — never the incidental query order.
func RankEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	collator := collate.New(language.Dutch)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if cmp := collator.CompareString(entries[i].Name, entries[j].Name); cmp != 0 {
			return cmp < 0
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ComputeStats derives summary statistics from ranked entries.
func ComputeStats(entries []LeaderboardEntry) LeaderboardStats {
	stats := LeaderboardStats{Distribution: map[string]int{}}
	stats.Participants = len(entries)
	for _, e := range entries {
		stats.TotalPoints += e.TotalPoints
		if e.TotalPoints > stats.HighestScore {
			stats.HighestScore = e.TotalPoints
		}
		stats.Distribution[bucketFor(e.TotalPoints)]++
	}
	if stats.Participants > 0 {
		stats.AveragePoints = float64(stats.TotalPoints) / float64(stats.Participants)
	}
	return stats
}

func bucketFor(points int) string {
	switch {
	case points < 0:
		return "<0"
	case points < 100:
		return "0-99"
	case points < 200:
		return "100-199"
	case points < 300:
		return "200-299"
	case points < 400:
		return "300-399"
	case points < 500:
		return "400-499"
	default:
		return "500+"
	}
}

// Build aggregates the full ledger into ranked entries plus stats. Stateless
// per call, safe for many concurrent readers.
func (s *LeaderboardService) Build() ([]LeaderboardEntry, LeaderboardStats, error) {
	var rows []models.PointsLedgerEntry
	if err := s.DB.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, LeaderboardStats{}, err
	}

	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, LeaderboardStats{}, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	byUser := make(map[string]*LeaderboardEntry)
	for _, row := range rows {
		entry, ok := byUser[row.UserID]
		if !ok {
			entry = &LeaderboardEntry{
				UserID:     row.UserID,
				Name:       names[row.UserID],
				Categories: map[string]int{},
			}
			byUser[row.UserID] = entry
		}
		entry.TotalPoints += row.Points
		entry.Categories[string(CategoryForDescription(row.Description))] += row.Points
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, entry := range byUser {
		entries = append(entries, *entry)
	}
	entries = RankEntries(entries)
	return entries, ComputeStats(entries), nil
}

// BuildLive is Build plus the previous rank per entry, taken from the most
// recent snapshot batch persisted by the scheduler.
func (s *LeaderboardService) BuildLive() ([]LeaderboardEntry, LeaderboardStats, error) {
	entries, stats, err := s.Build()
	if err != nil {
		return nil, LeaderboardStats{}, err
	}

	var latest time.Time
	if err := s.DB.Model(&models.LeaderboardSnapshot{}).
		Select("COALESCE(MAX(taken_at), 'epoch'::timestamptz)").
		Scan(&latest).Error; err != nil {
		return nil, LeaderboardStats{}, err
	}
	if latest.IsZero() || latest.Unix() == 0 {
		return entries, stats, nil // no snapshot yet, no deltas
	}

	var snapshots []models.LeaderboardSnapshot
	if err := s.DB.Where("taken_at = ?", latest).Find(&snapshots).Error; err != nil {
		return nil, LeaderboardStats{}, err
	}
	previous := make(map[string]int, len(snapshots))
	for _, snap := range snapshots {
		previous[snap.UserID] = snap.Rank
	}
	for i := range entries {
		if rank, ok := previous[entries[i].UserID]; ok {
			r := rank
			entries[i].PreviousRank = &r
		}
	}
	return entries, stats, nil
}

// Snapshot persists the current ranking and prunes older batches. Called by
// the scheduler; failures are logged there and retried on the next tick.
func (s *LeaderboardService) Snapshot() error {
	entries, _, err := s.Build()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	takenAt := time.Now().UTC()
	rows := make([]models.LeaderboardSnapshot, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.LeaderboardSnapshot{
			ID:          uuid.NewString(),
			UserID:      e.UserID,
			Rank:        e.Rank,
			TotalPoints: e.TotalPoints,
			TakenAt:     takenAt,
		})
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		// Keep the previous batch; the one before it is no longer needed.
		var cutoff time.Time
		if err := tx.Model(&models.LeaderboardSnapshot{}).
			Where("taken_at < ?", takenAt).
			Select("COALESCE(MAX(taken_at), 'epoch'::timestamptz)").
			Scan(&cutoff).Error; err != nil {
			return err
		}
		if cutoff.IsZero() || cutoff.Unix() == 0 {
			return nil
		}
		return tx.Where("taken_at < ?", cutoff).
			Delete(&models.LeaderboardSnapshot{}).Error
	})
}

// GetLeaderboard handles GET leaderboard requests.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	entries, stats, err := s.Build()
	if err != nil {
		log.Printf("DB Error building leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build leaderboard"})
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "stats": stats})
}

// GetLiveLeaderboard is the polling variant with previous-rank deltas.
func (s *LeaderboardService) GetLiveLeaderboard(c *fiber.Ctx) error {
	entries, stats, err := s.BuildLive()
	if err != nil {
		log.Printf("DB Error building live leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build leaderboard"})
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "stats": stats})
}
