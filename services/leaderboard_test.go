package services_test

import (
	"testing"

	"winterproef-backend/models"
	"winterproef-backend/services"
)

func TestRankEntriesOrderAndTieBreak(t *testing.T) {
	entries := []services.LeaderboardEntry{
		{UserID: "u3", Name: "Zwaan", TotalPoints: 150},
		{UserID: "u1", Name: "Anna", TotalPoints: 300},
		{UserID: "u2", Name: "Bert", TotalPoints: 150},
	}
	ranked := services.RankEntries(entries)

	if ranked[0].UserID != "u1" || ranked[0].Rank != 1 {
		t.Fatalf("expected Anna first with rank 1, got %+v", ranked[0])
	}
	// Tied totals: deterministic by name, not by input order.
	if ranked[1].Name != "Bert" || ranked[1].Rank != 2 {
		t.Fatalf("expected Bert second on tie-break, got %+v", ranked[1])
	}
	if ranked[2].Name != "Zwaan" || ranked[2].Rank != 3 {
		t.Fatalf("expected Zwaan third, got %+v", ranked[2])
	}
}

func TestRankEntriesTieBreakFallsBackToUserID(t *testing.T) {
	entries := []services.LeaderboardEntry{
		{UserID: "b", Name: "Jan", TotalPoints: 100},
		{UserID: "a", Name: "Jan", TotalPoints: 100},
	}
	ranked := services.RankEntries(entries)
	if ranked[0].UserID != "a" {
		t.Fatalf("identical names must tie-break on user id, got %s first", ranked[0].UserID)
	}
}

func TestComputeStats(t *testing.T) {
	entries := []services.LeaderboardEntry{
		{UserID: "u1", TotalPoints: 300},
		{UserID: "u2", TotalPoints: 150},
		{UserID: "u3", TotalPoints: 150},
	}
	stats := services.ComputeStats(entries)

	if stats.Participants != 3 {
		t.Fatalf("expected 3 participants, got %d", stats.Participants)
	}
	if stats.TotalPoints != 600 {
		t.Fatalf("expected 600 total, got %d", stats.TotalPoints)
	}
	if stats.AveragePoints != 200 {
		t.Fatalf("expected average 200, got %f", stats.AveragePoints)
	}
	if stats.HighestScore != 300 {
		t.Fatalf("expected highest 300, got %d", stats.HighestScore)
	}
	if stats.Distribution["100-199"] != 2 || stats.Distribution["300-399"] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.Distribution)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := services.ComputeStats(nil)
	if stats.Participants != 0 || stats.AveragePoints != 0 {
		t.Fatalf("empty field must produce zero stats, got %+v", stats)
	}
}

func TestCategoryForDescription(t *testing.T) {
	cases := map[string]models.PointCategory{
		"profile_basic":      models.CategoryRegistration,
		"profile_quiz":       models.CategoryRegistration,
		"prediction":         models.CategoryPrediction,
		"quiz_round_1":       models.CategoryQuiz,
		"game_highscore":     models.CategoryGame,
		"manual_3c1f6c2e":    models.CategoryManual,
		"something_untagged": models.CategoryManual,
	}
	for description, want := range cases {
		if got := services.CategoryForDescription(description); got != want {
			t.Fatalf("%s: expected %s, got %s", description, want, got)
		}
	}
}
