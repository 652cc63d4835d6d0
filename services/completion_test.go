package services_test

import (
	"testing"

	"winterproef-backend/services"
)

func TestSectionCatalogTotals(t *testing.T) {
	// These values are a frontend compatibility contract.
	want := map[services.ProfileSection]int{
		services.SectionBasic:       10,
		services.SectionPersonal:    50,
		services.SectionSkills:      40,
		services.SectionMusic:       20,
		services.SectionJKVHistorie: 30,
		services.SectionBorrelStats: 30,
		services.SectionQuiz:        80,
	}
	for section, points := range want {
		got, ok := services.SectionPoints(section)
		if !ok {
			t.Fatalf("section %s missing from catalog", section)
		}
		if got != points {
			t.Fatalf("section %s: expected %d points, got %d", section, points, got)
		}
	}
	if services.TotalSectionPoints != 260 {
		t.Fatalf("expected total 260, got %d", services.TotalSectionPoints)
	}
	if _, ok := services.SectionPoints("bogus"); ok {
		t.Fatal("unknown section must not resolve")
	}
}

func TestBuildCompletionStatusPercentage(t *testing.T) {
	cases := []struct {
		name       string
		done       map[string]bool
		wantPoints int
		wantPct    int
	}{
		{"nothing", nil, 0, 0},
		{"basic only", map[string]bool{"basic": true}, 10, 4},           // 10/260 = 3.85 → 4
		{"basic+personal", map[string]bool{"basic": true, "personal": true}, 60, 23}, // 60/260 = 23.08 → 23
		{"everything", map[string]bool{
			"basic": true, "personal": true, "skills": true, "music": true,
			"jkvHistorie": true, "borrelStats": true, "quiz": true,
		}, 260, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := services.BuildCompletionStatus(tc.done)
			if status.Points != tc.wantPoints {
				t.Fatalf("expected %d points, got %d", tc.wantPoints, status.Points)
			}
			if status.Percentage != tc.wantPct {
				t.Fatalf("expected %d%%, got %d%%", tc.wantPct, status.Percentage)
			}
			if status.TotalPoints != 260 {
				t.Fatalf("expected fixed total 260, got %d", status.TotalPoints)
			}
			if len(status.Sections) != len(services.SectionCatalog) {
				t.Fatalf("expected all sections listed, got %d", len(status.Sections))
			}
		})
	}
}

func TestBuildCompletionStatusMonotonic(t *testing.T) {
	done := map[string]bool{}
	previous := 0
	for _, sv := range services.SectionCatalog {
		done[string(sv.Section)] = true
		status := services.BuildCompletionStatus(done)
		if status.Percentage < previous {
			t.Fatalf("percentage decreased from %d to %d after completing %s", previous, status.Percentage, sv.Section)
		}
		previous = status.Percentage
	}
	if previous != 100 {
		t.Fatalf("expected 100%% after completing everything, got %d", previous)
	}
}

func TestSectionDescriptions(t *testing.T) {
	if got := services.SectionDescription(services.SectionSkills); got != "profile_skills" {
		t.Fatalf("expected profile_skills, got %s", got)
	}
}
