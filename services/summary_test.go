package services_test

import (
	"strings"
	"testing"

	"winterproef-backend/services"
)

func TestFallbackSummaryBands(t *testing.T) {
	cases := []struct {
		name  string
		total int
		want  string // distinguishing fragment of the band's template
	}{
		{"top band at 50 percent", 300, "orakel"},
		{"top band above", 600, "orakel"},
		{"middle band at 25 percent", 150, "volgend jaar"},
		{"middle band below half", 299, "volgend jaar"},
		{"bottom band", 149, "helderziendheid"},
		{"zero score", 0, "helderziendheid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.FallbackSummary("Jan", tc.total, services.MaxPredictionScore)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("total=%d: expected band containing %q, got %q", tc.total, tc.want, got)
			}
			if !strings.Contains(got, "Jan") {
				t.Fatalf("summary must address the participant, got %q", got)
			}
		})
	}
}

func TestFallbackSummaryDeterministic(t *testing.T) {
	a := services.FallbackSummary("Piet", 200, 600)
	b := services.FallbackSummary("Piet", 200, 600)
	if a != b {
		t.Fatal("fallback summary must be deterministic for identical input")
	}
}
