package services_test

import (
	"testing"

	"winterproef-backend/services"
)

func TestScoreNumericExactMatch(t *testing.T) {
	total, breakdown := services.ScorePredictions(
		map[string]interface{}{"wineBottles": 20.0},
		map[string]interface{}{"wineBottles": 20.0},
	)
	if breakdown["wineBottles"] != 50 {
		t.Fatalf("expected 50 for exact match, got %d", breakdown["wineBottles"])
	}
	if total != 50 {
		t.Fatalf("expected total 50, got %d", total)
	}
}

func TestScoreNumericBands(t *testing.T) {
	cases := []struct {
		name      string
		predicted float64
		actual    float64
		want      int
	}{
		{"exact", 25, 25, 50},
		{"within 10 percent", 23, 25, 25},
		{"20 percent off", 20, 25, 10},
		{"boundary 25 percent", 75, 100, 10},
		{"way off", 10, 25, 0},
		{"actual zero, predicted zero", 0, 0, 50},
		{"actual zero, predicted nonzero", 3, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, breakdown := services.ScorePredictions(
				map[string]interface{}{"beerCrates": tc.predicted},
				map[string]interface{}{"beerCrates": tc.actual},
			)
			if got := breakdown["beerCrates"]; got != tc.want {
				t.Fatalf("predicted=%v actual=%v: expected %d, got %d", tc.predicted, tc.actual, tc.want, got)
			}
		})
	}
}

func TestScoreTimeSlots(t *testing.T) {
	cases := []struct {
		predicted float64
		actual    float64
		want      int
	}{
		{4, 4, 50},
		{3, 4, 25},
		{6, 4, 10},
		{0, 4, 0},
	}
	for _, tc := range cases {
		_, breakdown := services.ScorePredictions(
			map[string]interface{}{"lastGuestTime": tc.predicted},
			map[string]interface{}{"lastGuestTime": tc.actual},
		)
		if got := breakdown["lastGuestTime"]; got != tc.want {
			t.Fatalf("slots %v vs %v: expected %d, got %d", tc.predicted, tc.actual, tc.want, got)
		}
	}
}

func TestScoreBooleanMismatchIsExplicitZero(t *testing.T) {
	total, breakdown := services.ScorePredictions(
		map[string]interface{}{"somethingBurned": true},
		map[string]interface{}{"somethingBurned": false},
	)
	got, present := breakdown["somethingBurned"]
	if !present {
		t.Fatal("wrong answer must appear in the breakdown as an explicit 0")
	}
	if got != 0 || total != 0 {
		t.Fatalf("expected explicit 0, got %d (total %d)", got, total)
	}
}

func TestScorePersonNormalization(t *testing.T) {
	_, breakdown := services.ScorePredictions(
		map[string]interface{}{"firstSleeper": " Jan de Vries "},
		map[string]interface{}{"firstSleeper": "jan-de-vries"},
	)
	if breakdown["firstSleeper"] != 50 {
		t.Fatalf("expected person values to match after normalization, got %d", breakdown["firstSleeper"])
	}

	_, breakdown = services.ScorePredictions(
		map[string]interface{}{"firstSleeper": "Piet"},
		map[string]interface{}{"firstSleeper": "Jan"},
	)
	if breakdown["firstSleeper"] != 0 {
		t.Fatalf("expected 0 for different persons, got %d", breakdown["firstSleeper"])
	}
}

func TestScoreSkipsAbsentFields(t *testing.T) {
	total, breakdown := services.ScorePredictions(
		map[string]interface{}{"wineBottles": 20.0, "beerCrates": 10.0},
		map[string]interface{}{"wineBottles": 20.0}, // no actual for beerCrates
	)
	if _, present := breakdown["beerCrates"]; present {
		t.Fatal("field without an actual result must be omitted from the breakdown")
	}
	if total != 50 {
		t.Fatalf("skipped field must contribute 0, total: got %d want 50", total)
	}

	// nil and empty-string values count as absent, not as wrong
	total, breakdown = services.ScorePredictions(
		map[string]interface{}{"firstSleeper": "", "somethingBurned": nil},
		map[string]interface{}{"firstSleeper": "Jan", "somethingBurned": true},
	)
	if len(breakdown) != 0 || total != 0 {
		t.Fatalf("expected empty breakdown, got %v (total %d)", breakdown, total)
	}
}

func TestScoreFullHouse(t *testing.T) {
	values := map[string]interface{}{
		"wineBottles":        12.0,
		"beerCrates":         8.0,
		"meatKilos":          6.5,
		"firstSleeper":       "Jan",
		"spontaneousSinger":  "Piet",
		"firstToLeave":       "Kees",
		"lastToLeave":        "Henk",
		"loudestLaugher":     "Joop",
		"longestStoryTeller": "Dirk",
		"somethingBurned":    true,
		"outsideTemp":        -2.0,
		"lastGuestTime":      5.0,
	}
	total, breakdown := services.ScorePredictions(values, values)
	if total != services.MaxPredictionScore {
		t.Fatalf("identical predictions must score the maximum %d, got %d", services.MaxPredictionScore, total)
	}
	if len(breakdown) != len(services.PredictionFields) {
		t.Fatalf("expected %d breakdown entries, got %d", len(services.PredictionFields), len(breakdown))
	}
}

func TestScoreAcceptsStringNumbers(t *testing.T) {
	_, breakdown := services.ScorePredictions(
		map[string]interface{}{"outsideTemp": "-2"},
		map[string]interface{}{"outsideTemp": -2.0},
	)
	if breakdown["outsideTemp"] != 50 {
		t.Fatalf("string-encoded numbers must be parsed, got %d", breakdown["outsideTemp"])
	}
}
