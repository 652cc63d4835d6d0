package services_test

import (
	"strings"
	"testing"

	"winterproef-backend/models"
	"winterproef-backend/services"
)

func TestManualDescriptionNeverRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		d := services.ManualDescription()
		if seen[d] {
			t.Fatalf("manual description repeated: %s", d)
		}
		seen[d] = true
	}
}

func TestManualDescriptionCategorizesAsManual(t *testing.T) {
	d := services.ManualDescription()
	if !strings.HasPrefix(d, "manual_") {
		t.Fatalf("expected manual_ prefix, got %s", d)
	}
	if services.CategoryForDescription(d) != models.CategoryManual {
		t.Fatalf("manual descriptions must land in the manual category")
	}
}
