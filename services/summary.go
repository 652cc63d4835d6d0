// services/summary.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

// SummaryService produces the humorous Dutch score summary shown to each
// participant after the predictions are resolved. When the AI call fails (or
// no API key is configured) it falls back to a deterministic template — the
// fallback is a hard requirement, a scoring request must never fail on it.
type SummaryService struct {
	client *genai.Client
}

func NewSummaryService() *SummaryService {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("⚠️  GEMINI_API_KEY not set — score summaries use the templated fallback")
		return &SummaryService{}
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		log.Printf("⚠️  Could not initialize AI client, using fallback summaries: %v", err)
		return &SummaryService{}
	}
	log.Println("✅ AI summary service initialized")
	return &SummaryService{client: client}
}

// ScoreSummary returns a short summary for a participant's prediction score.
func (s *SummaryService) ScoreSummary(ctx context.Context, name string, total, max int) string {
	if s.client != nil {
		prompt := fmt.Sprintf(
			"Schrijf één humoristische Nederlandse zin (max 30 woorden) voor %s, "+
				"die %d van de %d punten scoorde met voorspellingen over een winterse borrel. "+
				"Toon: plagerig maar vriendelijk.",
			name, total, max,
		)
		result, err := s.client.Models.GenerateContent(ctx, "gemini-1.5-flash", genai.Text(prompt), nil)
		if err == nil {
			if text := strings.TrimSpace(result.Text()); text != "" {
				return text
			}
		} else {
			log.Printf("⚠️ AI summary failed, using fallback: %v", err)
		}
	}
	return FallbackSummary(name, total, max)
}

// FallbackSummary is the deterministic template, keyed by score-ratio bands.
func FallbackSummary(name string, total, max int) string {
	if max <= 0 {
		max = MaxPredictionScore
	}
	ratio := float64(total) / float64(max)
	switch {
	case ratio >= 0.5:
		return fmt.Sprintf("%s, met %d punten ben je officieel het orakel van de Winterproef. Wij houden je in de gaten.", name, total)
	case ratio >= 0.25:
		return fmt.Sprintf("%s, %d punten: niet slecht, niet goed. Precies genoeg om volgend jaar weer mee te mogen doen.", name, total)
	default:
		return fmt.Sprintf("%s, %d punten. Gelukkig testen we bij de Winterproef geen helderziendheid.", name, total)
	}
}
