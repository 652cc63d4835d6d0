// services/prediction.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"winterproef-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PredictionFieldType tags how a field is compared when scoring.
type PredictionFieldType string

const (
	FieldNumeric PredictionFieldType = "numeric"
	FieldPerson  PredictionFieldType = "person"
	FieldBoolean PredictionFieldType = "boolean"
	FieldTime    PredictionFieldType = "time" // integer slot index
)

// PredictionField is one of the twelve fixed attributes participants guess.
type PredictionField struct {
	Name  string              `json:"name"`
	Label string              `json:"label"`
	Type  PredictionFieldType `json:"type"`
}

// PredictionFields is the fixed field catalog. Static configuration, not user data.
var PredictionFields = []PredictionField{
	{"wineBottles", "Aantal flessen wijn", FieldNumeric},
	{"beerCrates", "Aantal kratten bier", FieldNumeric},
	{"meatKilos", "Kilo's vlees op de BBQ", FieldNumeric},
	{"firstSleeper", "Wie valt als eerste in slaap?", FieldPerson},
	{"spontaneousSinger", "Wie begint spontaan te zingen?", FieldPerson},
	{"firstToLeave", "Wie vertrekt als eerste?", FieldPerson},
	{"lastToLeave", "Wie vertrekt als laatste?", FieldPerson},
	{"loudestLaugher", "Wie heeft de hardste lach?", FieldPerson},
	{"longestStoryTeller", "Wie vertelt het langste verhaal?", FieldPerson},
	{"somethingBurned", "Brandt er iets aan?", FieldBoolean},
	{"outsideTemp", "Buitentemperatuur om middernacht", FieldNumeric},
	{"lastGuestTime", "Tijdslot waarin de laatste gast vertrekt", FieldTime},
}

// MaxPredictionScore is 12 fields × 50 points.
const MaxPredictionScore = 600

// PredictionDescription is the ledger description tag for the prediction grant.
const PredictionDescription = "prediction"

// ScoreBreakdown maps field name → points. Skipped fields (no prediction or no
// actual) are absent from the map, so "no data" is distinguishable from a
// wrong answer's explicit 0.
type ScoreBreakdown map[string]int

// ScorePredictions compares predictions against actual results and returns the
// total plus the per-field breakdown. Pure function; persisting the result is
// the caller's job.
func ScorePredictions(predictions, actuals map[string]interface{}) (int, ScoreBreakdown) {
	breakdown := make(ScoreBreakdown)
	total := 0
	for _, field := range PredictionFields {
		predicted, okP := presentValue(predictions, field.Name)
		actual, okA := presentValue(actuals, field.Name)
		if !okP || !okA {
			continue // no data, not wrong — omit from the breakdown
		}
		points, ok := scoreField(field.Type, predicted, actual)
		if !ok {
			continue // unparseable value counts as absent
		}
		breakdown[field.Name] = points
		total += points
	}
	return total, breakdown
}

func presentValue(m map[string]interface{}, key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func scoreField(fieldType PredictionFieldType, predicted, actual interface{}) (int, bool) {
	switch fieldType {
	case FieldNumeric:
		p, okP := toFloat(predicted)
		a, okA := toFloat(actual)
		if !okP || !okA {
			return 0, false
		}
		return scoreNumeric(p, a), true
	case FieldTime:
		p, okP := toFloat(predicted)
		a, okA := toFloat(actual)
		if !okP || !okA {
			return 0, false
		}
		return scoreTimeSlot(p, a), true
	case FieldBoolean:
		p, okP := toBool(predicted)
		a, okA := toBool(actual)
		if !okP || !okA {
			return 0, false
		}
		if p == a {
			return 50, true
		}
		return 0, true
	case FieldPerson:
		p, okP := toPersonKey(predicted)
		a, okA := toPersonKey(actual)
		if !okP || !okA {
			return 0, false
		}
		if p == a {
			return 50, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// scoreNumeric: 50 for exact, 25 within 10% relative diff, 10 within 25%.
// An actual of 0 makes any miss a 100% error by definition.
func scoreNumeric(predicted, actual float64) int {
	diff := math.Abs(predicted - actual)
	if diff == 0 {
		return 50
	}
	var percentDiff float64
	if actual == 0 {
		percentDiff = 100
	} else {
		percentDiff = diff / math.Abs(actual) * 100
	}
	switch {
	case percentDiff <= 10:
		return 25
	case percentDiff <= 25:
		return 10
	default:
		return 0
	}
}

// scoreTimeSlot: slots are integer indexes; distance 0/1/2 → 50/25/10.
func scoreTimeSlot(predicted, actual float64) int {
	diff := math.Abs(predicted - actual)
	switch {
	case diff == 0:
		return 50
	case diff <= 1:
		return 25
	case diff <= 2:
		return 10
	default:
		return 0
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(b)))
		return parsed, err == nil
	default:
		return false, false
	}
}

// toPersonKey normalizes person values so "Jan de Vries", " jan de vries " and
// "jan-de-vries" all compare equal.
func toPersonKey(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return slug.Make(s), true
}

// validatePredictionValues rejects unknown field names and values that do not
// parse for the field's type.
func validatePredictionValues(values map[string]interface{}) error {
	byName := make(map[string]PredictionField, len(PredictionFields))
	for _, f := range PredictionFields {
		byName[f.Name] = f
	}
	for name, v := range values {
		field, ok := byName[name]
		if !ok {
			return fmt.Errorf("onbekend voorspellingsveld: %s", name)
		}
		if v == nil {
			continue // explicit clear is allowed
		}
		switch field.Type {
		case FieldNumeric, FieldTime:
			if _, ok := toFloat(v); !ok {
				return fmt.Errorf("veld %s verwacht een getal", name)
			}
		case FieldBoolean:
			if _, ok := toBool(v); !ok {
				return fmt.Errorf("veld %s verwacht ja/nee", name)
			}
		case FieldPerson:
			if _, ok := toPersonKey(v); !ok {
				return fmt.Errorf("veld %s verwacht een naam", name)
			}
		}
	}
	return nil
}

type PredictionService struct {
	DB      *gorm.DB
	Ledger  *LedgerService
	Summary *SummaryService
}

func NewPredictionService(db *gorm.DB, ledger *LedgerService, summary *SummaryService) *PredictionService {
	return &PredictionService{DB: db, Ledger: ledger, Summary: summary}
}

// GetFieldCatalog returns the fixed field definitions for form rendering.
func (s *PredictionService) GetFieldCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"fields": PredictionFields, "max_score": MaxPredictionScore})
}

// SubmitPredictions merges the submitted values into the user's predictions map.
func (s *PredictionService) SubmitPredictions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Predictions map[string]interface{} `json:"predictions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Predictions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geen voorspellingen opgegeven"})
	}
	if err := validatePredictionValues(req.Predictions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var reg models.Registration
	if err := s.DB.Where("user_id = ?", userID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registratie niet gevonden"})
		}
		log.Printf("DB Error loading registration: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if reg.Predictions == nil {
		reg.Predictions = datatypes.JSONMap{}
	}
	for name, v := range req.Predictions {
		if v == nil {
			delete(reg.Predictions, name)
			continue
		}
		reg.Predictions[name] = v
	}

	if err := s.DB.Save(&reg).Error; err != nil {
		log.Printf("DB Error saving predictions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save predictions"})
	}

	return c.JSON(fiber.Map{"success": true, "predictions": reg.Predictions})
}

// GetOwnPredictions returns the authenticated user's current predictions map.
func (s *PredictionService) GetOwnPredictions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var reg models.Registration
	if err := s.DB.Where("user_id = ?", userID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registratie niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{"predictions": reg.Predictions})
}

// SaveActualResults upserts the singleton actual-outcomes snapshot (Admin only).
// Concurrent admin edits are last-write-wins.
func (s *PredictionService) SaveActualResults(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	var req struct {
		Results map[string]interface{} `json:"results"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Results) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geen uitslagen opgegeven"})
	}
	if err := validatePredictionValues(req.Results); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snapshot := models.PredictionResultSnapshot{
		ID:        models.PredictionResultSnapshotID,
		Results:   datatypes.JSONMap(req.Results),
		UpdatedBy: adminID,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"results", "updated_by", "updated_at"}),
	}).Create(&snapshot).Error; err != nil {
		log.Printf("DB Error saving actual results: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save results"})
	}

	log.Printf("📋 Actual results saved by %s (%d fields)", adminID, len(req.Results))
	return c.JSON(fiber.Map{"success": true, "results": snapshot.Results})
}

// GetActualResults returns the snapshot (Admin only).
func (s *PredictionService) GetActualResults(c *fiber.Ctx) error {
	var snapshot models.PredictionResultSnapshot
	if err := s.DB.First(&snapshot, models.PredictionResultSnapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"results": fiber.Map{}})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{"results": snapshot.Results, "updated_at": snapshot.UpdatedAt})
}

// FinalizePredictions scores every approved participant against the snapshot
// and awards the "prediction" ledger entry (Admin only). Safe to re-run: the
// ledger writer makes the award idempotent per user.
func (s *PredictionService) FinalizePredictions(c *fiber.Ctx) error {
	var snapshot models.PredictionResultSnapshot
	if err := s.DB.First(&snapshot, models.PredictionResultSnapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nog geen uitslagen ingevoerd"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var users []models.User
	if err := s.DB.Where("status = ?", models.StatusApproved).Find(&users).Error; err != nil {
		log.Printf("DB Error loading participants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	scored := 0
	awarded := 0
	for _, user := range users {
		var reg models.Registration
		if err := s.DB.Where("user_id = ?", user.ID).First(&reg).Error; err != nil {
			continue // no registration, nothing to score
		}
		if len(reg.Predictions) == 0 {
			continue
		}

		total, breakdown := ScorePredictions(reg.Predictions, snapshot.Results)
		scored++

		reason := fmt.Sprintf("Voorspellingen: %d van %d punten (%d velden)",
			total, MaxPredictionScore, len(breakdown))
		points, err := s.Ledger.AwardPoints(user.ID, PredictionDescription, total, &reason)
		if err != nil {
			log.Printf("❌ Failed to award prediction points for %s: %v", user.ID, err)
			continue
		}
		if points > 0 {
			awarded++
		}

		summary := s.Summary.ScoreSummary(c.Context(), user.Name, total, MaxPredictionScore)
		reg.AIAssignment = &summary
		if err := s.DB.Save(&reg).Error; err != nil {
			log.Printf("⚠️ Failed to store score summary for %s: %v", user.ID, err)
		}
	}

	log.Printf("🏁 Predictions finalized: %d scored, %d newly awarded", scored, awarded)
	return c.JSON(fiber.Map{"success": true, "scored": scored, "awarded": awarded})
}

// GetOwnScore returns the authenticated user's breakdown, total and summary.
func (s *PredictionService) GetOwnScore(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var snapshot models.PredictionResultSnapshot
	if err := s.DB.First(&snapshot, models.PredictionResultSnapshotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"available": false})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var reg models.Registration
	if err := s.DB.Where("user_id = ?", userID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registratie niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	total, breakdown := ScorePredictions(reg.Predictions, snapshot.Results)
	resp := fiber.Map{
		"available": true,
		"total":     total,
		"max":       MaxPredictionScore,
		"breakdown": breakdown,
	}
	if reg.AIAssignment != nil {
		resp["summary"] = *reg.AIAssignment
	}
	return c.JSON(resp)
}
