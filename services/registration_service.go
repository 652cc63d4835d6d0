// services/registration_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"winterproef-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var validate = validator.New()

// SkillCategories are the eight fixed sub-categories of the skills section.
// The section only counts as complete when every one of them is filled.
var SkillCategories = []string{
	"koken", "bbq", "muziek", "bardienst",
	"spelletjes", "verhalen", "techniek", "opruimen",
}

// MinQuizAnswers is the minimum number of answered quiz items for completion.
const MinQuizAnswers = 3

type RegistrationService struct {
	DB         *gorm.DB
	Ledger     *LedgerService
	Completion *CompletionService
}

func NewRegistrationService(db *gorm.DB, ledger *LedgerService, completion *CompletionService) *RegistrationService {
	return &RegistrationService{DB: db, Ledger: ledger, Completion: completion}
}

// Register creates a pending user plus an empty registration, queues the
// confirmation email and awards the basic section.
func (s *RegistrationService) Register(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name" validate:"required,min=2"`
		Email string `json:"email" validate:"required,email"`
		PIN   string `json:"pin" validate:"required,len=4,numeric"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Controleer naam, e-mailadres en pincode (4 cijfers)"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := s.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Dit e-mailadres is al geregistreerd"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("DB Error checking email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	user := models.User{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(req.Name),
		Email:  email,
		PIN:    req.PIN,
		Role:   models.RoleParticipant,
		Status: models.StatusPending,
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		reg := models.Registration{ID: uuid.NewString(), UserID: user.ID}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}
		mail := models.OutboundEmail{
			ID:      uuid.NewString(),
			ToEmail: user.Email,
			Subject: "Aanmelding Bovenkamer Winterproef ontvangen",
			Body: fmt.Sprintf("Beste %s,\n\nJe aanmelding voor de Winterproef is binnen. "+
				"Je hoort van ons zodra de organisatie je heeft goedgekeurd.\n\nDe Bovenkamer", user.Name),
		}
		return tx.Create(&mail).Error
	}); err != nil {
		log.Printf("DB Error creating registration: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register"})
	}

	// Outside the creation transaction: a duplicate award here is impossible for
	// a fresh user, and a failure must not undo the account itself.
	if _, err := s.Completion.MarkSectionComplete(user.ID, SectionBasic); err != nil {
		log.Printf("⚠️ Failed to award basic section for %s: %v", user.ID, err)
	}

	log.Printf("🎿 New registration: %s <%s>", user.Name, user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": user})
}

// GetProfile returns the authenticated user's account, answers, completion and total.
func (s *RegistrationService) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var user models.User
	if err := s.DB.Preload("Registration").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gebruiker niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	completion, err := s.Completion.GetCompletion(userID)
	if err != nil {
		log.Printf("DB Error loading completion: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	total, err := s.Ledger.TotalFor(userID)
	if err != nil {
		log.Printf("DB Error loading total: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"completion":   completion,
		"total_points": total,
	})
}

// SaveSection validates and persists one profile section, then runs the
// transactional complete+award flow. Validation rules are section-specific;
// the completion tracker itself never validates.
func (s *RegistrationService) SaveSection(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	section := ProfileSection(c.Params("section"))

	if _, known := SectionPoints(section); !known {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Onbekende profielsectie"})
	}
	if section == SectionBasic {
		// Completed at registration time; saving it again is a harmless no-op.
		return c.JSON(fiber.Map{"success": true, "pointsAwarded": 0})
	}

	var reg models.Registration
	if err := s.DB.Where("user_id = ?", userID).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registratie niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.applySection(c, &reg, section); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&reg).Error; err != nil {
		log.Printf("DB Error saving section %s: %v", section, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save section"})
	}

	awarded, err := s.Completion.MarkSectionComplete(userID, section)
	if err != nil {
		log.Printf("DB Error completing section %s: %v", section, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete section"})
	}

	completion, err := s.Completion.GetCompletion(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{"success": true, "pointsAwarded": awarded, "completion": completion})
}

// applySection parses, validates and writes one section's answers onto reg.
func (s *RegistrationService) applySection(c *fiber.Ctx, reg *models.Registration, section ProfileSection) error {
	switch section {
	case SectionPersonal:
		var req struct {
			BirthYear     int     `json:"birth_year" validate:"required,min=1900,max=2015"`
			PartnerName   *string `json:"partner_name"`
			PartnerComing *bool   `json:"partner_coming"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		if err := validate.Struct(req); err != nil {
			return errors.New("geboortejaar ontbreekt of is ongeldig")
		}
		reg.BirthYear = &req.BirthYear
		reg.PartnerName = req.PartnerName
		reg.PartnerComing = req.PartnerComing

	case SectionSkills:
		var req struct {
			Skills map[string]string `json:"skills"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		for _, category := range SkillCategories {
			if strings.TrimSpace(req.Skills[category]) == "" {
				return fmt.Errorf("vul alle %d vaardigheden in (%s ontbreekt)", len(SkillCategories), category)
			}
		}
		skills := datatypes.JSONMap{}
		for _, category := range SkillCategories {
			skills[category] = strings.TrimSpace(req.Skills[category])
		}
		reg.Skills = skills

	case SectionMusic:
		var req struct {
			MusicPreference string `json:"music_preference" validate:"required,min=2"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		if err := validate.Struct(req); err != nil {
			return errors.New("muziekvoorkeur ontbreekt")
		}
		pref := strings.TrimSpace(req.MusicPreference)
		reg.MusicPreference = &pref

	case SectionJKVHistorie:
		var req struct {
			JoinYear int  `json:"join_year" validate:"required,min=1950,max=2030"`
			ExitYear *int `json:"exit_year" validate:"omitempty,min=1950,max=2030"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		if err := validate.Struct(req); err != nil {
			return errors.New("JKV-jaren ontbreken of zijn ongeldig")
		}
		if req.ExitYear != nil && *req.ExitYear < req.JoinYear {
			return errors.New("uittreedjaar ligt voor het intreejaar")
		}
		reg.JKVJoinYear = &req.JoinYear
		reg.JKVExitYear = req.ExitYear

	case SectionBorrelStats:
		var req struct {
			Attended *int `json:"attended" validate:"required,min=0"`
			Hosted   *int `json:"hosted" validate:"required,min=0"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		if err := validate.Struct(req); err != nil {
			return errors.New("borrelaantallen ontbreken")
		}
		reg.BorrelsAttended = req.Attended
		reg.BorrelsHosted = req.Hosted

	case SectionQuiz:
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errors.New("ongeldige invoer")
		}
		answered := 0
		answers := datatypes.JSONMap{}
		for question, answer := range req.Answers {
			if strings.TrimSpace(answer) == "" {
				continue
			}
			answers[question] = strings.TrimSpace(answer)
			answered++
		}
		if answered < MinQuizAnswers {
			return fmt.Errorf("beantwoord minstens %d quizvragen", MinQuizAnswers)
		}
		reg.QuizAnswers = answers

	default:
		return fmt.Errorf("sectie %s kan niet opgeslagen worden", section)
	}
	return nil
}

// GetPointsHistory returns the authenticated user's ledger rows, newest first.
func (s *RegistrationService) GetPointsHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	entries, err := s.Ledger.EntriesFor(userID)
	if err != nil {
		log.Printf("DB Error loading ledger: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	total, err := s.Ledger.TotalFor(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{"entries": entries, "total": total})
}

// --- Admin Handlers ---

// ListRegistrations returns users with their registrations, filterable by
// status and a name/email search term (Admin only).
func (s *RegistrationService) ListRegistrations(c *fiber.Ctx) error {
	query := s.DB.Model(&models.User{}).Preload("Registration")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var users []models.User
	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		log.Printf("DB Error listing registrations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list registrations"})
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// SetStatus moves a user through the registration lifecycle (Admin only).
func (s *RegistrationService) SetStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Status models.UserStatus `json:"status" validate:"required,oneof=pending approved rejected cancelled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ongeldige status"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gebruiker niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	user.Status = req.Status
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if req.Status != models.StatusApproved {
			return nil
		}
		mail := models.OutboundEmail{
			ID:      uuid.NewString(),
			ToEmail: user.Email,
			Subject: "Je doet mee aan de Winterproef!",
			Body: fmt.Sprintf("Beste %s,\n\nJe aanmelding is goedgekeurd. "+
				"Vul je profiel aan en waag je aan de voorspellingen.\n\nDe Bovenkamer", user.Name),
		}
		return tx.Create(&mail).Error
	}); err != nil {
		log.Printf("DB Error updating status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}

	log.Printf("👥 Status of %s set to %s", user.Email, user.Status)
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// SetRole changes a user's role (Admin only).
func (s *RegistrationService) SetRole(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Role models.UserRole `json:"role" validate:"required,oneof=participant quizmaster admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ongeldige rol"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gebruiker niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	user.Role = req.Role
	if err := s.DB.Save(&user).Error; err != nil {
		log.Printf("DB Error updating role: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// SetPaymentStatus mirrors the external payment state (Admin only).
func (s *RegistrationService) SetPaymentStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Status models.PaymentStatus `json:"status" validate:"required,oneof=unpaid link_sent paid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ongeldige betaalstatus"})
	}

	var reg models.Registration
	if err := s.DB.Where("user_id = ?", id).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registratie niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	reg.PaymentStatus = req.Status
	if err := s.DB.Save(&reg).Error; err != nil {
		log.Printf("DB Error updating payment status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment status"})
	}
	return c.JSON(fiber.Map{"success": true, "registration": reg})
}

// AdjustPoints appends a manual ledger adjustment (Admin only).
// Accepts {points, reason} and returns {success, pointsAwarded}.
func (s *RegistrationService) AdjustPoints(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Points int    `json:"points" validate:"required"`
		Reason string `json:"reason" validate:"required,min=3"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Punten en reden zijn verplicht"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gebruiker niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	entry, err := s.Ledger.ManualAdjustment(user.ID, req.Points, req.Reason, adminID)
	if err != nil {
		log.Printf("DB Error on manual adjustment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to adjust points"})
	}
	return c.JSON(fiber.Map{"success": true, "pointsAwarded": entry.Points})
}

// DeleteUser hard-deletes a user and everything keyed to them. Requires the
// explicit confirm flag; there is no undo.
func (s *RegistrationService) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Bevestig verwijderen met confirm=true"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gebruiker niet gevonden"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.PointsLedgerEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SectionCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.LeaderboardSnapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	}); err != nil {
		log.Printf("DB Error deleting user %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	log.Printf("🗑️ User deleted: %s <%s> at %s", user.Name, user.Email, time.Now().Format(time.RFC3339))
	return c.JSON(fiber.Map{"success": true})
}
