// services/photo_service.go
package services

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"winterproef-backend/models"
	"winterproef-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoService struct {
	DB *gorm.DB
}

func NewPhotoService(db *gorm.DB) *PhotoService {
	return &PhotoService{DB: db}
}

// UploadEventPhoto stores an admin-uploaded photo in R2 and records its URL.
func (s *PhotoService) UploadEventPhoto(c *fiber.Ctx) error {
	adminID := c.Locals("user_id").(string)

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Titel is verplicht"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geen foto meegestuurd"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Alleen afbeeldingen zijn toegestaan"})
	}

	key := fmt.Sprintf("event-photos/%s%s", uuid.NewString(), ext)
	url, err := utils.UploadPhoto(fileHeader, key)
	if err != nil {
		log.Printf("❌ Photo upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	photo := models.EventPhoto{
		ID:         uuid.NewString(),
		Title:      title,
		URL:        url,
		UploadedBy: adminID,
	}
	if err := s.DB.Create(&photo).Error; err != nil {
		log.Printf("DB Error saving photo: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo"})
	}

	return c.Status(fiber.StatusCreated).JSON(photo)
}

// ListEventPhotos returns all photos, newest first.
func (s *PhotoService) ListEventPhotos(c *fiber.Ctx) error {
	var photos []models.EventPhoto
	if err := s.DB.Order("created_at DESC").Find(&photos).Error; err != nil {
		log.Printf("DB Error listing photos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list photos"})
	}
	return c.JSON(fiber.Map{"photos": photos})
}
