// handlers/admin_routes.go
package handlers

import (
	"winterproef-backend/middleware"
	"winterproef-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, registrationService *services.RegistrationService, photoService *services.PhotoService) {
	// 🔐 Back office — admin role required on every route
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	// Registrations
	admin.Get("/registrations", registrationService.ListRegistrations)
	admin.Patch("/users/:id/status", registrationService.SetStatus)
	admin.Patch("/users/:id/role", registrationService.SetRole)
	admin.Patch("/users/:id/payment", registrationService.SetPaymentStatus)
	admin.Delete("/users/:id", registrationService.DeleteUser)

	// Manual point adjustments
	admin.Post("/users/:id/points", registrationService.AdjustPoints)

	// Event photos
	admin.Get("/photos", photoService.ListEventPhotos)
	admin.Post("/photos", photoService.UploadEventPhoto)
}
