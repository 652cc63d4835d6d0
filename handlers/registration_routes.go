// handlers/registration_routes.go
package handlers

import (
	"winterproef-backend/middleware"
	"winterproef-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRegistrationRoutes(app *fiber.App, registrationService *services.RegistrationService) {
	// 🔓 Public route — new participants register themselves
	app.Post("/register", registrationService.Register)

	// 🔐 Authenticated routes — require user context from the gateway
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/profile", registrationService.GetProfile)
	secured.Put("/profile/sections/:section", registrationService.SaveSection)
	secured.Get("/points", registrationService.GetPointsHistory)
}
