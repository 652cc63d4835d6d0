// handlers/prediction_routes.go
package handlers

import (
	"winterproef-backend/middleware"
	"winterproef-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPredictionRoutes(app *fiber.App, predictionService *services.PredictionService) {
	// 🔓 Public route — the field catalog is static form configuration
	app.Get("/predictions/fields", predictionService.GetFieldCatalog)

	// 🔐 Authenticated routes
	secured := app.Group("/s", middleware.UserContextMiddleware())
	secured.Get("/predictions", predictionService.GetOwnPredictions)
	secured.Post("/predictions", predictionService.SubmitPredictions)
	secured.Get("/predictions/score", predictionService.GetOwnScore)

	// 🔐 Admin routes — entering and resolving the actual outcomes
	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.Get("/predictions/results", predictionService.GetActualResults)
	admin.Put("/predictions/results", predictionService.SaveActualResults)
	admin.Post("/predictions/finalize", predictionService.FinalizePredictions)
}
