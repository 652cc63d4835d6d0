// handlers/leaderboard_routes.go
package handlers

import (
	"winterproef-backend/middleware"
	"winterproef-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	// 🔐 Authenticated routes — the live variant is what the UI polls
	secured := app.Group("/s", middleware.UserContextMiddleware())
	secured.Get("/leaderboard", leaderboardService.GetLeaderboard)
	secured.Get("/leaderboard/live", leaderboardService.GetLiveLeaderboard)
}
