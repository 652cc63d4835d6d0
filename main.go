package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"winterproef-backend/handlers"
	"winterproef-backend/middleware"
	"winterproef-backend/models"
	"winterproef-backend/services"
	"winterproef-backend/utils"
	"winterproef-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB — photo uploads
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitStorage(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Registration{},
		&models.SectionCompletion{},
		&models.PointsLedgerEntry{},
		&models.PredictionResultSnapshot{},
		&models.LeaderboardSnapshot{},
		&models.EventPhoto{},
		&models.OutboundEmail{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ledgerService := services.NewLedgerService(db)
	completionService := services.NewCompletionService(db, ledgerService)
	summaryService := services.NewSummaryService()
	registrationService := services.NewRegistrationService(db, ledgerService, completionService)
	predictionService := services.NewPredictionService(db, ledgerService, summaryService)
	leaderboardService := services.NewLeaderboardService(db)
	photoService := services.NewPhotoService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Email outbox worker — drains queued mails to the external relay
	mailClient := workers.NewMailRelayClient(db)
	go workers.PollOutbox(ctx, mailClient, 15*time.Second)

	// Leaderboard snapshots for previous-rank deltas
	leaderboardService.StartSnapshotScheduler()

	handlers.SetupRegistrationRoutes(app, registrationService)
	handlers.SetupPredictionRoutes(app, predictionService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupAdminRoutes(app, registrationService, photoService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Email outbox polling running (every 15s)")
	log.Println("✅ Leaderboard snapshot job running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
