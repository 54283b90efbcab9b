// main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"oraculo/database"
	"oraculo/handlers"
	"oraculo/handlers/admin"
	applog "oraculo/logger"
	"oraculo/middleware"
	"oraculo/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()
	applog.Init()

	// Initialize database (migrations run inside) and optional Redis
	database.InitDB()
	database.InitRedis()
	defer database.CloseDB()

	// Wire services
	db := database.GetDB()
	gamification := services.NewGamificationService(db)
	events := services.NewEventService(db)
	battles := services.NewBattleService(db, gamification)
	bosses := services.NewBossService(db, gamification)
	daily := services.NewDailyService(db)
	teams := services.NewTeamService(db, gamification)
	hunts := services.NewHuntService(db, gamification)
	auditSvc := services.NewAuditService(db)
	hub := services.NewHub()
	notifications := services.NewNotificationService(db, hub)
	leaderboard := services.NewLeaderboardService(db, database.GetRedis())
	validator, hints := services.NewAnswerCapabilities()
	submissions := services.NewSubmissionService(
		db, gamification, events, battles, daily, validator, notifications, leaderboard)

	handlers.Init(handlers.Deps{
		Gamification:  gamification,
		Submissions:   submissions,
		Teams:         teams,
		Battles:       battles,
		Bosses:        bosses,
		Events:        events,
		Hunts:         hunts,
		Daily:         daily,
		Leaderboard:   leaderboard,
		Notifications: notifications,
		Audit:         auditSvc,
		Hints:         hints,
		Hub:           hub,
	})
	admin.Init(admin.Deps{
		Gamification:  gamification,
		Audit:         auditSvc,
		Notifications: notifications,
		Leaderboard:   leaderboard,
	})

	// Converge the ranking cache with the database at boot
	if err := leaderboard.Rebuild(context.Background()); err != nil {
		applog.Get().WithError(err).Warn("leaderboard rebuild failed")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	api.Get("/auth/me", middleware.AuthMiddleware, handlers.Me)

	// Challenges
	challengeGroup := api.Group("/challenges", middleware.AuthMiddleware)
	challengeGroup.Get("/", handlers.ListChallenges)
	challengeGroup.Get("/daily", handlers.GetDailyChallenge)
	challengeGroup.Get("/:id", handlers.GetChallenge)
	challengeGroup.Post("/:id/submit", handlers.SubmitChallenge)
	challengeGroup.Post("/:id/hint", handlers.PurchaseHint)

	// Teams
	teamGroup := api.Group("/teams", middleware.AuthMiddleware)
	teamGroup.Get("/", handlers.ListTeams)
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Post("/:id/join", handlers.JoinTeam)
	teamGroup.Post("/leave", handlers.LeaveTeam)
	teamGroup.Delete("/members/:memberId", handlers.KickMember)

	// Battles
	battleGroup := api.Group("/battles", middleware.AuthMiddleware)
	battleGroup.Get("/mine", handlers.MyBattles)
	battleGroup.Post("/", handlers.StartBattle)
	battleGroup.Get("/:id", handlers.GetBattle)

	// Boss fights
	bossGroup := api.Group("/boss-fights", middleware.AuthMiddleware)
	bossGroup.Get("/", handlers.ListBossFights)
	bossGroup.Get("/:id/progress", handlers.BossProgress)
	bossGroup.Post("/steps/:stepId/submit", handlers.SubmitBossStep)

	// Learning paths
	pathGroup := api.Group("/paths", middleware.AuthMiddleware)
	pathGroup.Get("/", handlers.ListPaths)
	pathGroup.Get("/:id", handlers.GetPath)

	// Global events
	eventGroup := api.Group("/events", middleware.AuthMiddleware)
	eventGroup.Get("/active", handlers.GetActiveEvent)
	eventGroup.Get("/:id/contributions", handlers.EventContributions)

	// Scavenger hunts
	huntGroup := api.Group("/hunts", middleware.AuthMiddleware)
	huntGroup.Get("/", handlers.ListHunts)
	huntGroup.Post("/:id/start", handlers.StartHunt)
	huntGroup.Get("/:id/status", handlers.HuntStatus)
	huntGroup.Post("/:id/submit", handlers.SubmitHuntAnswer)

	// Leaderboards
	api.Get("/leaderboard", middleware.AuthMiddleware, handlers.GetLeaderboard)
	api.Get("/leaderboard/teams", middleware.AuthMiddleware, handlers.GetTeamLeaderboard)

	// Notifications
	notifGroup := api.Group("/notifications", middleware.AuthMiddleware)
	notifGroup.Get("/", handlers.ListNotifications)
	notifGroup.Post("/read", handlers.MarkNotificationsRead)

	// Websocket push channel
	app.Use("/ws", handlers.WebSocketUpgrade)
	app.Get("/ws", middleware.WebSocketAuthMiddleware, handlers.NotificationSocket())

	// FAQs
	faqGroup := api.Group("/faqs", middleware.AuthMiddleware)
	faqGroup.Get("/", handlers.ListFAQs)
	faqGroup.Get("/export", handlers.ExportFAQs)
	faqGroup.Get("/:id", handlers.GetFAQ)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AdminAuthMiddleware)
	adminGroup.Get("/levels", admin.ListLevels)
	adminGroup.Post("/levels", admin.CreateLevel)
	adminGroup.Put("/levels/:id", admin.UpdateLevel)
	adminGroup.Delete("/levels/:id", admin.DeleteLevel)

	adminGroup.Get("/achievements", admin.ListAchievements)
	adminGroup.Post("/achievements", admin.CreateAchievement)
	adminGroup.Put("/achievements/:id", admin.UpdateAchievement)
	adminGroup.Delete("/achievements/:id", admin.DeleteAchievement)

	adminGroup.Get("/challenges", admin.ListChallenges)
	adminGroup.Post("/challenges", admin.CreateChallenge)
	adminGroup.Put("/challenges/:id", admin.UpdateChallenge)
	adminGroup.Delete("/challenges/:id", admin.DeleteChallenge)
	adminGroup.Get("/challenges/daily-history", admin.DailyHistory)

	adminGroup.Get("/paths", admin.ListPaths)
	adminGroup.Post("/paths", admin.CreatePath)
	adminGroup.Put("/paths/:id", admin.UpdatePath)
	adminGroup.Delete("/paths/:id", admin.DeletePath)

	adminGroup.Get("/boss-fights", admin.ListBossFights)
	adminGroup.Post("/boss-fights", admin.CreateBossFight)
	adminGroup.Put("/boss-fights/:id/active", admin.SetBossFightActive)
	adminGroup.Delete("/boss-fights/:id", admin.DeleteBossFight)

	adminGroup.Get("/events", admin.ListEvents)
	adminGroup.Post("/events", admin.CreateEvent)
	adminGroup.Put("/events/:id/activate", admin.ActivateEvent)
	adminGroup.Put("/events/:id/deactivate", admin.DeactivateEvent)

	adminGroup.Get("/hunts", admin.ListHunts)
	adminGroup.Post("/hunts", admin.CreateHunt)
	adminGroup.Put("/hunts/:id/active", admin.SetHuntActive)
	adminGroup.Delete("/hunts/:id", admin.DeleteHunt)

	adminGroup.Get("/battles", admin.ListBattles)
	adminGroup.Post("/battles/finalize", handlers.FinalizeBattles)
	adminGroup.Delete("/battles/:id", admin.DeleteBattle)

	adminGroup.Get("/users", admin.ListUsers)
	adminGroup.Put("/users/:id/points", admin.AdjustUserPoints)
	adminGroup.Put("/users/:id/admin", admin.SetUserAdmin)
	adminGroup.Delete("/users/:id", admin.DeleteUser)
	adminGroup.Delete("/teams/:id", admin.DeleteTeam)

	adminGroup.Post("/invitations", admin.GenerateInvitations)
	adminGroup.Get("/invitations", admin.ListInvitations)

	adminGroup.Post("/faqs", admin.CreateFAQ)
	adminGroup.Put("/faqs/:id", admin.UpdateFAQ)
	adminGroup.Delete("/faqs/:id", admin.DeleteFAQ)

	adminGroup.Get("/audit-logs", admin.ListAuditLogs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Oráculo Nexus listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
