package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"kelana.id/travelapp/internal/config"
	"kelana.id/travelapp/internal/middleware"
	"kelana.id/travelapp/pkg/storage"

	adminHttp "kelana.id/travelapp/internal/modules/admin/delivery/http"
	adminService "kelana.id/travelapp/internal/modules/admin/service"

	badgeHttp "kelana.id/travelapp/internal/modules/badge/delivery/http"
	badgeRepo "kelana.id/travelapp/internal/modules/badge/repository"
	badgeService "kelana.id/travelapp/internal/modules/badge/service"

	expenseHttp "kelana.id/travelapp/internal/modules/expense/delivery/http"
	expenseRepo "kelana.id/travelapp/internal/modules/expense/repository"
	expenseService "kelana.id/travelapp/internal/modules/expense/service"

	journalHttp "kelana.id/travelapp/internal/modules/journal/delivery/http"
	journalRepo "kelana.id/travelapp/internal/modules/journal/repository"
	journalService "kelana.id/travelapp/internal/modules/journal/service"

	leaderboardHttp "kelana.id/travelapp/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "kelana.id/travelapp/internal/modules/leaderboard/repository"
	leaderboardService "kelana.id/travelapp/internal/modules/leaderboard/service"

	notiHttp "kelana.id/travelapp/internal/modules/notification/delivery/http"
	notifRepo "kelana.id/travelapp/internal/modules/notification/repository"
	notifService "kelana.id/travelapp/internal/modules/notification/service"

	profileHttp "kelana.id/travelapp/internal/modules/profile/delivery/http"
	profileService "kelana.id/travelapp/internal/modules/profile/service"

	searchService "kelana.id/travelapp/internal/modules/search/service"

	tripHttp "kelana.id/travelapp/internal/modules/trip/delivery/http"
	tripRepo "kelana.id/travelapp/internal/modules/trip/repository"
	tripService "kelana.id/travelapp/internal/modules/trip/service"

	userHttp "kelana.id/travelapp/internal/modules/user/delivery/http"
	userRepo "kelana.id/travelapp/internal/modules/user/repository"
	userService "kelana.id/travelapp/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	usersRepo := userRepo.NewUserRepository(db)
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	meiliSvc := searchService.NewSearchService(meiliClient)

	authSvc := userService.NewAuthService(usersRepo, meiliSvc)
	authHandler := userHttp.NewAuthHandler(authSvc)

	// Notification module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	// Badge module
	badgesRepo := badgeRepo.NewBadgeRepository(db)
	statsRepo := badgeRepo.NewStatsRepository(db)
	badgeSvc := badgeService.NewBadgeService(badgesRepo, statsRepo, usersRepo, notificationSvc)
	badgeHandler := badgeHttp.NewBadgeHandler(badgeSvc)

	profileSvc := profileService.NewProfileService(usersRepo, imageStorage, badgesRepo)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	// Trip module
	tripsRepo := tripRepo.NewTripRepository(db)
	viewSvc := tripService.NewViewService(redisClient, tripsRepo)
	if redisClient != nil {
		go viewSvc.StartViewSyncWorker(context.Background())
	}
	tripSvc := tripService.NewTripService(tripsRepo, badgeSvc, meiliSvc, viewSvc)
	tripHandler := tripHttp.NewTripHandler(tripSvc)

	expensesRepo := expenseRepo.NewExpenseRepository(db)
	expenseSvc := expenseService.NewExpenseService(expensesRepo, tripsRepo)
	expenseHandler := expenseHttp.NewExpenseHandler(expenseSvc)

	journalsRepo := journalRepo.NewJournalRepository(db)
	journalSvc := journalService.NewJournalService(journalsRepo, tripsRepo, imageStorage, notificationSvc, badgeSvc)
	journalHandler := journalHttp.NewJournalHandler(journalSvc)
	go journalSvc.StartOrphanCleanupWorker(context.Background())

	adminSvc := adminService.NewAdminService(usersRepo)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	leaderboardsRepo := leaderboardRepo.NewLeaderboardRepository(db)
	leaderboardSvc := leaderboardService.NewLeaderboardService(leaderboardsRepo)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(usersRepo)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	api.GET("/trips/public", tripHandler.GetPublicTrips)
	api.GET("/trips/search", tripHandler.SearchTrips)
	api.GET("/badges", badgeHandler.GetCatalog)
	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/badges", badgeHandler.CreateBadge)
			adminGroup.PUT("/badges/:code", badgeHandler.UpdateBadge)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		}

		// Trip routes
		protected.POST("/trips", middleware.RateLimit(redisClient, "create_trip", cfg.RateLimitTrip), tripHandler.CreateTrip)
		protected.GET("/trips", tripHandler.GetMyTrips)
		protected.GET("/trips/:id", tripHandler.GetTrip)
		protected.PUT("/trips/:id", tripHandler.UpdateTrip)
		protected.POST("/trips/:id/complete", tripHandler.CompleteTrip)
		protected.PUT("/trips/:id/visibility", tripHandler.UpdateVisibility)
		protected.DELETE("/trips/:id", tripHandler.DeleteTrip)

		// Expense routes
		protected.POST("/trips/:id/expenses", expenseHandler.AddExpense)
		protected.GET("/trips/:id/expenses", expenseHandler.GetTripExpenses)
		protected.GET("/trips/:id/expenses/summary", expenseHandler.GetTripSummary)
		protected.PUT("/expenses/:expenseId", expenseHandler.UpdateExpense)
		protected.DELETE("/expenses/:expenseId", expenseHandler.DeleteExpense)

		// Journal routes
		protected.POST("/entries", middleware.RateLimit(redisClient, "create_entry", cfg.RateLimitGlobal), journalHandler.CreateEntry)
		protected.GET("/trips/:id/entries", journalHandler.GetTripEntries)
		protected.PUT("/entries/:entryId", journalHandler.UpdateEntry)
		protected.DELETE("/entries/:entryId", journalHandler.DeleteEntry)
		protected.POST("/photos", journalHandler.UploadPhoto)
		protected.POST("/photos/:photoId/like", journalHandler.ToggleLike)
		protected.POST("/photos/:photoId/comments", middleware.RateLimit(redisClient, "comment", cfg.RateLimitGlobal), journalHandler.AddComment)
		protected.GET("/photos/:photoId/comments", journalHandler.GetComments)
		protected.DELETE("/comments/:commentId", journalHandler.DeleteComment)

		// Badge routes
		protected.GET("/badges/me", badgeHandler.GetMyBadges)
		protected.GET("/badges/me/stats", badgeHandler.GetMyBadgeStats)
		protected.POST("/badges/evaluate", badgeHandler.TriggerEvaluation)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.GET("/profile/:username", profileHandler.GetProfileByUsername)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		// Leaderboard
		protected.GET("/leaderboard/me", leaderboardHandler.GetMyRank)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
