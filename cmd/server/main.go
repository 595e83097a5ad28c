package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/config"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/handlers"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/notifier"
	"github.com/teamboard/teamboard-api/internal/permissions"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())

	// Board projection, fed by the storage subscription
	store := board.NewStore()
	taskRepo.Subscribe(store.ApplySnapshot)
	if err := taskRepo.Notify(context.Background()); err != nil {
		log.Fatalf("Failed to load initial task snapshot: %v", err)
	}

	// Services
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userService, userRepo)
	taskService := services.NewTaskService(store, taskRepo, userRepo, cfg.StorageTimeout)
	analyticsService := services.NewAnalyticsService(store)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Daily reminder digest, enabled when a bot token is configured
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to create telegram notifier: %v", err)
		}
		reminders := services.NewReminderService(store, tg, time.Local)
		if _, err := reminders.ScheduleDaily(cfg.ReminderTime); err != nil {
			log.Fatalf("Failed to schedule reminders: %v", err)
		}
		reminders.Start()
		defer reminders.Stop()
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	userHandler := handlers.NewUserHandler(userService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team board API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/board", taskHandler.GetBoard)
			tasks.POST("", middleware.RequirePermission(permissions.CapEditTasks), taskHandler.CreateTask)
			tasks.POST("/suggest", middleware.RequirePermission(permissions.CapEditTasks), taskHandler.SuggestTasks)
			tasks.POST("/reorder", middleware.RequirePermission(permissions.CapMoveTasks), taskHandler.ReorderColumn)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequirePermission(permissions.CapEditTasks), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequirePermission(permissions.CapDeleteTasks), taskHandler.DeleteTask)
			tasks.POST("/:id/move", middleware.RequirePermission(permissions.CapMoveTasks), taskHandler.MoveTask)
			tasks.POST("/:id/assign", middleware.RequirePermission(permissions.CapAssignTasks), taskHandler.AssignTask)
		}

		// Team administration (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequirePermission(permissions.CapManageUsers))
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.PATCH("/:id/role", userHandler.UpdateUserRole)
			users.DELETE("/:id", userHandler.DeactivateUser)
		}

		// Analytics (protected)
		analytics := api.Group("/analytics")
		analytics.Use(middleware.RequireAuth(), middleware.RequirePermission(permissions.CapViewAnalytics))
		{
			analytics.GET("/summary", analyticsHandler.GetSummary)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
