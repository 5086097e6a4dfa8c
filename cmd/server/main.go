package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harukisb/todo-tracking-api/internal/config"
	"github.com/harukisb/todo-tracking-api/internal/database"
	"github.com/harukisb/todo-tracking-api/internal/handlers"
	"github.com/harukisb/todo-tracking-api/internal/logger"
	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/repository"
	"github.com/harukisb/todo-tracking-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Errorf("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Errorf("Failed to create upload directory: %v", err)
		os.Exit(1)
	}

	promoteSeedAdmin(cfg)

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	todoRepo := repository.NewTodoRepository(database.GetDB())

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	todoService := services.NewTodoService(todoRepo, userRepo)
	userService := services.NewUserService(userRepo)
	attachmentService := services.NewAttachmentService(todoRepo, cfg.UploadDir)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	todoHandler := handlers.NewTodoHandler(todoService, attachmentService)
	userHandler := handlers.NewUserHandler(userService)

	r := handlers.NewRouter(authHandler, todoHandler, userHandler, authService, cfg.UploadDir)

	// Start server
	logger.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// promoteSeedAdmin grants the admin role to the account named by ADMIN_EMAIL,
// if that account exists. Role changes afterwards go through the API.
func promoteSeedAdmin(cfg *config.Config) {
	if cfg.AdminEmail == "" {
		return
	}

	result := database.GetDB().
		Model(&models.User{}).
		Where("email = ?", cfg.AdminEmail).
		Update("role", models.RoleAdmin)
	if result.Error != nil {
		logger.Warningf("Failed to promote seed admin: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("Promoted %s to admin", cfg.AdminEmail)
	}
}
