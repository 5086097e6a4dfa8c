package handlers

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/harukisb/todo-tracking-api/internal/middleware"
	"github.com/harukisb/todo-tracking-api/internal/services"
)

// NewRouter wires all routes. uploadDir is served statically so attachment
// names returned by the upload endpoint resolve directly to file contents.
func NewRouter(
	authHandler *AuthHandler,
	todoHandler *TodoHandler,
	userHandler *UserHandler,
	authService *services.AuthService,
	uploadDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Static("/uploads", uploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/verify", middleware.RequireAuth(authService), authHandler.Verify)
		}

		todos := api.Group("/todos")
		todos.Use(middleware.RequireAuth(authService))
		{
			todos.GET("", todoHandler.ListTodos)
			todos.POST("", todoHandler.CreateTodo)
			todos.PUT("/:id", todoHandler.UpdateCompletion)
			todos.DELETE("/:id", todoHandler.DeleteTodo)
			todos.POST("/:id/upload", todoHandler.Upload)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(authService), middleware.RequireAdmin())
		{
			users.GET("", userHandler.ListUsers)
			users.PUT("/:id/role", userHandler.UpdateRole)
		}
	}

	return r
}
