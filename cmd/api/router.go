package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/middleware"
	"bookshelf-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.UserHandler.Signup)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/logout", middleware.Auth(c.Sessions), c.UserHandler.Logout)
		auth.GET("/google", c.UserHandler.GoogleRedirect)
		auth.GET("/google/callback", c.UserHandler.GoogleCallback)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.Auth(c.Sessions))
	{
		users.GET("/me", c.UserHandler.GetProfile)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		// Public catalog views.
		books.GET("/all", c.BookHandler.ListAllBooks)
		books.GET("/:id", c.BookHandler.GetBook)

		// Owner-scoped operations.
		authed := books.Use(middleware.Auth(c.Sessions))
		authed.GET("", c.BookHandler.ListOwnBooks)
		authed.POST("", c.BookHandler.CreateBook)
		authed.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		services := gin.H{}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}
		services["database"] = dbStatus

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(c.Request.Context()); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}
		services["redis"] = redisStatus

		health["services"] = services

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
