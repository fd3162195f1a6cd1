// Package routes mounts the HTTP API on a gin engine.
package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"civicsync-be/controllers"
	"civicsync-be/middlewares"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log            *slog.Logger
	AllowedOrigins []string
	UploadsDir     string
	UploadsURL     string

	Auth      *middlewares.AuthMiddleware
	Enforcer  *casbin.Enforcer
	RateLimit *middlewares.IssueRateLimiter

	AuthController      *controllers.AuthController
	IssueController     *controllers.IssueController
	VoteController      *controllers.VoteController
	MediaController     *controllers.MediaController
	AnalyticsController *controllers.AnalyticsController
	MapController       *controllers.MapController
}

// Setup builds the engine with the global middleware chain and every route.
func Setup(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middlewares.Recovery(d.Log),
		middlewares.RequestLogger(d.Log),
		middlewares.SecurityHeaders(),
		cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if d.UploadsDir != "" {
		r.Static(d.UploadsURL, d.UploadsDir)
	}

	api := r.Group("/api")
	AuthRoutes(api, d)
	IssueRoutes(api, d)
	AdminRoutes(api, d)
	VoteRoutes(api, d)
	MediaRoutes(api, d)
	AnalyticsRoutes(api, d)
	MapRoutes(api, d)

	return r
}
