package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/osmane/billiards-sub001/internal/api/handlers"
	"github.com/osmane/billiards-sub001/internal/config"
	"github.com/osmane/billiards-sub001/internal/middleware"
	"github.com/osmane/billiards-sub001/internal/store"
	"github.com/osmane/billiards-sub001/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *goredis.Client, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	shots := store.NewShotStore(db)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.POST("/auth/token", handlers.IssueToken(cfg))

		// Simulation endpoints burn CPU; they require a token when auth
		// is configured.
		shot := v1.Group("/shot")
		if cfg.APIKeyHash != "" {
			shot.Use(middleware.RequireToken(cfg))
		}
		{
			shot.POST("/simulate", handlers.SimulateShot(shots, rdb, cfg))
			shot.POST("/predict", handlers.PredictShot())
			shot.POST("/best", handlers.BestShot(rdb, cfg))
		}

		// Shot history (read-only)
		v1.GET("/shots", handlers.ListShots(shots))
		v1.GET("/shots/:id", handlers.GetShot(shots))

		// Best-shot worker protocol
		v1.GET("/worker/ws", ws.HandleWorker(cfg))
	}
}
