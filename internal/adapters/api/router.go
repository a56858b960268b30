package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/phishplay/phishplay-backend/internal/observability"
	"go.uber.org/zap"
)

// RouterOptions controls the optional parts of the router
type RouterOptions struct {
	CORSOrigins    []string
	MetricsEnabled bool
}

// SetupRouter initializes and returns the gin router with all routes configured
func SetupRouter(h *Handler, metrics *observability.Metrics, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/ping", h.Ping)

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/next_email/:user_id", h.NextEmail)
		api.GET("/progress/:user_id", h.Progress)
		api.POST("/event", h.LogEvent)
		api.POST("/score_text", h.ScoreText)
	}

	return router
}
