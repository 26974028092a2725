package controllers

import (
	"net/http"
	"time"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires middleware and every HTTP endpoint.
func NewRouter(cfg *config.Config, logger *zap.Logger, chat *ChatController, catalog *CatalogController) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware(logger.Named("http")))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/health", chat.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// the static site posts to /chat directly
	router.POST("/chat", chat.Chat)

	api := router.Group("/api")
	{
		api.POST("/chat", chat.Chat)
		api.GET("/countries", catalog.ListCountries)
		api.GET("/countries/:name", catalog.GetCountry)
		api.GET("/plants/search", catalog.SearchPlants)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", logging.HeaderRequestID},
		ExposeHeaders: []string{logging.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
