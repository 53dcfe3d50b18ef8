// Package server wires the HTTP routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nishmeets/research-digest/internal/config"
	"github.com/nishmeets/research-digest/internal/health"
	"github.com/nishmeets/research-digest/internal/papers"
	"gorm.io/gorm"
)

// NewRouter builds the HTTP router over the constructed services.
func NewRouter(cfg *config.Config, db *gorm.DB, svc *papers.Service) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", Home)
	router.GET("/health", health.Handler(db))

	router.GET("/papers", papers.ListHandler(svc))
	router.GET("/papers/:id", papers.GetHandler(svc))
	router.POST("/papers/fetch-new", papers.FetchNewHandler(svc))

	router.GET("/domains", papers.DomainsHandler(svc))
	router.GET("/stats", papers.StatsHandler(svc))

	return router
}

// Home serves the liveness/info payload at the root path.
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Research Digest API is running",
		"status":  "healthy",
		"endpoints": gin.H{
			"/papers":           "List stored papers",
			"/papers/:id":       "Get one paper by arXiv ID",
			"/papers/fetch-new": "Ingest new papers from arXiv (POST)",
			"/domains":          "Distinct domains with counts",
			"/stats":            "Global record counts",
			"/health":           "Database reachability probe",
		},
	})
}
