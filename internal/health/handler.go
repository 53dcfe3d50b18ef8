// Package health exposes the liveness and database reachability probe.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nishmeets/research-digest/internal/database"
	"gorm.io/gorm"
)

// Handler reports service health. Unlike every other route, a database
// failure here is downgraded to a "degraded" payload instead of an error
// response, so load balancers always get an answer.
func Handler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status":   "degraded",
				"database": "unreachable",
				"detail":   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "ok",
		})
	}
}
