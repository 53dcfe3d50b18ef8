package papers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// ListHandler serves GET /papers with domain filtering and skip/limit
// pagination. Limits below 1 are a client error; limits above 50 are
// silently clamped.
func ListHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.Query("domain")

		skip, err := intQuery(c, "skip", 0)
		if err != nil || skip < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "skip must be a non-negative integer"})
			return
		}

		limit, err := intQuery(c, "limit", defaultLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer"})
			return
		}
		if limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Limit must be at least 1"})
			return
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		total, page, err := svc.List(c.Request.Context(), domain, skip, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"total":   total,
			"count":   len(page),
			"skip":    skip,
			"limit":   limit,
			"domain":  domain,
			"papers":  page,
		})
	}
}

// GetHandler serves GET /papers/:id, looking papers up by arXiv identifier.
func GetHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		arxivID := c.Param("id")

		paper, err := svc.GetByArxivID(c.Request.Context(), arxivID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Paper with ID " + arxivID + " not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"paper":   paper,
		})
	}
}

// FetchNewHandler serves POST /papers/fetch-new, running one ingestion
// pass for the requested category. max_results follows the same bounds as
// the list limit.
func FetchNewHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", "cs.AI")

		maxResults, err := intQuery(c, "max_results", defaultLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "max_results must be an integer"})
			return
		}
		if maxResults < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "max_results must be at least 1"})
			return
		}
		if maxResults > maxLimit {
			maxResults = maxLimit
		}

		result, err := svc.FetchNew(c.Request.Context(), category, maxResults)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"category": category,
			"fetched":  result.Fetched,
			"new":      result.New,
			"existing": result.Existing,
		})
	}
}

// DomainsHandler serves GET /domains.
func DomainsHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		domains, err := svc.Domains(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(domains),
			"domains": domains,
		})
	}
}

// StatsHandler serves GET /stats.
func StatsHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats":   stats,
		})
	}
}

func intQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
