// Package papers holds the ingestion and query services over the paper
// store, plus their HTTP handlers.
package papers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nishmeets/research-digest/internal/analytics"
	"github.com/nishmeets/research-digest/internal/arxiv"
	"github.com/nishmeets/research-digest/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source is the outbound paper metadata provider.
type Source interface {
	Fetch(ctx context.Context, category string, maxResults int) ([]arxiv.PaperRecord, error)
}

// IngestResult summarizes one ingestion run. Fetched == New + Existing.
type IngestResult struct {
	Fetched  int `json:"fetched"`
	New      int `json:"new"`
	Existing int `json:"existing"`
}

// Service bundles the database handle, the paper source and the analytics
// recorder behind the ingestion and query operations. Handlers receive a
// constructed Service instead of reaching for process-wide state.
type Service struct {
	db        *gorm.DB
	source    Source
	analytics *analytics.Recorder
	logger    *slog.Logger
}

// NewService constructs a Service.
func NewService(db *gorm.DB, source Source, recorder *analytics.Recorder, logger *slog.Logger) *Service {
	return &Service{db: db, source: source, analytics: recorder, logger: logger}
}

// errNoDatabase is returned when the server came up without a database
// connection. Only /health degrades gracefully; every data route fails.
var errNoDatabase = fmt.Errorf("database unavailable")

// FetchNew pulls up to maxResults papers for the category from the source
// and persists the ones not already stored. All inserts share one
// transaction; any failure rolls the whole batch back. Duplicate detection
// rides on the arxiv_id unique index (ON CONFLICT DO NOTHING), so
// concurrent ingestions of overlapping categories cannot produce duplicate
// rows. Existing rows are skipped, never refreshed.
func (s *Service) FetchNew(ctx context.Context, category string, maxResults int) (IngestResult, error) {
	if s.db == nil {
		return IngestResult{}, errNoDatabase
	}

	records, err := s.source.Fetch(ctx, category, maxResults)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetching papers: %w", err)
	}

	result := IngestResult{Fetched: len(records)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, record := range records {
			paper := models.Paper{
				ArxivID:       record.ArxivID,
				Title:         record.Title,
				Authors:       record.Authors,
				Abstract:      record.Summary,
				Domain:        category,
				Tags:          datatypes.JSON([]byte("[]")),
				PDFURL:        record.PDFURL,
				PublishedDate: record.Published,
				FetchedDate:   now,
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "arxiv_id"}},
				DoNothing: true,
			}).Create(&paper)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				result.New++
			} else {
				result.Existing++
			}
		}

		// Keep the cached category aggregate in step with the rows this
		// transaction added.
		if result.New > 0 {
			if err := tx.Model(&models.Category{}).
				Where("code = ?", category).
				UpdateColumn("paper_count", gorm.Expr("paper_count + ?", result.New)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return IngestResult{}, fmt.Errorf("persisting papers: %w", err)
	}

	s.logger.Info("Ingestion run completed",
		"category", category,
		"fetched", result.Fetched,
		"new", result.New,
		"existing", result.Existing,
	)
	s.analytics.Ingest(category, result.Fetched, result.New, result.Existing)

	return result, nil
}

// List returns one page of papers, newest fetches first, optionally
// filtered by domain, along with the total count for that filter.
func (s *Service) List(ctx context.Context, domain string, skip, limit int) (int64, []models.Paper, error) {
	if s.db == nil {
		return 0, nil, errNoDatabase
	}

	query := s.db.WithContext(ctx).Model(&models.Paper{})
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("counting papers: %w", err)
	}

	var page []models.Paper
	if err := query.
		Order("fetched_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&page).Error; err != nil {
		return 0, nil, fmt.Errorf("listing papers: %w", err)
	}

	return total, page, nil
}

// GetByArxivID returns the paper with the given source identifier and
// increments its view counter. The increment is a single atomic UPDATE in
// the same transaction as the read, so concurrent views cannot lose
// counts. Returns gorm.ErrRecordNotFound when no such paper exists.
func (s *Service) GetByArxivID(ctx context.Context, arxivID string) (models.Paper, error) {
	if s.db == nil {
		return models.Paper{}, errNoDatabase
	}

	var paper models.Paper

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Paper{}).
			Where("arxiv_id = ?", arxivID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("arxiv_id = ?", arxivID).First(&paper).Error
	})
	if err != nil {
		return models.Paper{}, err
	}

	s.analytics.PaperView(paper.ID)
	return paper, nil
}

// DomainCount is one row of the Domains aggregation.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// Domains returns the distinct domains present in the store with live
// per-domain counts. Counts are computed on demand rather than read from
// the cached category aggregate.
func (s *Service) Domains(ctx context.Context) ([]DomainCount, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}

	var counts []DomainCount
	err := s.db.WithContext(ctx).
		Model(&models.Paper{}).
		Select("domain, count(*) as count").
		Group("domain").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating domains: %w", err)
	}
	return counts, nil
}

// Stats holds the global record counts.
type Stats struct {
	Papers       int64 `json:"papers"`
	Users        int64 `json:"users"`
	Bookmarks    int64 `json:"bookmarks"`
	Explanations int64 `json:"explanations"`
	Domains      int64 `json:"domains"`
}

// Stats returns total counts across the schema.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.db == nil {
		return Stats{}, errNoDatabase
	}

	var stats Stats
	db := s.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Paper{}, &stats.Papers},
		{&models.User{}, &stats.Users},
		{&models.Bookmark{}, &stats.Bookmarks},
		{&models.Explanation{}, &stats.Explanations},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return Stats{}, fmt.Errorf("counting records: %w", err)
		}
	}

	if err := db.Model(&models.Paper{}).
		Distinct("domain").
		Count(&stats.Domains).Error; err != nil {
		return Stats{}, fmt.Errorf("counting domains: %w", err)
	}

	return stats, nil
}
