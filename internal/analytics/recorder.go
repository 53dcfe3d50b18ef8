// Package analytics appends usage events to the analytics log.
package analytics

import (
	"encoding/json"
	"log/slog"

	"github.com/nishmeets/research-digest/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recorder writes append-only analytics events. Writes are best-effort:
// a failed event insert is logged and never fails the request that
// triggered it.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRecorder creates a Recorder over the given database handle.
func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// PaperView records a single-paper read.
func (r *Recorder) PaperView(paperID uint) {
	r.record(models.AnalyticsEvent{
		EventType: models.EventPaperView,
		PaperID:   &paperID,
	})
}

// Ingest records the outcome of one ingestion run.
func (r *Recorder) Ingest(category string, fetched, newCount, existing int) {
	meta, err := json.Marshal(map[string]interface{}{
		"category": category,
		"fetched":  fetched,
		"new":      newCount,
		"existing": existing,
	})
	if err != nil {
		r.logger.Error("Failed to marshal ingest event metadata", "error", err)
		return
	}
	r.record(models.AnalyticsEvent{
		EventType: models.EventPaperIngest,
		Metadata:  datatypes.JSON(meta),
	})
}

func (r *Recorder) record(event models.AnalyticsEvent) {
	if err := r.db.Create(&event).Error; err != nil {
		r.logger.Error("Failed to record analytics event", "event_type", event.EventType, "error", err)
	}
}
