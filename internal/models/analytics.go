package models

import (
	"time"

	"gorm.io/datatypes"
)

// Analytics event types
const (
	EventPaperView   = "view"
	EventPaperIngest = "ingest"
)

// AnalyticsEvent is an append-only usage log entry. Events are never
// updated or deleted.
type AnalyticsEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	EventType string         `json:"event_type" gorm:"index;not null"`
	UserID    *uint          `json:"user_id,omitempty"`
	PaperID   *uint          `json:"paper_id,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

// TableName keeps the historical table name from the first schema revision.
func (AnalyticsEvent) TableName() string {
	return "analytics"
}
