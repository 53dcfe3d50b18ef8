package models

import "time"

// Category is the reference table for arXiv subject classifications.
// PaperCount is a cached aggregate maintained by the ingestion transaction;
// it only covers rows ingested through this service.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code        string `json:"code" gorm:"uniqueIndex;not null"` // e.g. "cs.AI"
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon"`
	PaperCount  int    `json:"paper_count" gorm:"not null;default:0"`
}
