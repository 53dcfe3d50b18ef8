package models

import (
	"time"

	"gorm.io/datatypes"
)

// Paper is a research paper ingested from arXiv. Rows are created only by
// the ingestion path and are never deleted; the only mutation after insert
// is the view_count increment on single-paper reads.
type Paper struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ArxivID  string `json:"arxiv_id" gorm:"uniqueIndex;not null"`
	Title    string `json:"title" gorm:"not null"`
	Authors  string `json:"authors" gorm:"type:text"`
	Abstract string `json:"abstract" gorm:"type:text"`

	// Summary is reserved for AI-generated digests; nothing writes it yet.
	Summary    string         `json:"summary,omitempty" gorm:"type:text"`
	Domain     string         `json:"domain" gorm:"index"`
	Difficulty *int           `json:"difficulty,omitempty"`
	Tags       datatypes.JSON `json:"tags"`

	PDFURL        string    `json:"pdf_url"`
	PublishedDate time.Time `json:"published_date"`
	FetchedDate   time.Time `json:"fetched_date" gorm:"index"`
	ViewCount     int       `json:"view_count" gorm:"not null;default:0"`

	// Associations
	Explanations []Explanation `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Bookmarks    []Bookmark    `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}
