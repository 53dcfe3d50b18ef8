package models

import "time"

// Explanation modes
const (
	ExplanationModeSimple    = "simple"
	ExplanationModeTechnical = "technical"
)

// Explanation is a stored natural-language description of a paper.
// Generation is handled by an external service; this table only records
// the results.
type Explanation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	PaperID uint   `json:"paper_id" gorm:"not null;index"`
	UserID  *uint  `json:"user_id,omitempty"` // who requested it, when known
	Mode    string `json:"mode" gorm:"not null"`
	Content string `json:"content" gorm:"type:text;not null"`

	Paper Paper `json:"-"`
}
