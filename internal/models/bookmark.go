package models

import "time"

// Bookmark links a user to a saved paper with an optional folder label
// and free-text note.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID  uint   `json:"user_id" gorm:"not null;index"`
	PaperID uint   `json:"paper_id" gorm:"not null;index"`
	Folder  string `json:"folder" gorm:"not null;default:'default'"`
	Notes   string `json:"notes,omitempty" gorm:"type:text"`

	User  User  `json:"-"`
	Paper Paper `json:"-"`
}
