package models

import "time"

// User represents an application user. No HTTP endpoint creates or
// authenticates users yet; rows exist for bookmark/explanation ownership
// and come from seeding until signup lands.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	FullName     string `json:"full_name"`
	IsPremium    bool   `json:"is_premium" gorm:"not null;default:false"`
	IsActive     bool   `json:"is_active" gorm:"not null;default:true"`

	LastLogin *time.Time `json:"last_login,omitempty"`

	// Associations
	Bookmarks    []Bookmark    `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Explanations []Explanation `json:"-"`
}
