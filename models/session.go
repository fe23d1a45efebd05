package models

import (
	"time"
)

// Session represents a refresh-token session issued at login.
// The raw token is never stored, only its SHA-256 hash.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// Valid reports whether the session can still be exchanged for an access token.
func (s *Session) Valid() bool {
	return !s.Revoked && time.Now().Before(s.ExpiresAt)
}
