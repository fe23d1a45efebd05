package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog is a marketing/announcement post shown on the storefront
type Blog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	ImageKey  string         `json:"image_key"`
	ImageURL  string         `gorm:"-" json:"image_url,omitempty"` // computed, presigned
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Blog model
func (Blog) TableName() string {
	return "blogs"
}
