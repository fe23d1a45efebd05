package models

import (
	"time"

	"gorm.io/gorm"
)

// Warranty covers a completed request. Created by the final-invoice flow.
type Warranty struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RequestID uint           `gorm:"uniqueIndex;not null" json:"request_id"`
	Request   Request        `gorm:"foreignKey:RequestID" json:"-"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	StartDate time.Time      `gorm:"not null" json:"start_date"`
	EndDate   time.Time      `gorm:"not null" json:"end_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Warranty model
func (Warranty) TableName() string {
	return "warranties"
}
