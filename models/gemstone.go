package models

import (
	"time"

	"gorm.io/gorm"
)

// Gemstone represents a stone available for custom jewelry
type Gemstone struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Carat     float64        `gorm:"not null" json:"carat"`
	Cut       string         `json:"cut"`     // round, princess, emerald, ...
	Clarity   string         `json:"clarity"` // FL, IF, VVS1, ...
	Color     string         `json:"color"`
	Price     float64        `gorm:"not null" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Gemstone model
func (Gemstone) TableName() string {
	return "gemstones"
}
