package models

import (
	"time"

	"gorm.io/gorm"
)

// Material represents a precious metal or alloy used in production
type Material struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null" json:"name"`
	UnitPrice float64         `gorm:"not null" json:"unit_price"` // price per gram
	Prices    []MaterialPrice `gorm:"foreignKey:MaterialID" json:"prices,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// MaterialPrice records one historical unit price for a material.
// A new row is appended on every price update.
type MaterialPrice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MaterialID uint      `gorm:"not null;index" json:"material_id"`
	UnitPrice  float64   `gorm:"not null" json:"unit_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the MaterialPrice model
func (MaterialPrice) TableName() string {
	return "material_prices"
}
