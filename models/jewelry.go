package models

import (
	"time"

	"gorm.io/gorm"
)

// Jewelry represents a catalog item offered by the workshop
type Jewelry struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Category    string           `gorm:"not null;index" json:"category"` // ring, necklace, bracelet, earrings, ...
	Description string           `gorm:"type:text" json:"description"`
	Price       float64          `gorm:"not null" json:"price"`
	OnSale      bool             `gorm:"not null;default:true" json:"on_sale"`
	Images      []JewelryImage   `gorm:"foreignKey:JewelryID" json:"images,omitempty"`
	Materials   []JewelryMaterial `gorm:"foreignKey:JewelryID" json:"materials,omitempty"`
	Gemstones   []JewelryGemstone `gorm:"foreignKey:JewelryID" json:"gemstones,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Jewelry model
func (Jewelry) TableName() string {
	return "jewelry"
}

// JewelryImage stores the object-storage key of one gallery image.
// Only the storage key and public identifier are persisted; URLs are
// presigned on read.
type JewelryImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JewelryID uint      `gorm:"not null;index" json:"jewelry_id"`
	ImageKey  string    `gorm:"not null" json:"image_key"`
	PublicID  string    `gorm:"not null" json:"public_id"`
	ImageURL  string    `gorm:"-" json:"image_url,omitempty"` // computed, presigned
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the JewelryImage model
func (JewelryImage) TableName() string {
	return "jewelry_images"
}

// JewelryMaterial links a jewelry item to a material with its weight in grams.
type JewelryMaterial struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	JewelryID  uint     `gorm:"not null;index" json:"jewelry_id"`
	MaterialID uint     `gorm:"not null;index" json:"material_id"`
	Material   Material `gorm:"foreignKey:MaterialID" json:"material"`
	Weight     float64  `gorm:"not null" json:"weight"`
}

// TableName specifies the table name for the JewelryMaterial model
func (JewelryMaterial) TableName() string {
	return "jewelry_materials"
}

// JewelryGemstone links a jewelry item to a gemstone.
type JewelryGemstone struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	JewelryID  uint     `gorm:"not null;index" json:"jewelry_id"`
	GemstoneID uint     `gorm:"not null;index" json:"gemstone_id"`
	Gemstone   Gemstone `gorm:"foreignKey:GemstoneID" json:"gemstone"`
}

// TableName specifies the table name for the JewelryGemstone model
func (JewelryGemstone) TableName() string {
	return "jewelry_gemstones"
}
