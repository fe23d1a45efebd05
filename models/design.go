package models

import (
	"time"

	"gorm.io/gorm"
)

// Design statuses.
const (
	DesignStatusDraft    = "draft"
	DesignStatusApproved = "approved"
	DesignStatusRejected = "rejected"
)

// Design is a designer-authored sketch or render for a request
type Design struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequestID   uint           `gorm:"not null;index" json:"request_id"`
	Request     Request        `gorm:"foreignKey:RequestID" json:"-"`
	DesignerID  uint           `gorm:"not null;index" json:"designer_id"`
	Designer    User           `gorm:"foreignKey:DesignerID" json:"designer"`
	ImageKey    string         `json:"image_key"`
	ImageURL    string         `gorm:"-" json:"image_url,omitempty"` // computed, presigned
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"not null;default:'draft'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Design model
func (Design) TableName() string {
	return "designs"
}
