package models

import (
	"time"

	"gorm.io/gorm"
)

// Production job statuses.
const (
	ProductionStatusOngoing   = "ongoing"
	ProductionStatusCompleted = "completed"
)

// Production is a production job record. The request reference is
// optional: jobs can exist for restocking runs with no backing order.
type Production struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RequestID *uint          `gorm:"index" json:"request_id,omitempty"`
	Request   *Request       `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Cost      float64        `gorm:"not null" json:"cost"`
	StartDate time.Time      `gorm:"not null" json:"start_date"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Status    string         `gorm:"not null;default:'ongoing'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Production model
func (Production) TableName() string {
	return "productions"
}
