package models

import (
	"time"

	"gorm.io/gorm"
)

// Quote statuses. A quote's status is independent of the owning
// request's lifecycle status.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusApproved = "approved"
	QuoteStatusRejected = "rejected"
)

// Quote is a staff-authored price/content proposal for a request
type Quote struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RequestID uint           `gorm:"not null;index" json:"request_id"`
	Request   Request        `gorm:"foreignKey:RequestID" json:"-"`
	StaffID   uint           `gorm:"not null;index" json:"staff_id"`
	Staff     User           `gorm:"foreignKey:StaffID" json:"staff"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Amount    float64        `gorm:"not null" json:"amount"`
	Status    string         `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}
