package models

import (
	"time"

	"gorm.io/gorm"
)

// Request lifecycle statuses.
const (
	RequestStatusPending       = "pending"
	RequestStatusQuote         = "quote"
	RequestStatusRejectedQuote = "rejected_quote"
	RequestStatusDeposit       = "deposit"
	RequestStatusDesign        = "design"
	RequestStatusProduction    = "production"
	RequestStatusPayment       = "payment"
	RequestStatusWarranty      = "warranty"
	RequestStatusAccepted      = "accepted"
	RequestStatusCompleted     = "completed"
	RequestStatusCancelled     = "cancelled"
)

// requestTransitions is the allow-list of staff-driven status edges.
// Invoice creation drives the deposit -> design -> production -> warranty
// edges separately; see the invoice controller.
var requestTransitions = map[string][]string{
	RequestStatusPending:       {RequestStatusAccepted, RequestStatusQuote, RequestStatusCancelled},
	RequestStatusAccepted:      {RequestStatusQuote, RequestStatusCancelled},
	RequestStatusQuote:         {RequestStatusDeposit, RequestStatusRejectedQuote, RequestStatusCancelled},
	RequestStatusRejectedQuote: {RequestStatusQuote, RequestStatusCancelled},
	RequestStatusDeposit:       {RequestStatusDesign},
	RequestStatusDesign:        {RequestStatusProduction},
	RequestStatusProduction:    {RequestStatusPayment},
	RequestStatusPayment:       {RequestStatusWarranty},
	RequestStatusWarranty:      {RequestStatusCompleted},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CancellableStatuses are the early states a customer may cancel from.
var CancellableStatuses = []string{RequestStatusPending, RequestStatusAccepted, RequestStatusQuote, RequestStatusRejectedQuote}

// Request identifies a customer order moving through the jewelry workflow.
// Requests are never hard-deleted.
type Request struct {
	ID                  uint               `gorm:"primaryKey" json:"id"`
	UserID              uint               `gorm:"not null;index" json:"user_id"`
	User                User               `gorm:"foreignKey:UserID" json:"user"`
	JewelryID           *uint              `gorm:"index" json:"jewelry_id,omitempty"`
	Jewelry             *Jewelry           `gorm:"foreignKey:JewelryID" json:"jewelry,omitempty"`
	Description         string             `gorm:"type:text;not null" json:"description"`
	RequestStatus       string             `gorm:"not null;default:'pending';index" json:"request_status"`
	QuoteContent        *string            `gorm:"type:text" json:"quote_content,omitempty"`
	QuoteAmount         *float64           `json:"quote_amount,omitempty"`
	ProductionStartDate *time.Time         `json:"production_start_date,omitempty"`
	ProductionEndDate   *time.Time         `json:"production_end_date,omitempty"`
	ProductionCost      *float64           `json:"production_cost,omitempty"`
	WarrantyContent     *string            `gorm:"type:text" json:"warranty_content,omitempty"`
	WarrantyStartDate   *time.Time         `json:"warranty_start_date,omitempty"`
	WarrantyEndDate     *time.Time         `json:"warranty_end_date,omitempty"`
	StatusHistory       []RequestStatusLog `gorm:"foreignKey:RequestID" json:"status_history,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Request model
func (Request) TableName() string {
	return "requests"
}

// RequestStatusLog records the first time a request reached a given status.
type RequestStatusLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index:idx_status_log_request_status,unique" json:"request_id"`
	Status    string    `gorm:"not null;index:idx_status_log_request_status,unique" json:"status"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// TableName specifies the table name for the RequestStatusLog model
func (RequestStatusLog) TableName() string {
	return "request_status_logs"
}
