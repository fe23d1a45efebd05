package models

import (
	"time"

	"gorm.io/gorm"
)

// InvoiceStatusAdvance maps an invoice's transaction type to the request
// status the invoice creation advances the request to.
var InvoiceStatusAdvance = map[string]string{
	TransactionTypeDepositDesign:     RequestStatusDesign,
	TransactionTypeDepositProduction: RequestStatusProduction,
	TransactionTypeFinal:             RequestStatusWarranty,
}

// Invoice is the record of a completed payment. At most one invoice may
// exist per (transaction, type) pair; the unique index backs the
// application-level check.
type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Number        string         `gorm:"uniqueIndex;not null" json:"number"`
	TransactionID uint           `gorm:"not null;index:idx_invoices_transaction_type,unique" json:"transaction_id"`
	Transaction   Transaction    `gorm:"foreignKey:TransactionID" json:"transaction"`
	Type          string         `gorm:"not null;index:idx_invoices_transaction_type,unique" json:"type"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	PaymentMethod string         `gorm:"not null;default:'gateway'" json:"payment_method"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
