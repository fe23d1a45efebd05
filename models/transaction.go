package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types, one per payable workflow stage.
const (
	TransactionTypeDepositDesign     = "deposit_design"
	TransactionTypeDepositProduction = "deposit_production"
	TransactionTypeFinal             = "final"
)

// TransactionPercentages maps a transaction type to the share of the
// request's quote amount it charges.
var TransactionPercentages = map[string]float64{
	TransactionTypeDepositDesign:     0.2,
	TransactionTypeDepositProduction: 0.3,
	TransactionTypeFinal:             0.5,
}

// TransactionAllowedStatuses maps a transaction type to the request
// statuses it may be created from.
var TransactionAllowedStatuses = map[string][]string{
	TransactionTypeDepositDesign:     {RequestStatusDeposit, RequestStatusDesign},
	TransactionTypeDepositProduction: {RequestStatusDesign, RequestStatusProduction},
	TransactionTypeFinal:             {RequestStatusProduction, RequestStatusPayment},
}

// Transaction is a payment event against a request, typed by workflow stage
type Transaction struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	RequestID        uint           `gorm:"not null;index:idx_transactions_request_type,unique" json:"request_id"`
	Request          Request        `gorm:"foreignKey:RequestID" json:"-"`
	Type             string         `gorm:"not null;index:idx_transactions_request_type,unique" json:"type"`
	AmountPaid       float64        `gorm:"not null" json:"amount_paid"`
	Method           string         `gorm:"not null;default:'gateway'" json:"method"`
	PaymentReference string         `gorm:"index" json:"payment_reference"`
	Paid             bool           `gorm:"not null;default:false" json:"paid"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
