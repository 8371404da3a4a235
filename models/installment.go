package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Installment status constants
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
)

// Fee category constants
const (
	FeeCategoryProLabore    = "pro_labore"
	FeeCategoryFinalSuccess = "final_success_fee"
	FeeCategoryFixed        = "fixed"
	FeeCategoryOther        = "other"
	FeeCategoryIntermediate = "intermediate_fee"
)

// Installment is one scheduled receivable generated from a contract's fee
// declarations. The composite index is the reconciliation key: FeeLine is 0
// for a category's base amount and 1..n for its extras (for intermediate
// fees it is the list index), so two lines of the same category can both
// number their installments from 1 without colliding.
type Installment struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContractID string   `gorm:"type:uuid;not null;index;uniqueIndex:idx_installment_line" json:"contract_id"`
	Contract   Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	Category          string `gorm:"not null;uniqueIndex:idx_installment_line" json:"category"`
	FeeLine           int    `gorm:"not null;default:0;uniqueIndex:idx_installment_line" json:"fee_line"`
	InstallmentNumber int    `gorm:"not null;uniqueIndex:idx_installment_line" json:"installment_number"`
	TotalInstallments int    `gorm:"not null;default:1" json:"total_installments"`

	Amount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Status  string          `gorm:"not null;default:pending;index" json:"status"`
	DueDate time.Time       `gorm:"not null;index" json:"due_date"`
	Clause  *string         `json:"clause,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Installment model
func (Installment) TableName() string {
	return "installments"
}

// IsPaid checks if the installment has been settled
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// IsPending checks if the installment is still due
func (i *Installment) IsPending() bool {
	return i.Status == InstallmentStatusPending
}

// IsValidFeeCategory checks if the category is valid
func IsValidFeeCategory(category string) bool {
	switch category {
	case FeeCategoryProLabore, FeeCategoryFinalSuccess, FeeCategoryFixed,
		FeeCategoryOther, FeeCategoryIntermediate:
		return true
	}
	return false
}
