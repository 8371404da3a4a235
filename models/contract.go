package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract status constants
const (
	ContractStatusAnalysis = "analysis"
	ContractStatusProposal = "proposal"
	ContractStatusActive   = "active"
	ContractStatusRejected = "rejected"
	ContractStatusProbono  = "probono"
)

// AllContractStatuses lists every lifecycle state in funnel order
var AllContractStatuses = []string{
	ContractStatusAnalysis,
	ContractStatusProposal,
	ContractStatusActive,
	ContractStatusRejected,
	ContractStatusProbono,
}

// Contract represents a legal services contract through its full lifecycle,
// from prospect analysis to an active (or rejected/probono) engagement
type Contract struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	DisplayID int            `gorm:"uniqueIndex" json:"display_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Client identification
	ClientName string  `gorm:"not null" json:"client_name"`
	CNPJ       *string `gorm:"size:18" json:"cnpj,omitempty"`

	// Lifecycle state. Exactly one date field is authoritative per status.
	Status        string     `gorm:"not null;default:analysis;index" json:"status"`
	ProspectDate  *time.Time `json:"prospect_date,omitempty"`
	ProposalDate  *time.Time `json:"proposal_date,omitempty"`
	ContractDate  *time.Time `json:"contract_date,omitempty"`
	RejectionDate *time.Time `json:"rejection_date,omitempty"`
	ProbonoDate   *time.Time `json:"probono_date,omitempty"`

	// Responsible partner, optional analyst (analysis/rejected states)
	PartnerID *string  `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	Partner   *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	AnalystID *string  `gorm:"type:uuid;index" json:"analyst_id,omitempty"`
	Analyst   *Partner `gorm:"foreignKey:AnalystID" json:"analyst,omitempty"`

	// Billing identity, mandatory once active
	HonNumber         *string `gorm:"size:50;uniqueIndex" json:"hon_number,omitempty"`
	BillingLocation   *string `gorm:"size:100" json:"billing_location,omitempty"`
	PhysicalSignature bool    `gorm:"not null;default:false" json:"physical_signature"`

	// Fee declarations. Amounts are kept in the locale encoding the form
	// submits ("R$ 1.000,00"); installment counts are "Nx" tokens. Each
	// category carries three order-parallel extras lists which are zipped
	// into FeeExtra records before any indexing (see ZipExtras).
	ProLabore                  string     `json:"pro_labore"`
	ProLaboreInstallments      string     `gorm:"size:10" json:"pro_labore_installments"`
	ProLaboreClause            string     `json:"pro_labore_clause"`
	ProLaboreExtras            StringList `gorm:"type:text" json:"pro_labore_extras"`
	ProLaboreExtraInstallments StringList `gorm:"type:text" json:"pro_labore_extra_installments"`
	ProLaboreExtraClauses      StringList `gorm:"type:text" json:"pro_labore_extra_clauses"`

	FinalSuccessFee                  string     `json:"final_success_fee"`
	FinalSuccessFeeInstallments      string     `gorm:"size:10" json:"final_success_fee_installments"`
	FinalSuccessFeeClause            string     `json:"final_success_fee_clause"`
	FinalSuccessFeeExtras            StringList `gorm:"type:text" json:"final_success_fee_extras"`
	FinalSuccessFeeExtraInstallments StringList `gorm:"type:text" json:"final_success_fee_extra_installments"`
	FinalSuccessFeeExtraClauses      StringList `gorm:"type:text" json:"final_success_fee_extra_clauses"`

	FixedMonthlyFee                  string     `json:"fixed_monthly_fee"`
	FixedMonthlyFeeInstallments      string     `gorm:"size:10" json:"fixed_monthly_fee_installments"`
	FixedMonthlyFeeClause            string     `json:"fixed_monthly_fee_clause"`
	FixedMonthlyFeeExtras            StringList `gorm:"type:text" json:"fixed_monthly_fee_extras"`
	FixedMonthlyFeeExtraInstallments StringList `gorm:"type:text" json:"fixed_monthly_fee_extra_installments"`
	FixedMonthlyFeeExtraClauses      StringList `gorm:"type:text" json:"fixed_monthly_fee_extra_clauses"`

	OtherFees                  string     `json:"other_fees"`
	OtherFeesInstallments      string     `gorm:"size:10" json:"other_fees_installments"`
	OtherFeesClause            string     `json:"other_fees_clause"`
	OtherFeesExtras            StringList `gorm:"type:text" json:"other_fees_extras"`
	OtherFeesExtraInstallments StringList `gorm:"type:text" json:"other_fees_extra_installments"`
	OtherFeesExtraClauses      StringList `gorm:"type:text" json:"other_fees_extra_clauses"`

	// Success-milestone payments. Same parallel-list shape as extras but
	// with no base slot; entries are added and removed directly.
	IntermediateFees            StringList `gorm:"type:text" json:"intermediate_fees"`
	IntermediateFeeInstallments StringList `gorm:"type:text" json:"intermediate_fee_installments"`
	IntermediateFeeClauses      StringList `gorm:"type:text" json:"intermediate_fee_clauses"`

	// Rejection detail (rejected state)
	RejectionReason *string `json:"rejection_reason,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`

	// Immutable capture of the financial terms live at proposal time,
	// written once on the proposal -> active transition. Opaque JSON.
	ProposalSnapshot *string `gorm:"type:text" json:"proposal_snapshot,omitempty"`

	// Relationships
	Processes    []Process     `gorm:"foreignKey:ContractID" json:"processes,omitempty"`
	Installments []Installment `gorm:"foreignKey:ContractID" json:"installments,omitempty"`
	StatusEvents []StatusEvent `gorm:"foreignKey:ContractID" json:"status_events,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Contract model
func (Contract) TableName() string {
	return "contracts"
}

// StatusDate returns the authoritative business date for the given status,
// or nil when that field is not populated. For probono the probono date is
// checked first, then the contract date.
func (c *Contract) StatusDate(status string) *time.Time {
	switch status {
	case ContractStatusAnalysis:
		return c.ProspectDate
	case ContractStatusProposal:
		return c.ProposalDate
	case ContractStatusActive:
		return c.ContractDate
	case ContractStatusRejected:
		return c.RejectionDate
	case ContractStatusProbono:
		if c.ProbonoDate != nil {
			return c.ProbonoDate
		}
		return c.ContractDate
	}
	return nil
}

// EntryDate returns the earliest populated status date, the moment the case
// entered the pipeline. Falls back to the record creation timestamp when no
// status date is set.
func (c *Contract) EntryDate() time.Time {
	var earliest *time.Time
	for _, d := range []*time.Time{c.ProspectDate, c.ProposalDate, c.ContractDate, c.RejectionDate, c.ProbonoDate} {
		if d == nil {
			continue
		}
		if earliest == nil || d.Before(*earliest) {
			earliest = d
		}
	}
	if earliest == nil {
		return c.CreatedAt
	}
	return *earliest
}

// IsActive checks if the contract is an active engagement
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// IsRejected checks if the contract was rejected
func (c *Contract) IsRejected() bool {
	return c.Status == ContractStatusRejected
}

// IsValidContractStatus checks if the status is valid
func IsValidContractStatus(status string) bool {
	for _, s := range AllContractStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// FeeExtra is one banked extra entry after the parallel lists are zipped
type FeeExtra struct {
	Amount       string
	Installments string
	Clause       string
}

// ZipExtras folds the three order-parallel extras lists into a single ordered
// list of records. The lists are indexed identically at the storage boundary;
// a missing installment count or clause at some index yields an empty string
// rather than a misaligned read.
func ZipExtras(amounts, installments, clauses StringList) []FeeExtra {
	extras := make([]FeeExtra, 0, len(amounts))
	for i, amount := range amounts {
		extra := FeeExtra{Amount: amount}
		if i < len(installments) {
			extra.Installments = installments[i]
		}
		if i < len(clauses) {
			extra.Clause = clauses[i]
		}
		extras = append(extras, extra)
	}
	return extras
}
