package services

import (
	"encoding/json"
	"fmt"
	"time"

	"contract_flow_app_go/models"

	"gorm.io/gorm"
)

// ProposalSnapshot is the immutable copy of the financial terms that were
// live while a contract sat in proposal. It is written exactly once, on the
// proposal -> active transition, before the new terms are persisted.
type ProposalSnapshot struct {
	ProLabore             string   `json:"pro_labore"`
	ProLaboreExtras       []string `json:"pro_labore_extras"`
	FinalSuccessFee       string   `json:"final_success_fee"`
	FinalSuccessFeeExtras []string `json:"final_success_fee_extras"`
	FixedMonthlyFee       string   `json:"fixed_monthly_fee"`
	FixedMonthlyFeeExtras []string `json:"fixed_monthly_fee_extras"`
	OtherFees             string   `json:"other_fees"`
	OtherFeesExtras       []string `json:"other_fees_extras"`

	ProposalDate *time.Time `json:"proposal_date,omitempty"`
	CapturedAt   time.Time  `json:"captured_at"`
}

// CaptureProposalSnapshot freezes the financial terms of an existing
// contract record when, and only when, its in-memory status is proposal and
// the save is moving it to active. The capture is stored as a single opaque
// JSON field on the contract; no other field is touched. Returns true when a
// snapshot was written. Repeated saves of an already-active contract never
// re-trigger the capture, and an existing snapshot is never overwritten.
func CaptureProposalSnapshot(db *gorm.DB, existing *models.Contract, newStatus string) (bool, error) {
	if existing == nil {
		return false, nil
	}
	if existing.Status != models.ContractStatusProposal || newStatus != models.ContractStatusActive {
		return false, nil
	}
	if existing.ProposalSnapshot != nil && *existing.ProposalSnapshot != "" {
		return false, nil
	}

	snapshot := ProposalSnapshot{
		ProLabore:             existing.ProLabore,
		ProLaboreExtras:       existing.ProLaboreExtras,
		FinalSuccessFee:       existing.FinalSuccessFee,
		FinalSuccessFeeExtras: existing.FinalSuccessFeeExtras,
		FixedMonthlyFee:       existing.FixedMonthlyFee,
		FixedMonthlyFeeExtras: existing.FixedMonthlyFeeExtras,
		OtherFees:             existing.OtherFees,
		OtherFeesExtras:       existing.OtherFeesExtras,
		ProposalDate:          existing.ProposalDate,
		CapturedAt:            time.Now(),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to encode proposal snapshot: %w", err)
	}
	encoded := string(raw)
	existing.ProposalSnapshot = &encoded

	if db != nil {
		if err := db.Model(&models.Contract{}).Where("id = ?", existing.ID).
			Update("proposal_snapshot", encoded).Error; err != nil {
			return false, fmt.Errorf("failed to persist proposal snapshot: %w", err)
		}
	}
	return true, nil
}

// DecodeProposalSnapshot unpacks the opaque snapshot field
func DecodeProposalSnapshot(contract *models.Contract) (*ProposalSnapshot, error) {
	if contract.ProposalSnapshot == nil || *contract.ProposalSnapshot == "" {
		return nil, nil
	}
	var snapshot ProposalSnapshot
	if err := json.Unmarshal([]byte(*contract.ProposalSnapshot), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode proposal snapshot: %w", err)
	}
	return &snapshot, nil
}
