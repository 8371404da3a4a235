package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"contract_flow_app_go/models"

	"gorm.io/gorm"
)

// ValidateContract enforces the per-status mandatory fields. This gate runs
// before the engine: schedule building and snapshotting assume a contract
// that already passed it.
func ValidateContract(contract *models.Contract) error {
	if strings.TrimSpace(contract.ClientName) == "" {
		return errors.New("client_name is required")
	}
	if !models.IsValidContractStatus(contract.Status) {
		return fmt.Errorf("invalid contract status %q", contract.Status)
	}

	switch contract.Status {
	case models.ContractStatusAnalysis:
		if contract.ProspectDate == nil {
			return errors.New("prospect_date is required while in analysis")
		}
	case models.ContractStatusProposal:
		if contract.ProposalDate == nil {
			return errors.New("proposal_date is required while in proposal")
		}
	case models.ContractStatusActive:
		if contract.ContractDate == nil {
			return errors.New("contract_date is required for an active contract")
		}
		if contract.HonNumber == nil || strings.TrimSpace(*contract.HonNumber) == "" {
			return errors.New("hon_number is required for an active contract")
		}
		if contract.BillingLocation == nil || strings.TrimSpace(*contract.BillingLocation) == "" {
			return errors.New("billing_location is required for an active contract")
		}
		if !contract.PhysicalSignature {
			return errors.New("physical_signature must be confirmed for an active contract")
		}
	case models.ContractStatusRejected:
		if contract.RejectionDate == nil {
			return errors.New("rejection_date is required for a rejected contract")
		}
	case models.ContractStatusProbono:
		if contract.ProbonoDate == nil && contract.ContractDate == nil {
			return errors.New("probono_date (or contract_date) is required for a probono contract")
		}
	}
	return nil
}

// NextDisplayID returns the next sequential display id
func NextDisplayID(db *gorm.DB) (int, error) {
	var current int
	err := db.Model(&models.Contract{}).Select("COALESCE(MAX(display_id), 0)").Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query max display id: %w", err)
	}
	return current + 1, nil
}

// SaveContract persists a contract and runs the engine triggers that hang
// off a save, in order and in one transaction:
//
//  1. the proposal -> active transition freezes the proposal-time terms
//     before the new values are written
//  2. the contract row is saved (with a fresh display id on create)
//  3. a status event is recorded when the lifecycle state changed
//  4. an active contract gets its pending installments reconciled against
//     the saved fee declarations
//
// previous is the record as loaded before this save, nil on create. The
// returned discrepancies carry the per-line rounding differences for the UI
// warning; the slice is nil when no schedule was generated.
func SaveContract(db *gorm.DB, contract *models.Contract, previous *models.Contract, now time.Time) ([]LineDiscrepancy, error) {
	if err := ValidateContract(contract); err != nil {
		return nil, err
	}

	previousStatus := ""
	if previous != nil {
		previousStatus = previous.Status
	}

	var discrepancies []LineDiscrepancy
	err := db.Transaction(func(tx *gorm.DB) error {
		if previous != nil {
			if _, err := CaptureProposalSnapshot(tx, previous, contract.Status); err != nil {
				return err
			}
			// Carry the (possibly just-written) snapshot so the full-row
			// save below cannot clear it
			if contract.ProposalSnapshot == nil {
				contract.ProposalSnapshot = previous.ProposalSnapshot
			}
		}

		if contract.DisplayID == 0 {
			displayID, err := NextDisplayID(tx)
			if err != nil {
				return err
			}
			contract.DisplayID = displayID
		}

		if err := tx.Save(contract).Error; err != nil {
			return fmt.Errorf("failed to save contract: %w", err)
		}

		if previousStatus != contract.Status {
			event := models.StatusEvent{
				ContractID:     contract.ID,
				PreviousStatus: previousStatus,
				NewStatus:      contract.Status,
				ChangedAt:      now,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to record status event: %w", err)
			}
		}

		if contract.IsActive() {
			result, err := ReconcileInstallments(tx, contract, now)
			if err != nil {
				return err
			}
			discrepancies = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return discrepancies, nil
}

// MarkInstallmentPaid settles a single installment. Paid rows survive every
// subsequent schedule regeneration.
func MarkInstallmentPaid(db *gorm.DB, installmentID string) error {
	result := db.Model(&models.Installment{}).
		Where("id = ? AND status = ?", installmentID, models.InstallmentStatusPending).
		Update("status", models.InstallmentStatusPaid)
	if result.Error != nil {
		return fmt.Errorf("failed to mark installment paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
