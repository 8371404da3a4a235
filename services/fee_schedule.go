package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"contract_flow_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WarnTolerance is the reconciliation difference, in currency units, above
// which the UI layer renders a rounding warning for a fee line. The engine
// always reports the computed difference; the threshold only gates the
// warning display.
var WarnTolerance = decimal.NewFromFloat(0.10)

// FeeLine is one base-or-extra fee entry after normalization. Line is 0 for
// a category's base amount and 1..n for its extras; for intermediate fees,
// which have no base slot, it is the list index.
type FeeLine struct {
	Category string
	Line     int
	Amount   decimal.Decimal
	Count    int
	Clause   string
}

// LineDiscrepancy reports how far a fee line's scheduled installments drift
// from its declared total. Splitting T into N installments of round(T/N, 2)
// can leave up to 0.01*(N-1) unaccounted; that remainder is deliberately not
// folded into the last installment. The user sees the difference instead.
type LineDiscrepancy struct {
	Category   string          `json:"category"`
	Line       int             `json:"line"`
	Declared   decimal.Decimal `json:"declared"`
	Scheduled  decimal.Decimal `json:"scheduled"`
	Difference decimal.Decimal `json:"difference"`
}

// NeedsWarning reports whether the difference exceeds the display tolerance
func (d LineDiscrepancy) NeedsWarning() bool {
	return d.Difference.Abs().GreaterThan(WarnTolerance)
}

// ParseInstallmentCount parses an "Nx" token into an installment count.
// A missing or malformed token, or a non-positive count, behaves as "1x".
func ParseInstallmentCount(token string) int {
	s := strings.ToLower(strings.TrimSpace(token))
	s = strings.TrimSpace(strings.TrimSuffix(s, "x"))
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// CollectFeeLines flattens a contract's fee declarations, base values plus
// banked extras plus intermediate fees, into an ordered list of fee lines.
// Lines with a zero or unparsable amount are skipped entirely.
func CollectFeeLines(contract *models.Contract) []FeeLine {
	var lines []FeeLine

	add := func(category string, line int, rawAmount, rawCount, clause string) {
		amount := ParseAmount(rawAmount)
		if amount.LessThanOrEqual(decimal.Zero) {
			return
		}
		lines = append(lines, FeeLine{
			Category: category,
			Line:     line,
			Amount:   amount,
			Count:    ParseInstallmentCount(rawCount),
			Clause:   strings.TrimSpace(clause),
		})
	}

	addCategory := func(category, base, baseCount, baseClause string, amounts, counts, clauses models.StringList) {
		add(category, 0, base, baseCount, baseClause)
		for i, extra := range models.ZipExtras(amounts, counts, clauses) {
			add(category, i+1, extra.Amount, extra.Installments, extra.Clause)
		}
	}

	addCategory(models.FeeCategoryProLabore,
		contract.ProLabore, contract.ProLaboreInstallments, contract.ProLaboreClause,
		contract.ProLaboreExtras, contract.ProLaboreExtraInstallments, contract.ProLaboreExtraClauses)
	addCategory(models.FeeCategoryFinalSuccess,
		contract.FinalSuccessFee, contract.FinalSuccessFeeInstallments, contract.FinalSuccessFeeClause,
		contract.FinalSuccessFeeExtras, contract.FinalSuccessFeeExtraInstallments, contract.FinalSuccessFeeExtraClauses)
	addCategory(models.FeeCategoryFixed,
		contract.FixedMonthlyFee, contract.FixedMonthlyFeeInstallments, contract.FixedMonthlyFeeClause,
		contract.FixedMonthlyFeeExtras, contract.FixedMonthlyFeeExtraInstallments, contract.FixedMonthlyFeeExtraClauses)
	addCategory(models.FeeCategoryOther,
		contract.OtherFees, contract.OtherFeesInstallments, contract.OtherFeesClause,
		contract.OtherFeesExtras, contract.OtherFeesExtraInstallments, contract.OtherFeesExtraClauses)

	for i, entry := range models.ZipExtras(contract.IntermediateFees, contract.IntermediateFeeInstallments, contract.IntermediateFeeClauses) {
		add(models.FeeCategoryIntermediate, i, entry.Amount, entry.Installments, entry.Clause)
	}

	return lines
}

// BuildSchedule expands a contract's fee lines into installment rows. A line
// of total T over N installments yields N rows of round(T/N, 2) due one
// calendar month apart, the first one month after the generation time.
func BuildSchedule(contract *models.Contract, now time.Time) ([]models.Installment, []LineDiscrepancy) {
	lines := CollectFeeLines(contract)

	var installments []models.Installment
	discrepancies := make([]LineDiscrepancy, 0, len(lines))

	for _, line := range lines {
		count := decimal.NewFromInt(int64(line.Count))
		per := line.Amount.Div(count).Round(2)

		var clause *string
		if line.Clause != "" {
			c := line.Clause
			clause = &c
		}

		for n := 1; n <= line.Count; n++ {
			installments = append(installments, models.Installment{
				ContractID:        contract.ID,
				Category:          line.Category,
				FeeLine:           line.Line,
				InstallmentNumber: n,
				TotalInstallments: line.Count,
				Amount:            per,
				Status:            models.InstallmentStatusPending,
				DueDate:           now.AddDate(0, n, 0),
				Clause:            clause,
			})
		}

		scheduled := per.Mul(count)
		discrepancies = append(discrepancies, LineDiscrepancy{
			Category:   line.Category,
			Line:       line.Line,
			Declared:   line.Amount,
			Scheduled:  scheduled,
			Difference: scheduled.Sub(line.Amount),
		})
	}

	return installments, discrepancies
}

type installmentKey struct {
	Category string
	FeeLine  int
	Number   int
}

// ReconcileInstallments replaces a contract's pending installments with the
// schedule derived from its current fee declarations, inside one
// transaction. Rows are matched by (category, fee_line, installment_number):
// surviving pending rows are updated in place, missing ones created, stale
// pending rows deleted. Paid rows are never updated or deleted, and because
// the whole replace commits atomically a reader never observes a contract
// stripped of its schedule mid-save.
func ReconcileInstallments(db *gorm.DB, contract *models.Contract, now time.Time) ([]LineDiscrepancy, error) {
	target, discrepancies := BuildSchedule(contract, now)

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Installment
		if err := tx.Where("contract_id = ?", contract.ID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load installments: %w", err)
		}

		current := make(map[installmentKey]models.Installment, len(existing))
		for _, row := range existing {
			current[installmentKey{row.Category, row.FeeLine, row.InstallmentNumber}] = row
		}

		wanted := make(map[installmentKey]bool, len(target))
		for _, row := range target {
			key := installmentKey{row.Category, row.FeeLine, row.InstallmentNumber}
			wanted[key] = true

			found, ok := current[key]
			if !ok {
				created := row
				if err := tx.Create(&created).Error; err != nil {
					return fmt.Errorf("failed to create installment: %w", err)
				}
				continue
			}
			if found.IsPaid() {
				// Settled money is immutable
				continue
			}
			updates := map[string]interface{}{
				"amount":             row.Amount,
				"due_date":           row.DueDate,
				"total_installments": row.TotalInstallments,
				"clause":             row.Clause,
			}
			if err := tx.Model(&models.Installment{}).Where("id = ?", found.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update installment: %w", err)
			}
		}

		for key, row := range current {
			if wanted[key] || row.IsPaid() {
				continue
			}
			if err := tx.Unscoped().Delete(&models.Installment{}, "id = ?", row.ID).Error; err != nil {
				return fmt.Errorf("failed to delete stale installment: %w", err)
			}
		}

		return nil
	})

	return discrepancies, err
}
