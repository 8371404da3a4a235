package services

import (
	"testing"
	"time"

	"contract_flow_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(
		&models.Partner{},
		&models.Contract{},
		&models.Process{},
		&models.Installment{},
		&models.StatusEvent{},
	)
	assert.NoError(t, err)
	return db
}

func stringPtr(s string) *string {
	return &s
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func activeContract() *models.Contract {
	return &models.Contract{
		ClientName:        "Acme Ltda",
		Status:            models.ContractStatusActive,
		ContractDate:      datePtr(2025, time.June, 1),
		HonNumber:         stringPtr("HON-0001"),
		BillingLocation:   stringPtr("São Paulo"),
		PhysicalSignature: true,
	}
}

func TestParseInstallmentCount(t *testing.T) {
	cases := map[string]int{
		"3x":  3,
		"12x": 12,
		"3X":  3,
		" 4x": 4,
		"1x":  1,
		"":    1,
		"x":   1,
		"0x":  1,
		"-2x": 1,
		"abc": 1,
	}
	for token, expected := range cases {
		assert.Equal(t, expected, ParseInstallmentCount(token), "token %q", token)
	}
}

func TestBuildScheduleSplitsEvenly(t *testing.T) {
	// R$ 1.000,00 over 3x: three installments of 333.33 and a reported
	// difference of one cent, below the warning tolerance
	contract := activeContract()
	contract.ProLabore = "R$ 1.000,00"
	contract.ProLaboreInstallments = "3x"
	contract.ProLaboreClause = "2.1"

	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	installments, discrepancies := BuildSchedule(contract, now)

	assert.Len(t, installments, 3)
	for i, row := range installments {
		assert.Equal(t, models.FeeCategoryProLabore, row.Category)
		assert.Equal(t, 0, row.FeeLine)
		assert.Equal(t, i+1, row.InstallmentNumber)
		assert.Equal(t, 3, row.TotalInstallments)
		assert.True(t, row.Amount.Equal(decimal.NewFromFloat(333.33)))
		assert.Equal(t, models.InstallmentStatusPending, row.Status)
		assert.Equal(t, now.AddDate(0, i+1, 0), row.DueDate)
		assert.Equal(t, "2.1", *row.Clause)
	}

	assert.Len(t, discrepancies, 1)
	d := discrepancies[0]
	assert.True(t, d.Declared.Equal(decimal.NewFromInt(1000)))
	assert.True(t, d.Scheduled.Equal(decimal.NewFromFloat(999.99)))
	assert.True(t, d.Difference.Equal(decimal.NewFromFloat(-0.01)))
	assert.True(t, d.Difference.Abs().LessThanOrEqual(decimal.NewFromFloat(0.02)))
	assert.False(t, d.NeedsWarning())
}

func TestBuildScheduleSumProperty(t *testing.T) {
	// For any split, the drift is bounded by 0.01 * (N-1)
	contract := activeContract()
	contract.FixedMonthlyFee = "R$ 100,00"
	contract.FixedMonthlyFeeInstallments = "7x"

	installments, discrepancies := BuildSchedule(contract, time.Now())
	assert.Len(t, installments, 7)

	sum := decimal.Zero
	for _, row := range installments {
		sum = sum.Add(row.Amount)
	}
	assert.True(t, sum.Sub(decimal.NewFromInt(100)).Equal(discrepancies[0].Difference))
	bound := decimal.NewFromFloat(0.01).Mul(decimal.NewFromInt(6))
	assert.True(t, discrepancies[0].Difference.Abs().LessThanOrEqual(bound))
}

func TestBuildScheduleReportsWarningAboveTolerance(t *testing.T) {
	// 100 / 32 rounds to 3.13; 32 * 3.13 = 100.16, sixteen cents off
	contract := activeContract()
	contract.OtherFees = "R$ 100,00"
	contract.OtherFeesInstallments = "32x"

	_, discrepancies := BuildSchedule(contract, time.Now())
	assert.Len(t, discrepancies, 1)
	assert.True(t, discrepancies[0].Difference.Equal(decimal.NewFromFloat(0.16)))
	assert.True(t, discrepancies[0].NeedsWarning())
}

func TestBuildScheduleSkipsZeroAndMalformedLines(t *testing.T) {
	contract := activeContract()
	contract.ProLabore = "R$ 0,00"
	contract.FinalSuccessFee = "not a number"
	contract.FixedMonthlyFee = ""

	installments, discrepancies := BuildSchedule(contract, time.Now())
	assert.Empty(t, installments)
	assert.Empty(t, discrepancies)
}

func TestBuildScheduleDefaultsToSingleInstallment(t *testing.T) {
	contract := activeContract()
	contract.ProLabore = "R$ 500,00"
	contract.ProLaboreInstallments = "" // behaves as 1x

	installments, _ := BuildSchedule(contract, time.Now())
	assert.Len(t, installments, 1)
	assert.True(t, installments[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, installments[0].TotalInstallments)
}

func TestCollectFeeLinesWithExtrasAndIntermediates(t *testing.T) {
	contract := activeContract()
	contract.ProLabore = "R$ 1.000,00"
	contract.ProLaboreInstallments = "2x"
	contract.ProLaboreExtras = models.StringList{"R$ 300,00", "R$ 200,00"}
	contract.ProLaboreExtraInstallments = models.StringList{"3x", ""}
	contract.ProLaboreExtraClauses = models.StringList{"4.2", "4.3"}
	contract.IntermediateFees = models.StringList{"R$ 5.000,00"}
	contract.IntermediateFeeInstallments = models.StringList{"2x"}
	contract.IntermediateFeeClauses = models.StringList{"7.1"}

	lines := CollectFeeLines(contract)
	assert.Len(t, lines, 4)

	assert.Equal(t, 0, lines[0].Line)
	assert.Equal(t, 2, lines[0].Count)

	assert.Equal(t, models.FeeCategoryProLabore, lines[1].Category)
	assert.Equal(t, 1, lines[1].Line)
	assert.Equal(t, 3, lines[1].Count)
	assert.Equal(t, "4.2", lines[1].Clause)

	assert.Equal(t, 2, lines[2].Line)
	assert.Equal(t, 1, lines[2].Count)

	assert.Equal(t, models.FeeCategoryIntermediate, lines[3].Category)
	assert.Equal(t, 0, lines[3].Line)
	assert.True(t, lines[3].Amount.Equal(decimal.NewFromInt(5000)))
}

func TestCollectFeeLinesSkipsZeroExtras(t *testing.T) {
	contract := activeContract()
	contract.ProLaboreExtras = models.StringList{"", "R$ 100,00", "0,00"}

	lines := CollectFeeLines(contract)
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Line)
}

func TestReconcileInstallmentsPreservesPaidRows(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	contract := activeContract()
	contract.ProLabore = "R$ 300,00"
	contract.ProLaboreInstallments = "3x"
	assert.NoError(t, db.Create(contract).Error)

	_, err := ReconcileInstallments(db, contract, now)
	assert.NoError(t, err)

	var rows []models.Installment
	assert.NoError(t, db.Order("installment_number ASC").Find(&rows).Error)
	assert.Len(t, rows, 3)

	// Settle the last installment, then reshape the line to 2x of 100
	assert.NoError(t, db.Model(&rows[2]).Update("status", models.InstallmentStatusPaid).Error)
	contract.ProLabore = "R$ 200,00"
	contract.ProLaboreInstallments = "2x"

	_, err = ReconcileInstallments(db, contract, now.AddDate(0, 0, 1))
	assert.NoError(t, err)

	assert.NoError(t, db.Order("installment_number ASC").Find(&rows).Error)
	assert.Len(t, rows, 3)

	assert.Equal(t, models.InstallmentStatusPending, rows[0].Status)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.InstallmentStatusPending, rows[1].Status)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(100)))

	// The paid third installment survives untouched
	assert.Equal(t, models.InstallmentStatusPaid, rows[2].Status)
	assert.True(t, rows[2].Amount.Equal(decimal.NewFromInt(100)))
}

func TestReconcileInstallmentsDeletesStalePending(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	contract := activeContract()
	contract.ProLabore = "R$ 400,00"
	contract.ProLaboreInstallments = "4x"
	assert.NoError(t, db.Create(contract).Error)

	_, err := ReconcileInstallments(db, contract, now)
	assert.NoError(t, err)

	contract.ProLabore = "R$ 100,00"
	contract.ProLaboreInstallments = "1x"
	_, err = ReconcileInstallments(db, contract, now)
	assert.NoError(t, err)

	var rows []models.Installment
	assert.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestReconcileInstallmentsLegacyStringEncodedExtras(t *testing.T) {
	db := setupTestDB(t)

	contract := activeContract()
	contract.ProLabore = "R$ 100,00"
	assert.NoError(t, db.Create(contract).Error)

	// Legacy rows hold the extras list double-encoded as a JSON string;
	// it must behave exactly like an empty native list
	assert.NoError(t, db.Model(contract).UpdateColumn("pro_labore_extras", `"[]"`).Error)

	var reloaded models.Contract
	assert.NoError(t, db.First(&reloaded, "id = ?", contract.ID).Error)
	assert.Empty(t, reloaded.ProLaboreExtras)

	installments, _ := BuildSchedule(&reloaded, time.Now())
	assert.Len(t, installments, 1)
}
