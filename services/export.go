package services

import (
	"bytes"
	"fmt"

	"contract_flow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var scheduleColumns = []string{"Category", "Line", "Installment", "Amount", "Status", "Due Date", "Clause"}

// BuildScheduleWorkbook renders a contract's installment schedule as an
// Excel workbook, one row per installment, ordered the way the schedule was
// generated.
func BuildScheduleWorkbook(db *gorm.DB, contractID string) (*bytes.Buffer, error) {
	var contract models.Contract
	if err := db.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	var installments []models.Installment
	if err := db.Where("contract_id = ?", contractID).
		Order("category ASC, fee_line ASC, installment_number ASC").
		Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Installment schedule - contract #%d (%s)", contract.DisplayID, contract.ClientName))
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, name := range scheduleColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		f.SetCellValue(sheet, cell, name)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, installment := range installments {
		values := []interface{}{
			installment.Category,
			installment.FeeLine,
			fmt.Sprintf("%d/%d", installment.InstallmentNumber, installment.TotalInstallments),
			FormatAmount(installment.Amount),
			installment.Status,
			installment.DueDate.Format("2006-01-02"),
			clauseOrEmpty(installment.Clause),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+4)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func clauseOrEmpty(clause *string) string {
	if clause == nil {
		return ""
	}
	return *clause
}
