package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ExportInstallmentsHandler streams the installment ledger as CSV,
// optionally filtered by status and due-date range
func ExportInstallmentsHandler(c echo.Context) error {
	status := c.QueryParam("status")
	startDate := c.QueryParam("start_date")
	endDate := c.QueryParam("end_date")

	c.Response().Header().Set("Content-Type", "text/csv")
	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=installments_%s.csv", time.Now().Format("20060102_150405")))

	writer := csv.NewWriter(c.Response().Writer)
	defer writer.Flush()

	header := []string{
		"Contract", "Client", "Category", "Installment", "Of", "Amount",
		"Status", "Due Date", "Clause",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	query := db.DB.Model(&models.Installment{}).Preload("Contract").
		Order("due_date ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if startDate != "" {
		query = query.Where("due_date >= ?", startDate)
	}
	if endDate != "" {
		// Add time to make it inclusive of the end date
		query = query.Where("due_date <= ?", endDate+" 23:59:59")
	}

	var installments []models.Installment
	batchSize := 100
	result := query.FindInBatches(&installments, batchSize, func(tx *gorm.DB, batch int) error {
		for _, row := range installments {
			clause := ""
			if row.Clause != nil {
				clause = *row.Clause
			}
			record := []string{
				fmt.Sprintf("%d", row.Contract.DisplayID),
				row.Contract.ClientName,
				row.Category,
				fmt.Sprintf("%d", row.InstallmentNumber),
				fmt.Sprintf("%d", row.TotalInstallments),
				services.FormatAmount(row.Amount),
				row.Status,
				row.DueDate.Format("2006-01-02"),
				clause,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	})

	return result.Error
}

// ExportScheduleWorkbookHandler downloads one contract's schedule as Excel
func ExportScheduleWorkbookHandler(c echo.Context) error {
	buffer, err := services.BuildScheduleWorkbook(db.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Failed to build schedule workbook")
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=schedule_%s.xlsx", time.Now().Format("20060102")))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}
