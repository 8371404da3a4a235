package handlers

import (
	"net/http"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GetInstallmentsHandler lists a contract's installments in schedule order
func GetInstallmentsHandler(c echo.Context) error {
	contractID := c.Param("id")

	var count int64
	if err := db.DB.Model(&models.Contract{}).Where("id = ?", contractID).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}
	if count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
	}

	var installments []models.Installment
	if err := db.DB.Where("contract_id = ?", contractID).
		Order("category ASC, fee_line ASC, installment_number ASC").
		Find(&installments).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load installments")
	}
	return c.JSON(http.StatusOK, installments)
}

// PayInstallmentHandler settles a pending installment
func PayInstallmentHandler(c echo.Context) error {
	if err := services.MarkInstallmentPaid(db.DB, c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "No pending installment with that id")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update installment")
	}
	return c.NoContent(http.StatusNoContent)
}
