package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"

	"github.com/labstack/echo/v4"
)

// CNJ unified numbering: NNNNNNN-DD.AAAA.J.TR.OOOO
var cnjPattern = regexp.MustCompile(`^\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}$`)

type processRequest struct {
	CNJNumber string  `json:"cnj_number"`
	Court     *string `json:"court"`
}

// GetProcessesHandler lists the judicial cases attached to a contract
func GetProcessesHandler(c echo.Context) error {
	contractID := c.Param("id")

	var count int64
	if err := db.DB.Model(&models.Contract{}).Where("id = ?", contractID).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}
	if count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
	}

	var processes []models.Process
	if err := db.DB.Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&processes).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load processes")
	}
	return c.JSON(http.StatusOK, processes)
}

// CreateProcessHandler attaches a judicial case to a contract
func CreateProcessHandler(c echo.Context) error {
	contractID := c.Param("id")

	var contract models.Contract
	if err := db.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
	}

	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cnj := strings.TrimSpace(req.CNJNumber)
	if !cnjPattern.MatchString(cnj) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "cnj_number must follow the CNJ unified numbering")
	}

	process := models.Process{ContractID: contract.ID, CNJNumber: cnj, Court: req.Court}
	if err := db.DB.Create(&process).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create process")
	}
	return c.JSON(http.StatusCreated, process)
}
