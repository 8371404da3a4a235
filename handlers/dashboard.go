package handlers

import (
	"net/http"
	"time"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardMetricsHandler recomputes the portfolio metrics over the full
// contract collection. The aggregation is a pure pass with no side effects,
// so the collaborator simply re-requests it on every data change.
func DashboardMetricsHandler(c echo.Context) error {
	var contracts []models.Contract
	if err := db.DB.Find(&contracts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contracts")
	}

	var partners []models.Partner
	if err := db.DB.Find(&partners).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load partners")
	}

	metrics := services.AggregatePortfolio(contracts, models.PartnerNameLookup(partners), time.Now())
	return c.JSON(http.StatusOK, metrics)
}
