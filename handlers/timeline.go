package handlers

import (
	"net/http"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type timelineResponse struct {
	Entries      []services.TimelineEntry `json:"entries"`
	DurationDays int                      `json:"duration_days"`
}

// GetTimelineHandler returns a contract's status history, effective-dated:
// each event carries the business date for its status rather than the raw
// edit timestamp, plus the day gap since the previous event.
func GetTimelineHandler(c echo.Context) error {
	var contract models.Contract
	if err := db.DB.First(&contract, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}

	var events []models.StatusEvent
	if err := db.DB.Where("contract_id = ?", contract.ID).
		Order("changed_at ASC").
		Find(&events).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load status events")
	}

	entries := services.BuildTimeline(&contract, events)
	return c.JSON(http.StatusOK, timelineResponse{
		Entries:      entries,
		DurationDays: services.CaseDuration(entries),
	})
}
