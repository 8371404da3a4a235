package handlers

import (
	"net/http"
	"strings"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"

	"github.com/labstack/echo/v4"
)

type partnerRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// GetPartnersHandler lists active partners and analysts
func GetPartnersHandler(c echo.Context) error {
	var partners []models.Partner
	query := db.DB.Where("is_active = ?", true).Order("name ASC")
	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&partners).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list partners")
	}
	return c.JSON(http.StatusOK, partners)
}

// CreatePartnerHandler registers a partner or analyst
func CreatePartnerHandler(c echo.Context) error {
	var req partnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}
	role := req.Role
	if role == "" {
		role = models.PartnerRolePartner
	}
	if role != models.PartnerRolePartner && role != models.PartnerRoleAnalyst {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid role")
	}

	partner := models.Partner{Name: strings.TrimSpace(req.Name), Role: role, IsActive: true}
	if err := db.DB.Create(&partner).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create partner")
	}
	return c.JSON(http.StatusCreated, partner)
}
