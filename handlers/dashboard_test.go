package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/stretchr/testify/assert"
)

func TestDashboardMetricsHandler(t *testing.T) {
	setupTestDB(t)

	partner := models.Partner{Name: "Dra. Helena", Role: models.PartnerRolePartner, IsActive: true}
	assert.NoError(t, db.DB.Create(&partner).Error)

	active := seedActiveContract(t)
	assert.NoError(t, db.DB.Model(active).Update("partner_id", partner.ID).Error)

	proposal := &models.Contract{
		ClientName:   "Beta SA",
		Status:       models.ContractStatusProposal,
		ProposalDate: dayPtr(2025, time.May, 10),
	}
	_, err := services.SaveContract(db.DB, proposal, nil, time.Now())
	assert.NoError(t, err)

	ctx, rec := newJSONContext(http.MethodGet, "/api/dashboard/metrics", "")
	assert.NoError(t, DashboardMetricsHandler(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var metrics services.PortfolioMetrics
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 2, metrics.Funnel.Total)
	assert.Equal(t, 2, metrics.Funnel.Qualified)
	assert.Equal(t, 1, metrics.Funnel.Closed)
	assert.Contains(t, metrics.Partners, "Dra. Helena")
	assert.Contains(t, metrics.Partners, services.UnassignedPartnerBucket)
	assert.False(t, metrics.GeneratedAt.IsZero())
}

func TestDashboardMetricsHandlerEmpty(t *testing.T) {
	setupTestDB(t)

	ctx, rec := newJSONContext(http.MethodGet, "/api/dashboard/metrics", "")
	assert.NoError(t, DashboardMetricsHandler(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var metrics services.PortfolioMetrics
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 0, metrics.Funnel.Total)
	assert.Equal(t, 0.0, metrics.Funnel.QualifiedRate)
}
