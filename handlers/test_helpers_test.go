package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	err = database.AutoMigrate(
		&models.Partner{},
		&models.Contract{},
		&models.Process{},
		&models.Installment{},
		&models.StatusEvent{},
	)
	assert.NoError(t, err)
	db.DB = database
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpErrorCode(t *testing.T, err error) int {
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func dbFind(dest interface{}) error {
	return db.DB.Find(dest).Error
}

func strPtr(s string) *string {
	return &s
}

func dayPtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// seedActiveContract persists an active contract with a 3x pro-labore line
// through the save path, so installments and the status event exist too
func seedActiveContract(t *testing.T) *models.Contract {
	contract := &models.Contract{
		ClientName:            "Acme Ltda",
		Status:                models.ContractStatusActive,
		ContractDate:          dayPtr(2025, time.June, 1),
		HonNumber:             strPtr("HON-0001"),
		BillingLocation:       strPtr("São Paulo"),
		PhysicalSignature:     true,
		ProLabore:             "R$ 300,00",
		ProLaboreInstallments: "3x",
	}
	_, err := services.SaveContract(db.DB, contract, nil, time.Now())
	assert.NoError(t, err)
	return contract
}
