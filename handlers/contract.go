package handlers

import (
	"net/http"
	"time"

	"contract_flow_app_go/db"
	"contract_flow_app_go/models"
	"contract_flow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// contractRequest is the JSON save payload. Dates arrive as YYYY-MM-DD
// strings; an empty or malformed date behaves as absent so that one bad
// field never rejects the whole save (per-status mandatory dates are still
// enforced by validation).
type contractRequest struct {
	ClientName string  `json:"client_name"`
	CNPJ       *string `json:"cnpj"`
	Status     string  `json:"status"`

	ProspectDate  string `json:"prospect_date"`
	ProposalDate  string `json:"proposal_date"`
	ContractDate  string `json:"contract_date"`
	RejectionDate string `json:"rejection_date"`
	ProbonoDate   string `json:"probono_date"`

	PartnerID *string `json:"partner_id"`
	AnalystID *string `json:"analyst_id"`

	HonNumber         *string `json:"hon_number"`
	BillingLocation   *string `json:"billing_location"`
	PhysicalSignature bool    `json:"physical_signature"`

	ProLabore                  string   `json:"pro_labore"`
	ProLaboreInstallments      string   `json:"pro_labore_installments"`
	ProLaboreClause            string   `json:"pro_labore_clause"`
	ProLaboreExtras            []string `json:"pro_labore_extras"`
	ProLaboreExtraInstallments []string `json:"pro_labore_extra_installments"`
	ProLaboreExtraClauses      []string `json:"pro_labore_extra_clauses"`

	FinalSuccessFee                  string   `json:"final_success_fee"`
	FinalSuccessFeeInstallments      string   `json:"final_success_fee_installments"`
	FinalSuccessFeeClause            string   `json:"final_success_fee_clause"`
	FinalSuccessFeeExtras            []string `json:"final_success_fee_extras"`
	FinalSuccessFeeExtraInstallments []string `json:"final_success_fee_extra_installments"`
	FinalSuccessFeeExtraClauses      []string `json:"final_success_fee_extra_clauses"`

	FixedMonthlyFee                  string   `json:"fixed_monthly_fee"`
	FixedMonthlyFeeInstallments      string   `json:"fixed_monthly_fee_installments"`
	FixedMonthlyFeeClause            string   `json:"fixed_monthly_fee_clause"`
	FixedMonthlyFeeExtras            []string `json:"fixed_monthly_fee_extras"`
	FixedMonthlyFeeExtraInstallments []string `json:"fixed_monthly_fee_extra_installments"`
	FixedMonthlyFeeExtraClauses      []string `json:"fixed_monthly_fee_extra_clauses"`

	OtherFees                  string   `json:"other_fees"`
	OtherFeesInstallments      string   `json:"other_fees_installments"`
	OtherFeesClause            string   `json:"other_fees_clause"`
	OtherFeesExtras            []string `json:"other_fees_extras"`
	OtherFeesExtraInstallments []string `json:"other_fees_extra_installments"`
	OtherFeesExtraClauses      []string `json:"other_fees_extra_clauses"`

	IntermediateFees            []string `json:"intermediate_fees"`
	IntermediateFeeInstallments []string `json:"intermediate_fee_installments"`
	IntermediateFeeClauses      []string `json:"intermediate_fee_clauses"`

	RejectionReason *string `json:"rejection_reason"`
	RejectedBy      *string `json:"rejected_by"`
}

func (r *contractRequest) apply(contract *models.Contract) {
	contract.ClientName = r.ClientName
	contract.CNPJ = r.CNPJ
	contract.Status = r.Status

	contract.ProspectDate = services.ParseOptionalDate(r.ProspectDate)
	contract.ProposalDate = services.ParseOptionalDate(r.ProposalDate)
	contract.ContractDate = services.ParseOptionalDate(r.ContractDate)
	contract.RejectionDate = services.ParseOptionalDate(r.RejectionDate)
	contract.ProbonoDate = services.ParseOptionalDate(r.ProbonoDate)

	contract.PartnerID = r.PartnerID
	contract.AnalystID = r.AnalystID
	contract.HonNumber = r.HonNumber
	contract.BillingLocation = r.BillingLocation
	contract.PhysicalSignature = r.PhysicalSignature

	contract.ProLabore = r.ProLabore
	contract.ProLaboreInstallments = r.ProLaboreInstallments
	contract.ProLaboreClause = r.ProLaboreClause
	contract.ProLaboreExtras = r.ProLaboreExtras
	contract.ProLaboreExtraInstallments = r.ProLaboreExtraInstallments
	contract.ProLaboreExtraClauses = r.ProLaboreExtraClauses

	contract.FinalSuccessFee = r.FinalSuccessFee
	contract.FinalSuccessFeeInstallments = r.FinalSuccessFeeInstallments
	contract.FinalSuccessFeeClause = r.FinalSuccessFeeClause
	contract.FinalSuccessFeeExtras = r.FinalSuccessFeeExtras
	contract.FinalSuccessFeeExtraInstallments = r.FinalSuccessFeeExtraInstallments
	contract.FinalSuccessFeeExtraClauses = r.FinalSuccessFeeExtraClauses

	contract.FixedMonthlyFee = r.FixedMonthlyFee
	contract.FixedMonthlyFeeInstallments = r.FixedMonthlyFeeInstallments
	contract.FixedMonthlyFeeClause = r.FixedMonthlyFeeClause
	contract.FixedMonthlyFeeExtras = r.FixedMonthlyFeeExtras
	contract.FixedMonthlyFeeExtraInstallments = r.FixedMonthlyFeeExtraInstallments
	contract.FixedMonthlyFeeExtraClauses = r.FixedMonthlyFeeExtraClauses

	contract.OtherFees = r.OtherFees
	contract.OtherFeesInstallments = r.OtherFeesInstallments
	contract.OtherFeesClause = r.OtherFeesClause
	contract.OtherFeesExtras = r.OtherFeesExtras
	contract.OtherFeesExtraInstallments = r.OtherFeesExtraInstallments
	contract.OtherFeesExtraClauses = r.OtherFeesExtraClauses

	contract.IntermediateFees = r.IntermediateFees
	contract.IntermediateFeeInstallments = r.IntermediateFeeInstallments
	contract.IntermediateFeeClauses = r.IntermediateFeeClauses

	contract.RejectionReason = r.RejectionReason
	contract.RejectedBy = r.RejectedBy
}

// contractResponse echoes the saved contract plus the per-line rounding
// discrepancies; Warnings holds only the lines above the display tolerance.
type contractResponse struct {
	Contract      *models.Contract           `json:"contract"`
	Discrepancies []services.LineDiscrepancy `json:"discrepancies,omitempty"`
	Warnings      []services.LineDiscrepancy `json:"warnings,omitempty"`
}

func newContractResponse(contract *models.Contract, discrepancies []services.LineDiscrepancy) contractResponse {
	response := contractResponse{Contract: contract, Discrepancies: discrepancies}
	for _, d := range discrepancies {
		if d.NeedsWarning() {
			response.Warnings = append(response.Warnings, d)
		}
	}
	return response
}

// CreateContractHandler creates a contract in any lifecycle state
func CreateContractHandler(c echo.Context) error {
	var req contractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var contract models.Contract
	req.apply(&contract)

	discrepancies, err := services.SaveContract(db.DB, &contract, nil, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusCreated, newContractResponse(&contract, discrepancies))
}

// UpdateContractHandler saves a contract, running the engine triggers that
// hang off a save (snapshot capture, installment reconciliation)
func UpdateContractHandler(c echo.Context) error {
	id := c.Param("id")

	var previous models.Contract
	if err := db.DB.First(&previous, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}

	var req contractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	contract := previous
	req.apply(&contract)

	discrepancies, err := services.SaveContract(db.DB, &contract, &previous, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, newContractResponse(&contract, discrepancies))
}

// GetContractHandler returns one contract with its relationships
func GetContractHandler(c echo.Context) error {
	var contract models.Contract
	err := db.DB.
		Preload("Partner").
		Preload("Analyst").
		Preload("Processes").
		Preload("Installments").
		First(&contract, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Contract not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}
	return c.JSON(http.StatusOK, contract)
}

// GetContractsHandler lists contracts, optionally filtered by status
func GetContractsHandler(c echo.Context) error {
	query := db.DB.Model(&models.Contract{}).Order("display_id ASC")
	if status := c.QueryParam("status"); status != "" {
		if !models.IsValidContractStatus(status) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}

	var contracts []models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list contracts")
	}
	return c.JSON(http.StatusOK, contracts)
}
