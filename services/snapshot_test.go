package services

import (
	"testing"
	"time"

	"contract_flow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func proposalContract() *models.Contract {
	return &models.Contract{
		ClientName:      "Acme Ltda",
		Status:          models.ContractStatusProposal,
		ProposalDate:    datePtr(2025, time.May, 10),
		ProLabore:       "R$ 10.000,00",
		ProLaboreExtras: models.StringList{"R$ 2.000,00"},
		FinalSuccessFee: "R$ 50.000,00",
	}
}

func TestCaptureProposalSnapshotOnTransition(t *testing.T) {
	db := setupTestDB(t)
	contract := proposalContract()
	assert.NoError(t, db.Create(contract).Error)

	written, err := CaptureProposalSnapshot(db, contract, models.ContractStatusActive)
	assert.NoError(t, err)
	assert.True(t, written)
	assert.NotNil(t, contract.ProposalSnapshot)

	snapshot, err := DecodeProposalSnapshot(contract)
	assert.NoError(t, err)
	assert.Equal(t, "R$ 10.000,00", snapshot.ProLabore)
	assert.Equal(t, []string{"R$ 2.000,00"}, snapshot.ProLaboreExtras)
	assert.Equal(t, "R$ 50.000,00", snapshot.FinalSuccessFee)
	assert.Equal(t, contract.ProposalDate, snapshot.ProposalDate)
	assert.False(t, snapshot.CapturedAt.IsZero())

	// Persisted as a single opaque field
	var reloaded models.Contract
	assert.NoError(t, db.First(&reloaded, "id = ?", contract.ID).Error)
	assert.Equal(t, *contract.ProposalSnapshot, *reloaded.ProposalSnapshot)
}

func TestCaptureProposalSnapshotOnlyOnProposalToActive(t *testing.T) {
	// No capture when the record is not leaving proposal
	analysis := &models.Contract{Status: models.ContractStatusAnalysis}
	written, err := CaptureProposalSnapshot(nil, analysis, models.ContractStatusActive)
	assert.NoError(t, err)
	assert.False(t, written)

	// No capture when proposal moves anywhere but active
	rejected := proposalContract()
	written, err = CaptureProposalSnapshot(nil, rejected, models.ContractStatusRejected)
	assert.NoError(t, err)
	assert.False(t, written)
	assert.Nil(t, rejected.ProposalSnapshot)

	written, err = CaptureProposalSnapshot(nil, nil, models.ContractStatusActive)
	assert.NoError(t, err)
	assert.False(t, written)
}

func TestCaptureProposalSnapshotNeverOverwrites(t *testing.T) {
	contract := proposalContract()
	written, err := CaptureProposalSnapshot(nil, contract, models.ContractStatusActive)
	assert.NoError(t, err)
	assert.True(t, written)
	original := *contract.ProposalSnapshot

	// A later save of the same record must not re-trigger the capture
	contract.ProLabore = "R$ 99.999,99"
	written, err = CaptureProposalSnapshot(nil, contract, models.ContractStatusActive)
	assert.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, original, *contract.ProposalSnapshot)
}
