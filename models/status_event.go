package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusEvent records one lifecycle transition of a contract. ChangedAt is
// the raw edit timestamp; the business-meaningful date for the event comes
// from the contract's own date fields (see services.EffectiveDate).
type StatusEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ContractID     string    `gorm:"type:uuid;not null;index" json:"contract_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `gorm:"not null" json:"new_status"`
	ChangedAt      time.Time `gorm:"not null" json:"changed_at"`
}

// BeforeCreate hook to generate UUID
func (e *StatusEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for StatusEvent model
func (StatusEvent) TableName() string {
	return "status_events"
}
