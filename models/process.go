package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Process is a judicial case attached to a contract, identified by its CNJ
// unified numbering. Lookups against the court systems happen in an external
// collaborator; only the reference is stored here.
type Process struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ContractID string `gorm:"type:uuid;not null;index" json:"contract_id"`
	CNJNumber  string `gorm:"size:25;not null;index" json:"cnj_number"`
	Court      *string `gorm:"size:150" json:"court,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Process) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Process model
func (Process) TableName() string {
	return "processes"
}
