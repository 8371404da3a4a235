package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner role constants
const (
	PartnerRolePartner = "partner"
	PartnerRoleAnalyst = "analyst"
)

// Partner is a firm member a contract can be assigned to, either as the
// responsible partner or as the analyst handling the analysis stage
type Partner struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Role     string `gorm:"not null;default:partner" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Partner model
func (Partner) TableName() string {
	return "partners"
}

// PartnerNameLookup builds the id -> name map the metrics aggregator
// resolves partner buckets through
func PartnerNameLookup(partners []Partner) map[string]string {
	lookup := make(map[string]string, len(partners))
	for _, p := range partners {
		lookup[p.ID] = p.Name
	}
	return lookup
}
