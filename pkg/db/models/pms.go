package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ChemicalType is a catalogue entry for a class of chemicals.
type ChemicalType struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"not null;uniqueIndex" json:"name"`
	Category     *string         `json:"category,omitempty"`
	HSCode       *string         `json:"hs_code,omitempty"`
	Applications pq.StringArray  `gorm:"type:text[]" json:"applications,omitempty"`
	SpecTemplate json.RawMessage `gorm:"type:jsonb" json:"spec_template,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ChemicalType) TableName() string {
	return "chemical_types"
}

// Tds is the technical data sheet record acting as the product master.
type Tds struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ChemicalTypeID *uuid.UUID      `gorm:"type:uuid;index" json:"chemical_type_id,omitempty"`
	Brand          *string         `json:"brand,omitempty"`
	Grade          *string         `json:"grade,omitempty"`
	Owner          *string         `json:"owner,omitempty"`
	Source         *string         `json:"source,omitempty"`
	Specs          json.RawMessage `gorm:"type:jsonb" json:"specs,omitempty"`
	Metadata       json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Tds) TableName() string {
	return "tds_data"
}

// Partner is a supplier or trading partner.
type Partner struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Partner        *string         `json:"partner,omitempty"`
	PartnerCountry *string         `json:"partner_country,omitempty"`
	Metadata       json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Partner) TableName() string {
	return "partner_data"
}

// CostingPricing holds the costing rows for a (partner, tds) pair.
// Rows is a free-form spreadsheet-like structure edited by the frontend.
type CostingPricing struct {
	PartnerID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"partner_id"`
	TdsID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"tds_id"`
	Rows      json.RawMessage `gorm:"type:jsonb" json:"rows,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CostingPricing) TableName() string {
	return "costing_pricing_data"
}
