package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// SalesPipeline is one opportunity moving through the sales stages.
// Commercial terms (business model, unit, unit price) become mandatory
// from Validation onward; the service enforces that.
type SalesPipeline struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	TdsID             *uuid.UUID          `gorm:"type:uuid" json:"tds_id,omitempty"`
	ChemicalTypeID    *uuid.UUID          `gorm:"type:uuid" json:"chemical_type_id,omitempty"`
	Stage             enums.PipelineStage `gorm:"not null;index" json:"stage"`
	Amount            *float64            `json:"amount,omitempty"`
	Currency          *enums.Currency     `json:"currency,omitempty"`
	ExpectedCloseDate *time.Time          `gorm:"type:date" json:"expected_close_date,omitempty"`
	CloseReason       *string             `json:"close_reason,omitempty"`
	LeadSource        *string             `json:"lead_source,omitempty"`
	ContactPerLead    *string             `json:"contact_per_lead,omitempty"`
	BusinessModel     *string             `json:"business_model,omitempty"`
	Unit              *string             `json:"unit,omitempty"`
	UnitPrice         *float64            `json:"unit_price,omitempty"`
	Forex             *string             `json:"forex,omitempty"`
	BusinessUnit      *string             `json:"business_unit,omitempty"`
	Incoterm          *string             `json:"incoterm,omitempty"`
	Metadata          json.RawMessage     `gorm:"type:jsonb" json:"metadata,omitempty"`
	AIInteractions    json.RawMessage     `gorm:"type:jsonb" json:"ai_interactions,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (SalesPipeline) TableName() string {
	return "sales_pipelines"
}

// Forex risk bearer options.
var ForexOptions = []string{"LeanChems", "Client"}

// Business units quoting under the company umbrella.
var BusinessUnitOptions = []string{"Hayat", "Alhadi", "Bet-chem", "Barracoda", "Nyumb-Chem"}

// Incoterm options offered on opportunities.
var IncotermOptions = []string{"Import of Record", "Agency", "Direct Import", "Stock – Addis Ababa"}
