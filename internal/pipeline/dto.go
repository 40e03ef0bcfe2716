package pipeline

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreatePipelineInput struct {
	CustomerID        uuid.UUID       `json:"customer_id" validate:"required"`
	TdsID             *uuid.UUID      `json:"tds_id"`
	ChemicalTypeID    *uuid.UUID      `json:"chemical_type_id"`
	Stage             string          `json:"stage"`
	Amount            *float64        `json:"amount" validate:"omitempty,gte=0"`
	Currency          *string         `json:"currency"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	CloseReason       *string         `json:"close_reason"`
	LeadSource        *string         `json:"lead_source"`
	ContactPerLead    *string         `json:"contact_per_lead"`
	BusinessModel     *string         `json:"business_model"`
	Unit              *string         `json:"unit"`
	UnitPrice         *float64        `json:"unit_price" validate:"omitempty,gte=0"`
	Forex             *string         `json:"forex"`
	BusinessUnit      *string         `json:"business_unit"`
	Incoterm          *string         `json:"incoterm"`
	Metadata          json.RawMessage `json:"metadata"`
}

type UpdatePipelineInput struct {
	TdsID             *uuid.UUID      `json:"tds_id"`
	ChemicalTypeID    *uuid.UUID      `json:"chemical_type_id"`
	Stage             *string         `json:"stage"`
	Amount            *float64        `json:"amount" validate:"omitempty,gte=0"`
	Currency          *string         `json:"currency"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	CloseReason       *string         `json:"close_reason"`
	LeadSource        *string         `json:"lead_source"`
	ContactPerLead    *string         `json:"contact_per_lead"`
	BusinessModel     *string         `json:"business_model"`
	Unit              *string         `json:"unit"`
	UnitPrice         *float64        `json:"unit_price" validate:"omitempty,gte=0"`
	Forex             *string         `json:"forex"`
	BusinessUnit      *string         `json:"business_unit"`
	Incoterm          *string         `json:"incoterm"`
	Metadata          json.RawMessage `json:"metadata"`
}

type PipelineFilter struct {
	CustomerID *uuid.UUID
	Stage      *string
}

// AdvanceInput carries the fields a stage transition may need to
// satisfy the target stage's requirements.
type AdvanceInput struct {
	BusinessModel *string  `json:"business_model"`
	Unit          *string  `json:"unit"`
	UnitPrice     *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	CloseReason   *string  `json:"close_reason"`
}

// StageSummary is the per-stage rollup for the pipeline board.
type StageSummary struct {
	Stage  string  `json:"stage"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}
