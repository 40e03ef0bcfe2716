package pms

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateChemicalTypeInput struct {
	Name         string          `json:"name" validate:"required"`
	Category     *string         `json:"category"`
	HSCode       *string         `json:"hs_code"`
	Applications []string        `json:"applications"`
	SpecTemplate json.RawMessage `json:"spec_template"`
	Metadata     json.RawMessage `json:"metadata"`
}

type UpdateChemicalTypeInput struct {
	Name         *string         `json:"name"`
	Category     *string         `json:"category"`
	HSCode       *string         `json:"hs_code"`
	Applications []string        `json:"applications"`
	SpecTemplate json.RawMessage `json:"spec_template"`
	Metadata     json.RawMessage `json:"metadata"`
}

type CreateTdsInput struct {
	ChemicalTypeID *uuid.UUID      `json:"chemical_type_id"`
	Brand          *string         `json:"brand"`
	Grade          *string         `json:"grade"`
	Owner          *string         `json:"owner"`
	Source         *string         `json:"source"`
	Specs          json.RawMessage `json:"specs"`
	Metadata       json.RawMessage `json:"metadata"`
}

type UpdateTdsInput struct {
	ChemicalTypeID *uuid.UUID      `json:"chemical_type_id"`
	Brand          *string         `json:"brand"`
	Grade          *string         `json:"grade"`
	Owner          *string         `json:"owner"`
	Source         *string         `json:"source"`
	Specs          json.RawMessage `json:"specs"`
	Metadata       json.RawMessage `json:"metadata"`
}

type CreatePartnerInput struct {
	Partner        *string         `json:"partner"`
	PartnerCountry *string         `json:"partner_country"`
	Metadata       json.RawMessage `json:"metadata"`
}

type UpdatePartnerInput struct {
	Partner        *string         `json:"partner"`
	PartnerCountry *string         `json:"partner_country"`
	Metadata       json.RawMessage `json:"metadata"`
}

type UpsertCostingInput struct {
	PartnerID uuid.UUID       `json:"partner_id" validate:"required"`
	TdsID     uuid.UUID       `json:"tds_id" validate:"required"`
	Rows      json.RawMessage `json:"rows"`
}

type TdsFilter struct {
	ChemicalTypeID *uuid.UUID
	Brand          string
}
