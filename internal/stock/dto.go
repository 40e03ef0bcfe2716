package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

type CreateProductInput struct {
	Chemical     string     `json:"chemical" validate:"required"`
	ChemicalType string     `json:"chemical_type" validate:"required"`
	Brand        string     `json:"brand" validate:"required"`
	Packaging    string     `json:"packaging" validate:"required"`
	KgPerUnit    float64    `json:"kg_per_unit" validate:"required,gt=0"`
	UseCase      string     `json:"use_case" validate:"required"`
	TdsID        *uuid.UUID `json:"tds_id"`
	TdsLink      *string    `json:"tds_link"`
}

type UpdateProductInput struct {
	Chemical     *string    `json:"chemical"`
	ChemicalType *string    `json:"chemical_type"`
	Brand        *string    `json:"brand"`
	Packaging    *string    `json:"packaging"`
	KgPerUnit    *float64   `json:"kg_per_unit" validate:"omitempty,gt=0"`
	UseCase      *string    `json:"use_case"`
	TdsID        *uuid.UUID `json:"tds_id"`
	TdsLink      *string    `json:"tds_link"`
}

type ProductFilter struct {
	Chemical string
	Brand    string
	UseCase  string
}

type CreateMovementInput struct {
	ProductID       uuid.UUID  `json:"product_id" validate:"required"`
	TdsID           *uuid.UUID `json:"tds_id"`
	Date            time.Time  `json:"date" validate:"required"`
	Location        string     `json:"location" validate:"required"`
	TransactionType string     `json:"transaction_type" validate:"required"`
	Unit            string     `json:"unit"`

	BeginningBalance         float64 `json:"beginning_balance" validate:"gte=0"`
	PurchaseKg               float64 `json:"purchase_kg" validate:"gte=0"`
	SoldKg                   float64 `json:"sold_kg" validate:"gte=0"`
	PurchaseDirectShipmentKg float64 `json:"purchase_direct_shipment_kg" validate:"gte=0"`
	SoldDirectShipmentKg     float64 `json:"sold_direct_shipment_kg" validate:"gte=0"`
	SampleOrDamageKg         float64 `json:"sample_or_damage_kg" validate:"gte=0"`
	InterCompanyTransferKg   float64 `json:"inter_company_transfer_kg" validate:"gte=0"`

	TransferToLocation *string `json:"transfer_to_location"`

	SupplierID    *uuid.UUID `json:"supplier_id"`
	SupplierName  *string    `json:"supplier_name"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	CustomerName  *string    `json:"customer_name"`
	BusinessModel *string    `json:"business_model"`
	Brand         *string    `json:"brand"`

	Reference *string `json:"reference"`
	Remark    *string `json:"remark"`
	Warehouse *string `json:"warehouse"`
}

type UpdateMovementInput struct {
	Date            *time.Time `json:"date"`
	Location        *string    `json:"location"`
	TransactionType *string    `json:"transaction_type"`
	Unit            *string    `json:"unit"`

	BeginningBalance         *float64 `json:"beginning_balance" validate:"omitempty,gte=0"`
	PurchaseKg               *float64 `json:"purchase_kg" validate:"omitempty,gte=0"`
	SoldKg                   *float64 `json:"sold_kg" validate:"omitempty,gte=0"`
	PurchaseDirectShipmentKg *float64 `json:"purchase_direct_shipment_kg" validate:"omitempty,gte=0"`
	SoldDirectShipmentKg     *float64 `json:"sold_direct_shipment_kg" validate:"omitempty,gte=0"`
	SampleOrDamageKg         *float64 `json:"sample_or_damage_kg" validate:"omitempty,gte=0"`
	InterCompanyTransferKg   *float64 `json:"inter_company_transfer_kg" validate:"omitempty,gte=0"`

	TransferToLocation *string `json:"transfer_to_location"`

	SupplierID    *uuid.UUID `json:"supplier_id"`
	SupplierName  *string    `json:"supplier_name"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	CustomerName  *string    `json:"customer_name"`
	BusinessModel *string    `json:"business_model"`
	Brand         *string    `json:"brand"`

	Reference *string `json:"reference"`
	Remark    *string `json:"remark"`
	Warehouse *string `json:"warehouse"`
}

type MovementFilter struct {
	ProductID       *uuid.UUID
	Location        enums.Location
	TransactionType enums.TransactionType
	BusinessModel   enums.BusinessModel
	StartDate       *time.Time
	EndDate         *time.Time
}

// AvailabilitySummary is the per-product stock breakdown by location.
type AvailabilitySummary struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Chemical    string    `json:"chemical"`
	Brand       string    `json:"brand"`

	AddisAbabaStock     float64 `json:"addis_ababa_stock"`
	SEZKenyaStock       float64 `json:"sez_kenya_stock"`
	NairobiPartnerStock float64 `json:"nairobi_partner_stock"`
	TotalStock          float64 `json:"total_stock"`

	AddisAbabaReserved     float64 `json:"addis_ababa_reserved"`
	SEZKenyaReserved       float64 `json:"sez_kenya_reserved"`
	NairobiPartnerReserved float64 `json:"nairobi_partner_reserved"`
	TotalReserved          float64 `json:"total_reserved"`

	AddisAbabaAvailable     float64 `json:"addis_ababa_available"`
	SEZKenyaAvailable       float64 `json:"sez_kenya_available"`
	NairobiPartnerAvailable float64 `json:"nairobi_partner_available"`
	TotalAvailable          float64 `json:"total_available"`
}
