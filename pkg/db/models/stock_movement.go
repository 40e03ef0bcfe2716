package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// StockMovement is one ledger entry for a (product, location) pair.
// CreatedAt is nullable on purpose: rows imported from spreadsheets have
// no insertion timestamp, and the replay order depends on that.
type StockMovement struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID       uuid.UUID             `gorm:"type:uuid;not null;index" json:"product_id"`
	TdsID           *uuid.UUID            `gorm:"type:uuid" json:"tds_id,omitempty"`
	Date            time.Time             `gorm:"type:date;not null;index" json:"date"`
	Location        enums.Location        `gorm:"not null;index" json:"location"`
	TransactionType enums.TransactionType `gorm:"not null" json:"transaction_type"`
	Unit            enums.StockUnit       `gorm:"not null;default:kg" json:"unit"`

	BeginningBalance         float64 `gorm:"not null;default:0" json:"beginning_balance"`
	PurchaseKg               float64 `gorm:"not null;default:0" json:"purchase_kg"`
	SoldKg                   float64 `gorm:"not null;default:0" json:"sold_kg"`
	PurchaseDirectShipmentKg float64 `gorm:"not null;default:0" json:"purchase_direct_shipment_kg"`
	SoldDirectShipmentKg     float64 `gorm:"not null;default:0" json:"sold_direct_shipment_kg"`
	SampleOrDamageKg         float64 `gorm:"not null;default:0" json:"sample_or_damage_kg"`
	InterCompanyTransferKg   float64 `gorm:"not null;default:0" json:"inter_company_transfer_kg"`
	BalanceKg                float64 `gorm:"not null;default:0" json:"balance_kg"`

	TransferToLocation *enums.Location `gorm:"index" json:"transfer_to_location,omitempty"`

	SupplierID    *uuid.UUID           `gorm:"type:uuid" json:"supplier_id,omitempty"`
	SupplierName  *string              `json:"supplier_name,omitempty"`
	CustomerID    *uuid.UUID           `gorm:"type:uuid" json:"customer_id,omitempty"`
	CustomerName  *string              `json:"customer_name,omitempty"`
	BusinessModel *enums.BusinessModel `json:"business_model,omitempty"`
	Brand         *string              `json:"brand,omitempty"`

	Reference *string `json:"reference,omitempty"`
	Remark    *string `json:"remark,omitempty"`
	Warehouse *string `json:"warehouse,omitempty"`

	CreatedAt *time.Time `gorm:"autoCreateTime:false" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// IsTransfer reports whether the entry moves stock between locations.
func (m StockMovement) IsTransfer() bool {
	return m.TransactionType == enums.TransactionTransfer
}

// DestinedTo reports whether the entry is an inbound transfer for loc.
func (m StockMovement) DestinedTo(loc enums.Location) bool {
	return m.IsTransfer() && m.TransferToLocation != nil && *m.TransferToLocation == loc
}
