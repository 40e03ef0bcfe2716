package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// Product is a stock-tracked product. The per-location stock figures are
// computed from the movement ledger and never persisted.
type Product struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Chemical     string        `gorm:"not null" json:"chemical"`
	ChemicalType string        `gorm:"not null" json:"chemical_type"`
	Brand        string        `gorm:"not null" json:"brand"`
	Packaging    string        `gorm:"not null" json:"packaging"`
	KgPerUnit    float64       `gorm:"not null" json:"kg_per_unit"`
	UseCase      enums.UseCase `gorm:"not null" json:"use_case"`
	TdsID        *uuid.UUID    `gorm:"type:uuid" json:"tds_id,omitempty"`
	TdsLink      *string       `json:"tds_link,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	TotalStockAddisAbaba        float64 `gorm:"-" json:"total_stock_addis_ababa"`
	TotalStockSEZKenya          float64 `gorm:"-" json:"total_stock_sez_kenya"`
	TotalStockNairobiPartner    float64 `gorm:"-" json:"total_stock_nairobi_partner"`
	ReservedStockAddisAbaba     float64 `gorm:"-" json:"reserved_stock_addis_ababa"`
	ReservedStockSEZKenya       float64 `gorm:"-" json:"reserved_stock_sez_kenya"`
	ReservedStockNairobiPartner float64 `gorm:"-" json:"reserved_stock_nairobi_partner"`
}

func (Product) TableName() string {
	return "stock_products"
}

func (p Product) TotalStock() float64 {
	return p.TotalStockAddisAbaba + p.TotalStockSEZKenya + p.TotalStockNairobiPartner
}

func (p Product) TotalReservedStock() float64 {
	return p.ReservedStockAddisAbaba + p.ReservedStockSEZKenya + p.ReservedStockNairobiPartner
}

func (p Product) TotalAvailableStock() float64 {
	return p.TotalStock() - p.TotalReservedStock()
}
