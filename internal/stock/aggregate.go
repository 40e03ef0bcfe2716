package stock

import (
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// locationStock is the computed total per location for one product.
type locationStock map[enums.Location]float64

// aggregateStock folds a product's movements into per-location totals.
// Transfers debit their origin and credit their destination. At Nairobi
// Partner the latest Stock Availability snapshot overrides the computed
// total, since the partner reports observed stock rather than flows.
func aggregateStock(movements []models.StockMovement) locationStock {
	totals := locationStock{}
	var snapshots []ledgerEntry

	for i := range movements {
		m := &movements[i]
		switch {
		case m.TransactionType.IsSnapshot() && m.Location == enums.LocationNairobiPartner:
			snapshots = append(snapshots, ledgerEntry{kind: entryDirect, movement: m})
		case m.IsTransfer() && m.InterCompanyTransferKg > 0:
			totals[m.Location] -= m.InterCompanyTransferKg
			if m.TransferToLocation != nil {
				totals[*m.TransferToLocation] += m.InterCompanyTransferKg
			}
		default:
			totals[m.Location] += m.PurchaseKg + m.PurchaseDirectShipmentKg -
				m.SoldKg - m.SoldDirectShipmentKg - m.SampleOrDamageKg
		}
	}

	if len(snapshots) > 0 {
		sortEntries(snapshots)
		latest := snapshots[len(snapshots)-1].movement
		totals[enums.LocationNairobiPartner] = latest.BalanceKg
	}

	for _, loc := range enums.Locations() {
		if totals[loc] < 0 {
			totals[loc] = 0
		}
	}
	return totals
}

// applyStock writes computed totals onto the product's transient stock
// fields. Reserved stock is not tracked yet and stays zero.
func applyStock(p *models.Product, totals locationStock) {
	p.TotalStockAddisAbaba = totals[enums.LocationAddisAbaba]
	p.TotalStockSEZKenya = totals[enums.LocationSEZKenya]
	p.TotalStockNairobiPartner = totals[enums.LocationNairobiPartner]
	p.ReservedStockAddisAbaba = 0
	p.ReservedStockSEZKenya = 0
	p.ReservedStockNairobiPartner = 0
}
