package stock

import (
	"sort"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
)

// entryKind says how a movement touches the ledger of a location:
// either it was recorded there, or it is a transfer arriving there.
type entryKind int

const (
	entryDirect entryKind = iota
	entryInbound
)

type ledgerEntry struct {
	kind     entryKind
	movement *models.StockMovement
}

// BalanceUpdate carries the recomputed balances for one movement row.
type BalanceUpdate struct {
	ID               uuid.UUID
	BeginningBalance float64
	BalanceKg        float64
}

// entriesFor selects the movements affecting a location's ledger: rows
// recorded at the location plus transfers destined to it. A transfer
// recorded at the location itself stays a direct entry (the debit side).
func entriesFor(movements []models.StockMovement, loc enums.Location) []ledgerEntry {
	var entries []ledgerEntry
	for i := range movements {
		m := &movements[i]
		if m.Location == loc {
			entries = append(entries, ledgerEntry{kind: entryDirect, movement: m})
		} else if m.DestinedTo(loc) {
			entries = append(entries, ledgerEntry{kind: entryInbound, movement: m})
		}
	}
	return entries
}

// sortEntries orders entries by (date, created_at). Rows without a
// created_at sort before timestamped rows on the same date; the sort is
// stable so equal keys keep their input order.
func sortEntries(entries []ledgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].movement, entries[j].movement
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		switch {
		case a.CreatedAt == nil && b.CreatedAt != nil:
			return true
		case a.CreatedAt != nil && b.CreatedAt == nil:
			return false
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return false
		default:
			return a.CreatedAt.Before(*b.CreatedAt)
		}
	})
}

// entryDelta is the signed effect of an entry on the running balance.
func entryDelta(e ledgerEntry) float64 {
	m := e.movement
	if e.kind == entryInbound {
		return m.InterCompanyTransferKg
	}
	if m.IsTransfer() {
		return -m.InterCompanyTransferKg
	}
	return m.PurchaseKg + m.PurchaseDirectShipmentKg -
		m.SoldKg - m.SoldDirectShipmentKg - m.SampleOrDamageKg
}

// replay walks the sorted ledger carrying the running balance forward.
// The first entry seeds from its own beginning balance; every later one
// starts where the previous one ended. A Stock Availability entry is an
// observed balance, not a flow: it restarts the chain at its own
// recorded value regardless of the carry. Balances never go below zero.
func replay(entries []ledgerEntry) []BalanceUpdate {
	updates := make([]BalanceUpdate, 0, len(entries))
	var carry float64
	for i, e := range entries {
		m := e.movement
		start := carry
		if i == 0 {
			start = m.BeginningBalance
		}
		var balance float64
		if e.kind == entryDirect && m.TransactionType.IsSnapshot() {
			start = m.BeginningBalance
			balance = start
		} else {
			balance = start + entryDelta(e)
		}
		if balance < 0 {
			balance = 0
		}
		updates = append(updates, BalanceUpdate{
			ID:               m.ID,
			BeginningBalance: start,
			BalanceKg:        balance,
		})
		carry = balance
	}
	return updates
}

// recalculate produces the balance updates for one (product, location)
// ledger given every movement of the product.
func recalculate(movements []models.StockMovement, loc enums.Location) []BalanceUpdate {
	entries := entriesFor(movements, loc)
	sortEntries(entries)
	return replay(entries)
}
