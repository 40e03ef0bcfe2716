package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func ts(d, hour int) *time.Time {
	t := time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func purchase(loc enums.Location, date time.Time, kg float64, created *time.Time) models.StockMovement {
	return models.StockMovement{
		ID:              uuid.New(),
		ProductID:       uuid.New(),
		Date:            date,
		Location:        loc,
		TransactionType: enums.TransactionPurchase,
		PurchaseKg:      kg,
		CreatedAt:       created,
	}
}

func sale(loc enums.Location, date time.Time, kg float64, created *time.Time) models.StockMovement {
	return models.StockMovement{
		ID:              uuid.New(),
		ProductID:       uuid.New(),
		Date:            date,
		Location:        loc,
		TransactionType: enums.TransactionSales,
		SoldKg:          kg,
		CreatedAt:       created,
	}
}

func transfer(from, to enums.Location, date time.Time, kg float64, created *time.Time) models.StockMovement {
	return models.StockMovement{
		ID:                     uuid.New(),
		ProductID:              uuid.New(),
		Date:                   date,
		Location:               from,
		TransactionType:        enums.TransactionTransfer,
		InterCompanyTransferKg: kg,
		TransferToLocation:     &to,
		CreatedAt:              created,
	}
}

func finalBalance(t *testing.T, updates []BalanceUpdate) float64 {
	t.Helper()
	if len(updates) == 0 {
		t.Fatal("no balance updates")
	}
	return updates[len(updates)-1].BalanceKg
}

func TestRecalculateRunningBalance(t *testing.T) {
	movements := []models.StockMovement{
		sale(enums.LocationAddisAbaba, day(3), 40, ts(3, 9)),
		purchase(enums.LocationAddisAbaba, day(1), 100, ts(1, 9)),
		purchase(enums.LocationAddisAbaba, day(2), 50, ts(2, 9)),
	}

	updates := recalculate(movements, enums.LocationAddisAbaba)
	if len(updates) != 3 {
		t.Fatalf("got %d updates", len(updates))
	}

	want := []struct{ begin, balance float64 }{
		{0, 100},
		{100, 150},
		{150, 110},
	}
	for i, w := range want {
		if updates[i].BeginningBalance != w.begin || updates[i].BalanceKg != w.balance {
			t.Errorf("entry %d: got (%v, %v), want (%v, %v)",
				i, updates[i].BeginningBalance, updates[i].BalanceKg, w.begin, w.balance)
		}
	}
}

func TestRecalculateFloorsAtZero(t *testing.T) {
	movements := []models.StockMovement{
		purchase(enums.LocationAddisAbaba, day(1), 10, ts(1, 9)),
		sale(enums.LocationAddisAbaba, day(2), 500, ts(2, 9)),
		purchase(enums.LocationAddisAbaba, day(3), 20, ts(3, 9)),
	}

	updates := recalculate(movements, enums.LocationAddisAbaba)
	if updates[1].BalanceKg != 0 {
		t.Fatalf("oversold balance = %v, want 0", updates[1].BalanceKg)
	}
	// The chain resumes from the floored value.
	if updates[2].BeginningBalance != 0 || updates[2].BalanceKg != 20 {
		t.Fatalf("entry after floor: got (%v, %v)", updates[2].BeginningBalance, updates[2].BalanceKg)
	}
}

func TestRecalculateTransferConservation(t *testing.T) {
	movements := []models.StockMovement{
		purchase(enums.LocationSEZKenya, day(1), 100, ts(1, 9)),
		purchase(enums.LocationAddisAbaba, day(1), 50, ts(1, 10)),
		transfer(enums.LocationSEZKenya, enums.LocationAddisAbaba, day(2), 30, ts(2, 9)),
	}

	sez := recalculate(movements, enums.LocationSEZKenya)
	if got := finalBalance(t, sez); got != 70 {
		t.Fatalf("sez balance = %v, want 70", got)
	}

	addis := recalculate(movements, enums.LocationAddisAbaba)
	if got := finalBalance(t, addis); got != 80 {
		t.Fatalf("addis balance = %v, want 80", got)
	}
}

func TestRecalculateTransferFromAnyOrigin(t *testing.T) {
	movements := []models.StockMovement{
		purchase(enums.LocationAddisAbaba, day(1), 100, ts(1, 9)),
		transfer(enums.LocationAddisAbaba, enums.LocationSEZKenya, day(2), 25, ts(2, 9)),
	}

	addis := recalculate(movements, enums.LocationAddisAbaba)
	if got := finalBalance(t, addis); got != 75 {
		t.Fatalf("addis balance = %v, want 75", got)
	}
	sez := recalculate(movements, enums.LocationSEZKenya)
	if got := finalBalance(t, sez); got != 25 {
		t.Fatalf("sez balance = %v, want 25", got)
	}
}

func TestSameDayOrderingIsDeterministic(t *testing.T) {
	a := purchase(enums.LocationAddisAbaba, day(1), 100, ts(1, 9))
	b := sale(enums.LocationAddisAbaba, day(1), 30, ts(1, 10))

	first := recalculate([]models.StockMovement{a, b}, enums.LocationAddisAbaba)
	second := recalculate([]models.StockMovement{b, a}, enums.LocationAddisAbaba)

	if finalBalance(t, first) != finalBalance(t, second) {
		t.Fatalf("insertion order changed outcome: %v vs %v",
			finalBalance(t, first), finalBalance(t, second))
	}
	if got := finalBalance(t, first); got != 70 {
		t.Fatalf("final balance = %v, want 70", got)
	}
}

func TestNullCreatedAtSortsFirst(t *testing.T) {
	imported := purchase(enums.LocationAddisAbaba, day(1), 100, nil)
	recorded := sale(enums.LocationAddisAbaba, day(1), 40, ts(1, 0))

	entries := entriesFor([]models.StockMovement{recorded, imported}, enums.LocationAddisAbaba)
	sortEntries(entries)

	if entries[0].movement.ID != imported.ID {
		t.Fatal("row without created_at must sort before timestamped rows on the same date")
	}

	updates := replay(entries)
	if got := finalBalance(t, updates); got != 60 {
		t.Fatalf("final balance = %v, want 60", got)
	}
}

func TestRetroactiveInsertResortsChain(t *testing.T) {
	m1 := purchase(enums.LocationAddisAbaba, day(1), 100, ts(1, 9))
	movements := []models.StockMovement{m1}
	if got := finalBalance(t, recalculate(movements, enums.LocationAddisAbaba)); got != 100 {
		t.Fatalf("after m1: %v", got)
	}

	m2 := sale(enums.LocationAddisAbaba, day(2), 30, ts(2, 9))
	movements = append(movements, m2)
	if got := finalBalance(t, recalculate(movements, enums.LocationAddisAbaba)); got != 70 {
		t.Fatalf("after m2: %v", got)
	}

	// m3 lands on m1's date but was created later, so it slots between
	// m1 and m2 in the replay.
	m3 := purchase(enums.LocationAddisAbaba, day(1), 20, ts(3, 9))
	movements = append(movements, m3)
	updates := recalculate(movements, enums.LocationAddisAbaba)
	if len(updates) != 3 {
		t.Fatalf("got %d updates", len(updates))
	}
	if updates[0].ID != m1.ID || updates[1].ID != m3.ID || updates[2].ID != m2.ID {
		t.Fatal("retroactive entry not ordered by (date, created_at)")
	}
	want := []float64{100, 120, 90}
	for i, w := range want {
		if updates[i].BalanceKg != w {
			t.Errorf("entry %d balance = %v, want %v", i, updates[i].BalanceKg, w)
		}
	}
}

func snapshot(date time.Time, observed float64, created *time.Time) models.StockMovement {
	return models.StockMovement{
		ID:               uuid.New(),
		ProductID:        uuid.New(),
		Date:             date,
		Location:         enums.LocationNairobiPartner,
		TransactionType:  enums.TransactionStockAvailability,
		BeginningBalance: observed,
		BalanceKg:        observed,
		CreatedAt:        created,
	}
}

func TestRecalculatePreservesSnapshotBalances(t *testing.T) {
	movements := []models.StockMovement{
		snapshot(day(1), 100, ts(1, 9)),
		snapshot(day(2), 50, ts(2, 9)),
	}

	updates := recalculate(movements, enums.LocationNairobiPartner)
	applyUpdatesInMemory(movements, updates)

	if got := movements[0].BalanceKg; got != 100 {
		t.Errorf("first snapshot balance = %v, want 100", got)
	}
	if got := movements[1].BalanceKg; got != 50 {
		t.Errorf("second snapshot balance = %v, want 50", got)
	}
	totals := aggregateStock(movements)
	if got := totals[enums.LocationNairobiPartner]; got != 50 {
		t.Fatalf("nairobi stock = %v, want latest observed 50", got)
	}
}

func TestRecalculateSnapshotAfterInboundTransfer(t *testing.T) {
	movements := []models.StockMovement{
		transfer(enums.LocationSEZKenya, enums.LocationNairobiPartner, day(1), 500, ts(1, 9)),
		snapshot(day(2), 80, ts(2, 9)),
	}

	updates := recalculate(movements, enums.LocationNairobiPartner)
	applyUpdatesInMemory(movements, updates)

	totals := aggregateStock(movements)
	if got := totals[enums.LocationNairobiPartner]; got != 80 {
		t.Fatalf("nairobi stock = %v, want observed 80", got)
	}
}

func TestAggregateSnapshotOverridesFlows(t *testing.T) {
	snapBalance := func(date time.Time, balance float64, created *time.Time) models.StockMovement {
		return models.StockMovement{
			ID:              uuid.New(),
			Date:            date,
			Location:        enums.LocationNairobiPartner,
			TransactionType: enums.TransactionStockAvailability,
			BalanceKg:       balance,
			CreatedAt:       created,
		}
	}

	movements := []models.StockMovement{
		transfer(enums.LocationSEZKenya, enums.LocationNairobiPartner, day(1), 500, ts(1, 9)),
		snapBalance(day(2), 120, ts(2, 9)),
		snapBalance(day(3), 80, ts(3, 9)),
	}

	totals := aggregateStock(movements)
	if got := totals[enums.LocationNairobiPartner]; got != 80 {
		t.Fatalf("nairobi stock = %v, want latest snapshot 80", got)
	}
}

func TestAggregateSnapshotLatestByDateThenCreatedAt(t *testing.T) {
	early := models.StockMovement{
		ID:              uuid.New(),
		Date:            day(5),
		Location:        enums.LocationNairobiPartner,
		TransactionType: enums.TransactionStockAvailability,
		BalanceKg:       200,
		CreatedAt:       nil,
	}
	late := models.StockMovement{
		ID:              uuid.New(),
		Date:            day(5),
		Location:        enums.LocationNairobiPartner,
		TransactionType: enums.TransactionStockAvailability,
		BalanceKg:       150,
		CreatedAt:       ts(5, 12),
	}

	totals := aggregateStock([]models.StockMovement{late, early})
	if got := totals[enums.LocationNairobiPartner]; got != 150 {
		t.Fatalf("nairobi stock = %v, want timestamped snapshot 150", got)
	}
}

func TestAggregateFloorsNegativeTotals(t *testing.T) {
	movements := []models.StockMovement{
		sale(enums.LocationAddisAbaba, day(1), 40, ts(1, 9)),
	}
	totals := aggregateStock(movements)
	if got := totals[enums.LocationAddisAbaba]; got != 0 {
		t.Fatalf("addis stock = %v, want 0", got)
	}
}

func TestDeriveBeginningBalance(t *testing.T) {
	loc := enums.LocationAddisAbaba

	t.Run("empty ledger", func(t *testing.T) {
		if got := deriveBeginningBalance(nil, loc, day(5)); got != 0 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("latest direct balance wins", func(t *testing.T) {
		m := purchase(loc, day(1), 100, ts(1, 9))
		m.BalanceKg = 100
		if got := deriveBeginningBalance([]models.StockMovement{m}, loc, day(5)); got != 100 {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("transfers only", func(t *testing.T) {
		in1 := transfer(enums.LocationSEZKenya, loc, day(1), 30, ts(1, 9))
		in2 := transfer(enums.LocationSEZKenya, loc, day(2), 20, ts(2, 9))
		got := deriveBeginningBalance([]models.StockMovement{in1, in2}, loc, day(5))
		if got != 50 {
			t.Fatalf("got %v, want 50", got)
		}
	})

	t.Run("future entries ignored", func(t *testing.T) {
		m := purchase(loc, day(9), 100, ts(9, 9))
		m.BalanceKg = 100
		if got := deriveBeginningBalance([]models.StockMovement{m}, loc, day(5)); got != 0 {
			t.Fatalf("got %v", got)
		}
	})
}
