package enums

import (
	"math"
	"testing"
)

func TestParseLocation(t *testing.T) {
	if _, err := ParseLocation("addis_ababa"); err != nil {
		t.Fatalf("valid location rejected: %v", err)
	}
	if _, err := ParseLocation("mombasa"); err == nil {
		t.Fatal("unknown location accepted")
	}
}

func TestTransactionTypeIsSnapshot(t *testing.T) {
	if !TransactionStockAvailability.IsSnapshot() {
		t.Fatal("Stock Availability should be a snapshot type")
	}
	for _, tt := range []TransactionType{
		TransactionSales, TransactionPurchase, TransactionTransfer,
		TransactionSample, TransactionDamage,
	} {
		if tt.IsSnapshot() {
			t.Fatalf("%s should not be a snapshot type", tt)
		}
	}
}

func TestStockUnitToKg(t *testing.T) {
	tests := []struct {
		unit StockUnit
		qty  float64
		want float64
	}{
		{UnitKg, 5, 5},
		{UnitTon, 2, 2000},
		{UnitGram, 500, 0.5},
		{UnitLb, 10, 4.53592},
		{UnitPiece, 7, 7},
	}
	for _, tc := range tests {
		got := tc.unit.ToKg(tc.qty)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s.ToKg(%v) = %v, want %v", tc.unit, tc.qty, got, tc.want)
		}
	}
}

func TestPipelineStageOrdering(t *testing.T) {
	if StageLeadID.Order() != 0 {
		t.Fatalf("Lead ID order = %d", StageLeadID.Order())
	}
	if !StageValidation.RequiresCommercialTerms() {
		t.Fatal("Validation should require commercial terms")
	}
	if StageSample.RequiresCommercialTerms() {
		t.Fatal("Sample should not require commercial terms")
	}
	if StageClosed.Next() != StageClosed {
		t.Fatal("Closed should be terminal")
	}
	if StageProposal.Next() != StageConfirmation {
		t.Fatalf("Proposal.Next() = %s", StageProposal.Next())
	}
}

func TestJobStatusTerminal(t *testing.T) {
	if JobQueued.IsTerminal() || JobProcessing.IsTerminal() {
		t.Fatal("queued/processing must not be terminal")
	}
	if !JobDone.IsTerminal() || !JobFailed.IsTerminal() {
		t.Fatal("done/failed must be terminal")
	}
}
