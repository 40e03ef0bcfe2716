package enums

import "fmt"

// StockUnit is the unit a quantity was recorded in. All ledger math runs
// on kilograms; conversion happens at the service boundary.
type StockUnit string

const (
	UnitKg    StockUnit = "kg"
	UnitTon   StockUnit = "ton"
	UnitGram  StockUnit = "g"
	UnitLb    StockUnit = "lb"
	UnitOz    StockUnit = "oz"
	UnitPiece StockUnit = "piece"
	UnitUnit  StockUnit = "unit"
)

var kgFactors = map[StockUnit]float64{
	UnitKg:   1,
	UnitTon:  1000,
	UnitGram: 0.001,
	UnitLb:   0.453592,
	UnitOz:   0.0283495,
}

var validStockUnits = []StockUnit{
	UnitKg, UnitTon, UnitGram, UnitLb, UnitOz, UnitPiece, UnitUnit,
}

func (u StockUnit) String() string {
	return string(u)
}

func (u StockUnit) IsValid() bool {
	for _, v := range validStockUnits {
		if u == v {
			return true
		}
	}
	return false
}

// ToKg converts a quantity in this unit to kilograms. Count-based units
// (piece, unit) have no mass conversion and pass through unchanged.
func (u StockUnit) ToKg(qty float64) float64 {
	if factor, ok := kgFactors[u]; ok {
		return qty * factor
	}
	return qty
}

func ParseStockUnit(s string) (StockUnit, error) {
	u := StockUnit(s)
	if !u.IsValid() {
		return "", fmt.Errorf("invalid stock unit %q", s)
	}
	return u, nil
}
