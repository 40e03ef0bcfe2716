package enums

import "fmt"

// TransactionType classifies a stock movement. Display values are kept
// as stored by the upstream data entry tooling.
type TransactionType string

const (
	TransactionSales             TransactionType = "Sales"
	TransactionPurchase          TransactionType = "Purchase"
	TransactionTransfer          TransactionType = "Inter-company transfer"
	TransactionSample            TransactionType = "Sample"
	TransactionDamage            TransactionType = "Damage"
	TransactionStockAvailability TransactionType = "Stock Availability"
)

var validTransactionTypes = []TransactionType{
	TransactionSales,
	TransactionPurchase,
	TransactionTransfer,
	TransactionSample,
	TransactionDamage,
	TransactionStockAvailability,
}

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	for _, v := range validTransactionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsSnapshot reports whether the type asserts an observed balance
// instead of describing quantities moved.
func (t TransactionType) IsSnapshot() bool {
	return t == TransactionStockAvailability
}

func TransactionTypes() []TransactionType {
	out := make([]TransactionType, len(validTransactionTypes))
	copy(out, validTransactionTypes)
	return out
}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type %q", s)
	}
	return t, nil
}
