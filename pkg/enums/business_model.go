package enums

import "fmt"

// BusinessModel distinguishes stocked sales from direct deliveries that
// never pass through a warehouse.
type BusinessModel string

const (
	BusinessModelStock          BusinessModel = "Stock"
	BusinessModelDirectDelivery BusinessModel = "Direct Delivery"
)

var validBusinessModels = []BusinessModel{
	BusinessModelStock,
	BusinessModelDirectDelivery,
}

func (b BusinessModel) String() string {
	return string(b)
}

func (b BusinessModel) IsValid() bool {
	for _, v := range validBusinessModels {
		if b == v {
			return true
		}
	}
	return false
}

func ParseBusinessModel(s string) (BusinessModel, error) {
	b := BusinessModel(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid business model %q", s)
	}
	return b, nil
}
