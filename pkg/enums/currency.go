package enums

import "fmt"

type Currency string

const (
	CurrencyETB Currency = "ETB"
	CurrencyKES Currency = "KES"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var validCurrencies = []Currency{CurrencyETB, CurrencyKES, CurrencyUSD, CurrencyEUR}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	for _, v := range validCurrencies {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid currency %q", s)
	}
	return c, nil
}
