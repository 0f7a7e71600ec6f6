package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String renders the amount with the currency's standard scale, e.g. "25.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", FormatAmount(m.Amount, m.Currency), m.Currency)
}

// FormatAmount renders amount with the standard number of decimals of cur:
// two for USD, none for JPY, three for BHD.
func FormatAmount(amount decimal.Decimal, cur currency.Unit) string {
	scale, _ := currency.Standard.Rounding(cur)
	return amount.StringFixed(int32(scale))
}
