package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Product is the catalog record the cart keeps a snapshot of.
// Price is kept as the decimal string the catalog delivered.
type Product struct {
	ID       string
	Name     string
	Price    string
	Currency currency.Unit
	ImageURL string
	Origin   string
}

func (p Product) PriceAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price[%s] of product[%s] is not a decimal: %w", p.Price, p.ID, err)
	}

	return amount, nil
}
