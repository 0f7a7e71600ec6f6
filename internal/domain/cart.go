package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	Items  []CartItem
	IsOpen bool
}

type CartItem struct {
	ID       uuid.UUID
	Product  Product
	Quantity int

	CreatedAt time.Time
}

// TotalItems is the sum of quantities, not the number of lines.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price × quantity over all lines. Lines whose price does not
// parse contribute zero; their product ids are returned in unpriced.
func (c Cart) TotalPrice() (total decimal.Decimal, unpriced []string) {
	total = decimal.Zero

	for _, item := range c.Items {
		price, err := item.Product.PriceAmount()
		if err != nil {
			unpriced = append(unpriced, item.Product.ID)
			continue
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total, unpriced
}

// Find returns the index of the line holding productID, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
