package domain_test

import (
	"testing"

	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestCart_TotalItems(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.CartItem
		want  int
	}{
		{
			name: "empty cart: zero",
			want: 0,
		},
		{
			name: "sums quantities not lines",
			items: []domain.CartItem{
				{Product: domain.Product{ID: "a"}, Quantity: 3},
				{Product: domain.Product{ID: "b"}, Quantity: 1},
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.Cart{Items: tt.items}
			assert.Equal(t, tt.want, cart.TotalItems())
		})
	}
}

func TestCart_TotalPrice(t *testing.T) {
	tests := []struct {
		name         string
		items        []domain.CartItem
		wantTotal    string
		wantUnpriced []string
	}{
		{
			name:      "empty cart: zero",
			wantTotal: "0",
		},
		{
			name: "price times quantity",
			items: []domain.CartItem{
				{Product: domain.Product{ID: "a", Price: "10.00"}, Quantity: 2},
				{Product: domain.Product{ID: "b", Price: "5.50"}, Quantity: 1},
			},
			wantTotal: "25.5",
		},
		{
			name: "unparseable price contributes zero",
			items: []domain.CartItem{
				{Product: domain.Product{ID: "a", Price: "abc"}, Quantity: 2},
				{Product: domain.Product{ID: "b", Price: "3.25"}, Quantity: 2},
				{Product: domain.Product{ID: "c", Price: ""}, Quantity: 1},
			},
			wantTotal:    "6.5",
			wantUnpriced: []string{"a", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.Cart{Items: tt.items}

			total, unpriced := cart.TotalPrice()
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(total), "got %s", total)
			assert.Equal(t, tt.wantUnpriced, unpriced)
		})
	}
}

func TestCart_Find(t *testing.T) {
	cart := domain.Cart{Items: []domain.CartItem{
		{Product: domain.Product{ID: "a"}, Quantity: 1},
		{Product: domain.Product{ID: "b"}, Quantity: 1},
	}}

	assert.Equal(t, 1, cart.Find("b"))
	assert.Equal(t, -1, cart.Find("z"))
}

func TestMoney_String(t *testing.T) {
	m := domain.Money{Amount: decimal.RequireFromString("25.5"), Currency: currency.USD}
	assert.Equal(t, "25.50 USD", m.String())

	m = domain.Money{Amount: decimal.RequireFromString("1200"), Currency: currency.JPY}
	assert.Equal(t, "1200 JPY", m.String())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency currency.Unit
		want     string
	}{
		{name: "usd pads to cents", amount: "5.5", currency: currency.USD, want: "5.50"},
		{name: "eur keeps cents", amount: "12.90", currency: currency.EUR, want: "12.90"},
		{name: "jpy has no minor unit", amount: "1200.00", currency: currency.JPY, want: "1200"},
		{name: "bhd has three decimals", amount: "4.5", currency: currency.MustParseISO("BHD"), want: "4.500"},
		{name: "zero currency falls back to cents", amount: "3", currency: currency.Unit{}, want: "3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.FormatAmount(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}
