// Package catalog reads the product catalog from a YAML file, the format the
// storefront's product import uses.
package catalog

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/nikolayk812/extract-cart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog layout.
type File struct {
	// Currency applies to every product that does not set its own.
	Currency string        `yaml:"currency"`
	Products []ProductFile `yaml:"products"`
}

type ProductFile struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Currency string `yaml:"currency"`
	ImageURL string `yaml:"image_url"`
	Origin   string `yaml:"origin"`
}

// Catalog is an immutable, in-memory port.Catalog.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file[%s]: %w", path, err)
	}

	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return New(f)
}

func New(f File) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(f.Products)),
		byID:     make(map[string]int, len(f.Products)),
	}

	for i, pf := range f.Products {
		product, err := mapProductFileToDomain(pf, f.Currency)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}

		if _, dup := c.byID[product.ID]; dup {
			return nil, fmt.Errorf("products[%d]: id[%s] is duplicated", i, product.ID)
		}

		c.byID[product.ID] = len(c.products)
		c.products = append(c.products, product)
	}

	return c, nil
}

func (c *Catalog) GetProduct(_ context.Context, id string) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, port.ErrProductNotFound)
	}

	return c.products[i], nil
}

// ListProducts returns products in file order.
func (c *Catalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	return slices.Clone(c.products), nil
}

func mapProductFileToDomain(pf ProductFile, defaultCurrency string) (domain.Product, error) {
	id := strings.TrimSpace(pf.ID)
	if id == "" {
		return domain.Product{}, fmt.Errorf("id is empty")
	}

	if strings.TrimSpace(pf.Name) == "" {
		return domain.Product{}, fmt.Errorf("name of product[%s] is empty", id)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(pf.Price))
	if err != nil {
		return domain.Product{}, fmt.Errorf("price[%s] of product[%s] is not a decimal: %w", pf.Price, id, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price[%s] of product[%s] is negative", pf.Price, id)
	}

	code := pf.Currency
	if code == "" {
		code = defaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] of product[%s] is not valid: %w", code, id, err)
	}

	if scale, _ := currency.Standard.Rounding(unit); !price.Equal(price.Truncate(int32(scale))) {
		return domain.Product{}, fmt.Errorf("price[%s] of product[%s] has more than %d decimals for %s", pf.Price, id, scale, unit)
	}

	return domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(pf.Name),
		Price:    domain.FormatAmount(price, unit),
		Currency: unit,
		ImageURL: pf.ImageURL,
		Origin:   pf.Origin,
	}, nil
}
