package port

import (
	"context"
	"errors"

	"github.com/nikolayk812/extract-cart/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Catalog interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type CatalogRepository interface {
	Catalog
	AddProduct(ctx context.Context, product domain.Product) error
	AddProducts(ctx context.Context, products []domain.Product) (int, error)
}
