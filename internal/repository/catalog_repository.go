package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/extract-cart/internal/db"
	"github.com/nikolayk812/extract-cart/internal/domain"
	"github.com/nikolayk812/extract-cart/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	queries
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{queries: poolQueries(pool)}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{queries: txQueries(tx)}
}

func (r *catalogRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product id[%s] is not valid: %w", id, err)
	}

	row, err := r.q.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, port.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductRowToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductRowToDomain: %w", err)
	}

	return product, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products, err := mapProductRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapProductRowsToDomain: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) AddProduct(ctx context.Context, product domain.Product) error {
	params, err := mapProductToParams(product)
	if err != nil {
		return fmt.Errorf("mapProductToParams: %w", err)
	}

	if err := r.q.UpsertProduct(ctx, params); err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}

// AddProducts upserts all products in one transaction; nothing is written
// when any of them is invalid.
func (r *catalogRepository) AddProducts(ctx context.Context, products []domain.Product) (int, error) {
	params := make([]db.UpsertProductParams, 0, len(products))
	for i, product := range products {
		p, err := mapProductToParams(product)
		if err != nil {
			return 0, fmt.Errorf("products[%d]: mapProductToParams: %w", i, err)
		}
		params = append(params, p)
	}

	err := r.inTx(ctx, func(q *db.Queries) error {
		for i, p := range params {
			if err := q.UpsertProduct(ctx, p); err != nil {
				return fmt.Errorf("products[%d]: q.UpsertProduct: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("r.inTx: %w", err)
	}

	return len(params), nil
}

func mapProductToParams(product domain.Product) (db.UpsertProductParams, error) {
	productID, err := uuid.Parse(product.ID)
	if err != nil {
		return db.UpsertProductParams{}, fmt.Errorf("product id[%s] is not valid: %w", product.ID, err)
	}

	if product.Name == "" {
		return db.UpsertProductParams{}, fmt.Errorf("name is empty")
	}

	amount, err := product.PriceAmount()
	if err != nil {
		return db.UpsertProductParams{}, fmt.Errorf("product.PriceAmount: %w", err)
	}

	if product.Currency == (currency.Unit{}) {
		return db.UpsertProductParams{}, fmt.Errorf("currency is empty")
	}

	return db.UpsertProductParams{
		ID:            productID,
		Name:          product.Name,
		PriceAmount:   amount,
		PriceCurrency: product.Currency.String(),
		ImageUrl:      product.ImageURL,
		Origin:        product.Origin,
	}, nil
}

func mapProductRowToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.PriceCurrency))
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:       row.ID.String(),
		Name:     row.Name,
		Price:    domain.FormatAmount(row.PriceAmount, parsedCurrency),
		Currency: parsedCurrency,
		ImageURL: row.ImageUrl,
		Origin:   row.Origin,
	}, nil
}

func mapProductRowsToDomain(rows []db.Product) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapProductRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
