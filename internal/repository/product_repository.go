package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/db"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: db.New(pool)}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{q: db.New(tx)}
}

func (r *productRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("q.GetProduct[%d]: %w", productID, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("q.GetProduct[%d]: %w", productID, err)
	}

	product, err := mapDBProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return product, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, productID int64, delta int32) error {
	if delta == 0 {
		return nil
	}

	_, err := r.q.AdjustProductStock(ctx, db.AdjustProductStockParams{Delta: delta, ID: productID})
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("q.AdjustProductStock[%d]: %w", productID, err)
	}

	// no row updated: the product is missing or the guard rejected the decrement
	product, err := r.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	return &domain.InsufficientStockError{
		ProductID: productID,
		Requested: -delta,
		Available: product.Stock,
	}
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	unit, err := currency.ParseISO(row.SalePriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.SalePriceCurrency, err)
	}

	return domain.Product{
		ID:           row.ID,
		Code:         row.Code,
		Name:         row.Name,
		ImageURL:     row.ImageUrl,
		CategoryName: row.CategoryName,
		SalePrice:    domain.NewMoney(row.SalePriceAmount, unit),
		Stock:        row.Stock,
		CreatedAt:    row.CreatedAt,
	}, nil
}
