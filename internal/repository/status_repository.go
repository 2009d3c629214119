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
)

type statusCatalog struct {
	q *db.Queries
}

func NewStatusCatalog(pool *pgxpool.Pool) port.StatusCatalog {
	return &statusCatalog{q: db.New(pool)}
}

func NewStatusCatalogWithTx(tx pgx.Tx) port.StatusCatalog {
	return &statusCatalog{q: db.New(tx)}
}

func (c *statusCatalog) GetStatus(ctx context.Context, status domain.OrderStatus) (string, error) {
	row, err := c.q.GetOrderStatus(ctx, int16(status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("q.GetOrderStatus[%d]: %w", status, domain.ErrInvalidStatus)
		}
		return "", fmt.Errorf("q.GetOrderStatus[%d]: %w", status, err)
	}

	return row.Name, nil
}

// EnsureStatus inserts the catalog row for status unless it already exists.
func (c *statusCatalog) EnsureStatus(ctx context.Context, status domain.OrderStatus) error {
	if _, err := domain.ToOrderStatus(int(status)); err != nil {
		return err
	}

	arg := db.UpsertOrderStatusParams{ID: int16(status), Name: status.String()}
	if err := c.q.UpsertOrderStatus(ctx, arg); err != nil {
		return fmt.Errorf("q.UpsertOrderStatus[%d]: %w", status, err)
	}

	return nil
}

// SeedStatusCatalog makes sure every known status has a catalog row.
func SeedStatusCatalog(ctx context.Context, catalog port.StatusCatalog) error {
	for _, status := range domain.OrderStatuses() {
		if err := catalog.EnsureStatus(ctx, status); err != nil {
			return fmt.Errorf("catalog.EnsureStatus: %w", err)
		}
	}

	return nil
}
