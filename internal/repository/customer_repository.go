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

type customerRepository struct {
	q *db.Queries
}

func NewCustomer(pool *pgxpool.Pool) port.CustomerRepository {
	return &customerRepository{q: db.New(pool)}
}

func NewCustomerWithTx(tx pgx.Tx) port.CustomerRepository {
	return &customerRepository{q: db.New(tx)}
}

func (r *customerRepository) GetCustomer(ctx context.Context, customerID int64) (domain.Customer, error) {
	row, err := r.q.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("q.GetCustomer[%d]: %w", customerID, domain.ErrCustomerNotFound)
		}
		return domain.Customer{}, fmt.Errorf("q.GetCustomer[%d]: %w", customerID, err)
	}

	return domain.Customer{
		ID:       row.ID,
		FullName: row.FullName,
		Email:    row.Email,
	}, nil
}
