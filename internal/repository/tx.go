package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/db"
	"github.com/nikolayk812/orderflow/internal/port"
)

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	var zero T

	// Already in a transaction, just use it
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(db.New(tx))
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	var result T
	err := inTx(ctx, pool, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(db.New(tx))
		return fnErr
	})
	if err != nil {
		return zero, fmt.Errorf("withTx: %w", err)
	}

	return result, nil
}

func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	// Ensure proper rollback handling
	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      4,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

const invoiceUniqueConstraint = "orders_invoice_number_key"

// IsTransient reports whether err is worth retrying the whole unit for.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		case strings.HasPrefix(pgErr.Code, "08"):
			return true
		case pgErr.Code == "23505" && pgErr.ConstraintName == invoiceUniqueConstraint:
			// two units drew the same invoice number; the retry draws again
			return true
		}
		return false
	}

	return pgconn.SafeToRetry(err)
}

// UnitOfWork runs a function in one transaction and retries it from scratch
// on transient failures.
type UnitOfWork struct {
	pool   *pgxpool.Pool
	policy RetryPolicy
}

func NewUnitOfWork(pool *pgxpool.Pool, policy RetryPolicy) *UnitOfWork {
	return &UnitOfWork{pool: pool, policy: policy}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, store port.Store) error) error {
	attempt := 0

	op := func() error {
		attempt++

		err := inTx(ctx, u.pool, func(tx pgx.Tx) error {
			return fn(ctx, newTxStore(tx))
		})
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("transient failure, retrying unit of work",
			"method", "UnitOfWork.Do",
			"attempt", attempt,
			"wait", wait,
			"error", err)
	}

	if err := backoff.RetryNotify(op, u.policy.backOff(ctx), notify); err != nil {
		if IsTransient(err) {
			return fmt.Errorf("unit of work failed after %d attempts: %w", attempt, err)
		}
		return err
	}

	return nil
}
