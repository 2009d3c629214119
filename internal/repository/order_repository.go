package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/db"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	return withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		var o domain.Order

		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbLines, err := q.GetOrderLines(ctx, []int64{orderID})
		if err != nil {
			return o, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		order, err := mapDBOrderToDomain(dbOrder, dbLines)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return order, nil
	})
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	return withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.Order, error) {
		dbOrders, err := q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
		if err != nil {
			return nil, fmt.Errorf("q.SearchOrders: %w", err)
		}

		if len(dbOrders) == 0 {
			return nil, nil
		}

		orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) int64 { return o.ID })

		dbLines, err := q.GetOrderLines(ctx, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		linesByOrder := lo.GroupBy(dbLines, func(l db.GetOrderLinesRow) int64 { return l.OrderID })

		orders := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, linesByOrder[dbOrder.ID])
			if err != nil {
				return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			orders = append(orders, order)
		}

		return orders, nil
	})
}

func (r *orderRepository) InvoiceNumberExists(ctx context.Context, number domain.InvoiceNumber) (bool, error) {
	exists, err := r.q.InvoiceNumberExists(ctx, number.String())
	if err != nil {
		return false, fmt.Errorf("q.InvoiceNumberExists: %w", err)
	}

	return exists, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (int64, error) {
	if len(order.Lines) == 0 {
		return 0, domain.ErrEmptyOrder
	}

	return withTx(ctx, r.dbtx, func(q *db.Queries) (int64, error) {
		orderID, err := q.InsertOrder(ctx, db.InsertOrderParams{
			InvoiceNumber: order.InvoiceNumber.String(),
			CustomerID:    order.CustomerID,
			PaymentAmount: order.Payment.Amount,
			ChangeAmount:  order.Change.Amount,
			TotalAmount:   order.Total.Amount,
			Currency:      order.Total.Currency.String(),
			StatusID:      int16(order.Status),
		})
		if err != nil {
			return 0, fmt.Errorf("q.InsertOrder: %w", err)
		}

		// TODO: batch with pgx.Batch once orders routinely carry many lines
		for _, line := range order.Lines {
			arg := db.InsertOrderLineParams{
				OrderID:      orderID,
				ProductID:    line.ProductID,
				SupplierID:   line.SupplierID,
				ProductName:  line.ProductName,
				ProductCode:  line.ProductCode,
				ProductImage: line.ProductImage,
				CategoryName: line.CategoryName,
				UnitPrice:    line.UnitPrice.Amount,
				Quantity:     line.Quantity,
				LineTotal:    line.LineTotal.Amount,
			}
			if err := q.InsertOrderLine(ctx, arg); err != nil {
				return 0, fmt.Errorf("q.InsertOrderLine: %w", err)
			}
		}

		return orderID, nil
	})
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, expectedVersion int64) error {
	if orderID == 0 {
		return fmt.Errorf("orderID is empty")
	}
	if status == 0 {
		return fmt.Errorf("status is empty")
	}

	_, err := withTx(ctx, r.dbtx, func(q *db.Queries) (struct{}, error) {
		rowsAffected, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			ID:       orderID,
			StatusID: int16(status),
			Version:  expectedVersion,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.UpdateOrderStatus: %w", err)
		}

		if rowsAffected > 0 {
			return struct{}{}, nil
		}

		// nothing updated: either the order is gone or somebody else bumped the version
		if _, err := q.GetOrder(ctx, orderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return struct{}{}, fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrNotFound)
			}
			return struct{}{}, fmt.Errorf("q.GetOrder: %w", err)
		}

		return struct{}{}, fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrConcurrentUpdate)
	})

	return err
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID == 0 {
		return fmt.Errorf("orderID is empty")
	}

	cmdTag, err := r.q.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("q.DeleteOrder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteOrder: %w", domain.ErrNotFound)
	}

	return nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	createdAfter, createdBefore := filterTimes(filter.CreatedAt)

	return db.SearchOrdersParams{
		CustomerIds: nilSliceIfEmpty(filter.CustomerIDs),
		Statuses: nilSliceIfEmpty(lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) int16 {
			return int16(s)
		})),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
		RowLimit:      filter.EffectiveLimit(),
	}
}

func mapDBOrderToDomain(dbOrder db.Order, dbLines []db.GetOrderLinesRow) (domain.Order, error) {
	var o domain.Order

	unit, err := currency.ParseISO(dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", dbOrder.Currency, err)
	}

	status, err := domain.ToOrderStatus(int(dbOrder.StatusID))
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%d]: %w", dbOrder.StatusID, err)
	}

	invoice, err := domain.ParseInvoiceNumber(dbOrder.InvoiceNumber)
	if err != nil {
		return o, fmt.Errorf("domain.ParseInvoiceNumber: %w", err)
	}

	lines := lo.Map(dbLines, func(row db.GetOrderLinesRow, _ int) domain.OrderLine {
		return mapDBOrderLineToDomain(row, unit)
	})

	return domain.Order{
		ID:            dbOrder.ID,
		InvoiceNumber: invoice,
		CustomerID:    dbOrder.CustomerID,
		Payment:       domain.NewMoney(dbOrder.PaymentAmount, unit),
		Change:        domain.NewMoney(dbOrder.ChangeAmount, unit),
		Total:         domain.NewMoney(dbOrder.TotalAmount, unit),
		Status:        status,
		Lines:         lines,
		Version:       dbOrder.Version,
		CreatedAt:     dbOrder.CreatedAt,
		UpdatedAt:     dbOrder.UpdatedAt,
	}, nil
}

func mapDBOrderLineToDomain(row db.GetOrderLinesRow, unit currency.Unit) domain.OrderLine {
	return domain.OrderLine{
		ProductID:    row.ProductID,
		SupplierID:   row.SupplierID,
		ProductName:  row.ProductName,
		ProductCode:  row.ProductCode,
		ProductImage: row.ProductImage,
		CategoryName: row.CategoryName,
		UnitPrice:    domain.NewMoney(row.UnitPrice, unit),
		Quantity:     row.Quantity,
		LineTotal:    domain.NewMoney(row.LineTotal, unit),
	}
}

func filterTimes(tr *domain.TimeRange) (after, before *time.Time) {
	if tr == nil {
		return nil, nil
	}
	return tr.After, tr.Before
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
