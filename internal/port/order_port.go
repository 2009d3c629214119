package port

import (
	"context"

	"github.com/nikolayk812/orderflow/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	InvoiceNumberExists(ctx context.Context, number domain.InvoiceNumber) (bool, error)

	// InsertOrder stores the order and its lines and returns the new ID.
	InsertOrder(ctx context.Context, order domain.Order) (int64, error)

	// UpdateOrderStatus fails with domain.ErrConcurrentUpdate when expectedVersion is stale.
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, expectedVersion int64) error

	DeleteOrder(ctx context.Context, orderID int64) error
}

type ProductRepository interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)

	// AdjustStock adds delta to the stock; a negative delta that would drop stock
	// below zero fails with *domain.InsufficientStockError.
	AdjustStock(ctx context.Context, productID int64, delta int32) error
}

type StatusCatalog interface {
	GetStatus(ctx context.Context, status domain.OrderStatus) (string, error)
	EnsureStatus(ctx context.Context, status domain.OrderStatus) error
}

type CustomerRepository interface {
	GetCustomer(ctx context.Context, customerID int64) (domain.Customer, error)
}

// Store groups repositories that share one transaction.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	Statuses() StatusCatalog
	Customers() CustomerRepository
	Notifications() NotificationRepository
}

// UnitOfWork runs fn in a transaction, retrying the whole unit on transient failures.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
