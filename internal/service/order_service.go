package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"golang.org/x/text/currency"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, orderID int64, mode domain.DeliveryMode) (domain.DispatchReport, error)
}

type CreateOrderLine struct {
	ProductID  int64
	SupplierID int64
	Quantity   int32
	// UnitPrice falls back to the product's sale price when nil.
	UnitPrice *domain.Money
}

type CreateOrderRequest struct {
	CustomerID int64
	Payment    domain.Money
	Lines      []CreateOrderLine
	Mode       domain.DeliveryMode
}

func (r CreateOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return errors.New("customerID is empty")
	}
	if len(r.Lines) == 0 {
		return domain.ErrEmptyOrder
	}
	if r.Payment.Amount.IsNegative() {
		return errors.New("payment is negative")
	}

	for i, line := range r.Lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("lines[%d]: productID is empty", i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("lines[%d]: quantity must be positive", i)
		}
		if line.UnitPrice != nil && line.UnitPrice.Amount.IsNegative() {
			return fmt.Errorf("lines[%d]: unit price is negative", i)
		}
	}

	return nil
}

type CreateOrderResult struct {
	Order    domain.Order
	Dispatch domain.DispatchReport
}

type OrderService struct {
	uow        port.UnitOfWork
	orders     port.OrderRepository
	dispatcher Dispatcher
	invoices   domain.InvoiceGenerator
	currency   currency.Unit
}

func NewOrderService(
	uow port.UnitOfWork,
	orders port.OrderRepository,
	dispatcher Dispatcher,
	invoices domain.InvoiceGenerator,
	unit currency.Unit,
) (*OrderService, error) {
	if uow == nil {
		return nil, fmt.Errorf("uow is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil")
	}

	return &OrderService{
		uow:        uow,
		orders:     orders,
		dispatcher: dispatcher,
		invoices:   invoices,
		currency:   unit,
	}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}
	return order, nil
}

func (s *OrderService) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}
	return orders, nil
}

// CreateOrder stores the order, its lines and the stock decrements as one unit,
// then dispatches the Received notification.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error) {
	if err := req.Validate(); err != nil {
		return CreateOrderResult{}, fmt.Errorf("req.Validate: %w", err)
	}

	var orderID int64

	err := s.uow.Do(ctx, func(ctx context.Context, store port.Store) error {
		if _, err := store.Customers().GetCustomer(ctx, req.CustomerID); err != nil {
			return fmt.Errorf("customers.GetCustomer: %w", err)
		}

		invoice, err := s.invoices.Next(ctx, store.Orders().InvoiceNumberExists)
		if err != nil {
			return fmt.Errorf("invoices.Next: %w", err)
		}

		order := domain.Order{
			InvoiceNumber: invoice,
			CustomerID:    req.CustomerID,
			Payment:       domain.NewMoney(req.Payment.Amount, s.currency),
			Status:        domain.OrderStatusReceived,
		}

		for _, reqLine := range req.Lines {
			line, err := s.takeFromStock(ctx, store.Products(), reqLine)
			if err != nil {
				return err
			}
			order.Lines = append(order.Lines, line)
		}

		if err := order.Settle(); err != nil {
			return fmt.Errorf("order.Settle: %w", err)
		}

		orderID, err = store.Orders().InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("orders.InsertOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		slog.Error("order creation failed",
			"method", "OrderService.CreateOrder",
			"customer_id", req.CustomerID,
			"error", err)
		return CreateOrderResult{}, fmt.Errorf("uow.Do: %w", err)
	}

	report := s.dispatch(ctx, orderID, req.Mode)

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return CreateOrderResult{Order: order, Dispatch: report}, nil
}

func (s *OrderService) takeFromStock(ctx context.Context, products port.ProductRepository, req CreateOrderLine) (domain.OrderLine, error) {
	product, err := products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	if product.SalePrice.Currency.String() != s.currency.String() {
		return domain.OrderLine{}, fmt.Errorf("product[%d] priced in %s, orders settle in %s: %w",
			product.ID, product.SalePrice.Currency, s.currency, domain.ErrCurrencyMismatch)
	}

	if req.Quantity > product.Stock {
		return domain.OrderLine{}, &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: req.Quantity,
			Available: product.Stock,
		}
	}

	unitPrice := product.SalePrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	unitPrice = domain.NewMoney(unitPrice.Amount, s.currency)

	if err := products.AdjustStock(ctx, product.ID, -req.Quantity); err != nil {
		return domain.OrderLine{}, fmt.Errorf("products.AdjustStock: %w", err)
	}

	return domain.NewOrderLine(product, req.SupplierID, unitPrice, req.Quantity), nil
}

// ChangeOrderStatus applies one step of the state machine. The order is loaded
// before target is validated, so a missing order wins over an unknown status.
// A transition the table does not allow comes back as a rejected outcome with a nil error.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, orderID int64, target domain.OrderStatus, mode domain.DeliveryMode) (domain.TransitionOutcome, error) {
	if target.Restocks() {
		return s.ProcessReturn(ctx, orderID, mode)
	}

	var outcome domain.TransitionOutcome

	err := s.uow.Do(ctx, func(ctx context.Context, store port.Store) error {
		order, err := store.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		if _, err := domain.ToOrderStatus(int(target)); err != nil {
			return fmt.Errorf("domain.ToOrderStatus: %w", err)
		}

		if _, err := store.Statuses().GetStatus(ctx, target); err != nil {
			return fmt.Errorf("statuses.GetStatus: %w", err)
		}

		outcome = domain.CheckTransition(order, target)
		if !outcome.Applied {
			return nil
		}

		if err := store.Orders().UpdateOrderStatus(ctx, order.ID, target, order.Version); err != nil {
			return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logTransitionFailure("OrderService.ChangeOrderStatus", orderID, target, err)
		return domain.TransitionOutcome{}, fmt.Errorf("uow.Do: %w", err)
	}

	if !outcome.Applied {
		slog.Info("order status transition rejected",
			"method", "OrderService.ChangeOrderStatus",
			"order_id", orderID,
			"from", outcome.From.String(),
			"to", target.String(),
			"reason", outcome.Reason)
		return outcome, nil
	}

	outcome.Dispatch = s.dispatch(ctx, orderID, mode)

	return outcome, nil
}

// ProcessReturn completes a requested return: every line goes back to stock and
// the order becomes Return Completed, in one unit.
func (s *OrderService) ProcessReturn(ctx context.Context, orderID int64, mode domain.DeliveryMode) (domain.TransitionOutcome, error) {
	target := domain.OrderStatusReturnCompleted

	var outcome domain.TransitionOutcome

	err := s.uow.Do(ctx, func(ctx context.Context, store port.Store) error {
		order, err := store.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		outcome = domain.CheckTransition(order, target)
		if !outcome.Applied {
			return nil
		}

		for _, line := range order.Lines {
			if err := store.Products().AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("products.AdjustStock: %w", err)
			}
		}

		if err := store.Statuses().EnsureStatus(ctx, target); err != nil {
			return fmt.Errorf("statuses.EnsureStatus: %w", err)
		}

		if err := store.Orders().UpdateOrderStatus(ctx, order.ID, target, order.Version); err != nil {
			return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logTransitionFailure("OrderService.ProcessReturn", orderID, target, err)
		return domain.TransitionOutcome{}, fmt.Errorf("uow.Do: %w", err)
	}

	if !outcome.Applied {
		slog.Info("return rejected",
			"method", "OrderService.ProcessReturn",
			"order_id", orderID,
			"from", outcome.From.String(),
			"reason", outcome.Reason)
		return outcome, nil
	}

	outcome.Dispatch = s.dispatch(ctx, orderID, mode)

	return outcome, nil
}

// DeleteOrder removes an order for good. Stock taken by the order is given back
// unless the return already did that.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	err := s.uow.Do(ctx, func(ctx context.Context, store port.Store) error {
		order, err := store.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		if order.Status != domain.OrderStatusReturnCompleted {
			for _, line := range order.Lines {
				if err := store.Products().AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
					return fmt.Errorf("products.AdjustStock: %w", err)
				}
			}
		}

		if err := store.Orders().DeleteOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("orders.DeleteOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("uow.Do: %w", err)
	}

	return nil
}

// dispatch runs after commit; its failure is logged and reported, never rolled back.
func (s *OrderService) dispatch(ctx context.Context, orderID int64, mode domain.DeliveryMode) domain.DispatchReport {
	report, err := s.dispatcher.Dispatch(ctx, orderID, mode)
	if err != nil {
		report.Mode = mode
		report.Err = err
		slog.Error("notification dispatch failed",
			"method", "OrderService.dispatch",
			"order_id", orderID,
			"mode", mode.String(),
			"error", err)
	}
	return report
}

func (s *OrderService) logTransitionFailure(method string, orderID int64, target domain.OrderStatus, err error) {
	slog.Error("order status transition failed",
		"method", method,
		"order_id", orderID,
		"to", target.String(),
		"error", err)
}
