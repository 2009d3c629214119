package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"github.com/nikolayk812/orderflow/internal/template"
	"github.com/samber/lo"
)

var ErrUnknownDeliveryMode = errors.New("unknown delivery mode")

// Dispatcher records the internal notification for an order status change and
// hands the outbound email to the delivery strategy picked by the caller.
type Dispatcher struct {
	orders        port.OrderRepository
	customers     port.CustomerRepository
	notifications port.NotificationRepository
	engine        *template.Engine
	deliveries    map[domain.DeliveryMode]Delivery
}

func NewDispatcher(
	orders port.OrderRepository,
	customers port.CustomerRepository,
	notifications port.NotificationRepository,
	engine *template.Engine,
	deliveries ...Delivery,
) (*Dispatcher, error) {
	if orders == nil || customers == nil || notifications == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}

	byMode := make(map[domain.DeliveryMode]Delivery, len(deliveries))
	for _, d := range deliveries {
		byMode[d.Mode()] = d
	}

	for _, mode := range []domain.DeliveryMode{domain.DeliverySync, domain.DeliveryAsync} {
		if _, ok := byMode[mode]; !ok {
			return nil, fmt.Errorf("no delivery for mode %s", mode)
		}
	}

	return &Dispatcher{
		orders:        orders,
		customers:     customers,
		notifications: notifications,
		engine:        engine,
		deliveries:    byMode,
	}, nil
}

// Dispatch never fails after the Notification record is stored; a delivery error
// is reported in the DispatchReport instead.
func (d *Dispatcher) Dispatch(ctx context.Context, orderID int64, mode domain.DeliveryMode) (domain.DispatchReport, error) {
	report := domain.DispatchReport{Mode: mode}

	delivery, ok := d.deliveries[mode]
	if !ok {
		return report, fmt.Errorf("mode[%s]: %w", mode, ErrUnknownDeliveryMode)
	}

	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return report, fmt.Errorf("orders.GetOrder: %w", err)
	}

	customer, err := d.customers.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return report, fmt.Errorf("customers.GetCustomer: %w", err)
	}

	record := domain.NewStatusNotification(order)
	if err := d.notifications.InsertNotification(ctx, record); err != nil {
		return report, fmt.Errorf("notifications.InsertNotification: %w", err)
	}
	report.NotificationID = record.ID.String()

	outbound, err := d.buildOutbound(order, customer, record)
	if err != nil {
		report.Err = err
		d.logFailure(order, mode, err)
		return report, nil
	}

	if err := delivery.Deliver(ctx, outbound); err != nil {
		report.Err = err
		d.logFailure(order, mode, err)
		return report, nil
	}

	report.Delivered = true
	return report, nil
}

func (d *Dispatcher) buildOutbound(order domain.Order, customer domain.Customer, record domain.Notification) (domain.OutboundNotification, error) {
	outbound := domain.OutboundNotification{
		MessageID:        uuid.New(),
		To:               customer.Email,
		Subject:          record.Title,
		OrderID:          order.ID,
		InvoiceNumber:    order.InvoiceNumber.String(),
		StatusName:       record.StatusName,
		RegisteredAt:     order.CreatedAt,
		CustomerFullName: customer.FullName,
		CustomerEmail:    customer.Email,
		Total:            order.Total.Amount.StringFixed(2),
		Payment:          order.Payment.Amount.StringFixed(2),
		Change:           order.Change.Amount.StringFixed(2),
		Currency:         order.Total.Currency.String(),
		Lines: lo.Map(order.Lines, func(line domain.OrderLine, _ int) domain.OutboundLineDetail {
			return domain.OutboundLineDetail{
				ProductName:  line.ProductName,
				ProductCode:  line.ProductCode,
				ProductImage: line.ProductImage,
				CategoryName: line.CategoryName,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice.Amount.StringFixed(2),
				Subtotal:     line.LineTotal.Amount.StringFixed(2),
			}
		}),
	}

	body, err := d.engine.Execute(template.OrderStatusEmail, outbound)
	if err != nil {
		return outbound, fmt.Errorf("engine.Execute: %w", err)
	}
	outbound.Body = body

	return outbound, nil
}

func (d *Dispatcher) logFailure(order domain.Order, mode domain.DeliveryMode, err error) {
	slog.Warn("notification delivery failed",
		"method", "Dispatcher.Dispatch",
		"order_id", order.ID,
		"invoice_number", order.InvoiceNumber,
		"status", order.Status.String(),
		"mode", mode.String(),
		"error", err)
}
