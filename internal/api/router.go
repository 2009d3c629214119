package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/service"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (service.CreateOrderResult, error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID int64, target domain.OrderStatus, mode domain.DeliveryMode) (domain.TransitionOutcome, error)
	ProcessReturn(ctx context.Context, orderID int64, mode domain.DeliveryMode) (domain.TransitionOutcome, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type NotificationService interface {
	ListNotifications(ctx context.Context, customerID int64, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(orders OrderService, notifications NotificationService, db Pinger, requestTimeout time.Duration) http.Handler {
	orderHandler := NewOrderHandler(orders)
	notificationHandler := NewNotificationHandler(notifications)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.SearchOrders)
		r.Route("/{order_id}", func(r chi.Router) {
			r.Get("/", orderHandler.GetOrder)
			r.Delete("/", orderHandler.DeleteOrder)
			r.Put("/status", orderHandler.ChangeOrderStatus)
			r.Post("/return", orderHandler.ProcessReturn)
		})
	})

	r.Get("/customers/{customer_id}/notifications", notificationHandler.ListNotifications)
	r.Put("/notifications/{notification_id}/read", notificationHandler.MarkRead)

	return otelhttp.NewHandler(r, "orderflow")
}
