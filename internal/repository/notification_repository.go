package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/db"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
	"github.com/samber/lo"
)

type notificationRepository struct {
	q *db.Queries
}

func NewNotification(pool *pgxpool.Pool) port.NotificationRepository {
	return &notificationRepository{q: db.New(pool)}
}

func NewNotificationWithTx(tx pgx.Tx) port.NotificationRepository {
	return &notificationRepository{q: db.New(tx)}
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n domain.Notification) error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("notification ID is empty")
	}

	arg := db.InsertNotificationParams{
		ID:            n.ID,
		CustomerID:    n.CustomerID,
		OrderID:       n.OrderID,
		Title:         n.Title,
		Message:       n.Message,
		StatusName:    n.StatusName,
		InvoiceNumber: n.InvoiceNumber.String(),
	}

	if err := r.q.InsertNotification(ctx, arg); err != nil {
		return fmt.Errorf("q.InsertNotification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListNotifications(ctx context.Context, customerID int64, unreadOnly bool) ([]domain.Notification, error) {
	rows, err := r.q.ListNotifications(ctx, db.ListNotificationsParams{
		CustomerID: customerID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("q.ListNotifications: %w", err)
	}

	return lo.Map(rows, func(row db.Notification, _ int) domain.Notification {
		return domain.Notification{
			ID:            row.ID,
			CustomerID:    row.CustomerID,
			OrderID:       row.OrderID,
			Title:         row.Title,
			Message:       row.Message,
			Read:          row.Read,
			StatusName:    row.StatusName,
			InvoiceNumber: domain.InvoiceNumber(row.InvoiceNumber),
			CreatedAt:     row.CreatedAt,
		}
	}), nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	rowsAffected, err := r.q.MarkNotificationRead(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("q.MarkNotificationRead: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.MarkNotificationRead: %w", domain.ErrNotificationNotFound)
	}

	return nil
}
