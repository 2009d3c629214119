package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
)

type NotificationRepository interface {
	InsertNotification(ctx context.Context, n domain.Notification) error
	ListNotifications(ctx context.Context, customerID int64, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
}

// EmailSender delivers a notification inline. The bool reports whether the mail server accepted it.
type EmailSender interface {
	Send(ctx context.Context, n domain.OutboundNotification) (bool, error)
}

// QueueProducer hands a notification to the out-of-band mail worker.
type QueueProducer interface {
	Enqueue(ctx context.Context, n domain.OutboundNotification) error
}
