package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
)

type NotificationService struct {
	notifications port.NotificationRepository
}

func NewNotificationService(notifications port.NotificationRepository) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notifications is nil")
	}
	return &NotificationService{notifications: notifications}, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, customerID int64, unreadOnly bool) ([]domain.Notification, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("customerID is empty")
	}

	list, err := s.notifications.ListNotifications(ctx, customerID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("notifications.ListNotifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return fmt.Errorf("notificationID is empty")
	}

	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("notifications.MarkRead: %w", err)
	}
	return nil
}
