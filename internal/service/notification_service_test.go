package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.createWidgetOrder(t, 1)
	_, err := f.svc.ChangeOrderStatus(ctx, order.ID, domain.OrderStatusDispatched, domain.DeliveryAsync)
	require.NoError(t, err)

	svc, err := service.NewNotificationService(f.mem.store().Notifications())
	require.NoError(t, err)

	all, err := svc.ListNotifications(ctx, customerID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, order.ID, all[0].OrderID)

	require.NoError(t, svc.MarkRead(ctx, all[0].ID))

	unread, err := svc.ListNotifications(ctx, customerID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, all[1].ID, unread[0].ID)

	err = svc.MarkRead(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)

	_, err = svc.ListNotifications(ctx, 0, false)
	assert.Error(t, err)
}
