package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/notification"
	"github.com/nikolayk812/orderflow/internal/template"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubOrders struct {
	orders map[int64]domain.Order
}

func (s stubOrders) GetOrder(_ context.Context, orderID int64) (domain.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (s stubOrders) SearchOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (s stubOrders) InvoiceNumberExists(context.Context, domain.InvoiceNumber) (bool, error) {
	return false, nil
}

func (s stubOrders) InsertOrder(context.Context, domain.Order) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s stubOrders) UpdateOrderStatus(context.Context, int64, domain.OrderStatus, int64) error {
	return errors.New("not implemented")
}

func (s stubOrders) DeleteOrder(context.Context, int64) error {
	return errors.New("not implemented")
}

type stubCustomers struct {
	customer domain.Customer
}

func (s stubCustomers) GetCustomer(_ context.Context, customerID int64) (domain.Customer, error) {
	if customerID != s.customer.ID {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return s.customer, nil
}

type recordingNotifications struct {
	mu      sync.Mutex
	records []domain.Notification
}

func (r *recordingNotifications) InsertNotification(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, n)
	return nil
}

func (r *recordingNotifications) ListNotifications(context.Context, int64, bool) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records, nil
}

func (r *recordingNotifications) MarkRead(context.Context, uuid.UUID) error {
	return nil
}

type slowSender struct {
	delay time.Duration
	ok    bool
	err   error
	sent  []domain.OutboundNotification
}

func (s *slowSender) Send(ctx context.Context, n domain.OutboundNotification) (bool, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return false, ctx.Err()
	}
	s.sent = append(s.sent, n)
	return s.ok, s.err
}

type instantProducer struct {
	queued []domain.OutboundNotification
}

func (p *instantProducer) Enqueue(_ context.Context, n domain.OutboundNotification) error {
	p.queued = append(p.queued, n)
	return nil
}

type setup struct {
	order         domain.Order
	customer      domain.Customer
	sender        *slowSender
	producer      *instantProducer
	notifications *recordingNotifications
	dispatcher    *notification.Dispatcher
}

func newSetup(t *testing.T, senderDelay time.Duration) setup {
	t.Helper()

	price := domain.NewMoney(decimal.RequireFromString("12.50"), currency.EUR)
	line := domain.NewOrderLine(domain.Product{
		ID:           9,
		Code:         gofakeit.LetterN(6),
		Name:         gofakeit.ProductName(),
		CategoryName: gofakeit.ProductCategory(),
	}, 2, price, 2)

	order := domain.Order{
		ID:            42,
		InvoiceNumber: "K-314",
		CustomerID:    7,
		Payment:       domain.NewMoney(decimal.RequireFromString("30"), currency.EUR),
		Status:        domain.OrderStatusDispatched,
		Lines:         []domain.OrderLine{line},
		CreatedAt:     time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, order.Settle())

	customer := domain.Customer{ID: 7, FullName: gofakeit.Name(), Email: gofakeit.Email()}

	sender := &slowSender{delay: senderDelay, ok: true}
	producer := &instantProducer{}
	notifications := &recordingNotifications{}

	engine, err := template.NewEngine()
	require.NoError(t, err)
	syncDelivery, err := notification.NewSyncDelivery(sender)
	require.NoError(t, err)
	asyncDelivery, err := notification.NewAsyncDelivery(producer)
	require.NoError(t, err)

	dispatcher, err := notification.NewDispatcher(
		stubOrders{orders: map[int64]domain.Order{order.ID: order}},
		stubCustomers{customer: customer},
		notifications,
		engine,
		syncDelivery, asyncDelivery,
	)
	require.NoError(t, err)

	return setup{
		order:         order,
		customer:      customer,
		sender:        sender,
		producer:      producer,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

func TestNewDispatcher_RequiresBothModes(t *testing.T) {
	engine, err := template.NewEngine()
	require.NoError(t, err)
	asyncDelivery, err := notification.NewAsyncDelivery(&instantProducer{})
	require.NoError(t, err)

	_, err = notification.NewDispatcher(stubOrders{}, stubCustomers{}, &recordingNotifications{}, engine, asyncDelivery)
	assert.Error(t, err)

	_, err = notification.NewDispatcher(stubOrders{}, stubCustomers{}, &recordingNotifications{}, nil, asyncDelivery)
	assert.Error(t, err)
}

func TestDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name string
		mode domain.DeliveryMode
	}{
		{name: "sync", mode: domain.DeliverySync},
		{name: "async", mode: domain.DeliveryAsync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup(t, 0)

			report, err := s.dispatcher.Dispatch(context.Background(), s.order.ID, tt.mode)
			require.NoError(t, err)

			assert.True(t, report.Delivered)
			assert.NoError(t, report.Err)
			assert.Equal(t, tt.mode, report.Mode)

			require.Len(t, s.notifications.records, 1)
			record := s.notifications.records[0]
			assert.Equal(t, report.NotificationID, record.ID.String())
			assert.Equal(t, "Order K-314: Dispatched", record.Title)
			assert.Equal(t, s.customer.ID, record.CustomerID)

			var outbound domain.OutboundNotification
			if tt.mode == domain.DeliverySync {
				require.Len(t, s.sender.sent, 1)
				assert.Empty(t, s.producer.queued)
				outbound = s.sender.sent[0]
			} else {
				require.Len(t, s.producer.queued, 1)
				assert.Empty(t, s.sender.sent)
				outbound = s.producer.queued[0]
			}

			assert.Equal(t, s.customer.Email, outbound.To)
			assert.Equal(t, "25.00", outbound.Total)
			assert.Equal(t, "5.00", outbound.Change)
			assert.Equal(t, "EUR", outbound.Currency)
			assert.Contains(t, outbound.Body, "K-314")
			assert.Contains(t, outbound.Body, s.customer.FullName)
			assert.Contains(t, outbound.Body, "Dispatched")
		})
	}
}

func TestDispatcher_Dispatch_DeliveryFailureKeepsRecord(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantErr error
	}{
		{name: "mail server rejects", ok: false, wantErr: notification.ErrRejectedByMailServer},
		{name: "mail server unreachable", err: context.DeadlineExceeded, wantErr: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup(t, 0)
			s.sender.ok = tt.ok
			s.sender.err = tt.err

			report, err := s.dispatcher.Dispatch(context.Background(), s.order.ID, domain.DeliverySync)
			require.NoError(t, err)

			assert.False(t, report.Delivered)
			assert.ErrorIs(t, report.Err, tt.wantErr)
			assert.Len(t, s.notifications.records, 1)
		})
	}
}

func TestDispatcher_Dispatch_UnknownOrder(t *testing.T) {
	s := newSetup(t, 0)

	_, err := s.dispatcher.Dispatch(context.Background(), 404, domain.DeliveryAsync)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.notifications.records)
}

func TestDispatcher_Dispatch_UnknownMode(t *testing.T) {
	s := newSetup(t, 0)

	report, err := s.dispatcher.Dispatch(context.Background(), s.order.ID, domain.DeliveryMode(7))
	require.ErrorIs(t, err, notification.ErrUnknownDeliveryMode)
	assert.Contains(t, err.Error(), "DeliveryMode(7)")
	assert.False(t, report.Delivered)
	assert.Empty(t, s.notifications.records)
}

func TestDispatcher_AsyncReturnsBeforeMailServer(t *testing.T) {
	const mailLatency = 150 * time.Millisecond

	s := newSetup(t, mailLatency)
	ctx := context.Background()

	start := time.Now()
	_, err := s.dispatcher.Dispatch(ctx, s.order.ID, domain.DeliverySync)
	require.NoError(t, err)
	syncElapsed := time.Since(start)

	start = time.Now()
	_, err = s.dispatcher.Dispatch(ctx, s.order.ID, domain.DeliveryAsync)
	require.NoError(t, err)
	asyncElapsed := time.Since(start)

	assert.GreaterOrEqual(t, syncElapsed, mailLatency)
	assert.Less(t, asyncElapsed, syncElapsed)
	assert.Len(t, s.notifications.records, 2)
}
