package service_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/port"
)

// memState is an in-memory copy of the tables the service touches.
type memState struct {
	orders        map[int64]domain.Order
	products      map[int64]domain.Product
	customers     map[int64]domain.Customer
	statuses      map[domain.OrderStatus]string
	notifications []domain.Notification
	nextOrderID   int64
}

func newMemState() *memState {
	statuses := make(map[domain.OrderStatus]string)
	for _, s := range domain.OrderStatuses() {
		statuses[s] = s.String()
	}

	return &memState{
		orders:    make(map[int64]domain.Order),
		products:  make(map[int64]domain.Product),
		customers: make(map[int64]domain.Customer),
		statuses:  statuses,
	}
}

func (s *memState) clone() *memState {
	orders := make(map[int64]domain.Order, len(s.orders))
	for id, o := range s.orders {
		o.Lines = slices.Clone(o.Lines)
		orders[id] = o
	}

	return &memState{
		orders:        orders,
		products:      maps.Clone(s.products),
		customers:     maps.Clone(s.customers),
		statuses:      maps.Clone(s.statuses),
		notifications: slices.Clone(s.notifications),
		nextOrderID:   s.nextOrderID,
	}
}

// memDB commits a unit only when fn succeeds, like a real transaction.
type memDB struct {
	mu    sync.Mutex
	state *memState
}

func newMemDB() *memDB {
	return &memDB{state: newMemState()}
}

func (m *memDB) Do(ctx context.Context, fn func(ctx context.Context, store port.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	direct := func(f func(*memState) error) error { return f(work) }

	if err := fn(ctx, memStore{with: direct}); err != nil {
		return err
	}

	m.state = work
	return nil
}

func (m *memDB) locked(f func(*memState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return f(m.state)
}

func (m *memDB) store() memStore {
	return memStore{with: m.locked}
}

func (m *memDB) product(id int64) domain.Product {
	var p domain.Product
	_ = m.locked(func(s *memState) error { p = s.products[id]; return nil })
	return p
}

func (m *memDB) order(id int64) domain.Order {
	var o domain.Order
	_ = m.locked(func(s *memState) error { o = s.orders[id]; return nil })
	return o
}

func (m *memDB) notificationCount() int {
	var n int
	_ = m.locked(func(s *memState) error { n = len(s.notifications); return nil })
	return n
}

func (m *memDB) putOrder(o domain.Order) {
	_ = m.locked(func(s *memState) error { s.orders[o.ID] = o; return nil })
}

func (m *memDB) putProduct(p domain.Product) {
	_ = m.locked(func(s *memState) error { s.products[p.ID] = p; return nil })
}

func (m *memDB) putCustomer(c domain.Customer) {
	_ = m.locked(func(s *memState) error { s.customers[c.ID] = c; return nil })
}

type memStore struct {
	with func(func(*memState) error) error
}

func (s memStore) Orders() port.OrderRepository               { return memOrders(s) }
func (s memStore) Products() port.ProductRepository           { return memProducts(s) }
func (s memStore) Statuses() port.StatusCatalog               { return memStatuses(s) }
func (s memStore) Customers() port.CustomerRepository         { return memCustomers(s) }
func (s memStore) Notifications() port.NotificationRepository { return memNotifications(s) }

type memOrders memStore

func (r memOrders) GetOrder(_ context.Context, orderID int64) (domain.Order, error) {
	var o domain.Order
	err := r.with(func(s *memState) error {
		found, ok := s.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		o = found
		o.Lines = slices.Clone(found.Lines)
		return nil
	})
	return o, err
}

func (r memOrders) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var result []domain.Order
	err := r.with(func(s *memState) error {
		for _, o := range s.orders {
			if len(filter.CustomerIDs) > 0 && !slices.Contains(filter.CustomerIDs, o.CustomerID) {
				continue
			}
			if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
				continue
			}
			result = append(result, o)
		}
		return nil
	})
	return result, err
}

func (r memOrders) InvoiceNumberExists(_ context.Context, number domain.InvoiceNumber) (bool, error) {
	var exists bool
	err := r.with(func(s *memState) error {
		for _, o := range s.orders {
			if o.InvoiceNumber == number {
				exists = true
			}
		}
		return nil
	})
	return exists, err
}

func (r memOrders) InsertOrder(_ context.Context, order domain.Order) (int64, error) {
	var id int64
	err := r.with(func(s *memState) error {
		s.nextOrderID++
		id = s.nextOrderID
		order.ID = id
		order.Version = 0
		order.CreatedAt = time.Now().UTC()
		order.UpdatedAt = order.CreatedAt
		s.orders[id] = order
		return nil
	})
	return id, err
}

func (r memOrders) UpdateOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus, expectedVersion int64) error {
	return r.with(func(s *memState) error {
		o, ok := s.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		if o.Version != expectedVersion {
			return domain.ErrConcurrentUpdate
		}
		o.Status = status
		o.Version++
		s.orders[orderID] = o
		return nil
	})
}

func (r memOrders) DeleteOrder(_ context.Context, orderID int64) error {
	return r.with(func(s *memState) error {
		if _, ok := s.orders[orderID]; !ok {
			return domain.ErrNotFound
		}
		delete(s.orders, orderID)
		s.notifications = slices.DeleteFunc(s.notifications, func(n domain.Notification) bool {
			return n.OrderID == orderID
		})
		return nil
	})
}

type memProducts memStore

func (r memProducts) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	var p domain.Product
	err := r.with(func(s *memState) error {
		found, ok := s.products[productID]
		if !ok {
			return fmt.Errorf("product[%d]: %w", productID, domain.ErrProductNotFound)
		}
		p = found
		return nil
	})
	return p, err
}

func (r memProducts) AdjustStock(_ context.Context, productID int64, delta int32) error {
	return r.with(func(s *memState) error {
		p, ok := s.products[productID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if p.Stock+delta < 0 {
			return &domain.InsufficientStockError{ProductID: productID, Requested: -delta, Available: p.Stock}
		}
		p.Stock += delta
		s.products[productID] = p
		return nil
	})
}

type memStatuses memStore

func (r memStatuses) GetStatus(_ context.Context, status domain.OrderStatus) (string, error) {
	var name string
	err := r.with(func(s *memState) error {
		found, ok := s.statuses[status]
		if !ok {
			return domain.ErrInvalidStatus
		}
		name = found
		return nil
	})
	return name, err
}

func (r memStatuses) EnsureStatus(_ context.Context, status domain.OrderStatus) error {
	return r.with(func(s *memState) error {
		if _, ok := s.statuses[status]; !ok {
			s.statuses[status] = status.String()
		}
		return nil
	})
}

type memCustomers memStore

func (r memCustomers) GetCustomer(_ context.Context, customerID int64) (domain.Customer, error) {
	var c domain.Customer
	err := r.with(func(s *memState) error {
		found, ok := s.customers[customerID]
		if !ok {
			return domain.ErrCustomerNotFound
		}
		c = found
		return nil
	})
	return c, err
}

type memNotifications memStore

func (r memNotifications) InsertNotification(_ context.Context, n domain.Notification) error {
	return r.with(func(s *memState) error {
		n.CreatedAt = time.Now().UTC()
		s.notifications = append(s.notifications, n)
		return nil
	})
}

func (r memNotifications) ListNotifications(_ context.Context, customerID int64, unreadOnly bool) ([]domain.Notification, error) {
	var result []domain.Notification
	err := r.with(func(s *memState) error {
		for _, n := range s.notifications {
			if n.CustomerID == customerID && (!unreadOnly || !n.Read) {
				result = append(result, n)
			}
		}
		return nil
	})
	return result, err
}

func (r memNotifications) MarkRead(_ context.Context, notificationID uuid.UUID) error {
	return r.with(func(s *memState) error {
		for i := range s.notifications {
			if s.notifications[i].ID == notificationID {
				s.notifications[i].Read = true
				return nil
			}
		}
		return domain.ErrNotificationNotFound
	})
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []domain.OutboundNotification
	ok    bool
	err   error
	delay time.Duration
}

func (f *fakeSender) Send(ctx context.Context, n domain.OutboundNotification) (bool, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.ok, f.err
}

type fakeProducer struct {
	mu       sync.Mutex
	enqueued []domain.OutboundNotification
	err      error
}

func (f *fakeProducer) Enqueue(_ context.Context, n domain.OutboundNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, n)
	return nil
}

var errSMTPDown = errors.New("smtp: connection refused")
