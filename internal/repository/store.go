package repository

import (
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/orderflow/internal/port"
)

type txStore struct {
	orders        port.OrderRepository
	products      port.ProductRepository
	statuses      port.StatusCatalog
	customers     port.CustomerRepository
	notifications port.NotificationRepository
}

func newTxStore(tx pgx.Tx) *txStore {
	return &txStore{
		orders:        NewOrderWithTx(tx),
		products:      NewProductWithTx(tx),
		statuses:      NewStatusCatalogWithTx(tx),
		customers:     NewCustomerWithTx(tx),
		notifications: NewNotificationWithTx(tx),
	}
}

func (s *txStore) Orders() port.OrderRepository               { return s.orders }
func (s *txStore) Products() port.ProductRepository           { return s.products }
func (s *txStore) Statuses() port.StatusCatalog               { return s.statuses }
func (s *txStore) Customers() port.CustomerRepository         { return s.customers }
func (s *txStore) Notifications() port.NotificationRepository { return s.notifications }
