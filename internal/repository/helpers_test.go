package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("orderflow"),
		postgres.WithUsername("orderflow"),
		postgres.WithPassword("orderflow"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

// pgSuite owns one migrated database per suite.
type pgSuite struct {
	suite.Suite

	container testcontainers.Container
	pool      *pgxpool.Pool
}

func (s *pgSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("postgres container")
	}

	ctx := s.T().Context()

	var (
		connStr string
		err     error
	)

	s.container, connStr, err = startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.Require().NoError(repository.RunMigrations(s.pool))
}

func (s *pgSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(context.Background()))
	}
}

func (s *pgSuite) truncate() {
	_, err := s.pool.Exec(s.T().Context(), "TRUNCATE TABLE notifications, order_lines, orders, products, customers RESTART IDENTITY CASCADE")
	s.NoError(err)
}

func (s *pgSuite) insertCustomer() domain.Customer {
	c := domain.Customer{FullName: gofakeit.Name(), Email: gofakeit.Email()}

	err := s.pool.QueryRow(s.T().Context(),
		"INSERT INTO customers (full_name, email) VALUES ($1, $2) RETURNING id",
		c.FullName, c.Email).Scan(&c.ID)
	s.Require().NoError(err)

	return c
}

func (s *pgSuite) insertProduct(price string, stock int32) domain.Product {
	p := domain.Product{
		Code:         gofakeit.LetterN(4) + "-" + gofakeit.DigitN(4),
		Name:         gofakeit.ProductName(),
		ImageURL:     gofakeit.URL(),
		CategoryName: gofakeit.ProductCategory(),
		SalePrice:    domain.NewMoney(decimal.RequireFromString(price), currency.USD),
		Stock:        stock,
	}

	err := s.pool.QueryRow(s.T().Context(),
		`INSERT INTO products (code, name, image_url, category_name, sale_price_amount, sale_price_currency, stock)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		p.Code, p.Name, p.ImageURL, p.CategoryName, p.SalePrice.Amount, p.SalePrice.Currency.String(), p.Stock,
	).Scan(&p.ID, &p.CreatedAt)
	s.Require().NoError(err)

	return p
}

func (s *pgSuite) stockOf(productID int64) int32 {
	var stock int32
	err := s.pool.QueryRow(s.T().Context(), "SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	s.Require().NoError(err)
	return stock
}

func randomInvoice() domain.InvoiceNumber {
	return domain.NewInvoiceGenerator(nil, 0).Draw()
}

func newOrder(customerID int64, status domain.OrderStatus, products ...domain.Product) domain.Order {
	order := domain.Order{
		InvoiceNumber: randomInvoice(),
		CustomerID:    customerID,
		Status:        status,
	}

	for _, p := range products {
		order.Lines = append(order.Lines, domain.NewOrderLine(p, gofakeit.Int64(), p.SalePrice, int32(gofakeit.Number(1, 3))))
	}

	order.Payment = order.LinesTotal()
	if err := order.Settle(); err != nil {
		panic(err)
	}

	return order
}

var domainComparers = cmp.Options{
	cmp.Comparer(func(x, y currency.Unit) bool { return x.String() == y.String() }),
	cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{domainComparers, cmpopts.IgnoreFields(domain.Order{}, "ID", "Version", "CreatedAt", "UpdatedAt")}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.NotZero(t, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
	assert.False(t, actual.UpdatedAt.IsZero())
}
