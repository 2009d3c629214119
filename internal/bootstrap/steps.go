package bootstrap

import (
	"context"
	"fmt"

	"github.com/nikolayk812/orderflow/internal/port"
	"github.com/nikolayk812/orderflow/internal/repository"
)

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcStep) Name() string                  { return s.name }
func (s funcStep) Run(ctx context.Context) error { return s.fn(ctx) }

func Func(name string, fn func(ctx context.Context) error) Step {
	return funcStep{name: name, fn: fn}
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func PingDatabase(db Pinger) Step {
	return Func("ping_database", func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return fmt.Errorf("db.Ping: %w", err)
		}
		return nil
	})
}

// Migrate wraps the schema migration; migrate is repository.RunMigrations bound to a pool in main.
func Migrate(migrate func() error) Step {
	return Func("migrate", func(context.Context) error {
		return migrate()
	})
}

func SeedStatuses(catalog port.StatusCatalog) Step {
	return Func("seed_statuses", func(ctx context.Context) error {
		return repository.SeedStatusCatalog(ctx, catalog)
	})
}
