package repository

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/nikolayk812/orderflow/internal/db"
)

const migrationsTable = "orderflow_schema_migrations"

// RunMigrations applies the embedded schema migrations. The driver borrows one
// pool connection, released when the migrate instance is closed.
func RunMigrations(pool *pgxpool.Pool) (err error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return errors.Join(fmt.Errorf("could not open embedded migrations: %w", err), driver.Close())
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return errors.Join(fmt.Errorf("could not create migrate instance: %w", err), source.Close(), driver.Close())
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			err = errors.Join(err, fmt.Errorf("m.Close: %w", errors.Join(srcErr, dbErr)))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}
