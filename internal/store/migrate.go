package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/rohittgajula/IMDB-clone/db"
)

// Migrate applies every pending migration embedded in package db.
// It is safe to call on an up-to-date schema. The migration connection is
// returned to the pool before Migrate returns.
func Migrate(pool *pgxpool.Pool) (err error) {
	if pool == nil {
		return errors.New("migration pool is required")
	}

	sub, err := fs.Sub(db.Migrations, db.MigrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		_ = source.Close()
		_ = sqlDB.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	// Closing the migrator releases the driver's sql.Conn and the sql.DB view.
	defer func() {
		srcErr, dbErr := migrator.Close()
		if closeErr := errors.Join(srcErr, dbErr); closeErr != nil && err == nil {
			err = fmt.Errorf("close migrator: %w", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Migrate applies pending migrations on the store's pool.
func (s *Store) Migrate() error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store not initialized")
	}
	if err := Migrate(s.pool); err != nil {
		return err
	}
	s.logger.Info("schema migrations applied")
	return nil
}
