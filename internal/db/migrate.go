package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending schema migrations for the store's dialect.
func Migrate(s *Store) error {
	driver, err := newMigrateDriver(s)
	if err != nil {
		return err
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(s.Dialect))
	if err != nil {
		return fmt.Errorf("accessing migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("creating migration source: %w", err)
	}
	// m.Close would also close the shared *sql.DB, so only the source is released.
	defer source.Close()

	m, err := migrate.NewWithInstance("iofs", source, string(s.Dialect), driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d", version)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating to latest version: %w", err)
	}
	return nil
}

func newMigrateDriver(s *Store) (database.Driver, error) {
	var (
		driver database.Driver
		err    error
	)
	switch s.Dialect {
	case DialectSQLite:
		driver, err = migratesqlite.WithInstance(s.DB, &migratesqlite.Config{})
	case DialectPostgres:
		driver, err = migratepgx.WithInstance(s.DB, &migratepgx.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect %q", s.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s migrate driver: %w", s.Dialect, err)
	}
	return driver, nil
}
