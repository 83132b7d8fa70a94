package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a Store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const memoryURL = ":memory:"

// Store is an open, migrated database handle.
type Store struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the backend selected by storeURL and applies migrations.
//
//	:memory:            in-memory SQLite
//	sqlite://<dir>      SQLite file <dir>/<dbName>.db
//	postgres://...      Postgres, database dbName
func Open(ctx context.Context, storeURL, dbName string) (*Store, error) {
	dialect, dsn, err := resolveDSN(storeURL, dbName)
	if err != nil {
		return nil, err
	}

	var s *Store
	switch dialect {
	case DialectSQLite:
		s, err = openSQLite(dsn)
	case DialectPostgres:
		s, err = openPostgres(ctx, dsn)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(s); err != nil {
		s.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func resolveDSN(storeURL, dbName string) (Dialect, string, error) {
	switch {
	case storeURL == memoryURL:
		return DialectSQLite, memoryURL, nil
	case strings.HasPrefix(storeURL, "sqlite://"):
		dir := strings.TrimPrefix(storeURL, "sqlite://")
		if dir == "" {
			dir = "."
		}
		return DialectSQLite, filepath.Join(dir, dbName+".db"), nil
	case strings.HasPrefix(storeURL, "postgres://"), strings.HasPrefix(storeURL, "postgresql://"):
		u, err := url.Parse(storeURL)
		if err != nil {
			return "", "", fmt.Errorf("parsing store url: %w", err)
		}
		u.Path = "/" + dbName
		return DialectPostgres, u.String(), nil
	default:
		return "", "", fmt.Errorf("unsupported store url %q", storeURL)
	}
}

// openSQLite opens a SQLite database at path with WAL mode.
func openSQLite(path string) (*Store, error) {
	if path != memoryURL {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every pooled connection to :memory: would see its own empty database,
	// and SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)

	if path != memoryURL {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Store{DB: db, Dialect: DialectSQLite}, nil
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Store{DB: db, Dialect: DialectPostgres}, nil
}

// Rebind rewrites ? placeholders into $1, $2, ... for Postgres.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
