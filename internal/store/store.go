// Package store persists orders, addresses, and products behind a small
// SQL interface. It supports an embedded SQLite database (the default),
// PostgreSQL, and MySQL; queries are written once with ? placeholders and
// rebound per driver.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Store is the SQL-backed order and product repository. Every write method
// runs in a single transaction: an order, its address, and its product links
// are committed together or not at all.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and applies migrations. An empty driver
// selects SQLite; an empty SQLite DSN selects an in-memory database (used
// throughout the tests).
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	var db *sqlx.DB
	var err error
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = ":memory:?_journal_mode=WAL"
		}
		db, err = sqlx.Connect("sqlite", dsn)
		if err == nil {
			db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
			if _, ferr := db.Exec("PRAGMA foreign_keys = ON"); ferr != nil {
				db.Close()
				return nil, fmt.Errorf("enable foreign keys: %w", ferr)
			}
		}
	case DriverPostgres:
		db, err = sqlx.Connect("pgx", dsn)
	case DriverMySQL:
		db, err = sqlx.Connect("mysql", dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s database: %w", driver, err)
	}
	return s, nil
}

// OpenSQLiteFile opens (creating if needed) a file-backed SQLite store under
// dataDir.
func OpenSQLiteFile(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := filepath.Join(dataDir, "orderhub.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	return Open(DriverSQLite, dsn)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the active driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the database connection, for readiness probes.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// rebind rewrites ? placeholders into the driver's native style.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}
