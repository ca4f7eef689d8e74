package store

import (
	"fmt"
	"strings"
)

// migrate applies the schema for the active driver. Statements are idempotent
// (CREATE ... IF NOT EXISTS) so migration runs on every startup.
func (s *Store) migrate() error {
	migrations, ok := migrationsByDriver[s.driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", s.driver)
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// MySQL has no IF NOT EXISTS for indexes; treat duplicates as no-ops.
			if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

var migrationsByDriver = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			customer TEXT NOT NULL DEFAULT '',
			comment TEXT,
			created_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_by INTEGER,
			updated_at DATETIME,
			deleted_by INTEGER,
			deleted_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER UNIQUE NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			street TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			country_code TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS order_products (
			order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL REFERENCES products(id),
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_active ON orders(user_id, deleted_at)`,
	},

	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			customer TEXT NOT NULL DEFAULT '',
			comment TEXT,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_by BIGINT,
			updated_at TIMESTAMPTZ,
			deleted_by BIGINT,
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			street TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			country_code TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS order_products (
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id),
			PRIMARY KEY (order_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_active ON orders(user_id, deleted_at)`,
	},

	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			customer VARCHAR(255) NOT NULL DEFAULT '',
			comment TEXT,
			created_by BIGINT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_by BIGINT,
			updated_at DATETIME(6),
			deleted_by BIGINT,
			deleted_at DATETIME(6)
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT UNIQUE NOT NULL,
			street VARCHAR(255) NOT NULL,
			zip_code VARCHAR(32) NOT NULL,
			country_code VARCHAR(8) NOT NULL,
			CONSTRAINT fk_addresses_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_products (
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			PRIMARY KEY (order_id, product_id),
			CONSTRAINT fk_op_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			CONSTRAINT fk_op_product FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE INDEX idx_orders_user_active ON orders(user_id, deleted_at)`,
	},
}
