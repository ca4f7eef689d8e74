package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/orderhub/orderhub/internal/model"
)

// orderRow maps the orders/addresses join 1:1 to columns. The address is
// mandatory, so an inner join never loses rows.
type orderRow struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Customer  string     `db:"customer"`
	Comment   *string    `db:"comment"`
	CreatedBy int64      `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedBy *int64     `db:"updated_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	DeletedBy *int64     `db:"deleted_by"`
	DeletedAt *time.Time `db:"deleted_at"`

	AddressID   int64  `db:"address_id"`
	Street      string `db:"street"`
	ZipCode     string `db:"zip_code"`
	CountryCode string `db:"country_code"`
}

func (r orderRow) toModel() model.Order {
	return model.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		Customer:  r.Customer,
		Comment:   r.Comment,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedBy: r.UpdatedBy,
		UpdatedAt: r.UpdatedAt,
		DeletedBy: r.DeletedBy,
		DeletedAt: r.DeletedAt,
		Address: model.Address{
			ID:          r.AddressID,
			Street:      r.Street,
			ZipCode:     r.ZipCode,
			CountryCode: r.CountryCode,
		},
		Products: []model.Product{},
	}
}

const orderSelect = `SELECT o.id, o.user_id, o.customer, o.comment,
	o.created_by, o.created_at, o.updated_by, o.updated_at, o.deleted_by, o.deleted_at,
	a.id AS address_id, a.street, a.zip_code, a.country_code
	FROM orders o JOIN addresses a ON a.order_id = o.id`

const activeFilter = ` o.deleted_by IS NULL AND o.deleted_at IS NULL`

// GetOrder returns the active order with the given id regardless of owner.
// Used by delete, which distinguishes "not found" from "not yours".
func (s *Store) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var row orderRow
	q := s.rebind(orderSelect + ` WHERE o.id = ? AND` + activeFilter)
	if err := s.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	order := row.toModel()
	if err := s.loadProducts(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOwnedOrder returns the active order with the given id whose owner is in
// owners. A missing row and a row owned by someone else are indistinguishable.
func (s *Store) GetOwnedOrder(ctx context.Context, id int64, owners []int64) (*model.Order, error) {
	if len(owners) == 0 {
		return nil, ErrNotFound
	}
	q, args, err := sqlx.In(orderSelect+` WHERE o.id = ? AND o.user_id IN (?) AND`+activeFilter, id, owners)
	if err != nil {
		return nil, fmt.Errorf("build owned order query: %w", err)
	}
	var row orderRow
	if err := s.db.GetContext(ctx, &row, s.rebind(q), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get owned order: %w", err)
	}
	order := row.toModel()
	if err := s.loadProducts(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a page of active orders owned by owners, newest id first.
func (s *Store) ListOrders(ctx context.Context, owners []int64, offset, count int) ([]model.Order, error) {
	if len(owners) == 0 {
		return []model.Order{}, nil
	}
	q, args, err := sqlx.In(orderSelect+` WHERE o.user_id IN (?) AND`+activeFilter+
		` ORDER BY o.id DESC LIMIT ? OFFSET ?`, owners, count, offset)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]model.Order, len(rows))
	for i, r := range rows {
		orders[i] = r.toModel()
	}
	if err := s.loadProductsForAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOrders returns the number of active orders owned by owners, uncapped
// by pagination.
func (s *Store) CountOrders(ctx context.Context, owners []int64) (int64, error) {
	if len(owners) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`SELECT COUNT(o.id) FROM orders o WHERE o.user_id IN (?) AND`+activeFilter, owners)
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, s.rebind(q), args...); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// CreateOrder inserts the order, its address, and its product links in one
// transaction. Product references are taken as given; the foreign key
// constraint is the only existence check on create.
func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	orderID, err := s.insertID(ctx, tx,
		`INSERT INTO orders (user_id, customer, comment, created_by, created_at) VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.Customer, order.Comment, order.CreatedBy, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = orderID

	addressID, err := s.insertID(ctx, tx,
		`INSERT INTO addresses (order_id, street, zip_code, country_code) VALUES (?, ?, ?, ?)`,
		orderID, order.Address.Street, order.Address.ZipCode, order.Address.CountryCode)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	order.Address.ID = addressID

	if err := insertProductLinks(ctx, tx, s, orderID, order.ProductIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// UpdateOrder rewrites the order's fields, its address, and (when
// replaceProducts is set) its product links in one transaction. The
// created_by/created_at columns are never touched.
func (s *Store) UpdateOrder(ctx context.Context, order *model.Order, replaceProducts bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, s.rebind(
		`UPDATE orders SET user_id = ?, customer = ?, comment = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_by IS NULL AND deleted_at IS NULL`),
		order.UserID, order.Customer, order.Comment, order.UpdatedBy, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update order rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, s.rebind(
		`UPDATE addresses SET street = ?, zip_code = ?, country_code = ? WHERE order_id = ?`),
		order.Address.Street, order.Address.ZipCode, order.Address.CountryCode, order.ID); err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	if replaceProducts {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM order_products WHERE order_id = ?`), order.ID); err != nil {
			return fmt.Errorf("clear product links: %w", err)
		}
		if err := insertProductLinks(ctx, tx, s, order.ID, order.ProductIDs()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

// SoftDeleteOrder stamps deleted_by/deleted_at on an active order. Both
// columns are written in the same statement, so a reader never observes one
// without the other.
func (s *Store) SoftDeleteOrder(ctx context.Context, order *model.Order) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE orders SET deleted_by = ?, deleted_at = ?
		WHERE id = ? AND deleted_by IS NULL AND deleted_at IS NULL`),
		order.DeletedBy, order.DeletedAt, order.ID)
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// insertID executes an INSERT and returns the generated id, papering over the
// LastInsertId vs RETURNING split between drivers.
func (s *Store) insertID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		if err := tx.QueryRowxContext(ctx, s.rebind(query+` RETURNING id`), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := tx.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertProductLinks(ctx context.Context, tx *sqlx.Tx, s *Store, orderID int64, productIDs []int64) error {
	q := s.rebind(`INSERT INTO order_products (order_id, product_id) VALUES (?, ?)`)
	for _, pid := range productIDs {
		if _, err := tx.ExecContext(ctx, q, orderID, pid); err != nil {
			return fmt.Errorf("link product %d: %w", pid, err)
		}
	}
	return nil
}

// loadProducts attaches the product list to a single order.
func (s *Store) loadProducts(ctx context.Context, order *model.Order) error {
	orders := []model.Order{*order}
	if err := s.loadProductsForAll(ctx, orders); err != nil {
		return err
	}
	*order = orders[0]
	return nil
}

// productLinkRow joins order_products with products for batch loading.
type productLinkRow struct {
	OrderID     int64  `db:"order_id"`
	ProductID   int64  `db:"product_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// loadProductsForAll attaches product lists to every order in one query.
func (s *Store) loadProductsForAll(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	q, args, err := sqlx.In(`SELECT op.order_id, p.id AS product_id, p.name, p.description
		FROM order_products op JOIN products p ON p.id = op.product_id
		WHERE op.order_id IN (?) ORDER BY p.id`, ids)
	if err != nil {
		return fmt.Errorf("build product load query: %w", err)
	}
	var rows []productLinkRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), args...); err != nil {
		return fmt.Errorf("load order products: %w", err)
	}

	for _, r := range rows {
		i := index[r.OrderID]
		orders[i].Products = append(orders[i].Products, model.Product{
			ID:          r.ProductID,
			Name:        r.Name,
			Description: r.Description,
		})
	}
	return nil
}
