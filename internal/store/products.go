package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/orderhub/orderhub/internal/model"
)

// ListProducts returns the whole catalog ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	q := s.rebind(`SELECT id, name, description FROM products ORDER BY id`)
	if err := s.db.SelectContext(ctx, &products, q); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	q := s.rebind(`SELECT id, name, description FROM products WHERE id = ?`)
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ResolveProducts returns the subset of ids that exist, as full products
// ordered by id. Callers compare lengths to detect unresolved references.
func (s *Store) ResolveProducts(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	q, args, err := sqlx.In(`SELECT id, name, description FROM products WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build resolve query: %w", err)
	}
	var products []model.Product
	if err := s.db.SelectContext(ctx, &products, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// CreateProduct inserts a catalog entry. Used by the seed command and tests;
// the API surface itself is read-only for products.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id, err := s.insertID(ctx, tx, `INSERT INTO products (name, description) VALUES (?, ?)`, p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return tx.Commit()
}
