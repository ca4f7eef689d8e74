// Package order implements owner-scoped access to orders. Every operation
// derives the set of owner ids the caller may act for from the caller's
// grants and constrains reads and writes to that set.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/orderhub/orderhub/internal/apperr"
	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/model"
	"github.com/orderhub/orderhub/internal/store"
)

// Operation names authorization is evaluated against. List and get share
// OpGetOrder; ownership transfer additionally consults OpCreateOrder and
// OpDeleteOrder.
const (
	OpGetOrder    = "GetOrder"
	OpCreateOrder = "CreateOrder"
	OpUpdateOrder = "UpdateOrder"
	OpDeleteOrder = "DeleteOrder"
)

const defaultPageSize = 10

// Store is the persistence surface the controller depends on.
type Store interface {
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOwnedOrder(ctx context.Context, id int64, owners []int64) (*model.Order, error)
	ListOrders(ctx context.Context, owners []int64, offset, count int) ([]model.Order, error)
	CountOrders(ctx context.Context, owners []int64) (int64, error)
	ResolveProducts(ctx context.Context, ids []int64) ([]model.Product, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	UpdateOrder(ctx context.Context, order *model.Order, replaceProducts bool) error
	SoftDeleteOrder(ctx context.Context, order *model.Order) error
}

// Controller enforces the authorization policy in front of the store.
type Controller struct {
	store Store
	now   func() time.Time
}

func NewController(s Store) *Controller {
	return &Controller{store: s, now: time.Now}
}

// Page is the requested pagination window. Out-of-range values are
// normalized, not rejected.
type Page struct {
	Offset int
	Count  int
}

func (p Page) normalize() Page {
	if p.Count < 1 {
		p.Count = defaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// AddressInput carries the mandatory shipping address fields.
type AddressInput struct {
	Street      string `json:"street"`
	ZipCode     string `json:"zip_code"`
	CountryCode string `json:"country_code"`
}

func (a AddressInput) validate() error {
	if a.Street == "" || a.ZipCode == "" || a.CountryCode == "" {
		return apperr.New(apperr.KindInvalidArgument,
			"address requires street, zip_code and country_code")
	}
	return nil
}

// CreateInput is the payload for creating an order. Owner defaults to the
// caller's subject when absent.
type CreateInput struct {
	Customer   string       `json:"customer"`
	Comment    *string      `json:"comment,omitempty"`
	Address    AddressInput `json:"address"`
	Owner      *int64       `json:"owner,omitempty"`
	ProductIDs []int64      `json:"product_ids,omitempty"`
}

// UpdateInput is the payload for updating an order. Nil fields keep the
// stored value; a non-nil Owner differing from the current one is an
// ownership transfer.
type UpdateInput struct {
	Customer   *string       `json:"customer,omitempty"`
	Comment    *string       `json:"comment,omitempty"`
	Address    *AddressInput `json:"address,omitempty"`
	Owner      *int64        `json:"owner,omitempty"`
	ProductIDs []int64       `json:"product_ids,omitempty"`
}

// List returns a page of active orders owned by ids the caller may read,
// newest first, plus the total match count uncapped by the window.
func (c *Controller) List(ctx context.Context, identity auth.Identity, page Page) (*model.OrderPage, error) {
	permitted := auth.PermittedIDs(identity, OpGetOrder)
	if permitted.Empty() {
		return nil, apperr.New(apperr.KindPermissionDenied, "no read access to any owner")
	}
	page = page.normalize()

	owners := permitted.Values()
	orders, err := c.store.ListOrders(ctx, owners, page.Offset, page.Count)
	if err != nil {
		return nil, apperr.Wrap(err, "list orders")
	}
	total, err := c.store.CountOrders(ctx, owners)
	if err != nil {
		return nil, apperr.Wrap(err, "count orders")
	}
	return &model.OrderPage{
		Orders: orders,
		Offset: page.Offset,
		Count:  page.Count,
		Total:  total,
	}, nil
}

// Get returns the active order with the given id if the caller may read its
// owner. An order outside the caller's permitted set reports NotFound, same
// as a missing one, so callers cannot probe for existence.
func (c *Controller) Get(ctx context.Context, identity auth.Identity, id int64) (*model.Order, error) {
	permitted := auth.PermittedIDs(identity, OpGetOrder)
	if permitted.Empty() {
		return nil, apperr.New(apperr.KindPermissionDenied, "no read access to any owner")
	}

	order, err := c.store.GetOwnedOrder(ctx, id, permitted.Values())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, apperr.Wrap(err, "get order")
	}
	return order, nil
}

// Create persists a new order for the resolved owner. Product references are
// stored as given; referential integrity is left to the database.
func (c *Controller) Create(ctx context.Context, identity auth.Identity, in CreateInput) (*model.Order, error) {
	if err := in.Address.validate(); err != nil {
		return nil, err
	}

	owner := identity.Subject
	if in.Owner != nil {
		owner = *in.Owner
	}
	if !auth.PermittedIDs(identity, OpCreateOrder).Contains(owner) {
		return nil, apperr.Newf(apperr.KindPermissionDenied,
			"not allowed to create orders for owner %d", owner)
	}

	products := make([]model.Product, len(in.ProductIDs))
	for i, id := range in.ProductIDs {
		products[i] = model.Product{ID: id}
	}
	order := &model.Order{
		UserID:   owner,
		Customer: in.Customer,
		Comment:  in.Comment,
		Address: model.Address{
			Street:      in.Address.Street,
			ZipCode:     in.Address.ZipCode,
			CountryCode: in.Address.CountryCode,
		},
		Products:  products,
		CreatedBy: identity.Subject,
		CreatedAt: c.now().UTC(),
	}
	if err := c.store.CreateOrder(ctx, order); err != nil {
		return nil, apperr.Wrap(err, "create order")
	}
	return order, nil
}

// Update applies the supplied changes to an order the caller may modify.
// Changing the owner requires create access on the new owner and delete
// access on the current one; a denied transfer aborts the whole update.
func (c *Controller) Update(ctx context.Context, identity auth.Identity, id int64, in UpdateInput) (*model.Order, error) {
	permitted := auth.PermittedIDs(identity, OpUpdateOrder)
	if permitted.Empty() {
		return nil, apperr.New(apperr.KindPermissionDenied, "no update access to any owner")
	}

	order, err := c.store.GetOwnedOrder(ctx, id, permitted.Values())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, apperr.Wrap(err, "load order")
	}

	if in.Owner != nil && *in.Owner != order.UserID {
		canPlace := auth.PermittedIDs(identity, OpCreateOrder).Contains(*in.Owner)
		canRemove := auth.PermittedIDs(identity, OpDeleteOrder).Contains(order.UserID)
		if !canPlace || !canRemove {
			return nil, apperr.Newf(apperr.KindPermissionDenied,
				"not allowed to transfer order %d from owner %d to owner %d",
				id, order.UserID, *in.Owner)
		}
		order.UserID = *in.Owner
	}

	replaceProducts := in.ProductIDs != nil
	if replaceProducts {
		resolved, err := c.store.ResolveProducts(ctx, in.ProductIDs)
		if err != nil {
			return nil, apperr.Wrap(err, "resolve products")
		}
		if missing := missingProductIDs(in.ProductIDs, resolved); len(missing) > 0 {
			return nil, apperr.New(apperr.KindNotFound, "unknown product ids").
				WithContext(map[string]any{"product_ids": missing})
		}
		order.Products = resolved
	}

	if in.Customer != nil {
		order.Customer = *in.Customer
	}
	if in.Comment != nil {
		order.Comment = in.Comment
	}
	if in.Address != nil {
		if err := in.Address.validate(); err != nil {
			return nil, err
		}
		order.Address.Street = in.Address.Street
		order.Address.ZipCode = in.Address.ZipCode
		order.Address.CountryCode = in.Address.CountryCode
	}

	now := c.now().UTC()
	order.UpdatedBy = &identity.Subject
	order.UpdatedAt = &now
	if err := c.store.UpdateOrder(ctx, order, replaceProducts); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, apperr.Wrap(err, "update order")
	}
	return order, nil
}

// Delete soft-deletes an order. A caller with delete standing for at least
// one owner gets an unconstrained lookup, so it learns whether the order
// exists before authorization is checked against its owner; a caller with no
// standing at all is rejected before any query.
func (c *Controller) Delete(ctx context.Context, identity auth.Identity, id int64) (*model.Order, error) {
	permitted := auth.PermittedIDs(identity, OpDeleteOrder)
	if permitted.Empty() {
		return nil, apperr.New(apperr.KindPermissionDenied, "no delete access to any owner")
	}

	order, err := c.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, apperr.Wrap(err, "load order")
	}

	if !permitted.Contains(order.UserID) {
		return nil, apperr.Newf(apperr.KindPermissionDenied,
			"not allowed to delete orders owned by %d", order.UserID)
	}

	now := c.now().UTC()
	order.DeletedBy = &identity.Subject
	order.DeletedAt = &now
	if err := c.store.SoftDeleteOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, apperr.Wrap(err, "delete order")
	}
	return order, nil
}

// missingProductIDs reports requested ids absent from the resolved set.
func missingProductIDs(requested []int64, resolved []model.Product) []int64 {
	found := make(map[int64]struct{}, len(resolved))
	for _, p := range resolved {
		found[p.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
