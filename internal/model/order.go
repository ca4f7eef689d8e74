// Package model defines the persistent entities and API envelopes shared by
// the store, the access controller, and the transport handlers.
package model

import "time"

// Order is an owner-scoped order record. Orders are never physically removed:
// DeletedAt/DeletedBy mark them inactive (soft delete), and both are set
// together or not at all.
type Order struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user"`
	Customer string  `json:"customer"`
	Comment  *string `json:"comment,omitempty"`

	Address  Address   `json:"address"`
	Products []Product `json:"products"`

	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedBy *int64     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the order has not been soft-deleted.
func (o *Order) Active() bool {
	return o.DeletedAt == nil && o.DeletedBy == nil
}

// ProductIDs returns the ids of the order's products.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.ID
	}
	return ids
}

// Address is the mandatory shipping address, created and updated together
// with its order.
type Address struct {
	ID          int64  `json:"id"`
	Street      string `json:"street"`
	ZipCode     string `json:"zip_code"`
	CountryCode string `json:"country_code"`
}

// Product is a catalog entry referenced by orders.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
