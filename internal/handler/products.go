package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/orderhub/orderhub/internal/apperr"
	"github.com/orderhub/orderhub/internal/store"
)

// ProductHandler serves the read-only product catalog.
type ProductHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewProductHandler(s *store.Store, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{store: s, logger: logger}
}

// List returns every catalog product.
// GET /api/v1/product
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns a single product by id.
// GET /api/v1/product/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apperr.Newf(apperr.KindNotFound, "product %d not found", id)
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
