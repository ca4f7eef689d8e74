package handler

import (
	"log/slog"
	"net/http"

	"github.com/orderhub/orderhub/internal/order"
	"github.com/orderhub/orderhub/internal/server/middleware"
)

// OrderHandler exposes the order access controller over HTTP.
type OrderHandler struct {
	controller *order.Controller
	logger     *slog.Logger
}

func NewOrderHandler(controller *order.Controller, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{controller: controller, logger: logger}
}

// List returns a page of the caller's orders.
// GET /api/v1/order?offset=N&count=N
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := order.Page{
		Offset: queryInt(r, "offset", 0),
		Count:  queryInt(r, "count", 0),
	}
	result, err := h.controller.List(r.Context(), middleware.GetIdentity(r.Context()), page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get returns a single order by id.
// GET /api/v1/order/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.controller.Get(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create persists a new order.
// POST /api/v1/order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in order.CreateInput
	if err := readJSON(r, &in); err != nil {
		writeInvalid(w, "invalid request body: "+err.Error())
		return
	}
	result, err := h.controller.Create(r.Context(), middleware.GetIdentity(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Update applies changes to an existing order.
// PUT /api/v1/order/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var in order.UpdateInput
	if err := readJSON(r, &in); err != nil {
		writeInvalid(w, "invalid request body: "+err.Error())
		return
	}
	result, err := h.controller.Update(r.Context(), middleware.GetIdentity(r.Context()), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Delete soft-deletes an order and returns its final state.
// DELETE /api/v1/order/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	result, err := h.controller.Delete(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
