// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielhkuo/betdesk/cliparse"
	"github.com/danielhkuo/betdesk/events"
	"github.com/danielhkuo/betdesk/middleware"
	"github.com/danielhkuo/betdesk/models"
	"github.com/danielhkuo/betdesk/patch"
	"github.com/danielhkuo/betdesk/store"
)

type OrderHandler struct {
	base
	orders *store.Orders
	fields *patch.Allowlist
	pub    events.Publisher
}

func NewOrderHandler(db *sql.DB, cfg cliparse.Config, pub events.Publisher, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		base:   base{cfg: cfg, log: log},
		orders: store.NewOrders(db),
		fields: store.OrderAllowlist(),
		pub:    pub,
	}
}

// List handles GET /orders?matchId=&userWallet=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.orders.List(r.Context(), store.OrderFilter{
		MatchID:    q.Get("matchId"),
		UserWallet: q.Get("userWallet"),
	})
	if err != nil {
		h.storeError(w, err, "Order", "list orders")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, orders)
}

// Get handles GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), urlID(r))
	if err != nil {
		h.storeError(w, err, "Order", "load order")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, order)
}

// Create handles POST /orders. Orders are never overwritten: a taken id
// is a 409.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := middleware.ParseJSONBody(r, &o); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	if err := h.orders.Insert(r.Context(), o); err != nil {
		h.storeError(w, err, "Order", "create order")
		return
	}

	h.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("match_id", o.MatchID),
	)
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.OrderCreated, ID: o.ID, Data: o})

	middleware.JSONResponse(w, http.StatusCreated, models.SavedResponse{Message: "Order created", ID: o.ID})
}

// Patch handles PATCH /orders/{id}
func (h *OrderHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	u, attrs, err := resolveBody(r, h.fields)
	if err != nil {
		patchError(w, err)
		return
	}

	n, err := h.orders.Update(r.Context(), id, u)
	if err != nil {
		h.storeError(w, err, "Order", "update order")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Order not found")
		return
	}

	h.log.Info("order updated", zap.String("order_id", id), zap.Strings("fields", u.Fields))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.OrderUpdated, ID: id, Data: changes(u, attrs)})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Order updated", ID: id})
}

// Delete handles DELETE /orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)

	n, err := h.orders.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Order", "delete order")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Order not found")
		return
	}

	h.log.Info("order deleted", zap.String("order_id", id))
	publish(r.Context(), h.pub, h.log, events.Event{Type: events.OrderDeleted, ID: id})

	middleware.JSONResponse(w, http.StatusOK, models.SavedResponse{Message: "Order deleted", ID: id})
}
