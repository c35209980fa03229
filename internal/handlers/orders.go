// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"edukoder/internal/database"
	"edukoder/internal/models"
)

// maxOrderBody caps the size of an order request body.
const maxOrderBody = 1 << 20

// OrderRepository persists e-book orders. *store.OrderStore implements it.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Orders groups the e-book order endpoints.
type Orders struct {
	repo OrderRepository
}

// NewOrders creates the order handler group.
func NewOrders(repo OrderRepository) *Orders {
	return &Orders{repo: repo}
}

type createOrderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// orderResponse is the body of every order endpoint.
type orderResponse struct {
	OK    bool          `json:"ok"`
	Order *models.Order `json:"order,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Create handles POST /api/orders.
func (h *Orders) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, orderResponse{Error: "JSON inválido"})
		return
	}

	if errs := validateOrder(req.Name, req.Email); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, orderResponse{Error: strings.Join(errs, ", ")})
		return
	}

	order := models.NewOrder(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	created, err := h.repo.Create(r.Context(), order)
	if err != nil {
		slog.Error("create order failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, orderResponse{Error: dbErrorMessage(err, "Error creando orden")})
		return
	}

	slog.Info("order created", "order_id", created.ID)
	writeJSON(w, http.StatusCreated, orderResponse{OK: true, Order: created})
}

// Get handles GET /api/orders/{id}.
func (h *Orders) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, orderResponse{Error: "Orden no encontrada"})
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find order failed", "order_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, orderResponse{Error: dbErrorMessage(err, "Error obteniendo orden")})
		return
	}
	if order == nil {
		writeJSON(w, http.StatusNotFound, orderResponse{Error: "Orden no encontrada"})
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{OK: true, Order: order})
}

// dbErrorMessage exposes the missing-configuration message and hides every
// other database detail behind fallback.
func dbErrorMessage(err error, fallback string) string {
	if errors.Is(err, database.ErrNotConfigured) {
		return database.ErrNotConfigured.Error()
	}
	return fallback
}
