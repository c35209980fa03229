// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"edukoder/internal/models"
)

// Connector hands out the database pool, opening it on first use.
// *database.Lazy implements it.
type Connector interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// OrderStore handles e-book order persistence.
type OrderStore struct {
	conn Connector
}

// NewOrderStore creates a new OrderStore backed by conn.
func NewOrderStore(conn Connector) *OrderStore {
	return &OrderStore{conn: conn}
}

// Create inserts a new order and returns it with the database timestamp.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.Order{}
	err = db.QueryRowContext(ctx, `
		INSERT INTO orders (id, name, email, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, amount_cents, currency, status, created_at
	`, o.ID, o.Name, o.Email, o.AmountCents, o.Currency, o.Status,
	).Scan(
		&result.ID, &result.Name, &result.Email, &result.AmountCents,
		&result.Currency, &result.Status, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return result, nil
}

// FindByID retrieves an order by its UUID. Returns nil if not found.
func (s *OrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	o := &models.Order{}
	err = db.QueryRowContext(ctx, `
		SELECT id, name, email, amount_cents, currency, status, created_at
		FROM orders WHERE id = $1
	`, id).Scan(
		&o.ID, &o.Name, &o.Email, &o.AmountCents, &o.Currency, &o.Status, &o.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return o, nil
}
