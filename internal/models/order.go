// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the payment state of an e-book order. Orders are
// only ever created as pending; there is no payment processing.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

const (
	// EbookPriceCents is the fixed e-book price (USD 29.00).
	EbookPriceCents = 2900
	// EbookCurrency is the fixed e-book currency.
	EbookCurrency = "USD"
)

// Order is an e-book purchase request.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	AmountCents int         `json:"amount_cents"`
	Currency    string      `json:"currency"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewOrder builds a pending e-book order for the given buyer.
func NewOrder(name, email string) *Order {
	return &Order{
		ID:          uuid.New(),
		Name:        name,
		Email:       email,
		AmountCents: EbookPriceCents,
		Currency:    EbookCurrency,
		Status:      OrderStatusPending,
	}
}

const createdAtLayout = "2006-01-02T15:04:05.000Z"

// MarshalJSON renders created_at with millisecond precision in UTC.
func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	return json.Marshal(struct {
		order
		CreatedAt string `json:"created_at"`
	}{order(o), o.CreatedAt.UTC().Format(createdAtLayout)})
}
