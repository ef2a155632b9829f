package mykafka

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRegistered struct {
	Type     string    `json:"type"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

type ProductCreated struct {
	Type      string          `json:"type"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	At        time.Time       `json:"at"`
}

// CartChanged describes one line item mutation. Type is one of
// line_item_added, quantity_updated, line_item_removed, checkout.
type CartChanged struct {
	Type       string           `json:"type"`
	CartID     uuid.UUID        `json:"cart_id"`
	LineItemID uuid.UUID        `json:"line_item_id,omitempty"`
	ProductID  uuid.UUID        `json:"product_id,omitempty"`
	Quantity   int              `json:"quantity,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	At         time.Time        `json:"at"`
}
