package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/models"
	"github.com/Skotchmaster/acme_store/internal/repo"
)

// DefaultQuantity is used when an add request carries no quantity.
const DefaultQuantity = 1

// CartLedger owns the line items of every cart.
type CartLedger struct {
	Repo *repo.GormRepo
}

func (s *CartLedger) AddLineItem(ctx context.Context, cartID, productID uuid.UUID, quantity *int) (*models.CartProduct, error) {
	q := DefaultQuantity
	if quantity != nil {
		q = *quantity
	}
	if q < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id is required", apperr.ErrValidation)
	}

	item := &models.CartProduct{CartID: cartID, ProductID: productID, Quantity: q}
	if err := s.Repo.AddLineItem(ctx, item); err != nil {
		return nil, classify(err, "line item for product "+productID.String())
	}
	return item, nil
}

func (s *CartLedger) ListLineItems(ctx context.Context, cartID uuid.UUID) ([]models.CartProduct, error) {
	items, err := s.Repo.ListLineItems(ctx, cartID)
	if err != nil {
		return nil, classify(err, "cart")
	}
	if items == nil {
		items = []models.CartProduct{}
	}
	return items, nil
}

func (s *CartLedger) UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartProduct, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)
	}

	item, err := s.Repo.UpdateQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		return nil, classify(err, "line item for product "+productID.String())
	}
	return item, nil
}

// RemoveLineItem deletes a line item by its own id. Removing a line item that
// is not there is not an error.
func (s *CartLedger) RemoveLineItem(ctx context.Context, cartID, id uuid.UUID) (bool, error) {
	removed, err := s.Repo.RemoveLineItem(ctx, cartID, id)
	if err != nil {
		return false, classify(err, "line item")
	}
	return removed, nil
}

// Checkout empties the cart atomically. Every failure is internal: the
// caller has already been authorized for cartID.
func (s *CartLedger) Checkout(ctx context.Context, cartID uuid.UUID) (*models.CheckoutReceipt, error) {
	receipt, err := s.Repo.Checkout(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("%w: checkout: %w", apperr.ErrInternal, err)
	}
	return receipt, nil
}
