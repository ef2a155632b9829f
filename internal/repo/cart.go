package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/acme_store/internal/db"
	"github.com/Skotchmaster/acme_store/internal/models"
)

// AddLineItem inserts item after checking that its cart and product exist and
// that the cart does not already hold the product.
func (r *GormRepo) AddLineItem(ctx context.Context, item *models.CartProduct) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Cart{}, item.CartID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCartNotFound
		}

		ok, err = exists(tx, &models.Product{}, item.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}

		var count int64
		if err := tx.Model(&models.CartProduct{}).
			Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(item).Error; err != nil {
			switch {
			case db.IsUniqueViolation(err):
				return ErrDuplicate
			case db.IsForeignKeyViolation(err):
				return ErrProductNotFound
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) ListLineItems(ctx context.Context, cartID uuid.UUID) ([]models.CartProduct, error) {
	items := make([]models.CartProduct, 0)
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity sets the quantity of the cart's line item for productID.
// gorm.ErrRecordNotFound is returned when there is no such line item.
func (r *GormRepo) UpdateQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartProduct, error) {
	var item models.CartProduct
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveLineItem deletes the line item id from cartID and reports whether a
// row was removed.
func (r *GormRepo) RemoveLineItem(ctx context.Context, cartID, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, id).
		Delete(&models.CartProduct{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Checkout prices and deletes every line item of cartID in one transaction.
// Nothing is removed unless every delete succeeds.
func (r *GormRepo) Checkout(ctx context.Context, cartID uuid.UUID) (*models.CheckoutReceipt, error) {
	receipt := &models.CheckoutReceipt{
		CartID: cartID,
		Items:  make([]models.ReceiptLine, 0),
		Total:  decimal.Zero,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartProduct
		if err := forUpdate(tx).Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		for _, it := range items {
			res := tx.Where("id = ? AND cart_id = ?", it.ID, cartID).Delete(&models.CartProduct{})
			if res.Error != nil {
				return fmt.Errorf("delete line item %s: %w", it.ID, res.Error)
			}
			if res.RowsAffected != 1 {
				return fmt.Errorf("line item %s vanished during checkout", it.ID)
			}

			p := byID[it.ProductID]
			subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			receipt.Items = append(receipt.Items, models.ReceiptLine{
				LineItemID: it.ID,
				ProductID:  it.ProductID,
				Name:       p.Name,
				Quantity:   it.Quantity,
				UnitPrice:  p.Price,
				Subtotal:   subtotal,
			})
			receipt.Total = receipt.Total.Add(subtotal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
