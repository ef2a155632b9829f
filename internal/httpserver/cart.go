package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/mykafka"
	"github.com/Skotchmaster/acme_store/internal/service"
	"github.com/Skotchmaster/acme_store/internal/transport"
	"github.com/Skotchmaster/acme_store/internal/validate"
)

const checkoutMessage = "Checkout successful!"

// CartHTTP serves /api/carts/:cart_id. Ownership of :cart_id is checked by
// the auth gate before any handler runs.
type CartHTTP struct {
	Svc      *service.CartLedger
	Producer mykafka.Publisher
}

func (h *CartHTTP) cartID(c echo.Context) (uuid.UUID, error) {
	return validate.ParseID("cart_id", c.Param("cart_id"))
}

func (h *CartHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_products.list")

	cartID, err := h.cartID(c)
	if err != nil {
		return fail(l, "list_cart_products_error", err)
	}

	items, err := h.Svc.ListLineItems(ctx, cartID)
	if err != nil {
		return fail(l, "list_cart_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_products.add")

	cartID, err := h.cartID(c)
	if err != nil {
		return fail(l, "add_cart_product_error", err)
	}

	var req transport.AddLineItemRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "add_cart_product_error", err)
	}
	productID, err := validate.ParseID("product_id", req.ProductID)
	if err != nil {
		return fail(l, "add_cart_product_error", err)
	}

	item, err := h.Svc.AddLineItem(ctx, cartID, productID, req.Quantity)
	if err != nil {
		return fail(l, "add_cart_product_error", err)
	}

	publish(ctx, h.Producer, mykafka.TopicCarts, cartID.String(), mykafka.CartChanged{
		Type:       "line_item_added",
		CartID:     cartID,
		LineItemID: item.ID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		At:         time.Now().UTC(),
	})

	l.Info("add_cart_product_success", "line_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateQuantity serves PUT .../cart_products/:id where :id is a product id.
func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_products.update")

	cartID, err := h.cartID(c)
	if err != nil {
		return fail(l, "update_cart_product_error", err)
	}
	productID, err := validate.ParseID("id", c.Param("id"))
	if err != nil {
		return fail(l, "update_cart_product_error", err)
	}

	var req transport.UpdateQuantityRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_cart_product_error", err)
	}

	item, err := h.Svc.UpdateQuantity(ctx, cartID, productID, *req.Quantity)
	if err != nil {
		return fail(l, "update_cart_product_error", err)
	}

	publish(ctx, h.Producer, mykafka.TopicCarts, cartID.String(), mykafka.CartChanged{
		Type:       "quantity_updated",
		CartID:     cartID,
		LineItemID: item.ID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		At:         time.Now().UTC(),
	})

	return c.NoContent(http.StatusNoContent)
}

// Remove serves DELETE .../cart_products/:id where :id is a line item id.
// Deleting something that is not there still answers 204.
func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_products.remove")

	cartID, err := h.cartID(c)
	if err != nil {
		return fail(l, "remove_cart_product_error", err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Debug("remove_cart_product_noop", "id", c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}

	removed, err := h.Svc.RemoveLineItem(ctx, cartID, id)
	if err != nil {
		return fail(l, "remove_cart_product_error", err)
	}

	if removed {
		publish(ctx, h.Producer, mykafka.TopicCarts, cartID.String(), mykafka.CartChanged{
			Type:       "line_item_removed",
			CartID:     cartID,
			LineItemID: id,
			At:         time.Now().UTC(),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	cartID, err := h.cartID(c)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	receipt, err := h.Svc.Checkout(ctx, cartID)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	publish(ctx, h.Producer, mykafka.TopicCarts, cartID.String(), mykafka.CartChanged{
		Type:   "checkout",
		CartID: cartID,
		Total:  &receipt.Total,
		At:     time.Now().UTC(),
	})

	l.Info("checkout_success", "items", len(receipt.Items), "total", receipt.Total.String())
	return c.JSON(http.StatusOK, transport.CheckoutResponse{Message: checkoutMessage, Receipt: receipt})
}
