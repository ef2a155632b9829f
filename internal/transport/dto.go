package transport

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/acme_store/internal/models"
)

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type AddLineItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"   validate:"omitempty,gte=1"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=1"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type CheckoutResponse struct {
	Message string                  `json:"message"`
	Receipt *models.CheckoutReceipt `json:"receipt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
