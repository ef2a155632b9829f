package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"                 json:"id"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;not null"            json:"-"`
	Address      *string   `gorm:"type:varchar(255)"                   json:"address,omitempty"`
	PaymentInfo  *string   `gorm:"type:varchar(16)"                    json:"-"`
	IsAdmin      bool      `gorm:"default:false"                       json:"is_admin"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Cart is the single cart of a user. Its ID always equals UserID, so a cart
// id taken from a request path can be compared directly with the caller's
// user id.
type Cart struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"            json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = c.UserID
	}
	return nil
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                 json:"id"`
	Name        string          `gorm:"type:varchar(50);not null"            json:"name"`
	Description string          `gorm:"type:varchar(255)"                    json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(7,2);not null"           json:"price"`
	Inventory   int             `gorm:"not null;default:0;check:inventory >= 0" json:"inventory"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CartProduct is a cart line item. At most one row exists per
// (cart_id, product_id).
type CartProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                         json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_cart_id_and_product_id" json:"cart_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:unique_cart_id_and_product_id" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"                        json:"quantity"`

	Cart    *Cart    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *CartProduct) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartProduct) TableName() string {
	return "cart_products"
}

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{&User{}, &Cart{}, &Product{}, &CartProduct{}}
}

// ReceiptLine is one line item removed by a checkout, priced at checkout time.
type ReceiptLine struct {
	LineItemID uuid.UUID       `json:"line_item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type CheckoutReceipt struct {
	CartID uuid.UUID       `json:"cart_id"`
	Items  []ReceiptLine   `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}
