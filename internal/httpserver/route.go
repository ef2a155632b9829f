package httpserver

import (
	"gorm.io/gorm"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/acme_store/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	Gate           *auth.Gate
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
}

func Register(e *echo.Echo, d *Deps) {
	health := &HealthHTTP{DB: d.DB}
	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)
	api.GET("/auth/me", d.AuthHandler.Me, d.Gate.RequireLogin)
	api.GET("/users", d.AuthHandler.ListUsers)

	api.GET("/products", d.CatalogHandler.ListProducts)
	api.GET("/products/search", d.CatalogHandler.Search)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)

	carts := api.Group("/carts/:cart_id", d.Gate.RequireLogin, d.Gate.RequireCartOwner("cart_id"))

	carts.GET("/cart_products", d.CartHandler.List)
	carts.POST("/cart_products", d.CartHandler.Add)
	carts.PUT("/cart_products/:id", d.CartHandler.UpdateQuantity)
	carts.DELETE("/cart_products/:id", d.CartHandler.Remove)
	carts.POST("/checkout", d.CartHandler.Checkout)
}
