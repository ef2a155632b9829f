package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/models"
	"github.com/Skotchmaster/acme_store/internal/service"
)

type demoUser struct {
	username, password string
	admin              bool
}

var users = []demoUser{
	{"moe", "m_pw", false},
	{"lucy", "l_pw", false},
	{"ethyl", "e_pw", false},
	{"jay", "j_pw", true},
}

type demoProduct struct {
	name, description string
	price             int64
}

var products = []demoProduct{
	{"tshirt", "a very cool tshirt", 25},
	{"jacket", "a very comfy jacket", 50},
	{"hat", "an accessory to block the sun", 15},
	{"socks", "a garment to keep your toes protected", 10},
	{"sticker", "show your support by representing us", 3},
}

const inventory = 100

// Run creates the demo users and products and puts one tshirt into moe's
// cart. Existing rows are left alone, so Run can be repeated.
func Run(ctx context.Context, identity *service.IdentityService, catalog *service.CatalogService, ledger *service.CartLedger) error {
	l := logging.FromContext(ctx).With("component", "seed")

	for _, u := range users {
		_, _, err := identity.Signup(ctx, u.username, u.password, u.admin)
		switch {
		case err == nil:
			l.Info("seed_user_created", "username", u.username)
		case errors.Is(err, apperr.ErrConflict):
		default:
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	for _, p := range products {
		_, err := catalog.Repo.FindProductByName(ctx, p.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
		product := &models.Product{
			Name:        p.name,
			Description: p.description,
			Price:       decimal.NewFromInt(p.price),
			Inventory:   inventory,
		}
		if err := catalog.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
		l.Info("seed_product_created", "name", p.name)
	}

	moe, err := identity.Repo.FindUserByUsername(ctx, "moe")
	if err != nil {
		return fmt.Errorf("seed cart: %w", err)
	}
	tshirt, err := catalog.Repo.FindProductByName(ctx, "tshirt")
	if err != nil {
		return fmt.Errorf("seed cart: %w", err)
	}
	if _, err := ledger.AddLineItem(ctx, moe.ID, tshirt.ID, nil); err != nil && !errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("seed cart: %w", err)
	}
	return nil
}
