package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/acme_store/internal/apperr"
	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/models"
)

const principalKey = "principal"

type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.Principal, error)
}

// Gate guards routes that need a logged in user and, for cart routes, that
// the cart in the path belongs to that user.
type Gate struct {
	Resolver TokenResolver
}

func NewGate(resolver TokenResolver) *Gate {
	return &Gate{Resolver: resolver}
}

func (g *Gate) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require.login")

		token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			l.Warn("require_login_error", "status", 401, "error", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		}

		p, err := g.Resolver.ResolveToken(ctx, token)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				l.Warn("require_login_error", "status", 401, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
			}
			// a store outage is not a bad token
			status := apperr.Status(err)
			l.Error("require_login_error", "status", status, "error", err)
			return echo.NewHTTPError(status, apperr.Message(err))
		}

		c.Set(principalKey, p)
		return next(c)
	}
}

// RequireCartOwner rejects the request unless the path parameter param equals
// the principal's id. Carts share their owner's id.
func (g *Gate) RequireCartOwner(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok || c.Param(param) != p.ID.String() {
				logging.FromContext(c.Request().Context()).Warn("require_cart_owner_error",
					"status", 401, "cart_id", c.Param(param))
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
			}
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (*models.Principal, bool) {
	p, ok := c.Get(principalKey).(*models.Principal)
	return p, ok && p != nil
}

// bearerToken accepts both "Bearer <token>" and a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
