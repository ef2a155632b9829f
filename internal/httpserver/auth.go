package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/middleware/auth"
	"github.com/Skotchmaster/acme_store/internal/mykafka"
	"github.com/Skotchmaster/acme_store/internal/service"
	"github.com/Skotchmaster/acme_store/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.IdentityService
	Producer mykafka.Publisher
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.CredentialsRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "register_error", err)
	}

	user, _, err := h.Svc.Signup(ctx, req.Username, req.Password, false)
	if err != nil {
		return fail(l, "register_error", err)
	}

	publish(ctx, h.Producer, mykafka.TopicUsers, user.ID.String(), mykafka.UserRegistered{
		Type:     "user_registered",
		UserID:   user.ID,
		Username: user.Username,
		At:       time.Now().UTC(),
	})

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.RegisterResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "login_error", err)
	}

	res, err := h.Svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}
