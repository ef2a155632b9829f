package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/acme_store/internal/db"
	"github.com/Skotchmaster/acme_store/internal/logging"
)

type HealthHTTP struct {
	DB *gorm.DB
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if h.DB == nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	if err := db.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Warn("ready_error", "status", 503, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
