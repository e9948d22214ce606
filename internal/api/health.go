package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// Health pings every dependency --> /api/health
func (h *StorefrontHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", 200
	checks := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msgf("Health check %s failed", name)
			checks[name] = "down"
			status, code = "degraded", 503
			continue
		}
		checks[name] = "up"
	}

	return c.JSON(code, map[string]interface{}{
		"status":  status,
		"service": "storefront-service",
		"checks":  checks,
		"time":    time.Now().Format(time.RFC3339),
	})
}
