package api

import (
	"github.com/labstack/echo/v4"
)

// ListProducts returns the product cards with live stock --> /api/products
func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	items, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(200, items)
}

// GetStats returns the public counters --> /api/stats
func (h *StorefrontHandler) GetStats(c echo.Context) error {
	stats, err := h.stats.Current(c.Request().Context())
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(200, stats)
}

// ListActivity returns the synthetic activity feed --> /api/activity
func (h *StorefrontHandler) ListActivity(c echo.Context) error {
	if h.activity == nil {
		return c.JSON(200, []interface{}{})
	}
	return c.JSON(200, h.activity.Recent())
}
