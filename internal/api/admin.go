package api

import (
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AdminClaims identify the operator behind an admin request.
type AdminClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// SignAdminToken mints an HS256 bearer token for the admin routes.
func SignAdminToken(secret, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString([]byte(secret))
}

func adminName(c echo.Context) string {
	tkn, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	sub, _ := tkn.Claims.GetSubject()
	return sub
}

// UpdateStock sets the stock of a product --> PUT /api/admin/products/:name/stock
func (h *StorefrontHandler) UpdateStock(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(400, errorBody("Invalid product name"))
	}
	req := struct {
		Stock *int `json:"stock"`
	}{}
	if err := c.Bind(&req); err != nil || req.Stock == nil {
		return c.JSON(400, errorBody("Invalid request payload"))
	}

	row, err := h.catalog.Restock(c.Request().Context(), name, *req.Stock)
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	logger.Info().Msgf("Admin %s set stock of %s to %d", adminName(c), name, *req.Stock)
	return c.JSON(200, row)
}

// ResetStats overwrites the public counters --> PUT /api/admin/stats
func (h *StorefrontHandler) ResetStats(c echo.Context) error {
	req := struct {
		TotalOrders int64   `json:"total_orders"`
		TotalProfit float64 `json:"total_profit"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorBody("Invalid request payload"))
	}

	stats, err := h.stats.Reset(c.Request().Context(), req.TotalOrders, req.TotalProfit)
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	logger.Info().Msgf("Admin %s reset stats to %d orders / %.2f", adminName(c), stats.TotalOrders, stats.TotalProfit)
	return c.JSON(200, stats)
}
