package api

import (
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type ServerConfig struct {
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit      float64
	RateBurst      int
	CORSOrigins    []string
	AdminJWTSecret string
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(h *StorefrontHandler, cfg ServerConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(cfg.RateLimit, cfg.RateBurst)))
	}

	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/products", h.ListProducts)
	api.GET("/stats", h.GetStats)
	api.GET("/activity", h.ListActivity)

	api.POST("/checkout", h.BeginCheckout)
	api.GET("/checkout/:id", h.GetCheckout)
	api.POST("/checkout/:id/confirm", h.ConfirmPayment)
	api.POST("/checkout/:id/fulfil", h.FulfilOrder)
	api.DELETE("/checkout/:id", h.CancelCheckout)

	api.GET("/feedback", h.ListFeedback)
	api.POST("/feedback", h.SubmitFeedback)

	if cfg.AdminJWTSecret != "" {
		admin := api.Group("/admin", echojwt.JWT([]byte(cfg.AdminJWTSecret)))
		admin.PUT("/products/:name/stock", h.UpdateStock)
		admin.PUT("/stats", h.ResetStats)
	}

	return e
}

func rateLimiterConfig(limit float64, burst int) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(limit),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, errorBody("rate limit exceeded"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, errorBody("rate limit exceeded"))
		},
	}
}
