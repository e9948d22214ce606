package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
)

const (
	msgTryAgain      = "Please try again later"
	msgOrderNotSaved = "Failed to save order. Please contact support."
)

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// respondError maps domain errors to status codes. Anything unknown is
// logged and answered with the generic fallback message.
func respondError(c echo.Context, err error, fallback string) error {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(400, errorBody(ve.Msg))
	case errors.Is(err, entity.ErrInsufficientStock):
		return c.JSON(409, errorBody("Not enough stock left for this quantity"))
	case errors.Is(err, entity.ErrDuplicateOrder):
		return c.JSON(409, errorBody("This order has already been recorded"))
	case errors.Is(err, checkout.ErrInvalidTransition):
		return c.JSON(409, errorBody("This checkout cannot do that right now"))
	case errors.Is(err, entity.ErrProductNotFound):
		return c.JSON(404, errorBody("Product not found"))
	case errors.Is(err, entity.ErrSessionNotFound):
		return c.JSON(404, errorBody("Checkout not found or expired"))
	case errors.Is(err, entity.ErrStatsNotFound):
		return c.JSON(404, errorBody("Stats not found"))
	}

	logger.Error().Err(err).Msgf("%s %s failed", c.Request().Method, c.Path())
	return c.JSON(500, errorBody(fallback))
}
