package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
)

type checkoutResponse struct {
	*checkout.Session
	PaymentQRURL string `json:"payment_qr_url,omitempty"`
}

func (h *StorefrontHandler) sessionResponse(sess *checkout.Session) checkoutResponse {
	return checkoutResponse{Session: sess, PaymentQRURL: h.paymentQRURL}
}

// BeginCheckout opens the payment dialog --> POST /api/checkout
func (h *StorefrontHandler) BeginCheckout(c echo.Context) error {
	req := struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorBody("Invalid request payload"))
	}

	sess, err := h.checkout.Begin(c.Request().Context(), req.Product, req.Quantity)
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(201, h.sessionResponse(sess))
}

// GetCheckout --> GET /api/checkout/:id
func (h *StorefrontHandler) GetCheckout(c echo.Context) error {
	sess, err := h.checkout.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(200, h.sessionResponse(sess))
}

// ConfirmPayment issues the order id --> POST /api/checkout/:id/confirm
func (h *StorefrontHandler) ConfirmPayment(c echo.Context) error {
	sess, err := h.checkout.ConfirmPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(200, h.sessionResponse(sess))
}

// FulfilOrder records the order and returns the hand-off link --> POST /api/checkout/:id/fulfil
func (h *StorefrontHandler) FulfilOrder(c echo.Context) error {
	req := struct {
		Channel string `json:"channel"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorBody("Invalid request payload"))
	}
	ch, err := entity.ParseChannel(req.Channel)
	if err != nil {
		return respondError(c, err, msgOrderNotSaved)
	}

	res, err := h.checkout.Fulfil(c.Request().Context(), c.Param("id"), ch)
	if err != nil {
		return respondError(c, err, msgOrderNotSaved)
	}
	return c.JSON(200, res)
}

// CancelCheckout closes the dialog --> DELETE /api/checkout/:id
func (h *StorefrontHandler) CancelCheckout(c echo.Context) error {
	if err := h.checkout.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.NoContent(204)
}
