package api

import (
	"github.com/labstack/echo/v4"
)

// ListFeedback --> GET /api/feedback
func (h *StorefrontHandler) ListFeedback(c echo.Context) error {
	feedbacks, err := h.feedback.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(200, feedbacks)
}

// SubmitFeedback --> POST /api/feedback
func (h *StorefrontHandler) SubmitFeedback(c echo.Context) error {
	req := struct {
		Name     string `json:"name"`
		Feedback string `json:"feedback"`
		Rating   int    `json:"rating"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, errorBody("Invalid request payload"))
	}

	f, err := h.feedback.Submit(c.Request().Context(), req.Name, req.Feedback, req.Rating)
	if err != nil {
		return respondError(c, err, msgTryAgain)
	}
	return c.JSON(201, f)
}
