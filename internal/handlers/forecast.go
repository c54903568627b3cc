package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/models"
)

// Forecast projects one entity of an inline dataset
// POST /v1/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	fc, err := h.analysis.Forecast(c.UserContext(), req.Dataset, req.Country, req.Horizon)
	if err != nil {
		return err
	}
	return c.JSON(fc)
}
