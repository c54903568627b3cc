package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/textanalysis"
)

// Insights runs the text analyzer over a model response
// POST /v1/insights
func (h *Handler) Insights(c *fiber.Ctx) error {
	var req models.InsightsRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	name := req.Name
	if name == "" {
		name = "inline"
	}
	return c.JSON(textanalysis.AnalyzeText(name, req.Text))
}
