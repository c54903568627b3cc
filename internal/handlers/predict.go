package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/services"
)

// Predict asks a language model about a dataset file
// POST /v1/predict
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req models.PredictRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	path, err := h.dataPath(req.Path)
	if err != nil {
		return err
	}

	resp, err := h.predictions.PredictFile(c.UserContext(), path, services.PredictOptions{
		Provider:   req.Provider,
		Model:      req.Model,
		Question:   req.Question,
		MaxRecords: req.MaxRecords,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
