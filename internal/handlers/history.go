package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/history"
	"github.com/soltixdb/trendlens/internal/models"
)

// ListHistory returns the most recent analysis runs
// GET /v1/history?limit=
func (h *Handler) ListHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "analysis history is disabled")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	runs, err := h.history.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(models.HistoryListResponse{Runs: runs, Count: len(runs)})
}

// GetHistory returns one stored run
// GET /v1/history/:id
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "analysis history is disabled")
	}

	run, err := h.history.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, history.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "analysis run not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(run)
}
