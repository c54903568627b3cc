package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/services"
)

// HeaderRunID carries the id of the stored analysis run
const HeaderRunID = "X-Run-ID"

// Analyze analyzes a dataset posted as the request body
// POST /v1/analyze?country=&top_n=
func (h *Handler) Analyze(c *fiber.Ctx) error {
	topN, err := queryTopN(c)
	if err != nil {
		return err
	}
	if len(c.Body()) == 0 {
		return services.NewServiceError(services.CodeInvalidDataset, "dataset body is required")
	}

	ds, err := models.ParseDataset(c.Body())
	if err != nil {
		return services.NewServiceErrorWithDetails(services.CodeInvalidDataset, "invalid dataset", map[string]interface{}{
			"error": err.Error(),
		})
	}

	outcome, err := h.analysis.AnalyzeDataset(c.UserContext(), services.SourceInline, ds, services.AnalysisOptions{
		Country: c.Query("country"),
		TopN:    topN,
	})
	if err != nil {
		return err
	}

	c.Set(HeaderRunID, outcome.RunID)
	return c.JSON(outcome.Result)
}

// AnalyzeFile analyzes a dataset file below the data directory
// POST /v1/analyze/file
func (h *Handler) AnalyzeFile(c *fiber.Ctx) error {
	var req models.AnalyzeFileRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	path, err := h.dataPath(req.Path)
	if err != nil {
		return err
	}

	outcome, err := h.analysis.AnalyzeFile(c.UserContext(), path, services.AnalysisOptions{
		Country: req.Country,
		TopN:    req.TopN,
		Formats: req.Formats,
	})
	if err != nil {
		return err
	}

	c.Set(HeaderRunID, outcome.RunID)
	return c.JSON(models.AnalyzeFileResponse{
		Result:  outcome.Result,
		Outputs: outcome.Outputs,
		RunID:   outcome.RunID,
	})
}

// queryTopN parses top_n; absent means the configured default
func queryTopN(c *fiber.Ctx) (int, error) {
	raw := c.Query("top_n")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, services.NewServiceErrorWithDetails(services.CodeInvalidRequest, "top_n must be a positive integer", map[string]interface{}{
			"top_n": raw,
		})
	}
	return n, nil
}
