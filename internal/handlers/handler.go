package handlers

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/services"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HistoryReader is the read side of the run history
type HistoryReader interface {
	Get(ctx context.Context, id string) (models.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]models.AnalysisRun, error)
}

// Deps are the services behind the HTTP handlers. History may be nil when
// the run history is disabled.
type Deps struct {
	Analysis    *services.AnalysisService
	Predictions *services.PredictionService
	History     HistoryReader
}

// Handler contains all HTTP handlers
type Handler struct {
	logger      *logging.Logger
	cfg         *config.Config
	analysis    *services.AnalysisService
	predictions *services.PredictionService
	history     HistoryReader
	validate    *validator.Validate
}

// New creates a new handler instance
func New(logger *logging.Logger, cfg *config.Config, deps Deps) *Handler {
	return &Handler{
		logger:      logger,
		cfg:         cfg,
		analysis:    deps.Analysis,
		predictions: deps.Predictions,
		history:     deps.History,
		validate:    newValidator(),
	}
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body into out and validates its struct tags
func (h *Handler) bind(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return services.NewServiceError(services.CodeInvalidRequest, "request body is required")
	}
	if err := c.BodyParser(out); err != nil {
		return services.NewServiceErrorWithDetails(services.CodeInvalidRequest, "invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return h.check(out)
}

func (h *Handler) check(out interface{}) error {
	err := h.validate.Struct(out)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.NewServiceError(services.CodeInvalidRequest, err.Error())
	}
	fields := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return services.NewServiceErrorWithDetails(services.CodeInvalidRequest, "request validation failed", fields)
}

// dataPath resolves a request path below the data directory
func (h *Handler) dataPath(rel string) (string, error) {
	full, err := h.cfg.ResolveDataPath(rel)
	if err != nil {
		return "", services.NewServiceErrorWithDetails(services.CodeInvalidRequest, err.Error(), map[string]interface{}{
			"path": rel,
		})
	}
	return full, nil
}
