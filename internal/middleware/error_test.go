package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/services"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.NewNop())})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func decodeError(t *testing.T, body io.Reader) models.ErrorResponse {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &er))
	return er
}

func TestErrorHandler_ServiceError(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{services.CodeInvalidRequest, fiber.StatusBadRequest},
		{services.CodeInvalidDataset, fiber.StatusBadRequest},
		{services.CodeDatasetNotFound, fiber.StatusNotFound},
		{services.CodeEntityNotFound, fiber.StatusNotFound},
		{services.CodeProviderUnavailable, fiber.StatusServiceUnavailable},
		{services.CodePredictionFailed, fiber.StatusBadGateway},
		{services.CodeOutputFailed, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := services.NewServiceErrorWithDetails(tt.code, "something happened", map[string]interface{}{"k": "v"})
			resp, e := errorApp(err).Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, e)
			assert.Equal(t, tt.status, resp.StatusCode)

			er := decodeError(t, resp.Body)
			assert.Equal(t, tt.code, er.Error.Code)
			assert.Equal(t, "something happened", er.Error.Message)
			assert.Equal(t, "/fail", er.Error.Path)
			assert.Equal(t, "v", er.Error.Details["k"])
		})
	}
}

func TestErrorHandler_FiberError(t *testing.T) {
	tests := []struct {
		err    *fiber.Error
		status int
		code   string
	}{
		{fiber.ErrBadRequest, fiber.StatusBadRequest, services.CodeInvalidRequest},
		{fiber.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{fiber.ErrTeapot, fiber.StatusTeapot, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Message, func(t *testing.T) {
			resp, err := errorApp(tt.err).Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			er := decodeError(t, resp.Body)
			assert.Equal(t, tt.code, er.Error.Code)
			assert.Equal(t, tt.err.Message, er.Error.Message)
		})
	}
}

func TestErrorHandler_GenericError(t *testing.T) {
	resp, err := errorApp(errors.New("disk on fire")).Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	er := decodeError(t, resp.Body)
	assert.Equal(t, "INTERNAL_ERROR", er.Error.Code)
	assert.Equal(t, "Internal Server Error", er.Error.Message, "internal details are not leaked")
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	resp, err := errorApp(nil).Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
