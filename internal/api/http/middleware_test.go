package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/observability"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/check", handler)
	return app
}

func fetchError(t *testing.T, app *fiber.App) (int, errorEnvelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/check", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestFiberErrorKeepsStatusAndCode(t *testing.T) {
	app := testApp(func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	})

	status, envelope := fetchError(t, app)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidationFailed, envelope.Error.Code)
	assert.Equal(t, "invalid payload", envelope.Error.Message)
}

func TestFiberUnauthorizedErrorMapsCode(t *testing.T) {
	app := testApp(func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusUnauthorized, "staff required")
	})

	status, envelope := fetchError(t, app)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, envelope.Error.Code)
}

func TestDomainErrorPassesThrough(t *testing.T) {
	app := testApp(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("work order", nil)
	})

	status, envelope := fetchError(t, app)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, envelope.Error.Code)
}
