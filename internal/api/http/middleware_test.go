package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/24BytesCo/workitem-service/internal/api/dto"
	"github.com/24BytesCo/workitem-service/internal/observability"
	apperrors "github.com/24BytesCo/workitem-service/pkg/util"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, dto.GenericResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	var body dto.GenericResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestErrorMiddlewareConvertsDomainErrors(t *testing.T) {
	app := newTestApp()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFoundMessage("no work item found with id 42", nil)
	})
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("you do not have permission to access this resource")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewConflict("the work item was modified by another process; reload and try again", nil)
	})

	resp, body := doRequest(t, app, "/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "no work item found with id 42", body.Message)
	assert.Nil(t, body.Data)
	assert.Zero(t, body.TotalCount)

	resp, body = doRequest(t, app, "/denied")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, body.Success)

	resp, body = doRequest(t, app, "/conflict")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, body.Success)
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := newTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, body := doRequest(t, app, "/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "internal server error", body.Message)
}

func TestSuccessfulResponsesPassThrough(t *testing.T) {
	app := newTestApp()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(dto.OKList("items retrieved", []string{"a", "b"}, 10))
	})

	resp, body := doRequest(t, app, "/ok")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	assert.Equal(t, 10, body.TotalCount)
}
