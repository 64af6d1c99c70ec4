package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naafe/internal/adapter/api/handler"
	"naafe/internal/adapter/api/router"
)

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	handler.SetupHealthHandler(nil)
	router.SetupHealthRouter(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")
}
