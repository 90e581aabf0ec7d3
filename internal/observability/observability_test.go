package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Format: "console", Service: "coaching-service"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/mentors", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/api/mentors", "GET", 500, 4*time.Millisecond)
	m.RecordError("/api/mentors", "GET", "INTERNAL_ERROR")
	m.RecordRequest("/api/auth/login", "POST", 200, time.Millisecond)

	stats := m.Snapshot()
	require.Len(t, stats, 2)
	assert.Equal(t, "/api/auth/login", stats[0].Path)
	assert.Equal(t, int64(2), stats[1].Requests)
	assert.Equal(t, int64(1), stats[1].Errors)
	assert.Equal(t, int64(1), stats[1].ServerErrors)
	assert.InDelta(t, 3.0, stats[1].AvgLatencyMs, 0.001)
	assert.Equal(t, int64(1), m.ErrorCount("/api/mentors", "GET", "INTERNAL_ERROR"))

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, 0)
	assert.Nil(t, nilMetrics.Snapshot())
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/api/mentors/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/mentors/mentor_1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := m.Snapshot()
	require.Len(t, stats, 1)
	assert.Equal(t, "/api/mentors/:id", stats[0].Path)
}
