package logging

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/somikoronAI-Source/smretrofit/internal/config"
)

func TestGinHelpersAddRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetRequestContext(c, "req-1", time.Now())
	require.Equal(t, "req-1", RequestID(c))

	Info(c).Msg("hello")
	require.Contains(t, buf.String(), `"request_id":"req-1"`)
	require.Contains(t, buf.String(), `"duration"`)

	buf.Reset()
	Warn(nil).Msg("bare")
	require.NotContains(t, buf.String(), "request_id")
}

func TestNewServiceLoggerTagsClient(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := NewServiceLogger(&config.Config{ClientID: "bridge-7"}, "detection")
	logger.Info().Msg("ready")
	require.Contains(t, buf.String(), `"client_id":"bridge-7"`)
	require.Contains(t, buf.String(), `"service":"detection"`)
}

func TestErrorHelperCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetRequestContext(c, "req-2", time.Now())
	Error(c).Msg("boom")
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), `"request_id":"req-2"`)
}
