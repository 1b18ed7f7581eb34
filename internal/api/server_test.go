package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/schedule"
)

func TestRecoveredPanicReachesAppLogger(t *testing.T) {
	settings, err := conf.Defaults()
	require.NoError(t, err)
	settings.Storage.Type = conf.StorageMemory
	clock := schedule.NewVirtual(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	a, err := app.New(settings, nil, app.WithScheduler(clock))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	srv := New(a, WithLogger(logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC)))
	t.Cleanup(func() {
		require.NoError(t, srv.Shutdown(context.Background()))
		_ = a.Close()
	})
	require.IsType(t, &logger.EchoAdapter{}, srv.Echo().Logger)

	srv.Echo().GET("/kaboom", func(echo.Context) error { panic("kaboom") })
	f := &fixture{srv: srv, app: a, clock: clock}
	rec := f.do(t, http.MethodGet, "/kaboom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var entry map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		if msg, _ := m["msg"].(string); strings.Contains(msg, "[PANIC RECOVER] kaboom") {
			entry = m
		}
	}
	require.NotNil(t, entry, "panic report missing from app log: %s", buf.String())
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "api.echo", entry["module"])
}
