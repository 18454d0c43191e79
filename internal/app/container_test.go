package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/server"
	"github.com/nfrund/coursewizard/internal/session"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		ServerAddr:        ":0",
		CourseAPIURL:      "http://127.0.0.1:1",
		CourseAPITimeout:  time.Second,
		SessionSecret:     "0123456789abcdef0123456789abcdef",
		SessionBackend:    backend,
		SessionTTL:        time.Hour,
		ActivitiesURL:     "/activities",
		GenerateRateLimit: 10,
	}
}

func TestContainer_BuildsServer(t *testing.T) {
	injector := NewContainer(testConfig(config.SessionBackendMemory), slog.Default())

	s, err := do.Invoke[*server.Server](injector)
	require.NoError(t, err)
	require.NoError(t, s.Boot(context.Background()))
	t.Cleanup(func() { _ = Close(injector) })

	sessions := do.MustInvoke[*Sessions](injector)
	assert.IsType(t, &session.CacheBackend{}, sessions.Backend)

	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submodules", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/course/start", rec.Header().Get("Location"))
}

func TestContainer_SessionBackends(t *testing.T) {
	t.Run("cookie keeps no server side backend", func(t *testing.T) {
		sessions, err := do.Invoke[*Sessions](NewContainer(testConfig(config.SessionBackendCookie), slog.Default()))
		require.NoError(t, err)
		assert.Nil(t, sessions.Backend)
		assert.NoError(t, sessions.Close())
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		_, err := do.Invoke[*Sessions](NewContainer(testConfig("etcd"), slog.Default()))
		assert.ErrorContains(t, err, "unknown session backend")
	})
}
