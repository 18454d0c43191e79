package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/courseclient"
	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/pubsub"
	"github.com/nfrund/coursewizard/internal/readiness"
	"github.com/nfrund/coursewizard/internal/server"
	"github.com/nfrund/coursewizard/internal/session"
)

// Sessions is the configured wizard context backend.
type Sessions struct {
	// Backend is nil when the context lives in the session cookie.
	Backend session.Backend
	redis   *redis.Client
}

// Close releases the redis connection, if any.
func (s *Sessions) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

// NewContainer wires the application services. Nothing is built until it is
// first invoked.
func NewContainer(cfg *config.Config, logger *slog.Logger) do.Injector {
	i := do.New()
	do.ProvideValue(i, cfg)
	do.ProvideValue(i, logger)
	do.Provide(i, provideCourseClient)
	do.Provide(i, provideReadiness)
	do.Provide(i, provideBridge)
	do.Provide(i, provideSessions)
	do.Provide(i, provideServer)
	return i
}

func provideCourseClient(i do.Injector) (domain.CourseService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return courseclient.New(cfg.GetCourseAPIURL(), cfg.GetCourseAPITimeout(), do.MustInvoke[*slog.Logger](i)), nil
}

func provideReadiness(i do.Injector) (*readiness.Aggregator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[domain.CourseService](i)
	return readiness.New(client, cfg.GetReadinessConcurrency(), do.MustInvoke[*slog.Logger](i)), nil
}

func provideBridge(i do.Injector) (*pubsub.WatermillBridge, error) {
	return pubsub.NewWatermillBridge(), nil
}

func provideSessions(i do.Injector) (*Sessions, error) {
	cfg := do.MustInvoke[*config.Config](i)
	switch cfg.GetSessionBackend() {
	case config.SessionBackendCookie:
		return &Sessions{}, nil
	case config.SessionBackendMemory:
		return &Sessions{Backend: session.NewCacheBackend(cfg.GetSessionTTL())}, nil
	case config.SessionBackendRedis:
		rdb, err := session.DialRedis(context.Background(), cfg.GetRedisURL())
		if err != nil {
			return nil, err
		}
		return &Sessions{Backend: session.NewRedisBackend(rdb, cfg.GetSessionTTL()), redis: rdb}, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.GetSessionBackend())
	}
}

func provideServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	bridge := do.MustInvoke[*pubsub.WatermillBridge](i)
	sessions, err := do.Invoke[*Sessions](i)
	if err != nil {
		return nil, err
	}

	modules := NewModules(Dependencies{
		Config:     cfg,
		Logger:     logger,
		Client:     do.MustInvoke[domain.CourseService](i),
		Readiness:  do.MustInvoke[*readiness.Aggregator](i),
		Publisher:  bridge,
		Subscriber: bridge,
	})
	return server.New(server.Options{Config: cfg, Sessions: sessions.Backend, Modules: modules}), nil
}

// Close releases what the container built: the session backend and the bus.
func Close(i do.Injector) error {
	var errs []error
	if sessions, err := do.Invoke[*Sessions](i); err == nil {
		errs = append(errs, sessions.Close())
	}
	if bridge, err := do.Invoke[*pubsub.WatermillBridge](i); err == nil {
		errs = append(errs, bridge.Close())
	}
	return errors.Join(errs...)
}
