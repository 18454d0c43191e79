// Package announcer writes an audit trail of the wizard: every generation,
// invalidation and failed generation published on the bus is logged.
package announcer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/modules/wizard/events"
	"github.com/nfrund/coursewizard/internal/pubsub"
	"github.com/nfrund/coursewizard/internal/registry"
)

// AnnouncerModule subscribes to the wizard events and logs them.
type AnnouncerModule struct {
	module.BaseModule
	subscriber pubsub.Subscriber
	log        *slog.Logger

	cancel context.CancelFunc
	mu     sync.Mutex
	seen   map[string]int
}

// Dependencies holds the services required by the AnnouncerModule
type Dependencies struct {
	Subscriber pubsub.Subscriber
	Logger     *slog.Logger
}

// New creates a new AnnouncerModule instance
func New(deps Dependencies) *AnnouncerModule {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AnnouncerModule{
		subscriber: deps.Subscriber,
		log:        logger.With("module", "announcer"),
		seen:       make(map[string]int),
	}
}

// Name returns the module name
func (m *AnnouncerModule) Name() string {
	return "announcer"
}

// Boot subscribes to the wizard topics. The subscriptions live until Shutdown.
func (m *AnnouncerModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	subCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	err := pubsub.Subscribe(subCtx, m.subscriber, events.TopicSubmodulesGenerated,
		func(ctx context.Context, sessionID string, e events.SubmodulesGenerated) error {
			m.record(events.TopicSubmodulesGenerated.Name())
			m.log.Info("Submodules generated",
				"session_id", sessionID, "course_id", e.CourseID, "module_id", e.ModuleID,
				"version_id", e.VersionID, "elapsed_ms", e.ElapsedMS, "at", e.Timestamp)
			return nil
		})
	if err != nil {
		cancel()
		return err
	}

	err = pubsub.Subscribe(subCtx, m.subscriber, events.TopicSubmodulesInvalidated,
		func(ctx context.Context, sessionID string, e events.SubmodulesInvalidated) error {
			m.record(events.TopicSubmodulesInvalidated.Name())
			m.log.Info("Submodule version invalidated",
				"session_id", sessionID, "module_id", e.ModuleID, "version_id", e.VersionID,
				"reason", e.Reason, "at", e.Timestamp)
			return nil
		})
	if err != nil {
		cancel()
		return err
	}

	err = pubsub.Subscribe(subCtx, m.subscriber, events.TopicGenerationFailed,
		func(ctx context.Context, sessionID string, e events.GenerationFailed) error {
			m.record(events.TopicGenerationFailed.Name())
			m.log.Warn("Submodule generation failed",
				"session_id", sessionID, "module_id", e.ModuleID, "error", e.Error, "at", e.Timestamp)
			return nil
		})
	if err != nil {
		cancel()
		return err
	}

	m.log.Info("AnnouncerModule subscribed to wizard events")
	return nil
}

// Shutdown ends the subscriptions.
func (m *AnnouncerModule) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// Seen returns how many events of topic were logged.
func (m *AnnouncerModule) Seen(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[topic]
}

func (m *AnnouncerModule) record(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[topic]++
}
