// Package module defines the lifecycle shared by the wizard screens.
package module

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/registry"
)

// Module is one screen of the wizard, or a background feature such as the
// event announcer. The server calls Register on every module before it calls
// Boot on any of them, and Shutdown in reverse order.
type Module interface {
	// Name identifies the module in logs and errors.
	Name() string

	// Register publishes the services other modules look up during Boot.
	Register(reg *registry.Registry) error

	// Boot mounts the module's routes on router, which only admits requests
	// with an active course, and starts its subscriptions.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown stops what Boot started.
	Shutdown(ctx context.Context) error
}

// BaseModule provides no-op lifecycle methods for embedding.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error { return nil }

// Names returns the names of mods in order.
func Names(mods []Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name()
	}
	return names
}
