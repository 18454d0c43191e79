package wizard

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/registry"
)

// ControllerKey is the registry key of the shared wizard controller.
var ControllerKey = registry.Key[*Controller](registry.WizardControllerName)

// ModuleDependencies holds what the wizard screen needs besides the controller's
// own dependencies.
type ModuleDependencies struct {
	Controller    Dependencies
	ActivitiesURL string
	// GenerateRateLimit caps open requests per client per minute; 0 disables it.
	GenerateRateLimit int
}

// Module mounts the wizard list and owns the shared Controller.
type Module struct {
	module.BaseModule
	deps ModuleDependencies
	ctl  *Controller
}

// NewModule creates the wizard module.
func NewModule(deps ModuleDependencies) *Module {
	return &Module{deps: deps}
}

func (m *Module) Name() string {
	return "wizard"
}

// Register builds the controller and shares it with the submodule screen.
func (m *Module) Register(reg *registry.Registry) error {
	m.ctl = New(m.deps.Controller)
	registry.Set(reg, ControllerKey, m.ctl)
	return nil
}

func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	h := NewHandler(m.ctl, m.deps.Controller.Client, m.deps.ActivitiesURL)
	g.GET("/submodules", h.List)

	var mw []echo.MiddlewareFunc
	if m.deps.GenerateRateLimit > 0 {
		mw = append(mw, middleware.RateLimiter(m.deps.GenerateRateLimit))
	}
	g.POST("/submodules/:moduleID/open", h.Open, mw...)
	return nil
}

// Controller returns the controller built by Register.
func (m *Module) Controller() *Controller {
	return m.ctl
}
