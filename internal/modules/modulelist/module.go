package modulelist

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/registry"
)

// Dependencies holds the services required by the module list screen.
type Dependencies struct {
	Client domain.CourseService
}

// Module mounts the module list screen.
type Module struct {
	module.BaseModule
	client  domain.CourseService
	handler *Handler
}

// NewModule creates the module list module.
func NewModule(deps Dependencies) *Module {
	return &Module{client: deps.Client}
}

func (m *Module) Name() string {
	return "modulelist"
}

func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	m.handler = NewHandler(m.client)
	g.GET("/modules", m.handler.List)
	g.POST("/modules", m.handler.Add)
	g.POST("/modules/:index", m.handler.Save)
	g.POST("/modules/:index/delete", m.handler.Delete)
	return nil
}
