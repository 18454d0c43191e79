package submodules

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/registry"
)

// Dependencies holds the services required by the submodule detail screen.
type Dependencies struct {
	Client domain.CourseService
}

// Module mounts the submodule detail screen. It reports what it sees to the
// wizard controller registered by the wizard module.
type Module struct {
	module.BaseModule
	client domain.CourseService
}

// NewModule creates the submodule detail module.
func NewModule(deps Dependencies) *Module {
	return &Module{client: deps.Client}
}

func (m *Module) Name() string {
	return "submodules"
}

func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	tracker, err := registry.Require(reg, wizard.ControllerKey)
	if err != nil {
		return err
	}
	h := NewHandler(m.client, tracker)
	g.GET("/submodules/:moduleID", h.Show)
	g.POST("/submodules/:moduleID", h.Add)
	g.POST("/submodules/:moduleID/:index", h.Save)
	g.POST("/submodules/:moduleID/:index/delete", h.Delete)
	return nil
}
