package wizard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/handlers"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/modules/wizard/view"
	gview "github.com/nfrund/coursewizard/internal/view"
)

const listPath = "/submodules"

// Handler serves the wizard list and the open action of each card.
type Handler struct {
	ctl           *Controller
	client        domain.CourseService
	activitiesURL string
}

// NewHandler creates a new wizard handler.
func NewHandler(ctl *Controller, client domain.CourseService, activitiesURL string) *Handler {
	return &Handler{ctl: ctl, client: client, activitiesURL: activitiesURL}
}

// List renders every module card and the gate to the activities step.
func (h *Handler) List(c echo.Context) error {
	sc := middleware.SessionContext(c)
	ov, err := h.ctl.Overview(c.Request().Context(), sc)
	if err != nil {
		if errors.Is(err, domain.ErrNoCourseContext) {
			return handlers.FailRedirect(c, err, handlers.StartPath)
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to load wizard overview", "error", err)
		return handlers.RenderPage(c, "Submodules", view.Page(view.Data{}), handlers.ErrorNotice(err))
	}
	return handlers.RenderPage(c, "Submodules", view.Page(h.pageData(ov)))
}

// Open generates submodules for :moduleID when none are cached, then shows them.
func (h *Handler) Open(c echo.Context) error {
	ctx := c.Request().Context()
	sc := middleware.SessionContext(c)
	moduleID := c.Param("moduleID")

	course, err := sc.Require(ctx)
	if err != nil {
		return handlers.FailRedirect(c, err, handlers.StartPath)
	}
	module, err := h.client.GetModule(ctx, course.CourseID, course.ModuleVersionID, moduleID)
	if err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}

	out, err := h.ctl.Open(ctx, sc, module)
	if err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	middleware.FromContext(ctx).Info("Module opened",
		slog.String("module_id", out.ModuleID),
		slog.String("version_id", out.VersionID),
		slog.Bool("generated", out.Generated))
	if out.Generated {
		gview.SetFlashSuccess(c, "Submodules generated for \""+module.Title+"\".")
	}
	return c.Redirect(http.StatusSeeOther, listPath+"/"+out.ModuleID)
}

func (h *Handler) pageData(ov Overview) view.Data {
	data := view.Data{
		Cards:         make([]view.Card, len(ov.Cards)),
		Busy:          ov.Generating != "",
		CanContinue:   ov.CanContinue,
		ActivitiesURL: h.activitiesURL,
	}
	for i, card := range ov.Cards {
		vc := view.Card{
			ModuleID:    card.Module.ID,
			Title:       card.Module.Title,
			Description: card.Module.Description,
			Hours:       card.Module.Hours.String(),
			State:       card.State.String(),
			Ready:       card.State == Ready,
			Generating:  card.State == Generating,
		}
		if card.Err != nil {
			vc.Error = gview.ErrorMessage(card.Err)
		}
		data.Cards[i] = vc
	}
	return data
}
