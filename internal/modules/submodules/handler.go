package submodules

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/handlers"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/modules/submodules/view"
)

const wizardPath = "/submodules"

// Handler serves the submodule detail screen of one module.
type Handler struct {
	client  domain.CourseService
	tracker Tracker
}

// NewHandler creates a new submodule detail handler.
func NewHandler(client domain.CourseService, tracker Tracker) *Handler {
	return &Handler{client: client, tracker: tracker}
}

func detailPath(moduleID string) string {
	return wizardPath + "/" + moduleID
}

// load builds the screen for :moduleID. Errors that leave nothing to show are
// answered with a redirect to the wizard list; handled reports that case.
func (h *Handler) load(c echo.Context) (ctl *Controller, handled bool, err error) {
	ctl = New(h.client, middleware.SessionContext(c), h.tracker, middleware.FromContext(c.Request().Context()))
	if err := ctl.Load(c.Request().Context(), c.Param("moduleID")); err != nil {
		return nil, true, handlers.FailRedirect(c, err, wizardPath)
	}
	return ctl, false, nil
}

// Show renders the submodules. ?edit=<index> opens that row as a form.
func (h *Handler) Show(c echo.Context) error {
	ctl, handled, err := h.load(c)
	if handled {
		return err
	}
	if edit := c.QueryParam("edit"); edit != "" {
		index, convErr := strconv.Atoi(edit)
		if convErr != nil {
			index = -1
		}
		if err := ctl.BeginEdit(index); err != nil {
			return handlers.RenderPage(c, ctl.Module().Title, view.Page(pageData(ctl, domain.SubmoduleDraft{})), handlers.ErrorNotice(err))
		}
	}
	return handlers.RenderPage(c, ctl.Module().Title, view.Page(pageData(ctl, domain.SubmoduleDraft{})))
}

// Add creates a submodule from the add form.
func (h *Handler) Add(c echo.Context) error {
	var draft domain.SubmoduleDraft
	if err := c.Bind(&draft); err != nil {
		return handlers.FailRedirect(c, err, detailPath(c.Param("moduleID")))
	}
	ctl, handled, err := h.load(c)
	if handled {
		return err
	}

	s, err := ctl.Add(c.Request().Context(), draft)
	if err != nil {
		return h.mutationFailed(c, ctl, err, draft)
	}
	return handlers.SuccessRedirect(c, "Submodule \""+s.Title+"\" added.", detailPath(ctl.Module().ID))
}

// Save applies the edit form to the submodule at :index.
func (h *Handler) Save(c echo.Context) error {
	var (
		req   handlers.ItemRequest
		draft domain.SubmoduleDraft
	)
	if err := c.Bind(&req); err != nil {
		return handlers.FailRedirect(c, domain.ErrIndexOutOfRange, detailPath(c.Param("moduleID")))
	}
	if err := c.Bind(&draft); err != nil {
		return handlers.FailRedirect(c, err, detailPath(c.Param("moduleID")))
	}
	ctl, handled, err := h.load(c)
	if handled {
		return err
	}
	if err := checkItem(ctl, req); err != nil {
		return handlers.FailRedirect(c, err, detailPath(ctl.Module().ID))
	}

	if err := ctl.BeginEdit(req.Index); err != nil {
		return handlers.FailRedirect(c, err, detailPath(ctl.Module().ID))
	}
	if err := ctl.UpdateDraft(draft); err != nil {
		return handlers.FailRedirect(c, err, detailPath(ctl.Module().ID))
	}
	if err := ctl.Save(c.Request().Context()); err != nil {
		return h.mutationFailed(c, ctl, err, domain.SubmoduleDraft{})
	}
	return handlers.SuccessRedirect(c, "Submodule saved.", detailPath(ctl.Module().ID))
}

// Delete removes the submodule at :index once the form carried confirm=yes.
// Deleting the last one discards the module's submodule version.
func (h *Handler) Delete(c echo.Context) error {
	var req handlers.ItemRequest
	if err := c.Bind(&req); err != nil {
		return handlers.FailRedirect(c, domain.ErrIndexOutOfRange, detailPath(c.Param("moduleID")))
	}
	ctl, handled, err := h.load(c)
	if handled {
		return err
	}
	if err := checkItem(ctl, req); err != nil {
		return handlers.FailRedirect(c, err, detailPath(ctl.Module().ID))
	}

	title := ctl.Submodules()[req.Index].Title
	if err := ctl.Delete(c.Request().Context(), req.Index, req.Confirmed()); err != nil {
		if domain.IsStale(err) {
			return handlers.SuccessRedirect(c, "Submodule \""+title+"\" deleted. The module has no submodules left and must be generated again.", wizardPath)
		}
		return h.mutationFailed(c, ctl, err, domain.SubmoduleDraft{})
	}
	return handlers.SuccessRedirect(c, "Submodule \""+title+"\" deleted.", detailPath(ctl.Module().ID))
}

// mutationFailed keeps the author on the page for validation errors and
// redirects otherwise. A stale version goes back to the wizard list.
func (h *Handler) mutationFailed(c echo.Context, ctl *Controller, err error, add domain.SubmoduleDraft) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return handlers.RenderPage(c, ctl.Module().Title, view.Page(pageData(ctl, add)), handlers.ErrorNotice(err))
	case domain.IsStale(err):
		return handlers.FailRedirect(c, err, wizardPath)
	default:
		return handlers.FailRedirect(c, err, detailPath(ctl.Module().ID))
	}
}

func checkItem(ctl *Controller, req handlers.ItemRequest) error {
	subs := ctl.Submodules()
	if req.Index < 0 || req.Index >= len(subs) {
		return domain.ErrIndexOutOfRange
	}
	if req.ID != "" && subs[req.Index].ID != req.ID {
		return domain.ErrIndexOutOfRange
	}
	return nil
}

func pageData(ctl *Controller, add domain.SubmoduleDraft) view.Data {
	subs := ctl.Submodules()
	m := ctl.Module()
	data := view.Data{
		ModuleID:    m.ID,
		ModuleTitle: m.Title,
		ModuleHours: m.Hours.String(),
		VersionID:   ctl.VersionID(),
		Rows:        make([]view.Row, len(subs)),
		Suggestions: ctl.Suggestions(),
		Editing:     ctl.Editing(),
		Add:         view.Form{Title: add.Title, Description: add.Description},
	}
	for i, s := range subs {
		data.Rows[i] = view.Row{Index: i, ID: s.ID, Title: s.Title, Description: s.Description}
	}
	if data.Editing >= 0 {
		d := ctl.Draft()
		data.Edit = view.Form{Title: d.Title, Description: d.Description}
	}
	return data
}
