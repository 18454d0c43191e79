package modulelist

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/handlers"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/modules/modulelist/view"
)

const listPath = "/modules"

// Handler serves the module list screen. A Controller is built per request from
// the session's wizard context.
type Handler struct {
	client domain.CourseService
}

// NewHandler creates a new module list handler.
func NewHandler(client domain.CourseService) *Handler {
	return &Handler{client: client}
}

func (h *Handler) controller(c echo.Context) (*Controller, error) {
	ctl := New(h.client, middleware.SessionContext(c), middleware.FromContext(c.Request().Context()))
	return ctl, ctl.Load(c.Request().Context())
}

// List renders the module list. ?edit=<index> opens that row as a form.
func (h *Handler) List(c echo.Context) error {
	ctl, err := h.controller(c)
	if err != nil {
		return h.loadFailed(c, err)
	}

	if edit := c.QueryParam("edit"); edit != "" {
		index, convErr := strconv.Atoi(edit)
		if convErr != nil {
			index = -1
		}
		if err := ctl.BeginEdit(index); err != nil {
			return handlers.RenderPage(c, "Modules", view.Page(pageData(ctl, domain.ModuleDraft{})), handlers.ErrorNotice(err))
		}
	}
	return handlers.RenderPage(c, "Modules", view.Page(pageData(ctl, domain.ModuleDraft{})))
}

// Add creates a module from the add form. The draft is checked before the
// course service is contacted; the list is only fetched to re-render the form.
func (h *Handler) Add(c echo.Context) error {
	var draft domain.ModuleDraft
	if err := c.Bind(&draft); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	if err := c.Validate(draft.Normalize()); err != nil {
		return h.invalidAdd(c, draft, err)
	}

	ctl := New(h.client, middleware.SessionContext(c), middleware.FromContext(c.Request().Context()))
	m, err := ctl.Add(c.Request().Context(), draft)
	if err != nil {
		if isValidation(err) {
			return h.invalidAdd(c, draft, err)
		}
		return handlers.FailRedirect(c, err, listPath)
	}
	return handlers.SuccessRedirect(c, "Module \""+m.Title+"\" added.", listPath)
}

// invalidAdd shows the list again with what was typed kept in the add form.
func (h *Handler) invalidAdd(c echo.Context, draft domain.ModuleDraft, verr error) error {
	ctl, err := h.controller(c)
	if err != nil {
		if isNoCourse(err) {
			return handlers.FailRedirect(c, err, handlers.StartPath)
		}
		middleware.FromContext(c.Request().Context()).Error("Failed to load modules", "error", err)
	}
	return handlers.RenderPage(c, "Modules", view.Page(pageData(ctl, draft)), handlers.ErrorNotice(verr))
}

// Save applies the edit form to the module at :index.
func (h *Handler) Save(c echo.Context) error {
	var (
		req   handlers.ItemRequest
		draft domain.ModuleDraft
	)
	if err := c.Bind(&req); err != nil {
		return handlers.FailRedirect(c, domain.ErrIndexOutOfRange, listPath)
	}
	if err := c.Bind(&draft); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	ctl, err := h.controller(c)
	if err != nil {
		return h.loadFailed(c, err)
	}
	if err := checkItem(ctl, req); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}

	if err := ctl.BeginEdit(req.Index); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	if err := ctl.UpdateDraft(draft); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	if err := ctl.Save(c.Request().Context()); err != nil {
		if isValidation(err) {
			return handlers.RenderPage(c, "Modules", view.Page(pageData(ctl, domain.ModuleDraft{})), handlers.ErrorNotice(err))
		}
		return handlers.FailRedirect(c, err, listPath+"?edit="+strconv.Itoa(req.Index))
	}
	return handlers.SuccessRedirect(c, "Module saved.", listPath)
}

// Delete removes the module at :index once the form carried confirm=yes.
func (h *Handler) Delete(c echo.Context) error {
	var req handlers.ItemRequest
	if err := c.Bind(&req); err != nil {
		return handlers.FailRedirect(c, domain.ErrIndexOutOfRange, listPath)
	}
	ctl, err := h.controller(c)
	if err != nil {
		return h.loadFailed(c, err)
	}
	if err := checkItem(ctl, req); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}

	title := ctl.Modules()[req.Index].Title
	if err := ctl.Delete(c.Request().Context(), req.Index, req.Confirmed()); err != nil {
		return handlers.FailRedirect(c, err, listPath)
	}
	return handlers.SuccessRedirect(c, "Module \""+title+"\" deleted.", listPath)
}

// loadFailed renders the page without rows when the list could not be fetched.
func (h *Handler) loadFailed(c echo.Context, err error) error {
	if isNoCourse(err) {
		return handlers.FailRedirect(c, err, handlers.StartPath)
	}
	middleware.FromContext(c.Request().Context()).Error("Failed to load modules", "error", err)
	return handlers.RenderPage(c, "Modules", view.Page(view.Data{Editing: -1}), handlers.ErrorNotice(err))
}

// checkItem rejects a request whose index no longer points at the module the
// form was rendered for.
func checkItem(ctl *Controller, req handlers.ItemRequest) error {
	modules := ctl.Modules()
	if req.Index < 0 || req.Index >= len(modules) {
		return domain.ErrIndexOutOfRange
	}
	if req.ID != "" && modules[req.Index].ID != req.ID {
		return domain.ErrIndexOutOfRange
	}
	return nil
}

func pageData(ctl *Controller, add domain.ModuleDraft) view.Data {
	modules := ctl.Modules()
	data := view.Data{
		Rows:    make([]view.Row, len(modules)),
		Editing: ctl.Editing(),
		Add:     formFromDraft(add),
	}
	for i, m := range modules {
		data.Rows[i] = view.Row{Index: i, ID: m.ID, Title: m.Title, Description: m.Description, Hours: m.Hours.String()}
	}
	if data.Editing >= 0 {
		data.Edit = formFromDraft(ctl.Draft())
	}
	return data
}

func formFromDraft(d domain.ModuleDraft) view.Form {
	return view.Form{Title: d.Title, Description: d.Description, Hours: d.Hours}
}
