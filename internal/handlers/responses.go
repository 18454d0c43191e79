package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/view"
	"github.com/nfrund/coursewizard/web/src/templates/layouts"
)

// StartPath is where a visitor without an active course is sent.
const StartPath = "/course/start"

// RenderPage wraps content in the base layout with the pending flash messages and
// any extra notices for this render.
func RenderPage(c echo.Context, title string, content cmp.Node, extra ...view.FlashMessage) error {
	flashData := view.GetFlashData(c)
	messages := append(flashData.Messages, extra...)
	return c.Render(http.StatusOK, "", layouts.Base(title, messages, content))
}

// ErrorNotice turns err into a notice rendered with the current page.
func ErrorNotice(err error) view.FlashMessage {
	return view.FlashMessage{Kind: "error", Text: view.ErrorMessage(err)}
}

// FailRedirect logs err with the request logger, stores it as a flash error and
// redirects to target. A missing course context always goes to the start page.
func FailRedirect(c echo.Context, err error, target string) error {
	logger := middleware.FromContext(c.Request().Context())
	var terr *domain.TransportError
	if errors.As(err, &terr) {
		logger.Error("Course service request failed", "error", err, "path", c.Path())
	} else {
		logger.Info("Request rejected", "error", err, "path", c.Path())
	}

	if errors.Is(err, domain.ErrNoCourseContext) {
		target = StartPath
	}
	view.SetFlashError(c, view.ErrorMessage(err))
	return c.Redirect(http.StatusSeeOther, target)
}

// SuccessRedirect stores a flash success message and redirects to target.
func SuccessRedirect(c echo.Context, message, target string) error {
	view.SetFlashSuccess(c, message)
	return c.Redirect(http.StatusSeeOther, target)
}
