package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/web/src/templates/pages"
)

// CourseHandler enters and leaves the wizard for a course version.
type CourseHandler struct{}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler() *CourseHandler {
	return &CourseHandler{}
}

// Register mounts the course routes on e.
func (h *CourseHandler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET(StartPath, h.Start)
	e.POST("/course/reset", h.Reset)
	e.GET("/health", Health)
}

// Home sends the author to the first wizard screen.
func (h *CourseHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/modules")
}

// Start begins the wizard for ?course_id&version_id. Without them it shows the
// start form.
func (h *CourseHandler) Start(c echo.Context) error {
	courseID, versionID := c.QueryParam("course_id"), c.QueryParam("version_id")
	if courseID == "" && versionID == "" {
		return RenderPage(c, "Start", pages.StartContent())
	}

	sc := middleware.SessionContext(c)
	if err := sc.Begin(c.Request().Context(), courseID, versionID); err != nil {
		return RenderPage(c, "Start", pages.StartContent(), ErrorNotice(err))
	}
	middleware.FromContext(c.Request().Context()).Info("Course wizard started",
		"session_id", sc.ID(), "course_id", courseID, "module_version_id", versionID)
	return c.Redirect(http.StatusSeeOther, "/modules")
}

// Reset discards the wizard context of the session.
func (h *CourseHandler) Reset(c echo.Context) error {
	sc := middleware.SessionContext(c)
	if err := sc.Reset(c.Request().Context()); err != nil {
		return FailRedirect(c, err, "/modules")
	}
	return SuccessRedirect(c, "You left the course.", StartPath)
}

// Health reports liveness.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
