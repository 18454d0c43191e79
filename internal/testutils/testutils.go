package testutils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/handlers"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/rendering"
)

// TestSessionSecret signs the session cookies of test servers.
const TestSessionSecret = "test-secret-0123456789abcdef0123"

// ConfigForTests builds a config from the environment, overlaid with .env.test
// at the project root when that file exists.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := projectRoot(); ok {
		if env, err := godotenv.Read(filepath.Join(root, ".env.test")); err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	if os.Getenv("SESSION_SECRET") == "" {
		t.Setenv("SESSION_SECRET", TestSessionSecret)
	}
	return config.FromEnv()
}

func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}

// WebApp is an echo server with the session stack and the course routes, driven
// like a browser that keeps its cookies.
type WebApp struct {
	E       *echo.Echo
	App     *echo.Group
	cookies map[string]*http.Cookie
}

// NewWebApp builds a WebApp keeping the wizard context in the session cookie.
// Screens are mounted on App, which requires an active course.
func NewWebApp(t *testing.T, cfg middleware.SessionConfig) *WebApp {
	t.Helper()
	e := echo.New()
	e.Renderer = rendering.NewNodeRenderer()
	e.Validator = handlers.NewValidator()
	e.Use(middleware.Logger)
	e.Use(echosession.Middleware(sessions.NewCookieStore([]byte(TestSessionSecret))))
	e.Use(middleware.Session(cfg))
	handlers.NewCourseHandler().Register(e)

	return &WebApp{
		E:       e,
		App:     e.Group("", middleware.RequireCourse(handlers.StartPath)),
		cookies: map[string]*http.Cookie{},
	}
}

// Do sends a request with the stored cookies and remembers the ones set by the
// response. A non-nil form is sent url-encoded.
func (w *WebApp) Do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range w.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	w.E.ServeHTTP(rec, req)
	for _, c := range (&http.Response{Header: rec.Header()}).Cookies() {
		w.cookies[c.Name] = c
	}
	return rec
}

// Begin starts the wizard for a course version.
func (w *WebApp) Begin(t *testing.T, courseID, versionID string) {
	t.Helper()
	rec := w.Do(http.MethodGet, handlers.StartPath+"?course_id="+url.QueryEscape(courseID)+"&version_id="+url.QueryEscape(versionID), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

// Follow fetches the Location of a redirect and returns the page it leads to.
func (w *WebApp) Follow(t *testing.T, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return w.Do(http.MethodGet, rec.Header().Get(echo.HeaderLocation), nil)
}
