package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/session"
)

func newSessionEcho(cfg SessionConfig) *echo.Echo {
	e := echo.New()
	e.Use(echosession.Middleware(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))))
	e.Use(Session(cfg))

	e.POST("/begin", func(c echo.Context) error {
		if err := SessionContext(c).Begin(c.Request().Context(), c.FormValue("course"), "mv1"); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/course")
	})
	course := e.Group("/course", RequireCourse("/start"))
	course.GET("", func(c echo.Context) error {
		sc := SessionContext(c)
		id, err := sc.CourseID(c.Request().Context())
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, sc.ID()+"|"+id)
	})
	return e
}

func cookiesFrom(rec *httptest.ResponseRecorder) []*http.Cookie {
	return (&http.Response{Header: rec.Header()}).Cookies()
}

func serve(e *echo.Echo, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSession(t *testing.T) {
	backends := map[string]SessionConfig{
		"cookie": {},
		"memory": {Backend: session.NewCacheBackend(time.Hour)},
	}

	for name, cfg := range backends {
		t.Run(name, func(t *testing.T) {
			e := newSessionEcho(cfg)

			rec := serve(e, http.MethodGet, "/course", nil)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/start", rec.Header().Get(echo.HeaderLocation))

			rec = serve(e, http.MethodPost, "/begin?course=c1", nil)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			cookies := cookiesFrom(rec)
			require.NotEmpty(t, cookies, "the session cookie is written before the redirect")

			rec = serve(e, http.MethodGet, "/course", cookies)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Regexp(t, `^[0-9a-f-]{36}\|c1$`, rec.Body.String())
		})
	}
}

func TestSession_IDIsStable(t *testing.T) {
	e := newSessionEcho(SessionConfig{Backend: session.NewCacheBackend(time.Hour)})

	rec := serve(e, http.MethodPost, "/begin?course=c1", nil)
	cookies := cookiesFrom(rec)
	first := serve(e, http.MethodGet, "/course", cookies).Body.String()
	second := serve(e, http.MethodGet, "/course", cookies).Body.String()
	assert.Equal(t, first, second)

	other := serve(e, http.MethodGet, "/course", nil)
	assert.Equal(t, http.StatusSeeOther, other.Code, "a new visitor has no course")
}

func TestSession_ConcurrentTabs(t *testing.T) {
	cases := []struct {
		name string
		cfg  SessionConfig
		want string
	}{
		// Each request carries its own copy of the cookie values.
		{"cookie", SessionConfig{}, "c1"},
		{"memory", SessionConfig{Backend: session.NewCacheBackend(time.Hour)}, "c2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newSessionEcho(tc.cfg)
			shared := cookiesFrom(serve(e, http.MethodPost, "/begin?course=c1", nil))
			require.NotEmpty(t, shared)

			rec := serve(e, http.MethodPost, "/begin?course=c2", shared)
			require.Equal(t, http.StatusSeeOther, rec.Code)

			rec = serve(e, http.MethodGet, "/course", shared)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.HasSuffix(rec.Body.String(), "|"+tc.want), rec.Body.String())
		})
	}
}
