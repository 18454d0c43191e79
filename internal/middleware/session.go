package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/session"
)

const (
	// SessionContextKey holds the request's *session.Context.
	SessionContextKey = "wizard_session"

	wizardSessionName = "wizard-session"
	sessionIDKey      = "sid"
)

// SessionConfig selects where the wizard context is kept. A nil Backend keeps it
// in the signed session cookie; otherwise the cookie only carries the session id.
// With the cookie, every request works on the copy its browser sent and the last
// response written wins, so tabs of one browser can overwrite each other's
// submodule versions. The memory and redis backends share one context per id.
type SessionConfig struct {
	Backend session.Backend
}

// Session builds the wizard context of the request and stores it under
// SessionContextKey. It must run after echo-contrib's session middleware. The
// cookie is written right before the response header, so handlers may redirect
// freely after changing the context.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := echosession.Get(wizardSessionName, c)
			if sess == nil {
				return err
			}
			if err != nil {
				// The cookie could not be decoded; gorilla handed us a fresh session.
				FromContext(c.Request().Context()).Warn("Discarding unreadable session cookie", "error", err)
			}

			sid, _ := sess.Values[sessionIDKey].(string)
			newSession := sid == ""
			if newSession {
				sid = uuid.NewString()
				sess.Values[sessionIDKey] = sid
			}

			var (
				store  session.Store
				cookie *session.CookieStore
			)
			if cfg.Backend != nil {
				store = cfg.Backend.Open(sid)
			} else {
				cookie = session.NewCookieStore(sess)
				store = cookie
			}

			c.Response().Before(func() {
				if !newSession && (cookie == nil || !cookie.Modified()) {
					return
				}
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					FromContext(c.Request().Context()).Error("Failed to save wizard session", "error", err)
				}
			})

			WithLogAttrs(c, "session_id", sid)
			c.Set(SessionContextKey, session.NewContext(sid, store))
			return next(c)
		}
	}
}

// SessionContext returns the wizard context set by Session.
func SessionContext(c echo.Context) *session.Context {
	sc, _ := c.Get(SessionContextKey).(*session.Context)
	return sc
}

// RequireCourse redirects to startPath when no course is active in the session.
func RequireCourse(startPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := SessionContext(c)
			if sc == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}
			if _, err := sc.Require(c.Request().Context()); err != nil {
				if errors.Is(err, domain.ErrNoCourseContext) {
					return c.Redirect(http.StatusSeeOther, startPath)
				}
				return err
			}
			return next(c)
		}
	}
}
