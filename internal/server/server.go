package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/handlers"
	"github.com/nfrund/coursewizard/internal/middleware"
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/registry"
	"github.com/nfrund/coursewizard/internal/rendering"
	"github.com/nfrund/coursewizard/internal/session"
	"github.com/nfrund/coursewizard/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Cfg     config.Provider
	reg     *registry.Registry
	modules []module.Module
}

// Options configures New.
type Options struct {
	Config config.Provider
	// Sessions keeps the wizard context server side; nil keeps it in the cookie.
	Sessions session.Backend
	Modules  []module.Module
}

// New creates the echo server with the middleware stack and the course routes.
// Modules are mounted by Boot.
func New(opts Options) *Server {
	cfg := opts.Config

	e := echo.New()
	e.HideBanner = true
	e.Renderer = rendering.NewNodeRenderer()
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger := middleware.FromContext(c.Request().Context())
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("Request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.GetSessionTTL() / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(echosession.Middleware(store))
	e.Use(middleware.Session(middleware.SessionConfig{Backend: opts.Sessions}))

	// Serve the embedded static assets.
	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	handlers.NewCourseHandler().Register(e)

	return &Server{
		E:       e,
		Cfg:     cfg,
		reg:     registry.New(cfg),
		modules: opts.Modules,
	}
}

// Registry returns the service registry shared by the modules.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}

// Boot registers every module, then boots them on the route group that requires
// an active course.
func (s *Server) Boot(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Register(s.reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	app := s.E.Group("", middleware.RequireCourse(handlers.StartPath))
	for _, m := range s.modules {
		if err := m.Boot(ctx, app, s.reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}
	slog.Info("Modules booted", "modules", module.Names(s.modules), "services", s.reg.Names())
	return nil
}

// Shutdown stops the modules in reverse order, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(s.modules) - 1; i >= 0; i-- {
		if err := s.modules[i].Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown module %s: %w", s.modules[i].Name(), err))
		}
	}
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// setupErrorHandling logs errors that did not come as *echo.HTTPError with a
// stack trace before echo answers them with a 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
