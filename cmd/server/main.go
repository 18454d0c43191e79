package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/nfrund/coursewizard/internal/app"
	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/logging"
	"github.com/nfrund/coursewizard/internal/server"
)

func main() {
	cfg := config.New()
	logger := logging.New() // Initialize the structured logger

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	injector := app.NewContainer(cfg, logger)
	s, err := do.Invoke[*server.Server](injector)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(injector); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	if err := s.Boot(context.Background()); err != nil {
		slog.Error("Failed to boot modules", "error", err)
		os.Exit(1)
	}
	if err := s.Start(cfg.GetServerAddr()); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}
