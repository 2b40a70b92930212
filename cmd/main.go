package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config, err := shared.ResolveConfig("config.toml")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var searcher services.Searcher
	if spotify, err := services.NewSpotifyServiceFromConfig(config); err == nil {
		searcher = spotify
	} else {
		logger.Debug("spotify search unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Searcher: searcher,
		Logger:   logger,
	})
	defer runner.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
