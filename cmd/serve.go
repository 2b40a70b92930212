package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/web"
)

// Serve starts the browser front end and blocks until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSearcher(); err != nil {
		return err
	}

	app, err := web.New(web.Options{
		Searcher:  r.searcher,
		History:   r.recorder(),
		Logger:    shared.WithLogger(r.logger, "component", "web"),
		AdminCode: r.config.Admin.Code,
	})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	addr := r.serverConfig(cmd).Addr()
	open := cmd.Bool("open")

	return server.Serve(ctx, addr, app, r.logger, func(bound string) {
		url := "http://" + bound
		r.writePlain("→ Music browser running at %s\n", url)
		if !open {
			return
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	})
}

// serverConfig applies --host and --port over the configured values.
func (r *Runner) serverConfig(cmd *cli.Command) shared.ServerConfig {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}
	return cfg
}
