package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/travels-app/travels/internal/config"
	"github.com/travels-app/travels/internal/loader"
	"github.com/travels-app/travels/internal/store"
	tlog "github.com/travels-app/travels/log"
)

// Command returns the "serve" subcommand that loads the on-disk
// snapshot and serves the HTTP API.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the travels server",
		Action: Run,
		Description: `
	Environment variables:
		DATA_PATH       (default: /root)
		LISTEN          (default: 0.0.0.0:80)
		LOG_LEVEL       (default: info)
		LOADER_WORKERS  (default: number of CPUs)
	`,
	}
}

func Run(ctx context.Context, cmd *cli.Command) error {
	c, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	tlog.SetLevel(c.LogLevel)

	logger := tlog.SubLogger(tlog.FromContext(ctx), cmd.Name)
	ctx = tlog.IntoContext(ctx, logger)

	s := store.New()

	// Serving starts immediately; requests that race the loader
	// legitimately see a partially populated store (spec §5).
	go func() {
		if err := loader.Load(ctx, s, c.DataPath, c.LoaderWorkers); err != nil {
			logger.Error("snapshot load failed", "error", err)
		}
	}()

	t := New(ctx, s)

	logger.Info("starting travels server", "address", c.Listen)
	return http.ListenAndServe(c.Listen, t.Router())
}
