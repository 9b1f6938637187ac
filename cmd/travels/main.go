package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v3"

	tlog "github.com/travels-app/travels/log"
	"github.com/travels-app/travels/server"
)

func main() {
	cmd := &cli.Command{
		Name:  "travels",
		Usage: "in-memory users/locations/visits query service",
		Commands: []*cli.Command{
			server.Command(),
			versionCommand(),
		},
	}

	logger := tlog.New("travels")
	slog.SetDefault(logger)

	ctx := context.Background()
	ctx = tlog.IntoContext(ctx, logger)

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Error(err.Error())
		os.Exit(-1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the build version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println(versioninfo.Short())
			return nil
		},
	}
}
