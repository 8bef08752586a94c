package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/avsworks/artisan/pkg/cmd"
	"github.com/avsworks/artisan/pkg/log"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "artisan-api",
		EnableShellCompletion: true,
		Usage:                 "Serve the manual trigger-submission API",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		}, cmd.PipelineFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("artisan-api")
			logger.InfoContext(ctx, "Initializing artisan API")

			component, err := cmd.NewComponent(cmd.ConfigFromCommand(command), logger)
			if err != nil {
				return err
			}

			api := NewAPI(component, logger)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "API server stopped", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
