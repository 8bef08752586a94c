// Command artisan-run processes a single trigger document and prints the
// hex-encoded response envelope, mirroring the host-boundary contract of
// one invocation.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/avsworks/artisan/pkg/cmd"
	"github.com/avsworks/artisan/pkg/log"
	"github.com/avsworks/artisan/pkg/trigger"
)

func main() {
	command := &cli.Command{
		Name:                  "artisan-run",
		EnableShellCompletion: true,
		Usage:                 "Run the pipeline once for a trigger JSON file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "trigger-file",
				Aliases:  []string{"f"},
				Usage:    "Path to a TriggerAction JSON document",
				Required: true,
			},
		}, cmd.PipelineFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("artisan-run")

			data, err := os.ReadFile(command.String("trigger-file"))
			if err != nil {
				return fmt.Errorf("failed to read trigger file: %w", err)
			}

			var action trigger.TriggerAction
			if err := json.Unmarshal(data, &action); err != nil {
				return fmt.Errorf("failed to parse trigger file: %w", err)
			}

			component, err := cmd.NewComponent(cmd.ConfigFromCommand(command), logger)
			if err != nil {
				return err
			}

			response, err := component.Run(ctx, action)
			if err != nil {
				return err
			}

			if response == nil {
				logger.InfoContext(ctx, "Pipeline produced no action")

				return nil
			}

			fmt.Println(hex.EncodeToString(response))

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
