package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/avsworks/artisan/pkg/cmd"
	"github.com/avsworks/artisan/pkg/eventbus"
	"github.com/avsworks/artisan/pkg/log"
	"github.com/avsworks/artisan/pkg/receivers/kafka"
)

func main() {
	command := &cli.Command{
		Name:                  "artisan-worker",
		EnableShellCompletion: true,
		Usage:                 "Consume trigger deliveries and run the generation pipeline",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "kafka-brokers",
				Usage:    "Comma-separated Kafka broker list",
				Required: true,
				Sources:  cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "consumer-group",
				Usage:   "Kafka consumer group for trigger deliveries",
				Sources: cli.EnvVars("KAFKA_CONSUMER_GROUP"),
			},
		}, cmd.PipelineFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("artisan-worker").With("worker_id", workerID)
			logger.InfoContext(ctx, "Initializing artisan worker")

			component, err := cmd.NewComponent(cmd.ConfigFromCommand(command), logger)
			if err != nil {
				return err
			}

			publisher, err := eventbus.NewKafkaPublisher(command.String("kafka-brokers"), logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := publisher.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close publisher", "error", err)
				}
			}()

			receiver, err := kafka.NewReceiver(
				command.String("kafka-brokers"),
				command.String("consumer-group"),
				component,
				publisher,
				logger,
			)
			if err != nil {
				return err
			}

			if err := receiver.Start(ctx); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			logger.InfoContext(ctx, "Shutting down artisan worker")

			return receiver.Stop()
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
