// Package kafka consumes trigger deliveries from a Kafka topic and feeds
// them to the pipeline one at a time.
package kafka

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/avsworks/artisan/pkg/eventbus"
	"github.com/avsworks/artisan/pkg/events"
	"github.com/avsworks/artisan/pkg/trigger"
)

// Runner is the pipeline entry point the receiver drives.
type Runner interface {
	Run(ctx context.Context, action trigger.TriggerAction) ([]byte, error)
}

type Receiver struct {
	brokers       []string
	topic         string
	consumerGroup string
	runner        Runner
	publisher     eventbus.Publisher
	logger        *slog.Logger
	consumer      sarama.ConsumerGroup
	cancel        context.CancelFunc
}

// NewReceiver builds a receiver consuming from the given brokers
// ("host:port,host:port") on the trigger topic.
func NewReceiver(brokers, consumerGroup string, runner Runner, publisher eventbus.Publisher, logger *slog.Logger) (*Receiver, error) {
	if brokers == "" {
		return nil, errors.New("kafka brokers are required")
	}

	if consumerGroup == "" {
		consumerGroup = "artisan-trigger-receiver"
	}

	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	return &Receiver{
		brokers:       brokerList,
		topic:         events.TriggerTopic,
		consumerGroup: consumerGroup,
		runner:        runner,
		publisher:     publisher,
		logger:        logger.With("module", "kafka_receiver"),
	}, nil
}

func (r *Receiver) Start(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Session.Timeout = 10 * time.Second
	config.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumerGroup(r.brokers, r.consumerGroup, config)
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	r.consumer = consumer

	ctx, r.cancel = context.WithCancel(ctx)

	handler := &consumerHandler{receiver: r, logger: r.logger}

	go func() {
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Kafka receiver context cancelled")

				return
			default:
				if err := consumer.Consume(ctx, []string{r.topic}, handler); err != nil {
					r.logger.Error("Kafka consumer error", "error", err)
					time.Sleep(5 * time.Second)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case err := <-consumer.Errors():
				if err != nil {
					r.logger.Error("Kafka consumer group error", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	r.logger.Info("Kafka receiver started", "topic", r.topic, "consumer_group", r.consumerGroup)

	return nil
}

func (r *Receiver) Stop() error {
	r.logger.Info("Stopping Kafka receiver")

	if r.cancel != nil {
		r.cancel()
	}

	if r.consumer != nil {
		return r.consumer.Close()
	}

	return nil
}

// handleMessage decodes one delivery and runs the pipeline. Pipeline
// failures are terminal for the delivery: they are logged, reported on
// the response topic and the message is still acked. No retry.
func (r *Receiver) handleMessage(ctx context.Context, value []byte) {
	var action trigger.TriggerAction
	if err := json.Unmarshal(value, &action); err != nil {
		r.logger.Error("Failed to decode trigger delivery", "error", err)
		r.reportFailure(ctx, fmt.Sprintf("failed to decode trigger delivery: %v", err))

		return
	}

	// Decoded up front so the emitted event can name the trigger; the
	// pipeline re-validates the same payload.
	req, decodeErr := trigger.DecodeMintRequest(action)

	response, err := r.runner.Run(ctx, action)
	if err != nil {
		r.logger.Error("Pipeline failed", "error", err)
		r.reportFailure(ctx, err.Error())

		return
	}

	if response == nil {
		r.logger.Info("Pipeline produced no action")

		return
	}

	if decodeErr != nil {
		r.logger.Error("Trigger decoded by pipeline but not by receiver", "error", decodeErr)

		return
	}

	event := events.NewResponseEmitted(req.TriggerID, req.Kind.String(), hex.EncodeToString(response))
	if err := r.publisher.Publish(ctx, events.ResponseTopic, event); err != nil {
		r.logger.Error("Failed to publish response event", "error", err)
	}
}

func (r *Receiver) reportFailure(ctx context.Context, message string) {
	if err := r.publisher.Publish(ctx, events.ResponseTopic, events.NewPipelineFailed(message)); err != nil {
		r.logger.Error("Failed to publish failure event", "error", err)
	}
}

type consumerHandler struct {
	receiver *Receiver
	logger   *slog.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Kafka consumer group session started")

	return nil
}

func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Kafka consumer group session ended")

	return nil
}

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.logger.Debug("Received trigger delivery",
			"topic", message.Topic,
			"partition", message.Partition,
			"offset", message.Offset,
		)

		h.receiver.handleMessage(session.Context(), message.Value)

		session.MarkMessage(message, "")
	}

	return nil
}
