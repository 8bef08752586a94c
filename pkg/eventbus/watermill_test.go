package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsworks/artisan/pkg/events"
)

func TestWatermillPublisherPublish(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), events.ResponseTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)

	event := events.NewResponseEmitted(7, "mint", "deadbeef")
	require.NoError(t, publisher.Publish(context.Background(), events.ResponseTopic, event))

	select {
	case msg := <-messages:
		msg.Ack()

		assert.Equal(t, string(events.ResponseEmittedEvent), msg.Metadata.Get(events.EventTypeMetadataKey))

		var decoded events.ResponseEmitted
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, uint64(7), decoded.TriggerID)
		assert.Equal(t, "mint", decoded.TriggerKind)
		assert.Equal(t, "deadbeef", decoded.Response)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

type failingPublisher struct {
	err error
}

func (f *failingPublisher) Publish(string, ...*message.Message) error { return f.err }

func (f *failingPublisher) Close() error { return nil }

func TestWatermillPublisherPropagatesError(t *testing.T) {
	publisher := NewWatermillPublisher(&failingPublisher{err: errors.New("broker unavailable")})

	err := publisher.Publish(context.Background(), events.ResponseTopic, events.NewPipelineFailed("boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}
