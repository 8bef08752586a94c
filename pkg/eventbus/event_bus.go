// Package eventbus publishes pipeline lifecycle events.
package eventbus

import (
	"context"

	"github.com/avsworks/artisan/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// Publisher emits events to a topic. Implementations must be safe for a
// single sequential caller; the pipeline never publishes concurrently.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}
