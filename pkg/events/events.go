// Package events defines the event types the worker publishes around each
// pipeline invocation.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topics.
const (
	TriggerTopic  = "artisan.triggers"  // inbound TriggerAction JSON
	ResponseTopic = "artisan.responses" // outbound pipeline results
)

const (
	EventTypeMetadataKey = "event_type"

	ResponseEmittedEvent EventType = "response.emitted"
	PipelineFailedEvent  EventType = "pipeline.failed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	WorkerID  string    `json:"worker_id,omitempty"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// ResponseEmitted reports one successfully encoded response. The response
// bytes are carried hex-encoded.
type ResponseEmitted struct {
	BaseEvent

	TriggerID   uint64 `json:"trigger_id"`
	TriggerKind string `json:"trigger_kind"`
	Response    string `json:"response"`
}

func (e ResponseEmitted) GetType() EventType { return ResponseEmittedEvent }

func NewResponseEmitted(triggerID uint64, triggerKind, responseHex string) ResponseEmitted {
	return ResponseEmitted{
		BaseEvent:   NewBaseEvent(ResponseEmittedEvent),
		TriggerID:   triggerID,
		TriggerKind: triggerKind,
		Response:    responseHex,
	}
}

// PipelineFailed reports a terminal pipeline failure for a trigger.
type PipelineFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e PipelineFailed) GetType() EventType { return PipelineFailedEvent }

func NewPipelineFailed(message string) PipelineFailed {
	return PipelineFailed{
		BaseEvent: NewBaseEvent(PipelineFailedEvent),
		Error:     message,
	}
}
