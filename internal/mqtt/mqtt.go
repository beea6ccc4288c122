// Package mqtt publishes candle lifecycle and daemon system events.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/nightfall-candle/internal/logic"
)

// Topic carries candle lifecycle events.
const Topic = "nightfall/candle/events"

// TopicSystem carries daemon lifecycle events (startup, heartbeat, shutdown).
const TopicSystem = "nightfall/candle/system"

// Publisher publishes events to MQTT. Failures are returned, never fatal.
type Publisher interface {
	Publish(event logic.Event) error
	PublishSystem(event SystemEvent) error
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // STARTUP, SHUTDOWN, HEARTBEAT, RECONNECTED
	Reason     string // SIGINT, SIGTERM, MQTT_DISCONNECT
	RawPayload []byte // pre-formatted status snapshot, sent as is when set
	Retained   bool
}

// Payload is the JSON envelope for a candle event.
type Payload struct {
	Candle CandlePayload `json:"candle"`
}

// CandlePayload describes one lifecycle transition.
type CandlePayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	Phase       string `json:"phase"`
	DurationMs  int64  `json:"duration_ms"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	RemainingMs int64  `json:"remaining_ms"`
	Message     string `json:"message,omitempty"`
}

// FormatPayload creates the JSON payload for a candle event.
func FormatPayload(event logic.Event) ([]byte, error) {
	return json.Marshal(Payload{
		Candle: CandlePayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			Phase:       string(event.Phase),
			DurationMs:  event.Duration.Milliseconds(),
			ElapsedMs:   event.Elapsed.Milliseconds(),
			RemainingMs: event.Remaining.Milliseconds(),
			Message:     event.Message,
		},
	})
}

// SystemPayload is the envelope for simple system events (LWT, RECONNECTED)
// that carry no status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// RawPayload wins when set.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
