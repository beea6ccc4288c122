// Package logic contains the pure state for the candle timer: the elapsed-time
// tracker, the visual state mapper and the push-button debouncer.
// This package has NO external dependencies (no rendering, audio, GPIO or MQTT).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Phase is the lifecycle phase of a timer.
type Phase string

const (
	PhaseIdle      Phase = "IDLE"
	PhaseRunning   Phase = "RUNNING"
	PhasePaused    Phase = "PAUSED"
	PhaseCompleted Phase = "COMPLETED"
)

// EventType represents a timer lifecycle transition.
type EventType string

const (
	EventConfigured EventType = "CONFIGURED"
	EventStarted    EventType = "STARTED"
	EventResumed    EventType = "RESUMED"
	EventPaused     EventType = "PAUSED"
	EventReset      EventType = "RESET"
	EventCompleted  EventType = "COMPLETED"
)

// Event is a lifecycle transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Phase     Phase
	Duration  time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
	// Message is the completion message (COMPLETED only, may be filled in later
	// than the transition itself).
	Message string
}

// Sample is a point-in-time reading of a tracker.
type Sample struct {
	Elapsed           time.Duration
	Remaining         time.Duration
	RemainingFraction float64
}

// RenderAttributes is the derived visual state for one frame. Coordinates
// are in scene units (the 100x200 candle viewbox).
type RenderAttributes struct {
	// Primary fill (wax)
	WaxY      float64
	WaxHeight float64

	// Secondary feature (flame), already smoothed
	FlameDy      float64
	FlameJitterX float64
	Flicker      float64

	OuterFlameCy float64
	OuterFlameRx float64
	OuterFlameRy float64
	InnerFlameCy float64
	InnerFlameRx float64
	InnerFlameRy float64

	WickY1 float64
	WickY2 float64

	GlowCy      float64
	GlowOpacity float64

	FlameOpacity float64
}

// ExitFrame is one frame of the flame-out animation.
type ExitFrame struct {
	Opacity float64
	Scale   float64
}

// EventCounts tracks lifecycle events since startup.
type EventCounts struct {
	Started   int
	Paused    int
	Reset     int
	Completed int
}

// Add increments the counter matching the event type.
func (c *EventCounts) Add(t EventType) {
	switch t {
	case EventStarted, EventResumed:
		c.Started++
	case EventPaused:
		c.Paused++
	case EventReset:
		c.Reset++
	case EventCompleted:
		c.Completed++
	}
}
