package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Timer         TimerJSON    `json:"timer"`
	Muted         bool         `json:"muted"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Buttons       ButtonsJSON  `json:"button_presses"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// TimerJSON is the engine state.
type TimerJSON struct {
	Variant     string  `json:"variant"`
	Phase       string  `json:"phase"`
	DurationMs  int64   `json:"duration_ms"`
	ElapsedMs   int64   `json:"elapsed_ms"`
	RemainingMs int64   `json:"remaining_ms"`
	Fraction    float64 `json:"remaining_fraction"`
	Particles   int     `json:"particles"`
	Spawned     int     `json:"spawned"`
	Message     string  `json:"message,omitempty"`
	CanStart    bool    `json:"can_start"`
	CanPause    bool    `json:"can_pause"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON counts lifecycle events since startup.
type CountsJSON struct {
	Started   int `json:"started"`
	Paused    int `json:"paused"`
	Reset     int `json:"reset"`
	Completed int `json:"completed"`
}

// ButtonsJSON counts debounced physical button presses.
type ButtonsJSON struct {
	Start int `json:"start"`
	Pause int `json:"pause"`
	Reset int `json:"reset"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Variant     string `json:"variant"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	GPIO        bool   `json:"gpio"`
	Audio       bool   `json:"audio"`
}

func buildInner(snap Snapshot) StatusInner {
	timer := snap.Timer
	phase := string(timer.Phase)
	if phase == "" {
		phase = "UNKNOWN"
	}

	inner := StatusInner{
		Timer: TimerJSON{
			Variant:     timer.Variant,
			Phase:       phase,
			DurationMs:  timer.Duration.Milliseconds(),
			ElapsedMs:   timer.Elapsed.Milliseconds(),
			RemainingMs: timer.Remaining.Milliseconds(),
			Fraction:    timer.Fraction,
			Particles:   timer.Particles,
			Spawned:     timer.Spawned,
			Message:     timer.Message,
			CanStart:    timer.Controls.Start,
			CanPause:    timer.Controls.Pause,
		},
		Muted:         snap.Muted,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Started:   timer.Counts.Started,
			Paused:    timer.Counts.Paused,
			Reset:     timer.Counts.Reset,
			Completed: timer.Counts.Completed,
		},
		Buttons: ButtonsJSON{
			Start: snap.Buttons.Start,
			Pause: snap.Buttons.Pause,
			Reset: snap.Buttons.Reset,
		},
		Config: ConfigJSON{
			Variant:     snap.Config.Variant,
			HeartbeatMs: snap.Config.HeartbeatMs,
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			GPIO:        snap.Config.GPIO,
			Audio:       snap.Config.Audio,
		},
	}
	if n := snap.Network; n != nil {
		inner.Network = &NetworkJSON{
			Type:       n.Type,
			IP:         n.IP,
			Status:     n.Status,
			Gateway:    n.Gateway,
			WifiStatus: n.WifiStatus,
			SSID:       n.SSID,
		}
	}
	return inner
}

// FormatJSON returns the indented status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
