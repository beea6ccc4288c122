// Package status provides a thread-safe snapshot of the nightfall-candle
// daemon, read by the HTTP handlers and the MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/nightfall-candle/internal/engine"
	"github.com/sweeney/nightfall-candle/internal/logic"
)

// NetworkInfo describes the host network as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Variant     string
	HeartbeatMs int64
	PollMs      int64
	DebounceMs  int64
	Broker      string
	HTTPAddr    string
	GPIO        bool
	Audio       bool
}

// Snapshot is a point-in-time view of daemon state. It is a value type and
// safe to use after the lock is released.
type Snapshot struct {
	Timer         engine.Snapshot
	Buttons       logic.PressCounts
	Muted         bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the latest engine snapshot.
func (t *Tracker) Update(timer engine.Snapshot) {
	t.mu.Lock()
	t.snap.Timer = timer
	t.mu.Unlock()
}

// SetButtons records physical button press counts.
func (t *Tracker) SetButtons(counts logic.PressCounts) {
	t.mu.Lock()
	t.snap.Buttons = counts
	t.mu.Unlock()
}

func (t *Tracker) SetMuted(muted bool) {
	t.mu.Lock()
	t.snap.Muted = muted
	t.mu.Unlock()
}

func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a copy of the daemon state with Now set to the moment
// of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
