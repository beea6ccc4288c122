package logic

import "time"

// Tracker accounts elapsed time for one countdown across pause/resume.
// It never transitions on its own; completion is detected by the caller
// sampling it and calling Complete.
type Tracker struct {
	duration  time.Duration
	elapsed   time.Duration
	phase     Phase
	startedAt time.Time
}

// NewTracker creates an idle, unconfigured tracker.
func NewTracker() *Tracker {
	return &Tracker{phase: PhaseIdle}
}

// Configure sets the duration. Only allowed while idle; returns false otherwise.
// Negative durations are treated as 0 (unconfigured).
func (t *Tracker) Configure(d time.Duration) bool {
	if t.phase != PhaseIdle {
		return false
	}
	if d < 0 {
		d = 0
	}
	t.duration = d
	t.elapsed = 0
	return true
}

// CanStart reports whether Start would take effect.
func (t *Tracker) CanStart() bool {
	return t.duration > 0 && (t.phase == PhaseIdle || t.phase == PhasePaused)
}

// Start begins or resumes the running interval at now.
// Returns false (no-op) when already running, completed, or unconfigured.
func (t *Tracker) Start(now time.Time) bool {
	if !t.CanStart() {
		return false
	}
	if t.phase == PhaseIdle {
		t.elapsed = 0
	}
	t.startedAt = now
	t.phase = PhaseRunning
	return true
}

// Pause folds the current running interval into elapsed.
// Returns false when not running.
func (t *Tracker) Pause(now time.Time) bool {
	if t.phase != PhaseRunning {
		return false
	}
	t.elapsed = t.elapsedAt(now)
	t.startedAt = time.Time{}
	t.phase = PhasePaused
	return true
}

// Reset returns to idle from any phase. The duration is preserved.
func (t *Tracker) Reset() {
	t.elapsed = 0
	t.startedAt = time.Time{}
	t.phase = PhaseIdle
}

// Complete marks a running tracker completed with elapsed equal to the
// duration. Returns false if it was not running, so a second call is a no-op.
func (t *Tracker) Complete(now time.Time) bool {
	if t.phase != PhaseRunning {
		return false
	}
	t.elapsed = t.duration
	t.startedAt = time.Time{}
	t.phase = PhaseCompleted
	return true
}

// Sample reads elapsed/remaining at now without mutating state.
func (t *Tracker) Sample(now time.Time) Sample {
	elapsed := t.elapsed
	if t.phase == PhaseRunning {
		elapsed = t.elapsedAt(now)
	}
	remaining := t.duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	var fraction float64
	if t.duration > 0 {
		fraction = float64(remaining) / float64(t.duration)
	}
	return Sample{
		Elapsed:           elapsed,
		Remaining:         remaining,
		RemainingFraction: fraction,
	}
}

// Phase returns the current lifecycle phase.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Duration returns the configured duration.
func (t *Tracker) Duration() time.Duration {
	return t.duration
}

// elapsedAt includes the open running interval, clamped to the duration.
func (t *Tracker) elapsedAt(now time.Time) time.Duration {
	run := now.Sub(t.startedAt)
	if run < 0 {
		run = 0
	}
	e := t.elapsed + run
	if e > t.duration {
		e = t.duration
	}
	return e
}
