// Package render applies candle visual state to a display surface.
package render

import (
	"fmt"
	"time"

	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/particle"
)

// Controls is the enablement of the user controls.
type Controls struct {
	Start    bool
	Pause    bool
	Resume   bool // Start would resume rather than begin
	Duration time.Duration
	Phase    logic.Phase
}

// ControlsFor derives control enablement from a tracker's phase and duration.
func ControlsFor(phase logic.Phase, d time.Duration) Controls {
	return Controls{
		Start:    d > 0 && (phase == logic.PhaseIdle || phase == logic.PhasePaused),
		Pause:    phase == logic.PhaseRunning,
		Resume:   phase == logic.PhasePaused,
		Duration: d,
		Phase:    phase,
	}
}

// Sink is the surface the engine draws on. Every call sets state
// idempotently; nothing is shown until Flush. Implementations must be safe
// for concurrent use since particle spawns arrive from timer goroutines.
type Sink interface {
	particle.Sink

	Apply(a logic.RenderAttributes)
	ShowTime(remaining time.Duration)
	SetControls(c Controls)
	ApplyExit(f logic.ExitFrame)
	ShowSmoke()
	ShowMessage(msg string)
	// ClearEffects restores the flame and hides smoke and message.
	ClearEffects()
	Flush()
}

// Nop discards everything.
type Nop struct {
	particle.NopSink
}

func (Nop) Apply(logic.RenderAttributes) {}
func (Nop) ShowTime(time.Duration)       {}
func (Nop) SetControls(Controls)         {}
func (Nop) ApplyExit(logic.ExitFrame)    {}
func (Nop) ShowSmoke()                   {}
func (Nop) ShowMessage(string)           {}
func (Nop) ClearEffects()                {}
func (Nop) Flush()                       {}

// FormatClock renders a duration as MM:SS, truncating partial seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
