// Package audio plays the timer's ambience loops and one-shot effects.
package audio

import "sync"

// Sound names used by the timer variants.
const (
	SoundCandle     = "candle-timer"
	SoundStopwatch  = "stopwatch-ticking"
	SoundExtinguish = "extinguish"
	SoundClick      = "click"
)

// Hooks is the audio surface the engine drives. Implementations must
// tolerate unknown names and repeated calls.
type Hooks interface {
	PlayLoop(name string)
	StopLoop(name string)
	PlayOnce(name string)
}

// Nop ignores every call.
type Nop struct{}

func (Nop) PlayLoop(string) {}
func (Nop) StopLoop(string) {}
func (Nop) PlayOnce(string) {}

// Call is one recorded hook invocation.
type Call struct {
	Op   string // "loop", "stop" or "once"
	Name string
}

// Recorder records calls for tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	loops map[string]bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{loops: make(map[string]bool)}
}

func (r *Recorder) PlayLoop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "loop", Name: name})
	r.loops[name] = true
}

func (r *Recorder) StopLoop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "stop", Name: name})
	delete(r.loops, name)
}

func (r *Recorder) PlayOnce(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: "once", Name: name})
}

// Calls returns a copy of every call so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Playing reports whether a loop is currently started.
func (r *Recorder) Playing(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loops[name]
}

// Count returns how many times op was called for name.
func (r *Recorder) Count(op, name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op && c.Name == name {
			n++
		}
	}
	return n
}
