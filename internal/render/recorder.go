package render

import (
	"sync"
	"time"

	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/particle"
)

// Recorder is a Sink that remembers what it was told. Used by tests and
// the headless daemon.
type Recorder struct {
	mu sync.Mutex

	attrs     logic.RenderAttributes
	applies   int
	remaining time.Duration
	controls  Controls
	exit      logic.ExitFrame
	exits     int
	smoke     bool
	messages  []string
	clears    int
	flushes   int
	particles map[uint64]particle.Particle
	mounts    int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		particles: make(map[uint64]particle.Particle),
		exit:      logic.ExitFrame{Opacity: 1, Scale: 1},
	}
}

func (r *Recorder) Mount(p particle.Particle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.particles[p.ID] = p
	r.mounts++
}

func (r *Recorder) Update(p particle.Particle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.particles[p.ID]; ok {
		r.particles[p.ID] = p
	}
}

func (r *Recorder) Unmount(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.particles, id)
}

func (r *Recorder) Apply(a logic.RenderAttributes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs = a
	r.applies++
}

func (r *Recorder) ShowTime(remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
}

func (r *Recorder) SetControls(c Controls) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls = c
}

func (r *Recorder) ApplyExit(f logic.ExitFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exit = f
	r.exits++
}

func (r *Recorder) ShowSmoke() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.smoke = true
}

func (r *Recorder) ShowMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *Recorder) ClearEffects() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exit = logic.ExitFrame{Opacity: 1, Scale: 1}
	r.smoke = false
	r.messages = nil
	r.clears++
}

func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
}

// Attributes returns the last applied attributes and the number of applies.
func (r *Recorder) Attributes() (logic.RenderAttributes, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attrs, r.applies
}

// Remaining returns the last time readout.
func (r *Recorder) Remaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Controls returns the last control state.
func (r *Recorder) Controls() Controls {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controls
}

// Exit returns the last exit frame and the number of exit frames applied.
func (r *Recorder) Exit() (logic.ExitFrame, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exit, r.exits
}

// Smoke reports whether smoke is showing.
func (r *Recorder) Smoke() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.smoke
}

// Messages returns the messages shown since the last ClearEffects.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// Particles returns the number of mounted particles and total mounts.
func (r *Recorder) Particles() (live, mounts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.particles), r.mounts
}

// Flushes returns the number of Flush calls.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

// Clears returns the number of ClearEffects calls.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}
