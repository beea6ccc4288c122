package audio

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Manager plays sounds through the system speaker. Every method is a
// silent no-op until Initialize succeeds.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	loops       map[string]*beep.Ctrl
	library     map[string]func(beep.SampleRate) beep.Streamer
	initialized bool
	muted       bool
	level       float64

	// lock/unlock guard streamer mutation against the speaker goroutine.
	lock, unlock func()
}

// NewManager creates a manager with the built-in sound library.
func NewManager() *Manager {
	mixer := &beep.Mixer{}
	// An endless silent track keeps the mix alive while nothing plays.
	mixer.Add(generators.Silence(-1))
	return &Manager{
		mixer:   mixer,
		master:  &effects.Volume{Streamer: mixer, Base: 2},
		loops:   make(map[string]*beep.Ctrl),
		library: Library(),
		level:   1,
		lock:    speaker.Lock,
		unlock:  speaker.Unlock,
	}
}

// Initialize opens the speaker and starts the master mix.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.master)
	m.initialized = true
	return nil
}

// Close stops every sound and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.lock()
	for name, ctrl := range m.loops {
		ctrl.Streamer = nil
		delete(m.loops, name)
	}
	m.mixer.Clear()
	m.mixer.Add(generators.Silence(-1))
	m.unlock()
	speaker.Close()
	m.initialized = false
}

// PlayLoop starts a looping sound. A loop that is already playing is left alone.
func (m *Manager) PlayLoop(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	if _, ok := m.loops[name]; ok {
		return
	}
	gen, ok := m.library[name]
	if !ok {
		log.Printf("audio: unknown loop %q", name)
		return
	}
	ctrl := &beep.Ctrl{Streamer: gen(sampleRate)}
	m.loops[name] = ctrl
	m.lock()
	m.mixer.Add(ctrl)
	m.unlock()
}

// StopLoop stops a looping sound. Stopping a loop that is not playing is a no-op.
func (m *Manager) StopLoop(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctrl, ok := m.loops[name]
	if !ok {
		return
	}
	delete(m.loops, name)
	// A Ctrl with no streamer reports end of stream; the mixer drops it.
	m.lock()
	ctrl.Streamer = nil
	m.unlock()
}

// PlayOnce plays a sound to completion.
func (m *Manager) PlayOnce(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	gen, ok := m.library[name]
	if !ok {
		log.Printf("audio: unknown sound %q", name)
		return
	}
	m.lock()
	m.mixer.Add(gen(sampleRate))
	m.unlock()
}

// SetMuted silences or restores the master output.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyVolume()
}

// Muted reports the mute state.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// SetVolume sets the master level in [0, 1].
func (m *Manager) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = math.Min(1, math.Max(0, level))
	m.applyVolume()
}

// Volume returns the master level.
func (m *Manager) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Playing reports whether the named loop is active.
func (m *Manager) Playing(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.loops[name]
	return ok
}

func (m *Manager) applyVolume() {
	m.lock()
	defer m.unlock()
	// log2(0) is -Inf, so zero volume is expressed as Silent.
	if m.muted || m.level <= 0 {
		m.master.Silent = true
		m.master.Volume = 0
		return
	}
	m.master.Silent = false
	m.master.Volume = math.Log2(m.level)
}
