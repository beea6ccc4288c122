// Package engine drives one countdown: it samples the tracker every frame,
// maps the remaining fraction onto the candle, runs the particle emitter and
// plays the flame-out when time runs out.
package engine

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sweeney/nightfall-candle/internal/audio"
	"github.com/sweeney/nightfall-candle/internal/clock"
	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/particle"
	"github.com/sweeney/nightfall-candle/internal/render"
)

// Defaults for zero Options fields.
const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultSmokeDelay    = 500 * time.Millisecond
	DefaultSafetyTimeout = 2 * time.Second
	DefaultEventBuffer   = 16
)

// Options configures an Engine. Zero values pick defaults.
type Options struct {
	Clock         clock.Clock
	Sink          render.Sink
	Audio         audio.Hooks
	Variant       Variant
	Geometry      logic.Geometry
	FrameInterval time.Duration
	SmokeDelay    time.Duration
	SafetyTimeout time.Duration
	EventBuffer   int
	Seed          uint64
	Exit          ExitFactory
}

// Snapshot is a consistent read of the engine state.
type Snapshot struct {
	Variant   string
	Phase     logic.Phase
	Duration  time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
	Fraction  float64
	Particles int
	Spawned   int
	Message   string
	Counts    logic.EventCounts
	Controls  render.Controls
}

// Engine is safe for concurrent use. Controls and timer callbacks are
// serialized by one mutex so a frame never observes a half-applied control.
type Engine struct {
	mu sync.Mutex

	clk     clock.Clock
	sink    render.Sink
	audio   audio.Hooks
	variant Variant
	rng     *rand.Rand

	tracker *logic.Tracker
	mapper  *logic.Mapper
	emitter *particle.Emitter
	sched   *scheduler
	done    completion
	newExit ExitFactory

	interval      time.Duration
	smokeDelay    time.Duration
	safetyTimeout time.Duration

	events    chan logic.Event
	counts    logic.EventCounts
	controls  render.Controls
	message   string
	lastFrame time.Time
	destroyed bool
}

// New creates an idle, unconfigured engine and paints the idle scene.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Sink == nil {
		opts.Sink = render.Nop{}
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Variant.Spawn == nil {
		opts.Variant = Candle()
	}
	if opts.Variant.Message == nil {
		opts.Variant.Message = logic.RandomCandleMessage
	}
	if opts.Geometry == (logic.Geometry{}) {
		opts.Geometry = logic.DefaultGeometry()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.SmokeDelay <= 0 {
		opts.SmokeDelay = DefaultSmokeDelay
	}
	if opts.SafetyTimeout <= 0 {
		opts.SafetyTimeout = DefaultSafetyTimeout
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}
	if opts.Exit == nil {
		opts.Exit = NewSpringExit
	}

	e := &Engine{
		clk:           opts.Clock,
		sink:          opts.Sink,
		audio:         opts.Audio,
		variant:       opts.Variant,
		rng:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d)),
		tracker:       logic.NewTracker(),
		mapper:        logic.NewMapper(opts.Geometry, float64(opts.Seed%10000)),
		newExit:       opts.Exit,
		interval:      opts.FrameInterval,
		smokeDelay:    opts.SmokeDelay,
		safetyTimeout: opts.SafetyTimeout,
		events:        make(chan logic.Event, opts.EventBuffer),
	}
	e.emitter = particle.NewEmitter(opts.Clock, opts.Sink, particle.Config{
		MaxActive: opts.Variant.MaxParticles,
		Seed:      opts.Seed,
	})
	e.sched = newScheduler(opts.Clock, opts.FrameInterval, e.frame)

	e.mu.Lock()
	e.paintIdle()
	e.updateControls()
	e.flush()
	e.mu.Unlock()
	return e
}

// Events delivers lifecycle events. The channel is closed by Destroy.
func (e *Engine) Events() <-chan logic.Event {
	return e.events
}

// Configure sets the countdown duration. Only applies while idle.
func (e *Engine) Configure(d time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || !e.tracker.Configure(d) {
		return false
	}
	e.mapper.Reset()
	e.message = ""
	e.guard("clear effects", e.sink.ClearEffects)
	e.paintIdle()
	e.updateControls()
	e.flush()
	e.emit(logic.EventConfigured, e.clk.Now())
	return true
}

// Start begins a configured countdown or resumes a paused one.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return false
	}
	resumed := e.tracker.Phase() == logic.PhasePaused
	now := e.clk.Now()
	if !e.tracker.Start(now) {
		return false
	}
	e.lastFrame = now
	e.guard("play loop", func() { e.audio.PlayLoop(e.variant.Loop) })
	e.emitter.Start(e.variant.Spawn, e.variant.SpawnMin, e.variant.SpawnMax)
	e.sched.start()
	e.updateControls()
	e.flush()

	typ := logic.EventStarted
	if resumed {
		typ = logic.EventResumed
	}
	e.emit(typ, now)
	return true
}

// Pause freezes a running countdown. Live particles are cleared.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return false
	}
	now := e.clk.Now()
	if !e.tracker.Pause(now) {
		return false
	}
	e.sched.stop()
	e.emitter.Stop(true)
	e.guard("stop loop", func() { e.audio.StopLoop(e.variant.Loop) })
	e.paint(e.tracker.Sample(now))
	e.updateControls()
	e.flush()
	e.emit(logic.EventPaused, now)
	return true
}

// Reset returns to idle from any phase, keeping the duration.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.sched.stop()
	e.cancelCompletion()
	e.emitter.Stop(true)
	e.guard("stop loop", func() { e.audio.StopLoop(e.variant.Loop) })
	e.tracker.Reset()
	e.mapper.Reset()
	e.message = ""
	e.guard("clear effects", e.sink.ClearEffects)
	e.paintIdle()
	e.updateControls()
	e.flush()
	e.emit(logic.EventReset, e.clk.Now())
}

// Destroy releases every timer, particle and audio loop. Idempotent.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.sched.stop()
	e.cancelCompletion()
	e.emitter.Stop(true)
	e.guard("stop loop", func() { e.audio.StopLoop(e.variant.Loop) })
	close(e.events)
}

// Controls returns the current control enablement.
func (e *Engine) Controls() render.Controls {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controls
}

// Snapshot reads the engine state at the current time.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.tracker.Sample(e.clk.Now())
	return Snapshot{
		Variant:   e.variant.Name,
		Phase:     e.tracker.Phase(),
		Duration:  e.tracker.Duration(),
		Elapsed:   s.Elapsed,
		Remaining: s.Remaining,
		Fraction:  s.RemainingFraction,
		Particles: e.emitter.Active(),
		Spawned:   e.emitter.Spawned(),
		Message:   e.message,
		Counts:    e.counts,
		Controls:  e.controls,
	}
}

// frame is the scheduler callback.
func (e *Engine) frame(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || !e.sched.current(gen) {
		return
	}
	now := e.clk.Now()
	s := e.tracker.Sample(now)
	if s.Remaining <= 0 {
		e.complete(now)
		return
	}
	e.paint(s)
	e.emitter.Tick(now.Sub(e.lastFrame))
	e.lastFrame = now
	e.flush()
	e.sched.arm()
}

// paint pushes wax, flame and time readout for a sample.
func (e *Engine) paint(s logic.Sample) {
	attrs := e.mapper.Map(s.RemainingFraction, s.Elapsed)
	e.emitter.SetAnchor(attrs.WaxY)
	e.guard("apply", func() { e.sink.Apply(attrs) })
	e.guard("show time", func() { e.sink.ShowTime(s.Remaining) })
}

// paintIdle shows a full candle and the configured duration.
func (e *Engine) paintIdle() {
	e.paint(logic.Sample{
		Remaining:         e.tracker.Duration(),
		RemainingFraction: 1,
	})
}

func (e *Engine) updateControls() {
	c := render.ControlsFor(e.tracker.Phase(), e.tracker.Duration())
	e.controls = c
	e.guard("set controls", func() { e.sink.SetControls(c) })
}

func (e *Engine) flush() {
	e.guard("flush", e.sink.Flush)
}

// emit queues a lifecycle event without ever blocking.
func (e *Engine) emit(typ logic.EventType, now time.Time) {
	if e.destroyed {
		return
	}
	e.counts.Add(typ)
	s := e.tracker.Sample(now)
	evt := logic.Event{
		Timestamp: now,
		Type:      typ,
		Phase:     e.tracker.Phase(),
		Duration:  e.tracker.Duration(),
		Elapsed:   s.Elapsed,
		Remaining: s.Remaining,
	}
	if typ == logic.EventCompleted {
		evt.Message = e.message
	}
	select {
	case e.events <- evt:
	default:
		log.Printf("engine: event buffer full, dropping %s", typ)
	}
}

// guard runs a side effect, logging instead of propagating a panic.
func (e *Engine) guard(op string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: %s panicked: %v", op, r)
		}
	}()
	f()
}
