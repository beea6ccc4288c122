package particle

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sweeney/nightfall-candle/internal/clock"
)

// DefaultMaxActive caps live particles per emitter.
const DefaultMaxActive = 128

// Config controls an Emitter.
type Config struct {
	MaxActive int
	Seed      uint64
}

// Emitter spawns particle batches on a randomized interval and steps them
// on Tick. Spawning and stepping may happen on different goroutines.
type Emitter struct {
	mu    sync.Mutex
	clk   clock.Clock
	rng   *rand.Rand
	sink  Sink
	limit int

	active []*Particle // oldest first
	nextID uint64
	anchor float64

	running        bool
	gen            uint64
	timer          clock.Timer
	spawn          SpawnFunc
	minGap, maxGap time.Duration
	spawned        int
}

// NewEmitter creates a stopped emitter mirroring into sink.
func NewEmitter(clk clock.Clock, sink Sink, cfg Config) *Emitter {
	if sink == nil {
		sink = NopSink{}
	}
	limit := cfg.MaxActive
	if limit <= 0 {
		limit = DefaultMaxActive
	}
	return &Emitter{
		clk:   clk,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		sink:  sink,
		limit: limit,
	}
}

// Start begins periodic spawning with an interval drawn uniformly from
// [lo, hi] and re-rolled after every spawn. A running emitter is
// restarted with the new parameters; live particles are kept.
func (e *Emitter) Start(spawn SpawnFunc, lo, hi time.Duration) {
	if hi < lo {
		lo, hi = hi, lo
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancel()
	e.gen++
	e.running = true
	e.spawn = spawn
	e.minGap, e.maxGap = lo, hi
	e.schedule()
}

// Stop cancels spawning. It is idempotent. With clear set every live
// particle is unmounted as well.
func (e *Emitter) Stop(clear bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancel()
	e.gen++
	e.running = false
	if clear {
		for _, p := range e.active {
			e.unmount(p.ID)
		}
		e.active = nil
	}
}

// SetAnchor sets the spawn anchor passed to the SpawnFunc.
func (e *Emitter) SetAnchor(y float64) {
	e.mu.Lock()
	e.anchor = y
	e.mu.Unlock()
}

// Tick advances every live particle by dt, retires the dead ones (and
// anything attached to them) and mounts what they spawned.
func (e *Emitter) Tick(dt time.Duration) {
	frames := dt.Seconds() * FrameRate
	if frames <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var born []Particle
	dead := make(map[uint64]bool)
	for _, p := range e.active {
		if p.Law == nil {
			dead[p.ID] = true
			continue
		}
		alive, spawn := p.Law.Step(p, frames, e.rng)
		born = append(born, spawn...)
		if !alive {
			dead[p.ID] = true
		}
	}
	live := make(map[uint64]bool, len(e.active))
	for _, p := range e.active {
		live[p.ID] = !dead[p.ID]
	}
	for _, p := range e.active {
		if p.Parent != 0 && !live[p.Parent] {
			dead[p.ID] = true
		}
	}

	keep := e.active[:0]
	for _, p := range e.active {
		if dead[p.ID] {
			e.unmount(p.ID)
			continue
		}
		keep = append(keep, p)
		e.update(*p)
	}
	for i := len(keep); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = keep

	e.mountBatch(born)
}

// Running reports whether spawning is active.
func (e *Emitter) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Active returns the number of live particles.
func (e *Emitter) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Spawned returns the number of primary spawns since creation.
func (e *Emitter) Spawned() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spawned
}

// Particles returns a copy of the live particles, oldest first.
func (e *Emitter) Particles() []Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Particle, len(e.active))
	for i, p := range e.active {
		out[i] = *p
	}
	return out
}

func (e *Emitter) schedule() {
	gen := e.gen
	d := e.minGap
	if span := e.maxGap - e.minGap; span > 0 {
		d += time.Duration(e.rng.Int64N(int64(span) + 1))
	}
	e.timer = e.clk.AfterFunc(d, func() { e.fire(gen) })
}

func (e *Emitter) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || gen != e.gen {
		return
	}
	e.timer = nil
	if e.spawn != nil {
		e.mountBatch(e.spawn(e.rng, e.anchor))
		e.spawned++
	}
	e.schedule()
}

func (e *Emitter) cancel() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Emitter) mountBatch(batch []Particle) {
	var head uint64
	for i := range batch {
		p := batch[i]
		if p.Attached {
			p.Parent = head
		}
		id := e.mount(p)
		if i == 0 {
			head = id
		}
	}
}

func (e *Emitter) mount(p Particle) uint64 {
	for len(e.active) >= e.limit {
		e.dropOldest()
	}
	e.nextID++
	p.ID = e.nextID
	p.Attached = false
	e.active = append(e.active, &p)
	e.guard("mount", func() { e.sink.Mount(p) })
	return p.ID
}

// dropOldest retires the oldest particle together with its attachments.
func (e *Emitter) dropOldest() {
	oldest := e.active[0]
	keep := e.active[:0]
	for _, p := range e.active {
		if p == oldest || (p.Parent != 0 && p.Parent == oldest.ID) {
			e.unmount(p.ID)
			continue
		}
		keep = append(keep, p)
	}
	for i := len(keep); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = keep
}

func (e *Emitter) update(p Particle) {
	e.guard("update", func() { e.sink.Update(p) })
}

func (e *Emitter) unmount(id uint64) {
	e.guard("unmount", func() { e.sink.Unmount(id) })
}

// guard keeps a misbehaving sink from taking the emitter down.
func (e *Emitter) guard(op string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("particle: sink %s panicked: %v", op, r)
		}
	}()
	f()
}
