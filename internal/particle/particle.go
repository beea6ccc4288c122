// Package particle runs short-lived decorative particles: wax drips that
// fall and splash, and rising motes. Particles are spawned on a randomized
// timer and stepped by the frame loop; a Sink mirrors them onto the screen.
package particle

import "math/rand/v2"

// FrameRate is the reference rate laws are written against. Stepping by
// dt*FrameRate frames keeps motion independent of the actual frame rate.
const FrameRate = 60

// Kind is the visual role of a particle.
type Kind string

const (
	KindDrip    Kind = "drip"
	KindTrail   Kind = "trail"
	KindSplash  Kind = "splash"
	KindBuildup Kind = "buildup"
	KindMote    Kind = "mote"
)

// Particle is one live particle in scene units.
type Particle struct {
	ID   uint64
	Kind Kind

	X, Y   float64
	VX, VY float64
	AY     float64

	// Origin and heading, used by radial laws.
	OriginX, OriginY float64
	Angle, Distance  float64

	// Age counts frames for most laws and law-specific time for splashes.
	Age     float64
	Life    float64
	Decay   float64
	Opacity float64
	Size    float64
	Stretch float64
	Length  float64
	Hue     float64

	// Parent is the particle this one is attached to; it retires with it.
	Parent uint64
	// Attached marks a spawned particle as belonging to the first particle
	// of its batch. The emitter resolves it to Parent when mounting.
	Attached bool

	Law Law
}

// Law advances a particle by a number of reference frames. It returns false
// when the particle should be retired, plus any particles it spawns.
type Law interface {
	Step(p *Particle, frames float64, rng *rand.Rand) (alive bool, spawn []Particle)
}

// SpawnFunc creates a batch of particles. anchor is the current top of the
// primary fill (the wax surface), in scene units.
type SpawnFunc func(rng *rand.Rand, anchor float64) []Particle

// Sink mirrors particle lifecycle onto a display. Implementations must be
// safe for concurrent use: spawns arrive from timer goroutines.
type Sink interface {
	Mount(p Particle)
	Update(p Particle)
	Unmount(id uint64)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Mount(Particle)  {}
func (NopSink) Update(Particle) {}
func (NopSink) Unmount(uint64) {}
