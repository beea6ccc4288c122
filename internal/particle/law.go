package particle

import (
	"math"
	"math/rand/v2"
)

// DripLaw is an accelerating fall onto a floor. On impact the drip retires
// and leaves a splash of radial fragments and a buildup puddle.
type DripLaw struct {
	FloorY     float64
	Fragments  int
	MinOpacity float64
}

// DefaultDripLaw matches the candle scene: floor at the candle base.
func DefaultDripLaw() DripLaw {
	return DripLaw{FloorY: 180, Fragments: 5, MinOpacity: 0.35}
}

func (l DripLaw) Step(p *Particle, frames float64, rng *rand.Rand) (bool, []Particle) {
	p.Age += frames
	p.VY += p.AY * frames
	p.Y += p.VY * frames
	p.Opacity = math.Max(l.MinOpacity, p.Opacity-(0.004+rng.Float64()*0.002)*frames)
	p.Stretch = 1 + p.VY*0.15

	if p.Y < l.FloorY {
		return true, nil
	}
	p.Y = l.FloorY
	return false, l.splash(p.X, l.FloorY, rng)
}

func (l DripLaw) splash(x, y float64, rng *rand.Rand) []Particle {
	out := make([]Particle, 0, l.Fragments+1)
	out = append(out, Particle{
		Kind:    KindBuildup,
		X:       x,
		Y:       y,
		Size:    3 + rng.Float64()*3,
		Stretch: 0.5,
		Opacity: 0.8,
		Law:     BuildupLaw{Fade: 0.002},
	})
	for i := 0; i < l.Fragments; i++ {
		out = append(out, Particle{
			Kind:     KindSplash,
			X:        x,
			Y:        y,
			OriginX:  x,
			OriginY:  y,
			Angle:    (rng.Float64() - 0.5) * math.Pi,
			Distance: 3 + rng.Float64()*4,
			Size:     1,
			Opacity:  0.7,
			Law:      SplashLaw{},
		})
	}
	return out
}

// SplashLaw flings a fragment outward from its origin while fading.
// Age here is splash time, advancing 0.1 per frame.
type SplashLaw struct{}

func (SplashLaw) Step(p *Particle, frames float64, _ *rand.Rand) (bool, []Particle) {
	p.Age += 0.1 * frames
	t := p.Age
	p.X = p.OriginX + math.Cos(p.Angle)*p.Distance*t
	p.Y = p.OriginY + math.Sin(p.Angle)*p.Distance*t*0.5
	p.Opacity = math.Max(0, 0.7-t*0.3)
	return p.Opacity > 0, nil
}

// BuildupLaw is a static puddle that slowly fades out.
type BuildupLaw struct {
	Fade float64
}

func (l BuildupLaw) Step(p *Particle, frames float64, _ *rand.Rand) (bool, []Particle) {
	p.Age += frames
	p.Opacity -= l.Fade * frames
	if p.Opacity <= 0 {
		p.Opacity = 0
		return false, nil
	}
	return true, nil
}

// TrailLaw keeps a static streak in place. Trails are attached to a drip
// and retire with it.
type TrailLaw struct{}

func (TrailLaw) Step(p *Particle, frames float64, _ *rand.Rand) (bool, []Particle) {
	p.Age += frames
	return true, nil
}

// MoteLaw drifts linearly and loses life at a per-particle rate.
type MoteLaw struct{}

func (MoteLaw) Step(p *Particle, frames float64, _ *rand.Rand) (bool, []Particle) {
	p.Age += frames
	p.X += p.VX * frames
	p.Y += p.VY * frames
	p.Life -= p.Decay * frames
	if p.Life <= 0 {
		p.Life = 0
		p.Opacity = 0
		return false, nil
	}
	p.Opacity = p.Life
	return true, nil
}

// DripSpawner creates a drip on the wax surface plus its attached trail.
func DripSpawner(law DripLaw) SpawnFunc {
	return func(rng *rand.Rand, anchor float64) []Particle {
		x := 30 + rng.Float64()*40
		y := anchor + 2
		size := 1.5 + rng.Float64()*1.5
		drip := Particle{
			Kind:    KindDrip,
			X:       x,
			Y:       y,
			VY:      0.4 + rng.Float64()*0.3,
			AY:      0.06 + rng.Float64()*0.04,
			Size:    size,
			Stretch: 1,
			Opacity: 0.95,
			Law:     law,
		}
		trail := Particle{
			Kind:     KindTrail,
			X:        x,
			Y:        y,
			VX:       (rng.Float64() - 0.5) * 5,
			Length:   20 + rng.Float64()*30,
			Size:     1,
			Opacity:  0.5,
			Attached: true,
			Law:      TrailLaw{},
		}
		return []Particle{drip, trail}
	}
}

// MoteSpawner creates one teal mote scattered around the flame.
func MoteSpawner() SpawnFunc {
	return func(rng *rand.Rand, anchor float64) []Particle {
		return []Particle{{
			Kind:    KindMote,
			X:       50 + (rng.Float64()-0.5)*60,
			Y:       anchor + (rng.Float64()-0.5)*40,
			VX:      (rng.Float64() - 0.5) * 0.4,
			VY:      -0.2 - rng.Float64()*0.4,
			Life:    1,
			Decay:   0.01 + rng.Float64()*0.01,
			Opacity: 1,
			Size:    1 + rng.Float64(),
			Hue:     170 + rng.Float64()*20,
			Law:     MoteLaw{},
		}}
	}
}
