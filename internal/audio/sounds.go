package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Library returns the built-in sounds. Loop sounds never end on their own.
func Library() map[string]func(beep.SampleRate) beep.Streamer {
	return map[string]func(beep.SampleRate) beep.Streamer{
		SoundCandle:     func(sr beep.SampleRate) beep.Streamer { return NewCrackleGenerator(sr, 1) },
		SoundStopwatch:  func(sr beep.SampleRate) beep.Streamer { return NewTickGenerator(sr, time.Second) },
		SoundExtinguish: extinguish,
		SoundClick:      click,
	}
}

func extinguish(sr beep.SampleRate) beep.Streamer {
	return beep.Take(sr.N(600*time.Millisecond), NewHissGenerator(sr, 2))
}

func click(sr beep.SampleRate) beep.Streamer {
	tone, err := generators.SineTone(sr, 880)
	if err != nil {
		return generators.Silence(sr.N(30 * time.Millisecond))
	}
	return beep.Seq(
		beep.Take(sr.N(30*time.Millisecond), tone),
		generators.Silence(sr.N(10*time.Millisecond)),
	)
}

// CrackleGenerator is a soft flame hum with random wick pops.
type CrackleGenerator struct {
	sr  beep.SampleRate
	pos int
	rng *rand.Rand
	pop float64 // current pop envelope
}

// NewCrackleGenerator creates a crackle generator.
func NewCrackleGenerator(sr beep.SampleRate, seed uint64) *CrackleGenerator {
	return &CrackleGenerator{sr: sr, rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	decay := math.Exp(-1 / (0.004 * float64(g.sr)))
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		hum := 0.03 * (0.7 + 0.3*math.Sin(2*math.Pi*0.5*t)) * math.Sin(2*math.Pi*90*t)

		// Roughly three pops a second.
		if g.rng.Float64() < 3/float64(g.sr) {
			g.pop = 0.25 + 0.2*g.rng.Float64()
		}
		pop := g.pop * (g.rng.Float64()*2 - 1)
		g.pop *= decay

		sample := hum + pop
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}

// TickGenerator emits a short decaying click once per period.
type TickGenerator struct {
	sr     beep.SampleRate
	pos    int
	period int
	click  int
}

// NewTickGenerator creates a tick generator.
func NewTickGenerator(sr beep.SampleRate, period time.Duration) *TickGenerator {
	return &TickGenerator{
		sr:     sr,
		period: sr.N(period),
		click:  sr.N(25 * time.Millisecond),
	}
}

func (g *TickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		p := g.pos % g.period
		sample := 0.0
		if p < g.click {
			t := float64(p) / float64(g.sr)
			sample = 0.2 * math.Exp(-t*180) * math.Sin(2*math.Pi*1800*t)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *TickGenerator) Err() error {
	return nil
}

// HissGenerator is decaying white noise: a flame being snuffed.
type HissGenerator struct {
	sr  beep.SampleRate
	pos int
	rng *rand.Rand
}

// NewHissGenerator creates a hiss generator.
func NewHissGenerator(sr beep.SampleRate, seed uint64) *HissGenerator {
	return &HissGenerator{sr: sr, rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (g *HissGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Min(t/0.01, 1) * math.Exp(-t*5)
		sample := 0.3 * envelope * (g.rng.Float64()*2 - 1)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *HissGenerator) Err() error {
	return nil
}
