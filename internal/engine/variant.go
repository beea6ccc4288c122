package engine

import (
	"fmt"
	"time"

	"github.com/sweeney/nightfall-candle/internal/audio"
	"github.com/sweeney/nightfall-candle/internal/logic"
	"github.com/sweeney/nightfall-candle/internal/particle"
)

// Variant parameterizes the engine: which particles it emits, what it
// sounds like and how it says goodbye.
type Variant struct {
	Name         string
	Spawn        particle.SpawnFunc
	SpawnMin     time.Duration
	SpawnMax     time.Duration
	MaxParticles int
	Loop         string
	Message      logic.MessagePicker
}

// Candle drips wax every 400-1000ms and picks a random farewell.
func Candle() Variant {
	return Variant{
		Name:         "candle",
		Spawn:        particle.DripSpawner(particle.DefaultDripLaw()),
		SpawnMin:     400 * time.Millisecond,
		SpawnMax:     1000 * time.Millisecond,
		MaxParticles: particle.DefaultMaxActive,
		Loop:         audio.SoundCandle,
		Message:      logic.RandomCandleMessage,
	}
}

// Focus releases a teal mote every 200ms and grades the session length.
func Focus() Variant {
	return Variant{
		Name:         "focus",
		Spawn:        particle.MoteSpawner(),
		SpawnMin:     200 * time.Millisecond,
		SpawnMax:     200 * time.Millisecond,
		MaxParticles: 50,
		Loop:         audio.SoundStopwatch,
		Message:      logic.FocusMessage,
	}
}

// VariantByName returns a built-in variant.
func VariantByName(name string) (Variant, error) {
	switch name {
	case "candle", "":
		return Candle(), nil
	case "focus":
		return Focus(), nil
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}
